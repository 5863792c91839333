// Package proxy provides utilities for writing aws lambda functions that act as
// aws api gateway v2 (http) integrations. Specifically they assist in adding
// routing functionality and processing the entire request/response through the
// lambda via events.APIGatewayV2HTTPRequest and events.APIGatewayProxyResponse.
//
// Endpoints registered through Router.Endpoint answer cors pre-flight requests
// and reject unserved methods on their own, so handlers only deal with the
// designated method. NewHTTPHandler runs the same router behind net/http.
package proxy
