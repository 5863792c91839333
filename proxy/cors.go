package proxy

import (
	"github.com/aws/aws-lambda-go/events"
)

// CORS holds the cross-origin headers attached to every response of an
// endpoint.
type CORS struct {
	AllowOrigin  string
	AllowMethods string
	AllowHeaders string
}

// Headers returns the non-empty cors values keyed by header name.
func (c CORS) Headers() map[string]string {
	h := map[string]string{}
	if c.AllowOrigin != "" {
		h["Access-Control-Allow-Origin"] = c.AllowOrigin
	}
	if c.AllowMethods != "" {
		h["Access-Control-Allow-Methods"] = c.AllowMethods
	}
	if c.AllowHeaders != "" {
		h["Access-Control-Allow-Headers"] = c.AllowHeaders
	}

	return h
}

// Apply sets the cors headers on response.
func (c CORS) Apply(response events.APIGatewayProxyResponse) events.APIGatewayProxyResponse {
	if response.Headers == nil {
		response.Headers = map[string]string{}
	}
	for k, v := range c.Headers() {
		response.Headers[k] = v
	}

	return response
}

// Wrap returns a handler that applies the cors headers to whatever the
// wrapped handler returns, errors included.
func (c CORS) Wrap(handler RouteHandler) RouteHandler {
	return func(ctx *RouteContext) (events.APIGatewayProxyResponse, error) {
		response, err := handler(ctx)
		return c.Apply(response), err
	}
}
