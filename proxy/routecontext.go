package proxy

import (
	"context"
	"encoding/base64"
	"net/url"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// RouteContext contains all the request information for a route when matched.
type RouteContext struct {
	Context context.Context
	Request events.APIGatewayV2HTTPRequest
	Params  map[string]string
}

// Body returns a string representation of the request body
func (ctx *RouteContext) Body() (string, error) {
	if ctx.Request.IsBase64Encoded {
		b, err := base64.StdEncoding.DecodeString(ctx.Request.Body)
		if err != nil {
			return "", errors.Wrapf(err, "unable to decode request body for %s %s", ctx.Request.RequestContext.HTTP.Method, ctx.Request.RawPath)
		}

		return string(b), nil
	}

	return ctx.Request.Body, nil
}

// Query returns the request query parameters. The raw query string is
// preferred since it keeps repeated keys apart; api gateway joins them with
// commas in QueryStringParameters.
func (ctx *RouteContext) Query() url.Values {
	if ctx.Request.RawQueryString != "" {
		if values, err := url.ParseQuery(ctx.Request.RawQueryString); err == nil {
			return values
		}
	}

	values := url.Values{}
	for k, v := range ctx.Request.QueryStringParameters {
		values.Set(k, v)
	}

	return values
}

// Header returns the first request header matching name, ignoring case.
func (ctx *RouteContext) Header(name string) string {
	if v, ok := ctx.Request.Headers[strings.ToLower(name)]; ok {
		return v
	}

	for k, v := range ctx.Request.Headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}

	return ""
}

// Method returns the request's http method.
func (ctx *RouteContext) Method() string {
	return strings.ToUpper(ctx.Request.RequestContext.HTTP.Method)
}
