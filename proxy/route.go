package proxy

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// RouteHandler defines the function interface the route uses to execute a
// request when the route is matched.
type RouteHandler func(*RouteContext) (events.APIGatewayProxyResponse, error)

// Route defines a set of HttpMethods and a Regex that are used in combination
// for matching against an incoming request. When a match occurs the configured
// handler is called.
type Route struct {
	Methods []HttpMethod
	Regex   *regexp.Regexp
	Handler RouteHandler
}

// NewRoute returns a Route for the specified method, pattern and handler.
func NewRoute(method HttpMethod, pattern string, handler RouteHandler) (*Route, error) {
	return NewMultiRoute([]HttpMethod{method}, pattern, handler)
}

// NewMultiRoute returns a Route that matches any of the given methods.
func NewMultiRoute(methods []HttpMethod, pattern string, handler RouteHandler) (*Route, error) {
	if len(methods) == 0 {
		return nil, fmt.Errorf("no methods given for pattern '%s'", pattern)
	}

	rx, err := regexp.Compile("^" + pattern + "/?$")
	if err != nil {
		return nil, errors.Wrapf(err, "failed compiling regex pattern '%s'", pattern)
	}

	return &Route{
		Methods: methods,
		Regex:   rx,
		Handler: handler,
	}, nil
}

// String returns a string representation of this route.
func (route *Route) String() string {
	names := make([]string, 0, len(route.Methods))
	for _, m := range route.Methods {
		names = append(names, m.String())
	}

	return fmt.Sprintf("%s %s", strings.Join(names, "|"), route.Regex)
}

func (route *Route) acceptsMethod(name string) bool {
	method, err := ParseHttpMethod(name)
	if err != nil {
		return false
	}

	for _, m := range route.Methods {
		if m == method {
			return true
		}
	}

	return false
}

// IsMatch return true if there is a match otherwise false. The match groups are
// also returned.
func (route *Route) IsMatch(request events.APIGatewayV2HTTPRequest) (bool, []string) {
	if !route.acceptsMethod(request.RequestContext.HTTP.Method) {
		return false, nil
	}

	groups := route.Regex.FindStringSubmatch(request.RawPath)
	if len(groups) == 0 {
		return false, nil
	}

	return true, groups
}

// Context constructs a RouteContext for the route for passing to the handler.
// Params holds api gateway path parameters, the first value of every query
// parameter and the named regex groups, later sources overriding earlier ones.
func (route *Route) Context(ctx context.Context, request events.APIGatewayV2HTTPRequest, groups []string) (*RouteContext, error) {
	if len(groups) == 0 {
		return nil, fmt.Errorf("no matches available, unable to generate context for route %v", route)
	}

	params := make(map[string]string)
	for k, v := range request.PathParameters {
		params[k] = v
	}

	rctx := &RouteContext{
		Context: ctx,
		Request: request,
		Params:  params,
	}

	for k, v := range rctx.Query() {
		if len(v) > 0 && v[0] != "" {
			params[k] = v[0]
		}
	}

	for i, name := range route.Regex.SubexpNames() {
		if i != 0 && name != "" && groups[i] != "" {
			params[name] = groups[i]
		}
	}

	return rctx, nil
}

// Follow extracts the route context for the given request and executed the
// route's handler function.
func (route *Route) Follow(ctx context.Context, request events.APIGatewayV2HTTPRequest, groups []string) (events.APIGatewayProxyResponse, error) {
	rctx, err := route.Context(ctx, request, groups)
	if err != nil {
		return events.APIGatewayProxyResponse{}, errors.Wrapf(err, "failed getting context for route %v", route.Regex)
	}

	return route.Handler(rctx)
}
