package proxy

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// ErrorHandler defines the function interface the router uses to handle any
// error that occurs while processing routes.
type ErrorHandler func(context.Context, events.APIGatewayV2HTTPRequest, error) (events.APIGatewayProxyResponse, error)

// CatchAllHandler defines the function interface the router uses to handle any
// request that doesn't match a route.
type CatchAllHandler func(context.Context, events.APIGatewayV2HTTPRequest) (events.APIGatewayProxyResponse, error)

// Router will route an incoming events.APIGatewayV2HTTPRequest the appropriate
// route based upon the router configuration and then return the
// events.APIGatewayProxyResponse.
//
// Route matching loops through all routes in the order they were added and
// executes the first one that matches.
//
// If the CatchAll handler is set any request that doesn't match a route will be
// handled by it.
//
// If the CatchError handler is set any route that returns an error will first
// be passed into the hander for additional processing.
//
// Example:
//
//	router := &proxy.Router{}
//	router.Endpoint("/ping", proxy.GET, proxy.CORS{AllowOrigin: "*"}, func(ctx *proxy.RouteContext) (events.APIGatewayProxyResponse, error) {
//		return proxy.JSON(200, map[string]string{"pong": ctx.Params["q"]})
//	})
//
//	if !router.Valid() {
//		log.Fatal(router.BuildErrors())
//	}
//
//	lambda.Start(router.Route)
type Router struct {
	Routes     []*Route
	CatchAll   CatchAllHandler
	CatchError ErrorHandler

	errors []error
}

// Valid returns true if the routers' routes have all been built successfully.
// Otherwise false.
func (router *Router) Valid() bool {
	return len(router.errors) == 0
}

// AddRoute appends route to the list of routes used for request matching.
func (router *Router) AddRoute(route *Route) {
	router.Routes = append(router.Routes, route)
}

// AddBuildError appends an error to the list of router errors.
func (router *Router) AddBuildError(err error) {
	router.errors = append(router.errors, err)
}

// BuildErrors returns a single error that encapsulates all the route errors
// found during router construction.
func (router *Router) BuildErrors() error {
	topError := errors.New("failed building router")

	for _, err := range router.errors {
		topError = errors.Wrap(topError, err.Error())
	}

	return topError
}

// AddRouteIfNoError appends the provided route if no error is present.
// Otherwise it adds the error to the build errors.
func (router *Router) AddRouteIfNoError(route *Route, err error) {
	if err != nil {
		router.AddBuildError(err)
	} else {
		router.AddRoute(route)
	}
}

// Handle adds a new route for method with the specified pattern and handler.
func (router *Router) Handle(method HttpMethod, match string, handler RouteHandler) {
	router.AddRouteIfNoError(NewRoute(method, match, handler))
}

// GET adds a new GET route with the specified pattern match and handler.
func (router *Router) GET(match string, handler RouteHandler) {
	router.Handle(GET, match, handler)
}

// POST adds a new POST route with the specified pattern match and handler.
func (router *Router) POST(match string, handler RouteHandler) {
	router.Handle(POST, match, handler)
}

// OPTIONS adds a new OPTIONS route with the specified pattern match and handler.
func (router *Router) OPTIONS(match string, handler RouteHandler) {
	router.Handle(OPTIONS, match, handler)
}

// Endpoint registers a cors enabled resource served by a single method.
//
// OPTIONS requests get an empty 204, every method other than the designated
// one gets a 405, and all of them carry the cors headers.
func (router *Router) Endpoint(match string, method HttpMethod, cors CORS, handler RouteHandler) {
	if method == OPTIONS {
		router.AddBuildError(fmt.Errorf("endpoint '%s' cannot be served by OPTIONS", match))
		return
	}

	router.Handle(method, match, cors.Wrap(handler))
	router.Handle(OPTIONS, match, cors.Wrap(Preflight))

	others := make([]HttpMethod, 0, len(Methods))
	for _, m := range Methods {
		if m != method && m != OPTIONS {
			others = append(others, m)
		}
	}

	router.AddRouteIfNoError(NewMultiRoute(others, match, cors.Wrap(MethodNotAllowed)))
}

// AddCatchAllHandler attaches a catchall handler to the router.
func (router *Router) AddCatchAllHandler(handler CatchAllHandler) {
	router.CatchAll = handler
}

// AddErrorHandler attaches a error handler to the router.
func (router *Router) AddErrorHandler(handler ErrorHandler) {
	router.CatchError = handler
}

// routeInternal executes the first matching route, falling back to the catch
// all handler. Without either an error is returned.
func (router *Router) routeInternal(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayProxyResponse, error) {
	for _, route := range router.Routes {
		matched, groups := route.IsMatch(request)

		if !matched {
			continue
		}

		return route.Follow(ctx, request, groups)
	}

	if router.CatchAll != nil {
		return router.CatchAll(ctx, request)
	}

	return events.APIGatewayProxyResponse{}, fmt.Errorf("'%s %s' not found", request.RequestContext.HTTP.Method, request.RawPath)
}

// Route dispatches request to the first matching route, or the catch all
// handler when nothing matches.
//
// If there is an error handler set and an error occurs the error handler is
// executed and its result returned.
func (router *Router) Route(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayProxyResponse, error) {
	if router.CatchError == nil {
		return router.routeInternal(ctx, request)
	}

	response, err := router.routeInternal(ctx, request)

	if err != nil {
		return router.CatchError(ctx, request, err)
	}

	return response, nil
}
