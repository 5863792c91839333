package proxy

import (
	"context"
	"encoding/base64"
	"io"
	"net"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
)

// Dispatcher is anything that can answer an api gateway request, normally a
// *Router.
type Dispatcher interface {
	Route(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayProxyResponse, error)
}

// NewHTTPHandler serves a Dispatcher over plain net/http so the same routes run
// outside of lambda.
func NewHTTPHandler(d Dispatcher) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		request, err := RequestFromHTTP(r)
		if err != nil {
			writeResponse(w, Error(http.StatusBadRequest, "unreadable request body"))
			return
		}

		response, err := d.Route(r.Context(), request)
		if err != nil {
			writeResponse(w, Error(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)))
			return
		}

		writeResponse(w, response)
	})
}

// RequestFromHTTP converts r into the event api gateway would deliver for it.
// Header names are lower cased and repeated values comma joined, as the http
// api payload format 2.0 does.
func RequestFromHTTP(r *http.Request) (events.APIGatewayV2HTTPRequest, error) {
	var body []byte
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return events.APIGatewayV2HTTPRequest{}, err
		}
		body = b
	}

	headers := make(map[string]string, len(r.Header))
	for k, v := range r.Header {
		headers[strings.ToLower(k)] = strings.Join(v, ",")
	}

	query := make(map[string]string)
	for k, v := range r.URL.Query() {
		query[k] = strings.Join(v, ",")
	}

	sourceIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		sourceIP = host
	}

	request := events.APIGatewayV2HTTPRequest{
		Version:               "2.0",
		RawPath:               r.URL.Path,
		RawQueryString:        r.URL.RawQuery,
		Headers:               headers,
		QueryStringParameters: query,
		RequestContext: events.APIGatewayV2HTTPRequestContext{
			HTTP: events.APIGatewayV2HTTPRequestContextHTTPDescription{
				Method:    r.Method,
				Path:      r.URL.Path,
				Protocol:  r.Proto,
				SourceIP:  sourceIP,
				UserAgent: r.UserAgent(),
			},
		},
	}

	if utf8.Valid(body) {
		request.Body = string(body)
	} else {
		request.Body = base64.StdEncoding.EncodeToString(body)
		request.IsBase64Encoded = true
	}

	return request, nil
}

func writeResponse(w http.ResponseWriter, response events.APIGatewayProxyResponse) {
	for k, v := range response.Headers {
		w.Header().Set(k, v)
	}
	for k, values := range response.MultiValueHeaders {
		for _, v := range values {
			w.Header().Add(k, v)
		}
	}

	status := response.StatusCode
	if status == 0 {
		status = http.StatusOK
	}

	body := []byte(response.Body)
	if response.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(response.Body)
		if err != nil {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
			return
		}
		body = decoded
	}

	w.WriteHeader(status)
	_, _ = w.Write(body)
}
