package proxy

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/pkg/errors"
)

// ErrorBody is the json document returned for every failed request.
type ErrorBody struct {
	Error string `json:"error"`
}

// JSON returns a response with v marshalled as the body.
func JSON(status int, v interface{}) (events.APIGatewayProxyResponse, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayProxyResponse{}, errors.Wrapf(err, "failed marshalling %T", v)
	}

	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
		Body:       string(b),
	}, nil
}

// Error returns a json response of the form {"error": msg}.
func Error(status int, msg string) events.APIGatewayProxyResponse {
	// ErrorBody always marshals
	response, _ := JSON(status, ErrorBody{Error: msg})
	return response
}

// Binary returns a base64 encoded response carrying raw bytes. Extra headers
// are copied after the content type.
func Binary(status int, contentType string, body []byte, headers map[string]string) events.APIGatewayProxyResponse {
	h := map[string]string{"Content-Type": contentType}
	for k, v := range headers {
		h[k] = v
	}

	return events.APIGatewayProxyResponse{
		StatusCode:      status,
		Headers:         h,
		Body:            base64.StdEncoding.EncodeToString(body),
		IsBase64Encoded: true,
	}
}

// Empty returns a bodiless response.
func Empty(status int) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{},
	}
}

// MethodNotAllowed answers any method an endpoint does not serve.
func MethodNotAllowed(*RouteContext) (events.APIGatewayProxyResponse, error) {
	return Error(http.StatusMethodNotAllowed, "Method Not Allowed"), nil
}

// Preflight answers cors pre-flight requests.
func Preflight(*RouteContext) (events.APIGatewayProxyResponse, error) {
	return Empty(http.StatusNoContent), nil
}
