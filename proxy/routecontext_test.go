package proxy

import (
	"encoding/base64"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteContext_Body(t *testing.T) {
	request := testRequest(POST, "/mail")
	request.Body = `{"email":"a@b.com"}`

	ctx := &RouteContext{Request: request}

	actual, err := ctx.Body()

	assert.NoError(t, err)
	assert.Equal(t, `{"email":"a@b.com"}`, actual)
}

func TestRouteContext_Body_encoded(t *testing.T) {
	request := testRequest(POST, "/mail")
	request.Body = base64.StdEncoding.EncodeToString([]byte(`{"text":"안녕"}`))
	request.IsBase64Encoded = true

	ctx := &RouteContext{Request: request}

	actual, err := ctx.Body()

	assert.NoError(t, err)
	assert.Equal(t, `{"text":"안녕"}`, actual)
}

func TestRouteContext_Body_error(t *testing.T) {
	request := testRequest(POST, "/mail")
	request.Body = "sefdfxsdf.d.dsd"
	request.IsBase64Encoded = true

	ctx := &RouteContext{Request: request}

	_, err := ctx.Body()

	assert.Error(t, err)
}

func TestRouteContext_Query_raw(t *testing.T) {
	request := testRequest(GET, "/map")
	request.RawQueryString = "markers=a&markers=b&w=300"
	request.QueryStringParameters = map[string]string{"markers": "a,b", "w": "300"}

	ctx := &RouteContext{Request: request}

	assert.Equal(t, url.Values{"markers": {"a", "b"}, "w": {"300"}}, ctx.Query())
}

func TestRouteContext_Query_parameters(t *testing.T) {
	request := testRequest(GET, "/map")
	request.QueryStringParameters = map[string]string{"lat": "37.5", "lng": "127.0"}

	ctx := &RouteContext{Request: request}

	assert.Equal(t, "37.5", ctx.Query().Get("lat"))
	assert.Equal(t, "127.0", ctx.Query().Get("lng"))
}

func TestRouteContext_Header(t *testing.T) {
	request := testRequest(GET, "/map")
	request.Headers = map[string]string{"content-type": "application/json", "X-Custom": "yes"}

	ctx := &RouteContext{Request: request}

	assert.Equal(t, "application/json", ctx.Header("Content-Type"))
	assert.Equal(t, "yes", ctx.Header("x-custom"))
	assert.Equal(t, "", ctx.Header("authorization"))
	assert.Equal(t, "GET", ctx.Method())
}
