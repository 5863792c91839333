package staticmap

import (
	"context"
	"net/url"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medipay/relayfn/config"
)

func TestProxy_Render_coordinatesSkipGeocode(t *testing.T) {
	stub := newNaverStub(t)
	n := stub.naver()

	q, _ := url.ParseQuery("lat=37.5&lng=127.0&w=300&h=300")
	img, err := NewProxy(n, n, config.DefaultMapAddress, zap.NewNop()).Render(context.Background(), ParseParams(q))
	require.NoError(t, err)

	assert.Empty(t, stub.geocodeQueries)
	require.Len(t, stub.rasterQueries, 1)
	assert.Equal(t, "127.0,37.5", stub.rasterQueries[0].Get("center"))
	assert.Equal(t, "300", stub.rasterQueries[0].Get("w"))
	assert.Equal(t, "300", stub.rasterQueries[0].Get("h"))
	assert.Equal(t, "16", stub.rasterQueries[0].Get("level"))
	assert.Equal(t, []string{"type:d|size:mid|pos:127.0 37.5|label:A"}, stub.rasterQueries[0]["markers"])
	assert.Equal(t, []byte(stub.rasterBody), img.Data)
	assert.Equal(t, Coordinate{Lng: "127.0", Lat: "37.5"}, img.Center)
}

func TestProxy_Render_geocodesAddress(t *testing.T) {
	stub := newNaverStub(t)
	n := stub.naver()

	img, err := NewProxy(n, n, config.DefaultMapAddress, zap.NewNop()).Render(context.Background(), ParseParams(url.Values{"address": {"강남대로 359"}, "lat": {"37.5"}}))
	require.NoError(t, err)

	assert.Equal(t, []string{"강남대로 359"}, stub.geocodeQueries)
	assert.Equal(t, "127.0276368,37.4979502", stub.rasterQueries[0].Get("center"))
	assert.Equal(t, "127.0276368", img.Center.Lng)
}

func TestProxy_Render_defaultAddress(t *testing.T) {
	stub := newNaverStub(t)
	n := stub.naver()

	_, err := NewProxy(n, n, config.DefaultMapAddress, zap.NewNop()).Render(context.Background(), ParseParams(url.Values{}))
	require.NoError(t, err)

	assert.Equal(t, []string{config.DefaultMapAddress}, stub.geocodeQueries)
}

func TestProxy_Render_fallbackCenter(t *testing.T) {
	stub := newNaverStub(t)
	stub.geocodeBody = `{"status":"OK","addresses":[]}`
	n := stub.naver()

	img, err := NewProxy(n, n, config.DefaultMapAddress, zap.NewNop()).Render(context.Background(), ParseParams(url.Values{"address": {"nowhere"}}))
	require.NoError(t, err)

	assert.Equal(t, FallbackCoordinate, img.Center)
	assert.Equal(t, "127.027621,37.497942", stub.rasterQueries[0].Get("center"))
}

func TestProxy_Render_geocodeFailureSkipsRaster(t *testing.T) {
	stub := newNaverStub(t)
	stub.geocodeStatus = 500
	n := stub.naver()

	_, err := NewProxy(n, n, config.DefaultMapAddress, zap.NewNop()).Render(context.Background(), ParseParams(url.Values{"address": {"x"}}))

	assert.True(t, errors.Is(err, ErrGeocodeFailed))
	assert.Empty(t, stub.rasterQueries)
}

func TestProxy_Render_rasterFailure(t *testing.T) {
	stub := newNaverStub(t)
	stub.rasterStatus = 429
	n := stub.naver()

	q, _ := url.ParseQuery("lat=37.5&lng=127.0")
	_, err := NewProxy(n, n, config.DefaultMapAddress, zap.NewNop()).Render(context.Background(), ParseParams(q))

	assert.True(t, errors.Is(err, ErrRasterFailed))
	assert.False(t, errors.Is(err, ErrGeocodeFailed))
}

func TestProxy_Render_passesMarkersAndScale(t *testing.T) {
	stub := newNaverStub(t)
	n := stub.naver()

	q := url.Values{"lat": {"37.5"}, "lng": {"127.0"}, "scale": {"2"}, "markers": {"type:t|pos:127 37", "type:d|pos:126 37"}}
	_, err := NewProxy(n, n, config.DefaultMapAddress, zap.NewNop()).Render(context.Background(), ParseParams(q))
	require.NoError(t, err)

	assert.Equal(t, "2", stub.rasterQueries[0].Get("scale"))
	assert.Equal(t, []string{"type:t|pos:127 37", "type:d|pos:126 37"}, stub.rasterQueries[0]["markers"])
}
