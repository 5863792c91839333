package staticmap

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseParams_defaults(t *testing.T) {
	p := ParseParams(url.Values{})

	assert.Equal(t, Params{Width: 640, Height: 480, Level: 16}, p)
	assert.False(t, p.HasCoordinates())
}

func TestParseParams_clamping(t *testing.T) {
	cases := []struct {
		query  string
		width  int
		height int
		level  int
	}{
		{"w=300&h=300&level=10", 300, 300, 10},
		{"w=5000&h=5000&level=99", 2048, 2048, 20},
		{"w=0&h=0&level=0", 640, 480, 16},
		{"w=50&h=-20&level=-1", 100, 100, 0},
		{"w=abc&h=px12&level=", 640, 480, 16},
		{"w=300px&h=12.5&level=7.9", 300, 100, 7},
		{"w=%20320%20&h=%2B200&level=1", 320, 200, 1},
		{"w=99999999999999999999&h=-99999999999999999999&level=00", 2048, 100, 16},
	}

	for _, c := range cases {
		q, err := url.ParseQuery(c.query)
		assert.NoError(t, err)

		p := ParseParams(q)
		assert.Equal(t, c.width, p.Width, c.query)
		assert.Equal(t, c.height, p.Height, c.query)
		assert.Equal(t, c.level, p.Level, c.query)
	}
}

func TestParseParams_coordinates(t *testing.T) {
	p := ParseParams(url.Values{"lat": {"37.5"}, "lng": {"127.0"}})
	assert.True(t, p.HasCoordinates())

	p = ParseParams(url.Values{"lat": {"37.5"}})
	assert.False(t, p.HasCoordinates())

	p = ParseParams(url.Values{"lat": {" "}, "lng": {"127.0"}})
	assert.False(t, p.HasCoordinates())
}

func TestParseParams_markers(t *testing.T) {
	p := ParseParams(url.Values{"markers": {"type:t|pos:127 37", "", "  ", "type:d|pos:126 37"}})

	assert.Equal(t, []string{"type:t|pos:127 37", "type:d|pos:126 37"}, p.Markers)
}

func TestRasterQuery(t *testing.T) {
	c := Coordinate{Lng: "127.0", Lat: "37.5"}

	q := RasterQuery(Params{Width: 300, Height: 200, Level: 12}, c)
	assert.Equal(t, url.Values{
		"w":       {"300"},
		"h":       {"200"},
		"center":  {"127.0,37.5"},
		"level":   {"12"},
		"markers": {"type:d|size:mid|pos:127.0 37.5|label:A"},
	}, q)

	q = RasterQuery(Params{Width: 300, Height: 200, Level: 12, Scale: "2", Markers: []string{"a", "b"}}, c)
	assert.Equal(t, "2", q.Get("scale"))
	assert.Equal(t, []string{"a", "b"}, q["markers"])
}
