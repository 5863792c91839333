package staticmap

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Bounds applied to every raster request.
const (
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultLevel  = 16

	MinSize  = 100
	MaxSize  = 2048
	MinLevel = 0
	MaxLevel = 20
)

// Params describes one map render. Width, Height and Level are always within
// bounds once produced by ParseParams.
type Params struct {
	Address string
	Lat     string
	Lng     string
	Width   int
	Height  int
	Level   int
	Scale   string
	Markers []string
}

// ParseParams reads the map query string. Sizes and zoom that are missing,
// zero or without a leading integer take their defaults and are then clamped.
func ParseParams(q url.Values) Params {
	p := Params{
		Address: strings.TrimSpace(q.Get("address")),
		Lat:     strings.TrimSpace(q.Get("lat")),
		Lng:     strings.TrimSpace(q.Get("lng")),
		Width:   clamp(intOr(q.Get("w"), DefaultWidth), MinSize, MaxSize),
		Height:  clamp(intOr(q.Get("h"), DefaultHeight), MinSize, MaxSize),
		Level:   clamp(intOr(q.Get("level"), DefaultLevel), MinLevel, MaxLevel),
		Scale:   strings.TrimSpace(q.Get("scale")),
	}

	for _, m := range q["markers"] {
		if strings.TrimSpace(m) != "" {
			p.Markers = append(p.Markers, m)
		}
	}

	return p
}

// HasCoordinates reports whether the caller supplied both lat and lng.
func (p Params) HasCoordinates() bool {
	return p.Lat != "" && p.Lng != ""
}

// intOr reads the leading optional sign and digits of s, so "300px" is 300
// and "7.9" is 7. Zero and unparseable input give fallback. Values too large
// for an int saturate and are left to clamp.
func intOr(s string, fallback int) int {
	s = strings.TrimSpace(s)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return fallback
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return fallback
	}
	if n == 0 {
		return fallback
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Coordinate is a naver style position; x is longitude and y latitude, both
// kept as the provider's strings.
type Coordinate struct {
	Lng string
	Lat string
}

// FallbackCoordinate is used when geocoding finds nothing, near Gangnam
// station.
var FallbackCoordinate = Coordinate{Lng: "127.027621", Lat: "37.497942"}

// Center renders the coordinate as the raster api's center parameter.
func (c Coordinate) Center() string {
	return c.Lng + "," + c.Lat
}

// DefaultMarker is the single marker drawn when the caller sends none.
func DefaultMarker(c Coordinate) string {
	return fmt.Sprintf("type:d|size:mid|pos:%s %s|label:A", c.Lng, c.Lat)
}

// RasterQuery builds the raster api query for p centered on c.
func RasterQuery(p Params, c Coordinate) url.Values {
	q := url.Values{}
	q.Set("w", strconv.Itoa(p.Width))
	q.Set("h", strconv.Itoa(p.Height))
	q.Set("center", c.Center())
	q.Set("level", strconv.Itoa(p.Level))
	if p.Scale != "" {
		q.Set("scale", p.Scale)
	}

	if len(p.Markers) == 0 {
		q.Add("markers", DefaultMarker(c))
	}
	for _, m := range p.Markers {
		q.Add("markers", m)
	}

	return q
}
