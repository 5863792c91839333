// Package staticmap proxies the naver static map api, keeping the api keys on
// the server.
package staticmap

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Response headers of a rendered map.
const (
	ContentType  = "image/png"
	CacheControl = "public, max-age=300"
)

// Geocoder resolves free text addresses.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (Coordinate, bool, error)
}

// Rasterizer renders a map image for a raster query.
type Rasterizer interface {
	Raster(ctx context.Context, q url.Values) ([]byte, error)
}

// Image is a rendered map ready to be returned.
type Image struct {
	Data   []byte
	Center Coordinate
}

// Proxy resolves the map center and fetches the raster, strictly in that
// order.
type Proxy struct {
	geocoder       Geocoder
	raster         Rasterizer
	defaultAddress string
	logger         *zap.Logger
}

// NewProxy returns a map proxy. defaultAddress is geocoded when a request
// names neither an address nor coordinates.
func NewProxy(geocoder Geocoder, raster Rasterizer, defaultAddress string, logger *zap.Logger) *Proxy {
	return &Proxy{
		geocoder:       geocoder,
		raster:         raster,
		defaultAddress: defaultAddress,
		logger:         logger,
	}
}

// Resolve returns the center for p, geocoding only when p lacks coordinates.
func (p *Proxy) Resolve(ctx context.Context, params Params) (Coordinate, error) {
	if params.HasCoordinates() {
		return Coordinate{Lng: params.Lng, Lat: params.Lat}, nil
	}

	address := params.Address
	if address == "" {
		address = p.defaultAddress
	}

	c, found, err := p.geocoder.Geocode(ctx, address)
	if err != nil {
		return Coordinate{}, err
	}

	if !found {
		p.logger.Warn("geocode matched nothing, using fallback center",
			zap.String("address", address),
			zap.String("center", FallbackCoordinate.Center()))
		return FallbackCoordinate, nil
	}

	return c, nil
}

// Render resolves the center and fetches the image.
func (p *Proxy) Render(ctx context.Context, params Params) (Image, error) {
	start := time.Now()

	center, err := p.Resolve(ctx, params)
	if err != nil {
		return Image{}, errors.Wrap(err, "failed resolving map center")
	}

	data, err := p.raster.Raster(ctx, RasterQuery(params, center))
	if err != nil {
		return Image{}, errors.Wrap(err, "failed fetching raster")
	}

	p.logger.Debug("map rendered",
		zap.String("center", center.Center()),
		zap.Int("w", params.Width),
		zap.Int("h", params.Height),
		zap.Int("level", params.Level),
		zap.Int("bytes", len(data)),
		zap.Duration("duration", time.Since(start)))

	return Image{Data: data, Center: center}, nil
}
