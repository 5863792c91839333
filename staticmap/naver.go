package staticmap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/pkg/errors"

	"github.com/medipay/relayfn/config"
)

// Upstream failures. Both map to a 400 for the caller.
var (
	ErrGeocodeFailed = errors.New("geocode failed")
	ErrRasterFailed  = errors.New("static map fetch failed")
)

// Naver talks to the ncloud maps geocoding and static raster apis.
type Naver struct {
	clientID     string
	clientSecret string
	geocodeURL   string
	staticURL    string
	client       *http.Client
}

// NewNaver returns a client for cfg's credentials and endpoints.
func NewNaver(cfg config.MapConfig, client *http.Client) *Naver {
	return &Naver{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		geocodeURL:   cfg.GeocodeURL,
		staticURL:    cfg.StaticURL,
		client:       client,
	}
}

func (n *Naver) get(ctx context.Context, endpoint string, q url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("X-NCP-APIGW-API-KEY-ID", n.clientID)
	req.Header.Set("X-NCP-APIGW-API-KEY", n.clientSecret)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", endpoint)
	}
	return resp, nil
}

type geocodeResponse struct {
	Status    string `json:"status"`
	Addresses []struct {
		RoadAddress string `json:"roadAddress"`
		X           string `json:"x"`
		Y           string `json:"y"`
	} `json:"addresses"`
}

// Geocode resolves address to its first match. found is false when the api
// answered but matched nothing.
func (n *Naver) Geocode(ctx context.Context, address string) (c Coordinate, found bool, err error) {
	resp, err := n.get(ctx, n.geocodeURL, url.Values{"query": {address}})
	if err != nil {
		return Coordinate{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Coordinate{}, false, errors.Wrapf(ErrGeocodeFailed, "status %d: %s", resp.StatusCode, body)
	}

	var out geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return Coordinate{}, false, errors.Wrap(err, "failed decoding geocode response")
	}

	if len(out.Addresses) == 0 || out.Addresses[0].X == "" || out.Addresses[0].Y == "" {
		return Coordinate{}, false, nil
	}

	return Coordinate{Lng: out.Addresses[0].X, Lat: out.Addresses[0].Y}, true, nil
}

// Raster fetches the rendered image for q.
func (n *Naver) Raster(ctx context.Context, q url.Values) ([]byte, error) {
	resp, err := n.get(ctx, n.staticURL, q)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Wrapf(ErrRasterFailed, "status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "failed reading raster")
	}
	return data, nil
}
