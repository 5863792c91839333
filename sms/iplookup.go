package sms

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
)

// IPLookup asks an ipify style service for the public address requests leave
// from. The gateway whitelists sending addresses, so the value helps when
// diagnosing rejections.
type IPLookup struct {
	url    string
	client *http.Client
}

// NewIPLookup returns a lookup against url, which must answer {"ip": "..."}.
func NewIPLookup(url string, client *http.Client) *IPLookup {
	return &IPLookup{url: url, client: client}
}

// PublicIP returns the address reported by the service.
func (l *IPLookup) PublicIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return "", errors.Wrap(err, "failed to create request")
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "ip lookup http error")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("ip lookup returned status %d", resp.StatusCode)
	}

	var out struct {
		IP string `json:"ip"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", errors.Wrap(err, "failed decoding ip lookup response")
	}

	return out.IP, nil
}
