package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/medipay/relayfn/config"
)

// Fixed fields of every message submitted to the gateway.
const (
	MessageType  = "SMS"
	MessageTitle = "알림"
)

// DefaultGatewayError is used when the gateway rejects a message without
// saying why.
const DefaultGatewayError = "문자 전송 실패"

// GatewayError is a rejection reported by the gateway itself. Its message is
// safe to show to the caller.
type GatewayError struct {
	Code    string
	Message string
}

func (e *GatewayError) Error() string {
	if e.Message == "" {
		return DefaultGatewayError
	}
	return e.Message
}

// Receipt describes an accepted message.
type Receipt struct {
	MessageID string
}

type gatewayResponse struct {
	ResultCode json.RawMessage `json:"result_code"`
	Message    string          `json:"message"`
	MessageID  json.RawMessage `json:"msg_id"`
}

// accepted keeps the gateway's string contract: only the json string "1"
// counts, a bare number does not.
func (r gatewayResponse) accepted() bool {
	var code string
	if err := json.Unmarshal(r.ResultCode, &code); err != nil {
		return false
	}
	return code == "1"
}

func rawText(raw json.RawMessage) string {
	return strings.Trim(string(bytes.TrimSpace(raw)), `"`)
}

// Gateway submits messages to the aligo send api.
type Gateway struct {
	url      string
	apiKey   string
	userID   string
	sender   string
	testMode bool
	client   *http.Client
}

// NewGateway returns a gateway client for cfg.
func NewGateway(cfg config.SMSConfig, client *http.Client) *Gateway {
	return &Gateway{
		url:      cfg.GatewayURL,
		apiKey:   cfg.APIKey,
		userID:   cfg.UserID,
		sender:   cfg.SenderPhone,
		testMode: cfg.TestMode,
		client:   client,
	}
}

func (g *Gateway) form(receiver, message string) url.Values {
	form := url.Values{}
	form.Set("key", g.apiKey)
	form.Set("user_id", g.userID)
	form.Set("sender", g.sender)
	form.Set("receiver", receiver)
	form.Set("msg", message)
	form.Set("msg_type", MessageType)
	form.Set("title", MessageTitle)
	if g.testMode {
		form.Set("testmode_yn", "Y")
	}
	return form
}

// Send dispatches one message. A *GatewayError is returned when the gateway
// answers with anything but result code "1".
func (g *Gateway) Send(ctx context.Context, receiver, message string) (Receipt, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, strings.NewReader(g.form(receiver, message).Encode()))
	if err != nil {
		return Receipt{}, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	resp, err := g.client.Do(req)
	if err != nil {
		return Receipt{}, errors.Wrap(err, "sms gateway http error")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Receipt{}, errors.Wrap(err, "failed reading sms gateway response")
	}

	var out gatewayResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return Receipt{}, errors.Wrapf(err, "unexpected sms gateway response (status %d): %s", resp.StatusCode, body)
	}

	if !out.accepted() {
		return Receipt{}, &GatewayError{Code: rawText(out.ResultCode), Message: out.Message}
	}

	return Receipt{MessageID: rawText(out.MessageID)}, nil
}
