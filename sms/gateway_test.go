package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medipay/relayfn/config"
)

type gatewayStub struct {
	server   *httptest.Server
	calls    int
	form     url.Values
	ctype    string
	response string
	status   int
}

func newGatewayStub(t *testing.T, response string) *gatewayStub {
	stub := &gatewayStub{response: response, status: http.StatusOK}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.calls++
		stub.ctype = r.Header.Get("Content-Type")
		assert.NoError(t, r.ParseForm())
		stub.form = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(stub.status)
		_, _ = w.Write([]byte(stub.response))
	}))
	t.Cleanup(stub.server.Close)
	return stub
}

func (s *gatewayStub) gateway(testMode bool) *Gateway {
	return NewGateway(config.SMSConfig{
		GatewayURL:  s.server.URL + "/send/",
		APIKey:      "api-key",
		UserID:      "medipay",
		SenderPhone: "0212345678",
		TestMode:    testMode,
	}, &http.Client{Timeout: 5 * time.Second})
}

func TestGateway_Send(t *testing.T) {
	stub := newGatewayStub(t, `{"result_code":"1","message":"success","msg_id":"123456789","success_cnt":1,"error_cnt":0,"msg_type":"SMS"}`)

	receipt, err := stub.gateway(false).Send(context.Background(), "01012345678", "test")
	require.NoError(t, err)

	assert.Equal(t, "123456789", receipt.MessageID)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "application/x-www-form-urlencoded;charset=utf-8", stub.ctype)
	assert.Equal(t, url.Values{
		"key":      {"api-key"},
		"user_id":  {"medipay"},
		"sender":   {"0212345678"},
		"receiver": {"01012345678"},
		"msg":      {"test"},
		"msg_type": {"SMS"},
		"title":    {"알림"},
	}, stub.form)
}

func TestGateway_Send_testMode(t *testing.T) {
	stub := newGatewayStub(t, `{"result_code":"1","message":"success","msg_id":987}`)

	receipt, err := stub.gateway(true).Send(context.Background(), "01012345678", "test")
	require.NoError(t, err)

	assert.Equal(t, "Y", stub.form.Get("testmode_yn"))
	assert.Equal(t, "987", receipt.MessageID)
}

func TestGateway_Send_resultCodes(t *testing.T) {
	cases := []struct {
		response string
		code     string
		message  string
	}{
		{`{"result_code":"-101","message":"인증오류입니다."}`, "-101", "인증오류입니다."},
		{`{"result_code":1,"message":"numeric code"}`, "1", "numeric code"},
		{`{"result_code":"01","message":"padded"}`, "01", "padded"},
		{`{"message":"no code"}`, "", "no code"},
		{`{"result_code":"-99"}`, "-99", DefaultGatewayError},
	}

	for _, c := range cases {
		stub := newGatewayStub(t, c.response)

		_, err := stub.gateway(false).Send(context.Background(), "01012345678", "test")
		require.Error(t, err, c.response)

		gerr, ok := err.(*GatewayError)
		require.True(t, ok, c.response)
		assert.Equal(t, c.code, gerr.Code, c.response)
		assert.Equal(t, c.message, gerr.Error(), c.response)
	}
}

func TestGateway_Send_badResponse(t *testing.T) {
	stub := newGatewayStub(t, `<html>bad gateway</html>`)
	stub.status = http.StatusBadGateway

	_, err := stub.gateway(false).Send(context.Background(), "01012345678", "test")
	require.Error(t, err)

	_, ok := GatewayMessage(err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), "status 502")
}

func TestGateway_Send_unreachable(t *testing.T) {
	stub := newGatewayStub(t, "")
	stub.server.Close()

	_, err := stub.gateway(false).Send(context.Background(), "01012345678", "test")
	assert.Error(t, err)
}
