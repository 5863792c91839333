package mail

import (
	"context"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closedPort(t *testing.T) int {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return port
}

func TestSMTPTransport_notConfigured(t *testing.T) {
	transport := NewSMTPTransport(testMailConfig, time.Second)

	err := transport.Verify(context.Background())
	assert.EqualError(t, err, "smtp endpoint is not configured")

	_, err = transport.Send(context.Background(), Compose(testMailConfig, Request{}))
	assert.Error(t, err)
}

func TestSMTPTransport_unreachable(t *testing.T) {
	cfg := testMailConfig
	cfg.SMTPHost = "127.0.0.1"
	cfg.SMTPPort = closedPort(t)

	transport := NewSMTPTransport(cfg, time.Second)

	err := transport.Verify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed dialing 127.0.0.1:"+strconv.Itoa(cfg.SMTPPort))
}

func TestSMTPTransport_noStartTLS(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	go func() {
		conn, err := l.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		buf := make([]byte, 512)
		_, _ = conn.Write([]byte("220 relay.test ESMTP\r\n"))
		_, _ = conn.Read(buf)
		_, _ = conn.Write([]byte("250-relay.test\r\n250 AUTH PLAIN\r\n"))
		_, _ = conn.Read(buf)
	}()

	cfg := testMailConfig
	cfg.SMTPHost = "127.0.0.1"
	cfg.SMTPPort = l.Addr().(*net.TCPAddr).Port

	err = NewSMTPTransport(cfg, 2*time.Second).Verify(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not offer STARTTLS")
}

func TestSMTPTransport_contextDeadline(t *testing.T) {
	cfg := testMailConfig
	cfg.SMTPHost = "127.0.0.1"
	cfg.SMTPPort = closedPort(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewSMTPTransport(cfg, time.Second).Verify(ctx)
	assert.Error(t, err)
}
