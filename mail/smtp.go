package mail

import (
	"context"
	"crypto/tls"
	"net"
	"net/smtp"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/medipay/relayfn/config"
)

const implicitTLSPort = 465

// SMTPTransport relays through an authenticated smtp endpoint such as the SES
// smtp interface. Port 465 uses implicit tls, any other port requires
// STARTTLS.
type SMTPTransport struct {
	host     string
	port     int
	username string
	password string
	timeout  time.Duration

	tlsConfig *tls.Config
}

// NewSMTPTransport returns a transport for cfg's smtp endpoint.
func NewSMTPTransport(cfg config.MailConfig, timeout time.Duration) *SMTPTransport {
	return &SMTPTransport{
		host:     cfg.SMTPHost,
		port:     cfg.SMTPPort,
		username: cfg.SMTPUser,
		password: cfg.SMTPPassword,
		timeout:  timeout,
		tlsConfig: &tls.Config{
			ServerName: cfg.SMTPHost,
			MinVersion: tls.VersionTLS12,
		},
	}
}

func (t *SMTPTransport) addr() string {
	return net.JoinHostPort(t.host, strconv.Itoa(t.port))
}

// connect dials, secures and authenticates a session. The caller owns the
// returned client.
func (t *SMTPTransport) connect(ctx context.Context) (*smtp.Client, error) {
	if t.host == "" {
		return nil, errors.New("smtp endpoint is not configured")
	}

	dialer := &net.Dialer{Timeout: t.timeout}

	var (
		conn net.Conn
		err  error
	)
	if t.port == implicitTLSPort {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: t.tlsConfig.Clone()}).DialContext(ctx, "tcp", t.addr())
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", t.addr())
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed dialing %s", t.addr())
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else if t.timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(t.timeout))
	}

	client, err := smtp.NewClient(conn, t.host)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed greeting smtp server")
	}

	if t.port != implicitTLSPort {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			client.Close()
			return nil, errors.Errorf("%s does not offer STARTTLS", t.addr())
		}
		if err := client.StartTLS(t.tlsConfig.Clone()); err != nil {
			client.Close()
			return nil, errors.Wrap(err, "failed starting tls")
		}
	}

	if err := client.Auth(smtp.PlainAuth("", t.username, t.password, t.host)); err != nil {
		client.Close()
		return nil, errors.Wrap(err, "smtp authentication failed")
	}

	return client, nil
}

// Verify opens and authenticates a session, then quits.
func (t *SMTPTransport) Verify(ctx context.Context) error {
	client, err := t.connect(ctx)
	if err != nil {
		return err
	}

	return errors.Wrap(client.Quit(), "failed closing smtp session")
}

// Send delivers msg with the sender as envelope from and the operator mailbox
// as the only envelope recipient. The message id written into the headers is
// returned.
func (t *SMTPTransport) Send(ctx context.Context, msg Message) (string, error) {
	raw, err := msg.Bytes()
	if err != nil {
		return "", err
	}

	client, err := t.connect(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	if err := client.Mail(msg.From.Address); err != nil {
		return "", errors.Wrapf(err, "MAIL FROM %s rejected", msg.From.Address)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return "", errors.Wrapf(err, "RCPT TO %s rejected", msg.To)
	}

	w, err := client.Data()
	if err != nil {
		return "", errors.Wrap(err, "DATA rejected")
	}
	if _, err := w.Write(raw); err != nil {
		return "", errors.Wrap(err, "failed writing message")
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "message rejected")
	}

	if err := client.Quit(); err != nil {
		return "", errors.Wrap(err, "failed closing smtp session")
	}

	return msg.MessageID, nil
}
