package mail

import (
	"bytes"
	"fmt"
	"html"
	"mime"
	"mime/quotedprintable"
	netmail "net/mail"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/medipay/relayfn/config"
)

// Defaults used when the caller leaves a field out.
const (
	DefaultSubject = "테스트 메일(API)"
	DefaultHTML    = "<p>SES API 경유</p>"
)

// Request is the json body accepted by the mail endpoint. Fields stay untyped
// so that non-string values are ignored instead of failing the request.
type Request struct {
	Email   interface{} `json:"email"`
	Subject interface{} `json:"subject"`
	Text    interface{} `json:"text"`
}

// Result is returned to the caller.
type Result struct {
	Success   bool   `json:"success"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Message is a fully addressed html email.
type Message struct {
	From      netmail.Address
	To        string
	ReplyTo   string
	Subject   string
	HTML      string
	MessageID string
	Date      time.Time
}

var headerSanitizer = strings.NewReplacer("\r", " ", "\n", " ")

// Compose builds the message for req. The recipient is always the configured
// operator mailbox; the caller's address only ever becomes Reply-To.
func Compose(cfg config.MailConfig, req Request) Message {
	msg := Message{
		From:    netmail.Address{Name: cfg.FromName, Address: cfg.From},
		To:      cfg.To,
		Subject: DefaultSubject,
		HTML:    DefaultHTML,
	}

	if s, ok := nonEmptyString(req.Subject); ok {
		msg.Subject = headerSanitizer.Replace(s)
	}

	if s, ok := nonEmptyString(req.Text); ok {
		msg.HTML = "<p>" + html.EscapeString(s) + "</p>"
	}

	if s, ok := req.Email.(string); ok && strings.Contains(s, "@") {
		msg.ReplyTo = replyTo(s)
	}

	return msg
}

func nonEmptyString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok && s != ""
}

func replyTo(s string) string {
	if addr, err := netmail.ParseAddress(s); err == nil {
		return addr.Address
	}
	return strings.TrimSpace(headerSanitizer.Replace(s))
}

// Domain returns the domain part of the sender address.
func (m Message) Domain() string {
	if i := strings.LastIndex(m.From.Address, "@"); i >= 0 {
		return m.From.Address[i+1:]
	}
	return "localhost"
}

// Bytes renders the message as RFC 5322 text with a quoted-printable body.
func (m Message) Bytes() ([]byte, error) {
	var buf bytes.Buffer

	header := func(k, v string) {
		fmt.Fprintf(&buf, "%s: %s\r\n", k, v)
	}

	date := m.Date
	if date.IsZero() {
		date = time.Now()
	}

	header("From", m.From.String())
	header("To", m.To)
	if m.ReplyTo != "" {
		header("Reply-To", m.ReplyTo)
	}
	header("Subject", mime.BEncoding.Encode("utf-8", m.Subject))
	header("Date", date.Format(time.RFC1123Z))
	if m.MessageID != "" {
		header("Message-ID", m.MessageID)
	}
	header("MIME-Version", "1.0")
	header("Content-Type", `text/html; charset="utf-8"`)
	header("Content-Transfer-Encoding", "quoted-printable")
	buf.WriteString("\r\n")

	qp := quotedprintable.NewWriter(&buf)
	if _, err := qp.Write([]byte(m.HTML)); err != nil {
		return nil, errors.Wrap(err, "failed encoding body")
	}
	if err := qp.Close(); err != nil {
		return nil, errors.Wrap(err, "failed encoding body")
	}

	return buf.Bytes(), nil
}
