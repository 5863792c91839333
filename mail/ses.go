package mail

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/ses"
	"github.com/aws/aws-sdk-go/service/ses/sesiface"
	"github.com/pkg/errors"
)

// SESTransport delivers through the SES SendRawEmail api instead of smtp. It
// relies on the default aws credential chain.
type SESTransport struct {
	svc sesiface.SESAPI
}

// NewSESTransport returns a transport bound to region.
func NewSESTransport(region string) (*SESTransport, error) {
	s, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed getting session")
	}

	return NewSESTransportWithAPI(ses.New(s)), nil
}

// NewSESTransportWithAPI wraps an existing SES client.
func NewSESTransportWithAPI(svc sesiface.SESAPI) *SESTransport {
	return &SESTransport{svc: svc}
}

// Verify fails unless the account is allowed to send.
func (t *SESTransport) Verify(ctx context.Context) error {
	out, err := t.svc.GetAccountSendingEnabledWithContext(ctx, &ses.GetAccountSendingEnabledInput{})
	if err != nil {
		return wrapAWS(err, "failed checking ses account")
	}

	if !aws.BoolValue(out.Enabled) {
		return errors.New("ses sending is disabled for this account")
	}

	return nil
}

// Send submits the raw message and returns the id assigned by SES.
func (t *SESTransport) Send(ctx context.Context, msg Message) (string, error) {
	raw, err := msg.Bytes()
	if err != nil {
		return "", err
	}

	out, err := t.svc.SendRawEmailWithContext(ctx, &ses.SendRawEmailInput{
		Source:       aws.String(msg.From.Address),
		Destinations: []*string{aws.String(msg.To)},
		RawMessage:   &ses.RawMessage{Data: raw},
	})
	if err != nil {
		return "", wrapAWS(err, "failed sending raw email")
	}

	return aws.StringValue(out.MessageId), nil
}

func wrapAWS(err error, msg string) error {
	if aerr, ok := err.(awserr.Error); ok {
		return errors.Wrapf(err, "%s (%s)", msg, aerr.Code())
	}
	return errors.Wrap(err, msg)
}
