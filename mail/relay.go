// Package mail relays contact form submissions to the operator mailbox.
package mail

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/medipay/relayfn/config"
)

// Relay sends one email per call through a shared Transport. There is no
// deduplication: repeated calls send repeated mails.
type Relay struct {
	cfg       config.MailConfig
	transport Transport
	logger    *zap.Logger

	now   func() time.Time
	newID func() string
}

// NewRelay returns a relay delivering through transport.
func NewRelay(cfg config.MailConfig, transport Transport, logger *zap.Logger) *Relay {
	return &Relay{
		cfg:       cfg,
		transport: transport,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Send composes and delivers req. Errors carry full detail for logging and
// are never meant for the caller.
func (r *Relay) Send(ctx context.Context, req Request) (Result, error) {
	start := r.now()

	msg := Compose(r.cfg, req)
	msg.Date = start
	msg.MessageID = "<" + r.newID() + "@" + msg.Domain() + ">"

	if r.cfg.Verify {
		if err := r.transport.Verify(ctx); err != nil {
			return Result{}, errors.Wrap(err, "mail transport verification failed")
		}
	}

	id, err := r.transport.Send(ctx, msg)
	if err != nil {
		return Result{}, errors.Wrap(err, "mail delivery failed")
	}

	r.logger.Info("mail sent",
		zap.String("message_id", id),
		zap.String("recipient", msg.To),
		zap.Bool("reply_to_set", msg.ReplyTo != ""),
		zap.Duration("duration", r.now().Sub(start)))

	return Result{Success: true, MessageID: id}, nil
}
