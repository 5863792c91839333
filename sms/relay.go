// Package sms relays text messages to the aligo sms gateway.
package sms

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Sender dispatches a single message.
type Sender interface {
	Send(ctx context.Context, receiver, message string) (Receipt, error)
}

// IPResolver reports the public address of this process.
type IPResolver interface {
	PublicIP(ctx context.Context) (string, error)
}

// Result is returned to the caller.
type Result struct {
	Success bool   `json:"success"`
	IP      string `json:"ip,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Relay validates and forwards messages. Every accepted call is billed by the
// gateway; nothing is retried.
type Relay struct {
	sender Sender
	ip     IPResolver
	logger *zap.Logger
}

// NewRelay returns a relay. ip may be nil to skip the public address lookup.
func NewRelay(sender Sender, ip IPResolver, logger *zap.Logger) *Relay {
	return &Relay{sender: sender, ip: ip, logger: logger}
}

// Send validates req and submits it. Validation failures are returned before
// any network call.
func (r *Relay) Send(ctx context.Context, req Request) (Result, error) {
	phone, message, err := Validate(req)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	ip := r.publicIP(ctx)

	receipt, err := r.sender.Send(ctx, phone, message)
	if err != nil {
		return Result{}, errors.Wrapf(err, "sms to %s failed", phone)
	}

	r.logger.Info("sms sent",
		zap.String("receiver", phone),
		zap.String("msg_id", receipt.MessageID),
		zap.String("public_ip", ip),
		zap.Duration("duration", time.Since(start)))

	return Result{Success: true, IP: ip}, nil
}

func (r *Relay) publicIP(ctx context.Context) string {
	if r.ip == nil {
		return ""
	}

	ip, err := r.ip.PublicIP(ctx)
	if err != nil {
		r.logger.Warn("public ip lookup failed", zap.Error(err))
		return ""
	}

	return ip
}

// GatewayMessage returns the gateway's own rejection text when err carries
// one.
func GatewayMessage(err error) (string, bool) {
	var gerr *GatewayError
	if errors.As(err, &gerr) {
		return gerr.Error(), true
	}
	return "", false
}
