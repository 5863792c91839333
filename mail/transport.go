package mail

import (
	"context"
)

// Transport delivers composed messages. Implementations are built once per
// process and shared by concurrent requests, so they must not mutate their
// configuration per call.
type Transport interface {
	// Verify checks that the provider is reachable and accepts the
	// credentials.
	Verify(ctx context.Context) error

	// Send delivers msg and returns the provider's message id.
	Send(ctx context.Context, msg Message) (string, error)
}
