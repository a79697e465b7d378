package push

import "context"

// Sender delivers a push notification to one or more recipients,
// best effort. Callers never block business flows on the outcome;
// the returned error exists for logging only.
type Sender interface {
	Push(ctx context.Context, recipientIDs []string, title, message string) error
}

// NopSender discards everything; used in tests and when push is disabled.
type NopSender struct{}

func (NopSender) Push(ctx context.Context, recipientIDs []string, title, message string) error {
	return nil
}
