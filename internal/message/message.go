// internal/message/message.go
//
// Outbound notification hand-off.
//
// Context
//   A new lead should reach the studio (or the listing agent) quickly.
//   Delivery itself, e-mail or webhook, belongs to another service.  This
//   package defines the hand-off and ships a logging implementation so the
//   gates can notify without knowing who delivers.
//
//------------------------------------------------------------------------------

package message

import (
	"context"

	"go.uber.org/zap"
)

// Email represents a basic outbound email job.
type Email struct {
	To      []string
	Subject string
	Text    string
}

// Notifier accepts outbound messages.  Implementations must not block on
// delivery.
type Notifier interface {
	Enqueue(ctx context.Context, msg Email) error
}

// Log is a Notifier that only logs the payload.
type Log struct {
	L *zap.Logger
}

// Enqueue logs the email envelope and returns nil.
func (n Log) Enqueue(_ context.Context, msg Email) error {
	l := n.L
	if l == nil {
		l = zap.L()
	}
	l.Info("queue email",
		zap.Strings("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("text_len", len(msg.Text)))
	return nil
}
