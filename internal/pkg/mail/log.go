package mail

import (
	"context"
	"log/slog"
)

// Log writes messages to slog instead of sending them.
type Log struct {
	from string
}

// NewLog returns the development driver.
func NewLog(from string) *Log {
	return &Log{from: from}
}

func (l *Log) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	if msg.From == "" {
		msg.From = l.from
	}

	slog.InfoContext(ctx, "mail not sent, log driver active",
		"from", msg.From, "to", msg.To, "subject", msg.Subject, "text", msg.TextBody)

	return nil
}

func (*Log) Close() error { return nil }
