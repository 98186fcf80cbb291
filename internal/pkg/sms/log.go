package sms

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
)

// Log prints messages to slog. Never use it in production: the log line
// carries the message body.
type Log struct {
	seq atomic.Int64
}

func NewLog() *Log { return &Log{} }

func (l *Log) Send(ctx context.Context, to, body string) (Receipt, error) {
	if to == "" {
		return Receipt{}, ErrRecipientRequired
	}

	id := "log-" + strconv.FormatInt(l.seq.Add(1), 10)
	slog.InfoContext(ctx, "mock sms", "id", id, "to", to, "body", body)

	return Receipt{ID: id, Status: "logged"}, nil
}
