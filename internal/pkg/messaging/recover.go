package messaging

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/shandysiswandi/tadka/internal/pkg/stacktrace"
)

// dispatch runs handler, turns a panic into an error, and settles the
// message when auto ack is on.
func dispatch(ctx context.Context, driver string, handler Handler, msg Message, autoAck bool) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			slog.ErrorContext(ctx, "panic in messaging handler",
				"driver", driver, "topic", msg.Topic(), "panic", rvr,
				"stack", stacktrace.InternalPaths(debug.Stack()))
			err = fmt.Errorf("messaging: panic in %s handler: %v", driver, rvr)
		}

		if !autoAck {
			return
		}
		if err == nil {
			if aerr := msg.Ack(ctx); aerr != nil {
				slog.WarnContext(ctx, "failed to ack message", "driver", driver, "error", aerr)
			}
			return
		}
		if nerr := msg.Nack(ctx); nerr != nil {
			slog.WarnContext(ctx, "failed to nack message", "driver", driver, "error", nerr)
		}
	}()

	return handler(ctx, msg)
}
