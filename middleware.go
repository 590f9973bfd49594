package fnware

import (
	"context"
	"log/slog"
	"time"
)

// Logging returns middleware that writes one structured line per invocation
// with the invocation id, function name, duration, and outcome. Register it
// near the top of the chain so the duration covers the inner layers.
//
// A nil logger uses slog.Default().
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context, event *Event, next Next) (any, error) {
		start := time.Now()

		attrs := []any{"path", event.Path}
		if inv, ok := InvocationFrom(ctx); ok {
			attrs = append(attrs, "invocation", inv.ID, "function", inv.Function)
		}

		result, err := next()

		attrs = append(attrs, "duration", time.Since(start))
		if err != nil {
			attrs = append(attrs, "error", err)
			logger.Error("invocation failed", attrs...)
			return nil, err
		}

		logger.Info("invocation completed", attrs...)
		return result, nil
	}
}

// ErrorResponder returns middleware that converts any error propagating out
// of the inner chain into an InternalError response. The core never swallows
// errors itself; register this as the outermost layer to hand callers a
// well-formed result instead of a failure.
func ErrorResponder() Middleware {
	return func(ctx context.Context, event *Event, next Next) (any, error) {
		result, err := next()
		if err != nil {
			return InternalError("internal server error"), nil
		}
		return result, nil
	}
}
