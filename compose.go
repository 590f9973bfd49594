package fnware

import (
	"context"
	"fmt"
)

// link wraps a middleware around the next stage of the chain (another link,
// or the terminal handler) and returns a handler-shaped function.
//
// The returned handler builds a Next continuation over the inner stage and
// invokes the middleware with it. The middleware owns control flow from
// there: it may skip next entirely, call it more than once, or rewrite the
// inner result before returning. Errors are logged at this boundary and
// returned unchanged to the layer outside.
func link(mw Middleware, next Handler) Handler {
	mw = normalizeMiddleware(mw)
	inner := normalizeHandler(next)

	return func(ctx context.Context, event *Event) (any, error) {
		nextFn := func() (any, error) {
			return inner(ctx, event)
		}

		result, err := mw(ctx, event, nextFn)
		if err != nil {
			logChainError(err)
			return nil, err
		}
		return result, nil
	}
}

// normalizeHandler returns a handler that never panics: a panic inside h is
// recovered and surfaced as the returned error, so callers handle thrown
// and returned failures the same way.
func normalizeHandler(h Handler) Handler {
	return func(ctx context.Context, event *Event) (result any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = panicError(r)
			}
		}()
		return h(ctx, event)
	}
}

// normalizeMiddleware is normalizeHandler for the middleware shape.
func normalizeMiddleware(mw Middleware) Middleware {
	return func(ctx context.Context, event *Event, next Next) (result any, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = panicError(r)
			}
		}()
		return mw(ctx, event, next)
	}
}

// panicError converts a recovered panic value into an error, preserving the
// value itself when it already is one.
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("panic: %v", r)
}
