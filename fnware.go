// Package fnware composes middleware around request/response style function
// handlers. A Trigger wraps a terminal handler; middleware registered with
// Use run in registration order, each deciding whether and when to delegate
// to the rest of the chain through its next continuation.
package fnware

import (
	"context"
	"errors"
	"sync"
)

// Handler is the terminal function of a chain. It receives the invocation
// context and the inbound event and produces the final result.
type Handler func(ctx context.Context, event *Event) (any, error)

// Next invokes the remainder of the chain: the next middleware inward, or
// the terminal handler. Middleware may call it once, several times (each
// call re-runs the inner stages), or not at all to short-circuit.
type Next func() (any, error)

// Middleware has the same shape as a Handler but additionally receives the
// next continuation. Whatever it returns becomes the result seen by the
// layer outside it.
type Middleware func(ctx context.Context, event *Event, next Next) (any, error)

// Config controls how a Trigger composes its chain.
type Config struct {
	// StaticCompose freezes the composed chain after the first invocation.
	// Once frozen, Use panics with ErrChainFrozen. When false (the default)
	// the chain is rebuilt on every invocation and middleware may be added
	// at any time.
	StaticCompose bool
}

// Assembly errors. New and Use panic with these; they are programmer errors
// and never reach any middleware.
var (
	ErrNilHandler    = errors.New("fnware: handler must not be nil")
	ErrNilMiddleware = errors.New("fnware: middleware must not be nil")
	ErrChainFrozen   = errors.New("fnware: cannot add middleware after handler has been invoked")
)

// Trigger holds a terminal handler and its ordered middleware chain.
// The zero value is not usable; construct with New or NewWithConfig.
//
// A Trigger is safe for concurrent use: Use and Invoke may be called from
// multiple goroutines, though middleware added concurrently with an
// invocation is only guaranteed to be seen by invocations that start after
// Use returns.
type Trigger struct {
	mu          sync.RWMutex
	handler     Handler
	middlewares []Middleware

	// composed is the frozen chain in static mode; non-nil means frozen.
	composed Handler
	static   bool
}

// New returns a Trigger around the terminal handler with dynamic
// composition. It panics with ErrNilHandler if handler is nil.
func New(handler Handler) *Trigger {
	return NewWithConfig(handler, Config{})
}

// NewWithConfig returns a Trigger around the terminal handler with the given
// configuration. It panics with ErrNilHandler if handler is nil.
func NewWithConfig(handler Handler, cfg Config) *Trigger {
	if handler == nil {
		panic(ErrNilHandler)
	}
	return &Trigger{
		handler: handler,
		static:  cfg.StaticCompose,
	}
}

// Use appends mw to the end of the chain and returns the Trigger for
// fluent chaining:
//
//	trg := fnware.New(handler).Use(logging).Use(auth).Use(validate)
//
// The first middleware registered is the outermost: it runs first on the
// way in and last on the way out.
//
// Use panics with ErrNilMiddleware if mw is nil, and with ErrChainFrozen if
// the Trigger was built with StaticCompose and has already been invoked.
// A panicking Use leaves the chain unmodified.
func (t *Trigger) Use(mw Middleware) *Trigger {
	if mw == nil {
		panic(ErrNilMiddleware)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.static && t.composed != nil {
		panic(ErrChainFrozen)
	}

	t.middlewares = append(t.middlewares, mw)
	return t
}

// Invoke runs the composed chain with the given context and event.
//
// In dynamic mode the chain is rebuilt from the current middleware list on
// every call. In static mode the first call composes and freezes the chain;
// later calls reuse it.
func (t *Trigger) Invoke(ctx context.Context, event *Event) (any, error) {
	return t.chain()(ctx, event)
}

func (t *Trigger) chain() Handler {
	if t.static {
		t.mu.RLock()
		composed := t.composed
		t.mu.RUnlock()
		if composed != nil {
			// Frozen chains are immutable and shared across invocations
			return composed
		}

		t.mu.Lock()
		defer t.mu.Unlock()
		if t.composed == nil {
			t.composed = t.compose()
		}
		return t.composed
	}

	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.compose()
}

// compose folds the middleware list around the terminal handler in reverse
// order so the first-registered middleware ends up outermost.
func (t *Trigger) compose() Handler {
	h := normalizeHandler(t.handler)
	for i := len(t.middlewares) - 1; i >= 0; i-- {
		h = link(t.middlewares[i], h)
	}
	return h
}
