package fnware

import (
	"context"
	"net/textproto"
)

// Event is the inbound trigger payload handed through the chain. The
// composition core never inspects it beyond passing it along; middleware and
// handlers may read and rewrite any field. A validation middleware, for
// example, replaces a raw Body string with the parsed struct before
// delegating inward.
type Event struct {
	Method  string
	Path    string
	Headers map[string]string
	Query   map[string]string

	// Body carries the request payload. Hosts typically set it to the raw
	// body string; middleware may replace it with structured data.
	Body any

	values map[string]any
}

// Set stores a value on the event for stages further in. The event is the
// mutable record of an invocation, so this is how an outer middleware hands
// data to inner ones (the context flows through the chain read-only).
func (e *Event) Set(key string, value any) {
	if e.values == nil {
		e.values = make(map[string]any)
	}
	e.values[key] = value
}

// Get returns a value previously stored with Set.
func (e *Event) Get(key string) (any, bool) {
	v, ok := e.values[key]
	return v, ok
}

// Header returns the named header, canonicalizing the name the way HTTP
// hosts store it ("content-type" finds "Content-Type").
func (e *Event) Header(name string) string {
	if v, ok := e.Headers[name]; ok {
		return v
	}
	return e.Headers[textproto.CanonicalMIMEHeaderKey(name)]
}

// Invocation carries metadata about a single trigger invocation: a unique
// request identifier and the name of the deployed function. It travels in
// the context and is read-only through the chain.
type Invocation struct {
	ID       string
	Function string
}

// contextKey is a custom type for context keys to avoid collisions
type contextKey string

const invocationKey contextKey = "invocation"

// WithInvocation attaches invocation metadata to the context. Hosts call
// this once before invoking the chain.
func WithInvocation(ctx context.Context, inv Invocation) context.Context {
	return context.WithValue(ctx, invocationKey, inv)
}

// InvocationFrom extracts invocation metadata from the context. The second
// return is false when no host attached any.
func InvocationFrom(ctx context.Context) (Invocation, bool) {
	inv, ok := ctx.Value(invocationKey).(Invocation)
	return inv, ok
}
