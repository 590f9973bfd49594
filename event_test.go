package fnware

import (
	"context"
	"testing"
)

func TestEventSetGet(t *testing.T) {
	event := &Event{}

	if _, ok := event.Get("missing"); ok {
		t.Error("Get on an empty event should report not found")
	}

	event.Set("user", "alice")

	v, ok := event.Get("user")
	if !ok {
		t.Fatal("Failed to get value previously set on event")
	}
	if v != "alice" {
		t.Errorf("Expected 'alice', got %v", v)
	}
}

func TestEventHeaderCanonicalization(t *testing.T) {
	event := &Event{
		Headers: map[string]string{"Content-Type": "application/json"},
	}

	if got := event.Header("content-type"); got != "application/json" {
		t.Errorf("Expected canonicalized lookup to find the header, got %q", got)
	}
	if got := event.Header("Content-Type"); got != "application/json" {
		t.Errorf("Expected exact lookup to find the header, got %q", got)
	}
	if got := event.Header("X-Missing"); got != "" {
		t.Errorf("Expected empty string for missing header, got %q", got)
	}
}

func TestEventMutationVisibleToInnerStages(t *testing.T) {
	var seen any

	outer := func(ctx context.Context, event *Event, next Next) (any, error) {
		event.Body = map[string]string{"parsed": "yes"}
		return next()
	}

	trg := New(func(ctx context.Context, event *Event) (any, error) {
		seen = event.Body
		return nil, nil
	}).Use(outer)

	trg.Invoke(context.Background(), &Event{Body: `{"raw":"body"}`})

	body, ok := seen.(map[string]string)
	if !ok || body["parsed"] != "yes" {
		t.Errorf("Handler should see the body rewritten by outer middleware, got %v", seen)
	}
}

func TestInvocationContextHelpers(t *testing.T) {
	ctx := context.Background()

	if _, ok := InvocationFrom(ctx); ok {
		t.Error("Should not find invocation metadata in an empty context")
	}

	inv := Invocation{ID: "inv-123", Function: "greeter"}
	ctx = WithInvocation(ctx, inv)

	got, ok := InvocationFrom(ctx)
	if !ok {
		t.Fatal("Failed to extract invocation metadata from context")
	}
	if got != inv {
		t.Errorf("Expected %+v, got %+v", inv, got)
	}
}

func TestInvocationVisibleThroughChain(t *testing.T) {
	var seen Invocation

	trg := New(func(ctx context.Context, event *Event) (any, error) {
		seen, _ = InvocationFrom(ctx)
		return nil, nil
	}).Use(func(ctx context.Context, event *Event, next Next) (any, error) {
		return next()
	})

	ctx := WithInvocation(context.Background(), Invocation{ID: "inv-1", Function: "fn"})
	trg.Invoke(ctx, &Event{})

	if seen.ID != "inv-1" || seen.Function != "fn" {
		t.Errorf("Invocation metadata should pass through unchanged, got %+v", seen)
	}
}
