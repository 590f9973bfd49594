package fnware

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDiagnosticLineOnChainError(t *testing.T) {
	var buf bytes.Buffer
	SetDiagnosticOutput(&buf)
	defer SetDiagnosticOutput(nil)

	boom := errors.New("boom")

	trg := New(func(ctx context.Context, event *Event) (any, error) {
		return nil, boom
	}).Use(func(ctx context.Context, event *Event, next Next) (any, error) {
		return next()
	})

	if _, err := trg.Invoke(context.Background(), &Event{}); !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}

	line := buf.String()
	if !strings.Contains(line, "ERROR") {
		t.Errorf("Diagnostic line should carry a severity tag, got %q", line)
	}
	if !strings.Contains(line, "boom") {
		t.Errorf("Diagnostic line should carry the error, got %q", line)
	}
	// Timestamp prefix: the current year is a cheap stand-in for RFC3339
	if !strings.Contains(line, time.Now().Format("2006")) {
		t.Errorf("Diagnostic line should carry a timestamp, got %q", line)
	}
}

func TestDiagnosticLoggedPerLinkBoundary(t *testing.T) {
	var buf bytes.Buffer
	SetDiagnosticOutput(&buf)
	defer SetDiagnosticOutput(nil)

	passthrough := func(ctx context.Context, event *Event, next Next) (any, error) {
		return next()
	}

	trg := New(func(ctx context.Context, event *Event) (any, error) {
		return nil, errors.New("boom")
	}).Use(passthrough).Use(passthrough)

	trg.Invoke(context.Background(), &Event{})

	// Each link logs as the error bubbles outward
	if got := strings.Count(buf.String(), "ERROR"); got != 2 {
		t.Errorf("Expected one diagnostic line per link, got %d", got)
	}
}

func TestBareHandlerErrorIsNotLogged(t *testing.T) {
	var buf bytes.Buffer
	SetDiagnosticOutput(&buf)
	defer SetDiagnosticOutput(nil)

	trg := New(func(ctx context.Context, event *Event) (any, error) {
		return nil, errors.New("boom")
	})

	trg.Invoke(context.Background(), &Event{})

	// The diagnostic catch lives at the link boundary; with no middleware
	// there is no link
	if buf.Len() != 0 {
		t.Errorf("Expected no diagnostics for a bare handler, got %q", buf.String())
	}
}

func TestNormalizeHandlerRecoversPanic(t *testing.T) {
	h := normalizeHandler(func(ctx context.Context, event *Event) (any, error) {
		panic("not an error value")
	})

	_, err := h(context.Background(), &Event{})
	if err == nil {
		t.Fatal("Expected an error from a panicking handler")
	}
	if !strings.Contains(err.Error(), "not an error value") {
		t.Errorf("Expected the panic value in the error, got %v", err)
	}
}

func TestNormalizeHandlerPreservesErrorIdentity(t *testing.T) {
	boom := errors.New("boom")

	h := normalizeHandler(func(ctx context.Context, event *Event) (any, error) {
		panic(boom)
	})

	_, err := h(context.Background(), &Event{})
	if !errors.Is(err, boom) {
		t.Errorf("panic(err) should surface err itself, got %v", err)
	}
}

func TestLinkResultPassesThrough(t *testing.T) {
	handler := func(ctx context.Context, event *Event) (any, error) {
		return 42, nil
	}
	mw := func(ctx context.Context, event *Event, next Next) (any, error) {
		return next()
	}

	result, err := link(mw, handler)(context.Background(), &Event{})
	if err != nil {
		t.Fatalf("link failed: %v", err)
	}
	if result != 42 {
		t.Errorf("Expected 42, got %v", result)
	}
}
