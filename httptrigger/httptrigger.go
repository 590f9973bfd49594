// Package httptrigger hosts a composed fnware.Trigger behind an HTTP
// endpoint, the way cloud runtimes invoke deployed functions. It is a
// consumer of the composition core: it translates requests into events,
// stamps invocation metadata, and writes results back. It owns no middleware
// semantics of its own.
package httptrigger

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/fnware/fnware"
	"github.com/fnware/fnware/config"
)

// NewHandler returns an http.Handler that invokes the trigger for every
// request it receives.
//
// The request maps onto the event as-is: headers and query flattened, the
// raw body as a string. Results map back by type: *fnware.Response is
// written with its status and headers, any other value becomes a 200 JSON
// body, and an error becomes a 500.
func NewHandler(trg *fnware.Trigger, cfg config.BaseConfig) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		event, err := requestEvent(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable request body"})
			return
		}

		ctx := fnware.WithInvocation(r.Context(), fnware.Invocation{
			ID:       uuid.NewString(),
			Function: cfg.Target,
		})

		result, err := trg.Invoke(ctx, event)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}

		writeResult(w, result)
	})
}

func requestEvent(r *http.Request) (*fnware.Event, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		if len(values) > 0 {
			headers[name] = values[0]
		}
	}

	query := make(map[string]string)
	for name, values := range r.URL.Query() {
		if len(values) > 0 {
			query[name] = values[0]
		}
	}

	event := &fnware.Event{
		Method:  r.Method,
		Path:    r.URL.Path,
		Headers: headers,
		Query:   query,
	}
	if len(body) > 0 {
		event.Body = string(body)
	}
	return event, nil
}

func writeResult(w http.ResponseWriter, result any) {
	resp, ok := result.(*fnware.Response)
	if !ok {
		writeJSON(w, http.StatusOK, result)
		return
	}

	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	code := resp.StatusCode
	if code == 0 {
		code = http.StatusOK
	}
	writeJSON(w, code, resp.Body)
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

// Serve runs the trigger host until SIGINT or SIGTERM, then shuts down
// gracefully. The health server starts before the function endpoint so
// orchestrators can probe the container immediately.
func Serve(trg *fnware.Trigger, cfg config.BaseConfig) error {
	status := newStatus()
	healthServer := startHealthServer(cfg.HealthPort, status)
	status.SetHealthy(true)

	router := mux.NewRouter()
	router.PathPrefix("/").Handler(NewHandler(trg, cfg))

	server := &http.Server{
		Addr:    ":" + strconv.Itoa(cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		slog.Info("starting function endpoint", "port", cfg.HTTPPort, "function", cfg.Target)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("function endpoint error", "error", err)
		}
	}()

	status.SetReady(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	// Stop accepting new traffic before draining
	status.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("function endpoint forced to shut down", "error", err)
	}
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("health server forced to shut down", "error", err)
	}

	return nil
}
