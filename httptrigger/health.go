package httptrigger

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
)

// Status tracks host health for orchestrator probes.
type Status struct {
	mu      sync.RWMutex
	healthy bool
	ready   bool
}

func newStatus() *Status {
	return &Status{
		healthy: false, // Not healthy until the host finishes starting
		ready:   false, // Not ready until the function endpoint is up
	}
}

func (s *Status) SetHealthy(healthy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.healthy = healthy
}

func (s *Status) SetReady(ready bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = ready
}

func (s *Status) IsHealthy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.healthy
}

func (s *Status) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// healthMux routes the liveness and readiness probes.
func healthMux(status *Status) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeProbe(w, status.IsHealthy(), "healthy", "unhealthy")
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		writeProbe(w, status.IsReady(), "ready", "not ready")
	})

	return mux
}

// startHealthServer serves liveness and readiness probes on their own port
// so orchestrators can see the host before the function endpoint is up.
func startHealthServer(port int, status *Status) *http.Server {
	server := &http.Server{
		Addr:    ":" + strconv.Itoa(port),
		Handler: healthMux(status),
	}

	go func() {
		slog.Info("starting health server", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("health server error", "error", err)
		}
	}()

	return server
}

func writeProbe(w http.ResponseWriter, ok bool, up, down string) {
	status := down
	code := http.StatusServiceUnavailable
	if ok {
		status = up
		code = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"status": status})
}
