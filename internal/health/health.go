// Package health serves the daemon's HTTP health endpoint.
package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Status is the JSON body served on /healthz.
type Status struct {
	Status          string  `json:"status"` // "healthy", "degraded"
	InstanceID      string  `json:"instance_id"`
	UptimeSeconds   int64   `json:"uptime_seconds"`
	DotTimeMS       int64   `json:"dot_time_ms"`
	QueueDepth      int     `json:"queue_depth"`
	QueueCapacity   int     `json:"queue_capacity"`
	SymbolsEnqueued uint64  `json:"symbols_enqueued"`
	SymbolsDropped  uint64  `json:"symbols_dropped"`
	SymbolsDrained  uint64  `json:"symbols_drained"`
	DropRate        float64 `json:"drop_rate"`
	LettersKeyed    uint64  `json:"letters_keyed"`
	PulsesEmitted   uint64  `json:"pulses_emitted"`
	MQTTConnected   bool    `json:"mqtt_connected"`
}

// Server exposes a probe function over HTTP.
type Server struct {
	srv *http.Server
}

// NewServer builds a health server on addr. The probe is called per
// request and must be safe for concurrent use.
func NewServer(addr string, probe func() Status) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(probe()); err != nil {
			slog.Error("failed to encode health status", "error", err)
		}
	})
	return &Server{
		srv: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
		},
	}
}

// Start serves in the background until Shutdown.
func (s *Server) Start() {
	go func() {
		slog.Info("health endpoint listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("health endpoint failed", "error", err)
		}
	}()
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
