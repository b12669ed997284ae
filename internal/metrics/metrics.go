// Package metrics counts session transitions and optionally serves them.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/naveenspark/probe/internal/session"
)

// Metrics holds the session counters on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	events   *prometheus.CounterVec
	requests *prometheus.CounterVec
}

// New registers the counters.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "probe_session_events_total",
			Help: "Session transitions by kind.",
		}, []string{"kind"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "probe_requests_total",
			Help: "Console requests by service and status class.",
		}, []string{"service", "class"}),
	}
	m.registry.MustRegister(m.events, m.requests)
	return m
}

// Observe counts one session event. It is a session listener.
func (m *Metrics) Observe(ev session.Event) {
	m.events.WithLabelValues(ev.Kind.String()).Inc()
}

// Request counts one console call. An empty class is recorded as "none".
func (m *Metrics) Request(service, class string) {
	if class == "" {
		class = "none"
	}
	m.requests.WithLabelValues(service, class).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve listens on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics.Serve: %w", err)
	}
	logger.Info("metrics listening", "addr", ln.Addr().String())

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx) //nolint:errcheck // best-effort shutdown
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics.Serve: %w", err)
	}
	return nil
}
