// Package metrics exposes Prometheus counters for bot commands and feed
// requests. A nil *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	commands      *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	delivered     prometheus.Counter
}

// New creates the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.commands = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "onthisday",
		Name:      "commands_total",
		Help:      "Number of handled chat commands by command",
	}, []string{"command"})
	m.fetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "onthisday",
		Name:      "fetch_total",
		Help:      "Number of feed requests by status",
	}, []string{"status"})
	m.fetchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "onthisday",
		Name:      "fetch_duration_seconds",
		Help:      "Time spent waiting for the feed",
		Buckets:   prometheus.DefBuckets,
	})
	m.delivered = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "onthisday",
		Name:      "events_delivered_total",
		Help:      "Number of events sent to users",
	})

	m.registry.MustRegister(m.commands, m.fetches, m.fetchDuration, m.delivered)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) IncCommand(command string) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(command).Inc()
}

// ObserveFetch records one feed request. A non-nil err counts as "error".
func (m *Metrics) ObserveFetch(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.fetches.WithLabelValues(status).Inc()
	m.fetchDuration.Observe(d.Seconds())
}

func (m *Metrics) AddDelivered(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.delivered.Add(float64(n))
}

// Server serves /metrics and /healthz.
type Server struct {
	server *http.Server
}

// NewServer builds an HTTP server for m listening on addr.
func NewServer(addr string, m *Metrics) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Handler returns the server's mux.
func (s *Server) Handler() http.Handler { return s.server.Handler }

func (s *Server) Serve() error                       { return s.server.ListenAndServe() }
func (s *Server) Shutdown(ctx context.Context) error { return s.server.Shutdown(ctx) }
