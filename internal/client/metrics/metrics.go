// Package metrics instruments the client with Prometheus collectors held in a
// private registry. A nil *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/jwtclient/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Probe outcome labels.
const (
	ProbeOK      = "ok"
	ProbeError   = "error"
	ProbeSkipped = "skipped"
)

type Metrics struct {
	registry *prometheus.Registry

	requests      *prometheus.CounterVec
	requestTime   *prometheus.HistogramVec
	probes        *prometheus.CounterVec
	authenticated prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jwtclient_requests_total",
				Help: "HTTP exchanges by method, path and outcome",
			},
			[]string{"method", "path", "outcome"},
		),
		requestTime: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jwtclient_request_duration_seconds",
				Help:    "HTTP exchange latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		probes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jwtclient_health_probes_total",
				Help: "Health probes by status; skipped counts ticks dropped while a probe was in flight",
			},
			[]string{"status"},
		),
		authenticated: f.NewGauge(prometheus.GaugeOpts{
			Name: "jwtclient_session_authenticated",
			Help: "1 while the session holds an access token",
		}),
	}
}

func (m *Metrics) ObserveRequest(method, path, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, outcome).Inc()
	m.requestTime.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveProbe(status string) {
	if m == nil {
		return
	}
	m.probes.WithLabelValues(status).Inc()
}

func (m *Metrics) SetAuthenticated(ok bool) {
	if m == nil {
		return
	}
	if ok {
		m.authenticated.Set(1)
	} else {
		m.authenticated.Set(0)
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve runs a /metrics endpoint on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, logger logging.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info(ctx, "metrics endpoint listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
