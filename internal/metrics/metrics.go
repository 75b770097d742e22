// Package metrics exposes listing fetch counters for Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Recorder collects fetch metrics on its own registry.
type Recorder struct {
	registry  *prometheus.Registry
	fetches   *prometheus.CounterVec
	discarded prometheus.Counter
	duration  prometheus.Histogram
}

// New builds a Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ideas_fetch_total",
			Help: "Listing fetches by outcome.",
		}, []string{"outcome"}),
		discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ideas_fetch_discarded_total",
			Help: "Fetch results dropped because a newer request superseded them.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ideas_fetch_duration_seconds",
			Help:    "Listing fetch latency.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	r.registry.MustRegister(r.fetches, r.discarded, r.duration)
	return r
}

// ObserveFetch records one completed fetch.
func (r *Recorder) ObserveFetch(elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	r.fetches.WithLabelValues(outcome).Inc()
	r.duration.Observe(elapsed.Seconds())
}

// ObserveDiscarded records a superseded result.
func (r *Recorder) ObserveDiscarded() {
	if r == nil {
		return
	}
	r.discarded.Inc()
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled. It returns
// immediately; listener errors are logged.
func (r *Recorder) Serve(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		log.Info().Str("addr", addr).Msg("Serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Str("addr", addr).Msg("Metrics listener stopped")
		}
	}()
}
