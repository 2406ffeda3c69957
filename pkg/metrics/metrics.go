// Package metrics exposes Prometheus metrics about the attacks of the monkey
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Results of a pod deletion
const (
	ResultDeleted  = "deleted"
	ResultNotFound = "not_found"
	ResultFailed   = "failed"
)

// Metrics holds the collectors updated by the monkey. A nil *Metrics discards every observation.
type Metrics struct {
	registry  *prometheus.Registry
	cycles    prometheus.Counter
	attacks   prometheus.Counter
	deletions *prometheus.CounterVec
	groups    prometheus.Gauge
	nextWait  prometheus.Gauge
}

// New creates the collectors and registers them in a new registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "khaos_monkey_cycles_total",
			Help: "Total number of attack cycles",
		}),
		attacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "khaos_monkey_group_attacks_total",
			Help: "Total number of khaos groups attacked",
		}),
		deletions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "khaos_monkey_pod_deletions_total",
				Help: "Total number of pod deletions requested, by result",
			},
			[]string{"result"},
		),
		groups: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "khaos_monkey_groups",
			Help: "Number of khaos groups found in the last cycle",
		}),
		nextWait: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "khaos_monkey_next_wait_seconds",
			Help: "Time until the next attack cycle",
		}),
	}

	m.registry.MustRegister(m.cycles, m.attacks, m.deletions, m.groups, m.nextWait)

	return m
}

// Registry returns the registry holding the collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveCycle records a completed cycle
func (m *Metrics) ObserveCycle(groups int, attacked int) {
	if m == nil {
		return
	}
	m.cycles.Inc()
	m.groups.Set(float64(groups))
	m.attacks.Add(float64(attacked))
}

// ObserveDeletion records the result of a pod deletion
func (m *Metrics) ObserveDeletion(result string) {
	if m == nil {
		return
	}
	m.deletions.WithLabelValues(result).Inc()
}

// ObserveNextWait records the time until the next cycle
func (m *Metrics) ObserveNextWait(wait time.Duration) {
	if m == nil {
		return
	}
	m.nextWait.Set(wait.Seconds())
}

// Handler returns an http.Handler that serves the metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve serves the metrics in the given address until the context is done
func (m *Metrics) Serve(ctx context.Context, address string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Addr:              address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
