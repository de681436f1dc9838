// Package metrics exports poll coordinator telemetry in the Prometheus
// text format.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/urmzd/gaposa/pkg/poll"
)

const namespace = "gaposa"

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	now      func() time.Time

	fetchDuration *prometheus.HistogramVec
	fetchFailures *prometheus.CounterVec
	lastFetch     *prometheus.GaugeVec
	waiters       *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		now:      time.Now,
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_duration_seconds",
				Help:      "Time taken to fetch and apply a device document",
				Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"device"},
		),
		fetchFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "fetch_failures_total",
				Help:      "Device fetches that returned an error",
			},
			[]string{"device"},
		),
		lastFetch: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_fetch_timestamp_seconds",
				Help:      "Unix timestamp of the last successful device fetch",
			},
			[]string{"device"},
		),
		waiters: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "waiters_released_total",
				Help:      "Waiters released by the poll loop, by outcome",
			},
			[]string{"device", "outcome"},
		),
	}
	m.registry.MustRegister(m.fetchDuration, m.fetchFailures, m.lastFetch, m.waiters)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Observer returns the poll observer for one device. It fits
// gaposa.Options.Observer.
func (m *Metrics) Observer(serial string) poll.Observer {
	return &deviceObserver{m: m, serial: serial}
}

type deviceObserver struct {
	m      *Metrics
	serial string
}

func (o *deviceObserver) FetchCompleted(elapsed time.Duration, err error) {
	o.m.fetchDuration.WithLabelValues(o.serial).Observe(elapsed.Seconds())
	if err != nil {
		o.m.fetchFailures.WithLabelValues(o.serial).Inc()
		return
	}
	o.m.lastFetch.WithLabelValues(o.serial).Set(float64(o.m.now().Unix()))
}

func (o *deviceObserver) WaiterReleased(outcome poll.Outcome) {
	o.m.waiters.WithLabelValues(o.serial, outcome.String()).Inc()
}
