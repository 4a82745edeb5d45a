// Package metrics collects Prometheus metrics for store mutations, snapshot
// delivery and login attempts.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/educrm/educrm-hub/pkg/observable"
)

// Login outcomes.
const (
	LoginSucceeded = "success"
	LoginRejected  = "rejected"
	LoginCancelled = "cancelled"
)

// Recorder is the metrics surface used by the stores.
type Recorder interface {
	observable.Hooks
	RecordMutation(store, op string, err error)
	RecordLogin(outcome string)
}

// Collector records metrics into Prometheus collectors.
type Collector struct {
	mutations     *prometheus.CounterVec
	notifications *prometheus.CounterVec
	notifyLatency *prometheus.HistogramVec
	panics        *prometheus.CounterVec
	logins        *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "educrm_store_mutations_total",
			Help: "Store mutator calls by store, operation and result.",
		}, []string{"store", "op", "result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "educrm_store_notifications_total",
			Help: "Snapshots delivered to listeners.",
		}, []string{"store"}),
		notifyLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "educrm_store_notify_seconds",
			Help:    "Time spent delivering one snapshot to every listener.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"store"}),
		panics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "educrm_store_listener_panics_total",
			Help: "Listener panics recovered during delivery.",
		}, []string{"store"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "educrm_login_attempts_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(c.mutations, c.notifications, c.notifyLatency, c.panics, c.logins)
	return c
}

// RecordMutation implements Recorder.
func (c *Collector) RecordMutation(store, op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.mutations.WithLabelValues(store, op, result).Inc()
}

// RecordLogin implements Recorder.
func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

// Delivered implements observable.Hooks.
func (c *Collector) Delivered(subject string, _ int, took time.Duration) {
	c.notifications.WithLabelValues(subject).Inc()
	c.notifyLatency.WithLabelValues(subject).Observe(took.Seconds())
}

// ListenerPanicked implements observable.Hooks.
func (c *Collector) ListenerPanicked(subject string) {
	c.panics.WithLabelValues(subject).Inc()
}

// Nop discards every metric.
type Nop struct{}

func (Nop) RecordMutation(string, string, error) {}
func (Nop) RecordLogin(string)                   {}
func (Nop) Delivered(string, int, time.Duration) {}
func (Nop) ListenerPanicked(string)              {}

// Handler serves the gathered metrics at /metrics.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}
