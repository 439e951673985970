// Package metrics counts and times calls to the remote services.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ServiceIdentity   = "identity"
	ServiceStore      = "store"
	ServiceMedia      = "media"
	ServiceClassifier = "classifier"
)

var (
	remoteCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "snacktrack",
		Name:      "remote_calls_total",
		Help:      "Remote service calls by service, operation and outcome.",
	}, []string{"service", "operation", "outcome"})

	remoteLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "snacktrack",
		Name:      "remote_call_duration_seconds",
		Help:      "Remote service call latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"service", "operation"})

	partialConsumptions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "snacktrack",
		Name:      "partial_consumptions_total",
		Help:      "Consumption entries written without their daily total update.",
	})

	pendingTotals = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "snacktrack",
		Name:      "pending_total_updates",
		Help:      "Daily total updates waiting for reconciliation.",
	})
)

// Register adds the collectors to reg. Call once per registry.
func Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{remoteCalls, remoteLatency, partialConsumptions, pendingTotals} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Observe records one finished call started at start.
func Observe(service, operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	remoteCalls.WithLabelValues(service, operation, outcome).Inc()
	remoteLatency.WithLabelValues(service, operation).Observe(time.Since(start).Seconds())
}

func PartialConsumption() {
	partialConsumptions.Inc()
}

func PendingTotals(n int) {
	pendingTotals.Set(float64(n))
}
