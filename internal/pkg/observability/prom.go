package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ServiceName = "shiftboard"
)

var (
	CycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "worker", "cycle_duration_seconds"),
		Help:    "Duration of a recompute cycle in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"mode"})
	CycleFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "worker", "cycle_failures_total"),
		Help: "Recompute cycles that failed, by reason",
	}, []string{"mode", "reason"})
	SnapshotStale = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "snapshot", "stale"),
		Help: "Whether the served snapshot is stale (1) or fresh (0)",
	}, []string{"mode"})
	SnapshotGrandTotal = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: prometheus.BuildFQName(ServiceName, "snapshot", "grand_total"),
		Help: "Grand total of hits in the latest snapshot",
	}, []string{"mode"})
	EventsDiscarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "events", "discarded_total"),
		Help: "Production events left out of totals, by outcome",
	}, []string{"outcome"})
	UpstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    prometheus.BuildFQName(ServiceName, "upstream", "request_duration_seconds"),
		Help:    "Duration of requests to the lab API in seconds",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
	}, []string{"endpoint", "outcome"})
	ArchivedDays = promauto.NewCounter(prometheus.CounterOpts{
		Name: prometheus.BuildFQName(ServiceName, "archive", "days_total"),
		Help: "Production days archived by this instance",
	})
)
