package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LotteryMetrics bundles run-level observability.
type LotteryMetrics struct {
	RunsTotal             *prometheus.CounterVec
	EntriesProcessedTotal *prometheus.CounterVec
	RunDuration           prometheus.Histogram
	LastRunAssigned       prometheus.Gauge
	LastRunUnassigned     prometheus.Gauge
	EntriesSubmittedTotal prometheus.Counter
}

func NewLotteryMetrics() *LotteryMetrics {
	return &LotteryMetrics{
		RunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lottery_runs_total",
				Help: "Processing runs by final status (completed/failed)",
			},
			[]string{"status"},
		),
		EntriesProcessedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lottery_entries_processed_total",
				Help: "Processed lottery entries by assignment reason",
			},
			[]string{"reason"},
		),
		RunDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "lottery_run_duration_seconds",
				Help:    "Wall time of one allocation run",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
			},
		),
		LastRunAssigned: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "lottery_last_run_assigned",
				Help: "Entries assigned in the most recent committed run",
			},
		),
		LastRunUnassigned: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "lottery_last_run_unassigned",
				Help: "Entries left unassigned in the most recent committed run",
			},
		),
		EntriesSubmittedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "lottery_entries_submitted_total",
				Help: "Entries accepted through the intake endpoint",
			},
		),
	}
}
