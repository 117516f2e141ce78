package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics instruments assembler entries and cross-validation folds.
type Metrics struct {
	EntryDuration *prometheus.HistogramVec
	EntryErrors   *prometheus.CounterVec
	RowsProcessed *prometheus.CounterVec
	FoldScore     *prometheus.GaugeVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EntryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "automod_entry_duration_seconds",
				Help:    "Time spent fitting or transforming one mapping entry",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"entry", "op"},
		),
		EntryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automod_entry_errors_total",
				Help: "Mapping entries that failed",
			},
			[]string{"entry", "op"},
		),
		RowsProcessed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "automod_rows_processed_total",
				Help: "Rows assembled into feature matrices",
			},
			[]string{"op"},
		),
		FoldScore: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "automod_cv_fold_score",
				Help: "Validation score of each cross-validation fold",
			},
			[]string{"fold", "metric"},
		),
	}
	reg.MustRegister(m.EntryDuration, m.EntryErrors, m.RowsProcessed, m.FoldScore)
	return m
}
