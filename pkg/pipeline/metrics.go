package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for transcript processing.
type Metrics struct {
	TranscriptsProcessedTotal *prometheus.CounterVec
	UnitsIndexedTotal         prometheus.Counter
	ProcessingSeconds         prometheus.Histogram
	ChunksTotal               *prometheus.CounterVec
	QAPairsTotal              prometheus.Counter
}

// DefaultMetrics creates metrics on the default registerer.
func DefaultMetrics() *Metrics {
	return NewMetrics(prometheus.DefaultRegisterer)
}

// NewMetrics creates a new set of pipeline metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TranscriptsProcessedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eca_transcripts_processed_total",
				Help: "Total transcripts processed, by outcome",
			},
			[]string{"status"},
		),
		UnitsIndexedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "eca_units_indexed_total",
				Help: "Total transcript units embedded and indexed",
			},
		),
		ProcessingSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "eca_processing_seconds",
				Help:    "End-to-end transcript processing duration",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
			},
		),
		ChunksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "eca_chunks_total",
				Help: "Speaker chunks produced, by section",
			},
			[]string{"section"},
		),
		QAPairsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "eca_qa_pairs_total",
				Help: "Question and answer pairs detected",
			},
		),
	}
}
