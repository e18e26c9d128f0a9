// Package metrics provides Prometheus metrics for the extraction pipeline
package metrics

import (
	"time"

	"doc-text-reader/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline collectors. It implements domain.ExtractionMetrics.
type Metrics struct {
	ExtractionsTotal      *prometheus.CounterVec
	ExtractionDuration    *prometheus.HistogramVec
	OCREscalationsTotal   prometheus.Counter
	StrategyFailuresTotal *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ExtractionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "doctext_extractions_total",
				Help: "Total number of document extractions by format and outcome",
			},
			[]string{"format", "status"},
		),
		ExtractionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "doctext_extraction_duration_seconds",
				Help:    "Duration of document extractions in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"format"},
		),
		OCREscalationsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "doctext_ocr_escalations_total",
				Help: "Number of PDFs escalated to optical recognition",
			},
		),
		StrategyFailuresTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "doctext_pdf_strategy_failures_total",
				Help: "Number of failed text-layer PDF strategy attempts",
			},
			[]string{"strategy"},
		),
	}

	if reg != nil {
		reg.MustRegister(
			m.ExtractionsTotal,
			m.ExtractionDuration,
			m.OCREscalationsTotal,
			m.StrategyFailuresTotal,
		)
	}
	return m
}

// ObserveExtraction records one finished extraction.
func (m *Metrics) ObserveExtraction(format domain.Format, status domain.Status, elapsed time.Duration) {
	m.ExtractionsTotal.WithLabelValues(string(format), string(status)).Inc()
	m.ExtractionDuration.WithLabelValues(string(format)).Observe(elapsed.Seconds())
}

// IncEscalation counts one OCR escalation.
func (m *Metrics) IncEscalation() {
	m.OCREscalationsTotal.Inc()
}

// IncStrategyFailure counts one failed PDF strategy attempt.
func (m *Metrics) IncStrategyFailure(strategy string) {
	m.StrategyFailuresTotal.WithLabelValues(strategy).Inc()
}

// Nop discards every observation.
type Nop struct{}

func (Nop) ObserveExtraction(domain.Format, domain.Status, time.Duration) {}
func (Nop) IncEscalation()                                                {}
func (Nop) IncStrategyFailure(string)                                     {}
