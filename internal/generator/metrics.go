package generator

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder observes generation calls.
type Recorder interface {
	ObserveGeneration(model string, err error, duration time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) ObserveGeneration(string, error, time.Duration) {}

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	generationsTotal   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
}

// NewPrometheusRecorder registers the generation metrics on reg.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	factory := promauto.With(reg)
	return &PrometheusRecorder{
		generationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "phenix_generations_total",
				Help: "Total number of session generations by model, status and error kind",
			},
			[]string{"model", "status", "error_kind"},
		),
		generationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "phenix_generation_duration_seconds",
				Help: "Duration of session generations in seconds",
				// Structured generations routinely take tens of seconds.
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
			},
			[]string{"model"},
		),
	}
}

// ObserveGeneration records one completed generation.
func (p *PrometheusRecorder) ObserveGeneration(model string, err error, duration time.Duration) {
	status, kind := "success", ""
	if err != nil {
		status, kind = "error", KindOf(err).String()
	}
	p.generationsTotal.WithLabelValues(model, status, kind).Inc()
	p.generationDuration.WithLabelValues(model).Observe(duration.Seconds())
}
