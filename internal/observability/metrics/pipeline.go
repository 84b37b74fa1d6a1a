package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PipelineMetrics covers the worker-side analysis pipeline.
type PipelineMetrics struct {
	registry *prometheus.Registry

	analyzeTotal     *prometheus.CounterVec
	analyzeDuration  *prometheus.HistogramVec
	analyzeInFlight  prometheus.Gauge
	queueLag         *prometheus.HistogramVec
	classifyMethod   *prometheus.CounterVec
	engineDowngrades *prometheus.CounterVec
}

func NewPipelineMetrics(service string) *PipelineMetrics {
	registry := prometheus.NewRegistry()

	analyzeTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agridocs",
			Subsystem: "pipeline",
			Name:      "analyze_total",
			Help:      "Total analyzed documents by status.",
		},
		[]string{"service", "status"},
	)
	analyzeDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agridocs",
			Subsystem: "pipeline",
			Name:      "analyze_duration_seconds",
			Help:      "Document analysis duration in seconds by status.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "status"},
	)
	analyzeInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "agridocs",
			Subsystem: "pipeline",
			Name:      "analyze_in_flight",
			Help:      "Number of in-flight document analyses.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queueLag := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "agridocs",
			Subsystem: "pipeline",
			Name:      "queue_lag_seconds",
			Help:      "Delay between document upload and analysis start.",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"service"},
	)
	classifyMethod := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agridocs",
			Subsystem: "classify",
			Name:      "method_total",
			Help:      "Classifications by the strategy that produced the result.",
		},
		[]string{"service", "method", "category"},
	)
	engineDowngrades := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "agridocs",
			Subsystem: "engine",
			Name:      "downgrade_total",
			Help:      "Engines permanently disabled at runtime, by engine.",
		},
		[]string{"service", "engine"},
	)

	registry.MustRegister(
		analyzeTotal,
		analyzeDuration,
		analyzeInFlight,
		queueLag,
		classifyMethod,
		engineDowngrades,
	)

	return &PipelineMetrics{
		registry:         registry,
		analyzeTotal:     analyzeTotal,
		analyzeDuration:  analyzeDuration,
		analyzeInFlight:  analyzeInFlight,
		queueLag:         queueLag,
		classifyMethod:   classifyMethod,
		engineDowngrades: engineDowngrades,
	}
}

func (m *PipelineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *PipelineMetrics) StartAnalysis() {
	m.analyzeInFlight.Inc()
}

func (m *PipelineMetrics) FinishAnalysis(service string, duration time.Duration, err error) {
	m.analyzeInFlight.Dec()

	status := "success"
	if err != nil {
		status = "error"
	}
	m.analyzeTotal.WithLabelValues(service, status).Inc()
	m.analyzeDuration.WithLabelValues(service, status).Observe(duration.Seconds())
}

func (m *PipelineMetrics) ObserveQueueLag(service string, lag time.Duration) {
	if lag < 0 {
		return
	}
	m.queueLag.WithLabelValues(service).Observe(lag.Seconds())
}

func (m *PipelineMetrics) RecordClassification(service, method, category string) {
	if method == "" {
		method = "unknown"
	}
	m.classifyMethod.WithLabelValues(service, method, category).Inc()
}

func (m *PipelineMetrics) RecordEngineDowngrade(service, engine string) {
	m.engineDowngrades.WithLabelValues(service, engine).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
