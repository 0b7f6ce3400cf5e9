package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "water_safety"

// Metrics holds the Prometheus counters, histograms, and gauges for the scoring service.
type Metrics struct {
	MessagesConsumed prometheus.Counter
	MessagesProduced prometheus.Counter
	TransformErrors  prometheus.Counter
	PipelineRunning  prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Scoring metrics.
	Classifications     *prometheus.CounterVec   // labels: method={sensory,lab}, level={safe,caution,unsafe,hazardous}
	ConfigurationErrors prometheus.Counter       // lab requests refused for missing standards
	DiseasePredictions  prometheus.Counter       // total disease names emitted
	ReferenceFetches    *prometheus.CounterVec   // labels: dataset={standards,treatments,diseases}, outcome={success,error}
	ReferenceDuration   *prometheus.HistogramVec // labels: dataset
	VerdictCache        *prometheus.CounterVec   // labels: method={sensory,lab}, result={hit,miss,error}

	// MQTT intake metrics.
	MQTTMessages *prometheus.CounterVec // labels: outcome={processed,rejected,error}
}

func newMetrics() *Metrics {
	return &Metrics{
		MessagesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_consumed_total",
			Help:      "Total readings read from the source topic.",
		}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Total assessments written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transform_errors_total",
			Help:      "Total readings that could not be assessed.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of readings per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-assess-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		Classifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Verdicts produced by classifier method and safety level.",
		}, []string{"method", "level"}),
		ConfigurationErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "configuration_errors_total",
			Help:      "Lab classifications refused because no parameter standards were available.",
		}),
		DiseasePredictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disease_predictions_total",
			Help:      "Total candidate diseases emitted by the predictor.",
		}),
		ReferenceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_fetches_total",
			Help:      "Reference data lookups by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		ReferenceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reference_fetch_duration_seconds",
			Help:      "Reference data lookup duration in seconds.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"dataset"}),
		VerdictCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verdict_cache_total",
			Help:      "Verdict cache lookups by method and result.",
		}, []string{"method", "result"}),
		MQTTMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "mqtt_messages_total",
			Help:      "Station readings received over MQTT by outcome.",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.MessagesConsumed,
		m.MessagesProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.Classifications,
		m.ConfigurationErrors,
		m.DiseasePredictions,
		m.ReferenceFetches,
		m.ReferenceDuration,
		m.VerdictCache,
		m.MQTTMessages,
	}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsWithRegistry creates Metrics registered on reg. The CLI passes a
// private registry since it never serves /metrics.
func NewMetricsWithRegistry(reg prometheus.Registerer) *Metrics {
	m := newMetrics()
	reg.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered on a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewMetricsWithRegistry(prometheus.NewRegistry())
}
