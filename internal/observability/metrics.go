package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/sandevgo/loopbot/internal/core"
)

const (
	namespace = "loop"
	meterName = "github.com/sandevgo/loopbot"

	statusOK    = "ok"
	statusError = "error"
)

// Metrics records turn outcomes to prometheus and mirrors the counters to
// the global otel meter.
type Metrics struct {
	turns        *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	evicted      prometheus.Counter
	records      prometheus.Gauge
	datasetLoads *prometheus.CounterVec

	otelTurns   metric.Int64Counter
	otelLatency metric.Float64Histogram
}

// NewMetrics registers the collectors on reg. A nil reg means the default
// prometheus registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		turns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Conversation turns answered, by intent and status",
		}, []string{"intent", "status"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_latency_seconds",
			Help:      "Time spent answering a turn",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
		evicted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_evicted_total",
			Help:      "Idle sessions removed by the sweeper",
		}),
		records: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_records",
			Help:      "Hospital records in the active dataset",
		}),
		datasetLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dataset_loads_total",
			Help:      "Dataset load attempts, by source and status",
		}, []string{"source", "status"}),
	}

	meter := otel.Meter(meterName)
	// The global meter is a no-op until telemetry is initialised, so these
	// never fail in practice.
	m.otelTurns, _ = meter.Int64Counter("loop.turns", metric.WithDescription("Conversation turns answered"))
	m.otelLatency, _ = meter.Float64Histogram("loop.turn.duration", metric.WithUnit("s"))
	return m
}

func (m *Metrics) ObserveTurn(intent core.Intent, failed bool, elapsed time.Duration) {
	status := statusOK
	if failed {
		status = statusError
	}
	label := string(intent)
	if label == "" {
		label = "none"
	}
	m.turns.WithLabelValues(label, status).Inc()
	m.latency.WithLabelValues(label).Observe(elapsed.Seconds())

	attrs := metric.WithAttributes(attribute.String("intent", label), attribute.String("status", status))
	m.otelTurns.Add(context.Background(), 1, attrs)
	m.otelLatency.Record(context.Background(), elapsed.Seconds(), attrs)
}

// SessionsEvicted matches session.Sweeper.OnEvict.
func (m *Metrics) SessionsEvicted(n int) {
	m.evicted.Add(float64(n))
}

// DatasetLoaded records a load attempt and, on success, the new size.
func (m *Metrics) DatasetLoaded(source string, records int, err error) {
	if err != nil {
		m.datasetLoads.WithLabelValues(source, statusError).Inc()
		return
	}
	m.datasetLoads.WithLabelValues(source, statusOK).Inc()
	m.records.Set(float64(records))
}
