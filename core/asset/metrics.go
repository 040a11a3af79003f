package asset

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK      = "ok"
	resultError   = "error"
	resultSkipped = "skipped"
)

// Metrics of facade operations. A nil *Metrics records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
	issuance   prometheus.Gauge
}

// PrometheusMetrics creates metrics and registers them in registerer
func PrometheusMetrics(namespace string, registerer prometheus.Registerer) *Metrics {
	operations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "asset",
			Name:      "operations_total",
			Help:      "Balance and stake operations by result",
		},
		[]string{"op", "result"},
	)
	registerer.MustRegister(operations)
	issuance := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "asset",
			Name:      "total_issuance",
			Help:      "Total issuance after the last supply change",
		},
	)
	registerer.MustRegister(issuance)

	return &Metrics{operations: operations, issuance: issuance}
}

func NopMetrics() *Metrics {
	return nil
}

func (m *Metrics) observe(op string, err error) {
	if m == nil {
		return
	}

	result := resultOK
	if err != nil {
		result = resultError
	}
	m.operations.WithLabelValues(op, result).Inc()
}

func (m *Metrics) skipped(op string) {
	if m == nil {
		return
	}

	m.operations.WithLabelValues(op, resultSkipped).Inc()
}

func (m *Metrics) setIssuance(value float64) {
	if m == nil {
		return
	}

	m.issuance.Set(value)
}
