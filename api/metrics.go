package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics keeps the response time of API paths
type Metrics struct {
	responseTime *prometheus.HistogramVec
}

func PrometheusMetrics(namespace string, registerer prometheus.Registerer) *Metrics {
	responseTime := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "response_time_seconds",
			Help:      "Api response time by path",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "status"},
	)
	registerer.MustRegister(responseTime)

	return &Metrics{responseTime: responseTime}
}

func (m *Metrics) observe(path string, status int, duration time.Duration) {
	if m == nil {
		return
	}

	m.responseTime.WithLabelValues(path, strconv.Itoa(status)).Observe(duration.Seconds())
}

func (s *Service) observe(c *gin.Context) {
	start := time.Now()
	c.Next()

	path := c.FullPath()
	if path == "" {
		path = "unknown"
	}
	s.metrics.observe(path, c.Writer.Status(), time.Since(start))
	s.logger.Debug("request", "path", path, "status", c.Writer.Status(), "duration", time.Since(start))
}
