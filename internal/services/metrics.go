package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all custom Prometheus metrics for the application
type Metrics struct {
	// Escalation lifecycle metrics
	Escalations prometheus.Counter
	Resolutions prometheus.Counter
	Timeouts    prometheus.Counter

	// Knowledge base metrics
	KBHits   prometheus.Counter
	KBMisses prometheus.Counter

	// Notification metrics
	PublishFailures *prometheus.CounterVec
}

var globalMetrics *Metrics

// InitMetrics initializes the Prometheus metrics. Call once at startup;
// services fetch the instance through GetMetrics and skip recording when
// metrics were never initialized (tests).
func InitMetrics(connManager *ConnectionManager) *Metrics {
	metrics := &Metrics{
		Escalations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "frontdesk_escalations_total",
			Help: "Total number of help requests created on knowledge base misses",
		}),
		Resolutions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "frontdesk_resolutions_total",
			Help: "Total number of help requests resolved by supervisors",
		}),
		Timeouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "frontdesk_timeouts_total",
			Help: "Total number of help requests expired by the timeout reaper",
		}),
		KBHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "frontdesk_kb_hits_total",
			Help: "Total number of inbound questions answered from the knowledge base",
		}),
		KBMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "frontdesk_kb_misses_total",
			Help: "Total number of inbound questions with no knowledge base match",
		}),
		PublishFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "frontdesk_publish_failures_total",
			Help: "Total number of failed event publishes by event type",
		}, []string{"event_type"}),
	}

	// Dashboard connections come straight from the connection manager
	prometheus.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "frontdesk_dashboard_connections_active",
			Help: "Current number of connected supervisor dashboards",
		},
		func() float64 {
			if connManager != nil {
				return float64(connManager.Count())
			}
			return 0
		},
	))

	globalMetrics = metrics
	return metrics
}

// GetMetrics returns the global metrics instance, nil when uninitialized
func GetMetrics() *Metrics {
	return globalMetrics
}
