package metrics

import "github.com/prometheus/client_golang/prometheus"

// Remote call Prometheus metrics for the vector storage service.
var (
	RemoteRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vecbrowse",
			Name:      "remote_requests_total",
			Help:      "Total number of vector storage list requests",
		},
		[]string{"operation", "status"},
	)

	RemoteRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "vecbrowse",
			Name:      "remote_request_duration_seconds",
			Help:      "Vector storage list request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	RemoteItemsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vecbrowse",
			Name:      "remote_items_total",
			Help:      "Total listing items returned by the vector storage service",
		},
		[]string{"operation"},
	)
)

var remoteMetricsRegistered bool

// RegisterRemoteMetrics registers the remote call metrics. Must be called once from main.
func RegisterRemoteMetrics() {
	if remoteMetricsRegistered {
		return
	}
	prometheus.MustRegister(RemoteRequestsTotal)
	prometheus.MustRegister(RemoteRequestDuration)
	prometheus.MustRegister(RemoteItemsTotal)
	remoteMetricsRegistered = true
}
