package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archived_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "archived_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "archived_http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Uploads
	ImagesStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "archived_images_stored_total",
			Help: "Total number of item images written to storage",
		},
	)

	ImagesCompressed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "archived_images_compressed_total",
			Help: "Total number of oversized uploads recompressed to JPEG",
		},
	)

	StorageDeleteErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "archived_storage_delete_errors_total",
			Help: "Total number of failed best-effort file deletions",
		},
	)

	// Contact form
	ContactSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archived_contact_submissions_total",
			Help: "Contact form submissions by result",
		},
		[]string{"result"}, // "sent", "rate_limited", "failed"
	)

	RateLimiterEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "archived_rate_limiter_entries",
			Help: "Number of client windows tracked by the contact rate limiter",
		},
	)

	// Maintenance
	MaintenanceRemoved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archived_maintenance_removed_total",
			Help: "Rows or entries removed by maintenance tasks",
		},
		[]string{"task"}, // "unused_tags", "expired_refresh_tokens", "rate_limit_windows"
	)

	MaintenanceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "archived_maintenance_errors_total",
			Help: "Failed maintenance task runs",
		},
		[]string{"task"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

func RecordContactSubmission(result string) {
	ContactSubmissions.WithLabelValues(result).Inc()
}

// RecordMaintenance records the outcome of one maintenance task run
func RecordMaintenance(task string, removed int64, err error) {
	if err != nil {
		MaintenanceErrors.WithLabelValues(task).Inc()
		return
	}
	MaintenanceRemoved.WithLabelValues(task).Add(float64(removed))
}
