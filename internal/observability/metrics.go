package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gemnav",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests handled by the portal.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gemnav",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
	geminiRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gemnav",
			Subsystem: "gemini",
			Name:      "requests_total",
			Help:      "Gemini fetches by response category.",
		},
		[]string{"category", "status"},
	)
	geminiDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "gemnav",
			Subsystem: "gemini",
			Name:      "request_duration_seconds",
			Help:      "Gemini fetch duration in seconds, redirects included.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"category"},
	)
	geminiBodyBytes = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gemnav",
			Subsystem: "gemini",
			Name:      "body_bytes",
			Help:      "Size of fetched response bodies in bytes.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 9),
		},
	)
	geminiRedirectHops = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gemnav",
			Subsystem: "gemini",
			Name:      "redirect_hops",
			Help:      "Redirect hops followed per navigation.",
			Buckets:   prometheus.LinearBuckets(0, 1, 6),
		},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequests, httpDuration,
			geminiRequests, geminiDuration,
			geminiBodyBytes, geminiRedirectHops,
		)
	})
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}

// RecordGeminiFetch records one completed navigation. status is the
// final Gemini status; pass 0 when the fetch failed before a header
// was read.
func RecordGeminiFetch(status int, duration time.Duration, bodyBytes, hops int) {
	RegisterMetrics()
	category := categoryLabel(status)
	geminiRequests.WithLabelValues(category, strconv.Itoa(status)).Inc()
	geminiDuration.WithLabelValues(category).Observe(duration.Seconds())
	geminiBodyBytes.Observe(float64(bodyBytes))
	geminiRedirectHops.Observe(float64(hops))
}

func categoryLabel(status int) string {
	switch status / 10 {
	case 1:
		return "input"
	case 2:
		return "success"
	case 3:
		return "redirect"
	case 4:
		return "temporary_failure"
	case 5:
		return "permanent_failure"
	case 6:
		return "cert_required"
	default:
		return "error"
	}
}
