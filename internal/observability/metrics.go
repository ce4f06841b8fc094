package observability

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_http_requests_total",
			Help: "Total number of HTTP requests processed by the messaging service.",
		},
		[]string{"method", "route", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "messaging_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)
	messagesSentTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_messages_sent_total",
			Help: "Total number of messages accepted by the send endpoint.",
		},
	)
	notificationsEmittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_notifications_emitted_total",
			Help: "Total number of notifications written to user inboxes.",
		},
		[]string{"type"},
	)
	cascadeFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_cascade_failures_total",
			Help: "Secondary effects (preview refresh, notification writes) that failed after a durable primary effect.",
		},
		[]string{"cascade"},
	)
	sweeperPurgedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_sweeper_purged_rows_total",
			Help: "Rows removed by the retention sweeper, per policy.",
		},
		[]string{"policy"},
	)
	sweeperFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_sweeper_failures_total",
			Help: "Retention sweeper policy runs that failed.",
		},
		[]string{"policy"},
	)
	rateLimitedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "messaging_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		},
		[]string{"scope"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "messaging_amqp_publish_errors_total",
			Help: "Total number of AMQP publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpRequestDuration,
		messagesSentTotal,
		notificationsEmittedTotal,
		cascadeFailuresTotal,
		sweeperPurgedTotal,
		sweeperFailuresTotal,
		rateLimitedTotal,
		amqpPublishErrorsTotal,
	)
}

// HTTPMetricsMiddleware records request counts and latencies per route.
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		status := c.Writer.Status()

		httpRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		httpRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func IncMessageSent() {
	messagesSentTotal.Inc()
}

func IncNotificationEmitted(kind string) {
	notificationsEmittedTotal.WithLabelValues(kind).Inc()
}

func IncCascadeFailure(cascade string) {
	cascadeFailuresTotal.WithLabelValues(cascade).Inc()
}

func AddSweeperPurged(policy string, rows int) {
	sweeperPurgedTotal.WithLabelValues(policy).Add(float64(rows))
}

func IncSweeperFailure(policy string) {
	sweeperFailuresTotal.WithLabelValues(policy).Inc()
}

func IncRateLimited(scope string) {
	rateLimitedTotal.WithLabelValues(scope).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
