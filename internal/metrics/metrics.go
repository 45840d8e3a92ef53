package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitness_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Business metrics
	UsersRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitness_users_registered_total",
			Help: "Total users registered",
		},
	)

	WorkoutSessionsStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitness_workout_sessions_started_total",
			Help: "Total workout sessions started",
		},
	)

	// Chat metrics
	WSConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitness_ws_connections_active",
			Help: "Currently open WebSocket connections",
		},
	)

	ChatMessagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_chat_messages_sent_total",
			Help: "Total chat messages persisted and broadcast",
		},
		[]string{"message_type"},
	)

	ChatHistoryQueries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitness_chat_history_queries_total",
			Help: "Total chat history replays",
		},
	)

	// Rate limit metrics
	RateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitness_rate_limit_hits_total",
			Help: "Total rate limit hits",
		},
		[]string{"endpoint"},
	)
)
