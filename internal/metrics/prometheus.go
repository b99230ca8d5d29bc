package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ChatDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "universererp_chat_duration_seconds",
			Help:    "Chat message processing duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"path"},
	)

	ChatTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "universererp_chat_messages_total",
			Help: "Total chat messages processed",
		},
		[]string{"source"},
	)

	QueryIntentTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "universererp_query_intent_total",
			Help: "Data queries by classified intent",
		},
		[]string{"intent"},
	)

	StoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "universererp_store_requests_total",
			Help: "Collection store requests by resource and operation",
		},
		[]string{"resource", "operation", "status"},
	)

	DashboardCacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "universererp_dashboard_cache_hits_total",
			Help: "Dashboard cache hits and misses",
		},
		[]string{"result"},
	)

	EmailsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "universererp_emails_sent_total",
			Help: "Outbound emails by kind and status",
		},
		[]string{"kind", "status"},
	)

	LLMRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "universererp_llm_requests_total",
			Help: "LLM completion attempts by outcome",
		},
		[]string{"status"},
	)
)

func Init() {
	prometheus.MustRegister(ChatDuration)
	prometheus.MustRegister(ChatTotal)
	prometheus.MustRegister(QueryIntentTotal)
	prometheus.MustRegister(StoreRequestsTotal)
	prometheus.MustRegister(DashboardCacheHits)
	prometheus.MustRegister(EmailsSent)
	prometheus.MustRegister(LLMRequestsTotal)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
