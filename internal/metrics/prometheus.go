package metrics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AnalysisDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webotyou_analysis_duration_seconds",
			Help:    "Website analysis duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
	)

	AnalysisTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webotyou_analysis_total",
			Help: "Total website analyses by outcome",
		},
		[]string{"outcome"},
	)

	ChatRepliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webotyou_chat_replies_total",
			Help: "Total chat replies by response source",
		},
		[]string{"source"},
	)

	ContactInquiriesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webotyou_contact_inquiries_total",
			Help: "Total contact inquiries persisted",
		},
	)

	LLMTokensUsed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webotyou_llm_tokens_used",
			Help: "Total LLM tokens used",
		},
		[]string{"operation", "type"},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webotyou_cache_hits_total",
			Help: "Total profile cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webotyou_cache_misses_total",
			Help: "Total profile cache misses",
		},
		[]string{"cache_type"},
	)
)

func Init() {
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(AnalysisTotal)
	prometheus.MustRegister(ChatRepliesTotal)
	prometheus.MustRegister(ContactInquiriesTotal)
	prometheus.MustRegister(LLMTokensUsed)
	prometheus.MustRegister(CacheHits)
	prometheus.MustRegister(CacheMisses)
}

func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
