package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PromptSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "promptkeeper", Name: "prompt_saves_total", Help: "Number of persisted prompt saves by operation (create, update)."},
		[]string{"op"},
	)
	PromptSaveFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "promptkeeper", Name: "prompt_save_failures_total", Help: "Number of rejected or failed prompt saves by error kind."},
		[]string{"kind"},
	)
	PromptDeletes = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "promptkeeper", Name: "prompt_deletes_total", Help: "Number of deleted prompts."},
	)
	CategoryDeletes = prometheus.NewCounter(
		prometheus.CounterOpts{Namespace: "promptkeeper", Name: "category_deletes_total", Help: "Number of deleted user categories."},
	)
	HistoryVersions = prometheus.NewHistogram(
		prometheus.HistogramOpts{Namespace: "promptkeeper", Name: "history_versions", Help: "History length of a prompt after an update.", Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 250}},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "promptkeeper", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "promptkeeper", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(PromptSaves, PromptSaveFailures, PromptDeletes, CategoryDeletes, HistoryVersions)
	reg.MustRegister(RateLimitAllowed, RateLimitRejected)
}
