// Package metrics содержит счётчики Prometheus, общие для всего приложения.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "newsboard"

var (
	// NewsLoads считает загрузки ленты на странице по исходу.
	NewsLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "news_loads_total",
		Help:      "Page news loads by outcome.",
	}, []string{"outcome"})

	// HTTPRequests считает запросы по методу и коду ответа.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method and status code.",
	}, []string{"method", "status"})

	// HTTPDuration - время обработки запроса.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method"})

	// FeedItems считает элементы лент: saved, skipped, failed.
	FeedItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "feed_items_total",
		Help:      "Feed items processed by result.",
	}, []string{"result"})
)
