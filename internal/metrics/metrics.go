package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersPlaced counts successfully placed orders by fulfillment type.
	OrdersPlaced = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_orders_placed_total",
		Help: "Total number of orders placed",
	}, []string{"fulfillment_type"})

	// OrderFailures counts order submissions that failed.
	OrderFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_order_failures_total",
		Help: "Total number of failed order submissions",
	})

	// ChatMessagesSent counts chat messages by sender.
	ChatMessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_chat_messages_total",
		Help: "Total number of chat messages stored",
	}, []string{"sender"})

	// CatalogCacheHits and CatalogCacheMisses track catalog cache efficiency.
	CatalogCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_catalog_cache_hits_total",
		Help: "Total number of catalog cache hits",
	})
	CatalogCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_catalog_cache_misses_total",
		Help: "Total number of catalog cache misses",
	})

	// CatalogFallbacks counts catalog loads served from the built-in list.
	CatalogFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "storefront_catalog_fallbacks_total",
		Help: "Total number of catalog loads served by the fallback catalog",
	})

	// RequestDuration observes HTTP handler latency.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "storefront_http_request_duration_seconds",
		Help:    "HTTP request latency by route and status",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)
