package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of HTTP requests by route and method
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "shop_http_request_duration_seconds",
		Help:    "Latency of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	// Checkout outcomes, labelled success/failure
	CheckoutTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_checkout_total",
		Help: "Total number of checkout attempts",
	}, []string{"outcome"})

	// Cart reconciliations run at login, labelled by collection kind
	CartReconcileTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shop_cart_reconcile_total",
		Help: "Total number of guest collection reconciliations",
	}, []string{"kind", "outcome"})
)

func Init() {
	prometheus.MustRegister(
		HTTPRequestDuration,
		HTTPRequestsTotal,
		CheckoutTotal,
		CartReconcileTotal,
	)
}
