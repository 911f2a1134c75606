package metrics

import "github.com/prometheus/client_golang/prometheus"

// Listing and store Prometheus metrics.
var (
	StoreRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizlist",
			Name:      "store_requests_total",
			Help:      "Total number of listing store round trips",
		},
		[]string{"driver", "op", "status"},
	)

	StoreRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizlist",
			Name:      "store_request_duration_seconds",
			Help:      "Listing store round trip duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"driver", "op"},
	)

	StoreErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bizlist",
			Name:      "store_errors_total",
			Help:      "Total listing store errors by kind",
		},
		[]string{"driver", "op", "kind"},
	)

	ListingRows = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "bizlist",
			Name:      "listing_rows",
			Help:      "Businesses returned per listing",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
		},
		[]string{"mode"}, // "ordered" / "random"
	)
)

var listingMetricsRegistered bool

// RegisterListingMetrics registers listing and store metrics. Must be called once from main.
func RegisterListingMetrics() {
	if listingMetricsRegistered {
		return
	}
	prometheus.MustRegister(StoreRequestsTotal)
	prometheus.MustRegister(StoreRequestDuration)
	prometheus.MustRegister(StoreErrorsTotal)
	prometheus.MustRegister(ListingRows)
	listingMetricsRegistered = true
}
