package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portfolio_viewer"

var (
	// Aggregator
	PortfolioBuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "portfolio",
		Name:      "builds_total",
		Help:      "Portfolio builds by outcome (ok, empty, invalid_address, discovery_failed)",
	}, []string{"outcome"})

	PortfolioBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "portfolio",
		Name:      "build_duration_seconds",
		Help:      "End-to-end portfolio build latency",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30, 60},
	})

	PortfolioTokensReturned = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "portfolio",
		Name:      "tokens_returned",
		Help:      "Number of tokens in a built portfolio",
		Buckets:   []float64{0, 1, 5, 10, 25, 50, 100},
	})

	TokensDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "portfolio",
		Name:      "tokens_dropped_total",
		Help:      "Discovered tokens dropped before output, by reason",
	}, []string{"reason"})

	// Upstream stages
	MetadataLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "metadata",
		Name:      "lookups_total",
		Help:      "Token metadata lookups by outcome",
	}, []string{"outcome"})

	PriceRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "price",
		Name:      "requests_total",
		Help:      "Price feed requests by status (ok, not_found, rate_limited, error)",
	}, []string{"status"})

	RateLimitWaits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "ratelimit",
		Name:      "waits_total",
		Help:      "Times a caller had to wait for the limiter",
	}, []string{"limiter"})

	VerificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "verification",
		Name:      "results_total",
		Help:      "On-chain verification results (verified, mismatch, error)",
	}, []string{"result"})

	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code",
	}, []string{"route", "code"})
)
