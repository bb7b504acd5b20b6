// Package metrics holds the Prometheus collectors of the service.
// Collectors register with the default registry on package init.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jukejam_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jukejam_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// Ranking metrics
	CandidatePoolSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jukejam_candidate_pool_size",
			Help:    "Number of candidates returned by the retriever",
			Buckets: []float64{0, 1, 10, 50, 100, 500, 1000, 5000, 10000},
		},
		[]string{"operation"},
	)

	RankingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jukejam_ranking_duration_seconds",
			Help:    "Time spent retrieving and ranking candidates",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		},
		[]string{"operation"},
	)

	// Cache metrics
	SearchCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jukejam_search_cache_hits_total",
			Help: "Search requests served from cache",
		},
	)

	SearchCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "jukejam_search_cache_misses_total",
			Help: "Search requests computed because the cache had no entry",
		},
	)

	// Spotify metrics
	SpotifyRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jukejam_spotify_requests_total",
			Help: "Outbound Spotify Web API requests by endpoint and outcome",
		},
		[]string{"endpoint", "status"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "jukejam_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jukejam_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Store metrics
	SongsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jukejam_songs_loaded",
			Help: "Tracks in the loaded catalog",
		},
	)

	UsersLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jukejam_users_loaded",
			Help: "User profiles currently held in memory",
		},
	)

	TimeContextUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jukejam_time_context_users",
			Help: "Users with a time-context profile",
		},
	)
)

// RecordHTTPRequest records the latency and count of one handled request
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
	HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
}

// RecordRanking records the candidate pool and ranking latency of a search or recommendation
func RecordRanking(operation string, candidates int, duration time.Duration) {
	CandidatePoolSize.WithLabelValues(operation).Observe(float64(candidates))
	RankingDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordSearchCache counts a search cache lookup
func RecordSearchCache(hit bool) {
	if hit {
		SearchCacheHits.Inc()
		return
	}
	SearchCacheMisses.Inc()
}

// RecordSpotifyRequest counts an outbound Spotify call
func RecordSpotifyRequest(endpoint, status string) {
	SpotifyRequests.WithLabelValues(endpoint, status).Inc()
}

// UpdateStoreGauges publishes the sizes of the in-memory stores
func UpdateStoreGauges(songs, users, timeContextUsers int) {
	SongsLoaded.Set(float64(songs))
	UsersLoaded.Set(float64(users))
	TimeContextUsers.Set(float64(timeContextUsers))
}
