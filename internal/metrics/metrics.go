// Package metrics các chỉ số Prometheus của catalog service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 2000}

var (
	SearchRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_search_requests_total",
		Help: "Total number of business search queries",
	})
	SearchDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_search_duration_ms",
		Help:    "Business search duration in milliseconds",
		Buckets: durationBuckets,
	})
	SearchResultsTotal = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_search_results",
		Help:    "Number of businesses returned per search",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
	})
	// source: explicit | geocoded | none
	LocationSourceTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_location_source_total",
		Help: "Location resolutions by source",
	}, []string{"source"})
	// level: province | district, tier: exact | containment | transliterated | none
	MatchTierTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_match_tier_total",
		Help: "Winning match tier per resolution level",
	}, []string{"level", "tier"})
	GeocoderRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_geocoder_requests_total",
		Help: "Total reverse-geocoding provider requests",
	})
	GeocoderFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_geocoder_fail_total",
		Help: "Total reverse-geocoding failures (error or timeout)",
	})
	GeocoderDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_geocoder_duration_ms",
		Help:    "Reverse-geocoding provider call duration in milliseconds",
		Buckets: durationBuckets,
	})
	// layer: memory | redis
	GeocodeCacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_geocode_cache_hits_total",
		Help: "Geocode cache hits by layer",
	}, []string{"layer"})
	GeocodeCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_geocode_cache_misses_total",
		Help: "Geocode cache misses across all layers",
	})
)

func init() {
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDurationMs)
	prometheus.MustRegister(SearchResultsTotal)
	prometheus.MustRegister(LocationSourceTotal)
	prometheus.MustRegister(MatchTierTotal)
	prometheus.MustRegister(GeocoderRequestsTotal)
	prometheus.MustRegister(GeocoderFailTotal)
	prometheus.MustRegister(GeocoderDurationMs)
	prometheus.MustRegister(GeocodeCacheHitsTotal)
	prometheus.MustRegister(GeocodeCacheMissesTotal)
}

// Handler trả về handler cho /metrics
func Handler() http.Handler { return promhttp.Handler() }
