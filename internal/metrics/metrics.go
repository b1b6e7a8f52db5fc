// Package metrics holds Prometheus instruments that are used across the
// service.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// CacheEntries tracks live entries per read-through cache.
	CacheEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "photoproos_cache_entries",
			Help: "Number of entries currently held by a read-through cache.",
		}, []string{"cache"})

	CacheLoadTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoproos_cache_load_total",
			Help: "Cumulative number of successful cache loads from the database.",
		}, []string{"cache"})

	CacheLoadErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoproos_cache_load_errors_total",
			Help: "Cumulative number of failed cache loads.",
		}, []string{"cache"})

	CacheHitTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoproos_cache_hit_total",
			Help: "Cumulative number of reads served from memory.",
		}, []string{"cache"})

	CacheEvictTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoproos_cache_evict_total",
			Help: "Cumulative number of entries evicted from a cache.",
		}, []string{"cache"})

	// PageOutcomes counts pipeline results: page, not_found, expired,
	// password_gate, lead_gate, error.
	PageOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoproos_page_outcomes_total",
			Help: "Public page requests by pipeline outcome.",
		}, []string{"outcome"})

	// GateSubmissions counts POSTs by gate (password, lead, contact) and
	// result (granted, accepted, rejected, failed).  Contact forms never
	// grant, so their successes are "accepted".
	GateSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoproos_gate_submissions_total",
			Help: "Gate and contact form submissions by result.",
		}, []string{"gate", "result"})

	SectionPlaceholders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photoproos_section_placeholders_total",
			Help: "Sections rendered as the neutral placeholder, by stored type.",
		}, []string{"type"})

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photoproos_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern, method, and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"})
)

func init() {
	prometheus.MustRegister(
		CacheEntries,
		CacheLoadTotal,
		CacheLoadErrorsTotal,
		CacheHitTotal,
		CacheEvictTotal,
		PageOutcomes,
		GateSubmissions,
		SectionPlaceholders,
		HTTPDuration,
	)
}
