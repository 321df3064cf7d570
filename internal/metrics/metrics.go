// Package metrics exposes prometheus instruments for the connector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// UpstreamRequests counts calls to the remote gateway by operation and outcome
var UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "connector_upstream_requests_total",
	Help: "Requests issued to the remote insurance gateway",
}, []string{"operation", "outcome"})

// UpstreamDuration observes upstream call latency per operation
var UpstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "connector_upstream_request_seconds",
	Help:    "Latency of remote gateway calls",
	Buckets: prometheus.DefBuckets,
}, []string{"operation"})

// CacheHits counts listing-cache hits and misses
var CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "connector_cache_requests_total",
	Help: "Listing cache lookups by result",
}, []string{"result"})
