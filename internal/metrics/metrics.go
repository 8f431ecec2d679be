// Package metrics registers the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ListenersActive tracks currently subscribed stream listeners.
	ListenersActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "leagueboard_listeners_active",
		Help: "Number of subscribed stream listeners.",
	})

	// BroadcastsTotal counts document broadcasts from the room.
	BroadcastsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leagueboard_broadcasts_total",
		Help: "Total document broadcasts.",
	})

	// ListenersEvicted counts listeners dropped for not keeping up.
	ListenersEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "leagueboard_listeners_evicted_total",
		Help: "Listeners dropped because their buffer was full.",
	})

	// UpstreamRequests counts scoreboard/boxscore fetches by outcome.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leagueboard_upstream_requests_total",
		Help: "Requests to the stats provider by outcome.",
	}, []string{"endpoint", "outcome"})

	// HTTPRequests counts API requests by route and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "leagueboard_http_requests_total",
		Help: "API requests by route and status class.",
	}, []string{"route", "status"})
)
