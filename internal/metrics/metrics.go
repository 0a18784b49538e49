package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Drop reasons for DroppedEnvelopes.
const (
	ReasonNotAMember        = "not_a_member"
	ReasonTargetUnreachable = "target_unreachable"
	ReasonBackpressure      = "backpressure"
	ReasonRateLimited       = "rate_limited"
	ReasonBadPayload        = "bad_payload"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meet_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meet_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "path"},
	)

	// Signaling metrics
	ConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "meet_ws_connections_active",
			Help: "Open signaling connections",
		},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "meet_sessions_active",
			Help: "Sessions with at least one connected participant",
		},
	)

	EnvelopesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meet_envelopes_received_total",
			Help: "Inbound signaling envelopes by type",
		},
		[]string{"type"},
	)

	EnvelopesRelayed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meet_envelopes_relayed_total",
			Help: "Negotiation and chat envelopes forwarded",
		},
		[]string{"type"},
	)

	DroppedEnvelopes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meet_envelopes_dropped_total",
			Help: "Envelopes dropped without delivery",
		},
		[]string{"reason"},
	)

	JoinsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meet_joins_rejected_total",
			Help: "Join requests rejected",
		},
		[]string{"code"},
	)

	// Record store
	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meet_store_latency_seconds",
			Help:    "Meeting record store operation latency",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
		[]string{"driver", "op"},
	)
)
