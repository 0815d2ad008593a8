package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamcap_messages_total",
			Help: "Total number of raw messages classified, by category (count)",
		},
		[]string{"category"},
	)

	RecordsEmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "streamcap_records_emitted_total",
			Help: "Total number of matched records emitted to the output sink (count)",
		},
	)

	RecordsFilteredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "streamcap_records_filtered_total",
			Help: "Total number of status records excluded by the filter policy (count)",
		},
	)

	ParseFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamcap_parse_failures_total",
			Help: "Total number of messages that matched a category but failed decoding (count)",
		},
		[]string{"category"},
	)

	ReconnectsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "streamcap_reconnects_total",
			Help: "Total number of reconnect attempts after recoverable transport failures (count)",
		},
	)

	LagReportsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "streamcap_lag_reports_total",
			Help: "Total number of lag warnings emitted (count)",
		},
	)

	SessionPhase = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamcap_session_phase",
			Help: "Current session phase (0=idle, 1=connecting, 2=streaming, 3=sleeping, 4=terminated) (state code)",
		},
	)

	PlaceLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamcap_place_lookups_total",
			Help: "Total number of remote place lookups, by result (count)",
		},
		[]string{"result"},
	)

	CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "streamcap_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open) (state code)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamcap_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker (count)",
		},
		[]string{"name", "state"},
	)

	CircuitBreakerFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamcap_circuit_breaker_failures_total",
			Help: "Total number of failures through circuit breaker (count)",
		},
		[]string{"name"},
	)

	SinkEmitFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamcap_sink_emit_failures_total",
			Help: "Total number of emit failures, by sink type (count)",
		},
		[]string{"sink"},
	)
)

func RegisterSessionMetrics() {
	prometheus.MustRegister(
		MessagesTotal,
		RecordsEmittedTotal,
		RecordsFilteredTotal,
		ParseFailuresTotal,
		ReconnectsTotal,
		LagReportsTotal,
		SessionPhase,
		SinkEmitFailuresTotal,
	)
}

func RegisterGeoMetrics() {
	prometheus.MustRegister(
		PlaceLookupsTotal,
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerFailures,
	)
}
