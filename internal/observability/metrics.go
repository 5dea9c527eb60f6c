// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Indexer metrics
	AccountsObserved prometheus.Counter
	DecodeFailures   prometheus.Counter
	EscrowMismatches prometheus.Counter
	StreamsUpserted  prometheus.Counter
	EventsJournaled  *prometheus.CounterVec
	ProcessingErrors *prometheus.CounterVec

	// Watch metrics
	HighestSlotSeen prometheus.Gauge
	TrackedStreams  prometheus.Gauge

	// Latency metrics
	RPCCallLatency *prometheus.HistogramVec
	PollDuration   prometheus.Histogram

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulPoll prometheus.Gauge
	WSReconnects       prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_token_stream"
	}

	return &Metrics{
		AccountsObserved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "accounts_observed_total",
			Help:      "Total number of metadata accounts observed",
		}),
		DecodeFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "decode_failures_total",
			Help:      "Total number of accounts that failed to decode as stream ledgers",
		}),
		EscrowMismatches: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "escrow_mismatches_total",
			Help:      "Total number of ledgers whose escrow address failed derivation checks",
		}),
		StreamsUpserted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "streams_upserted_total",
			Help:      "Total number of stream records written to the mirror",
		}),
		EventsJournaled: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "events_journaled_total",
			Help:      "Total number of ledger change events journaled by kind",
		}, []string{"kind"}),
		ProcessingErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "processing_errors_total",
			Help:      "Total number of account processing errors by stage",
		}, []string{"stage"}),

		HighestSlotSeen: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "highest_slot_seen",
			Help:      "Highest Solana slot number seen",
		}),
		TrackedStreams: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "tracked_streams",
			Help:      "Number of stream ledgers currently tracked",
		}),

		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		PollDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "indexer",
			Name:      "poll_duration_seconds",
			Help:      "Full program account poll duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulPoll: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_poll_timestamp",
			Help:      "Unix timestamp of last successful program account poll",
		}),
		WSReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "ws_reconnects_total",
			Help:      "Total number of WebSocket reconnects",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordAccountObserved increments the accounts observed counter.
func RecordAccountObserved() {
	DefaultMetrics.AccountsObserved.Inc()
}

// RecordDecodeFailure increments the decode failures counter.
func RecordDecodeFailure() {
	DefaultMetrics.DecodeFailures.Inc()
}

// RecordEscrowMismatch increments the escrow mismatch counter.
func RecordEscrowMismatch() {
	DefaultMetrics.EscrowMismatches.Inc()
}

// RecordStreamUpserted increments the streams upserted counter.
func RecordStreamUpserted() {
	DefaultMetrics.StreamsUpserted.Inc()
}

// RecordEventJournaled increments the journaled events counter for a kind.
func RecordEventJournaled(kind string) {
	DefaultMetrics.EventsJournaled.WithLabelValues(kind).Inc()
}

// RecordProcessingError records an account processing error at a stage.
func RecordProcessingError(stage string) {
	DefaultMetrics.ProcessingErrors.WithLabelValues(stage).Inc()
}

// UpdateHighestSlot updates the highest slot seen gauge.
func UpdateHighestSlot(slot int64) {
	DefaultMetrics.HighestSlotSeen.Set(float64(slot))
}

// UpdateTrackedStreams updates the tracked streams gauge.
func UpdateTrackedStreams(n int) {
	DefaultMetrics.TrackedStreams.Set(float64(n))
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}
