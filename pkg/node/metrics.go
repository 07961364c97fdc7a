package node

import "github.com/prometheus/client_golang/prometheus"

var (
	handleErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "floodnode",
			Name:      "handle_errors_total",
			Help:      "Envelopes whose handling returned an error, by kind",
		},
		[]string{"kind"},
	)

	handleDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "floodnode",
			Name:      "handle_duration_seconds",
			Help:      "Time spent applying an envelope to node state",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10),
		},
		[]string{"type"},
	)

	broadcastAccepted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "floodnode",
			Name:      "broadcast_values_accepted_total",
			Help:      "Broadcast values seen for the first time",
		},
	)

	broadcastDuplicates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "floodnode",
			Name:      "broadcast_duplicates_total",
			Help:      "Broadcast values dropped because they were already known",
		},
	)

	broadcastRelays = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "floodnode",
			Name:      "broadcast_relays_total",
			Help:      "Broadcast envelopes relayed to neighbors",
		},
	)
)

func init() {
	prometheus.MustRegister(handleErrors, handleDuration, broadcastAccepted, broadcastDuplicates, broadcastRelays)
}
