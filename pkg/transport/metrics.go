package transport

import "github.com/prometheus/client_golang/prometheus"

var (
	envelopesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "floodnode",
			Name:      "envelopes_total",
			Help:      "Envelopes read and written, by body type and direction",
		},
		[]string{"type", "direction"},
	)

	malformedEnvelopes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "floodnode",
			Name:      "envelopes_malformed_total",
			Help:      "Input lines skipped because they were not valid envelopes",
		},
	)
)

func init() {
	prometheus.MustRegister(envelopesTotal, malformedEnvelopes)
}
