package models

// NodeStateResponse is a point in time view of the node.
// @Description Identity, neighbors and accepted broadcast values of the node
type NodeStateResponse struct {
	// Identity assigned by init
	// example: n1
	ID string `json:"id"`

	// Current gossip neighbors in relay order
	// example: ["n2","n3"]
	Roster []string `json:"roster"`

	// Accepted broadcast values, ascending
	// example: [3,7]
	Messages []int `json:"messages"`

	// Number of accepted values
	// example: 2
	MessageCount int `json:"messageCount"`

	// Envelopes handled since start
	// example: 42
	Handled uint64 `json:"handled"`

	// Envelopes whose handling failed
	// example: 0
	Errors uint64 `json:"errors"`
}

// StatusResponse answers the health and readiness probes.
// @Description Probe result
type StatusResponse struct {
	// example: ready
	Status string `json:"status"`

	// example: waiting for init
	Reason string `json:"reason,omitempty"`
}
