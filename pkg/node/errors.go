package node

import "github.com/sierrasoftworks/humane-errors-go"

var (
	ErrNotInitialized = humane.New("node has not been initialized",
		"the first request a node receives must be an init message",
	)
	ErrMissingNodeInTopology = humane.New("node is missing from the topology",
		"the topology map must contain an entry for every node id announced in init",
	)
)
