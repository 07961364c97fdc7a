package cluster

import "github.com/sierrasoftworks/humane-errors-go"

var (
	ErrEmptyCluster    = humane.New("cluster has no nodes", "pass at least one node id")
	ErrUnknownNode     = humane.New("unknown node", "only send to node ids the network was created with")
	ErrInvalidTopology = humane.New("invalid topology", "every node needs an entry and neighbors must be known node ids")
	ErrUnknownTopology = humane.New("unknown topology", "use one of line, ring, grid, tree or full")
	ErrNotQuiescent    = humane.New("network did not become quiescent", "raise the step limit or check the topology for unbounded relaying")
)
