package cluster

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/floodnode/pkg/node"
	"github.com/spechtlabs/floodnode/pkg/protocol"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ClientID is the src of every request the simulator injects.
const ClientID = "c0"

var tracer = otel.Tracer("floodnode/cluster")

// Network runs a set of nodes in one process and delivers their envelopes in
// FIFO order. It is single threaded like the nodes it drives.
type Network struct {
	ids    []string
	states map[string]*node.State

	queue   []protocol.Envelope
	replies []protocol.Envelope

	rng      *rand.Rand
	dropRate float64
	maxSteps int
	nextID   int

	stats Stats
}

// Stats counts what happened on the simulated wire.
type Stats struct {
	Rounds        int
	Delivered     int
	Dropped       int
	NodeMessages  int
	ClientReplies int
	HandleErrors  int
}

func NewNetwork(ids []string, opts ...Option) (*Network, humane.Error) {
	if len(ids) == 0 {
		return nil, ErrEmptyCluster
	}

	n := &Network{
		ids:      slices.Clone(ids),
		states:   make(map[string]*node.State, len(ids)),
		rng:      rand.New(rand.NewPCG(1, 1)),
		maxSteps: 10_000,
	}

	for _, id := range ids {
		if _, dup := n.states[id]; dup {
			return nil, humane.Wrap(ErrInvalidTopology, fmt.Sprintf("node %s listed twice", id))
		}
		if strings.HasPrefix(id, "c") {
			return nil, humane.Wrap(ErrInvalidTopology, fmt.Sprintf("node id %s collides with client ids", id), "node ids must not start with 'c'")
		}
		n.states[id] = node.NewState()
	}

	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// IDs returns the node ids in the order they were given.
func (n *Network) IDs() []string {
	return slices.Clone(n.ids)
}

// State exposes a node's state for inspection.
func (n *Network) State(id string) (*node.State, bool) {
	s, ok := n.states[id]
	return s, ok
}

func (n *Network) Stats() Stats {
	return n.stats
}

// ResetStats zeroes the counters, e.g. once Init and Topology are delivered
// so that only the broadcast phase is measured.
func (n *Network) ResetStats() {
	n.stats = Stats{}
}

// Pending is the number of envelopes waiting for delivery.
func (n *Network) Pending() int {
	return len(n.queue)
}

// Quiescent reports whether nothing is left to deliver.
func (n *Network) Quiescent() bool {
	return len(n.queue) == 0
}

// Replies returns every envelope nodes addressed to the client so far.
func (n *Network) Replies() []protocol.Envelope {
	return slices.Clone(n.replies)
}

func (n *Network) msgID() int {
	n.nextID++
	return n.nextID
}

// Send enqueues a request from the client to a node.
func (n *Network) Send(dest string, body protocol.Body) humane.Error {
	if _, ok := n.states[dest]; !ok {
		return humane.Wrap(ErrUnknownNode, fmt.Sprintf("no node named %s", dest))
	}
	n.queue = append(n.queue, protocol.Envelope{Src: ClientID, Dest: dest, Body: body})
	return nil
}

// Init sends init to every node and delivers until quiescent.
func (n *Network) Init(ctx context.Context) humane.Error {
	for _, id := range n.ids {
		if err := n.Send(id, protocol.Init{MsgID: n.msgID(), NodeID: id, NodeIDs: n.IDs()}); err != nil {
			return err
		}
	}
	_, err := n.Run(ctx)
	return err
}

// SetTopology sends each node the full topology map and delivers until quiescent.
func (n *Network) SetTopology(ctx context.Context, topo Topology) humane.Error {
	if err := topo.Validate(n.ids); err != nil {
		return err
	}
	for _, id := range n.ids {
		if err := n.Send(id, protocol.Topology{MsgID: n.msgID(), Topology: topo}); err != nil {
			return err
		}
	}
	_, err := n.Run(ctx)
	return err
}

// Broadcast enqueues a client broadcast of value at dest without delivering it.
func (n *Network) Broadcast(dest string, value int) humane.Error {
	return n.Send(dest, protocol.Broadcast{MsgID: protocol.IntPtr(n.msgID()), Message: value})
}

// BroadcastRandom enqueues value at a node picked by the network's random source
// and returns the chosen node.
func (n *Network) BroadcastRandom(value int) (string, humane.Error) {
	dest := n.ids[n.rng.IntN(len(n.ids))]
	return dest, n.Broadcast(dest, value)
}

// Step delivers every envelope queued before the call. Envelopes produced
// during the step are delivered in the next one.
func (n *Network) Step(ctx context.Context) int {
	ctx, span := tracer.Start(ctx, "Network.Step")
	defer span.End()

	batch := n.queue
	n.queue = nil

	for _, env := range batch {
		n.deliver(ctx, env)
	}

	if len(batch) > 0 {
		n.stats.Rounds++
	}
	span.SetAttributes(
		attribute.Int("envelopes.delivered", len(batch)),
		attribute.Int("envelopes.pending", len(n.queue)),
	)
	return len(batch)
}

// Run steps until the network is quiescent and returns the number of steps taken.
func (n *Network) Run(ctx context.Context) (int, humane.Error) {
	steps := 0
	for !n.Quiescent() {
		if err := ctx.Err(); err != nil {
			return steps, humane.Wrap(err, "simulation cancelled")
		}
		if steps >= n.maxSteps {
			return steps, humane.Wrap(ErrNotQuiescent, fmt.Sprintf("still %d envelopes in flight after %d steps", len(n.queue), steps))
		}
		n.Step(ctx)
		steps++
	}
	return steps, nil
}

func (n *Network) deliver(ctx context.Context, env protocol.Envelope) {
	state, isNode := n.states[env.Dest]
	if !isNode {
		n.stats.ClientReplies++
		n.replies = append(n.replies, env)
		return
	}

	_, fromNode := n.states[env.Src]
	if fromNode && n.dropRate > 0 && n.rng.Float64() < n.dropRate {
		n.stats.Dropped++
		return
	}

	n.stats.Delivered++
	if fromNode {
		n.stats.NodeMessages++
	}

	out, err := node.Handle(ctx, state, env)
	if err != nil {
		n.stats.HandleErrors++
		otelzap.L().WarnContext(ctx, "Simulated node failed to handle envelope",
			zap.Error(err),
			zap.String("node", env.Dest),
			zap.String("type", string(env.Body.Type())),
		)
	}
	n.queue = append(n.queue, out...)
}

// Missing returns, per node, the values accepted somewhere in the cluster but
// not by that node. Nodes that are complete are omitted.
func (n *Network) Missing() map[string][]int {
	all := n.Values()

	missing := make(map[string][]int)
	for _, id := range n.ids {
		state := n.states[id]
		for _, v := range all {
			if !state.Has(v) {
				missing[id] = append(missing[id], v)
			}
		}
	}
	return missing
}

// Values returns the union of accepted values across all nodes, ascending.
func (n *Network) Values() []int {
	seen := make(map[int]struct{})
	for _, state := range n.states {
		for _, v := range state.Messages() {
			seen[v] = struct{}{}
		}
	}

	out := make([]int, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// Converged reports whether every node holds the same value set.
func (n *Network) Converged() bool {
	return len(n.Missing()) == 0
}
