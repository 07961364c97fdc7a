package node

import (
	"context"
	"sync/atomic"

	"github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/floodnode/pkg/protocol"
)

// Node binds a State to the transport loop and keeps a few counters for
// observers. Like State it must only be used from one goroutine.
type Node struct {
	state   *State
	handled uint64
	errors  uint64
}

type Option func(*Node)

// WithState lets callers start from a prepared state.
func WithState(s *State) Option {
	return func(n *Node) {
		n.state = s
	}
}

func New(opts ...Option) *Node {
	n := &Node{}
	for _, opt := range opts {
		opt(n)
	}
	if n.state == nil {
		n.state = NewState()
	}
	return n
}

// Handle implements transport.Handler.
func (n *Node) Handle(ctx context.Context, in protocol.Envelope) ([]protocol.Envelope, humane.Error) {
	out, err := Handle(ctx, n.state, in)
	n.handled++
	if err != nil {
		n.errors++
	}
	return out, err
}

func (n *Node) State() *State {
	return n.state
}

// Snapshot copies the current state.
func (n *Node) Snapshot() Snapshot {
	return Snapshot{
		Initialized: n.state.initialized,
		ID:          n.state.id,
		Roster:      n.state.Roster(),
		Messages:    n.state.Messages(),
		Handled:     n.handled,
		Errors:      n.errors,
	}
}

// Snapshot is an immutable view of a node taken between two envelopes.
type Snapshot struct {
	Initialized bool
	ID          string
	Roster      []string
	Messages    []int
	Handled     uint64
	Errors      uint64
}

// Publisher hands snapshots from the loop goroutine to concurrent readers.
type Publisher struct {
	current atomic.Pointer[Snapshot]
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(s Snapshot) {
	p.current.Store(&s)
}

// Snapshot returns the latest published snapshot, or false if none was published yet.
func (p *Publisher) Snapshot() (Snapshot, bool) {
	s := p.current.Load()
	if s == nil {
		return Snapshot{}, false
	}
	return *s, true
}
