package node

import (
	"fmt"

	"github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/floodnode/pkg/protocol"
)

// handleTopology replaces the roster with this node's entry. Without an entry
// the roster is left alone and the requester gets a precondition-failed error.
func handleTopology(s *State, in protocol.Envelope, body protocol.Topology) ([]protocol.Envelope, humane.Error) {
	neighbors, ok := body.Topology[s.id]
	if !ok {
		text := fmt.Sprintf("topology has no entry for node %s", s.id)
		return []protocol.Envelope{reply(s, in, protocol.Error{
			InReplyTo: body.MsgID,
			Code:      protocol.ErrorCodePreconditionFailed,
			Text:      text,
		})}, humane.Wrap(ErrMissingNodeInTopology, text)
	}

	s.setRoster(neighbors)
	return []protocol.Envelope{reply(s, in, protocol.TopologyOk{InReplyTo: body.MsgID})}, nil
}
