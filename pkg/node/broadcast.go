package node

import (
	"github.com/spechtlabs/floodnode/pkg/protocol"
)

// handleBroadcast floods a value the first time it is seen. Known values are
// dropped silently, which is what terminates the flood on cyclic topologies.
func handleBroadcast(s *State, in protocol.Envelope, body protocol.Broadcast) []protocol.Envelope {
	if !s.accept(body.Message) {
		broadcastDuplicates.Inc()
		return nil
	}
	broadcastAccepted.Inc()

	out := make([]protocol.Envelope, 0, len(s.roster)+1)
	for _, neighbor := range s.roster {
		if neighbor == s.id {
			continue
		}
		out = append(out, protocol.Envelope{
			Src:  s.id,
			Dest: neighbor,
			Body: protocol.Broadcast{Message: body.Message},
		})
	}
	broadcastRelays.Add(float64(len(out)))

	if msgID, ok := body.RequestID(); ok {
		out = append(out, reply(s, in, protocol.BroadcastOk{InReplyTo: msgID}))
	}
	return out
}

func handleRead(s *State, in protocol.Envelope, body protocol.Read) []protocol.Envelope {
	return []protocol.Envelope{reply(s, in, protocol.ReadOk{
		InReplyTo: body.MsgID,
		Messages:  s.Messages(),
	})}
}
