package node

import (
	"strconv"

	"github.com/spechtlabs/floodnode/pkg/protocol"
)

// GenerateID builds a cluster-unique id from the node identity and the
// requester's msg_id. Uniqueness holds as long as every client uses fresh
// msg_ids for each node.
func GenerateID(identity string, msgID int) string {
	return identity + "-" + strconv.Itoa(msgID)
}

func handleGenerate(s *State, in protocol.Envelope, body protocol.Generate) []protocol.Envelope {
	return []protocol.Envelope{reply(s, in, protocol.GenerateOk{
		ID:        GenerateID(s.id, body.MsgID),
		InReplyTo: body.MsgID,
	})}
}
