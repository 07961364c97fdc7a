package node_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spechtlabs/floodnode/pkg/node"
	"github.com/spechtlabs/floodnode/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(src, dest string, body protocol.Body) protocol.Envelope {
	return protocol.Envelope{Src: src, Dest: dest, Body: body}
}

// initialized returns a state for n1 with the given roster.
func initialized(t *testing.T, roster ...string) *node.State {
	t.Helper()

	s := node.NewState()
	out, err := node.Handle(context.Background(), s, env("c0", "n1", protocol.Init{
		MsgID: 1, NodeID: "n1", NodeIDs: roster,
	}))
	require.Nil(t, err)
	require.Len(t, out, 1)
	return s
}

func TestHandleEcho(t *testing.T) {
	t.Parallel()

	s := initialized(t, "n1")
	out, err := node.Handle(context.Background(), s, env("c1", "n1", protocol.Echo{MsgID: 10, Echo: "hi"}))
	require.Nil(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, env("n1", "c1", protocol.EchoOk{MsgID: 11, Echo: "hi", InReplyTo: 10}), out[0])
}

func TestHandleInit(t *testing.T) {
	t.Parallel()

	s := node.NewState()
	assert.False(t, s.Initialized())

	out, err := node.Handle(context.Background(), s, env("c0", "n3", protocol.Init{
		MsgID: 4, NodeID: "n3", NodeIDs: []string{"n1", "n2", "n3"},
	}))
	require.Nil(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, env("n3", "c0", protocol.InitOk{InReplyTo: 4}), out[0])
	assert.True(t, s.Initialized())
	assert.Equal(t, "n3", s.ID())
	assert.Equal(t, []string{"n1", "n2", "n3"}, s.Roster())
}

func TestHandleInitTwiceOverwrites(t *testing.T) {
	t.Parallel()

	s := initialized(t, "n1", "n2")
	_, err := node.Handle(context.Background(), s, env("c0", "n9", protocol.Init{
		MsgID: 2, NodeID: "n9", NodeIDs: []string{"n9"},
	}))
	require.Nil(t, err)

	assert.Equal(t, "n9", s.ID())
	assert.Equal(t, []string{"n9"}, s.Roster())
}

func TestHandleGenerate(t *testing.T) {
	t.Parallel()

	s := initialized(t, "n1")

	tests := []struct {
		msgID    int
		expected string
	}{
		{msgID: 1, expected: "n1-1"},
		{msgID: 2, expected: "n1-2"},
	}

	for _, tt := range tests {
		out, err := node.Handle(context.Background(), s, env("c1", "n1", protocol.Generate{MsgID: tt.msgID}))
		require.Nil(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, env("n1", "c1", protocol.GenerateOk{ID: tt.expected, InReplyTo: tt.msgID}), out[0])
	}

	assert.Equal(t, "n7-42", node.GenerateID("n7", 42))
}

func TestHandleBroadcast(t *testing.T) {
	t.Parallel()

	s := initialized(t, "n1", "n2", "n3")

	out, err := node.Handle(context.Background(), s, env("c1", "n1", protocol.Broadcast{
		MsgID: protocol.IntPtr(5), Message: 1000,
	}))
	require.Nil(t, err)

	assert.Equal(t, []protocol.Envelope{
		env("n1", "n2", protocol.Broadcast{Message: 1000}),
		env("n1", "n3", protocol.Broadcast{Message: 1000}),
		env("n1", "c1", protocol.BroadcastOk{InReplyTo: 5}),
	}, out)
	assert.True(t, s.Has(1000))
}

func TestHandleBroadcastRelayIsNotAcknowledged(t *testing.T) {
	t.Parallel()

	s := initialized(t, "n2")

	out, err := node.Handle(context.Background(), s, env("n2", "n1", protocol.Broadcast{Message: 3}))
	require.Nil(t, err)

	assert.Equal(t, []protocol.Envelope{
		env("n1", "n2", protocol.Broadcast{Message: 3}),
	}, out)
}

func TestHandleBroadcastSuppressesDuplicates(t *testing.T) {
	t.Parallel()

	s := initialized(t, "n2", "n3")

	first, err := node.Handle(context.Background(), s, env("n2", "n1", protocol.Broadcast{Message: 8}))
	require.Nil(t, err)
	assert.Len(t, first, 2)

	tests := []struct {
		name string
		body protocol.Broadcast
	}{
		{name: "relay", body: protocol.Broadcast{Message: 8}},
		{name: "client request", body: protocol.Broadcast{MsgID: protocol.IntPtr(9), Message: 8}},
	}

	for _, tt := range tests {
		out, err := node.Handle(context.Background(), s, env("n3", "n1", tt.body))
		require.Nil(t, err, tt.name)
		assert.Empty(t, out, tt.name)
	}
	assert.Equal(t, 1, s.Len())
}

func TestHandleRead(t *testing.T) {
	t.Parallel()

	s := initialized(t, "n1")

	out, err := node.Handle(context.Background(), s, env("c1", "n1", protocol.Read{MsgID: 1}))
	require.Nil(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, env("n1", "c1", protocol.ReadOk{InReplyTo: 1, Messages: []int{}}), out[0])

	for i, v := range []int{7, 3} {
		_, err := node.Handle(context.Background(), s, env("c1", "n1", protocol.Broadcast{MsgID: protocol.IntPtr(i + 2), Message: v}))
		require.Nil(t, err)
	}

	out, err = node.Handle(context.Background(), s, env("c1", "n1", protocol.Read{MsgID: 9}))
	require.Nil(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, env("n1", "c1", protocol.ReadOk{InReplyTo: 9, Messages: []int{3, 7}}), out[0])
}

func TestHandleTopology(t *testing.T) {
	t.Parallel()

	s := initialized(t, "n1", "n2", "n3", "n4")

	out, err := node.Handle(context.Background(), s, env("c1", "n1", protocol.Topology{
		MsgID: 3,
		Topology: map[string][]string{
			"n1": {"n4", "n2"},
			"n2": {"n1"},
		},
	}))
	require.Nil(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, env("n1", "c1", protocol.TopologyOk{InReplyTo: 3}), out[0])
	assert.Equal(t, []string{"n4", "n2"}, s.Roster())

	// Replacement is total: the second map wins entirely.
	_, err = node.Handle(context.Background(), s, env("c1", "n1", protocol.Topology{
		MsgID:    4,
		Topology: map[string][]string{"n1": {}},
	}))
	require.Nil(t, err)
	assert.Empty(t, s.Roster())

	out, err = node.Handle(context.Background(), s, env("c1", "n1", protocol.Broadcast{MsgID: protocol.IntPtr(5), Message: 1}))
	require.Nil(t, err)
	assert.Equal(t, []protocol.Envelope{env("n1", "c1", protocol.BroadcastOk{InReplyTo: 5})}, out)
}

func TestHandleTopologyMissingNode(t *testing.T) {
	t.Parallel()

	s := initialized(t, "n2")

	out, err := node.Handle(context.Background(), s, env("c1", "n1", protocol.Topology{
		MsgID:    6,
		Topology: map[string][]string{"n2": {"n3"}},
	}))
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, node.ErrMissingNodeInTopology))

	require.Len(t, out, 1)
	errBody, ok := out[0].Body.(protocol.Error)
	require.True(t, ok)
	assert.Equal(t, 6, errBody.InReplyTo)
	assert.Equal(t, protocol.ErrorCodePreconditionFailed, errBody.Code)
	assert.Equal(t, []string{"n2"}, s.Roster())
}

func TestHandleBeforeInit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		body      protocol.Body
		expectOut bool
	}{
		{name: "echo", body: protocol.Echo{MsgID: 1, Echo: "x"}, expectOut: true},
		{name: "read", body: protocol.Read{MsgID: 2}, expectOut: true},
		{name: "client broadcast", body: protocol.Broadcast{MsgID: protocol.IntPtr(3), Message: 1}, expectOut: true},
		{name: "relay", body: protocol.Broadcast{Message: 1}, expectOut: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := node.NewState()
			out, err := node.Handle(context.Background(), s, env("c1", "n1", tt.body))
			require.NotNil(t, err)
			assert.True(t, errors.Is(err, node.ErrNotInitialized))
			assert.Zero(t, s.Len())

			if !tt.expectOut {
				assert.Empty(t, out)
				return
			}

			require.Len(t, out, 1)
			assert.Equal(t, "n1", out[0].Src)
			assert.Equal(t, "c1", out[0].Dest)
			errBody, ok := out[0].Body.(protocol.Error)
			require.True(t, ok)
			assert.Equal(t, protocol.ErrorCodeTemporarilyUnavailable, errBody.Code)
		})
	}
}

func TestHandleIgnoresResponses(t *testing.T) {
	t.Parallel()

	s := initialized(t, "n2")

	for _, body := range []protocol.Body{
		protocol.EchoOk{MsgID: 1, InReplyTo: 1},
		protocol.BroadcastOk{InReplyTo: 1},
		protocol.ReadOk{InReplyTo: 1, Messages: []int{5}},
		protocol.Error{InReplyTo: 1, Code: protocol.ErrorCodeCrash},
	} {
		out, err := node.Handle(context.Background(), s, env("n2", "n1", body))
		require.Nil(t, err)
		assert.Empty(t, out)
	}
	assert.Zero(t, s.Len())
}

// Not parallel: the counters are process wide.
func TestHandleBroadcastMetrics(t *testing.T) {
	s := initialized(t, "n2", "n3")

	accepted := testutil.ToFloat64(node.BroadcastAccepted)
	relays := testutil.ToFloat64(node.BroadcastRelays)

	_, err := node.Handle(context.Background(), s, env("c1", "n1", protocol.Broadcast{MsgID: protocol.IntPtr(1), Message: 77}))
	require.Nil(t, err)
	_, err = node.Handle(context.Background(), s, env("n2", "n1", protocol.Broadcast{Message: 77}))
	require.Nil(t, err)

	assert.Equal(t, accepted+1, testutil.ToFloat64(node.BroadcastAccepted))
	assert.Equal(t, relays+2, testutil.ToFloat64(node.BroadcastRelays))
}
