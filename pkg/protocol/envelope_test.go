package protocol_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/spechtlabs/floodnode/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected protocol.Envelope
	}{
		{
			name:  "echo",
			input: `{"src":"c1","dest":"n1","body":{"type":"echo","msg_id":1,"echo":"Please echo 35"}}`,
			expected: protocol.Envelope{Src: "c1", Dest: "n1", Body: protocol.Echo{
				MsgID: 1, Echo: "Please echo 35",
			}},
		},
		{
			name:  "init",
			input: `{"src":"c0","dest":"n3","body":{"type":"init","msg_id":1,"node_id":"n3","node_ids":["n1","n2","n3"]}}`,
			expected: protocol.Envelope{Src: "c0", Dest: "n3", Body: protocol.Init{
				MsgID: 1, NodeID: "n3", NodeIDs: []string{"n1", "n2", "n3"},
			}},
		},
		{
			name:     "generate",
			input:    `{"src":"c1","dest":"n1","body":{"type":"generate","msg_id":7}}`,
			expected: protocol.Envelope{Src: "c1", Dest: "n1", Body: protocol.Generate{MsgID: 7}},
		},
		{
			name:  "broadcast from client",
			input: `{"src":"c1","dest":"n1","body":{"type":"broadcast","message":1000,"msg_id":2}}`,
			expected: protocol.Envelope{Src: "c1", Dest: "n1", Body: protocol.Broadcast{
				MsgID: protocol.IntPtr(2), Message: 1000,
			}},
		},
		{
			name:     "broadcast relay without msg_id",
			input:    `{"src":"n2","dest":"n1","body":{"type":"broadcast","message":-4}}`,
			expected: protocol.Envelope{Src: "n2", Dest: "n1", Body: protocol.Broadcast{Message: -4}},
		},
		{
			name:     "read",
			input:    `{"src":"c1","dest":"n1","body":{"type":"read","msg_id":3}}`,
			expected: protocol.Envelope{Src: "c1", Dest: "n1", Body: protocol.Read{MsgID: 3}},
		},
		{
			name:  "topology",
			input: `{"src":"c1","dest":"n1","body":{"type":"topology","msg_id":4,"topology":{"n1":["n2"],"n2":["n1"]}}}`,
			expected: protocol.Envelope{Src: "c1", Dest: "n1", Body: protocol.Topology{
				MsgID: 4, Topology: map[string][]string{"n1": {"n2"}, "n2": {"n1"}},
			}},
		},
		{
			name:     "response bodies parse",
			input:    `{"src":"n2","dest":"n1","body":{"type":"read_ok","in_reply_to":3,"messages":[1,2]}}`,
			expected: protocol.Envelope{Src: "n2", Dest: "n1", Body: protocol.ReadOk{InReplyTo: 3, Messages: []int{1, 2}}},
		},
		{
			name:  "error body",
			input: `{"src":"n2","dest":"c1","body":{"type":"error","in_reply_to":5,"code":11,"text":"not ready"}}`,
			expected: protocol.Envelope{Src: "n2", Dest: "c1", Body: protocol.Error{
				InReplyTo: 5, Code: protocol.ErrorCodeTemporarilyUnavailable, Text: "not ready",
			}},
		},
		{
			name:     "unknown extra fields are ignored",
			input:    `{"id":12,"src":"c1","dest":"n1","body":{"type":"generate","msg_id":7,"trace":"abc"}}`,
			expected: protocol.Envelope{Src: "c1", Dest: "n1", Body: protocol.Generate{MsgID: 7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, err := protocol.Parse([]byte(tt.input))
			require.Nil(t, err)
			assert.Equal(t, tt.expected, env)
		})
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: `hello`},
		{name: "truncated", input: `{"src":"c1","dest":"n1","body":{"type":"echo"`},
		{name: "array", input: `[1,2,3]`},
		{name: "missing src", input: `{"dest":"n1","body":{"type":"generate","msg_id":1}}`},
		{name: "missing dest", input: `{"src":"c1","body":{"type":"generate","msg_id":1}}`},
		{name: "missing body", input: `{"src":"c1","dest":"n1"}`},
		{name: "null body", input: `{"src":"c1","dest":"n1","body":null}`},
		{name: "body not an object", input: `{"src":"c1","dest":"n1","body":"echo"}`},
		{name: "missing type", input: `{"src":"c1","dest":"n1","body":{"msg_id":1}}`},
		{name: "type not a string", input: `{"src":"c1","dest":"n1","body":{"type":3,"msg_id":1}}`},
		{name: "unknown type", input: `{"src":"c1","dest":"n1","body":{"type":"frobnicate","msg_id":1}}`},
		{name: "echo without echo", input: `{"src":"c1","dest":"n1","body":{"type":"echo","msg_id":1}}`},
		{name: "echo with null echo", input: `{"src":"c1","dest":"n1","body":{"type":"echo","msg_id":1,"echo":null}}`},
		{name: "generate without msg_id", input: `{"src":"c1","dest":"n1","body":{"type":"generate"}}`},
		{name: "msg_id not a number", input: `{"src":"c1","dest":"n1","body":{"type":"read","msg_id":"1"}}`},
		{name: "msg_id not an integer", input: `{"src":"c1","dest":"n1","body":{"type":"read","msg_id":1.5}}`},
		{name: "broadcast without message", input: `{"src":"c1","dest":"n1","body":{"type":"broadcast","msg_id":1}}`},
		{name: "init with bad node_ids", input: `{"src":"c0","dest":"n1","body":{"type":"init","msg_id":1,"node_id":"n1","node_ids":"n1"}}`},
		{name: "topology not a map", input: `{"src":"c1","dest":"n1","body":{"type":"topology","msg_id":1,"topology":["n1"]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := protocol.Parse([]byte(tt.input))
			require.NotNil(t, err)
			assert.True(t, errors.Is(err, protocol.ErrMalformedEnvelope), "expected ErrMalformedEnvelope, got %v", err)
		})
	}
}

func TestMarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		env      protocol.Envelope
		expected string
	}{
		{
			name:     "type tag comes first",
			env:      protocol.Envelope{Src: "n1", Dest: "c1", Body: protocol.EchoOk{MsgID: 2, Echo: "hi", InReplyTo: 1}},
			expected: `{"src":"n1","dest":"c1","body":{"type":"echo_ok","msg_id":2,"echo":"hi","in_reply_to":1}}`,
		},
		{
			name:     "relay omits msg_id",
			env:      protocol.Envelope{Src: "n1", Dest: "n2", Body: protocol.Broadcast{Message: 5}},
			expected: `{"src":"n1","dest":"n2","body":{"type":"broadcast","message":5}}`,
		},
		{
			name:     "html characters are not escaped",
			env:      protocol.Envelope{Src: "n1", Dest: "c1", Body: protocol.EchoOk{MsgID: 2, Echo: "<a&b>", InReplyTo: 1}},
			expected: `{"src":"n1","dest":"c1","body":{"type":"echo_ok","msg_id":2,"echo":"<a&b>","in_reply_to":1}}`,
		},
		{
			name:     "error with code",
			env:      protocol.Envelope{Src: "n1", Dest: "c1", Body: protocol.Error{InReplyTo: 9, Code: protocol.ErrorCodePreconditionFailed, Text: "nope"}},
			expected: `{"src":"n1","dest":"c1","body":{"type":"error","in_reply_to":9,"code":22,"text":"nope"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := protocol.Marshal(tt.env)
			require.Nil(t, err)
			assert.JSONEq(t, tt.expected, string(out))
			assert.Equal(t, tt.expected, string(out))
		})
	}
}

func TestMarshalRequiresBody(t *testing.T) {
	t.Parallel()

	_, err := protocol.Marshal(protocol.Envelope{Src: "n1", Dest: "c1"})
	require.NotNil(t, err)
}

func TestParseAcceptsMarshalledOutput(t *testing.T) {
	t.Parallel()

	env := protocol.Envelope{Src: "n1", Dest: "c1", Body: protocol.ReadOk{InReplyTo: 4, Messages: []int{3, 1}}}

	out, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded protocol.Envelope
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, env, decoded)
}

func TestIsResponse(t *testing.T) {
	t.Parallel()

	assert.False(t, protocol.IsResponse(protocol.Echo{}))
	assert.False(t, protocol.IsResponse(protocol.Broadcast{}))
	assert.True(t, protocol.IsResponse(protocol.BroadcastOk{}))
	assert.True(t, protocol.IsResponse(protocol.Error{}))

	id, ok := protocol.RequestID(protocol.Broadcast{Message: 1})
	assert.False(t, ok)
	assert.Zero(t, id)

	id, ok = protocol.RequestID(protocol.Topology{MsgID: 8})
	assert.True(t, ok)
	assert.Equal(t, 8, id)
}
