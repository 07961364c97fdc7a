package protocol

import (
	"bytes"
	"encoding/json"

	"github.com/sierrasoftworks/humane-errors-go"
)

// Envelope is one routed protocol message.
type Envelope struct {
	Src  string
	Dest string
	Body Body
}

type wireEnvelope struct {
	Src  *string         `json:"src"`
	Dest *string         `json:"dest"`
	Body json.RawMessage `json:"body"`
}

type variant struct {
	required []string
	decode   func(json.RawMessage) (Body, error)
}

func decodeInto[T Body](raw json.RawMessage) (Body, error) {
	var b T
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, err
	}
	return b, nil
}

var variants = map[BodyType]variant{
	TypeEcho:        {required: []string{"msg_id", "echo"}, decode: decodeInto[Echo]},
	TypeEchoOk:      {required: []string{"msg_id", "echo", "in_reply_to"}, decode: decodeInto[EchoOk]},
	TypeInit:        {required: []string{"msg_id", "node_id", "node_ids"}, decode: decodeInto[Init]},
	TypeInitOk:      {required: []string{"in_reply_to"}, decode: decodeInto[InitOk]},
	TypeGenerate:    {required: []string{"msg_id"}, decode: decodeInto[Generate]},
	TypeGenerateOk:  {required: []string{"id", "in_reply_to"}, decode: decodeInto[GenerateOk]},
	TypeBroadcast:   {required: []string{"message"}, decode: decodeInto[Broadcast]},
	TypeBroadcastOk: {required: []string{"in_reply_to"}, decode: decodeInto[BroadcastOk]},
	TypeRead:        {required: []string{"msg_id"}, decode: decodeInto[Read]},
	TypeReadOk:      {required: []string{"in_reply_to", "messages"}, decode: decodeInto[ReadOk]},
	TypeTopology:    {required: []string{"msg_id", "topology"}, decode: decodeInto[Topology]},
	TypeTopologyOk:  {required: []string{"in_reply_to"}, decode: decodeInto[TopologyOk]},
	TypeError:       {required: []string{"in_reply_to", "code"}, decode: decodeInto[Error]},
}

var jsonNull = []byte("null")

// Parse decodes a single line of input. Every failure wraps ErrMalformedEnvelope.
// Unknown extra fields are ignored; missing, null or mistyped required fields are not.
func Parse(data []byte) (Envelope, humane.Error) {
	var wire wireEnvelope
	if err := json.Unmarshal(data, &wire); err != nil {
		return Envelope{}, parseError("invalid JSON: %s", err)
	}

	switch {
	case wire.Src == nil:
		return Envelope{}, parseError("missing field %q", "src")
	case wire.Dest == nil:
		return Envelope{}, parseError("missing field %q", "dest")
	case len(wire.Body) == 0 || bytes.Equal(wire.Body, jsonNull):
		return Envelope{}, parseError("missing field %q", "body")
	}

	body, err := parseBody(wire.Body)
	if err != nil {
		return Envelope{}, err
	}

	return Envelope{Src: *wire.Src, Dest: *wire.Dest, Body: body}, nil
}

func parseBody(raw json.RawMessage) (Body, humane.Error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, parseError("body is not an object: %s", err)
	}

	rawType, ok := fields["type"]
	if !ok {
		return nil, parseError("body is missing field %q", "type")
	}

	var typ string
	if err := json.Unmarshal(rawType, &typ); err != nil {
		return nil, parseError("body type is not a string: %s", err)
	}

	v, ok := variants[BodyType(typ)]
	if !ok {
		return nil, parseError("unknown body type %q", typ)
	}

	for _, name := range v.required {
		value, present := fields[name]
		if !present || bytes.Equal(bytes.TrimSpace(value), jsonNull) {
			return nil, parseError("%s body is missing field %q", typ, name)
		}
	}

	body, err := v.decode(raw)
	if err != nil {
		return nil, parseError("invalid %s body: %s", typ, err)
	}
	return body, nil
}

// UnmarshalJSON applies the same validation as Parse.
func (e *Envelope) UnmarshalJSON(data []byte) error {
	env, err := Parse(data)
	if err != nil {
		return err
	}
	*e = env
	return nil
}

// MarshalJSON renders the envelope with the body type tag as the first body field.
func (e Envelope) MarshalJSON() ([]byte, error) {
	return Marshal(e)
}

// Marshal encodes e as a single JSON object without a trailing newline.
func Marshal(e Envelope) ([]byte, humane.Error) {
	if e.Body == nil {
		return nil, humane.New("cannot marshal envelope without a body", "construct envelopes with one of the body types of this package")
	}

	body, err := marshalBody(e.Body)
	if err != nil {
		return nil, humane.Wrap(err, "failed to marshal envelope body")
	}

	src, dest := e.Src, e.Dest
	out, err := encode(wireEnvelope{Src: &src, Dest: &dest, Body: body})
	if err != nil {
		return nil, humane.Wrap(err, "failed to marshal envelope")
	}
	return out, nil
}

func marshalBody(b Body) (json.RawMessage, error) {
	payload, err := encode(b)
	if err != nil {
		return nil, err
	}

	typ, err := encode(string(b.Type()))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(payload) + len(typ) + 10)
	buf.WriteString(`{"type":`)
	buf.Write(typ)
	if len(payload) > 2 {
		buf.WriteByte(',')
		buf.Write(payload[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
