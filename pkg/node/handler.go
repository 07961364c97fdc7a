package node

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/floodnode/pkg/protocol"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("floodnode/node")

// Handle applies one inbound envelope to s and returns the envelopes to send,
// in the order they must be written. A non-nil error may come with envelopes
// (an error reply for the requester); callers write those before reporting it.
func Handle(ctx context.Context, s *State, in protocol.Envelope) ([]protocol.Envelope, humane.Error) {
	ctx, span := tracer.Start(ctx, "Node.Handle")
	defer span.End()

	bodyType := string(in.Body.Type())
	span.SetAttributes(attribute.String("body.type", bodyType))

	start := time.Now()
	defer func() {
		handleDuration.WithLabelValues(bodyType).Observe(time.Since(start).Seconds())
	}()

	out, err := dispatch(ctx, s, in)
	if err != nil {
		handleErrors.WithLabelValues(errorKind(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.SetAttributes(attribute.Int("envelopes.out", len(out)))
	return out, err
}

func dispatch(ctx context.Context, s *State, in protocol.Envelope) ([]protocol.Envelope, humane.Error) {
	if protocol.IsResponse(in.Body) {
		return nil, nil
	}

	if _, isInit := in.Body.(protocol.Init); !isInit && !s.initialized {
		err := humane.Wrap(ErrNotInitialized, fmt.Sprintf("cannot handle %s before init", in.Body.Type()))
		msgID, ok := protocol.RequestID(in.Body)
		if !ok {
			return nil, err
		}
		return []protocol.Envelope{reply(s, in, protocol.Error{
			InReplyTo: msgID,
			Code:      protocol.ErrorCodeTemporarilyUnavailable,
			Text:      "node has not been initialized",
		})}, err
	}

	switch body := in.Body.(type) {
	case protocol.Echo:
		return []protocol.Envelope{reply(s, in, protocol.EchoOk{
			MsgID:     body.MsgID + 1,
			Echo:      body.Echo,
			InReplyTo: body.MsgID,
		})}, nil

	case protocol.Init:
		if s.initialized {
			otelzap.L().WarnContext(ctx, "Node re-initialized",
				zap.String("previous_id", s.id),
				zap.String("node_id", body.NodeID),
			)
		}
		s.setIdentity(body.NodeID, body.NodeIDs)
		return []protocol.Envelope{reply(s, in, protocol.InitOk{InReplyTo: body.MsgID})}, nil

	case protocol.Generate:
		return handleGenerate(s, in, body), nil

	case protocol.Broadcast:
		return handleBroadcast(s, in, body), nil

	case protocol.Read:
		return handleRead(s, in, body), nil

	case protocol.Topology:
		return handleTopology(s, in, body)
	}

	return nil, nil
}

// reply addresses body to the sender of in. Before init the inbound dest is
// the only name the node has.
func reply(s *State, in protocol.Envelope, body protocol.Body) protocol.Envelope {
	src := s.id
	if !s.initialized {
		src = in.Dest
	}
	return protocol.Envelope{Src: src, Dest: in.Src, Body: body}
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, ErrNotInitialized):
		return "not_initialized"
	case errors.Is(err, ErrMissingNodeInTopology):
		return "missing_topology_entry"
	default:
		return "other"
	}
}
