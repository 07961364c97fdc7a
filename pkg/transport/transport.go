package transport

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/sierrasoftworks/humane-errors-go"
	"github.com/spechtlabs/floodnode/pkg/audit"
	"github.com/spechtlabs/floodnode/pkg/protocol"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// DefaultMaxLineBytes bounds a single input line.
const DefaultMaxLineBytes = 1 << 20

// Handler consumes one inbound envelope and returns the envelopes to write.
type Handler interface {
	Handle(ctx context.Context, in protocol.Envelope) ([]protocol.Envelope, humane.Error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, in protocol.Envelope) ([]protocol.Envelope, humane.Error)

func (f HandlerFunc) Handle(ctx context.Context, in protocol.Envelope) ([]protocol.Envelope, humane.Error) {
	return f(ctx, in)
}

type loop struct {
	handler      Handler
	audit        audit.Logger
	maxLineBytes int
	afterHandle  func()
	tracer       trace.Tracer
}

type Option func(*loop)

func WithAuditLogger(l audit.Logger) Option {
	return func(lp *loop) {
		if l != nil {
			lp.audit = l
		}
	}
}

func WithMaxLineBytes(n int) Option {
	return func(lp *loop) {
		if n > 0 {
			lp.maxLineBytes = n
		}
	}
}

// WithAfterHandle registers a callback run on the loop goroutine after every
// processed envelope, once its replies are written.
func WithAfterHandle(fn func()) Option {
	return func(lp *loop) {
		lp.afterHandle = fn
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(lp *loop) {
		lp.tracer = t
	}
}

type line struct {
	raw     []byte
	tooLong bool
}

// Run reads newline-delimited envelopes from r, hands each to h and writes the
// replies to w, one per line. It returns nil at end of input or when ctx is
// cancelled, and an error only when reading or writing fails.
func Run(ctx context.Context, r io.Reader, w io.Writer, h Handler, opts ...Option) humane.Error {
	lp := &loop{
		handler:      h,
		audit:        audit.Nop(),
		maxLineBytes: DefaultMaxLineBytes,
		tracer:       otel.Tracer("floodnode/transport"),
	}
	for _, opt := range opts {
		opt(lp)
	}

	lines := make(chan line)
	readErr := make(chan error, 1)

	// The reader cannot be interrupted, so it lives on its own goroutine and
	// stops at the next line once ctx is done.
	go func() {
		defer close(lines)
		br := bufio.NewReader(r)
		for {
			raw, tooLong, err := readLine(br, lp.maxLineBytes)
			if err != nil {
				if !errors.Is(err, io.EOF) {
					readErr <- err
				}
				return
			}
			select {
			case lines <- line{raw: raw, tooLong: tooLong}:
			case <-ctx.Done():
				return
			}
		}
	}()

	bw := bufio.NewWriter(w)
	for {
		select {
		case <-ctx.Done():
			return nil

		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return humane.Wrap(err, "failed to read input", "check that stdin is still connected")
				default:
					return nil
				}
			}

			if err := lp.process(ctx, bw, l); err != nil {
				return err
			}
		}
	}
}

func (lp *loop) process(ctx context.Context, w *bufio.Writer, l line) humane.Error {
	if l.tooLong {
		malformedEnvelopes.Inc()
		otelzap.L().WarnContext(ctx, "Skipping oversized input line", zap.Int("max_line_bytes", lp.maxLineBytes))
		return nil
	}

	if len(bytes.TrimSpace(l.raw)) == 0 {
		return nil
	}

	ctx, span := lp.tracer.Start(ctx, "Transport.handle")
	defer span.End()

	lp.audit.Record(audit.Request, l.raw)

	in, err := protocol.Parse(l.raw)
	if err != nil {
		malformedEnvelopes.Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "malformed envelope")
		otelzap.L().WarnContext(ctx, "Skipping malformed envelope", zap.Error(err), zap.ByteString("line", truncate(l.raw, 256)))
		return nil
	}

	bodyType := string(in.Body.Type())
	span.SetAttributes(
		attribute.String("envelope.type", bodyType),
		attribute.String("envelope.src", in.Src),
	)
	envelopesTotal.WithLabelValues(bodyType, "in").Inc()

	out, herr := lp.handler.Handle(ctx, in)
	if herr != nil {
		span.RecordError(herr)
		otelzap.L().WarnContext(ctx, "Envelope handling failed",
			zap.Error(herr),
			zap.String("type", bodyType),
			zap.String("src", in.Src),
		)
	}
	span.SetAttributes(attribute.Int("envelopes.out", len(out)))

	for _, env := range out {
		data, merr := protocol.Marshal(env)
		if merr != nil {
			otelzap.L().WithError(merr).ErrorContext(ctx, "Failed to encode outbound envelope", zap.String("dest", env.Dest))
			continue
		}

		if werr := writeLine(w, data); werr != nil {
			span.SetStatus(codes.Error, "write failed")
			return humane.Wrap(werr, "failed to write envelope", "check that stdout is still connected")
		}

		envelopesTotal.WithLabelValues(string(env.Body.Type()), "out").Inc()
		lp.audit.Record(audit.Response, data)
	}

	if lp.afterHandle != nil {
		lp.afterHandle()
	}
	return nil
}

func writeLine(w *bufio.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return err
	}
	if err := w.WriteByte('\n'); err != nil {
		return err
	}
	return w.Flush()
}

// readLine returns the next line without its terminator. Lines longer than limit
// are consumed in full and reported with tooLong set and no content.
func readLine(r *bufio.Reader, limit int) ([]byte, bool, error) {
	var (
		buf     []byte
		tooLong bool
		seen    bool
	)

	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if seen {
				return buf, tooLong, nil
			}
			return nil, false, err
		}
		seen = true

		if !tooLong {
			if len(buf)+len(chunk) > limit {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}

		if !isPrefix {
			if buf == nil {
				buf = []byte{}
			}
			return buf, tooLong, nil
		}
	}
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
