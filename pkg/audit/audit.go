package audit

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spechtlabs/go-otel-utils/otelzap"
	"go.uber.org/zap"
)

// DefaultPath is where the node appends its audit trail unless configured otherwise.
const DefaultPath = "/tmp/log.txt"

// Direction tells inbound lines from outbound ones.
type Direction int

const (
	Request Direction = iota
	Response
)

func (d Direction) String() string {
	switch d {
	case Request:
		return "Request"
	case Response:
		return "Response"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Logger records every raw line the node reads or writes. Implementations are
// best effort and must never fail the caller.
type Logger interface {
	Record(dir Direction, raw []byte)
}

type nop struct{}

func (nop) Record(Direction, []byte) {}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return nop{}
}

var writeFailures = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "floodnode",
		Name:      "audit_write_failures_total",
		Help:      "Audit lines that could not be written",
	},
)

func init() {
	prometheus.MustRegister(writeFailures)
}

// FileLogger appends "<unix_ms> - <Direction>: <raw>" lines to a file, which
// is opened on first use.
type FileLogger struct {
	mu       sync.Mutex
	path     string
	file     *os.File
	now      func() time.Time
	lastErr  string
	failures uint64
}

type Option func(*FileLogger)

// WithClock replaces time.Now for the timestamp prefix.
func WithClock(now func() time.Time) Option {
	return func(l *FileLogger) {
		l.now = now
	}
}

func NewFileLogger(path string, opts ...Option) *FileLogger {
	if path == "" {
		path = DefaultPath
	}

	l := &FileLogger{
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *FileLogger) Record(dir Direction, raw []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.write(dir, raw)
	if err == nil {
		return
	}

	l.failures++
	writeFailures.Inc()

	// Only log once per distinct error so a missing directory does not flood stderr.
	if msg := err.Error(); msg != l.lastErr {
		l.lastErr = msg
		otelzap.L().Warn("Failed to write audit log", zap.Error(err), zap.String("path", l.path))
	}
}

// Failures is the number of lines that could not be written.
func (l *FileLogger) Failures() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failures
}

func (l *FileLogger) write(dir Direction, raw []byte) error {
	if l.file == nil {
		f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		l.file = f
	}

	_, err := fmt.Fprintf(l.file, "%d - %s: %s\n", l.now().UnixMilli(), dir, raw)
	return err
}

func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}
