package test

import (
	"sync"

	"github.com/spechtlabs/floodnode/pkg/audit"
)

// AuditRecorder is an in-memory audit.Logger.
type AuditRecorder struct {
	*CallTracker

	mu    sync.Mutex
	lines []AuditLine
}

type AuditLine struct {
	Direction audit.Direction
	Raw       string
}

func NewAuditRecorder() *AuditRecorder {
	return &AuditRecorder{CallTracker: NewCallTracker()}
}

func (r *AuditRecorder) Record(dir audit.Direction, raw []byte) {
	r.CallTracker.Record(dir.String())

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, AuditLine{Direction: dir, Raw: string(raw)})
}

func (r *AuditRecorder) Lines() []AuditLine {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]AuditLine, len(r.lines))
	copy(out, r.lines)
	return out
}
