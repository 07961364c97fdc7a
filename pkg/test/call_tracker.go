package test

import (
	"slices"
	"sync"
)

// CallTracker counts invocations by name and remembers their order.
type CallTracker struct {
	mu       sync.RWMutex
	calls    map[string]int
	sequence []string
}

func NewCallTracker() *CallTracker {
	return &CallTracker{calls: make(map[string]int)}
}

func (ct *CallTracker) Record(method string) {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.calls[method]++
	ct.sequence = append(ct.sequence, method)
}

func (ct *CallTracker) Called(method string) int {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return ct.calls[method]
}

func (ct *CallTracker) CalledOnce(method string) bool {
	return ct.Called(method) == 1
}

func (ct *CallTracker) CalledAtLeast(method string, n int) bool {
	return ct.Called(method) >= n
}

// Sequence returns every recorded name in call order.
func (ct *CallTracker) Sequence() []string {
	ct.mu.RLock()
	defer ct.mu.RUnlock()
	return slices.Clone(ct.sequence)
}

func (ct *CallTracker) Reset() {
	ct.mu.Lock()
	defer ct.mu.Unlock()
	ct.calls = make(map[string]int)
	ct.sequence = nil
}
