package node

import (
	"slices"
)

// State is everything a node remembers between envelopes. It is owned by a
// single goroutine and is not safe for concurrent use.
type State struct {
	initialized bool
	id          string
	roster      []string
	accepted    map[int]struct{}
}

// NewState returns an uninitialized state with an empty value set.
func NewState() *State {
	return &State{accepted: make(map[int]struct{})}
}

func (s *State) Initialized() bool { return s.initialized }
func (s *State) ID() string        { return s.id }

// Roster returns a copy of the current neighbor list in stored order.
func (s *State) Roster() []string {
	return slices.Clone(s.roster)
}

// Has reports whether v was accepted.
func (s *State) Has(v int) bool {
	_, ok := s.accepted[v]
	return ok
}

// Len is the number of accepted values.
func (s *State) Len() int {
	return len(s.accepted)
}

// Messages returns the accepted values in ascending order.
func (s *State) Messages() []int {
	out := make([]int, 0, len(s.accepted))
	for v := range s.accepted {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

func (s *State) setIdentity(id string, roster []string) {
	s.initialized = true
	s.id = id
	s.roster = slices.Clone(roster)
}

func (s *State) setRoster(roster []string) {
	s.roster = slices.Clone(roster)
}

// accept inserts v and reports whether it was new.
func (s *State) accept(v int) bool {
	if _, ok := s.accepted[v]; ok {
		return false
	}
	s.accepted[v] = struct{}{}
	return true
}
