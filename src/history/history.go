package history

import "image"

// DefaultLimit is the number of snapshots kept when no limit is given.
const DefaultLimit = 40

// Stack is a bounded undo log of whole-bitmap snapshots. When full, pushing
// evicts the oldest snapshot. It is not safe for concurrent use; the event
// loop goroutine owns it.
type Stack struct {
	limit int
	snaps []*image.RGBA
}

// New creates a stack holding at most limit snapshots. limit<=0 uses DefaultLimit.
func New(limit int) *Stack {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Stack{limit: limit, snaps: make([]*image.RGBA, 0, limit)}
}

// Push stores snap as the most recent entry. The stack keeps the pointer;
// callers hand over a private copy.
func (s *Stack) Push(snap *image.RGBA) {
	if len(s.snaps) == s.limit {
		copy(s.snaps, s.snaps[1:])
		s.snaps[len(s.snaps)-1] = nil
		s.snaps = s.snaps[:len(s.snaps)-1]
	}
	s.snaps = append(s.snaps, snap)
}

// Pop removes and returns the most recent snapshot. ok is false when empty.
func (s *Stack) Pop() (snap *image.RGBA, ok bool) {
	if len(s.snaps) == 0 {
		return nil, false
	}
	last := len(s.snaps) - 1
	snap = s.snaps[last]
	s.snaps[last] = nil
	s.snaps = s.snaps[:last]
	return snap, true
}

func (s *Stack) Len() int { return len(s.snaps) }

func (s *Stack) Limit() int { return s.limit }

// Clear drops every snapshot.
func (s *Stack) Clear() {
	for i := range s.snaps {
		s.snaps[i] = nil
	}
	s.snaps = s.snaps[:0]
}
