// Package timer provides keyed countdown sets driven by simulated time.
//
// A set is advanced by Update with the current simulation clock; keys whose
// countdown reaches zero are collected into a completed snapshot that the owner
// drains exactly once per tick. Sets are not safe for concurrent use.
package timer

import "time"

// Set is a keyed collection of independent countdowns.
//
// Invariant: a key is either counting down or sitting in the completed
// snapshot (or both, when re-armed before the snapshot was drained).
type Set[K comparable] struct {
	last      time.Duration
	remaining map[K]time.Duration
	order     []K
	completed []K
	done      map[K]struct{}
}

// NewSet returns an empty Set whose clock starts at zero.
func NewSet[K comparable]() *Set[K] {
	return &Set[K]{
		remaining: make(map[K]time.Duration),
		done:      make(map[K]struct{}),
	}
}

// SetTimeout registers a countdown of d for key. An existing countdown is
// replaced, never extended.
//
// Postcondition: IsRegistered(key) is true.
func (s *Set[K]) SetTimeout(key K, d time.Duration) {
	if _, ok := s.remaining[key]; !ok {
		s.order = append(s.order, key)
	}
	s.remaining[key] = d
}

// Cancel removes a pending countdown without reporting completion.
func (s *Set[K]) Cancel(key K) {
	if _, ok := s.remaining[key]; !ok {
		return
	}
	delete(s.remaining, key)
	s.compact()
}

// IsRegistered reports whether key has a live countdown.
func (s *Set[K]) IsRegistered(key K) bool {
	_, ok := s.remaining[key]
	return ok
}

// IsPending reports whether key is counting down or has completed without
// being drained yet.
func (s *Set[K]) IsPending(key K) bool {
	if s.IsRegistered(key) {
		return true
	}
	_, ok := s.done[key]
	return ok
}

// Remaining returns the time left on key's countdown.
func (s *Set[K]) Remaining(key K) (time.Duration, bool) {
	d, ok := s.remaining[key]
	return d, ok
}

// Len returns the number of live countdowns.
func (s *Set[K]) Len() int { return len(s.remaining) }

// Update advances every countdown by now minus the previous Update's now.
// Countdowns reaching zero or below move to the completed snapshot in
// registration order.
//
// Precondition: now is the simulation clock; a clock that moves backwards is
// treated as zero elapsed time.
func (s *Set[K]) Update(now time.Duration) {
	elapsed := now - s.last
	if elapsed < 0 {
		elapsed = 0
	}
	s.last = now

	expired := false
	for _, key := range s.order {
		left := s.remaining[key] - elapsed
		if left > 0 {
			s.remaining[key] = left
			continue
		}
		delete(s.remaining, key)
		expired = true
		if _, seen := s.done[key]; !seen {
			s.done[key] = struct{}{}
			s.completed = append(s.completed, key)
		}
	}
	if expired {
		s.compact()
	}
}

// Drain returns the keys completed since the previous Drain and clears the
// snapshot.
func (s *Set[K]) Drain() []K {
	out := s.completed
	s.completed = nil
	clear(s.done)
	return out
}

func (s *Set[K]) compact() {
	kept := s.order[:0]
	for _, key := range s.order {
		if _, ok := s.remaining[key]; ok {
			kept = append(kept, key)
		}
	}
	clear(s.order[len(kept):])
	s.order = kept
}
