package timer

import "time"

// CountingSet tracks any number of outstanding timeouts per key. Arming a key
// that is already pending adds another outstanding timeout instead of
// replacing the first one; the key completes only once all of them are gone.
type CountingSet[K comparable] struct {
	last      time.Duration
	holds     map[K][]time.Duration
	order     []K
	completed []K
}

// NewCountingSet returns an empty CountingSet whose clock starts at zero.
func NewCountingSet[K comparable]() *CountingSet[K] {
	return &CountingSet[K]{holds: make(map[K][]time.Duration)}
}

// Arm adds one outstanding timeout of d for key.
//
// Postcondition: Pending(key) is incremented by one.
func (s *CountingSet[K]) Arm(key K, d time.Duration) {
	if _, ok := s.holds[key]; !ok {
		s.order = append(s.order, key)
	}
	s.holds[key] = append(s.holds[key], d)
}

// Release drops the oldest outstanding timeout for key. When that was the last
// one the key is reported as completed. Returns false if key was not pending.
func (s *CountingSet[K]) Release(key K) bool {
	h, ok := s.holds[key]
	if !ok {
		return false
	}
	if len(h) > 1 {
		s.holds[key] = h[1:]
		return true
	}
	delete(s.holds, key)
	s.completed = append(s.completed, key)
	s.compact()
	return true
}

// Cancel drops every outstanding timeout for key without reporting completion.
func (s *CountingSet[K]) Cancel(key K) {
	if _, ok := s.holds[key]; !ok {
		return
	}
	delete(s.holds, key)
	s.compact()
}

// Pending returns the number of outstanding timeouts for key.
func (s *CountingSet[K]) Pending(key K) int { return len(s.holds[key]) }

// IsPending reports whether key has at least one outstanding timeout.
func (s *CountingSet[K]) IsPending(key K) bool { return len(s.holds[key]) > 0 }

// Update advances every outstanding timeout by the elapsed simulation time and
// reports keys whose counter dropped to zero.
func (s *CountingSet[K]) Update(now time.Duration) {
	elapsed := now - s.last
	if elapsed < 0 {
		elapsed = 0
	}
	s.last = now

	changed := false
	for _, key := range s.order {
		h := s.holds[key]
		kept := h[:0]
		for _, left := range h {
			if left -= elapsed; left > 0 {
				kept = append(kept, left)
			}
		}
		if len(kept) > 0 {
			s.holds[key] = kept
			continue
		}
		delete(s.holds, key)
		s.completed = append(s.completed, key)
		changed = true
	}
	if changed {
		s.compact()
	}
}

// Drain returns the keys completed since the previous Drain and clears the
// snapshot.
func (s *CountingSet[K]) Drain() []K {
	out := s.completed
	s.completed = nil
	return out
}

func (s *CountingSet[K]) compact() {
	kept := s.order[:0]
	for _, key := range s.order {
		if _, ok := s.holds[key]; ok {
			kept = append(kept, key)
		}
	}
	clear(s.order[len(kept):])
	s.order = kept
}
