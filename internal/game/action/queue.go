package action

import "time"

type delayed struct {
	action *Action
	due    time.Duration
}

// Queue is a FIFO of actions plus a list of actions scheduled for later.
// The head of the queue is the creature's current action.
type Queue struct {
	actions []*Action
	delayed []delayed
	now     time.Duration
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue { return &Queue{} }

// Clear drops every queued action. Delayed actions are kept.
func (q *Queue) Clear() {
	clear(q.actions)
	q.actions = q.actions[:0]
}

// Add appends a to the queue. A nil action is ignored.
func (q *Queue) Add(a *Action) {
	if a == nil {
		return
	}
	q.actions = append(q.actions, a)
}

// Delay schedules a to be appended once d of simulated time has passed.
func (q *Queue) Delay(a *Action, d time.Duration) {
	if a == nil {
		return
	}
	q.delayed = append(q.delayed, delayed{action: a, due: q.now + d})
}

// Current returns the head of the queue, or nil when empty.
func (q *Queue) Current() *Action {
	return q.Peek(0)
}

// Peek returns the i-th queued action, or nil when out of range.
func (q *Queue) Peek(i int) *Action {
	if i < 0 || i >= len(q.actions) {
		return nil
	}
	return q.actions[i]
}

// Len returns the number of queued actions.
func (q *Queue) Len() int { return len(q.actions) }

// Empty reports whether nothing is queued.
func (q *Queue) Empty() bool { return len(q.actions) == 0 }

// PendingDelayed returns the number of scheduled actions not yet promoted.
func (q *Queue) PendingDelayed() int { return len(q.delayed) }

// Update advances the queue clock to now: the current Wait action accrues
// time, completed actions are dropped from the head, and due delayed actions
// are appended in scheduling order.
func (q *Queue) Update(now time.Duration) {
	dt := now - q.now
	if dt < 0 {
		dt = 0
	}
	q.now = now

	if cur := q.Current(); cur != nil {
		cur.advance(dt)
	}
	for len(q.actions) > 0 && q.actions[0].completed {
		q.actions[0] = nil
		q.actions = q.actions[1:]
	}

	kept := q.delayed[:0]
	for _, d := range q.delayed {
		if now >= d.due {
			q.actions = append(q.actions, d.action)
			continue
		}
		kept = append(kept, d)
	}
	clear(q.delayed[len(kept):])
	q.delayed = kept
}
