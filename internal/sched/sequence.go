package sched

import "time"

// Step is one beat of a Sequence. Delay is measured from the previous step
// (or from the start of the sequence for the first one).
type Step struct {
	Delay time.Duration
	Do    func()
}

// Sequence runs an ordered list of steps. Cancelling it stops every step
// that has not run yet.
type Sequence struct {
	s         *Scheduler
	steps     []Step
	next      int
	cur       *Handle
	cancelled bool
}

// Sequence starts running steps. Consecutive zero-delay steps run in the
// same callback as the step before them.
func (s *Scheduler) Sequence(steps ...Step) *Sequence {
	q := &Sequence{s: s, steps: steps}
	q.arm(s.clock.Now())
	return q
}

func (q *Sequence) arm(from time.Time) {
	if q.next >= len(q.steps) {
		return
	}
	d := q.steps[q.next].Delay
	if d < 0 {
		d = 0
	}
	due := from.Add(d)
	q.cur = q.s.at(due, 0, func() { q.fire(due) })
}

func (q *Sequence) fire(at time.Time) {
	for q.next < len(q.steps) && !q.cancelled {
		step := q.steps[q.next]
		q.next++
		if step.Do != nil {
			step.Do()
		}
		if q.next < len(q.steps) && q.steps[q.next].Delay > 0 {
			break
		}
	}
	if !q.cancelled {
		q.arm(at)
	}
}

// Cancel stops the remaining steps. It is idempotent.
func (q *Sequence) Cancel() {
	if q == nil {
		return
	}
	q.cancelled = true
	q.cur.Cancel()
}

// Active reports whether any step is still waiting to run.
func (q *Sequence) Active() bool {
	return q != nil && !q.cancelled && q.next < len(q.steps)
}

// Done reports whether every step ran.
func (q *Sequence) Done() bool {
	return q != nil && !q.cancelled && q.next >= len(q.steps)
}
