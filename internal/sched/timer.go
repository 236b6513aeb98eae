package sched

import (
	"errors"
	"time"
)

var (
	// ErrNegativeDuration is returned when a timer is started with d < 0.
	ErrNegativeDuration = errors.New("sched: negative duration")
	// ErrTimerStarted is returned when Start is called twice.
	ErrTimerStarted = errors.New("sched: timer already started")
)

type timerState int

const (
	timerIdle timerState = iota
	timerRunning
	timerExpired
	timerCancelled
)

// Timer is a one-shot countdown bound to a round. Its expiry callback fires
// exactly once, unless the timer is cancelled first.
type Timer struct {
	g         *Group
	onExpire  func()
	h         *Handle
	state     timerState
	startedAt time.Time
	duration  time.Duration
	left      time.Duration
}

// NewTimer creates an idle timer scheduling through g.
func NewTimer(g *Group, onExpire func()) *Timer {
	return &Timer{g: g, onExpire: onExpire}
}

// Start begins the countdown. A zero duration expires on the next poll.
func (t *Timer) Start(d time.Duration) error {
	if d < 0 {
		return ErrNegativeDuration
	}
	if t.state != timerIdle {
		return ErrTimerStarted
	}
	t.state = timerRunning
	t.duration = d
	t.startedAt = t.g.Now()
	t.h = t.g.After(d, t.expire)
	return nil
}

func (t *Timer) expire() {
	if t.state != timerRunning {
		return
	}
	t.state = timerExpired
	t.left = 0
	if t.onExpire != nil {
		t.onExpire()
	}
}

// Cancel stops the countdown. It has no effect after expiry or a previous
// Cancel.
func (t *Timer) Cancel() {
	switch t.state {
	case timerRunning:
		t.left = t.Remaining()
		t.h.Cancel()
		t.state = timerCancelled
	case timerIdle:
		t.state = timerCancelled
	}
}

// Duration returns the duration the timer was started with.
func (t *Timer) Duration() time.Duration {
	return t.duration
}

// Remaining returns the time left before expiry.
func (t *Timer) Remaining() time.Duration {
	if t.state != timerRunning {
		return t.left
	}
	left := t.duration - t.g.Now().Sub(t.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

// Fraction returns the share of the duration still left, from 1 down to 0.
func (t *Timer) Fraction() float64 {
	if t.duration <= 0 {
		return 0
	}
	return float64(t.Remaining()) / float64(t.duration)
}

// Running reports whether the countdown is in progress.
func (t *Timer) Running() bool { return t.state == timerRunning }

// Expired reports whether the expiry callback fired.
func (t *Timer) Expired() bool { return t.state == timerExpired }
