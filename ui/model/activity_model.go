package model

import (
	"time"
)

// DefaultIdleAfter is how long without input before an editing stretch ends.
const DefaultIdleAfter = 30 * time.Second

// ActivityModel tracks how long the operator has actually been editing. Input
// events call Touch; a stretch stays open until no input arrived for IdleAfter.
// The zero value is ready to use with DefaultIdleAfter.
type ActivityModel struct {
	IdleAfter time.Duration

	active      bool
	lastInput   time.Time
	start       time.Time
	stretch     time.Duration
	accumulated time.Duration
}

// NewActivityModel returns a model that closes a stretch after idle without input.
func NewActivityModel(idle time.Duration) *ActivityModel {
	return &ActivityModel{IdleAfter: idle}
}

func (m *ActivityModel) idle() time.Duration {
	if m.IdleAfter <= 0 {
		return DefaultIdleAfter
	}
	return m.IdleAfter
}

// Touch records an input event at now, opening a stretch when none is active.
func (m *ActivityModel) Touch(now time.Time) {
	if m == nil {
		return
	}
	if !m.active {
		m.active = true
		m.start = now
		m.stretch = 0
	}
	m.lastInput = now
	m.stretch = now.Sub(m.start)
}

// OnTick advances the model. A stretch whose last input is older than the
// idle window is closed at the time of that last input.
func (m *ActivityModel) OnTick(now time.Time) {
	if m == nil || !m.active {
		return
	}
	if now.Sub(m.lastInput) >= m.idle() {
		m.stretch = m.lastInput.Sub(m.start)
		m.accumulated += m.stretch
		m.active = false
		return
	}
	m.stretch = now.Sub(m.start)
}

// Active reports whether an editing stretch is open.
func (m *ActivityModel) Active() bool { return m != nil && m.active }

// Values returns the current (or last) stretch and the total editing time,
// which includes the open stretch.
func (m *ActivityModel) Values() (stretch, total time.Duration) {
	if m == nil {
		return 0, 0
	}
	stretch = m.stretch
	total = m.accumulated
	if m.active {
		total += stretch
	}
	return
}
