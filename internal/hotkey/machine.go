package hotkey

import (
	"time"

	"github.com/bnema/padwatch/internal/input"
)

// State is the runtime state carried between ticks
type State struct {
	HeldSince    *time.Time
	AlreadyFired bool
	LastFire     *time.Time
}

// Held reports whether the combination was held on the last evaluated tick
func (s State) Held() bool {
	return s.HeldSince != nil
}

// Step evaluates one tick and returns the next state and whether the hotkey
// fired. It has no side effects.
//
// A press fires at most once until every required button is released. With
// long press enabled it fires once the hold reaches cfg.LongPressDuration. A
// fire within cfg.Cooldown of the previous one is suppressed and the press is
// consumed, so holding through the end of the cooldown does not fire either.
func Step(st State, cfg Config, snap input.RawInputSnapshot, now time.Time) (State, bool) {
	if !cfg.Combination.HeldIn(snap.Buttons) {
		st.HeldSince = nil
		st.AlreadyFired = false
		return st, false
	}

	if st.HeldSince == nil {
		st.HeldSince = &now
	}
	if st.AlreadyFired {
		return st, false
	}
	if cfg.RequireLongPress && now.Sub(*st.HeldSince) < cfg.LongPressDuration {
		return st, false
	}

	st.AlreadyFired = true
	if st.LastFire != nil && now.Sub(*st.LastFire) < cfg.Cooldown {
		return st, false
	}
	st.LastFire = &now
	return st, true
}

// Machine owns a State for one polling loop. It is not safe for concurrent
// use.
type Machine struct {
	state State
}

// Tick feeds one poll result into the machine. A tick without a snapshot
// (lock timeout, no device) leaves the state untouched.
func (m *Machine) Tick(cfg Config, snap input.RawInputSnapshot, ok bool, now time.Time) bool {
	if !ok {
		return false
	}
	next, fired := Step(m.state, cfg.Clamp(), snap, now)
	m.state = next
	return fired
}

// State returns a copy of the current runtime state
func (m *Machine) State() State {
	return m.state
}

// Reset forgets any hold in progress but keeps the cooldown
func (m *Machine) Reset() {
	m.state.HeldSince = nil
	m.state.AlreadyFired = false
}
