// Package tracker turns per-tick connection samples into "newly connected"
// events.
package tracker

import (
	"github.com/bnema/padwatch/internal/detector"
	"github.com/bnema/padwatch/internal/input"
)

// Event is a controller that just became connected
type Event struct {
	Identity  input.DeviceIdentity
	SourceAPI input.SourceAPI
}

// Tracker holds the previous sample per source. It is owned by one polling
// loop and is not safe for concurrent use.
type Tracker struct {
	seeded      bool
	startupDone bool

	wasFast       bool
	wasEnumerated bool
}

// New returns a tracker that has not seen any tick yet
func New() *Tracker {
	return &Tracker{}
}

// Reset forgets every previous sample, as if the engine had just started
func (t *Tracker) Reset() {
	*t = Tracker{}
}

// Reseed makes the next tick a new baseline for continuous modes. A startup
// mode that already ran stays done.
func (t *Tracker) Reseed() {
	t.seeded = false
}

// StartupDone reports whether the startup window has closed. It closes on
// the first tick in any mode, so a startup mode selected later never runs.
func (t *Tracker) StartupDone() bool {
	return t.startupDone
}

// Skip records a tick that took no sample. It closes the startup window
// like Step does.
func (t *Tracker) Skip() {
	t.startupDone = true
}

// Step compares one tick's sample with the previous one and reports a new
// connection if a source relevant to mode went from disconnected to
// connected. The stored sample is overwritten whether or not an event fires.
//
// Continuous modes take their first sample as the baseline, so a controller
// that was already present when the engine started does not fire. Startup
// modes are only evaluated on the tracker's first tick, whatever mode that
// tick ran in, and fire if a relevant source is connected.
func (t *Tracker) Step(mode TriggerMode, s detector.Sources) (ev Event, fired bool) {
	defer func() {
		t.wasFast = s.Fast.IsConnected
		t.wasEnumerated = s.Enumerated.IsConnected
		t.seeded = true
		t.startupDone = true
	}()

	switch {
	case mode == ModeDisabled:
		return Event{}, false

	case mode.IsStartup():
		if t.startupDone {
			return Event{}, false
		}
		return relevant(mode, s)

	case !t.seeded:
		return Event{}, false
	}

	if s.Fast.IsConnected && !t.wasFast {
		return eventFrom(s.Fast), true
	}

	// An enumeration edge only counts when the fast tier does not already see
	// a controller; otherwise it is the same pad arriving late through the
	// enumeration cache.
	if mode.IncludesEnumerated() && s.Enumerated.IsConnected && !t.wasEnumerated && !s.Fast.IsConnected {
		return eventFrom(s.Enumerated), true
	}
	return Event{}, false
}

func relevant(mode TriggerMode, s detector.Sources) (Event, bool) {
	if s.Fast.IsConnected {
		return eventFrom(s.Fast), true
	}
	if mode.IncludesEnumerated() && s.Enumerated.IsConnected {
		return eventFrom(s.Enumerated), true
	}
	return Event{}, false
}

func eventFrom(st input.ControllerState) Event {
	ev := Event{SourceAPI: st.SourceAPI}
	if st.Identity != nil {
		ev.Identity = *st.Identity
	} else {
		ev.Identity = input.DeviceIdentity{DisplayName: "Game Controller", SourceAPI: st.SourceAPI}
	}
	return ev
}
