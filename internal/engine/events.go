package engine

import (
	"time"

	"github.com/bnema/padwatch/internal/hotkey"
	"github.com/bnema/padwatch/internal/input"
)

// Event is emitted to subscribers. It is either ConnectionDetected or
// HotkeyFired.
type Event interface {
	Kind() string
	Time() time.Time
}

// ConnectionDetected is emitted once per new controller connection
type ConnectionDetected struct {
	Identity  input.DeviceIdentity
	SourceAPI input.SourceAPI
	At        time.Time
}

func (e ConnectionDetected) Kind() string    { return "connection_detected" }
func (e ConnectionDetected) Time() time.Time { return e.At }

// HotkeyFired is emitted once per accepted hotkey press
type HotkeyFired struct {
	Combination hotkey.Combination
	At          time.Time
}

func (e HotkeyFired) Kind() string    { return "hotkey_fired" }
func (e HotkeyFired) Time() time.Time { return e.At }
