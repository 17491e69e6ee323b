package engine

import (
	"sync/atomic"

	"github.com/bnema/padwatch/internal/detector"
	"github.com/bnema/padwatch/internal/input"
)

type status struct {
	disabled        atomic.Bool
	last            atomic.Pointer[input.ControllerState]
	connectionTicks atomic.Int64
	hotkeyTicks     atomic.Int64
	missedSnapshots atomic.Int64
	connections     atomic.Int64
	hotkeys         atomic.Int64
	panics          atomic.Int64
	abandoned       atomic.Int64
}

// Status is a point-in-time view of the engine for diagnostics
type Status struct {
	Running  bool
	Disabled bool
	Options  Options

	// LastState is the most recent unified connection answer
	LastState input.ControllerState

	ConnectionTicks int64
	HotkeyTicks     int64
	MissedSnapshots int64
	Connections     int64
	Hotkeys         int64
	Panics          int64
	AbandonedLoops  int64
	DroppedEvents   int64

	Detector     detector.Stats
	LockTimeouts int64
}

type statser interface {
	Stats() detector.Stats
}

// Status reports counters and the last observed state
func (e *Engine) Status() Status {
	s := Status{
		Running:         e.Running(),
		Disabled:        e.status.disabled.Load(),
		Options:         e.Options(),
		ConnectionTicks: e.status.connectionTicks.Load(),
		HotkeyTicks:     e.status.hotkeyTicks.Load(),
		MissedSnapshots: e.status.missedSnapshots.Load(),
		Connections:     e.status.connections.Load(),
		Hotkeys:         e.status.hotkeys.Load(),
		Panics:          e.status.panics.Load(),
		AbandonedLoops:  e.status.abandoned.Load(),
	}
	if last := e.status.last.Load(); last != nil {
		s.LastState = *last
	}

	if d := e.dispatcher.Load(); d != nil {
		s.DroppedEvents = d.Dropped()
	}

	if st, ok := e.source.(statser); ok {
		s.Detector = st.Stats()
	}
	if e.lockStats != nil {
		s.LockTimeouts = e.lockStats()
	}
	return s
}
