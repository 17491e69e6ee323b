// Package lifecycle owns the native game-controller context and the single
// device handle used for live input reads.
package lifecycle

import (
	"github.com/bnema/padwatch/internal/input"
)

// Native is the binding to the cross-platform game-controller library. All
// calls are made with the manager's lock held, so implementations need not be
// safe for concurrent use.
type Native interface {
	// Init brings up the library's controller subsystem. Called at most once
	// per process.
	Init() error

	// Quit tears the subsystem down. Called at most once, at process exit.
	Quit()

	// Update pumps the library so hotplug and button state are current.
	Update()

	// NumDevices returns how many joystick-class devices are enumerable.
	NumDevices() int

	// IsGameController reports whether the device at index has a
	// game-controller mapping.
	IsGameController(index int) bool

	// DeviceInfo describes the device at index without opening it.
	DeviceInfo(index int) input.RawDevice

	// Open opens the device at index.
	Open(index int) (Device, error)
}

// Device is one open controller handle
type Device interface {
	// Attached reports whether the handle still refers to a connected device.
	Attached() bool

	// Info describes the open device.
	Info() input.RawDevice

	// Read returns current buttons and axes. The timestamp is filled in by
	// the manager.
	Read() input.RawInputSnapshot

	Close()
}
