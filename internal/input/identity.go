package input

import (
	"errors"
	"fmt"
)

// ErrNotSupported is returned by adapters whose native API does not exist on
// the running platform.
var ErrNotSupported = errors.New("input source not supported on this platform")

// SourceAPI identifies which detection API produced a result
type SourceAPI int

const (
	SourceNone SourceAPI = iota
	SourceXInput
	SourceJoystick
	SourceGameController
	SourceHID
	SourceBluetooth
)

// IsFast reports whether the source belongs to the handle-free fast tier
func (s SourceAPI) IsFast() bool {
	return s == SourceXInput || s == SourceJoystick
}

func (s SourceAPI) String() string {
	switch s {
	case SourceXInput:
		return "xinput"
	case SourceJoystick:
		return "joystick"
	case SourceGameController:
		return "gamecontroller"
	case SourceHID:
		return "hid"
	case SourceBluetooth:
		return "bluetooth"
	default:
		return "none"
	}
}

// ConnectionKind is the physical link a controller uses
type ConnectionKind int

const (
	ConnectionUnknown ConnectionKind = iota
	ConnectionUSB
	ConnectionBluetooth
	ConnectionWireless
)

func (c ConnectionKind) String() string {
	switch c {
	case ConnectionUSB:
		return "usb"
	case ConnectionBluetooth:
		return "bluetooth"
	case ConnectionWireless:
		return "wireless"
	default:
		return "unknown"
	}
}

// DeviceIdentity describes one controller as seen by one adapter. Values are
// built per query and never mutated afterwards.
type DeviceIdentity struct {
	DisplayName    string
	VendorID       *uint16
	ProductID      *uint16
	ConnectionKind ConnectionKind
	SourceAPI      SourceAPI
}

// HasIDs reports whether both vendor and product IDs are known
func (d DeviceIdentity) HasIDs() bool {
	return d.VendorID != nil && d.ProductID != nil
}

func (d DeviceIdentity) String() string {
	if d.HasIDs() {
		return fmt.Sprintf("%s [%04x:%04x] via %s (%s)", d.DisplayName, *d.VendorID, *d.ProductID, d.SourceAPI, d.ConnectionKind)
	}
	return fmt.Sprintf("%s via %s (%s)", d.DisplayName, d.SourceAPI, d.ConnectionKind)
}

// ControllerState is the merged answer of one unified query
type ControllerState struct {
	IsConnected bool
	Identity    *DeviceIdentity
	SourceAPI   SourceAPI
}

// Disconnected is the zero state reported when no source sees a controller
var Disconnected = ControllerState{}

// ResultKind tags an AdapterResult
type ResultKind int

const (
	// Unavailable means the adapter could not answer this time (native error,
	// unsupported platform, lock contention).
	Unavailable ResultKind = iota
	NotConnected
	Connected
)

func (k ResultKind) String() string {
	switch k {
	case NotConnected:
		return "not-connected"
	case Connected:
		return "connected"
	default:
		return "unavailable"
	}
}

// AdapterResult is the single shape every adapter answers a query with
type AdapterResult struct {
	Kind     ResultKind
	Identity *DeviceIdentity
	Err      error
}

// ConnectedResult wraps an identity in a Connected result
func ConnectedResult(id DeviceIdentity) AdapterResult {
	return AdapterResult{Kind: Connected, Identity: &id}
}

// NotConnectedResult is returned when the adapter works but sees nothing
func NotConnectedResult() AdapterResult {
	return AdapterResult{Kind: NotConnected}
}

// UnavailableResult records why an adapter could not answer
func UnavailableResult(err error) AdapterResult {
	return AdapterResult{Kind: Unavailable, Err: err}
}

// IsConnected is shorthand for Kind == Connected
func (r AdapterResult) IsConnected() bool {
	return r.Kind == Connected
}

// State converts the result into a ControllerState
func (r AdapterResult) State(source SourceAPI) ControllerState {
	if r.Kind != Connected {
		return Disconnected
	}
	return ControllerState{IsConnected: true, Identity: r.Identity, SourceAPI: source}
}

func u16(v uint16) *uint16 {
	return &v
}
