//go:build windows

package input

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/windows"
)

// XInput supports four user slots
const xinputMaxControllers = 4

const (
	errorSuccess            = 0
	errorDeviceNotConnected = 1167

	xinputFlagGamepad  = 0x00000001
	xinputCapsWireless = 0x0002

	// XInputGetStateEx is exported by ordinal only; it also reports Guide
	xinputGetStateExOrdinal = 100
)

type xinputGamepad struct {
	Buttons      uint16
	LeftTrigger  uint8
	RightTrigger uint8
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

type xinputState struct {
	PacketNumber uint32
	Gamepad      xinputGamepad
}

type xinputVibration struct {
	LeftMotorSpeed  uint16
	RightMotorSpeed uint16
}

type xinputCapabilities struct {
	Type      uint8
	SubType   uint8
	Flags     uint16
	Gamepad   xinputGamepad
	Vibration xinputVibration
}

var xinputSubTypes = map[uint8]string{
	0x01: "Gamepad",
	0x02: "Wheel",
	0x03: "Arcade Stick",
	0x04: "Flight Stick",
	0x05: "Dance Pad",
	0x06: "Guitar",
	0x08: "Drum Kit",
	0x13: "Arcade Pad",
}

// XInputAdapter is the fast, handle-free source on Windows. Every call goes
// straight to XInputGetState; there is nothing to open or close.
type XInputAdapter struct {
	logger *log.Logger
	now    func() time.Time

	once       sync.Once
	loadErr    error
	getState   *windows.Proc
	getStateEx *windows.Proc
	getCaps    *windows.Proc
}

// NewFastAdapter returns the platform's handle-free adapter
func NewFastAdapter(logger *log.Logger) Adapter {
	return &XInputAdapter{logger: logger, now: time.Now}
}

func (x *XInputAdapter) load() error {
	x.once.Do(func() {
		var dll *windows.DLL
		var err error
		for _, name := range []string{"xinput1_4.dll", "xinput1_3.dll", "xinput9_1_0.dll"} {
			dll, err = windows.LoadDLL(name)
			if err == nil {
				break
			}
		}
		if err != nil {
			x.loadErr = fmt.Errorf("failed to load xinput: %w", err)
			x.logger.Warn("XInput not available", "err", err)
			return
		}

		if x.getState, err = dll.FindProc("XInputGetState"); err != nil {
			x.loadErr = fmt.Errorf("XInputGetState missing: %w", err)
			return
		}
		x.getCaps, _ = dll.FindProc("XInputGetCapabilities")
		if p, err := dll.FindProcByOrdinal(xinputGetStateExOrdinal); err == nil {
			x.getStateEx = p
		}
		x.logger.Debug("XInput loaded", "dll", dll.Name, "guide", x.getStateEx != nil)
	})
	return x.loadErr
}

func (x *XInputAdapter) Source() SourceAPI { return SourceXInput }

func (x *XInputAdapter) Available() bool { return x.load() == nil }

func (x *XInputAdapter) state(slot int) (xinputState, bool) {
	var st xinputState
	proc := x.getState
	if x.getStateEx != nil {
		proc = x.getStateEx
	}
	r1, _, _ := proc.Call(uintptr(slot), uintptr(unsafe.Pointer(&st)))
	switch r1 {
	case errorSuccess:
		return st, true
	case errorDeviceNotConnected:
		return st, false
	default:
		x.logger.Debug("XInputGetState failed", "slot", slot, "code", r1)
		return st, false
	}
}

// Probe reports whether any XInput slot is occupied
func (x *XInputAdapter) Probe() bool {
	if x.load() != nil {
		return false
	}
	for slot := 0; slot < xinputMaxControllers; slot++ {
		if _, ok := x.state(slot); ok {
			return true
		}
	}
	return false
}

// Enumerate lists occupied slots. XInput does not expose names or IDs, so the
// display name is built from the capability subtype.
func (x *XInputAdapter) Enumerate() []DeviceIdentity {
	if x.load() != nil {
		return nil
	}
	var ids []DeviceIdentity
	for slot := 0; slot < xinputMaxControllers; slot++ {
		if _, ok := x.state(slot); !ok {
			continue
		}
		id := DeviceIdentity{
			DisplayName:    fmt.Sprintf("XInput Controller %d", slot+1),
			ConnectionKind: ConnectionUSB,
			SourceAPI:      SourceXInput,
		}
		if x.getCaps != nil {
			var caps xinputCapabilities
			r1, _, _ := x.getCaps.Call(uintptr(slot), xinputFlagGamepad, uintptr(unsafe.Pointer(&caps)))
			if r1 == errorSuccess {
				if sub, ok := xinputSubTypes[caps.SubType]; ok {
					id.DisplayName = fmt.Sprintf("XInput %s %d", sub, slot+1)
				}
				if caps.Flags&xinputCapsWireless != 0 {
					id.ConnectionKind = ConnectionWireless
				}
			}
		}
		ids = append(ids, id)
	}
	return ids
}

// ReadSnapshot merges live state from every occupied slot
func (x *XInputAdapter) ReadSnapshot() (RawInputSnapshot, bool) {
	if x.load() != nil {
		return RawInputSnapshot{}, false
	}
	var snaps []RawInputSnapshot
	for slot := 0; slot < xinputMaxControllers; slot++ {
		st, ok := x.state(slot)
		if !ok {
			continue
		}
		g := st.Gamepad
		snaps = append(snaps, RawInputSnapshot{
			Buttons:   Buttons(g.Buttons),
			Sticks:    [4]int16{g.ThumbLX, g.ThumbLY, g.ThumbRX, g.ThumbRY},
			Triggers:  [2]int16{int16(g.LeftTrigger) << 7, int16(g.RightTrigger) << 7},
			Timestamp: x.now(),
		})
	}
	if len(snaps) == 0 {
		return RawInputSnapshot{}, false
	}
	return MergeSnapshots(snaps...), true
}
