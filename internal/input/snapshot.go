package input

import (
	"strings"
	"time"
)

// Buttons is a pressed-button bitmask using the XInput bit layout. Every
// adapter that can read live state translates into this layout.
type Buttons uint16

const (
	ButtonDPadUp        Buttons = 0x0001
	ButtonDPadDown      Buttons = 0x0002
	ButtonDPadLeft      Buttons = 0x0004
	ButtonDPadRight     Buttons = 0x0008
	ButtonStart         Buttons = 0x0010
	ButtonBack          Buttons = 0x0020
	ButtonLeftThumb     Buttons = 0x0040
	ButtonRightThumb    Buttons = 0x0080
	ButtonLeftShoulder  Buttons = 0x0100
	ButtonRightShoulder Buttons = 0x0200
	ButtonGuide         Buttons = 0x0400
	ButtonA             Buttons = 0x1000
	ButtonB             Buttons = 0x2000
	ButtonX             Buttons = 0x4000
	ButtonY             Buttons = 0x8000
)

var buttonNames = []struct {
	bit  Buttons
	name string
}{
	{ButtonDPadUp, "up"},
	{ButtonDPadDown, "down"},
	{ButtonDPadLeft, "left"},
	{ButtonDPadRight, "right"},
	{ButtonStart, "start"},
	{ButtonBack, "back"},
	{ButtonLeftThumb, "l3"},
	{ButtonRightThumb, "r3"},
	{ButtonLeftShoulder, "lb"},
	{ButtonRightShoulder, "rb"},
	{ButtonGuide, "guide"},
	{ButtonA, "a"},
	{ButtonB, "b"},
	{ButtonX, "x"},
	{ButtonY, "y"},
}

// Has reports whether every bit of mask is set
func (b Buttons) Has(mask Buttons) bool {
	return b&mask == mask
}

func (b Buttons) String() string {
	if b == 0 {
		return "none"
	}
	var parts []string
	for _, bn := range buttonNames {
		if b&bn.bit != 0 {
			parts = append(parts, bn.name)
		}
	}
	return strings.Join(parts, "+")
}

// ParseButton maps a button name ("back", "lb", ...) to its bit
func ParseButton(name string) (Buttons, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "select", "view":
		name = "back"
	case "menu":
		name = "start"
	case "home", "ps", "xbox":
		name = "guide"
	}
	for _, bn := range buttonNames {
		if bn.name == name {
			return bn.bit, true
		}
	}
	return 0, false
}

// Stick axis indexes in RawInputSnapshot.Sticks
const (
	AxisLeftX = iota
	AxisLeftY
	AxisRightX
	AxisRightY
)

// RawInputSnapshot is the live state of one or more controllers at one instant
type RawInputSnapshot struct {
	Buttons   Buttons
	Sticks    [4]int16
	Triggers  [2]int16
	Timestamp time.Time
}

// MergeSnapshots OR-combines buttons across devices and keeps the axis values
// with the largest magnitude. The newest timestamp wins.
func MergeSnapshots(snaps ...RawInputSnapshot) RawInputSnapshot {
	var out RawInputSnapshot
	for _, s := range snaps {
		out.Buttons |= s.Buttons
		for i, v := range s.Sticks {
			if abs16(v) > abs16(out.Sticks[i]) {
				out.Sticks[i] = v
			}
		}
		for i, v := range s.Triggers {
			if v > out.Triggers[i] {
				out.Triggers[i] = v
			}
		}
		if s.Timestamp.After(out.Timestamp) {
			out.Timestamp = s.Timestamp
		}
	}
	return out
}

func abs16(v int16) int32 {
	if v < 0 {
		return -int32(v)
	}
	return int32(v)
}
