package tracker

import (
	"fmt"
	"strings"
)

// TriggerMode selects which sources can raise a connection event and whether
// they are watched continuously or only once at startup.
type TriggerMode int

const (
	ModeDisabled TriggerMode = iota
	// ModeXInput watches the fast tier continuously
	ModeXInput
	// ModeAny watches every source continuously
	ModeAny
	// ModeStartupXInput checks the fast tier once, right after start
	ModeStartupXInput
	// ModeStartupAny checks every source once, right after start
	ModeStartupAny
)

var modeNames = map[TriggerMode]string{
	ModeDisabled:      "disabled",
	ModeXInput:        "xinput",
	ModeAny:           "any",
	ModeStartupXInput: "startup-xinput",
	ModeStartupAny:    "startup-any",
}

func (m TriggerMode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// IsStartup reports whether the mode is evaluated only once
func (m TriggerMode) IsStartup() bool {
	return m == ModeStartupXInput || m == ModeStartupAny
}

// IncludesEnumerated reports whether enumeration-tier sources are relevant
func (m TriggerMode) IncludesEnumerated() bool {
	return m == ModeAny || m == ModeStartupAny
}

// ParseTriggerMode accepts the names printed by String. "fast" and
// "startup-fast" are accepted as aliases for the xinput modes.
func ParseTriggerMode(s string) (TriggerMode, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "fast":
		return ModeXInput, nil
	case "startup-fast":
		return ModeStartupXInput, nil
	case "", "off", "none":
		return ModeDisabled, nil
	}
	for mode, n := range modeNames {
		if n == name {
			return mode, nil
		}
	}
	return ModeDisabled, fmt.Errorf("unknown trigger mode %q", s)
}
