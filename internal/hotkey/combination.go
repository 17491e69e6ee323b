// Package hotkey detects the configured button combination on a stream of
// controller snapshots.
package hotkey

import (
	"fmt"
	"strings"

	"github.com/bnema/padwatch/internal/input"
)

// Combination is one of the supported hotkey button sets
type Combination int

const (
	ComboBackStart Combination = iota
	ComboGuide
	ComboShoulders
	ComboThumbs
	ComboBackGuide
	ComboShouldersStart
)

var combinations = []struct {
	combo Combination
	name  string
	mask  input.Buttons
}{
	{ComboBackStart, "back+start", input.ButtonBack | input.ButtonStart},
	{ComboGuide, "guide", input.ButtonGuide},
	{ComboShoulders, "lb+rb", input.ButtonLeftShoulder | input.ButtonRightShoulder},
	{ComboThumbs, "l3+r3", input.ButtonLeftThumb | input.ButtonRightThumb},
	{ComboBackGuide, "back+guide", input.ButtonBack | input.ButtonGuide},
	{ComboShouldersStart, "lb+rb+start", input.ButtonLeftShoulder | input.ButtonRightShoulder | input.ButtonStart},
}

// Mask returns the buttons that must all be held
func (c Combination) Mask() input.Buttons {
	for _, e := range combinations {
		if e.combo == c {
			return e.mask
		}
	}
	return 0
}

func (c Combination) String() string {
	for _, e := range combinations {
		if e.combo == c {
			return e.name
		}
	}
	return fmt.Sprintf("combination(%d)", int(c))
}

// HeldIn reports whether every required button is down in b. Extra buttons
// do not matter.
func (c Combination) HeldIn(b input.Buttons) bool {
	mask := c.Mask()
	return mask != 0 && b.Has(mask)
}

// Combinations lists every supported combination name
func Combinations() []string {
	names := make([]string, len(combinations))
	for i, e := range combinations {
		names[i] = e.name
	}
	return names
}

// ParseCombination accepts a combination name with buttons in any order and
// any of the button aliases ParseButton knows, e.g. "start+select".
func ParseCombination(s string) (Combination, error) {
	var mask input.Buttons
	for _, part := range strings.Split(s, "+") {
		b, ok := input.ParseButton(part)
		if !ok {
			return 0, fmt.Errorf("unknown button %q in combination %q", strings.TrimSpace(part), s)
		}
		mask |= b
	}
	for _, e := range combinations {
		if e.mask == mask {
			return e.combo, nil
		}
	}
	return 0, fmt.Errorf("unsupported combination %q (supported: %s)", s, strings.Join(Combinations(), ", "))
}
