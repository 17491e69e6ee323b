// Package virtualpad creates a virtual gamepad for end-to-end checks of the
// detection and hotkey paths.
package virtualpad

import (
	"github.com/bnema/padwatch/internal/input"
)

// Key codes from linux/input-event-codes.h
const (
	btnSouth     = 0x130
	btnEast      = 0x131
	btnNorth     = 0x133
	btnWest      = 0x134
	btnTL        = 0x136
	btnTR        = 0x137
	btnSelect    = 0x13a
	btnStart     = 0x13b
	btnMode      = 0x13c
	btnThumbL    = 0x13d
	btnThumbR    = 0x13e
	btnDpadUp    = 0x220
	btnDpadDown  = 0x221
	btnDpadLeft  = 0x222
	btnDpadRight = 0x223
)

var keyCodes = []struct {
	mask input.Buttons
	code int
}{
	{input.ButtonA, btnSouth},
	{input.ButtonB, btnEast},
	{input.ButtonX, btnWest},
	{input.ButtonY, btnNorth},
	{input.ButtonLeftShoulder, btnTL},
	{input.ButtonRightShoulder, btnTR},
	{input.ButtonBack, btnSelect},
	{input.ButtonStart, btnStart},
	{input.ButtonGuide, btnMode},
	{input.ButtonLeftThumb, btnThumbL},
	{input.ButtonRightThumb, btnThumbR},
	{input.ButtonDPadUp, btnDpadUp},
	{input.ButtonDPadDown, btnDpadDown},
	{input.ButtonDPadLeft, btnDpadLeft},
	{input.ButtonDPadRight, btnDpadRight},
}

// Codes returns the evdev key codes for every button set in b
func Codes(b input.Buttons) []int {
	var codes []int
	for _, k := range keyCodes {
		if b.Has(k.mask) {
			codes = append(codes, k.code)
		}
	}
	return codes
}
