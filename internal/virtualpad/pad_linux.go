//go:build linux

package virtualpad

import (
	"context"
	"fmt"
	"time"

	"github.com/ThomasT75/uinput"
	"github.com/bnema/padwatch/internal/input"
	"github.com/charmbracelet/log"
)

// DevicePath is the uinput control node
const DevicePath = "/dev/uinput"

// The virtual pad reports itself as an Xbox 360 controller so every
// detection source recognizes it.
const (
	vendorID  = 0x045e
	productID = 0x028e
)

// Pad is a uinput gamepad
type Pad struct {
	gp     uinput.Gamepad
	logger *log.Logger
}

// Create registers a new virtual gamepad named name
func Create(name string, logger *log.Logger) (*Pad, error) {
	gp, err := uinput.CreateGamepad(DevicePath, []byte(name), vendorID, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to create virtual gamepad (is %s writable?): %w", DevicePath, err)
	}
	logger.Debug("Virtual gamepad created", "name", name)
	return &Pad{gp: gp, logger: logger}, nil
}

// Hold presses every button in b, keeps them down for d (or until ctx is
// done) and releases them in reverse order.
func (p *Pad) Hold(ctx context.Context, b input.Buttons, d time.Duration) error {
	codes := Codes(b)
	if len(codes) == 0 {
		return fmt.Errorf("no buttons to press")
	}

	pressed := make([]int, 0, len(codes))
	defer func() {
		for i := len(pressed) - 1; i >= 0; i-- {
			if err := p.gp.ButtonUp(pressed[i]); err != nil {
				p.logger.Warn("Failed to release button", "code", pressed[i], "err", err)
			}
		}
	}()

	for _, code := range codes {
		if err := p.gp.ButtonDown(code); err != nil {
			return fmt.Errorf("failed to press button 0x%x: %w", code, err)
		}
		pressed = append(pressed, code)
	}
	p.logger.Debug("Holding buttons", "buttons", b, "duration", d)

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Close removes the virtual device
func (p *Pad) Close() error {
	return p.gp.Close()
}
