package notify

import (
	"errors"
	"testing"

	"github.com/bnema/padwatch/internal/engine"
	"github.com/bnema/padwatch/internal/hotkey"
	"github.com/bnema/padwatch/internal/input"
	"github.com/bnema/padwatch/internal/logger"
	"github.com/stretchr/testify/assert"
)

func newTestNotifier(desktop, sound bool) (*Notifier, *[]string, *int) {
	var popups []string
	beeps := 0
	n := New(desktop, sound, logger.Discard())
	n.notify = func(title, message string) error {
		popups = append(popups, title+": "+message)
		return nil
	}
	n.beep = func() error {
		beeps++
		return errors.New("no audio device")
	}
	return n, &popups, &beeps
}

func TestNotifierConnection(t *testing.T) {
	n, popups, beeps := newTestNotifier(true, false)
	n.Handle(engine.ConnectionDetected{
		Identity: input.DeviceIdentity{DisplayName: "DualShock 4", ConnectionKind: input.ConnectionBluetooth},
	})
	n.Handle(engine.HotkeyFired{Combination: hotkey.ComboGuide})

	assert.Equal(t, []string{"Controller connected: DualShock 4 (bluetooth)"}, *popups)
	assert.Zero(t, *beeps)
}

func TestNotifierSound(t *testing.T) {
	n, popups, beeps := newTestNotifier(false, true)
	n.Handle(engine.ConnectionDetected{})
	n.Handle(engine.HotkeyFired{})

	assert.Empty(t, *popups)
	assert.Equal(t, 1, *beeps, "beep errors are logged, not fatal")
}

func TestNotifierEnabled(t *testing.T) {
	assert.False(t, New(false, false, logger.Discard()).Enabled())
	assert.True(t, New(true, false, logger.Discard()).Enabled())
}
