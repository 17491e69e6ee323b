// Package notify shows desktop notifications for engine events
package notify

import (
	"fmt"

	"github.com/bnema/padwatch/internal/engine"
	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"
)

// Notifier is an engine subscriber. It runs on the dispatcher goroutine, so a
// slow notification daemon delays later events but never the polling loops.
type Notifier struct {
	logger  *log.Logger
	desktop bool
	sound   bool

	notify func(title, message string) error
	beep   func() error
}

// New creates a notifier. desktop enables connection popups and sound
// enables a short beep on every hotkey.
func New(desktop, sound bool, logger *log.Logger) *Notifier {
	beeep.AppName = "padwatch"
	return &Notifier{
		logger:  logger,
		desktop: desktop,
		sound:   sound,
		notify: func(title, message string) error {
			return beeep.Notify(title, message, "")
		},
		beep: func() error {
			return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration/3)
		},
	}
}

// Enabled reports whether the notifier would do anything
func (n *Notifier) Enabled() bool {
	return n.desktop || n.sound
}

// Handle is an engine.Handler
func (n *Notifier) Handle(ev engine.Event) {
	switch e := ev.(type) {
	case engine.ConnectionDetected:
		if !n.desktop {
			return
		}
		msg := fmt.Sprintf("%s (%s)", e.Identity.DisplayName, e.Identity.ConnectionKind)
		if err := n.notify("Controller connected", msg); err != nil {
			n.logger.Warn("Desktop notification failed", "err", err)
		}
	case engine.HotkeyFired:
		if !n.sound {
			return
		}
		if err := n.beep(); err != nil {
			n.logger.Debug("Beep failed", "err", err)
		}
	}
}
