package lifecycle

import (
	"errors"

	"github.com/bnema/padwatch/internal/input"
	"github.com/charmbracelet/log"
)

// GameControllerAdapter exposes the manager as an input adapter. It sits in
// the cached tier for connection queries and is the live snapshot source for
// hotkeys.
type GameControllerAdapter struct {
	m      *Manager
	logger *log.Logger
}

// NewAdapter wraps m. It does not own m's teardown.
func NewAdapter(m *Manager, logger *log.Logger) *GameControllerAdapter {
	return &GameControllerAdapter{m: m, logger: logger}
}

func (a *GameControllerAdapter) Source() input.SourceAPI { return input.SourceGameController }

// Available initializes the subsystem on first use. A lock timeout counts as
// available so the caller's query reports Unavailable for this tick only.
func (a *GameControllerAdapter) Available() bool {
	err := a.m.Initialize()
	return err == nil || errors.Is(err, ErrUnavailable)
}

func (a *GameControllerAdapter) Probe() bool {
	return len(a.Enumerate()) > 0
}

// Query answers in one pass and maps lock contention to Unavailable
func (a *GameControllerAdapter) Query() input.AdapterResult {
	ids, err := a.identities()
	if err != nil {
		return input.UnavailableResult(err)
	}
	if len(ids) == 0 {
		return input.NotConnectedResult()
	}
	return input.ConnectedResult(ids[0])
}

func (a *GameControllerAdapter) Enumerate() []input.DeviceIdentity {
	ids, err := a.identities()
	if err != nil {
		a.logger.Debug("Game controller enumeration skipped", "err", err)
	}
	return ids
}

func (a *GameControllerAdapter) identities() ([]input.DeviceIdentity, error) {
	devs, err := a.m.Devices()
	if err != nil {
		return nil, err
	}

	ids := make([]input.DeviceIdentity, 0, len(devs))
	for _, dev := range devs {
		id, ok := input.IdentifyDevice(dev, input.SourceGameController)
		if !ok {
			// The library already mapped it as a controller; trust that over
			// our name heuristics.
			id = input.DeviceIdentity{
				DisplayName:    fallbackName(dev.Name),
				ConnectionKind: input.InferConnectionKind(dev),
				SourceAPI:      input.SourceGameController,
			}
			if dev.VendorID != 0 || dev.ProductID != 0 {
				vid, pid := dev.VendorID, dev.ProductID
				id.VendorID, id.ProductID = &vid, &pid
			}
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ReadSnapshot reads the open controller's live state
func (a *GameControllerAdapter) ReadSnapshot() (input.RawInputSnapshot, bool) {
	snap, err := a.m.ReadSnapshot()
	if err != nil {
		if !errors.Is(err, ErrNoDevice) && !errors.Is(err, ErrUnavailable) {
			a.logger.Debug("Snapshot read failed", "err", err)
		}
		return input.RawInputSnapshot{}, false
	}
	return snap, true
}

func fallbackName(name string) string {
	if name == "" {
		return "Game Controller"
	}
	return name
}
