package input

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/karalabe/hid"
)

// HIDAdapter walks the OS HID device list. This is the only way to see
// controllers that do not speak XInput (PlayStation pads, generic HID
// joysticks), and also the most expensive call we make.
type HIDAdapter struct {
	logger    *log.Logger
	supported func() bool
	enumerate func(visit func(RawDevice))
}

// NewHIDAdapter creates an adapter backed by hidapi
func NewHIDAdapter(logger *log.Logger) *HIDAdapter {
	return &HIDAdapter{
		logger:    logger,
		supported: hid.Supported,
		enumerate: enumerateHID,
	}
}

func enumerateHID(visit func(RawDevice)) {
	for _, info := range hid.Enumerate(0, 0) {
		name := info.Product
		if info.Manufacturer != "" && name != "" {
			name = info.Manufacturer + " " + name
		}
		visit(RawDevice{
			Name:      name,
			Path:      info.Path,
			VendorID:  info.VendorID,
			ProductID: info.ProductID,
			UsagePage: info.UsagePage,
			Usage:     info.Usage,
		})
	}
}

func (h *HIDAdapter) Source() SourceAPI { return SourceHID }

func (h *HIDAdapter) Available() bool { return h.supported() }

func (h *HIDAdapter) Probe() bool {
	return len(h.Enumerate()) > 0
}

// Query answers in one enumeration pass
func (h *HIDAdapter) Query() AdapterResult {
	ids := h.Enumerate()
	if len(ids) == 0 {
		return NotConnectedResult()
	}
	return ConnectedResult(ids[0])
}

// Enumerate lists controllers. A device that disappears mid-walk can make
// hidapi panic on some platforms; whatever was collected before that is kept.
func (h *HIDAdapter) Enumerate() (ids []DeviceIdentity) {
	seen := make(map[string]bool)

	defer func() {
		if r := recover(); r != nil {
			h.logger.Warn("HID enumeration aborted", "err", fmt.Sprint(r), "collected", len(ids))
		}
	}()

	h.enumerate(func(dev RawDevice) {
		id, ok := IdentifyDevice(dev, SourceHID)
		if !ok {
			return
		}
		// Composite pads expose one HID interface per collection
		key := fmt.Sprintf("%04x:%04x:%s", dev.VendorID, dev.ProductID, id.DisplayName)
		if seen[key] {
			return
		}
		seen[key] = true
		ids = append(ids, id)
	})
	return ids
}
