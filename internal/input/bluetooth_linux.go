//go:build linux

package input

import (
	"os"
	"slices"

	"github.com/charmbracelet/log"
	evdev "github.com/holoplot/go-evdev"
)

// BTN_GAMEPAD / BTN_SOUTH in linux/input-event-codes.h
const btnGamepad evdev.EvCode = 0x130

// BluetoothAdapter finds Bluetooth game controllers through evdev. It has to
// open every event node to read its bus type, so it sits in the cached tier.
type BluetoothAdapter struct {
	logger *log.Logger
	list   func(visit func(RawDevice)) error
}

// NewBluetoothAdapter creates an evdev-backed Bluetooth adapter
func NewBluetoothAdapter(logger *log.Logger) *BluetoothAdapter {
	b := &BluetoothAdapter{logger: logger}
	b.list = b.listEvdev
	return b
}

func (b *BluetoothAdapter) Source() SourceAPI { return SourceBluetooth }

func (b *BluetoothAdapter) Available() bool {
	_, err := os.Stat("/dev/input")
	return err == nil
}

func (b *BluetoothAdapter) Probe() bool {
	return len(b.Enumerate()) > 0
}

// Query answers in one enumeration pass
func (b *BluetoothAdapter) Query() AdapterResult {
	ids := b.Enumerate()
	if len(ids) == 0 {
		return NotConnectedResult()
	}
	return ConnectedResult(ids[0])
}

// Enumerate lists Bluetooth-attached controllers. Devices collected before a
// listing error are still returned.
func (b *BluetoothAdapter) Enumerate() []DeviceIdentity {
	var ids []DeviceIdentity
	err := b.list(func(dev RawDevice) {
		if dev.BusType != busBluetooth {
			return
		}
		if id, ok := IdentifyDevice(dev, SourceBluetooth); ok {
			ids = append(ids, id)
		}
	})
	if err != nil {
		b.logger.Warn("Bluetooth enumeration incomplete", "err", err, "collected", len(ids))
	}
	return ids
}

func (b *BluetoothAdapter) listEvdev(visit func(RawDevice)) error {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return err
	}

	for _, p := range paths {
		dev, err := evdev.Open(p.Path)
		if err != nil {
			b.logger.Debugf("Cannot open %s: %v", p.Path, err)
			continue
		}

		raw, ok := describeEvdev(dev, p)
		dev.Close()
		if ok {
			visit(raw)
		}
	}
	return nil
}

// describeEvdev reads identity fields and filters out devices without
// gamepad buttons.
func describeEvdev(dev *evdev.InputDevice, p evdev.InputPath) (RawDevice, bool) {
	types := dev.CapableTypes()
	if !slices.Contains(types, evdev.EV_KEY) || !slices.Contains(types, evdev.EV_ABS) {
		return RawDevice{}, false
	}
	if !slices.Contains(dev.CapableEvents(evdev.EV_KEY), btnGamepad) {
		return RawDevice{}, false
	}

	raw := RawDevice{Name: p.Name, Path: p.Path}
	if name, err := dev.Name(); err == nil && name != "" {
		raw.Name = name
	}
	if phys, err := dev.PhysicalLocation(); err == nil {
		raw.Path = p.Path + " " + phys
	}
	if id, err := dev.InputID(); err == nil {
		raw.BusType = id.BusType
		raw.VendorID = id.Vendor
		raw.ProductID = id.Product
	}
	return raw, true
}
