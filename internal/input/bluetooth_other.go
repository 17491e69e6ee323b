//go:build !linux

package input

import (
	"github.com/charmbracelet/log"
)

// BluetoothAdapter is only implemented on Linux, where evdev exposes the bus
// type. Elsewhere Bluetooth pads are still seen by the HID and game
// controller sources.
type BluetoothAdapter struct {
	logger *log.Logger
}

// NewBluetoothAdapter creates an adapter that is never available
func NewBluetoothAdapter(logger *log.Logger) *BluetoothAdapter {
	return &BluetoothAdapter{logger: logger}
}

func (b *BluetoothAdapter) Source() SourceAPI { return SourceBluetooth }

func (b *BluetoothAdapter) Available() bool { return false }

func (b *BluetoothAdapter) Probe() bool { return false }

func (b *BluetoothAdapter) Enumerate() []DeviceIdentity { return nil }
