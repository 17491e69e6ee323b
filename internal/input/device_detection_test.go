package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifyDevice(t *testing.T) {
	tests := []struct {
		name     string
		dev      RawDevice
		wantOK   bool
		wantName string
		wantKind ConnectionKind
	}{
		{
			name:     "known Xbox pad by ID over USB path",
			dev:      RawDevice{Name: "Controller", Path: `\\?\hid#vid_045e&pid_028e#7&1`, VendorID: 0x045e, ProductID: 0x028e},
			wantOK:   true,
			wantName: "Xbox 360 Controller",
			wantKind: ConnectionUSB,
		},
		{
			name:     "DualSense over Bluetooth path marker",
			dev:      RawDevice{Name: "Wireless Controller", Path: `\\?\hid#{00001124-0000-1000-8000-00805f9b34fb}_vid&0002054c`, VendorID: 0x054c, ProductID: 0x0ce6},
			wantOK:   true,
			wantName: "DualSense Wireless Controller",
			wantKind: ConnectionBluetooth,
		},
		{
			name:     "unknown IDs but controller name",
			dev:      RawDevice{Name: "Generic USB Gamepad", VendorID: 0x1234, ProductID: 0x5678},
			wantOK:   true,
			wantName: "Generic USB Gamepad",
			wantKind: ConnectionUnknown,
		},
		{
			name:     "wireless name without markers",
			dev:      RawDevice{Name: "Wireless Controller"},
			wantOK:   true,
			wantName: "Wireless Controller",
			wantKind: ConnectionWireless,
		},
		{
			name:     "generic HID joystick by usage",
			dev:      RawDevice{Name: "", UsagePage: 0x01, Usage: 0x04},
			wantOK:   true,
			wantName: "HID Game Controller",
		},
		{
			name:   "keyboard with controller vendor",
			dev:    RawDevice{Name: "Valve Steam Controller Keyboard", VendorID: 0x28de, ProductID: 0x1142},
			wantOK: false,
		},
		{
			name:   "DualSense motion sensors node",
			dev:    RawDevice{Name: "DualSense Wireless Controller Motion Sensors", VendorID: 0x054c, ProductID: 0x0ce6},
			wantOK: false,
		},
		{
			name:   "Xbox headset",
			dev:    RawDevice{Name: "Xbox Wireless Headset"},
			wantOK: false,
		},
		{
			name:   "Xbox 360 wireless receiver without a pad",
			dev:    RawDevice{Name: "Xbox 360 Wireless Receiver for Windows", VendorID: 0x045e, ProductID: 0x0719, UsagePage: 0x01, Usage: 0x05},
			wantOK: false,
		},
		{
			name:   "DualShock 4 wireless adaptor",
			dev:    RawDevice{Name: "Sony Interactive Entertainment DUALSHOCK 4 USB Wireless Adaptor", VendorID: 0x054c, ProductID: 0x0ba0, UsagePage: 0x01, Usage: 0x05},
			wantOK: false,
		},
		{
			name:   "Joy-Con charging grip",
			dev:    RawDevice{Name: "Nintendo Joy-Con Charging Grip", VendorID: 0x057e, ProductID: 0x200e, UsagePage: 0x01, Usage: 0x04},
			wantOK: false,
		},
		{
			name:   "plain mouse",
			dev:    RawDevice{Name: "Logitech USB Receiver", VendorID: 0x046d, ProductID: 0xc52b, UsagePage: 0x01, Usage: 0x02},
			wantOK: false,
		},
		{
			name:   "virtual device without controller name",
			dev:    RawDevice{Name: "ydotoold virtual device", BusType: busVirtual, UsagePage: 0x01, Usage: 0x05},
			wantOK: false,
		},
		{
			name:     "bus type wins over path",
			dev:      RawDevice{Name: "Xbox Wireless Controller", Path: "usb-0000:00:14.0-2", BusType: busBluetooth},
			wantOK:   true,
			wantName: "Xbox Wireless Controller",
			wantKind: ConnectionBluetooth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := IdentifyDevice(tt.dev, SourceHID)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantName, id.DisplayName)
			assert.Equal(t, tt.wantKind, id.ConnectionKind)
			assert.Equal(t, SourceHID, id.SourceAPI)
		})
	}
}

func TestIdentifyDeviceIDs(t *testing.T) {
	id, ok := IdentifyDevice(RawDevice{VendorID: 0x057e, ProductID: 0x2009}, SourceGameController)
	require.True(t, ok)
	require.True(t, id.HasIDs())
	assert.Equal(t, uint16(0x057e), *id.VendorID)
	assert.Equal(t, uint16(0x2009), *id.ProductID)
	assert.Contains(t, id.String(), "057e:2009")

	id, ok = IdentifyDevice(RawDevice{Name: "Some Joystick"}, SourceJoystick)
	require.True(t, ok)
	assert.False(t, id.HasIDs())
}

func TestLookupKnown(t *testing.T) {
	name, ok := LookupKnown(0x054c, 0x05c4)
	assert.True(t, ok)
	assert.Equal(t, "DualShock 4", name)

	_, ok = LookupKnown(0x054c, 0xffff)
	assert.False(t, ok)

	_, ok = LookupKnown(0xdead, 0x0001)
	assert.False(t, ok)
}

func TestCleanDeviceName(t *testing.T) {
	assert.Equal(t, "Microsoft X-Box 360 pad", cleanDeviceName("usb-Microsoft_X-Box_360_pad-joystick"))
	assert.Equal(t, "Pad", cleanDeviceName("  Pad  "))
}
