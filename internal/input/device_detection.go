package input

import (
	"strings"
)

// RawDevice is what an enumeration API tells us about one device before we
// decide whether it is a game controller.
type RawDevice struct {
	Name      string
	Path      string
	VendorID  uint16
	ProductID uint16

	// HID usage page/usage, zero when the API does not report them
	UsagePage uint16
	Usage     uint16

	// Linux input bus type, zero when unknown
	BusType uint16
}

// HID generic desktop usages for game controllers
const (
	usagePageGenericDesktop = 0x01
	usageJoystick           = 0x04
	usageGamepad            = 0x05
	usageMultiAxis          = 0x08
)

// Linux input bus types (linux/input.h)
const (
	busUSB       = 0x03
	busBluetooth = 0x05
	busVirtual   = 0x06
)

// knownControllers maps vendor -> product -> display name
var knownControllers = map[uint16]map[uint16]string{
	0x045e: { // Microsoft
		0x028e: "Xbox 360 Controller",
		0x028f: "Xbox 360 Wireless Controller",
		0x02d1: "Xbox One Controller",
		0x02dd: "Xbox One Controller",
		0x02e0: "Xbox Wireless Controller",
		0x02ea: "Xbox One S Controller",
		0x02fd: "Xbox Wireless Controller",
		0x0b00: "Xbox Elite Series 2",
		0x0b05: "Xbox Elite Series 2",
		0x0b12: "Xbox Series X|S Controller",
		0x0b13: "Xbox Wireless Controller",
		0x0b20: "Xbox Wireless Controller",
	},
	0x054c: { // Sony
		0x0268: "DualShock 3",
		0x05c4: "DualShock 4",
		0x09cc: "DualShock 4",
		0x0ce6: "DualSense Wireless Controller",
		0x0df2: "DualSense Edge",
	},
	0x057e: { // Nintendo
		0x2006: "Joy-Con (L)",
		0x2007: "Joy-Con (R)",
		0x2009: "Switch Pro Controller",
	},
	0x046d: { // Logitech
		0xc216: "Logitech Dual Action",
		0xc21d: "Logitech F310",
		0xc21e: "Logitech F510",
		0xc21f: "Logitech F710",
	},
	0x28de: { // Valve
		0x1102: "Steam Controller",
		0x1142: "Steam Controller",
		0x1205: "Steam Deck",
	},
	0x2dc8: { // 8BitDo
		0x3106: "8BitDo Pro 2",
		0x6001: "8BitDo SN30 Pro",
		0x6101: "8BitDo SN30 Pro+",
	},
	0x0f0d: { // Hori
		0x0092: "HORI Pokken Controller",
		0x00c1: "HORIPAD for Nintendo Switch",
	},
}

// knownNonControllers are receivers, adaptors and grips that enumerate
// whether or not a controller is paired or docked. Their names match the
// controller patterns, so they are rejected by ID before any other check.
var knownNonControllers = map[uint16]map[uint16]bool{
	0x045e: {0x0719: true}, // Xbox 360 Wireless Receiver
	0x054c: {0x0ba0: true}, // DualShock 4 USB Wireless Adaptor
	0x057e: {0x200e: true}, // Joy-Con Charging Grip
}

// Name patterns that identify a controller when the IDs are unknown
var controllerPatterns = []string{
	"xbox",
	"x-box",
	"dualshock",
	"dualsense",
	"wireless controller",
	"pro controller",
	"joy-con",
	"gamepad",
	"game pad",
	"game controller",
	"joystick",
	"8bitdo",
	"xinput",
}

// Devices whose names contain these are never controllers, even if a pattern
// above matched (e.g. "Xbox Wireless Headset").
var excludedPatterns = []string{
	"headset",
	"keyboard",
	"mouse",
	"touchpad",
	"motion sensors",
	"consumer control",
}

// Path markers for link inference, checked in order
var bluetoothMarkers = []string{
	"00001124-0000-1000-8000-00805f9b34fb", // HID over Bluetooth service class
	"bthenum",
	"bthledevice",
	"bth",
	"bluetooth",
}

var usbMarkers = []string{
	"usb#",
	"usb-",
	"/usb",
	"hid#vid_",
	"&col",
}

// LookupKnown returns the display name of a vendor/product pair from the
// built-in table.
func LookupKnown(vendorID, productID uint16) (string, bool) {
	products, ok := knownControllers[vendorID]
	if !ok {
		return "", false
	}
	name, ok := products[productID]
	return name, ok
}

// MatchesControllerPattern checks if a device name matches the controller name patterns
func MatchesControllerPattern(name string) bool {
	if isExcluded(name) {
		return false
	}
	nameLower := strings.ToLower(name)
	for _, keyword := range controllerPatterns {
		if strings.Contains(nameLower, keyword) {
			return true
		}
	}
	return false
}

func isExcluded(name string) bool {
	nameLower := strings.ToLower(name)
	for _, ex := range excludedPatterns {
		if strings.Contains(nameLower, ex) {
			return true
		}
	}
	return false
}

// InferConnectionKind guesses the physical link from path markers, the bus
// type and finally the name.
func InferConnectionKind(dev RawDevice) ConnectionKind {
	switch dev.BusType {
	case busBluetooth:
		return ConnectionBluetooth
	case busUSB:
		return ConnectionUSB
	}

	pathLower := strings.ToLower(dev.Path)
	for _, m := range bluetoothMarkers {
		if strings.Contains(pathLower, m) {
			return ConnectionBluetooth
		}
	}
	for _, m := range usbMarkers {
		if strings.Contains(pathLower, m) {
			return ConnectionUSB
		}
	}

	if strings.Contains(strings.ToLower(dev.Name), "wireless") {
		return ConnectionWireless
	}
	return ConnectionUnknown
}

// IdentifyDevice applies the layered heuristic: exact ID table, then name
// patterns, then declared HID gamepad usage. Anything else is not treated as a
// controller; a missed controller is preferable to a false one.
func IdentifyDevice(dev RawDevice, source SourceAPI) (DeviceIdentity, bool) {
	id := DeviceIdentity{
		ConnectionKind: InferConnectionKind(dev),
		SourceAPI:      source,
	}
	if dev.VendorID != 0 || dev.ProductID != 0 {
		id.VendorID = u16(dev.VendorID)
		id.ProductID = u16(dev.ProductID)
	}

	// Composite devices expose keyboard/mouse/sensor interfaces under the
	// same IDs; those siblings are not the controller.
	if isExcluded(dev.Name) || knownNonControllers[dev.VendorID][dev.ProductID] {
		return DeviceIdentity{}, false
	}

	if name, ok := LookupKnown(dev.VendorID, dev.ProductID); ok {
		id.DisplayName = name
		return id, true
	}

	if dev.BusType == busVirtual && !MatchesControllerPattern(dev.Name) {
		return DeviceIdentity{}, false
	}

	if MatchesControllerPattern(dev.Name) {
		id.DisplayName = cleanDeviceName(dev.Name)
		return id, true
	}

	if dev.UsagePage == usagePageGenericDesktop &&
		(dev.Usage == usageJoystick || dev.Usage == usageGamepad || dev.Usage == usageMultiAxis) {
		id.DisplayName = cleanDeviceName(dev.Name)
		if id.DisplayName == "" {
			id.DisplayName = "HID Game Controller"
		}
		return id, true
	}

	return DeviceIdentity{}, false
}

// cleanDeviceName removes common prefixes/suffixes for cleaner display
func cleanDeviceName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "usb-")
	name = strings.TrimSuffix(name, "-event-joystick")
	name = strings.TrimSuffix(name, "-joystick")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.TrimSpace(name)
}
