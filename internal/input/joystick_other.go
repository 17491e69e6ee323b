//go:build !windows

package input

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"
)

// JoystickAdapter is the fast source outside Windows. The kernel creates a
// jsN node for every joystick-class device; checking those nodes and their
// sysfs attributes needs no open handle.
type JoystickAdapter struct {
	logger   *log.Logger
	inputDir string
	sysDir   string
}

// NewFastAdapter returns the platform's handle-free adapter
func NewFastAdapter(logger *log.Logger) Adapter {
	return &JoystickAdapter{
		logger:   logger,
		inputDir: "/dev/input",
		sysDir:   "/sys/class/input",
	}
}

func (j *JoystickAdapter) Source() SourceAPI { return SourceJoystick }

func (j *JoystickAdapter) Available() bool {
	return unix.Access(j.inputDir, unix.R_OK|unix.X_OK) == nil
}

// Probe reports whether a joystick node that looks like a controller exists
func (j *JoystickAdapter) Probe() bool {
	return len(j.Enumerate()) > 0
}

// Query answers in one enumeration pass
func (j *JoystickAdapter) Query() AdapterResult {
	ids := j.Enumerate()
	if len(ids) == 0 {
		return NotConnectedResult()
	}
	return ConnectedResult(ids[0])
}

// Enumerate lists jsN nodes identified as controllers
func (j *JoystickAdapter) Enumerate() []DeviceIdentity {
	entries, err := os.ReadDir(j.inputDir)
	if err != nil {
		j.logger.Warnf("Failed to read input directory: %v", err)
		return nil
	}

	var ids []DeviceIdentity
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "js") {
			continue
		}
		dev := j.describe(entry.Name())
		if id, ok := IdentifyDevice(dev, SourceJoystick); ok {
			ids = append(ids, id)
		} else {
			j.logger.Debug("Skipping non-controller joystick node", "node", entry.Name(), "name", dev.Name)
		}
	}
	return ids
}

// describe reads name and IDs for a jsN node from sysfs
func (j *JoystickAdapter) describe(node string) RawDevice {
	sysPath := filepath.Join(j.sysDir, node, "device")
	dev := RawDevice{Path: filepath.Join(j.inputDir, node)}

	if data, err := os.ReadFile(filepath.Join(sysPath, "name")); err == nil {
		dev.Name = strings.TrimSpace(string(data))
	}
	if data, err := os.ReadFile(filepath.Join(sysPath, "phys")); err == nil {
		// phys looks like "usb-0000:00:14.0-2/input0" or a BT MAC
		dev.Path = dev.Path + " " + strings.TrimSpace(string(data))
	}
	dev.VendorID = readHexAttr(filepath.Join(sysPath, "id", "vendor"))
	dev.ProductID = readHexAttr(filepath.Join(sysPath, "id", "product"))
	dev.BusType = readHexAttr(filepath.Join(sysPath, "id", "bustype"))
	return dev
}

func readHexAttr(path string) uint16 {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	v, err := strconv.ParseUint(strings.TrimSpace(string(data)), 16, 16)
	if err != nil {
		return 0
	}
	return uint16(v)
}
