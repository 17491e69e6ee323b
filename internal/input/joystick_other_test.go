//go:build !windows

package input

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bnema/padwatch/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeJoystickTree lays out /dev/input and /sys/class/input lookalikes
func fakeJoystickTree(t *testing.T, nodes map[string]map[string]string) *JoystickAdapter {
	t.Helper()
	root := t.TempDir()
	devDir := filepath.Join(root, "dev", "input")
	sysDir := filepath.Join(root, "sys", "class", "input")
	require.NoError(t, os.MkdirAll(devDir, 0755))

	for node, attrs := range nodes {
		require.NoError(t, os.WriteFile(filepath.Join(devDir, node), nil, 0644))
		for attr, value := range attrs {
			p := filepath.Join(sysDir, node, "device", attr)
			require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
			require.NoError(t, os.WriteFile(p, []byte(value+"\n"), 0644))
		}
	}
	// event nodes are ignored by the joystick adapter
	require.NoError(t, os.WriteFile(filepath.Join(devDir, "event3"), nil, 0644))

	return &JoystickAdapter{logger: logger.Discard(), inputDir: devDir, sysDir: sysDir}
}

func TestJoystickAdapterEnumerate(t *testing.T) {
	j := fakeJoystickTree(t, map[string]map[string]string{
		"js0": {
			"name":       "Microsoft X-Box 360 pad",
			"phys":       "usb-0000:00:14.0-2/input0",
			"id/vendor":  "045e",
			"id/product": "028e",
			"id/bustype": "0003",
		},
		"js1": {
			"name":       "Sony Interactive Entertainment Wireless Controller Motion Sensors",
			"id/vendor":  "054c",
			"id/product": "09cc",
		},
	})

	require.True(t, j.Available())

	ids := j.Enumerate()
	require.Len(t, ids, 1)
	assert.Equal(t, "Xbox 360 Controller", ids[0].DisplayName)
	assert.Equal(t, ConnectionUSB, ids[0].ConnectionKind)
	assert.Equal(t, SourceJoystick, ids[0].SourceAPI)

	assert.True(t, j.Probe())
	assert.True(t, j.Query().IsConnected())
}

func TestJoystickAdapterNoNodes(t *testing.T) {
	j := fakeJoystickTree(t, nil)
	assert.False(t, j.Probe())
	assert.Equal(t, NotConnected, j.Query().Kind)
}

func TestJoystickAdapterMissingDir(t *testing.T) {
	j := &JoystickAdapter{logger: logger.Discard(), inputDir: "/nonexistent/input", sysDir: "/nonexistent/sys"}
	assert.False(t, j.Available())
	assert.Empty(t, j.Enumerate())
}

func TestReadHexAttr(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "vendor")
	require.NoError(t, os.WriteFile(p, []byte("054c\n"), 0644))
	assert.Equal(t, uint16(0x054c), readHexAttr(p))

	require.NoError(t, os.WriteFile(p, []byte("zz"), 0644))
	assert.Zero(t, readHexAttr(p))
	assert.Zero(t, readHexAttr(filepath.Join(dir, "missing")))
}
