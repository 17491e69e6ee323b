package input

import (
	"testing"

	"github.com/bnema/padwatch/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHIDAdapter(devs []RawDevice, panicAfter int) *HIDAdapter {
	return &HIDAdapter{
		logger:    logger.Discard(),
		supported: func() bool { return true },
		enumerate: func(visit func(RawDevice)) {
			for i, d := range devs {
				if panicAfter >= 0 && i == panicAfter {
					panic("device vanished")
				}
				visit(d)
			}
		},
	}
}

func TestHIDAdapterEnumerate(t *testing.T) {
	devs := []RawDevice{
		{Name: "Sony Wireless Controller", VendorID: 0x054c, ProductID: 0x09cc, UsagePage: 0x01, Usage: 0x05},
		{Name: "Sony Wireless Controller", VendorID: 0x054c, ProductID: 0x09cc, UsagePage: 0xff00, Usage: 0x01},
		{Name: "Logitech USB Receiver", VendorID: 0x046d, ProductID: 0xc52b, UsagePage: 0x01, Usage: 0x06},
		{Name: "Thrustmaster T.16000M", VendorID: 0x044f, ProductID: 0xb10a, UsagePage: 0x01, Usage: 0x04},
	}

	h := newTestHIDAdapter(devs, -1)
	ids := h.Enumerate()
	require.Len(t, ids, 2, "duplicate collections collapse and the receiver is not a controller")
	assert.Equal(t, "DualShock 4", ids[0].DisplayName)
	assert.Equal(t, "Thrustmaster T.16000M", ids[1].DisplayName)

	res := h.Query()
	require.True(t, res.IsConnected())
	assert.Equal(t, SourceHID, res.Identity.SourceAPI)
}

func TestHIDAdapterPartialEnumeration(t *testing.T) {
	devs := []RawDevice{
		{Name: "Xbox Controller", VendorID: 0x045e, ProductID: 0x02ea},
		{Name: "8BitDo Pro 2", VendorID: 0x2dc8, ProductID: 0x3106},
		{Name: "never reached", VendorID: 0x054c, ProductID: 0x0ce6},
	}

	h := newTestHIDAdapter(devs, 2)
	ids := h.Enumerate()
	require.Len(t, ids, 2)
	assert.Equal(t, "Xbox One S Controller", ids[0].DisplayName)
	assert.Equal(t, "8BitDo Pro 2", ids[1].DisplayName)
}

func TestHIDAdapterNothingConnected(t *testing.T) {
	h := newTestHIDAdapter(nil, -1)
	assert.False(t, h.Probe())
	assert.Equal(t, NotConnected, h.Query().Kind)
}
