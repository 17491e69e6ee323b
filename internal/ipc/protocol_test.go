package ipc

import (
	"bytes"
	"encoding/binary"
	"testing"
	"time"

	"github.com/bnema/padwatch/internal/engine"
	"github.com/bnema/padwatch/internal/hotkey"
	"github.com/bnema/padwatch/internal/input"
)

type unknownEvent struct{}

func (unknownEvent) Kind() string    { return "unknown" }
func (unknownEvent) Time() time.Time { return time.Time{} }

func TestEncodeEvent(t *testing.T) {
	at := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	msg, err := EncodeEvent(engine.ConnectionDetected{
		Identity:  input.DeviceIdentity{DisplayName: "Pad", ConnectionKind: input.ConnectionUSB},
		SourceAPI: input.SourceHID,
		At:        at,
	})
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}
	m := msg.AsMap()
	if m["time"] != "2026-04-01T10:00:00Z" {
		t.Errorf("Unexpected time %v", m["time"])
	}
	identity := m["identity"].(map[string]any)
	if _, ok := identity["vendor_id"]; ok {
		t.Error("vendor_id must be omitted when unknown")
	}
	if identity["connection"] != "usb" {
		t.Errorf("Expected usb connection, got %v", identity["connection"])
	}

	msg, err = EncodeEvent(engine.HotkeyFired{Combination: hotkey.ComboShouldersStart, At: at})
	if err != nil {
		t.Fatalf("EncodeEvent() error = %v", err)
	}
	if msg.AsMap()["combination"] != "lb+rb+start" {
		t.Errorf("Unexpected combination %v", msg.AsMap()["combination"])
	}

	if _, err := EncodeEvent(unknownEvent{}); err == nil {
		t.Error("Expected error for unknown event type")
	}
}

func TestFrameRoundTrip(t *testing.T) {
	hello, err := NewHello("1.2.3")
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := writeFrame(&buf, hello); err != nil {
		t.Fatalf("writeFrame() error = %v", err)
	}
	if got := binary.BigEndian.Uint32(buf.Bytes()[:4]); int(got) != buf.Len()-4 {
		t.Errorf("Length prefix %d does not match payload %d", got, buf.Len()-4)
	}

	msg, err := readFrame(&buf)
	if err != nil {
		t.Fatalf("readFrame() error = %v", err)
	}
	if msg.Fields["version"].GetStringValue() != "1.2.3" {
		t.Errorf("Unexpected version %v", msg.Fields["version"])
	}
}

func TestReadFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.BigEndian, uint32(maxFrameSize+1))
	if _, err := readFrame(&buf); err == nil {
		t.Error("Expected error for oversized frame")
	}
}
