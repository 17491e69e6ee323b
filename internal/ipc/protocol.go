package ipc

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/bnema/padwatch/internal/engine"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// maxFrameSize bounds a single frame; event frames are a few hundred bytes
const maxFrameSize = 64 * 1024

// Frame kinds besides the engine event kinds
const (
	KindHello = "hello"
)

// EncodeEvent converts an engine event into its wire form
func EncodeEvent(ev engine.Event) (*structpb.Struct, error) {
	fields := map[string]any{
		"kind": ev.Kind(),
		"time": ev.Time().Format(time.RFC3339Nano),
	}

	switch e := ev.(type) {
	case engine.ConnectionDetected:
		identity := map[string]any{
			"name":       e.Identity.DisplayName,
			"connection": e.Identity.ConnectionKind.String(),
		}
		if e.Identity.HasIDs() {
			identity["vendor_id"] = int(*e.Identity.VendorID)
			identity["product_id"] = int(*e.Identity.ProductID)
		}
		fields["source"] = e.SourceAPI.String()
		fields["identity"] = identity
	case engine.HotkeyFired:
		fields["combination"] = e.Combination.String()
	default:
		return nil, fmt.Errorf("unknown event type %T", ev)
	}

	return structpb.NewStruct(fields)
}

// NewHello is the first frame every subscriber receives
func NewHello(version string) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"kind":    KindHello,
		"version": version,
		"time":    time.Now().Format(time.RFC3339Nano),
	})
}

// writeFrame writes a length-prefixed protobuf message
func writeFrame(w io.Writer, msg proto.Message) error {
	data, err := proto.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	// Message length (4 bytes, big endian) followed by the data
	buf := make([]byte, 4+len(data))
	binary.BigEndian.PutUint32(buf, uint32(len(data)))
	copy(buf[4:], data)

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return nil
}

// readFrame reads one length-prefixed frame into a Struct
func readFrame(r io.Reader) (*structpb.Struct, error) {
	var length uint32
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, fmt.Errorf("failed to read message length: %w", err)
	}
	if length > maxFrameSize {
		return nil, fmt.Errorf("frame too large: %d bytes", length)
	}

	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("failed to read message data: %w", err)
	}

	var msg structpb.Struct
	if err := proto.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &msg, nil
}
