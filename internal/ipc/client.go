package ipc

import (
	"context"
	"fmt"
	"net"
	"time"

	"google.golang.org/protobuf/types/known/structpb"
)

// Client reads the event stream of a running padwatch instance
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for socketPath
func NewClient(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    2 * time.Second,
	}
}

// Listen connects and calls fn for every frame until ctx is done or the
// server goes away. The hello frame is delivered like any other.
func (c *Client) Listen(ctx context.Context, fn func(*structpb.Struct)) error {
	var d net.Dialer
	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	conn, err := d.DialContext(dialCtx, "unix", c.socketPath)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to connect to padwatch at %s: %w", c.socketPath, err)
	}
	defer conn.Close()

	// Unblock the read when the caller gives up
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		msg, err := readFrame(conn)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		fn(msg)
	}
}
