//go:build !linux

package virtualpad

import (
	"context"
	"time"

	"github.com/bnema/padwatch/internal/input"
	"github.com/charmbracelet/log"
)

// Pad is unavailable outside Linux
type Pad struct{}

func Create(name string, logger *log.Logger) (*Pad, error) {
	return nil, input.ErrNotSupported
}

func (p *Pad) Hold(ctx context.Context, b input.Buttons, d time.Duration) error {
	return input.ErrNotSupported
}

func (p *Pad) Close() error {
	return nil
}
