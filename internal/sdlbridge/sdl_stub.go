//go:build !cgo

package sdlbridge

import (
	"fmt"

	"github.com/bnema/padwatch/internal/input"
	"github.com/bnema/padwatch/internal/lifecycle"
)

// Native stub for when CGO is disabled. Init always fails, so the game
// controller source reports itself unavailable.
type Native struct{}

func New() lifecycle.Native {
	return &Native{}
}

func (n *Native) Init() error {
	return fmt.Errorf("SDL2 game controller support not available (build with CGO enabled)")
}

func (n *Native) Quit()                          {}
func (n *Native) Update()                        {}
func (n *Native) NumDevices() int                { return 0 }
func (n *Native) IsGameController(int) bool      { return false }
func (n *Native) DeviceInfo(int) input.RawDevice { return input.RawDevice{} }

func (n *Native) Open(index int) (lifecycle.Device, error) {
	return nil, fmt.Errorf("not implemented")
}
