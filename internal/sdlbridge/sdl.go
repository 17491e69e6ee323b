//go:build cgo

// Package sdlbridge binds the lifecycle manager to SDL2's game controller
// subsystem.
package sdlbridge

import (
	"fmt"

	"github.com/bnema/padwatch/internal/input"
	"github.com/bnema/padwatch/internal/lifecycle"
	"github.com/veandco/go-sdl2/sdl"
)

var buttonMap = []struct {
	button sdl.GameControllerButton
	mask   input.Buttons
}{
	{sdl.CONTROLLER_BUTTON_A, input.ButtonA},
	{sdl.CONTROLLER_BUTTON_B, input.ButtonB},
	{sdl.CONTROLLER_BUTTON_X, input.ButtonX},
	{sdl.CONTROLLER_BUTTON_Y, input.ButtonY},
	{sdl.CONTROLLER_BUTTON_BACK, input.ButtonBack},
	{sdl.CONTROLLER_BUTTON_GUIDE, input.ButtonGuide},
	{sdl.CONTROLLER_BUTTON_START, input.ButtonStart},
	{sdl.CONTROLLER_BUTTON_LEFTSTICK, input.ButtonLeftThumb},
	{sdl.CONTROLLER_BUTTON_RIGHTSTICK, input.ButtonRightThumb},
	{sdl.CONTROLLER_BUTTON_LEFTSHOULDER, input.ButtonLeftShoulder},
	{sdl.CONTROLLER_BUTTON_RIGHTSHOULDER, input.ButtonRightShoulder},
	{sdl.CONTROLLER_BUTTON_DPAD_UP, input.ButtonDPadUp},
	{sdl.CONTROLLER_BUTTON_DPAD_DOWN, input.ButtonDPadDown},
	{sdl.CONTROLLER_BUTTON_DPAD_LEFT, input.ButtonDPadLeft},
	{sdl.CONTROLLER_BUTTON_DPAD_RIGHT, input.ButtonDPadRight},
}

var stickAxes = [4]sdl.GameControllerAxis{
	input.AxisLeftX:  sdl.CONTROLLER_AXIS_LEFTX,
	input.AxisLeftY:  sdl.CONTROLLER_AXIS_LEFTY,
	input.AxisRightX: sdl.CONTROLLER_AXIS_RIGHTX,
	input.AxisRightY: sdl.CONTROLLER_AXIS_RIGHTY,
}

// Native is the SDL2 implementation of lifecycle.Native. Every SDL call,
// including those on open controllers, runs on one locked OS thread.
type Native struct {
	thread *thread
}

// New returns the SDL2 binding
func New() lifecycle.Native {
	return &Native{thread: newThread()}
}

func (n *Native) Init() (err error) {
	n.thread.do(func() {
		// Controllers must keep reporting while another window has focus
		sdl.SetHint(sdl.HINT_JOYSTICK_ALLOW_BACKGROUND_EVENTS, "1")

		if err = sdl.Init(sdl.INIT_GAMECONTROLLER); err != nil {
			err = fmt.Errorf("SDL_Init(GAMECONTROLLER): %w", err)
			return
		}

		// State is polled, never read from the event queue
		sdl.GameControllerEventState(sdl.IGNORE)
		sdl.JoystickEventState(sdl.IGNORE)
	})
	return err
}

func (n *Native) Quit() {
	n.thread.do(func() {
		sdl.QuitSubSystem(sdl.INIT_GAMECONTROLLER)
		sdl.Quit()
	})
}

func (n *Native) Update() {
	n.thread.do(sdl.GameControllerUpdate)
}

func (n *Native) NumDevices() (count int) {
	n.thread.do(func() { count = sdl.NumJoysticks() })
	return count
}

func (n *Native) IsGameController(index int) (ok bool) {
	n.thread.do(func() { ok = sdl.IsGameController(index) })
	return ok
}

func (n *Native) DeviceInfo(index int) (dev input.RawDevice) {
	n.thread.do(func() { dev = deviceInfo(index) })
	return dev
}

func deviceInfo(index int) input.RawDevice {
	return input.RawDevice{
		Name:      sdl.GameControllerNameForIndex(index),
		VendorID:  uint16(sdl.JoystickGetDeviceVendor(index)),
		ProductID: uint16(sdl.JoystickGetDeviceProduct(index)),
	}
}

func (n *Native) Open(index int) (dev lifecycle.Device, err error) {
	n.thread.do(func() {
		gc := sdl.GameControllerOpen(index)
		if gc == nil {
			err = fmt.Errorf("SDL_GameControllerOpen(%d): %v", index, sdl.GetError())
			return
		}
		dev = &controller{gc: gc, info: deviceInfo(index), thread: n.thread}
	})
	return dev, err
}

type controller struct {
	gc     *sdl.GameController
	info   input.RawDevice
	thread *thread
}

func (c *controller) Attached() (ok bool) {
	c.thread.do(func() { ok = c.gc.Attached() })
	return ok
}

func (c *controller) Info() input.RawDevice {
	return c.info
}

func (c *controller) Read() (snap input.RawInputSnapshot) {
	c.thread.do(func() {
		for _, b := range buttonMap {
			if c.gc.Button(b.button) != 0 {
				snap.Buttons |= b.mask
			}
		}
		for i, axis := range stickAxes {
			snap.Sticks[i] = c.gc.Axis(axis)
		}
		snap.Triggers[0] = c.gc.Axis(sdl.CONTROLLER_AXIS_TRIGGERLEFT)
		snap.Triggers[1] = c.gc.Axis(sdl.CONTROLLER_AXIS_TRIGGERRIGHT)
	})
	return snap
}

func (c *controller) Close() {
	c.thread.do(c.gc.Close)
}
