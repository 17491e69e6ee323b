package cmd

import (
	"github.com/bnema/padwatch/internal/config"
	"github.com/bnema/padwatch/internal/detector"
	"github.com/bnema/padwatch/internal/input"
	"github.com/bnema/padwatch/internal/lifecycle"
	"github.com/bnema/padwatch/internal/logger"
	"github.com/bnema/padwatch/internal/sdlbridge"
)

// sources bundles the detector with the native game-controller context it
// may own. teardown must run once, on the way out of the process.
type sources struct {
	detector *detector.Detector
	manager  *lifecycle.Manager
	teardown lifecycle.Teardown
}

// buildSources wires every enabled adapter in priority order: the fast tier
// first, then game controller, HID and Bluetooth enumeration.
func buildSources(cfg *config.Config) *sources {
	s := &sources{}
	enabled := cfg.Detection.Sources

	var fast, enumerated []input.Adapter
	if enabled.Fast {
		fast = append(fast, input.NewFastAdapter(logger.Component("fast")))
	}

	s.manager, s.teardown = lifecycle.New(sdlbridge.New(), logger.Component("sdl"),
		lifecycle.WithLockTimeout(cfg.LockTimeout()))
	if enabled.GameController {
		enumerated = append(enumerated, lifecycle.NewAdapter(s.manager, logger.Component("gamecontroller")))
	}
	if enabled.HID {
		enumerated = append(enumerated, input.NewHIDAdapter(logger.Component("hid")))
	}
	if enabled.Bluetooth {
		enumerated = append(enumerated, input.NewBluetoothAdapter(logger.Component("bluetooth")))
	}

	s.detector = detector.New(fast, enumerated, logger.Component("detector"),
		detector.WithCacheTTL(cfg.EnumerationCacheTTL()))
	return s
}

func (s *sources) lockTimeouts() int64 {
	return s.manager.Stats().LockTimeouts
}
