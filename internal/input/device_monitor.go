package input

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultMonitorPollInterval is used when inotify is unavailable
const DefaultMonitorPollInterval = 2 * time.Second

// DeviceChange represents a device node appearing or disappearing
type DeviceChange struct {
	Type   DeviceChangeType
	Path   string
	Device string // node name, e.g. "event0" or "js1"
}

// DeviceChangeType represents the type of device change
type DeviceChangeType int

const (
	DeviceAdded DeviceChangeType = iota
	DeviceRemoved
)

func (t DeviceChangeType) String() string {
	if t == DeviceAdded {
		return "added"
	}
	return "removed"
}

// DeviceMonitor reports input device nodes coming and going under
// /dev/input. It uses inotify when it can and falls back to polling.
type DeviceMonitor struct {
	inputDir string
	interval time.Duration
	logger   *log.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDeviceMonitor creates a monitor for /dev/input
func NewDeviceMonitor(logger *log.Logger) *DeviceMonitor {
	return &DeviceMonitor{
		inputDir: "/dev/input",
		interval: DefaultMonitorPollInterval,
		logger:   logger,
	}
}

// Start begins monitoring; callback runs on the monitor goroutine
func (dm *DeviceMonitor) Start(ctx context.Context, callback func(DeviceChange)) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.cancel != nil {
		return fmt.Errorf("device monitor already running")
	}
	if _, err := os.Stat(dm.inputDir); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotSupported, dm.inputDir, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	dm.cancel = cancel

	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		if err = watcher.Add(dm.inputDir); err != nil {
			watcher.Close()
		}
	}

	dm.wg.Add(1)
	if err != nil {
		dm.logger.Debug("inotify unavailable, polling for devices", "err", err, "interval", dm.interval)
		go dm.poll(ctx, callback)
	} else {
		dm.logger.Debug("Device monitor started", "dir", dm.inputDir)
		go dm.watch(ctx, watcher, callback)
	}
	return nil
}

// Stop stops the device monitor and waits for its goroutine
func (dm *DeviceMonitor) Stop() {
	dm.mu.Lock()
	cancel := dm.cancel
	dm.cancel = nil
	dm.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	dm.wg.Wait()
	dm.logger.Debug("Device monitor stopped")
}

func (dm *DeviceMonitor) watch(ctx context.Context, watcher *fsnotify.Watcher, callback func(DeviceChange)) {
	defer dm.wg.Done()
	defer watcher.Close()
	defer func() {
		if r := recover(); r != nil {
			dm.logger.Error("Device monitor panic", "panic", r)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(ev.Name)
			if !isDeviceNode(name) {
				continue
			}
			switch {
			case ev.Has(fsnotify.Create):
				dm.emit(callback, DeviceAdded, name)
			case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
				dm.emit(callback, DeviceRemoved, name)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			dm.logger.Warn("Device monitor error", "err", err)
		}
	}
}

func (dm *DeviceMonitor) poll(ctx context.Context, callback func(DeviceChange)) {
	defer dm.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			dm.logger.Error("Device monitor panic", "panic", r)
		}
	}()

	ticker := time.NewTicker(dm.interval)
	defer ticker.Stop()

	last := dm.currentDevices()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			current := dm.currentDevices()
			for device := range current {
				if !last[device] {
					dm.emit(callback, DeviceAdded, device)
				}
			}
			for device := range last {
				if !current[device] {
					dm.emit(callback, DeviceRemoved, device)
				}
			}
			last = current
		}
	}
}

func (dm *DeviceMonitor) emit(callback func(DeviceChange), t DeviceChangeType, device string) {
	path := filepath.Join(dm.inputDir, device)
	dm.logger.Debug("Input device changed", "change", t, "path", path)
	callback(DeviceChange{Type: t, Path: path, Device: device})
}

// currentDevices returns the device node names present right now
func (dm *DeviceMonitor) currentDevices() map[string]bool {
	devices := make(map[string]bool)

	entries, err := os.ReadDir(dm.inputDir)
	if err != nil {
		dm.logger.Warn("Failed to read input directory", "err", err)
		return devices
	}

	for _, entry := range entries {
		if !entry.IsDir() && isDeviceNode(entry.Name()) {
			devices[entry.Name()] = true
		}
	}
	return devices
}

func isDeviceNode(name string) bool {
	return strings.HasPrefix(name, "event") || strings.HasPrefix(name, "js")
}
