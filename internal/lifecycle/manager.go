package lifecycle

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/padwatch/internal/input"
	"github.com/charmbracelet/log"
)

var (
	// ErrUnavailable means the lock could not be taken in time. Callers treat
	// it as "no data this tick" and retry on the next one.
	ErrUnavailable = errors.New("game controller context temporarily unavailable")

	// ErrShutdown is returned once the process-level teardown has run.
	ErrShutdown = errors.New("game controller subsystem shut down")

	// ErrInitFailed wraps the native initialization error. It is sticky:
	// initialization is never retried.
	ErrInitFailed = errors.New("game controller subsystem failed to initialize")

	// ErrNoDevice means no game-controller-capable device could be opened.
	ErrNoDevice = errors.New("no game controller attached")
)

// DefaultLockTimeout bounds how long any caller waits for the native lock
const DefaultLockTimeout = 100 * time.Millisecond

// State of the manager's lifecycle
type State int32

const (
	StateUninitialized State = iota
	StateInitialized
	StateContextOpen
	StateContextClosed
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateContextOpen:
		return "context-open"
	case StateContextClosed:
		return "context-closed"
	case StateShutdown:
		return "shutdown"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Teardown shuts the native subsystem down. It is handed out once, to the
// owner of the process, and is safe to call more than once.
type Teardown func()

// Stats counts lock outcomes for diagnostics
type Stats struct {
	LockTimeouts int64
	Opens        int64
	Closes       int64
}

// Manager serializes every native call behind one lock with a bounded wait.
// Once initialized it stays initialized until Teardown runs; only the device
// handle is opened and closed as controllers come and go.
type Manager struct {
	native      Native
	logger      *log.Logger
	lockTimeout time.Duration
	now         func() time.Time

	// sem is a one-slot semaphore; a channel gives us a timed acquire
	sem chan struct{}

	state         atomic.Int32
	initAttempted bool
	initErr       error
	device        Device
	lastSnapshot  *input.RawInputSnapshot

	lockTimeouts atomic.Int64
	opens        atomic.Int64
	closes       atomic.Int64

	teardownOnce sync.Once
}

// Option configures a Manager
type Option func(*Manager)

// WithLockTimeout overrides DefaultLockTimeout
func WithLockTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.lockTimeout = d
		}
	}
}

// WithClock overrides time.Now for snapshot timestamps
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// New creates a manager for native and returns the teardown that must only be
// called on process shutdown.
func New(native Native, logger *log.Logger, opts ...Option) (*Manager, Teardown) {
	m := &Manager{
		native:      native,
		logger:      logger,
		lockTimeout: DefaultLockTimeout,
		now:         time.Now,
		sem:         make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, m.teardown
}

func (m *Manager) acquire() bool {
	timer := time.NewTimer(m.lockTimeout)
	defer timer.Stop()

	select {
	case m.sem <- struct{}{}:
		return true
	case <-timer.C:
		m.lockTimeouts.Add(1)
		m.logger.Debug("Native lock timed out", "timeout", m.lockTimeout)
		return false
	}
}

func (m *Manager) release() {
	<-m.sem
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	return State(m.state.Load())
}

// Stats returns lock and handle counters
func (m *Manager) Stats() Stats {
	return Stats{
		LockTimeouts: m.lockTimeouts.Load(),
		Opens:        m.opens.Load(),
		Closes:       m.closes.Load(),
	}
}

// Initialize brings the native subsystem up. It is idempotent: later calls
// return the first call's result, including a failure.
func (m *Manager) Initialize() error {
	if !m.acquire() {
		return ErrUnavailable
	}
	defer m.release()

	return m.initializeLocked()
}

func (m *Manager) initializeLocked() (err error) {
	if m.State() == StateShutdown {
		return ErrShutdown
	}
	if m.initAttempted {
		return m.initErr
	}
	m.initAttempted = true

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic: %v", ErrInitFailed, r)
		}
		if err != nil {
			m.initErr = err
			// Logged exactly once; callers see the sticky error afterwards
			m.logger.Error("Game controller subsystem disabled", "err", err)
			return
		}
		m.state.Store(int32(StateInitialized))
		m.logger.Info("Game controller subsystem initialized")
	}()

	if err := m.native.Init(); err != nil {
		return fmt.Errorf("%w: %v", ErrInitFailed, err)
	}
	return nil
}

// Initialized reports whether the subsystem came up successfully
func (m *Manager) Initialized() bool {
	switch m.State() {
	case StateInitialized, StateContextOpen, StateContextClosed:
		return true
	}
	return false
}

// OpenContext makes sure a device handle is open. An existing handle is
// reused while it still reports attached; a stale one is closed and the first
// game-controller-capable device is opened instead.
func (m *Manager) OpenContext() error {
	if !m.acquire() {
		return ErrUnavailable
	}
	defer m.release()

	return m.openLocked()
}

func (m *Manager) openLocked() error {
	if err := m.initializeLocked(); err != nil {
		return err
	}

	if m.device != nil {
		if m.device.Attached() {
			return nil
		}
		m.logger.Info("Controller handle detached, closing", "name", m.device.Info().Name)
		m.closeLocked()
	}

	m.native.Update()
	n := m.native.NumDevices()
	for i := 0; i < n; i++ {
		if !m.native.IsGameController(i) {
			continue
		}
		dev, err := m.native.Open(i)
		if err != nil {
			m.logger.Warn("Failed to open game controller", "index", i, "err", err)
			continue
		}
		m.device = dev
		m.opens.Add(1)
		m.state.Store(int32(StateContextOpen))
		m.logger.Debug("Opened game controller", "index", i, "name", dev.Info().Name)
		return nil
	}

	m.state.Store(int32(StateContextClosed))
	return ErrNoDevice
}

// CloseContext releases the device handle unconditionally and drops the
// cached snapshot. The native subsystem stays initialized.
func (m *Manager) CloseContext() error {
	if !m.acquire() {
		return ErrUnavailable
	}
	defer m.release()

	m.closeLocked()
	return nil
}

func (m *Manager) closeLocked() {
	if m.device != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					m.logger.Warn("Device close panicked", "panic", r)
				}
			}()
			m.device.Close()
		}()
		m.device = nil
		m.closes.Add(1)
	}
	m.lastSnapshot = nil
	if m.Initialized() {
		m.state.Store(int32(StateContextClosed))
	}
}

// ReadSnapshot returns the live state of the open controller, opening one if
// needed. A handle that no longer reports attached is closed and the read
// fails with ErrNoDevice unless a replacement is found.
func (m *Manager) ReadSnapshot() (snap input.RawInputSnapshot, err error) {
	if !m.acquire() {
		return input.RawInputSnapshot{}, ErrUnavailable
	}
	defer m.release()

	if err := m.openLocked(); err != nil {
		return input.RawInputSnapshot{}, err
	}

	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("Controller read panicked, closing handle", "panic", r)
			m.closeLocked()
			snap, err = input.RawInputSnapshot{}, ErrNoDevice
		}
	}()

	m.native.Update()
	snap = m.device.Read()
	snap.Timestamp = m.now()
	m.lastSnapshot = &snap
	return snap, nil
}

// LastSnapshot returns the most recent successful read, if the handle that
// produced it is still open.
func (m *Manager) LastSnapshot() (input.RawInputSnapshot, bool) {
	if !m.acquire() {
		return input.RawInputSnapshot{}, false
	}
	defer m.release()

	if m.lastSnapshot == nil {
		return input.RawInputSnapshot{}, false
	}
	return *m.lastSnapshot, true
}

// Devices lists every enumerable game controller without opening any
func (m *Manager) Devices() ([]input.RawDevice, error) {
	if !m.acquire() {
		return nil, ErrUnavailable
	}
	defer m.release()

	if err := m.initializeLocked(); err != nil {
		return nil, err
	}

	m.native.Update()
	var devs []input.RawDevice
	n := m.native.NumDevices()
	for i := 0; i < n; i++ {
		if m.native.IsGameController(i) {
			devs = append(devs, m.native.DeviceInfo(i))
		}
	}
	return devs, nil
}

// teardown closes the handle and quits the native subsystem. It waits for the
// lock without a bound: this runs once at process exit, after the polling
// loops have been stopped or abandoned.
func (m *Manager) teardown() {
	m.teardownOnce.Do(func() {
		if !m.acquire() {
			// A hung native call holds the lock; leave the library alone rather
			// than tear it down under that call.
			m.logger.Warn("Native lock held at shutdown, skipping teardown")
			m.state.Store(int32(StateShutdown))
			return
		}
		defer m.release()

		m.closeLocked()
		if m.initAttempted && m.initErr == nil {
			func() {
				defer func() {
					if r := recover(); r != nil {
						m.logger.Warn("Native quit panicked", "panic", r)
					}
				}()
				m.native.Quit()
			}()
		}
		m.state.Store(int32(StateShutdown))
		m.logger.Info("Game controller subsystem shut down")
	})
}
