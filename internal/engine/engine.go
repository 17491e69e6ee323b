// Package engine runs the connection and hotkey polling loops and hands their
// events to subscribers.
package engine

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/padwatch/internal/detector"
	"github.com/bnema/padwatch/internal/hotkey"
	"github.com/bnema/padwatch/internal/input"
	"github.com/bnema/padwatch/internal/tracker"
	"github.com/charmbracelet/log"
)

var (
	// ErrNoSources is returned by Start when no adapter can run on this
	// machine. The engine stays disabled and emits nothing.
	ErrNoSources = errors.New("no controller detection source available")

	ErrAlreadyRunning = errors.New("engine already running")
)

const (
	DefaultConnectionInterval = 500 * time.Millisecond
	MinConnectionInterval     = 50 * time.Millisecond
	DefaultStopTimeout        = 500 * time.Millisecond
)

// Source is what the engine polls. *detector.Detector implements it.
type Source interface {
	QuerySources(includeEnumerated bool) detector.Sources
	Snapshot() (input.RawInputSnapshot, bool)
	AnyAvailable() bool
}

// Options is the configuration snapshot the loops read once per tick
type Options struct {
	TriggerMode        tracker.TriggerMode
	ConnectionInterval time.Duration
	HotkeyEnabled      bool
	Hotkey             hotkey.Config
}

// DefaultOptions watches every source continuously and listens for the
// default hotkey.
func DefaultOptions() Options {
	return Options{
		TriggerMode:        tracker.ModeAny,
		ConnectionInterval: DefaultConnectionInterval,
		HotkeyEnabled:      true,
		Hotkey:             hotkey.DefaultConfig(),
	}
}

func (o Options) normalize() Options {
	if o.ConnectionInterval <= 0 {
		o.ConnectionInterval = DefaultConnectionInterval
	}
	if o.ConnectionInterval < MinConnectionInterval {
		o.ConnectionInterval = MinConnectionInterval
	}
	o.Hotkey = o.Hotkey.Clamp()
	return o
}

// Engine owns one goroutine per concern. Each loop owns its own state and
// only shares the options snapshot and the dispatcher.
type Engine struct {
	source      Source
	logger      *log.Logger
	now         func() time.Time
	stopTimeout time.Duration
	queueSize   int
	lockStats   func() int64

	opts       atomic.Pointer[Options]
	dispatcher atomic.Pointer[Dispatcher]

	mu      sync.Mutex
	subs    []Handler
	running bool
	cancel  context.CancelFunc
	// wg is replaced on every Start so an abandoned loop from a previous run
	// cannot affect the next one
	wg *sync.WaitGroup

	status status
}

// Option configures an Engine
type Option func(*Engine)

// WithClock overrides time.Now for hotkey timing and event timestamps
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithStopTimeout overrides how long Stop waits for the loops
func WithStopTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.stopTimeout = d
		}
	}
}

// WithQueueSize sets the dispatcher buffer size
func WithQueueSize(n int) Option {
	return func(e *Engine) { e.queueSize = n }
}

// WithLockTimeouts reports the native lock timeout counter in Status
func WithLockTimeouts(fn func() int64) Option {
	return func(e *Engine) { e.lockStats = fn }
}

// New creates a stopped engine
func New(source Source, opts Options, logger *log.Logger, options ...Option) *Engine {
	e := &Engine{
		source:      source,
		logger:      logger,
		now:         time.Now,
		stopTimeout: DefaultStopTimeout,
		queueSize:   DefaultQueueSize,
	}
	for _, o := range options {
		o(e)
	}
	e.UpdateOptions(opts)
	return e
}

// UpdateOptions swaps the configuration snapshot. Loops pick it up on their
// next tick.
func (e *Engine) UpdateOptions(opts Options) {
	n := opts.normalize()
	e.opts.Store(&n)
}

// Options returns the current configuration snapshot
func (e *Engine) Options() Options {
	return *e.opts.Load()
}

// Subscribe registers h. Handlers added before Start see every event.
func (e *Engine) Subscribe(h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.subs = append(e.subs, h)
	if d := e.dispatcher.Load(); d != nil {
		d.Subscribe(h)
	}
}

// Start launches the polling loops. It returns ErrNoSources and stays
// disabled when nothing can be polled.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return ErrAlreadyRunning
	}

	if !e.source.AnyAvailable() {
		e.status.disabled.Store(true)
		e.logger.Error("No controller detection source is available, engine disabled")
		return ErrNoSources
	}
	e.status.disabled.Store(false)

	d := NewDispatcher(e.queueSize, e.logger)
	for _, h := range e.subs {
		d.Subscribe(h)
	}
	e.dispatcher.Store(d)

	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.running = true

	wg := &sync.WaitGroup{}
	e.wg = wg
	wg.Add(2)
	go e.connectionLoop(ctx, wg)
	go e.hotkeyLoop(ctx, wg)

	opts := e.Options()
	e.logger.Info("Engine started",
		"trigger", opts.TriggerMode,
		"hotkey", opts.Hotkey.Combination,
		"long_press", opts.Hotkey.RequireLongPress)
	return nil
}

// Stop cancels the loops and waits for them at most the stop timeout. A loop
// stuck in a native call is abandoned. Pending events are still delivered.
func (e *Engine) Stop() {
	e.mu.Lock()
	if !e.running {
		e.mu.Unlock()
		return
	}
	e.running = false
	e.cancel()
	wg := e.wg
	d := e.dispatcher.Load()
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Debug("Polling loops stopped")
	case <-time.After(e.stopTimeout):
		e.status.abandoned.Add(1)
		e.logger.Warn("Polling loop did not stop in time, abandoning it", "timeout", e.stopTimeout)
	}

	// An abandoned loop that wakes up later finds the dispatcher closed and
	// its events are dropped.
	d.Close()
}

// Running reports whether the loops are active
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *Engine) publish(ev Event) {
	if d := e.dispatcher.Load(); d != nil {
		d.Publish(ev)
	}
}

// wait sleeps for d or until ctx is done. It reports false on cancellation.
func wait(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (e *Engine) connectionLoop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	tr := tracker.New()
	mode := e.Options().TriggerMode

	for {
		opts := e.Options()
		if opts.TriggerMode != mode {
			e.logger.Info("Trigger mode changed", "from", mode, "to", opts.TriggerMode)
			tr.Reseed()
			mode = opts.TriggerMode
		}

		e.connectionTick(tr, opts)

		if !wait(ctx, opts.ConnectionInterval) {
			return
		}
	}
}

// connectionTick runs one connection poll. Panics are contained to the tick.
func (e *Engine) connectionTick(tr *tracker.Tracker, opts Options) {
	defer func() {
		if r := recover(); r != nil {
			e.status.panics.Add(1)
			e.logger.Error("Connection tick panicked", "panic", r)
		}
	}()

	mode := opts.TriggerMode
	if mode == tracker.ModeDisabled {
		tr.Skip()
		return
	}
	if mode.IsStartup() && tr.StartupDone() {
		return
	}

	sources := e.source.QuerySources(mode.IncludesEnumerated())
	e.status.connectionTicks.Add(1)
	best := sources.Best()
	e.status.last.Store(&best)

	ev, fired := tr.Step(mode, sources)
	if !fired {
		return
	}

	e.status.connections.Add(1)
	e.logger.Info("Controller connected", "name", ev.Identity.DisplayName, "source", ev.SourceAPI)
	e.publish(ConnectionDetected{Identity: ev.Identity, SourceAPI: ev.SourceAPI, At: e.now()})
}

func (e *Engine) hotkeyLoop(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	var m hotkey.Machine
	for {
		opts := e.Options()
		e.hotkeyTick(&m, opts)

		if !wait(ctx, opts.Hotkey.PollInterval) {
			return
		}
	}
}

// hotkeyTick runs one hotkey poll. Panics are contained to the tick.
func (e *Engine) hotkeyTick(m *hotkey.Machine, opts Options) {
	defer func() {
		if r := recover(); r != nil {
			e.status.panics.Add(1)
			e.logger.Error("Hotkey tick panicked", "panic", r)
		}
	}()

	if !opts.HotkeyEnabled {
		m.Reset()
		return
	}

	snap, ok := e.source.Snapshot()
	e.status.hotkeyTicks.Add(1)
	if !ok {
		e.status.missedSnapshots.Add(1)
	}

	if m.Tick(opts.Hotkey, snap, ok, e.now()) {
		e.status.hotkeys.Add(1)
		e.logger.Info("Hotkey fired", "combination", opts.Hotkey.Combination)
		e.publish(HotkeyFired{Combination: opts.Hotkey.Combination, At: e.now()})
	}
}
