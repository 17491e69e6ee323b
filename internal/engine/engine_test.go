package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bnema/padwatch/internal/detector"
	"github.com/bnema/padwatch/internal/hotkey"
	"github.com/bnema/padwatch/internal/input"
	"github.com/bnema/padwatch/internal/logger"
	"github.com/bnema/padwatch/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu        sync.Mutex
	available bool
	sources   detector.Sources
	snap      *input.RawInputSnapshot
	block     chan struct{}
	panicOnce bool
	queries   int
}

func (f *fakeSource) AnyAvailable() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.available
}

func (f *fakeSource) QuerySources(includeEnumerated bool) detector.Sources {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if f.panicOnce {
		f.panicOnce = false
		panic("adapter exploded")
	}
	s := f.sources
	if !includeEnumerated {
		s.Enumerated = input.Disconnected
	}
	return s
}

func (f *fakeSource) Snapshot() (input.RawInputSnapshot, bool) {
	f.mu.Lock()
	block := f.block
	snap := f.snap
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	if snap == nil {
		return input.RawInputSnapshot{}, false
	}
	return *snap, true
}

func (f *fakeSource) connect(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources.Fast = input.ControllerState{
		IsConnected: true,
		Identity:    &input.DeviceIdentity{DisplayName: name, SourceAPI: input.SourceXInput},
		SourceAPI:   input.SourceXInput,
	}
}

func (f *fakeSource) press(b input.Buttons) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = &input.RawInputSnapshot{Buttons: b}
}

func (f *fakeSource) queryCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries
}

// collector records delivered events
type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) handle(ev Event) {
	c.mu.Lock()
	c.events = append(c.events, ev)
	c.mu.Unlock()
}

func (c *collector) snapshot() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.events...)
}

func fastOptions() Options {
	opts := DefaultOptions()
	opts.TriggerMode = tracker.ModeXInput
	opts.ConnectionInterval = MinConnectionInterval
	opts.Hotkey.PollInterval = hotkey.MinPollInterval
	opts.Hotkey.Cooldown = 0
	return opts
}

func TestEngineConnectionDetected(t *testing.T) {
	src := &fakeSource{available: true}
	e := New(src, fastOptions(), logger.Discard())
	var c collector
	e.Subscribe(c.handle)

	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	require.Eventually(t, func() bool { return src.queryCount() >= 2 }, time.Second, 5*time.Millisecond)
	src.connect("Xbox Controller")

	require.Eventually(t, func() bool { return len(c.snapshot()) == 1 }, 2*time.Second, 5*time.Millisecond)
	ev, ok := c.snapshot()[0].(ConnectionDetected)
	require.True(t, ok)
	assert.Equal(t, "Xbox Controller", ev.Identity.DisplayName)
	assert.Equal(t, input.SourceXInput, ev.SourceAPI)

	// Staying connected does not fire again
	time.Sleep(200 * time.Millisecond)
	assert.Len(t, c.snapshot(), 1)
	assert.Equal(t, int64(1), e.Status().Connections)
	assert.True(t, e.Status().LastState.IsConnected)
}

func TestEngineHotkeyFired(t *testing.T) {
	src := &fakeSource{available: true}
	e := New(src, fastOptions(), logger.Discard())
	var c collector
	e.Subscribe(c.handle)

	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	src.press(input.ButtonBack | input.ButtonStart | input.ButtonA)
	require.Eventually(t, func() bool { return len(c.snapshot()) == 1 }, 2*time.Second, 5*time.Millisecond)

	ev, ok := c.snapshot()[0].(HotkeyFired)
	require.True(t, ok)
	assert.Equal(t, hotkey.ComboBackStart, ev.Combination)

	time.Sleep(100 * time.Millisecond)
	assert.Len(t, c.snapshot(), 1, "one press fires once")
}

func TestEngineUpdateOptions(t *testing.T) {
	src := &fakeSource{available: true}
	e := New(src, fastOptions(), logger.Discard())
	var c collector
	e.Subscribe(c.handle)

	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	src.press(input.ButtonGuide)
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, c.snapshot())

	opts := e.Options()
	opts.Hotkey.Combination = hotkey.ComboGuide
	e.UpdateOptions(opts)

	require.Eventually(t, func() bool { return len(c.snapshot()) == 1 }, 2*time.Second, 5*time.Millisecond)
}

func TestEngineNoSources(t *testing.T) {
	e := New(&fakeSource{}, DefaultOptions(), logger.Discard())
	assert.ErrorIs(t, e.Start(context.Background()), ErrNoSources)
	assert.False(t, e.Running())
	assert.True(t, e.Status().Disabled)
	e.Stop()
}

func TestEngineStopIsBounded(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	src := &fakeSource{available: true, block: block}
	e := New(src, fastOptions(), logger.Discard(), WithStopTimeout(50*time.Millisecond))

	require.NoError(t, e.Start(context.Background()))
	time.Sleep(20 * time.Millisecond)

	start := time.Now()
	e.Stop()
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, int64(1), e.Status().AbandonedLoops)
	assert.False(t, e.Running())
}

func TestEngineRecoversFromPanics(t *testing.T) {
	src := &fakeSource{available: true, panicOnce: true}
	e := New(src, fastOptions(), logger.Discard())

	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	require.Eventually(t, func() bool { return src.queryCount() >= 3 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(1), e.Status().Panics)
}

func TestEngineDisabledTriggerMode(t *testing.T) {
	src := &fakeSource{available: true}
	opts := fastOptions()
	opts.TriggerMode = tracker.ModeDisabled
	opts.HotkeyEnabled = false
	e := New(src, opts, logger.Discard())

	require.NoError(t, e.Start(context.Background()))
	time.Sleep(100 * time.Millisecond)
	e.Stop()
	assert.Zero(t, src.queryCount())
	assert.Zero(t, e.Status().HotkeyTicks)
}

func TestEngineStartupModeRunsOnce(t *testing.T) {
	src := &fakeSource{available: true}
	src.connect("Xbox Controller")
	opts := fastOptions()
	opts.TriggerMode = tracker.ModeStartupXInput
	e := New(src, opts, logger.Discard())
	var c collector
	e.Subscribe(c.handle)

	require.NoError(t, e.Start(context.Background()))
	require.Eventually(t, func() bool { return len(c.snapshot()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	e.Stop()

	assert.Equal(t, 1, src.queryCount(), "startup modes query once")
	assert.Len(t, c.snapshot(), 1)
}

func TestEngineStartupModeSelectedAtRuntime(t *testing.T) {
	for _, from := range []tracker.TriggerMode{tracker.ModeXInput, tracker.ModeDisabled} {
		t.Run(from.String(), func(t *testing.T) {
			src := &fakeSource{available: true}
			src.connect("Xbox Controller")
			opts := fastOptions()
			opts.TriggerMode = from
			opts.HotkeyEnabled = false
			e := New(src, opts, logger.Discard())
			var c collector
			e.Subscribe(c.handle)

			require.NoError(t, e.Start(context.Background()))
			time.Sleep(150 * time.Millisecond)

			opts.TriggerMode = tracker.ModeStartupAny
			e.UpdateOptions(opts)
			time.Sleep(200 * time.Millisecond)
			e.Stop()

			assert.Empty(t, c.snapshot(), "a startup mode chosen after start never evaluates")
		})
	}
}

func TestEngineDoubleStart(t *testing.T) {
	e := New(&fakeSource{available: true}, fastOptions(), logger.Discard())
	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()
	assert.ErrorIs(t, e.Start(context.Background()), ErrAlreadyRunning)
}

func TestOptionsNormalize(t *testing.T) {
	opts := Options{ConnectionInterval: time.Millisecond, Hotkey: hotkey.Config{LongPressDuration: time.Hour}}
	e := New(&fakeSource{}, opts, logger.Discard())
	got := e.Options()
	assert.Equal(t, MinConnectionInterval, got.ConnectionInterval)
	assert.Equal(t, hotkey.MaxLongPress, got.Hotkey.LongPressDuration)
}
