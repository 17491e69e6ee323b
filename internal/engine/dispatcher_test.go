package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/bnema/padwatch/internal/hotkey"
	"github.com/bnema/padwatch/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDelivers(t *testing.T) {
	d := NewDispatcher(4, logger.Discard())
	var c collector
	d.Subscribe(c.handle)

	require.True(t, d.Publish(HotkeyFired{Combination: hotkey.ComboGuide}))
	d.Close()

	require.Len(t, c.snapshot(), 1)
	assert.Equal(t, "hotkey_fired", c.snapshot()[0].Kind())
	assert.False(t, d.Publish(HotkeyFired{}), "closed dispatchers drop events")
	d.Close()
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	d := NewDispatcher(1, logger.Discard())
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	d.Subscribe(func(Event) {
		wg.Done()
		<-release
	})

	// First event parks the subscriber, second fills the queue
	require.True(t, d.Publish(HotkeyFired{}))
	wg.Wait()
	require.True(t, d.Publish(HotkeyFired{}))

	start := time.Now()
	assert.False(t, d.Publish(HotkeyFired{}))
	assert.Less(t, time.Since(start), 100*time.Millisecond, "publishing never blocks")
	assert.Equal(t, int64(1), d.Dropped())

	wg.Add(1)
	close(release)
	d.Close()
	assert.Equal(t, int64(2), d.Delivered())
}

func TestDispatcherSubscriberPanic(t *testing.T) {
	d := NewDispatcher(4, logger.Discard())
	var c collector
	d.Subscribe(func(Event) { panic("bad subscriber") })
	d.Subscribe(c.handle)

	d.Publish(ConnectionDetected{})
	d.Close()
	assert.Len(t, c.snapshot(), 1)
}
