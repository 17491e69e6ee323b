package engine

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// DefaultQueueSize is the dispatcher buffer used by New
const DefaultQueueSize = 32

// Handler receives events on the dispatcher goroutine, never on a polling
// loop.
type Handler func(Event)

// Dispatcher hands events from the polling loops to subscribers through a
// buffered queue. Publishing never blocks: when the queue is full the event
// is dropped and counted.
type Dispatcher struct {
	logger *log.Logger
	queue  chan Event
	done   chan struct{}

	mu     sync.RWMutex
	closed bool
	subs   []Handler

	delivered atomic.Int64
	dropped   atomic.Int64
}

// NewDispatcher starts a dispatcher with a queue of size events
func NewDispatcher(size int, logger *log.Logger) *Dispatcher {
	if size <= 0 {
		size = DefaultQueueSize
	}
	d := &Dispatcher{
		logger: logger,
		queue:  make(chan Event, size),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

// Subscribe registers h for every event published after this call
func (d *Dispatcher) Subscribe(h Handler) {
	d.mu.Lock()
	d.subs = append(d.subs, h)
	d.mu.Unlock()
}

// Publish queues ev. It returns false if the event was dropped because the
// queue is full or the dispatcher is closed.
func (d *Dispatcher) Publish(ev Event) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return false
	}
	select {
	case d.queue <- ev:
		return true
	default:
		d.dropped.Add(1)
		d.logger.Warn("Event queue full, dropping event", "kind", ev.Kind())
		return false
	}
}

// Close stops accepting events and waits until queued ones are delivered
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		<-d.done
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for ev := range d.queue {
		d.mu.RLock()
		subs := d.subs
		d.mu.RUnlock()

		for _, h := range subs {
			d.deliver(h, ev)
		}
		d.delivered.Add(1)
	}
}

func (d *Dispatcher) deliver(h Handler, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Event subscriber panicked", "kind", ev.Kind(), "panic", r)
		}
	}()
	h(ev)
}

// Delivered returns how many events reached subscribers
func (d *Dispatcher) Delivered() int64 {
	return d.delivered.Load()
}

// Dropped returns how many events were dropped on a full queue
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}
