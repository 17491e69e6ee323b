// Package detector merges every input adapter into one connection answer.
//
// Adapters come in two tiers. The fast tier is handle-free and is asked on
// every query. The enumeration tier walks device lists, which is expensive,
// so its answer is cached for a fixed interval. The cache and its counters
// belong to a Detector value; there is no package-level state.
package detector

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/padwatch/internal/input"
	"github.com/charmbracelet/log"
)

// DefaultCacheTTL is how long an enumeration-tier answer is reused
const DefaultCacheTTL = 1000 * time.Millisecond

// Stats counts detector work for diagnostics
type Stats struct {
	Queries      int64
	Enumerations int64
	CacheHits    int64
}

// Sources is the per-tier answer of one query pass
type Sources struct {
	Fast       input.ControllerState
	Enumerated input.ControllerState
}

// Best returns the fast-tier state if connected, otherwise the enumerated one
func (s Sources) Best() input.ControllerState {
	if s.Fast.IsConnected {
		return s.Fast
	}
	return s.Enumerated
}

type cacheEntry struct {
	state input.ControllerState
	at    time.Time
}

// Detector answers "is a controller connected" across all adapters
type Detector struct {
	fast       []input.Adapter
	enumerated []input.Adapter
	logger     *log.Logger
	ttl        time.Duration
	now        func() time.Time

	// mu guards cache and serializes enumeration passes
	mu    sync.Mutex
	cache *cacheEntry

	queries      atomic.Int64
	enumerations atomic.Int64
	cacheHits    atomic.Int64
}

// Option configures a Detector
type Option func(*Detector)

// WithCacheTTL overrides DefaultCacheTTL
func WithCacheTTL(ttl time.Duration) Option {
	return func(d *Detector) {
		if ttl > 0 {
			d.ttl = ttl
		}
	}
}

// WithClock overrides time.Now for cache expiry
func WithClock(now func() time.Time) Option {
	return func(d *Detector) {
		d.now = now
	}
}

// New builds a detector. enumerated is in priority order: the first adapter
// that reports a connection wins.
func New(fast, enumerated []input.Adapter, logger *log.Logger, opts ...Option) *Detector {
	d := &Detector{
		fast:       fast,
		enumerated: enumerated,
		logger:     logger,
		ttl:        DefaultCacheTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Adapters returns every adapter, fast tier first
func (d *Detector) Adapters() []input.Adapter {
	all := make([]input.Adapter, 0, len(d.fast)+len(d.enumerated))
	all = append(all, d.fast...)
	return append(all, d.enumerated...)
}

// AnyAvailable reports whether at least one adapter can run on this machine
func (d *Detector) AnyAvailable() bool {
	for _, a := range d.Adapters() {
		if a.Available() {
			return true
		}
	}
	return false
}

// Query returns the unified connection state. With xinputOnly set only the
// fast tier is consulted and the enumeration cache is left alone.
func (d *Detector) Query(xinputOnly bool) input.ControllerState {
	return d.QuerySources(!xinputOnly).Best()
}

// QuerySources answers both tiers in one pass. The enumeration tier is only
// consulted (and its cache only touched) when includeEnumerated is set.
func (d *Detector) QuerySources(includeEnumerated bool) Sources {
	d.queries.Add(1)

	var s Sources
	s.Fast = d.queryFast()
	if includeEnumerated {
		s.Enumerated = d.queryEnumerated()
	}
	return s
}

func (d *Detector) queryFast() input.ControllerState {
	for _, a := range d.fast {
		res := input.Query(a, d.logger)
		if res.IsConnected() {
			return res.State(a.Source())
		}
	}
	return input.Disconnected
}

func (d *Detector) queryEnumerated() input.ControllerState {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if d.cache != nil && now.Sub(d.cache.at) < d.ttl {
		d.cacheHits.Add(1)
		return d.cache.state
	}

	d.enumerations.Add(1)
	state, transient := d.enumerate()

	// An adapter that could not answer this time is "no data", not
	// "disconnected". Keep the previous answer so a lock timeout does not look
	// like an unplug followed by a replug.
	if !state.IsConnected && transient && d.cache != nil {
		d.logger.Debug("Enumeration tier had transient failures, keeping previous state")
		state = d.cache.state
	}

	d.cache = &cacheEntry{state: state, at: now}
	return state
}

// enumerate asks each enumeration adapter in priority order. transient is set
// when an adapter was unavailable for a reason other than platform support.
func (d *Detector) enumerate() (state input.ControllerState, transient bool) {
	for _, a := range d.enumerated {
		res := input.Query(a, d.logger)
		switch res.Kind {
		case input.Connected:
			return res.State(a.Source()), transient
		case input.Unavailable:
			if res.Err != nil && !errors.Is(res.Err, input.ErrNotSupported) {
				d.logger.Debug("Adapter unavailable", "source", a.Source(), "err", res.Err)
				transient = true
			}
		}
	}
	return input.Disconnected, transient
}

// Invalidate drops the cached enumeration answer
func (d *Detector) Invalidate() {
	d.mu.Lock()
	d.cache = nil
	d.mu.Unlock()
}

// Snapshot reads live state from every snapshot-capable adapter and merges
// it. ok is false when no adapter produced a snapshot.
func (d *Detector) Snapshot() (input.RawInputSnapshot, bool) {
	var snaps []input.RawInputSnapshot
	for _, a := range d.Adapters() {
		if snap, ok := input.ReadSnapshot(a, d.logger); ok {
			snaps = append(snaps, snap)
		}
	}
	if len(snaps) == 0 {
		return input.RawInputSnapshot{}, false
	}
	return input.MergeSnapshots(snaps...), true
}

// Enumerate lists every available adapter's devices, bypassing the cache
func (d *Detector) Enumerate() map[input.SourceAPI][]input.DeviceIdentity {
	return input.EnumerateAll(d.Adapters(), d.logger)
}

// Stats returns the detector's counters
func (d *Detector) Stats() Stats {
	return Stats{
		Queries:      d.queries.Load(),
		Enumerations: d.enumerations.Load(),
		CacheHits:    d.cacheHits.Load(),
	}
}
