package input

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Adapter is one native detection API behind the common contract
type Adapter interface {
	// Source identifies the adapter in results and logs
	Source() SourceAPI

	// Available reports whether the native API can be used at all on this
	// machine. An unavailable adapter answers every query with Unavailable.
	Available() bool

	// Probe is a cheap "is anything connected" check. It never fails the
	// caller: native errors are logged and reported as false.
	Probe() bool

	// Enumerate lists controller identities. On partial failure it returns
	// whatever was collected before the failure.
	Enumerate() []DeviceIdentity
}

// Querier is implemented by adapters that can answer a full query in one
// pass, so enumeration-heavy adapters don't enumerate twice.
type Querier interface {
	Query() AdapterResult
}

// SnapshotReader is implemented by adapters that can read live button/axis
// state. ok is false when no state could be read this time.
type SnapshotReader interface {
	ReadSnapshot() (snap RawInputSnapshot, ok bool)
}

// Query asks an adapter for a result, shielding the caller from panics in
// native code.
func Query(a Adapter, logger *log.Logger) (res AdapterResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Adapter query panicked", "source", a.Source(), "panic", r)
			res = UnavailableResult(fmt.Errorf("%s adapter panic: %v", a.Source(), r))
		}
	}()

	if !a.Available() {
		return UnavailableResult(ErrNotSupported)
	}

	if q, ok := a.(Querier); ok {
		return q.Query()
	}

	if !a.Probe() {
		return NotConnectedResult()
	}

	ids := a.Enumerate()
	if len(ids) == 0 {
		// Probe saw something but enumeration lost the race; still a
		// connection, just without a name.
		return ConnectedResult(DeviceIdentity{
			DisplayName: "Game Controller",
			SourceAPI:   a.Source(),
		})
	}
	return ConnectedResult(ids[0])
}

// ReadSnapshot reads live state from an adapter if it supports it, shielding
// the caller from panics.
func ReadSnapshot(a Adapter, logger *log.Logger) (snap RawInputSnapshot, ok bool) {
	r, supported := a.(SnapshotReader)
	if !supported || !a.Available() {
		return RawInputSnapshot{}, false
	}

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Snapshot read panicked", "source", a.Source(), "panic", rec)
			snap, ok = RawInputSnapshot{}, false
		}
	}()

	return r.ReadSnapshot()
}

// EnumerateAll lists identities from every available adapter, in order
func EnumerateAll(adapters []Adapter, logger *log.Logger) map[SourceAPI][]DeviceIdentity {
	out := make(map[SourceAPI][]DeviceIdentity, len(adapters))
	for _, a := range adapters {
		if !a.Available() {
			continue
		}
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Enumeration panicked", "source", a.Source(), "panic", r)
				}
			}()
			out[a.Source()] = append(out[a.Source()], a.Enumerate()...)
		}()
	}
	return out
}
