// Package acceltimer abstracts an optional hardware timer subsystem used to
// correlate device clocks with the host clock during profiling.
//
// The profiler never talks to real accelerator hardware itself. It is handed
// a Backend at session creation; a disabled no-op backend is the default, and
// a real implementation can be injected by whoever owns the device runtime.
// Backends must be internally safe for concurrent calls from multiple
// recording goroutines.
package acceltimer

import (
	"errors"
	"time"
)

// Recording-time errors reported when resolving device timestamps.
var (
	// ErrNotRecorded indicates that a handle never received a device
	// timestamp.
	ErrNotRecorded = errors.New("event was not recorded on a device")

	// ErrCrossDeviceMismatch indicates that two handles were recorded on
	// different devices and cannot be compared.
	ErrCrossDeviceMismatch = errors.New("events are not on the same device")
)

// A Handle identifies one device timer snapshot. A Handle starts empty and is
// filled in by Backend.RecordEvent; it may be resolved lazily, so the device
// timestamp is only required to be present once Elapsed is called.
type Handle struct {
	device   int
	deviceNs int64
	hostNs   int64
	recorded bool
}

// Device returns the device the snapshot was taken on.
func (h *Handle) Device() int {
	return h.device
}

// Recorded reports whether a device timestamp has been captured.
func (h *Handle) Recorded() bool {
	return h.recorded
}

// HostNs returns the host timestamp supplied when the snapshot was requested.
func (h *Handle) HostNs() int64 {
	return h.hostNs
}

// Backend is the capability set a hardware timer subsystem must provide.
type Backend interface {
	// Available reports whether the subsystem can be used at all. All other
	// methods must be safe to call regardless, acting as no-ops when the
	// subsystem is unavailable.
	Available() bool

	// Mark emits a named point annotation into the external timeline.
	Mark(name string)

	// RangePush opens a labeled region in the external timeline.
	RangePush(label string)

	// RangePop closes the most recently opened region.
	RangePop()

	// RecordEvent requests a device timer snapshot for the handle. hostNs is
	// the host clock reading at request time, kept for clock correlation.
	RecordEvent(device int, handle *Handle, hostNs int64)

	// Elapsed resolves the time between two snapshots. It fails with
	// ErrNotRecorded if either handle lacks a device timestamp and with
	// ErrCrossDeviceMismatch if the snapshots were taken on different
	// devices.
	Elapsed(a, b *Handle) (time.Duration, error)

	// ForEachDevice calls fn once per visible device.
	ForEachDevice(fn func(device int))

	// SynchronizeAll blocks until all devices have drained outstanding work.
	SynchronizeAll()
}
