package profiling

import (
	"time"

	"github.com/sarchlab/rangeprof/acceltimer"
)

// EventKind classifies a recorded event.
type EventKind int

// Available event kinds.
const (
	// KindMark is a single timestamped point with a name and no duration.
	KindMark EventKind = iota

	// KindPushRange opens a named interval.
	KindPushRange

	// KindPopRange closes the most recently opened interval on the same
	// thread.
	KindPopRange
)

func (k EventKind) String() string {
	switch k {
	case KindMark:
		return "mark"
	case KindPushRange:
		return "push"
	case KindPopRange:
		return "pop"
	default:
		return "unknown"
	}
}

// An Event is one immutable record in a RangeEventList. Events are created by
// the recording call and never mutated after append.
type Event struct {
	// Kind classifies the event.
	Kind EventKind

	// Name is the mark or range name. Pop events carry an empty name; the
	// name lives on the matching push.
	Name string

	// ThreadID attributes the event to the worker that it originated from.
	ThreadID uint64

	// Time is the monotonic host timestamp captured at append.
	Time time.Time

	// SeqNr correlates invocations of the same operation across phases, or
	// is negative when absent.
	SeqNr int64

	// Annotation is a free-form suffix attached by the instrumentation hook.
	Annotation string

	// Shapes holds one entry per call-site argument when shape reporting is
	// on. Arguments without a reportable shape contribute a nil entry.
	Shapes [][]int64

	// Handle is the device timer snapshot, present only for events recorded
	// in device-synchronized mode.
	Handle *acceltimer.Handle
}

// CPUElapsed returns the host-clock time from e to later.
func (e Event) CPUElapsed(later Event) time.Duration {
	return later.Time.Sub(e.Time)
}

// HasDeviceTime reports whether a device timer snapshot was requested for
// this event.
func (e Event) HasDeviceTime() bool {
	return e.Handle != nil
}

// DeviceElapsed resolves the device-clock time from e to later through the
// backend. It fails with acceltimer.ErrNotRecorded when either event carries
// no device snapshot and with acceltimer.ErrCrossDeviceMismatch when the
// snapshots live on different devices.
func (e Event) DeviceElapsed(
	backend acceltimer.Backend,
	later Event,
) (time.Duration, error) {
	if e.Handle == nil || later.Handle == nil {
		return 0, acceltimer.ErrNotRecorded
	}

	return backend.Elapsed(e.Handle, later.Handle)
}
