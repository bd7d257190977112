// Package profiling records nested timing ranges and point-in-time marks
// from instrumented call sites, aggregates them per originating thread, and
// consolidates the result when profiling stops.
//
// A profiling run is one Session. Enable installs the session into the
// caller's propagation context and registers the instrumentation callbacks;
// every instrumented region that sees the session through its propagated
// context appends push/pop events into that thread's own buffer. Disable
// removes the session, drains in-flight recorders, and consolidates all
// per-thread buffers into one result.
package profiling

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/xid"

	"github.com/sarchlab/rangeprof/acceltimer"
	"github.com/sarchlab/rangeprof/instrument"
	"github.com/sarchlab/rangeprof/propagation"
)

// Session state-machine errors. These indicate misuse that would corrupt
// timing data and are never swallowed.
var (
	// ErrAlreadyEnabled is returned when enabling on a context that already
	// carries a session.
	ErrAlreadyEnabled = errors.New(
		"profiler is already enabled on this context")

	// ErrNotEnabled is returned when disabling a context that carries no
	// enabled session.
	ErrNotEnabled = errors.New("profiler is not enabled")

	// ErrAlreadyConsolidated is returned on a second consolidation of the
	// same session.
	ErrAlreadyConsolidated = errors.New("session is already consolidated")

	// ErrBackendUnavailable is returned when a mode requires the accelerator
	// timer subsystem but none is present.
	ErrBackendUnavailable = errors.New(
		"accelerator timer backend is not available")
)

// Well-known mark names emitted by the session itself.
const (
	// MarkStartProfile anchors all range offsets; emitted once per session,
	// in every mode that records locally.
	MarkStartProfile = "start_profile"

	// MarkStopProfile is the final event of a session.
	MarkStopProfile = "stop_profile"

	// MarkDeviceStart anchors device-clock-to-host-clock correlation;
	// emitted once per device in device-synchronized mode.
	MarkDeviceStart = "device_start_event"

	markAccelWarmup = "accel_startup"
)

// Device timer snapshots have measurable startup overhead, so a few
// throwaway events are emitted before the correlation anchors.
const accelWarmupIterations = 5

type sessionState int32

const (
	stateEnabled sessionState = iota
	stateDisabled
)

// A Session is one profiling run. Sessions are created by Enable and live in
// a propagation context slot until Disable.
type Session struct {
	id      string
	config  Config
	backend acceltimer.Backend

	state atomic.Int32

	// gate closes the race between late in-flight recorders and
	// consolidation: every record call holds a read lock, and Disable takes
	// the write lock after flipping the state, so consolidation starts only
	// once every recorder that saw the enabled state has finished.
	gate sync.RWMutex

	listsMu sync.RWMutex
	lists   map[uint64]*RangeEventList

	enableCtx      *propagation.Context
	slotGuard      *propagation.Guard
	callbackHandle instrument.Handle

	consolidateMu sync.Mutex
	consolidated  bool
}

// Enable starts a profiling session on the given context. It fails with
// ErrAlreadyEnabled when the context already carries a session, and with
// ErrBackendUnavailable when the mode needs a timer backend that is not
// available. Nested profiling on the same worker requires a disjoint context
// (see propagation.Snapshot), not a second Enable.
func Enable(pctx *propagation.Context, config Config) (*Session, error) {
	if sessionFrom(pctx) != nil {
		return nil, ErrAlreadyEnabled
	}

	backend := config.backendOrNoop()

	needsBackend := config.Mode == ModeDeviceSynchronized ||
		config.Mode == ModeExternalTrace
	if needsBackend && !backend.Available() {
		return nil, ErrBackendUnavailable
	}

	s := &Session{
		id:      xid.New().String(),
		config:  config,
		backend: backend,
		lists:   make(map[uint64]*RangeEventList),
	}

	s.enableCtx = pctx
	s.slotGuard = pctx.Push(propagation.SlotProfiler, s)
	s.callbackHandle = s.registerProfilerCallbacks()

	if config.Mode == ModeDeviceSynchronized {
		s.warmUpDevices(pctx.ThreadID())
	}

	s.Mark(pctx.ThreadID(), MarkStartProfile, false)

	return s, nil
}

// warmUpDevices absorbs device timer startup overhead, then emits one
// correlation anchor per device.
func (s *Session) warmUpDevices(threadID uint64) {
	for i := 0; i < accelWarmupIterations; i++ {
		s.backend.ForEachDevice(func(device int) {
			s.markOnDevice(threadID, markAccelWarmup, device)
			s.backend.SynchronizeAll()
		})
	}

	s.backend.ForEachDevice(func(device int) {
		s.markOnDevice(threadID, MarkDeviceStart, device)
	})
}

// Disable stops the session installed on the context, removes it from the
// context, unregisters the instrumentation callbacks, and consolidates every
// per-thread buffer. It fails with ErrNotEnabled when the context carries no
// session, the session is already disabled, or the context is not the one
// Enable was called on.
func Disable(pctx *propagation.Context) (ThreadEventLists, error) {
	s := sessionFrom(pctx)
	if s == nil || s.isDisabled() {
		return nil, ErrNotEnabled
	}

	if s.enableCtx != pctx {
		return nil, ErrNotEnabled
	}

	if s.config.Mode != ModeExternalTrace {
		s.Mark(pctx.ThreadID(), MarkStopProfile, false)
	}

	s.slotGuard.Release()
	instrument.Unregister(s.callbackHandle)

	s.state.Store(int32(stateDisabled))
	s.gate.Lock()
	s.gate.Unlock()

	if s.config.Mode == ModeExternalTrace {
		return ThreadEventLists{}, nil
	}

	return s.Consolidate()
}

// Enabled reports whether the context carries a live session.
func Enabled(pctx *propagation.Context) bool {
	s := sessionFrom(pctx)

	return s != nil && !s.isDisabled() && s.config.Mode != ModeDisabled
}

// Mark records a convenience mark against the session carried by the
// context. It is a no-op when no session is enabled.
func Mark(pctx *propagation.Context, name string) {
	s := sessionFrom(pctx)
	if s == nil {
		return
	}

	s.Mark(pctx.ThreadID(), name, true)
}

func sessionFrom(pctx *propagation.Context) *Session {
	s, ok := pctx.Get(propagation.SlotProfiler).(*Session)
	if !ok {
		return nil
	}

	return s
}

// ID returns the unique ID of the session.
func (s *Session) ID() string {
	return s.id
}

// Config returns the session configuration.
func (s *Session) Config() Config {
	return s.config
}

// Backend returns the accelerator timer backend used by the session.
func (s *Session) Backend() acceltimer.Backend {
	return s.backend
}

func (s *Session) isDisabled() bool {
	return sessionState(s.state.Load()) == stateDisabled ||
		s.config.Mode == ModeDisabled
}

// Mark appends a mark event to the thread's buffer. In external-trace mode
// the mark is forwarded to the backend timeline instead. No-op when the
// session is disabled; recording never fails outward.
func (s *Session) Mark(threadID uint64, name string, includeDeviceTime bool) {
	if s.isDisabled() {
		return
	}

	if s.config.Mode == ModeExternalTrace {
		s.backend.Mark(name)
		return
	}

	s.record(threadID, 0, includeDeviceTime, Event{
		Kind: KindMark,
		Name: name,
	})
}

func (s *Session) markOnDevice(threadID uint64, name string, device int) {
	if s.isDisabled() {
		return
	}

	s.record(threadID, device, true, Event{
		Kind: KindMark,
		Name: name,
	})
}

// PushRange opens a named range on the thread's buffer. In external-trace
// mode a formatted label is forwarded to the backend instead.
func (s *Session) PushRange(
	threadID uint64,
	name string,
	annotation string,
	seqNr int64,
	shapes [][]int64,
) {
	if s.isDisabled() {
		return
	}

	if s.config.Mode == ModeExternalTrace {
		s.backend.RangePush(externalRangeLabel(name, annotation, seqNr, shapes))
		return
	}

	s.record(threadID, 0, true, Event{
		Kind:       KindPushRange,
		Name:       name,
		SeqNr:      seqNr,
		Annotation: annotation,
		Shapes:     shapes,
	})
}

// PopRange closes the most recently opened range of the originating thread.
// Pushes and pops can be reported from different goroutines, so the caller
// passes the thread ID captured when the range was pushed; the pop is
// recorded into that thread's buffer, keeping the pair on one list.
func (s *Session) PopRange(originThreadID uint64) {
	if s.isDisabled() {
		return
	}

	if s.config.Mode == ModeExternalTrace {
		s.backend.RangePop()
		return
	}

	s.record(originThreadID, 0, true, Event{
		Kind:  KindPopRange,
		SeqNr: instrument.NoSeqNr,
	})
}

func (s *Session) record(
	threadID uint64,
	device int,
	includeDeviceTime bool,
	ev Event,
) {
	s.gate.RLock()
	defer s.gate.RUnlock()

	if sessionState(s.state.Load()) != stateEnabled {
		return
	}

	ev.ThreadID = threadID
	ev.Time = time.Now()

	if includeDeviceTime && s.config.Mode == ModeDeviceSynchronized {
		handle := &acceltimer.Handle{}
		s.backend.RecordEvent(device, handle, ev.Time.UnixNano())
		ev.Handle = handle
	}

	s.eventList(threadID).record(ev)
}

// eventList returns the thread's buffer, creating it on first use. Creation
// is the only path that takes the write lock; the recording fast path is a
// read lock on the map.
func (s *Session) eventList(threadID uint64) *RangeEventList {
	s.listsMu.RLock()
	list, ok := s.lists[threadID]
	s.listsMu.RUnlock()

	if ok {
		return list
	}

	s.listsMu.Lock()
	defer s.listsMu.Unlock()

	list, ok = s.lists[threadID]
	if !ok {
		list = newRangeEventList()
		s.lists[threadID] = list
	}

	return list
}
