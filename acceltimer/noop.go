package acceltimer

import "time"

// NoopBackend is the backend used when no timer subsystem is present. It
// reports itself unavailable and leaves handles unrecorded.
type NoopBackend struct{}

// NewNoopBackend creates a disabled backend.
func NewNoopBackend() *NoopBackend {
	return &NoopBackend{}
}

// Available always reports false.
func (b *NoopBackend) Available() bool {
	return false
}

// Mark does nothing.
func (b *NoopBackend) Mark(_ string) {
	// Do nothing
}

// RangePush does nothing.
func (b *NoopBackend) RangePush(_ string) {
	// Do nothing
}

// RangePop does nothing.
func (b *NoopBackend) RangePop() {
	// Do nothing
}

// RecordEvent leaves the handle unrecorded.
func (b *NoopBackend) RecordEvent(_ int, _ *Handle, _ int64) {
	// Do nothing
}

// Elapsed always fails with ErrNotRecorded, since no handle ever receives a
// device timestamp from this backend.
func (b *NoopBackend) Elapsed(_, _ *Handle) (time.Duration, error) {
	return 0, ErrNotRecorded
}

// ForEachDevice sees no devices.
func (b *NoopBackend) ForEachDevice(_ func(device int)) {
	// Do nothing
}

// SynchronizeAll does nothing.
func (b *NoopBackend) SynchronizeAll() {
	// Do nothing
}

var _ Backend = (*NoopBackend)(nil)
