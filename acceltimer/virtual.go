package acceltimer

import (
	"sync"
	"time"
)

// VirtualBackend is a software implementation of Backend driven by explicit
// per-device clocks. It stands in for real accelerator hardware in tests and
// demo workloads: clocks only move when Advance is called, which makes device
// elapsed times fully deterministic.
type VirtualBackend struct {
	mu sync.Mutex

	deviceClocks []int64
	marks        []string
	rangeDepth   int
}

// NewVirtualBackend creates a backend with numDevices virtual devices, all
// with their clocks at zero.
func NewVirtualBackend(numDevices int) *VirtualBackend {
	return &VirtualBackend{
		deviceClocks: make([]int64, numDevices),
	}
}

// Advance moves one device clock forward.
func (b *VirtualBackend) Advance(device int, d time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.deviceClocks[device] += d.Nanoseconds()
}

// Marks returns the names passed to Mark, in order.
func (b *VirtualBackend) Marks() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return append([]string(nil), b.marks...)
}

// RangeDepth returns the current open-range nesting depth.
func (b *VirtualBackend) RangeDepth() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.rangeDepth
}

// Available always reports true.
func (b *VirtualBackend) Available() bool {
	return true
}

// Mark records the annotation name.
func (b *VirtualBackend) Mark(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.marks = append(b.marks, name)
}

// RangePush opens a region.
func (b *VirtualBackend) RangePush(_ string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.rangeDepth++
}

// RangePop closes a region.
func (b *VirtualBackend) RangePop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.rangeDepth == 0 {
		panic("range pop without a matching push")
	}

	b.rangeDepth--
}

// RecordEvent snapshots the device clock into the handle immediately.
func (b *VirtualBackend) RecordEvent(device int, handle *Handle, hostNs int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	handle.device = device
	handle.deviceNs = b.deviceClocks[device]
	handle.hostNs = hostNs
	handle.recorded = true
}

// Elapsed returns the device clock distance between two snapshots.
func (b *VirtualBackend) Elapsed(a, c *Handle) (time.Duration, error) {
	if !a.recorded || !c.recorded {
		return 0, ErrNotRecorded
	}

	if a.device != c.device {
		return 0, ErrCrossDeviceMismatch
	}

	return time.Duration(c.deviceNs - a.deviceNs), nil
}

// ForEachDevice visits every virtual device in order.
func (b *VirtualBackend) ForEachDevice(fn func(device int)) {
	for d := range b.deviceClocks {
		fn(d)
	}
}

// SynchronizeAll does nothing; virtual devices have no outstanding work.
func (b *VirtualBackend) SynchronizeAll() {
	// Do nothing
}

var _ Backend = (*VirtualBackend)(nil)
