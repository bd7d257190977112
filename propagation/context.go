// Package propagation carries profiling state across goroutine boundaries.
//
// A Context is a per-worker, stack-scoped mapping from reserved slots to
// opaque shared values. It replaces implicit thread-local storage: each
// worker goroutine owns exactly one Context and passes it (or a Snapshot of
// it) to any work it hands off. Values pushed into a slot hide, but preserve,
// whatever was installed before, and a Guard restores the previous value on
// every exit path.
package propagation

import (
	"sync/atomic"
)

// Slot identifies a reserved entry in a Context.
type Slot int

// Reserved slots. SlotProfiler carries the active profiling session.
// SlotDispatch is used by the instrumentation dispatch layer to suppress
// re-entrant hook invocation.
const (
	SlotProfiler Slot = iota
	SlotDispatch
	numSlots
)

var threadIDCounter atomic.Uint64

// A Context is a per-worker slot store. A Context must only be used by the
// goroutine that owns it; cross-goroutine transfer goes through Snapshot.
type Context struct {
	threadID uint64
	slots    [numSlots][]any
}

// NewContext creates a Context with a fresh, process-unique thread ID.
func NewContext() *Context {
	return &Context{
		threadID: threadIDCounter.Add(1),
	}
}

// ThreadID returns the process-unique ID of the worker that owns this
// Context. Events recorded through this Context are attributed to this ID.
func (c *Context) ThreadID() uint64 {
	return c.threadID
}

// Get returns the value currently installed at the slot, or nil.
func (c *Context) Get(slot Slot) any {
	stack := c.slots[slot]
	if len(stack) == 0 {
		return nil
	}

	return stack[len(stack)-1]
}

// Push installs a value at the slot, hiding any previous value. Releasing the
// returned Guard reveals the previous value again. Guards must be released in
// LIFO order per slot.
func (c *Context) Push(slot Slot, value any) *Guard {
	c.slots[slot] = append(c.slots[slot], value)

	return &Guard{
		ctx:   c,
		slot:  slot,
		depth: len(c.slots[slot]),
	}
}

// Snapshot captures the value currently visible at every slot. The captured
// values are shared references, not deep copies: after the snapshot is taken,
// pushes and pops in this Context do not affect the snapshot, and installing
// the snapshot elsewhere does not affect this Context.
func (c *Context) Snapshot() Snapshot {
	var s Snapshot
	for slot := Slot(0); slot < numSlots; slot++ {
		s.values[slot] = c.Get(slot)
	}

	return s
}

// Restore installs a snapshot wholesale on this Context. Releasing the
// returned Guard reverts every slot to its pre-restore state.
func (c *Context) Restore(s Snapshot) *Guard {
	g := &Guard{ctx: c, restore: true}
	for slot := Slot(0); slot < numSlots; slot++ {
		if s.values[slot] == nil {
			continue
		}

		c.slots[slot] = append(c.slots[slot], s.values[slot])
		g.restoreDepths[slot] = len(c.slots[slot])
	}

	return g
}

// A Snapshot is a transferable copy of the values visible in a Context at
// hand-off time.
type Snapshot struct {
	values [numSlots]any
}

// NewContext creates a fresh Context, with its own thread ID, that starts
// with the snapshot installed. This is the usual entry point for a spawned
// worker goroutine.
func (s Snapshot) NewContext() *Context {
	c := NewContext()
	for slot := Slot(0); slot < numSlots; slot++ {
		if s.values[slot] != nil {
			c.slots[slot] = append(c.slots[slot], s.values[slot])
		}
	}

	return c
}

// A Guard undoes a Push or Restore. Guards deterministically restore the
// previous slot state and must be released exactly once.
type Guard struct {
	ctx      *Context
	released bool

	slot  Slot
	depth int

	restore       bool
	restoreDepths [numSlots]int
}

// Release reverts the slots covered by this guard to their state before the
// corresponding Push or Restore.
func (g *Guard) Release() {
	if g.released {
		panic("guard already released")
	}
	g.released = true

	if g.restore {
		g.releaseRestore()
		return
	}

	g.ctx.popTo(g.slot, g.depth)
}

func (g *Guard) releaseRestore() {
	for slot := Slot(0); slot < numSlots; slot++ {
		if g.restoreDepths[slot] > 0 {
			g.ctx.popTo(slot, g.restoreDepths[slot])
		}
	}
}

func (c *Context) popTo(slot Slot, depth int) {
	if len(c.slots[slot]) != depth {
		panic("guards must be released in LIFO order")
	}

	c.slots[slot] = c.slots[slot][:depth-1]
}
