package profiling

import "sync"

const eventBlockSize = 1024

// A RangeEventList is the append-only event buffer of one thread. The owning
// session's map mutex protects list creation only; appends synchronize on
// the list's own lock, which is uncontended except when a range pushed on
// this thread is popped from another goroutine.
//
// Storage grows in fixed-size blocks so that appends never move events that
// were already recorded.
type RangeEventList struct {
	mu     sync.Mutex
	blocks [][]Event
	count  int
}

func newRangeEventList() *RangeEventList {
	return &RangeEventList{
		blocks: [][]Event{make([]Event, 0, eventBlockSize)},
	}
}

func (l *RangeEventList) record(ev Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	last := l.blocks[len(l.blocks)-1]
	if len(last) == cap(last) {
		last = make([]Event, 0, eventBlockSize)
		l.blocks = append(l.blocks, last)
	}

	l.blocks[len(l.blocks)-1] = append(last, ev)
	l.count++
}

// consolidate returns the list contents in append order. It is called once,
// after recording has stopped; the list is considered closed afterwards.
func (l *RangeEventList) consolidate() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	events := make([]Event, 0, l.count)
	for _, block := range l.blocks {
		events = append(events, block...)
	}

	return events
}
