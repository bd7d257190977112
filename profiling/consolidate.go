package profiling

import (
	"sort"
)

// ThreadEvents is the consolidated buffer of one thread.
type ThreadEvents struct {
	ThreadID uint64
	Events   []Event
}

// ThreadEventLists is the consolidated result of a session: one entry per
// thread that recorded anything, ordered by thread ID. Events within a thread
// keep their append order; no ordering is implied across threads.
type ThreadEventLists []ThreadEvents

// Flatten concatenates all per-thread buffers, keeping threads grouped.
func (l ThreadEventLists) Flatten() []Event {
	total := 0
	for _, t := range l {
		total += len(t.Events)
	}

	events := make([]Event, 0, total)
	for _, t := range l {
		events = append(events, t.Events...)
	}

	return events
}

// Consolidate merges every per-thread buffer into one result. It is called
// by Disable; calling it a second time fails with ErrAlreadyConsolidated.
func (s *Session) Consolidate() (ThreadEventLists, error) {
	s.consolidateMu.Lock()
	defer s.consolidateMu.Unlock()

	if s.consolidated {
		return nil, ErrAlreadyConsolidated
	}
	s.consolidated = true

	s.listsMu.Lock()
	defer s.listsMu.Unlock()

	result := make(ThreadEventLists, 0, len(s.lists))
	for threadID, list := range s.lists {
		result = append(result, ThreadEvents{
			ThreadID: threadID,
			Events:   list.consolidate(),
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ThreadID < result[j].ThreadID
	})

	return result, nil
}
