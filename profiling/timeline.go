package profiling

import (
	"errors"
	"time"
)

// Export-time errors. An export failure never discards the consolidated raw
// events, which stay available to the caller for other processing.
var (
	// ErrMissingStartMarker is returned when the consolidated events carry
	// no MarkStartProfile anchor.
	ErrMissingStartMarker = errors.New(
		"no start_profile mark in the consolidated events")

	// ErrUnbalancedRange is returned when a pop event has no pending push on
	// its thread.
	ErrUnbalancedRange = errors.New("range pop without a matching push")

	// ErrExportIO wraps write failures while emitting a trace.
	ErrExportIO = errors.New("failed to write trace")
)

// A RangeRecord is one completed range on the reconstructed timeline. Times
// are microseconds relative to the session's MarkStartProfile anchor, the
// format timeline viewers expect.
type RangeRecord struct {
	Name       string
	ThreadID   uint64
	StartUS    float64
	DurationUS float64
}

// BuildTimeline stack-matches push/pop events per thread, anchored at the
// MarkStartProfile mark, and returns one record per completed range. Threads
// stay grouped; ranges within a thread appear in completion order. Ranges
// still open when recording stopped are dropped.
func BuildTimeline(lists ThreadEventLists) ([]RangeRecord, error) {
	anchor, found := findStartMark(lists)
	if !found {
		return nil, ErrMissingStartMarker
	}

	records := []RangeRecord{}

	for _, thread := range lists {
		var stack []Event

		for _, ev := range thread.Events {
			switch ev.Kind {
			case KindPushRange:
				stack = append(stack, ev)
			case KindPopRange:
				if len(stack) == 0 {
					return nil, ErrUnbalancedRange
				}

				push := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				records = append(records, RangeRecord{
					Name:       push.Name,
					ThreadID:   thread.ThreadID,
					StartUS:    microseconds(anchor.CPUElapsed(push)),
					DurationUS: microseconds(push.CPUElapsed(ev)),
				})
			case KindMark:
				// Marks carry no duration; only the anchor matters here.
			}
		}
	}

	return records, nil
}

func findStartMark(lists ThreadEventLists) (Event, bool) {
	for _, thread := range lists {
		for _, ev := range thread.Events {
			if ev.Kind == KindMark && ev.Name == MarkStartProfile {
				return ev, true
			}
		}
	}

	return Event{}, false
}

func microseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e3
}
