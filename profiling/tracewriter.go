package profiling

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// traceEvent is one complete-duration record in the trace event format that
// common timeline viewers accept.
type traceEvent struct {
	Name      string   `json:"name"`
	Phase     string   `json:"ph"`
	Timestamp float64  `json:"ts"`
	Duration  float64  `json:"dur"`
	ThreadID  uint64   `json:"tid"`
	ProcessID string   `json:"pid"`
	Args      struct{} `json:"args"`
}

// WriteTrace renders the timeline as a trace-event JSON array, one "X"
// record per completed range. Write failures are reported as ErrExportIO.
func WriteTrace(w io.Writer, records []RangeRecord) error {
	events := make([]traceEvent, 0, len(records))
	for _, r := range records {
		events = append(events, traceEvent{
			Name:      r.Name,
			Phase:     "X",
			Timestamp: r.StartUS,
			Duration:  r.DurationUS,
			ThreadID:  r.ThreadID,
			ProcessID: "CPU Functions",
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	err := encoder.Encode(events)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExportIO, err)
	}

	return nil
}

// WriteTraceFile writes the timeline into a file.
func WriteTraceFile(filename string, records []RangeRecord) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExportIO, err)
	}
	defer f.Close()

	return WriteTrace(f, records)
}
