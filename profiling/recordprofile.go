package profiling

import (
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/rangeprof/propagation"
)

// A RecordProfile is a scope-bound recorder: creating one enables CPU-mode
// profiling on the context, and Close disables it and writes the timeline as
// a trace-event JSON stream. Useful for bracketing a whole workload without
// touching the session API.
type RecordProfile struct {
	pctx  *propagation.Context
	w     io.Writer
	file  *os.File
	lists ThreadEventLists
}

// NewRecordProfile enables profiling and arranges for the trace to be
// written to w on Close.
func NewRecordProfile(
	pctx *propagation.Context,
	w io.Writer,
) (*RecordProfile, error) {
	_, err := Enable(pctx, Config{Mode: ModeCPU})
	if err != nil {
		return nil, err
	}

	return &RecordProfile{pctx: pctx, w: w}, nil
}

// NewRecordProfileFile enables profiling and writes the trace into the named
// file on Close.
func NewRecordProfileFile(
	pctx *propagation.Context,
	filename string,
) (*RecordProfile, error) {
	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExportIO, err)
	}

	rp, err := NewRecordProfile(pctx, f)
	if err != nil {
		f.Close()
		return nil, err
	}

	rp.file = f

	return rp, nil
}

// Close disables profiling and writes the export. On export failure the
// error is returned, the underlying file, if any, is still closed, and the
// consolidated raw events stay available through Events.
func (rp *RecordProfile) Close() error {
	lists, err := Disable(rp.pctx)
	if err != nil {
		rp.closeFile()
		return err
	}

	rp.lists = lists

	records, err := BuildTimeline(lists)
	if err != nil {
		rp.closeFile()
		return err
	}

	err = WriteTrace(rp.w, records)
	if err != nil {
		rp.closeFile()
		return err
	}

	return rp.closeFile()
}

// Events returns the consolidated raw events of the recorded session. It is
// populated by Close and remains available when the export itself failed.
func (rp *RecordProfile) Events() ThreadEventLists {
	return rp.lists
}

func (rp *RecordProfile) closeFile() error {
	if rp.file == nil {
		return nil
	}

	err := rp.file.Close()
	rp.file = nil
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExportIO, err)
	}

	return nil
}
