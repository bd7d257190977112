package profiling

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/rangeprof/instrument"
)

// registerProfilerCallbacks installs the entry/exit pair that turns
// instrumented regions into push/pop events for one session. The registry is
// process-wide, so when several sessions are live every pair sees every
// region; each pair records only regions whose propagated context carries its
// own session. A region started under one session and completed after that
// session ended simply records nothing.
func (s *Session) registerProfilerCallbacks() instrument.Handle {
	options := instrument.Options{
		Scopes: []instrument.Scope{
			instrument.ScopeFunction,
			instrument.ScopeUser,
		},
		NeedsInputs: s.config.ReportInputShapes,
	}

	return instrument.RegisterEntryExit(s.profilerEntry, s.profilerExit, options)
}

func (s *Session) profilerEntry(r *instrument.Region) {
	if sessionFrom(r.Context()) != s || s.isDisabled() {
		return
	}

	annotation := ""
	if r.SeqNr() >= 0 {
		annotation = ", seq = "
	}

	var shapes [][]int64
	if s.config.ReportInputShapes {
		shapes = inputShapes(r.Inputs())
	}

	s.PushRange(r.EntryThreadID(), r.Name(), annotation, r.SeqNr(), shapes)
}

func (s *Session) profilerExit(r *instrument.Region) {
	if sessionFrom(r.Context()) != s || s.isDisabled() {
		return
	}

	s.PopRange(r.EntryThreadID())
}

// inputShapes extracts one shape per call-site argument. Arguments that
// cannot report a shape contribute a nil entry so positions stay aligned.
func inputShapes(inputs []any) [][]int64 {
	shapes := make([][]int64, 0, len(inputs))
	for _, input := range inputs {
		shaper, ok := input.(instrument.Shaper)
		if !ok {
			shapes = append(shapes, nil)
			continue
		}

		shapes = append(shapes, append([]int64(nil), shaper.Shape()...))
	}

	return shapes
}

// externalRangeLabel formats the label forwarded to the backend timeline in
// external-trace mode, folding in the sequence number and argument shapes.
func externalRangeLabel(
	name, annotation string,
	seqNr int64,
	shapes [][]int64,
) string {
	if seqNr < 0 && len(shapes) == 0 {
		return name
	}

	var b strings.Builder
	b.WriteString(name)

	if seqNr >= 0 {
		b.WriteString(annotation)
		b.WriteString(strconv.FormatInt(seqNr, 10))
	}

	if len(shapes) > 0 {
		b.WriteString(", sizes = [")
		for i, shape := range shapes {
			if i > 0 {
				b.WriteString(", ")
			}
			writeShape(&b, shape)
		}
		b.WriteString("]")
	}

	return b.String()
}

func writeShape(b *strings.Builder, shape []int64) {
	b.WriteString("[")
	for i, dim := range shape {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(b, "%d", dim)
	}
	b.WriteString("]")
}
