package instrument

import (
	"github.com/sarchlab/rangeprof/propagation"
)

// A Shaper is the opaque capability a call-site argument can implement to
// report a tensor-like shape. Arguments that cannot report a shape contribute
// an empty entry.
type Shaper interface {
	Shape() []int64
}

// NoSeqNr marks a region with no sequence number.
const NoSeqNr int64 = -1

// A Region is one in-flight instrumented invocation. It is created by Begin
// on the starting goroutine and may be completed by End on any goroutine; the
// context and thread ID captured at entry travel with it.
type Region struct {
	ctx           *propagation.Context
	name          string
	scope         Scope
	seqNr         int64
	inputs        []any
	entryThreadID uint64

	pairs []callbackPair
}

// Name returns the region name.
func (r *Region) Name() string {
	return r.name
}

// Scope returns the scope of the call site.
func (r *Region) Scope() Scope {
	return r.scope
}

// SeqNr returns the sequence number of the invocation, or NoSeqNr.
func (r *Region) SeqNr() int64 {
	return r.seqNr
}

// Inputs returns the call-site arguments, if a registered callback requested
// them. Otherwise it returns nil.
func (r *Region) Inputs() []any {
	return r.inputs
}

// Context returns the propagation context of the goroutine that entered the
// region.
func (r *Region) Context() *propagation.Context {
	return r.ctx
}

// EntryThreadID returns the thread ID of the goroutine that entered the
// region. Exit callbacks use it to attribute completion to the entry thread,
// even when End runs elsewhere.
func (r *Region) EntryThreadID() uint64 {
	return r.entryThreadID
}

// Begin enters a named region and invokes the entry side of every matching
// callback pair. The returned Region must be passed to End exactly once.
//
// Begin invoked from inside a callback on the same context dispatches no
// callbacks, so observers can never recursively observe themselves.
func Begin(
	pctx *propagation.Context,
	name string,
	scope Scope,
	inputs ...any,
) *Region {
	return BeginWithSeqNr(pctx, name, scope, NoSeqNr, inputs...)
}

// BeginWithSeqNr is Begin with an explicit sequence number attached, used
// when invocations of the same operation must be correlated across phases.
func BeginWithSeqNr(
	pctx *propagation.Context,
	name string,
	scope Scope,
	seqNr int64,
	inputs ...any,
) *Region {
	r := &Region{
		ctx:           pctx,
		name:          name,
		scope:         scope,
		seqNr:         seqNr,
		entryThreadID: pctx.ThreadID(),
	}

	if pctx.Get(propagation.SlotDispatch) != nil {
		return r
	}

	pairs := globalRegistry.snapshot()
	if len(pairs) == 0 {
		return r
	}

	if anyPairNeedsInputs(pairs, scope) {
		r.inputs = inputs
	}

	r.pairs = pairs

	guard := pctx.Push(propagation.SlotDispatch, dispatchMarker{})
	defer guard.Release()

	for _, p := range pairs {
		if p.onEntry != nil && p.options.matches(scope) {
			p.onEntry(r)
		}
	}

	return r
}

// End leaves a region and invokes the exit side of the same callback pairs
// that observed the entry. End may be called from a different goroutine than
// Begin.
func End(r *Region) {
	if len(r.pairs) == 0 {
		return
	}

	for _, p := range r.pairs {
		if p.onExit != nil && p.options.matches(r.scope) {
			p.onExit(r)
		}
	}

	r.pairs = nil
}

// Record brackets fn with Begin and End.
func Record(
	pctx *propagation.Context,
	name string,
	scope Scope,
	fn func(),
	inputs ...any,
) {
	r := Begin(pctx, name, scope, inputs...)
	defer End(r)

	fn()
}

type dispatchMarker struct{}
