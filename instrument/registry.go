// Package instrument dispatches entry/exit callbacks around named regions of
// work.
//
// Call sites bracket their work with Begin and End (or use Record). A
// process-wide registry holds the installed callback pairs; the profiler
// installs one such pair while a session is enabled. Dispatch never affects
// the instrumented work: with no callbacks registered, Begin and End are
// nearly free, and callbacks are forbidden from re-entering the dispatcher on
// the same context.
package instrument

import (
	"sync"
)

// Scope classifies an instrumented call site. Callback pairs can restrict
// themselves to a subset of scopes.
type Scope int

// Available scopes.
const (
	// ScopeFunction marks built-in operations instrumented by the runtime.
	ScopeFunction Scope = iota

	// ScopeUser marks regions bracketed explicitly by user code.
	ScopeUser
)

// A Callback observes one side of a region. The same *Region value is passed
// to the entry and exit callbacks of a pair, even when the region completes
// on a different goroutine than the one that started it.
type Callback func(r *Region)

// Options filters when a callback pair fires.
type Options struct {
	// Scopes lists the scopes the pair is interested in. Empty means all
	// scopes.
	Scopes []Scope

	// NeedsInputs requests that call-site argument values be retained on the
	// Region for shape introspection.
	NeedsInputs bool
}

func (o Options) matches(scope Scope) bool {
	if len(o.Scopes) == 0 {
		return true
	}

	for _, s := range o.Scopes {
		if s == scope {
			return true
		}
	}

	return false
}

// A Handle identifies a registered callback pair. Its only use is
// unregistering the pair.
type Handle uint64

type callbackPair struct {
	handle  Handle
	onEntry Callback
	onExit  Callback
	options Options
}

type registry struct {
	mu         sync.RWMutex
	nextHandle Handle
	pairs      []callbackPair
}

var globalRegistry = &registry{}

// RegisterEntryExit installs a callback pair invoked around every
// instrumented region matching the options. Either callback may be nil.
func RegisterEntryExit(
	onEntry, onExit Callback,
	options Options,
) Handle {
	r := globalRegistry

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextHandle++
	handle := r.nextHandle

	r.pairs = append(r.pairs, callbackPair{
		handle:  handle,
		onEntry: onEntry,
		onExit:  onExit,
		options: options,
	})

	return handle
}

// Unregister removes a previously registered callback pair. Unregistering an
// unknown handle is a no-op.
func Unregister(handle Handle) {
	r := globalRegistry

	r.mu.Lock()
	defer r.mu.Unlock()

	pairs := make([]callbackPair, 0, len(r.pairs))
	for _, p := range r.pairs {
		if p.handle != handle {
			pairs = append(pairs, p)
		}
	}

	r.pairs = pairs
}

// NumCallbacks returns the number of installed callback pairs.
func NumCallbacks() int {
	r := globalRegistry

	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.pairs)
}

func (r *registry) snapshot() []callbackPair {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.pairs
}

func anyPairNeedsInputs(pairs []callbackPair, scope Scope) bool {
	for _, p := range pairs {
		if p.options.matches(scope) && p.options.NeedsInputs {
			return true
		}
	}

	return false
}
