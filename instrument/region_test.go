package instrument

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rangeprof/propagation"
)

type fakeTensor struct {
	shape []int64
}

func (t fakeTensor) Shape() []int64 {
	return t.shape
}

var _ = Describe("Region dispatch", func() {
	var (
		pctx    *propagation.Context
		handles []Handle
	)

	BeforeEach(func() {
		pctx = propagation.NewContext()
		handles = nil
	})

	AfterEach(func() {
		for _, h := range handles {
			Unregister(h)
		}
		Expect(NumCallbacks()).To(Equal(0))
	})

	register := func(onEntry, onExit Callback, options Options) {
		handles = append(handles,
			RegisterEntryExit(onEntry, onExit, options))
	}

	It("should invoke entry and exit callbacks around a region", func() {
		var names []string

		register(
			func(r *Region) { names = append(names, "entry:"+r.Name()) },
			func(r *Region) { names = append(names, "exit:"+r.Name()) },
			Options{},
		)

		Record(pctx, "matmul", ScopeFunction, func() {
			names = append(names, "body")
		})

		Expect(names).To(Equal([]string{"entry:matmul", "body", "exit:matmul"}))
	})

	It("should filter by scope", func() {
		count := 0

		register(
			func(r *Region) { count++ },
			nil,
			Options{Scopes: []Scope{ScopeUser}},
		)

		End(Begin(pctx, "op", ScopeFunction))

		Expect(count).To(Equal(0))
	})

	It("should retain inputs only when requested", func() {
		var seen []any

		register(
			func(r *Region) { seen = r.Inputs() },
			nil,
			Options{},
		)

		End(Begin(pctx, "op", ScopeFunction, fakeTensor{shape: []int64{2, 3}}))

		Expect(seen).To(BeNil())
	})

	It("should pass inputs to callbacks that need them", func() {
		var seen []any

		register(
			func(r *Region) { seen = r.Inputs() },
			nil,
			Options{NeedsInputs: true},
		)

		End(Begin(pctx, "op", ScopeFunction, fakeTensor{shape: []int64{2, 3}}, 7))

		Expect(seen).To(HaveLen(2))
		Expect(seen[0].(Shaper).Shape()).To(Equal([]int64{2, 3}))
	})

	It("should capture the entry thread ID", func() {
		var entryTID, exitTID uint64

		register(
			func(r *Region) { entryTID = r.EntryThreadID() },
			func(r *Region) { exitTID = r.EntryThreadID() },
			Options{},
		)

		r := Begin(pctx, "op", ScopeFunction)

		done := make(chan struct{})
		go func() {
			defer close(done)
			End(r)
		}()
		<-done

		Expect(entryTID).To(Equal(pctx.ThreadID()))
		Expect(exitTID).To(Equal(pctx.ThreadID()))
	})

	It("should not dispatch callbacks re-entering from a callback", func() {
		depth := 0
		maxDepth := 0

		register(
			func(r *Region) {
				depth++
				if depth > maxDepth {
					maxDepth = depth
				}

				if depth == 1 {
					End(Begin(r.Context(), "inner", ScopeFunction))
				}
				depth--
			},
			nil,
			Options{},
		)

		End(Begin(pctx, "outer", ScopeFunction))

		Expect(maxDepth).To(Equal(1))
	})

	It("should stop dispatching after unregistering", func() {
		count := 0

		h := RegisterEntryExit(
			func(r *Region) { count++ },
			nil,
			Options{},
		)
		Unregister(h)

		End(Begin(pctx, "op", ScopeFunction))

		Expect(count).To(Equal(0))
	})
})
