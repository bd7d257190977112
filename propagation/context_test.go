package propagation_test

import (
	"github.com/sarchlab/rangeprof/propagation"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Context", func() {
	var c *propagation.Context

	BeforeEach(func() {
		c = propagation.NewContext()
	})

	It("should assign unique thread IDs", func() {
		c2 := propagation.NewContext()

		Expect(c.ThreadID()).NotTo(Equal(c2.ThreadID()))
	})

	It("should return nil for an empty slot", func() {
		Expect(c.Get(propagation.SlotProfiler)).To(BeNil())
	})

	It("should install and reveal values in LIFO order", func() {
		g1 := c.Push(propagation.SlotProfiler, "outer")
		Expect(c.Get(propagation.SlotProfiler)).To(Equal("outer"))

		g2 := c.Push(propagation.SlotProfiler, "inner")
		Expect(c.Get(propagation.SlotProfiler)).To(Equal("inner"))

		g2.Release()
		Expect(c.Get(propagation.SlotProfiler)).To(Equal("outer"))

		g1.Release()
		Expect(c.Get(propagation.SlotProfiler)).To(BeNil())
	})

	It("should keep slots independent", func() {
		g := c.Push(propagation.SlotProfiler, "session")

		Expect(c.Get(propagation.SlotDispatch)).To(BeNil())

		g.Release()
	})

	It("should panic on double release", func() {
		g := c.Push(propagation.SlotProfiler, "session")
		g.Release()

		Expect(func() { g.Release() }).To(Panic())
	})

	It("should panic on out-of-order release", func() {
		g1 := c.Push(propagation.SlotProfiler, "outer")
		c.Push(propagation.SlotProfiler, "inner")

		Expect(func() { g1.Release() }).To(Panic())
	})

	Context("when transferring snapshots", func() {
		It("should capture the values visible at hand-off time", func() {
			c.Push(propagation.SlotProfiler, "session")

			snapshot := c.Snapshot()
			worker := snapshot.NewContext()

			Expect(worker.Get(propagation.SlotProfiler)).To(Equal("session"))
			Expect(worker.ThreadID()).NotTo(Equal(c.ThreadID()))
		})

		It("should isolate mutations after hand-off", func() {
			g := c.Push(propagation.SlotProfiler, "session")

			snapshot := c.Snapshot()
			worker := snapshot.NewContext()

			g.Release()
			Expect(worker.Get(propagation.SlotProfiler)).To(Equal("session"))

			wg := worker.Push(propagation.SlotProfiler, "worker-session")
			Expect(c.Get(propagation.SlotProfiler)).To(BeNil())

			wg.Release()
		})

		It("should restore a snapshot onto an existing context", func() {
			c.Push(propagation.SlotProfiler, "session")
			snapshot := c.Snapshot()

			other := propagation.NewContext()
			og := other.Push(propagation.SlotProfiler, "previous")

			g := other.Restore(snapshot)
			Expect(other.Get(propagation.SlotProfiler)).To(Equal("session"))

			g.Release()
			Expect(other.Get(propagation.SlotProfiler)).To(Equal("previous"))

			og.Release()
		})

		It("should not install empty slots on restore", func() {
			snapshot := c.Snapshot()

			other := propagation.NewContext()
			g := other.Restore(snapshot)

			Expect(other.Get(propagation.SlotProfiler)).To(BeNil())

			g.Release()
		})
	})
})
