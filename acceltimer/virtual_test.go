package acceltimer

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("VirtualBackend", func() {
	var b *VirtualBackend

	BeforeEach(func() {
		b = NewVirtualBackend(2)
	})

	It("should be available", func() {
		Expect(b.Available()).To(BeTrue())
	})

	It("should visit every device", func() {
		devices := []int{}
		b.ForEachDevice(func(d int) {
			devices = append(devices, d)
		})

		Expect(devices).To(Equal([]int{0, 1}))
	})

	It("should measure elapsed device time", func() {
		a := &Handle{}
		b.RecordEvent(0, a, 100)

		b.Advance(0, 3*time.Millisecond)

		c := &Handle{}
		b.RecordEvent(0, c, 200)

		elapsed, err := b.Elapsed(a, c)
		Expect(err).To(BeNil())
		Expect(elapsed).To(Equal(3 * time.Millisecond))
	})

	It("should reject unrecorded handles", func() {
		a := &Handle{}
		c := &Handle{}
		b.RecordEvent(0, c, 0)

		_, err := b.Elapsed(a, c)
		Expect(err).To(MatchError(ErrNotRecorded))
	})

	It("should reject handles from different devices", func() {
		a := &Handle{}
		c := &Handle{}
		b.RecordEvent(0, a, 0)
		b.RecordEvent(1, c, 0)

		_, err := b.Elapsed(a, c)
		Expect(err).To(MatchError(ErrCrossDeviceMismatch))
	})

	It("should track range nesting depth", func() {
		b.RangePush("outer")
		b.RangePush("inner")
		Expect(b.RangeDepth()).To(Equal(2))

		b.RangePop()
		Expect(b.RangeDepth()).To(Equal(1))
	})
})

var _ = Describe("NoopBackend", func() {
	It("should report unavailable", func() {
		b := NewNoopBackend()

		Expect(b.Available()).To(BeFalse())
	})

	It("should never record device timestamps", func() {
		b := NewNoopBackend()

		h := &Handle{}
		b.RecordEvent(0, h, 0)

		Expect(h.Recorded()).To(BeFalse())

		_, err := b.Elapsed(h, h)
		Expect(err).To(MatchError(ErrNotRecorded))
	})
})
