package timeline

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Segment", func() {
	It("should measure progress over its duration", func() {
		s := NewSegment(1, 200, 600, false, nil)

		Expect(s.Duration()).To(Equal(int64(400)))
		Expect(s.Progress(200)).To(Equal(0.0))
		Expect(s.Progress(300)).To(Equal(0.25))
		Expect(s.Progress(600)).To(Equal(1.0))
	})

	It("should clamp progress outside the segment", func() {
		s := NewSegment(1, 200, 600, false, nil)

		Expect(s.Progress(-50)).To(Equal(0.0))
		Expect(s.Progress(9000)).To(Equal(1.0))
	})

	It("should report no progress without a duration", func() {
		empty := NewSegment(1, 100, 100, false, nil)
		reversed := NewSegment(2, 100, 50, false, nil)

		Expect(empty.Duration()).To(BeZero())
		Expect(reversed.Duration()).To(Equal(int64(-50)))
		Expect(empty.Progress(100)).To(Equal(0.0))
		Expect(reversed.Progress(75)).To(Equal(0.0))
	})
})
