package timeline

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func v(id int, t int64) *Vertex[string] {
	return NewVertex(id, t, false, "")
}

func order(x *Index[string]) [][2]int64 {
	out := make([][2]int64, 0, x.Len())
	for i := 0; i < x.Len(); i++ {
		out = append(out, [2]int64{x.At(i).Time(), int64(x.At(i).ID())})
	}

	return out
}

var _ = Describe("Index", func() {
	var x *Index[string]

	BeforeEach(func() {
		x = NewIndex[string]()
	})

	It("should keep vertices sorted by time then id", func() {
		x.Insert(v(2, 10))
		x.Insert(v(1, 10))
		x.Insert(v(3, 5))
		x.Insert(v(0, 20))

		Expect(order(x)).To(Equal([][2]int64{{5, 3}, {10, 1}, {10, 2}, {20, 0}}))
	})

	It("should reject exact duplicates", func() {
		_, ok := x.Insert(v(1, 10))
		Expect(ok).To(BeTrue())

		i, ok := x.Insert(v(1, 10))
		Expect(ok).To(BeFalse())
		Expect(i).To(Equal(0))
		Expect(x.Len()).To(Equal(1))
	})

	It("should encode the insertion point when not found", func() {
		x.Insert(v(0, 10))
		x.Insert(v(0, 30))

		Expect(x.BinarySearch(v(0, 20))).To(Equal(^1))
		Expect(x.BinarySearch(v(0, 0))).To(Equal(^0))
		Expect(x.BinarySearch(v(0, 30))).To(Equal(1))
	})

	It("should find only the exact vertex", func() {
		a := v(1, 10)
		x.Insert(a)

		Expect(x.IndexOf(a)).To(Equal(0))
		Expect(x.IndexOf(v(1, 10))).To(Equal(-1))
	})

	It("should count a vertex at the clock as behind it", func() {
		x.Insert(v(0, 10))
		x.Insert(v(1, 20))

		_, ok := x.StepForward(9)
		Expect(ok).To(BeFalse())

		got, ok := x.StepForward(10)
		Expect(ok).To(BeTrue())
		Expect(got.Time()).To(Equal(int64(10)))
		Expect(x.Cursor()).To(Equal(0))

		_, ok = x.StepForward(10)
		Expect(ok).To(BeFalse())

		_, ok = x.StepBackward(10)
		Expect(ok).To(BeFalse())

		got, ok = x.StepBackward(9)
		Expect(ok).To(BeTrue())
		Expect(got.Time()).To(Equal(int64(10)))
		Expect(x.Cursor()).To(Equal(-1))
	})

	It("should shift the cursor on insert and remove behind it", func() {
		x.Insert(v(0, 10))
		x.Insert(v(1, 20))
		x.StepForward(15)
		Expect(x.Cursor()).To(Equal(0))

		x.Insert(v(2, 5))
		Expect(x.Cursor()).To(Equal(1))

		Expect(x.RemoveAt(0)).To(BeTrue())
		Expect(x.Cursor()).To(Equal(0))

		Expect(x.RemoveAt(1)).To(BeFalse())
		Expect(x.Cursor()).To(Equal(0))
	})

	It("should place a vertex behind the clock", func() {
		x.Insert(v(0, 100))

		behind, ok := x.Place(v(1, 50), 60)
		Expect(ok).To(BeTrue())
		Expect(behind).To(BeTrue())
		Expect(x.Cursor()).To(Equal(0))

		behind, ok = x.Place(v(2, 60), 60)
		Expect(ok).To(BeTrue())
		Expect(behind).To(BeTrue())
		Expect(x.Cursor()).To(Equal(1))

		behind, ok = x.Place(v(3, 61), 60)
		Expect(ok).To(BeTrue())
		Expect(behind).To(BeFalse())
		Expect(x.Cursor()).To(Equal(1))
	})

	It("should remove every vertex of an id", func() {
		x.Insert(v(1, 10))
		x.Insert(v(2, 15))
		x.Insert(v(1, 20))
		x.StepForward(30)
		x.StepForward(30)
		x.StepForward(30)

		Expect(x.RemoveByID(1)).To(Equal(2))
		Expect(x.Len()).To(Equal(1))
		Expect(x.Cursor()).To(Equal(0))
	})

	It("should rebuild with the cursor before everything", func() {
		x.Insert(v(0, 10))
		x.StepForward(20)

		x.Rebuild([]*Vertex[string]{v(3, 30), v(1, 10), v(2, 20)})

		Expect(x.Cursor()).To(Equal(-1))
		Expect(order(x)).To(Equal([][2]int64{{10, 1}, {20, 2}, {30, 3}}))
	})
})
