package timeline

import (
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/chartline/hooking"
)

type callLog struct {
	entries []string
}

func (l *callLog) add(format string, args ...any) {
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

type recordingPayload struct {
	name     string
	log      *callLog
	last     float64
	reported bool
}

func (p *recordingPayload) Update(progress float64, _ *Segment) {
	p.last = progress
	p.reported = true
	p.log.add("%s:update:%.2f", p.name, progress)
}

func (p *recordingPayload) OnEnter(_ *Segment) {
	p.log.add("%s:enter", p.name)
}

func (p *recordingPayload) OnLeave(_ *Segment) {
	p.log.add("%s:leave", p.name)
}

type hookRecorder struct {
	log *callLog
}

func (h *hookRecorder) Func(ctx hooking.HookCtx) {
	c := ctx.Item.(Crossing)
	h.log.add("%s:%d:%s", ctx.Pos.Name, c.ID, c.Direction)
}

var _ = Describe("SegmentManager", func() {
	var (
		mockCtrl *gomock.Controller
		m        *SegmentManager
		calls    *callLog
	)

	newSegment := func(name string, start, end int64, dynamic bool) (*Segment, *recordingPayload) {
		p := &recordingPayload{name: name, log: calls}
		s := NewSegment(m.GenerateNextID(), start, end, dynamic, p)

		return s, p
	}

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		m = MakeBuilder().WithName("Test").BuildSegmentManager()
		calls = &callLog{}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("when adding", func() {
		It("should reject ids not issued by the manager", func() {
			s := NewSegment(0, 0, 100, false, &recordingPayload{log: calls})

			Expect(m.Add(s)).To(BeFalse())
			Expect(m.ContainsSegment(0)).To(BeFalse())
		})

		It("should reject duplicated ids", func() {
			s, p := newSegment("a", 0, 100, false)
			Expect(m.Add(s)).To(BeTrue())

			other := NewSegment(s.ID(), 200, 300, false, p)
			Expect(m.Add(other)).To(BeFalse())

			got, ok := m.TryGetSegment(s.ID())
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(s))
		})

		It("should reject empty and reversed ranges", func() {
			empty, _ := newSegment("a", 100, 100, false)
			reversed, _ := newSegment("b", 100, 50, false)

			Expect(m.Add(empty)).To(BeFalse())
			Expect(m.Add(reversed)).To(BeFalse())
			Expect(m.Len()).To(Equal(0))
		})

		It("should reject segments without payload", func() {
			s := NewSegment(m.GenerateNextID(), 0, 100, false, nil)

			Expect(m.Add(s)).To(BeFalse())
		})

		It("should enter a segment added behind the clock", func() {
			m.Update(50)

			s, p := newSegment("a", 0, 100, false)
			Expect(m.Add(s)).To(BeTrue())
			Expect(m.IsActive(s.ID())).To(BeTrue())
			Expect(calls.entries).To(Equal([]string{"a:enter", "a:update:0.00"}))

			m.Update(50)
			Expect(p.last).To(Equal(0.5))
		})

		It("should enter and leave a segment added after it ended", func() {
			m.Update(500)

			s, _ := newSegment("a", 0, 100, false)
			Expect(m.Add(s)).To(BeTrue())

			Expect(m.IsActive(s.ID())).To(BeFalse())
			Expect(calls.entries).To(Equal([]string{
				"a:enter", "a:update:0.00", "a:update:1.00", "a:leave",
			}))
		})

		It("should retire a dynamic segment added after it ended", func() {
			m.Update(500)

			s, _ := newSegment("a", 0, 100, true)
			Expect(m.Add(s)).To(BeTrue())

			Expect(m.ContainsSegment(s.ID())).To(BeFalse())
		})
	})

	It("should cross each boundary exactly once", func() {
		p := NewMockLifecyclePayload(mockCtrl)
		s := NewSegment(m.GenerateNextID(), 100, 200, false, p)
		Expect(m.Add(s)).To(BeTrue())

		gomock.InOrder(
			p.EXPECT().OnEnter(s),
			p.EXPECT().Update(0.0, s),
			p.EXPECT().Update(0.5, s),
			p.EXPECT().Update(0.5, s),
			p.EXPECT().Update(1.0, s),
			p.EXPECT().OnLeave(s),
			p.EXPECT().OnEnter(s),
			p.EXPECT().Update(1.0, s),
			p.EXPECT().Update(0.5, s),
		)

		m.Update(150)
		m.Update(150)
		m.Update(300)
		m.Update(150)
	})

	It("should enter a segment added at the clock right away", func() {
		s, p := newSegment("a", 0, 100, false)
		Expect(m.Add(s)).To(BeTrue())

		Expect(m.IsActive(s.ID())).To(BeTrue())
		Expect(p.last).To(Equal(0.0))
		Expect(calls.entries).To(Equal([]string{"a:enter", "a:update:0.00"}))
	})

	It("should land on the same state at an exact boundary from either side", func() {
		s, p := newSegment("a", 100, 200, false)
		Expect(m.Add(s)).To(BeTrue())

		m.Update(100)
		Expect(m.IsActive(s.ID())).To(BeTrue())
		Expect(p.last).To(Equal(0.0))
		forward := append([]string(nil), calls.entries...)

		m.Update(150)
		m.Update(100)
		Expect(m.IsActive(s.ID())).To(BeTrue())
		Expect(p.last).To(Equal(0.0))
		Expect(calls.entries[len(forward):]).To(Equal([]string{
			"a:update:0.50", "a:update:0.00",
		}))

		m.Update(200)
		Expect(m.IsActive(s.ID())).To(BeFalse())

		m.Update(250)
		calls.entries = nil
		m.Update(200)
		Expect(m.IsActive(s.ID())).To(BeFalse())
		Expect(calls.entries).To(BeEmpty())

		m.Update(99)
		Expect(m.IsActive(s.ID())).To(BeFalse())
		Expect(calls.entries).To(Equal([]string{
			"a:enter", "a:update:1.00", "a:update:0.00", "a:leave",
		}))
	})

	It("should report progress to plain payloads", func() {
		p := NewMockSegmentPayload(mockCtrl)
		s := NewSegment(m.GenerateNextID(), 100, 300, false, p)
		Expect(m.Add(s)).To(BeTrue())

		gomock.InOrder(
			p.EXPECT().Update(0.0, s),
			p.EXPECT().Update(0.25, s),
			p.EXPECT().Update(1.0, s),
		)

		m.Update(150)
		m.Update(400)
	})

	It("should cross every boundary of a long seek in order", func() {
		a, _ := newSegment("a", 10, 20, false)
		b, _ := newSegment("b", 30, 40, false)
		m.Add(a)
		m.Add(b)

		m.Update(100)

		Expect(calls.entries).To(Equal([]string{
			"a:enter", "a:update:0.00", "a:update:1.00", "a:leave",
			"b:enter", "b:update:0.00", "b:update:1.00", "b:leave",
		}))

		calls.entries = nil
		m.Update(0)

		Expect(calls.entries).To(Equal([]string{
			"b:enter", "b:update:1.00", "b:update:0.00", "b:leave",
			"a:enter", "a:update:1.00", "a:update:0.00", "a:leave",
		}))
	})

	It("should visit same-time boundaries by ascending id", func() {
		a, _ := newSegment("a", 100, 200, false)
		b, _ := newSegment("b", 100, 200, false)
		m.Add(b)
		m.Add(a)

		m.Update(150)

		Expect(calls.entries).To(Equal([]string{
			"a:enter", "a:update:0.00",
			"b:enter", "b:update:0.00",
			"a:update:0.50", "b:update:0.50",
		}))

		calls.entries = nil
		m.Update(250)

		Expect(calls.entries).To(Equal([]string{
			"a:update:1.00", "a:leave",
			"b:update:1.00", "b:leave",
		}))
	})

	It("should restore the same state after a rewind", func() {
		a, pa := newSegment("a", 0, 100, false)
		b, pb := newSegment("b", 20, 40, false)
		c, pc := newSegment("c", 60, 200, false)
		d, pd := newSegment("d", 150, 300, false)
		for _, s := range []*Segment{a, b, c, d} {
			Expect(m.Add(s)).To(BeTrue())
		}

		m.Update(50)
		active := m.ActiveSegments()
		lastA, lastB := pa.last, pb.last
		Expect(pc.reported).To(BeFalse())
		Expect(pd.reported).To(BeFalse())

		m.Update(250)
		Expect(m.ActiveSegments()).To(ConsistOf(d))

		m.Update(50)
		Expect(m.ActiveSegments()).To(Equal(active))
		Expect(pa.last).To(Equal(lastA))
		Expect(pb.last).To(Equal(lastB))
		Expect(pc.last).To(Equal(0.0))
		Expect(pd.last).To(Equal(0.0))
	})

	It("should leave everything when seeking before the first boundary", func() {
		a, _ := newSegment("a", 0, 100, false)
		m.Add(a)
		m.Update(50)

		calls.entries = nil
		m.Update(-1000)

		Expect(m.ActiveSegments()).To(BeEmpty())
		Expect(calls.entries).To(Equal([]string{"a:update:0.00", "a:leave"}))
	})

	Context("with dynamic segments", func() {
		It("should retire after leaving forward", func() {
			s, _ := newSegment("a", 0, 100, true)
			m.Add(s)

			m.Update(150)

			Expect(m.ContainsSegment(s.ID())).To(BeFalse())
			Expect(m.Vertices()).To(BeEmpty())
		})

		It("should stay while inside", func() {
			s, _ := newSegment("a", 0, 100, true)
			m.Add(s)

			m.Update(50)

			Expect(m.ContainsSegment(s.ID())).To(BeTrue())
		})

		It("should not come back on rewind", func() {
			s, _ := newSegment("a", 0, 100, true)
			m.Add(s)
			m.Update(150)

			calls.entries = nil
			m.Update(50)

			Expect(calls.entries).To(BeEmpty())
			Expect(m.ActiveSegments()).To(BeEmpty())
		})

		It("should publish the retirement", func() {
			log := &callLog{}
			m.AcceptHook(hooking.AtPositions(&hookRecorder{log: log}, HookPosRetire))

			s, _ := newSegment("a", 0, 100, true)
			m.Add(s)
			m.Update(150)

			Expect(log.entries).To(Equal([]string{
				fmt.Sprintf("Retire:%d:forward", s.ID()),
			}))
		})
	})

	Context("when removing", func() {
		It("should require the remove mark", func() {
			s, _ := newSegment("a", 0, 100, false)
			m.Add(s)

			Expect(m.Remove(s)).To(BeFalse())
			Expect(m.ContainsSegment(s.ID())).To(BeTrue())
		})

		It("should remove a marked segment without callbacks", func() {
			s, _ := newSegment("a", 0, 100, false)
			m.Add(s)
			m.Update(50)

			calls.entries = nil
			s.MarkToRemove()

			Expect(m.Remove(s)).To(BeTrue())
			Expect(s.IsMarkedToRemove()).To(BeFalse())
			Expect(m.ContainsSegment(s.ID())).To(BeFalse())
			Expect(m.ActiveSegments()).To(BeEmpty())

			m.Update(60)
			Expect(calls.entries).To(BeEmpty())
		})

		It("should keep later crossings consistent", func() {
			a, _ := newSegment("a", 0, 10, false)
			b, _ := newSegment("b", 20, 100, false)
			m.Add(a)
			m.Add(b)
			m.Update(50)

			a.MarkToRemove()
			m.Remove(a)

			calls.entries = nil
			m.Update(15)

			Expect(calls.entries).To(Equal([]string{"b:update:0.00", "b:leave"}))
		})
	})

	Context("when updating a segment", func() {
		It("should replace the segment with the same id", func() {
			old, p := newSegment("a", 0, 100, false)
			m.Add(old)
			m.Update(50)

			moved := NewSegment(old.ID(), 200, 300, false, p)
			Expect(m.UpdateSegment(moved)).To(BeTrue())

			got, _ := m.TryGetSegment(old.ID())
			Expect(got).To(BeIdenticalTo(moved))
			Expect(m.IsActive(old.ID())).To(BeFalse())
			Expect(m.Vertices()).To(HaveLen(2))
		})

		It("should add when nothing has the id", func() {
			s, _ := newSegment("a", 0, 100, false)

			Expect(m.UpdateSegment(s)).To(BeTrue())
			Expect(m.ContainsSegment(s.ID())).To(BeTrue())
		})

		It("should reject ids not issued by the manager", func() {
			s := NewSegment(42, 0, 100, false, &recordingPayload{log: calls})

			Expect(m.UpdateSegment(s)).To(BeFalse())
		})

		It("should win over a pending retirement", func() {
			s, p := newSegment("a", 0, 100, true)
			var replacement *Segment
			custom := &reentrantPayload{
				onLeave: func(seg *Segment) {
					replacement = NewSegment(seg.ID(), 200, 300, false, p)
					m.UpdateSegment(replacement)
				},
			}
			s = NewSegment(s.ID(), 0, 100, true, custom)
			m.Add(s)

			m.Update(150)

			got, ok := m.TryGetSegment(s.ID())
			Expect(ok).To(BeTrue())
			Expect(got).To(BeIdenticalTo(replacement))
		})
	})

	Context("with callbacks that change the schedule", func() {
		It("should enter a segment added behind the clock by a callback", func() {
			late, _ := newSegment("late", 0, 500, false)
			trigger := &reentrantPayload{
				onEnter: func(*Segment) { m.Add(late) },
			}
			s := NewSegment(m.GenerateNextID(), 100, 200, false, trigger)
			m.Add(s)

			m.Update(150)

			Expect(m.IsActive(late.ID())).To(BeTrue())
			Expect(m.IsActive(s.ID())).To(BeTrue())
		})

		It("should cross a boundary added ahead by a callback in the same tick", func() {
			next, _ := newSegment("next", 120, 130, false)
			first := &reentrantPayload{
				onEnter: func(*Segment) { m.Add(next) },
			}
			s := NewSegment(m.GenerateNextID(), 100, 110, false, first)
			m.Add(s)

			m.Update(150)

			Expect(calls.entries).To(Equal([]string{
				"next:enter", "next:update:0.00", "next:update:1.00", "next:leave",
			}))
		})
	})

	Context("when a payload panics", func() {
		It("should keep processing the tick and publish the fault", func() {
			faults := &callLog{}
			m.AcceptHook(hooking.AtPositions(&hookRecorder{log: faults}, HookPosPayloadFault))

			bad := &reentrantPayload{
				onEnter: func(*Segment) { panic("boom") },
			}
			s := NewSegment(m.GenerateNextID(), 5, 100, false, bad)
			good, _ := newSegment("good", 10, 100, false)
			m.Add(s)
			m.Add(good)

			m.Update(50)

			Expect(m.IsActive(s.ID())).To(BeTrue())
			Expect(m.IsActive(good.ID())).To(BeTrue())
			Expect(faults.entries).To(Equal([]string{
				fmt.Sprintf("PayloadFault:%d:forward", s.ID()),
			}))

			faults.entries = nil
			m.Update(50)
			Expect(faults.entries).To(BeEmpty())
		})
	})

	It("should publish enter and leave hooks", func() {
		log := &callLog{}
		m.AcceptHook(&hookRecorder{log: log})

		s, _ := newSegment("a", 0, 100, false)
		m.Add(s)
		m.Update(150)
		m.Update(50)

		id := s.ID()
		Expect(log.entries).To(Equal([]string{
			fmt.Sprintf("Enter:%d:forward", id),
			fmt.Sprintf("Leave:%d:forward", id),
			fmt.Sprintf("Enter:%d:backward", id),
		}))
	})

	It("should re-enter from scratch after generating vertices", func() {
		s, _ := newSegment("a", 0, 100, false)
		m.Add(s)
		m.Update(50)

		m.GenerateVertices()
		Expect(m.ActiveSegments()).To(BeEmpty())

		calls.entries = nil
		m.Update(50)

		Expect(calls.entries).To(Equal([]string{
			"a:enter", "a:update:0.00", "a:update:0.50",
		}))
	})

	It("should keep the id of both vertices in sync", func() {
		s := NewSegment(3, 0, 100, false, &recordingPayload{log: calls})

		s.SetID(7)

		Expect(s.StartVertex().ID()).To(Equal(7))
		Expect(s.EndVertex().ID()).To(Equal(7))
	})
})

type reentrantPayload struct {
	onEnter func(s *Segment)
	onLeave func(s *Segment)
}

func (p *reentrantPayload) Update(float64, *Segment) {}

func (p *reentrantPayload) OnEnter(s *Segment) {
	if p.onEnter != nil {
		p.onEnter(s)
	}
}

func (p *reentrantPayload) OnLeave(s *Segment) {
	if p.onLeave != nil {
		p.onLeave(s)
	}
}
