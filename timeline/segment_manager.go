package timeline

import (
	"log"
	"maps"
	"slices"

	"github.com/sarchlab/chartline/hooking"
	"github.com/sarchlab/chartline/idgen"
)

// A SegmentManager tracks which segments contain the clock.
type SegmentManager struct {
	*hooking.HookableBase

	name   string
	logger *log.Logger
	ids    *idgen.Generator

	segments map[int]*Segment
	active   map[int]*Segment
	index    *Index[SegmentPayload]

	currentTime int64
	clock       int64

	// depth counts the public calls in progress, so that retirements queued
	// by callbacks are committed only once the outermost call returns.
	depth    int
	updating bool
	retiring []*Segment
}

// Name returns the name of the manager.
func (m *SegmentManager) Name() string {
	return m.name
}

// GenerateNextID issues a new segment id.
func (m *SegmentManager) GenerateNextID() int {
	return m.ids.Generate()
}

// CurrentTime returns the clock value of the last Update.
func (m *SegmentManager) CurrentTime() int64 {
	return m.currentTime
}

// Len returns the number of segments.
func (m *SegmentManager) Len() int {
	return len(m.segments)
}

// TryGetSegment returns the segment with the id.
func (m *SegmentManager) TryGetSegment(id int) (*Segment, bool) {
	s, ok := m.segments[id]
	return s, ok
}

// ContainsSegment tells if a segment with the id is in the manager.
func (m *SegmentManager) ContainsSegment(id int) bool {
	_, ok := m.segments[id]
	return ok
}

// IsActive tells if the clock is inside the segment with the id.
func (m *SegmentManager) IsActive(id int) bool {
	_, ok := m.active[id]
	return ok
}

// ActiveSegments returns the segments that contain the clock, by ascending id.
func (m *SegmentManager) ActiveSegments() []*Segment {
	return m.sorted(m.active)
}

// Segments returns every segment, by ascending id.
func (m *SegmentManager) Segments() []*Segment {
	return m.sorted(m.segments)
}

// Vertices returns the boundary vertices in timeline order.
func (m *SegmentManager) Vertices() []*SegmentVertex {
	return m.index.Vertices()
}

func (m *SegmentManager) sorted(set map[int]*Segment) []*Segment {
	ids := slices.Sorted(maps.Keys(set))

	list := make([]*Segment, 0, len(ids))
	for _, id := range ids {
		list = append(list, set[id])
	}

	return list
}

// Add puts a segment on the timeline. It fails if the id was not issued by
// this manager, if the id is already used, if the segment has no payload, or
// if the segment does not end after it starts.
//
// A segment whose start is already behind the clock is entered immediately,
// and one whose end is also behind the clock is left immediately.
func (m *SegmentManager) Add(s *Segment) bool {
	if s == nil || s.payload == nil || !m.ids.Issued(s.id) {
		return false
	}

	if _, exists := m.segments[s.id]; exists {
		return false
	}

	if s.start >= s.end {
		m.logger.Printf("%s: rejecting segment %d with range [%d, %d)",
			m.name, s.id, s.start, s.end)
		return false
	}

	m.begin()
	defer m.end()

	s.markedToRemove = false
	m.segments[s.id] = s
	m.place(s.startVertex)

	// A callback of the start vertex may have replaced or removed the segment.
	if m.segments[s.id] == s {
		m.place(s.endVertex)
	}

	return true
}

func (m *SegmentManager) place(v *SegmentVertex) {
	behind, ok := m.index.Place(v, m.currentTime)
	if ok && behind {
		m.crossForward(v)
	}
}

// Remove takes a segment off the timeline. It only succeeds for a segment that
// has been marked with MarkToRemove and that is the one the manager holds for
// its id. No callback is invoked.
func (m *SegmentManager) Remove(s *Segment) bool {
	if s == nil || !s.markedToRemove {
		return false
	}

	if m.segments[s.id] != s {
		return false
	}

	m.index.Remove(s.startVertex)
	m.index.Remove(s.endVertex)

	s.markedToRemove = false
	delete(m.segments, s.id)
	delete(m.active, s.id)

	return true
}

// UpdateSegment replaces the segment that has the same id as s, if any, and
// adds s. It fails if the id was not issued by this manager.
func (m *SegmentManager) UpdateSegment(s *Segment) bool {
	if s == nil || !m.ids.Issued(s.id) {
		return false
	}

	m.begin()
	defer m.end()

	if old, ok := m.segments[s.id]; ok {
		old.MarkToRemove()
		m.Remove(old)
	}

	return m.Add(s)
}

// GenerateVertices rebuilds the vertex index from the segments and puts the
// cursor before every vertex. The active set is cleared without notifying
// any payload; the next Update enters whatever contains the clock again.
func (m *SegmentManager) GenerateVertices() {
	vertices := make([]*SegmentVertex, 0, 2*len(m.segments))
	for _, s := range m.segments {
		vertices = append(vertices, s.startVertex, s.endVertex)
	}

	m.index.Rebuild(vertices)
	clear(m.active)
}

// Update moves the clock to now. Every boundary between the previous clock
// and now is crossed in timeline order, and then every active segment
// receives its progress at now.
//
// Update must not be called from inside a payload callback; such a call is
// logged and ignored.
func (m *SegmentManager) Update(now int64) {
	if m.updating {
		m.logger.Printf("%s: ignoring nested Update(%d)", m.name, now)
		return
	}

	m.begin()
	m.updating = true

	defer func() {
		m.updating = false
		m.end()
	}()

	m.clock = now

	for {
		v, ok := m.index.StepForward(now)
		if !ok {
			break
		}

		m.crossForward(v)
	}

	for {
		v, ok := m.index.StepBackward(now)
		if !ok {
			break
		}

		m.crossBackward(v)
	}

	m.currentTime = now

	for _, s := range m.ActiveSegments() {
		m.report(s, s.Progress(now), Forward)
	}
}

func (m *SegmentManager) crossForward(v *SegmentVertex) {
	s, ok := m.segments[v.id]
	if !ok {
		return
	}

	if s.isStart(v) {
		m.enter(s, v, 0, Forward)
		return
	}

	m.leave(s, v, 1, Forward)

	if s.dynamic {
		s.markedToRemove = true
		m.retiring = append(m.retiring, s)
	}
}

func (m *SegmentManager) crossBackward(v *SegmentVertex) {
	s, ok := m.segments[v.id]
	if !ok {
		return
	}

	if s.isStart(v) {
		m.leave(s, v, 0, Backward)
		return
	}

	m.enter(s, v, 1, Backward)
}

func (m *SegmentManager) enter(
	s *Segment,
	v *SegmentVertex,
	progress float64,
	dir Direction,
) {
	m.active[s.id] = s
	c := m.crossing(s, v, progress, dir)

	if e, ok := s.payload.(Enterer); ok {
		runPayload(m, m.logger, m.clock, c, func() { e.OnEnter(s) })
	}

	runPayload(m, m.logger, m.clock, c, func() {
		s.payload.Update(progress, s)
	})

	m.invoke(HookPosEnter, c)
}

func (m *SegmentManager) leave(
	s *Segment,
	v *SegmentVertex,
	progress float64,
	dir Direction,
) {
	delete(m.active, s.id)
	c := m.crossing(s, v, progress, dir)

	runPayload(m, m.logger, m.clock, c, func() {
		s.payload.Update(progress, s)
	})

	if l, ok := s.payload.(Leaver); ok {
		runPayload(m, m.logger, m.clock, c, func() { l.OnLeave(s) })
	}

	m.invoke(HookPosLeave, c)
}

func (m *SegmentManager) report(s *Segment, progress float64, dir Direction) {
	c := m.crossing(s, nil, progress, dir)

	runPayload(m, m.logger, m.clock, c, func() {
		s.payload.Update(progress, s)
	})
}

func (m *SegmentManager) crossing(
	s *Segment,
	v *SegmentVertex,
	progress float64,
	dir Direction,
) Crossing {
	c := Crossing{
		Manager:   m.name,
		ID:        s.id,
		Direction: dir,
		Progress:  progress,
	}

	if v != nil {
		c.VertexTime = v.time
	}

	return c
}

func (m *SegmentManager) invoke(pos *hooking.HookPos, c Crossing) {
	if m.NumHooks() == 0 {
		return
	}

	m.InvokeHook(hooking.HookCtx{
		Domain: m,
		Pos:    pos,
		Now:    m.clock,
		Item:   c,
	})
}

func (m *SegmentManager) begin() {
	m.depth++
}

func (m *SegmentManager) end() {
	m.depth--
	if m.depth > 0 {
		return
	}

	for len(m.retiring) > 0 {
		pending := m.retiring
		m.retiring = nil

		for _, s := range pending {
			m.retire(s)
		}
	}
}

// retire commits a removal queued when a dynamic segment was left. A segment
// that has been replaced or re-added since then is left alone.
func (m *SegmentManager) retire(s *Segment) {
	if m.segments[s.id] != s || !s.markedToRemove {
		return
	}

	if !m.Remove(s) {
		return
	}

	m.invoke(HookPosRetire, Crossing{
		Manager:    m.name,
		ID:         s.id,
		VertexTime: s.end,
	})
}
