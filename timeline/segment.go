package timeline

// SegmentPayload reacts to the clock moving inside a segment.
//
// Update receives the progress of the clock through the segment, from 0 at the
// start to 1 at the end. It is called on every Update tick while the segment
// is active and once with the boundary value whenever the segment is entered
// or left.
type SegmentPayload interface {
	Update(progress float64, s *Segment)
}

// Enterer is implemented by payloads that want to know when the clock moves
// into their segment, from either side.
type Enterer interface {
	OnEnter(s *Segment)
}

// Leaver is implemented by payloads that want to know when the clock moves out
// of their segment, through either end.
type Leaver interface {
	OnLeave(s *Segment)
}

// LifecyclePayload is a segment payload that handles every segment callback.
type LifecyclePayload interface {
	SegmentPayload
	Enterer
	Leaver
}

// TriggerPayload reacts to the clock passing a trigger vertex.
type TriggerPayload interface {
	// Trigger is called when the clock passes the vertex going forward.
	Trigger(v *TriggerVertex)

	// Undo is called when the clock is rewound before the vertex.
	Undo(v *TriggerVertex)
}

// A Segment is an effect that lasts from its start time until its end time.
type Segment struct {
	id      int
	start   int64
	end     int64
	dynamic bool
	payload SegmentPayload

	startVertex *SegmentVertex
	endVertex   *SegmentVertex

	markedToRemove bool
}

// NewSegment creates a segment over [start, end). The id should come from the
// GenerateNextID method of the manager the segment will be added to.
func NewSegment(
	id int,
	start, end int64,
	dynamic bool,
	payload SegmentPayload,
) *Segment {
	s := &Segment{
		id:      id,
		start:   start,
		end:     end,
		dynamic: dynamic,
		payload: payload,
	}

	s.startVertex = NewVertex(id, start, dynamic, payload)
	s.endVertex = NewVertex(id, end, dynamic, payload)

	return s
}

// ID returns the id of the segment.
func (s *Segment) ID() int {
	return s.id
}

// SetID changes the id of the segment and of both of its vertices. It must not
// be called while the segment is in a manager.
func (s *Segment) SetID(id int) {
	s.id = id
	s.startVertex.id = id
	s.endVertex.id = id
}

// StartTime returns the start of the segment, in milliseconds.
func (s *Segment) StartTime() int64 {
	return s.start
}

// EndTime returns the end of the segment, in milliseconds.
func (s *Segment) EndTime() int64 {
	return s.end
}

// Duration returns EndTime - StartTime.
func (s *Segment) Duration() int64 {
	return s.end - s.start
}

// IsDynamic tells if the segment is removed after the clock leaves it through
// its end.
func (s *Segment) IsDynamic() bool {
	return s.dynamic
}

// Payload returns the payload of the segment.
func (s *Segment) Payload() SegmentPayload {
	return s.payload
}

// StartVertex returns the vertex at the start of the segment.
func (s *Segment) StartVertex() *SegmentVertex {
	return s.startVertex
}

// EndVertex returns the vertex at the end of the segment.
func (s *Segment) EndVertex() *SegmentVertex {
	return s.endVertex
}

// Progress returns how far t is through the segment, clamped to [0, 1].
func (s *Segment) Progress(t int64) float64 {
	d := s.Duration()
	if d <= 0 {
		return 0
	}

	p := float64(t-s.start) / float64(d)

	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}

// MarkToRemove allows the segment to be removed with SegmentManager.Remove.
func (s *Segment) MarkToRemove() {
	s.markedToRemove = true
}

// IsMarkedToRemove tells if the segment may be removed.
func (s *Segment) IsMarkedToRemove() bool {
	return s.markedToRemove
}

func (s *Segment) isStart(v *SegmentVertex) bool {
	return v == s.startVertex
}
