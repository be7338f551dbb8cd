package timeline

import "cmp"

// A Vertex is a single point on a timeline.
//
// Vertices are immutable once they are placed in a manager. To move a vertex,
// create a new one with the same id and hand it to the manager's update
// method.
type Vertex[P any] struct {
	id      int
	time    int64
	dynamic bool
	payload P
}

// NewVertex creates a vertex at time (in milliseconds).
func NewVertex[P any](id int, time int64, dynamic bool, payload P) *Vertex[P] {
	return &Vertex[P]{
		id:      id,
		time:    time,
		dynamic: dynamic,
		payload: payload,
	}
}

// ID returns the id of the segment or trigger that owns the vertex.
func (v *Vertex[P]) ID() int {
	return v.id
}

// Time returns the position of the vertex on the timeline, in milliseconds.
func (v *Vertex[P]) Time() int64 {
	return v.time
}

// IsDynamic tells if the vertex retires itself after it is passed forward.
func (v *Vertex[P]) IsDynamic() bool {
	return v.dynamic
}

// Payload returns what reacts when the vertex is crossed.
func (v *Vertex[P]) Payload() P {
	return v.payload
}

// CompareVertices orders vertices by time, breaking ties by id.
func CompareVertices[P any](a, b *Vertex[P]) int {
	if c := cmp.Compare(a.time, b.time); c != 0 {
		return c
	}

	return cmp.Compare(a.id, b.id)
}

// SegmentVertex is a start or end vertex of a Segment.
type SegmentVertex = Vertex[SegmentPayload]

// TriggerVertex is a vertex held by a TriggerManager.
type TriggerVertex = Vertex[TriggerPayload]
