package timeline

import (
	"slices"
)

// An Index is a sorted list of vertices with a cursor.
//
// The vertices at positions 0 through Cursor() are behind the clock; the rest
// are ahead of it. A vertex is behind the clock when its time is at or before
// the clock, in whichever direction the clock arrived. An empty past is
// represented by a cursor of -1.
type Index[P any] struct {
	vertices []*Vertex[P]
	cursor   int
}

// NewIndex creates an empty index.
func NewIndex[P any]() *Index[P] {
	return &Index[P]{cursor: -1}
}

// Len returns the number of vertices.
func (x *Index[P]) Len() int {
	return len(x.vertices)
}

// At returns the i-th vertex.
func (x *Index[P]) At(i int) *Vertex[P] {
	return x.vertices[i]
}

// Cursor returns the position of the last vertex behind the clock.
func (x *Index[P]) Cursor() int {
	return x.cursor
}

// Behind tells if position i is behind the clock.
func (x *Index[P]) Behind(i int) bool {
	return i >= 0 && i <= x.cursor
}

// BinarySearch returns the position of a vertex with the same time and id as
// v. If there is none, it returns the bitwise complement of the position v
// would be inserted at.
func (x *Index[P]) BinarySearch(v *Vertex[P]) int {
	i, found := slices.BinarySearchFunc(x.vertices, v, CompareVertices[P])
	if !found {
		return ^i
	}

	return i
}

// IndexOf returns the position of exactly v, or -1.
func (x *Index[P]) IndexOf(v *Vertex[P]) int {
	i := x.BinarySearch(v)
	if i < 0 || x.vertices[i] != v {
		return -1
	}

	return i
}

// Insert puts v at its sorted position. It fails if a vertex with the same
// time and id is present. Inserting at or before the cursor moves the cursor
// so that the vertices behind the clock stay behind it.
func (x *Index[P]) Insert(v *Vertex[P]) (int, bool) {
	i := x.BinarySearch(v)
	if i >= 0 {
		return i, false
	}

	i = ^i
	x.vertices = slices.Insert(x.vertices, i, v)

	if i <= x.cursor {
		x.cursor++
	}

	return i, true
}

// Place inserts v and reports whether it ended up behind a clock reading now.
// A vertex that lands right after the cursor with a time at or before now is
// pulled behind the cursor. The caller is responsible for crossing a vertex that
// Place reports as behind.
func (x *Index[P]) Place(v *Vertex[P], now int64) (behind bool, ok bool) {
	i, ok := x.Insert(v)
	if !ok {
		return false, false
	}

	if i <= x.cursor {
		return true, true
	}

	if i == x.cursor+1 && now >= v.time {
		x.cursor++
		return true, true
	}

	return false, true
}

// RemoveAt deletes the vertex at position i and reports whether it was behind
// the clock.
func (x *Index[P]) RemoveAt(i int) bool {
	behind := i <= x.cursor

	x.vertices = slices.Delete(x.vertices, i, i+1)

	if behind {
		x.cursor--
	}

	return behind
}

// Remove deletes exactly v. It returns false if v is not in the index.
func (x *Index[P]) Remove(v *Vertex[P]) bool {
	i := x.IndexOf(v)
	if i < 0 {
		return false
	}

	x.RemoveAt(i)

	return true
}

// RemoveByID deletes every vertex with the given id and returns how many were
// removed.
func (x *Index[P]) RemoveByID(id int) int {
	removed := 0

	for i := len(x.vertices) - 1; i >= 0; i-- {
		if x.vertices[i].id == id {
			x.RemoveAt(i)
			removed++
		}
	}

	return removed
}

// StepForward moves the cursor past the next vertex if now has reached it,
// and returns that vertex.
func (x *Index[P]) StepForward(now int64) (*Vertex[P], bool) {
	next := x.cursor + 1
	if next >= len(x.vertices) || now < x.vertices[next].time {
		return nil, false
	}

	x.cursor = next

	return x.vertices[next], true
}

// StepBackward moves the cursor before the last passed vertex if now is
// before it, and returns that vertex.
func (x *Index[P]) StepBackward(now int64) (*Vertex[P], bool) {
	if x.cursor < 0 || now >= x.vertices[x.cursor].time {
		return nil, false
	}

	v := x.vertices[x.cursor]
	x.cursor--

	return v, true
}

// Rebuild replaces the content of the index and puts the cursor before every
// vertex.
func (x *Index[P]) Rebuild(vertices []*Vertex[P]) {
	x.vertices = slices.Clone(vertices)
	slices.SortFunc(x.vertices, CompareVertices[P])
	x.cursor = -1
}

// Vertices returns a copy of the sorted vertices.
func (x *Index[P]) Vertices() []*Vertex[P] {
	return slices.Clone(x.vertices)
}
