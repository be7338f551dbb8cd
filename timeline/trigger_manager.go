package timeline

import (
	"log"

	"github.com/sarchlab/chartline/hooking"
	"github.com/sarchlab/chartline/idgen"
)

// A TriggerManager fires instantaneous events as the clock passes them and
// undoes them as the clock is rewound before them.
type TriggerManager struct {
	*hooking.HookableBase

	name   string
	logger *log.Logger
	ids    *idgen.Generator

	vertices map[int]*TriggerVertex
	index    *Index[TriggerPayload]

	currentTime int64
	clock       int64

	depth    int
	updating bool
	retiring []*TriggerVertex
}

// Name returns the name of the manager.
func (m *TriggerManager) Name() string {
	return m.name
}

// GenerateNextID issues a new trigger id.
func (m *TriggerManager) GenerateNextID() int {
	return m.ids.Generate()
}

// CurrentTime returns the clock value of the last Update.
func (m *TriggerManager) CurrentTime() int64 {
	return m.currentTime
}

// Len returns the number of vertices.
func (m *TriggerManager) Len() int {
	return len(m.vertices)
}

// TryGetVertex returns the vertex with the id.
func (m *TriggerManager) TryGetVertex(id int) (*TriggerVertex, bool) {
	v, ok := m.vertices[id]
	return v, ok
}

// ContainsID tells if a vertex with the id is in the manager.
func (m *TriggerManager) ContainsID(id int) bool {
	_, ok := m.vertices[id]
	return ok
}

// IsPassed tells if the vertex with the id is behind the clock.
func (m *TriggerManager) IsPassed(id int) bool {
	v, ok := m.vertices[id]
	if !ok {
		return false
	}

	return m.index.Behind(m.index.IndexOf(v))
}

// Vertices returns the vertices in timeline order.
func (m *TriggerManager) Vertices() []*TriggerVertex {
	return m.index.Vertices()
}

// AddVertex puts a vertex on the timeline. It fails if the id was not issued
// by this manager, if the id is already used or if the vertex has no payload.
//
// A vertex that lands behind the clock is passed immediately. Its payload is
// triggered only if trigger is true. A dynamic vertex behind the clock is
// retired either way.
func (m *TriggerManager) AddVertex(v *TriggerVertex, trigger bool) bool {
	if v == nil || v.payload == nil || !m.ids.Issued(v.id) {
		return false
	}

	if _, exists := m.vertices[v.id]; exists {
		return false
	}

	m.begin()
	defer m.end()

	behind, ok := m.index.Place(v, m.currentTime)
	if !ok {
		return false
	}

	m.vertices[v.id] = v

	if behind {
		m.crossForward(v, trigger)
	}

	return true
}

// RemoveVertex takes a vertex off the timeline. If the vertex is behind the
// clock and trigger is true, its payload is undone first.
func (m *TriggerManager) RemoveVertex(v *TriggerVertex, trigger bool) bool {
	if v == nil || m.vertices[v.id] != v {
		return false
	}

	m.begin()
	defer m.end()

	// Forget the id first so that the Undo callback cannot remove the vertex
	// a second time.
	delete(m.vertices, v.id)

	if trigger && m.index.Behind(m.index.IndexOf(v)) {
		m.undo(v, Backward)
	}

	m.index.Remove(v)

	return true
}

// RemoveID removes the vertex with the id.
func (m *TriggerManager) RemoveID(id int, trigger bool) bool {
	v, ok := m.vertices[id]
	if !ok {
		return false
	}

	return m.RemoveVertex(v, trigger)
}

// UpdateVertex replaces the vertex that has the same id as v, if any, and
// adds v. The trigger flag applies to both the removal and the addition.
func (m *TriggerManager) UpdateVertex(v *TriggerVertex, trigger bool) bool {
	if v == nil || !m.ids.Issued(v.id) {
		return false
	}

	m.begin()
	defer m.end()

	if old, ok := m.vertices[v.id]; ok {
		m.RemoveVertex(old, trigger)
	}

	return m.AddVertex(v, trigger)
}

// GenerateVertices rebuilds the index from the vertices and puts the cursor
// before every vertex. No payload is notified; the next Update triggers
// whatever is behind the clock again.
func (m *TriggerManager) GenerateVertices() {
	vertices := make([]*TriggerVertex, 0, len(m.vertices))
	for _, v := range m.vertices {
		vertices = append(vertices, v)
	}

	m.index.Rebuild(vertices)
}

// Update moves the clock to now, triggering every vertex passed going forward
// and undoing every vertex passed going backward, in timeline order.
//
// Update must not be called from inside a payload callback; such a call is
// logged and ignored.
func (m *TriggerManager) Update(now int64) {
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

		m.crossForward(v, true)
	}

	for {
		v, ok := m.index.StepBackward(now)
		if !ok {
			break
		}

		m.undo(v, Backward)
	}

	m.currentTime = now
}

func (m *TriggerManager) crossForward(v *TriggerVertex, trigger bool) {
	if trigger {
		c := m.crossing(v, Forward)

		runPayload(m, m.logger, m.clock, c, func() { v.payload.Trigger(v) })
		m.invoke(HookPosTrigger, c)
	}

	if v.dynamic {
		m.retiring = append(m.retiring, v)
	}
}

func (m *TriggerManager) undo(v *TriggerVertex, dir Direction) {
	c := m.crossing(v, dir)

	runPayload(m, m.logger, m.clock, c, func() { v.payload.Undo(v) })
	m.invoke(HookPosUndo, c)
}

func (m *TriggerManager) crossing(v *TriggerVertex, dir Direction) Crossing {
	return Crossing{
		Manager:    m.name,
		ID:         v.id,
		VertexTime: v.time,
		Direction:  dir,
	}
}

func (m *TriggerManager) invoke(pos *hooking.HookPos, c Crossing) {
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

func (m *TriggerManager) begin() {
	m.depth++
}

func (m *TriggerManager) end() {
	m.depth--
	if m.depth > 0 {
		return
	}

	for len(m.retiring) > 0 {
		pending := m.retiring
		m.retiring = nil

		for _, v := range pending {
			m.retire(v)
		}
	}
}

// retire removes a dynamic vertex that has been triggered. A vertex that has
// been replaced or moved back ahead of the clock since then is left alone.
func (m *TriggerManager) retire(v *TriggerVertex) {
	if m.vertices[v.id] != v || !m.index.Behind(m.index.IndexOf(v)) {
		return
	}

	if !m.RemoveVertex(v, false) {
		return
	}

	m.invoke(HookPosRetire, m.crossing(v, Forward))
}
