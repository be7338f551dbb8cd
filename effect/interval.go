package effect

import (
	"github.com/sarchlab/chartline/timeline"
)

// Interval is a trigger that repeats every Every milliseconds from Start.
//
// It keeps two vertices in a TriggerManager. The head sits on the next
// occurrence; when it is passed, the occurrence fires and the head moves one
// interval later. The shadow sits on the last fired occurrence; when the clock
// is rewound before it, that occurrence is undone and both vertices move one
// interval earlier. Vertices are moved without triggering, so a move never
// fires an occurrence twice.
type Interval struct {
	Start int64
	Every int64

	// Limit bounds the number of occurrences. Zero means unbounded.
	Limit int

	// OnFire and OnUndo receive the zero-based occurrence number and its time.
	OnFire func(n int, at int64)
	OnUndo func(n int, at int64)

	manager  *timeline.TriggerManager
	count    int
	headID   int
	shadowID int
	head     *timeline.TriggerVertex
	shadow   *timeline.TriggerVertex
}

// Count returns the number of occurrences that have fired and not been undone.
func (iv *Interval) Count() int {
	return iv.count
}

// Attach puts the interval on a trigger manager. Occurrences that are already
// behind the clock fire immediately. An interval can be attached only once and
// needs a positive Every.
func (iv *Interval) Attach(m *timeline.TriggerManager) bool {
	if iv.manager != nil || iv.Every <= 0 {
		return false
	}

	iv.manager = m
	iv.headID = m.GenerateNextID()
	iv.shadowID = m.GenerateNextID()

	return iv.moveHead(true)
}

// Detach takes both vertices off the manager without undoing anything.
func (iv *Interval) Detach() {
	if iv.manager == nil {
		return
	}

	if iv.head != nil {
		iv.manager.RemoveVertex(iv.head, false)
		iv.head = nil
	}

	if iv.shadow != nil {
		iv.manager.RemoveVertex(iv.shadow, false)
		iv.shadow = nil
	}

	iv.manager = nil
}

func (iv *Interval) occurrence(n int) int64 {
	return iv.Start + iv.Every*int64(n)
}

func (iv *Interval) moveHead(trigger bool) bool {
	if iv.head != nil {
		iv.manager.RemoveVertex(iv.head, false)
		iv.head = nil
	}

	if iv.Limit > 0 && iv.count >= iv.Limit {
		return true
	}

	iv.head = timeline.NewVertex[timeline.TriggerPayload](
		iv.headID, iv.occurrence(iv.count), false, intervalHead{iv})

	return iv.manager.AddVertex(iv.head, trigger)
}

func (iv *Interval) moveShadow() {
	if iv.shadow != nil {
		iv.manager.RemoveVertex(iv.shadow, false)
		iv.shadow = nil
	}

	if iv.count == 0 {
		return
	}

	iv.shadow = timeline.NewVertex[timeline.TriggerPayload](
		iv.shadowID, iv.occurrence(iv.count-1), false, intervalShadow{iv})

	iv.manager.AddVertex(iv.shadow, false)
}

type intervalHead struct {
	iv *Interval
}

func (h intervalHead) Trigger(v *timeline.TriggerVertex) {
	iv := h.iv
	if v != iv.head {
		return
	}

	n := iv.count
	iv.count++

	if iv.OnFire != nil {
		iv.OnFire(n, iv.occurrence(n))
	}

	iv.moveShadow()
	iv.moveHead(true)
}

func (intervalHead) Undo(*timeline.TriggerVertex) {}

type intervalShadow struct {
	iv *Interval
}

func (intervalShadow) Trigger(*timeline.TriggerVertex) {}

func (s intervalShadow) Undo(v *timeline.TriggerVertex) {
	iv := s.iv
	if v != iv.shadow || iv.count == 0 {
		return
	}

	iv.count--
	n := iv.count

	if iv.OnUndo != nil {
		iv.OnUndo(n, iv.occurrence(n))
	}

	iv.moveShadow()
	iv.moveHead(false)
}
