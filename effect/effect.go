// Package effect provides ready-made payloads for chart segments and
// triggers.
package effect

import (
	"github.com/sarchlab/chartline/ease"
	"github.com/sarchlab/chartline/timeline"
)

// Func is a segment payload made of a single progress callback.
type Func func(progress float64, s *timeline.Segment)

// Update calls f.
func (f Func) Update(progress float64, s *timeline.Segment) {
	f(progress, s)
}

// Custom is a segment payload built from closures. Nil closures are skipped.
type Custom struct {
	UpdateFunc func(progress float64, s *timeline.Segment)
	EnterFunc  func(s *timeline.Segment)
	LeaveFunc  func(s *timeline.Segment)
}

// Update calls UpdateFunc.
func (c *Custom) Update(progress float64, s *timeline.Segment) {
	if c.UpdateFunc != nil {
		c.UpdateFunc(progress, s)
	}
}

// OnEnter calls EnterFunc.
func (c *Custom) OnEnter(s *timeline.Segment) {
	if c.EnterFunc != nil {
		c.EnterFunc(s)
	}
}

// OnLeave calls LeaveFunc.
func (c *Custom) OnLeave(s *timeline.Segment) {
	if c.LeaveFunc != nil {
		c.LeaveFunc(s)
	}
}

// Tween moves a value from From to To over a segment.
type Tween struct {
	From float64
	To   float64
	Ease ease.Func
	Set  func(value float64)
}

// NewTween creates a tween with the named easing curve.
func NewTween(
	from, to float64,
	easeName string,
	set func(value float64),
) (*Tween, error) {
	f, err := ease.ByName(easeName)
	if err != nil {
		return nil, err
	}

	return &Tween{From: from, To: to, Ease: f, Set: set}, nil
}

// Value returns the tweened value at progress.
func (t *Tween) Value(progress float64) float64 {
	f := t.Ease
	if f == nil {
		f = ease.Linear
	}

	return t.From + (t.To-t.From)*f(progress)
}

// Update sets the tweened value.
func (t *Tween) Update(progress float64, _ *timeline.Segment) {
	t.Set(t.Value(progress))
}

// TriggerFunc is a trigger payload built from closures. Nil closures are
// skipped.
type TriggerFunc struct {
	OnTrigger func(v *timeline.TriggerVertex)
	OnUndo    func(v *timeline.TriggerVertex)
}

// Trigger calls OnTrigger.
func (f *TriggerFunc) Trigger(v *timeline.TriggerVertex) {
	if f.OnTrigger != nil {
		f.OnTrigger(v)
	}
}

// Undo calls OnUndo.
func (f *TriggerFunc) Undo(v *timeline.TriggerVertex) {
	if f.OnUndo != nil {
		f.OnUndo(v)
	}
}

var (
	_ timeline.SegmentPayload   = Func(nil)
	_ timeline.LifecyclePayload = (*Custom)(nil)
	_ timeline.SegmentPayload   = (*Tween)(nil)
	_ timeline.TriggerPayload   = (*TriggerFunc)(nil)
)
