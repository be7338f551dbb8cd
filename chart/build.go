package chart

import (
	"fmt"

	"github.com/sarchlab/chartline/effect"
	"github.com/sarchlab/chartline/timeline"
)

// Built holds the timeline objects created from a chart, by entry name.
type Built struct {
	Segments  map[string]*timeline.Segment
	Triggers  map[string]*timeline.TriggerVertex
	Intervals map[string]*effect.Interval
}

// Build adds every entry of the chart to the managers. Segments and triggers
// report to the sink.
func (c *Chart) Build(
	segs *timeline.SegmentManager,
	trigs *timeline.TriggerManager,
	sink Sink,
) (*Built, error) {
	b := &Built{
		Segments:  make(map[string]*timeline.Segment),
		Triggers:  make(map[string]*timeline.TriggerVertex),
		Intervals: make(map[string]*effect.Interval),
	}

	for _, spec := range c.Segments {
		p, err := newSegmentPayload(spec, sink)
		if err != nil {
			return nil, err
		}

		s := timeline.NewSegment(
			segs.GenerateNextID(), spec.Start, spec.End, spec.Dynamic, p)
		if !segs.Add(s) {
			return nil, fmt.Errorf("segment %q: %w", spec.Name, ErrInvalidRange)
		}

		b.Segments[spec.Name] = s
	}

	for _, spec := range c.Triggers {
		v := timeline.NewVertex[timeline.TriggerPayload](
			trigs.GenerateNextID(), spec.Time, spec.Dynamic,
			newTriggerPayload(spec.Name, sink))
		if err := addTrigger(trigs, spec.Name, v); err != nil {
			return nil, err
		}

		b.Triggers[spec.Name] = v
	}

	for _, spec := range c.Intervals {
		name := spec.Name
		iv := &effect.Interval{
			Start: spec.Start,
			Every: spec.Every,
			Limit: spec.Limit,
			OnFire: func(n int, at int64) {
				sink.Emit(Event{Kind: EventTrigger, Name: name, Count: n + 1, At: at})
			},
			OnUndo: func(n int, at int64) {
				sink.Emit(Event{Kind: EventUndo, Name: name, Count: n + 1, At: at})
			},
		}

		if !iv.Attach(trigs) {
			return nil, fmt.Errorf("interval %q: %w", spec.Name, ErrInvalidInterval)
		}

		b.Intervals[spec.Name] = iv
	}

	return b, nil
}

func addTrigger(
	trigs *timeline.TriggerManager,
	name string,
	v *timeline.TriggerVertex,
) error {
	if !trigs.AddVertex(v, true) {
		return fmt.Errorf("trigger %q: %w", name, ErrRejectedTrigger)
	}

	return nil
}

// segmentPayload reports enter and leave with the boundary that was crossed.
// The manager calls Update with the boundary progress right after OnEnter and
// right before OnLeave.
type segmentPayload struct {
	name  string
	sink  Sink
	tween *effect.Tween

	entering bool
	last     float64
}

func newSegmentPayload(spec SegmentSpec, sink Sink) (*segmentPayload, error) {
	p := &segmentPayload{name: spec.Name, sink: sink}

	if spec.Tween == nil {
		return p, nil
	}

	target := spec.Tween.Target
	if target == "" {
		target = spec.Name
	}

	tw, err := effect.NewTween(spec.Tween.From, spec.Tween.To, spec.Tween.Ease,
		func(v float64) { sink.Set(target, v) })
	if err != nil {
		return nil, fmt.Errorf("segment %q: %w", spec.Name, err)
	}

	p.tween = tw

	return p, nil
}

func (p *segmentPayload) OnEnter(*timeline.Segment) {
	p.entering = true
}

func (p *segmentPayload) Update(progress float64, s *timeline.Segment) {
	p.last = progress

	if p.entering {
		p.entering = false
		p.sink.Emit(Event{Kind: EventEnter, Name: p.name, At: boundary(s, progress)})
	}

	if p.tween != nil {
		p.tween.Update(progress, s)
	}
}

func (p *segmentPayload) OnLeave(s *timeline.Segment) {
	p.sink.Emit(Event{Kind: EventLeave, Name: p.name, At: boundary(s, p.last)})
}

func boundary(s *timeline.Segment, progress float64) int64 {
	if progress >= 1 {
		return s.EndTime()
	}

	return s.StartTime()
}

func newTriggerPayload(name string, sink Sink) *effect.TriggerFunc {
	return &effect.TriggerFunc{
		OnTrigger: func(v *timeline.TriggerVertex) {
			sink.Emit(Event{Kind: EventTrigger, Name: name, At: v.Time()})
		},
		OnUndo: func(v *timeline.TriggerVertex) {
			sink.Emit(Event{Kind: EventUndo, Name: name, At: v.Time()})
		},
	}
}
