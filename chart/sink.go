package chart

import (
	"fmt"
	"maps"
	"slices"
	"sync"
)

// EventKind tells what happened to a chart entry.
type EventKind string

// The kinds of events a built chart emits.
const (
	EventEnter   EventKind = "enter"
	EventLeave   EventKind = "leave"
	EventTrigger EventKind = "trigger"
	EventUndo    EventKind = "undo"
)

// Event is a notification emitted by a built chart entry.
type Event struct {
	Kind EventKind
	Name string

	// Count is the occurrence number for intervals and 0 otherwise.
	Count int
	At    int64
}

func (e Event) String() string {
	if e.Count > 0 {
		return fmt.Sprintf("%s %s #%d @ %d", e.Kind, e.Name, e.Count, e.At)
	}

	return fmt.Sprintf("%s %s @ %d", e.Kind, e.Name, e.At)
}

// Sink receives the values and the events of a built chart.
type Sink interface {
	Set(target string, value float64)
	Emit(e Event)
}

// EventLog is an append-only list of events.
type EventLog []Event

// Strings formats every event.
func (l EventLog) Strings() []string {
	out := make([]string, 0, len(l))
	for _, e := range l {
		out = append(out, e.String())
	}

	return out
}

// ValueSink keeps the latest value of every target and logs every event. It
// is safe for concurrent use.
type ValueSink struct {
	lock   sync.Mutex
	values map[string]float64
	events EventLog
}

// NewValueSink creates an empty ValueSink.
func NewValueSink() *ValueSink {
	return &ValueSink{values: make(map[string]float64)}
}

// Set records the value of a target.
func (s *ValueSink) Set(target string, value float64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.values[target] = value
}

// Emit appends the event to the log.
func (s *ValueSink) Emit(e Event) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.events = append(s.events, e)
}

// Value returns the latest value of a target.
func (s *ValueSink) Value(target string) (float64, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	v, ok := s.values[target]

	return v, ok
}

// Values returns a copy of all the target values.
func (s *ValueSink) Values() map[string]float64 {
	s.lock.Lock()
	defer s.lock.Unlock()

	return maps.Clone(s.values)
}

// Targets returns the names of the targets set so far, sorted.
func (s *ValueSink) Targets() []string {
	s.lock.Lock()
	defer s.lock.Unlock()

	return slices.Sorted(maps.Keys(s.values))
}

// Events returns a copy of the event log.
func (s *ValueSink) Events() EventLog {
	s.lock.Lock()
	defer s.lock.Unlock()

	return slices.Clone(s.events)
}

// Drain returns the event log and clears it.
func (s *ValueSink) Drain() EventLog {
	s.lock.Lock()
	defer s.lock.Unlock()

	events := s.events
	s.events = nil

	return events
}
