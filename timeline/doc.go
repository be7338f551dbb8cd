// Package timeline schedules chart effects against a clock that can move in
// both directions.
//
// Two managers share the same machinery. A SegmentManager keeps effects that
// span a time range and tells their payloads when the clock enters the range,
// how far it has progressed, and when it leaves. A TriggerManager keeps
// instantaneous events and tells their payloads to trigger when the clock
// passes them and to undo when the clock is rewound before them.
//
// Both managers keep their vertices in an Index, a sorted slice with a cursor
// that separates the past from the future. Each Update steps the cursor one
// vertex at a time, so every crossing of a long seek is reported in time
// order. Vertices may be added or removed at any time, including from inside
// a payload callback, and a vertex added behind the clock is crossed right
// away as if it had always been there.
//
// Managers are meant to be driven by one goroutine. Wrap them (see package
// player) if more than one goroutine touches them.
package timeline
