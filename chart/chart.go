// Package chart loads storyboards from YAML and builds them into timeline
// managers.
package chart

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/chartline/ease"
	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingName is returned when an entry has no name.
	ErrMissingName = errors.New("missing name")

	// ErrDuplicateName is returned when two entries of a chart share a name.
	ErrDuplicateName = errors.New("duplicated name")

	// ErrInvalidRange is returned when a segment does not end after it starts.
	ErrInvalidRange = errors.New("segment must end after it starts")

	// ErrInvalidInterval is returned when an interval has a non-positive step
	// or a negative limit.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrRejectedTrigger is returned when the trigger manager refuses a
	// trigger vertex.
	ErrRejectedTrigger = errors.New("trigger rejected by the manager")
)

// TweenSpec describes a value moved by a segment.
type TweenSpec struct {
	Target string  `yaml:"target"`
	From   float64 `yaml:"from"`
	To     float64 `yaml:"to"`
	Ease   string  `yaml:"ease"`
}

// SegmentSpec describes a segment of the chart.
type SegmentSpec struct {
	Name    string     `yaml:"name"`
	Start   int64      `yaml:"start"`
	End     int64      `yaml:"end"`
	Dynamic bool       `yaml:"dynamic"`
	Tween   *TweenSpec `yaml:"tween,omitempty"`
}

// TriggerSpec describes a one-shot trigger.
type TriggerSpec struct {
	Name    string `yaml:"name"`
	Time    int64  `yaml:"time"`
	Dynamic bool   `yaml:"dynamic"`
}

// IntervalSpec describes a repeating trigger. A zero limit repeats forever.
type IntervalSpec struct {
	Name  string `yaml:"name"`
	Start int64  `yaml:"start"`
	Every int64  `yaml:"every"`
	Limit int    `yaml:"limit"`
}

// Chart is a storyboard of segments, triggers and intervals.
type Chart struct {
	Segments  []SegmentSpec  `yaml:"segments"`
	Triggers  []TriggerSpec  `yaml:"triggers"`
	Intervals []IntervalSpec `yaml:"intervals"`
}

// Load decodes and validates a chart. Unknown fields are rejected.
func Load(r io.Reader) (*Chart, error) {
	c := &Chart{}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	err := dec.Decode(c)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode chart: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// LoadFile loads the chart stored at path.
func LoadFile(path string) (*Chart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open chart: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}

// Validate checks that every entry of the chart can be built.
func (c *Chart) Validate() error {
	names := make(map[string]bool)

	claim := func(kind, name string) error {
		if name == "" {
			return fmt.Errorf("%s: %w", kind, ErrMissingName)
		}

		if names[name] {
			return fmt.Errorf("%s %q: %w", kind, name, ErrDuplicateName)
		}

		names[name] = true

		return nil
	}

	for _, s := range c.Segments {
		if err := claim("segment", s.Name); err != nil {
			return err
		}

		if s.Start >= s.End {
			return fmt.Errorf("segment %q [%d, %d): %w",
				s.Name, s.Start, s.End, ErrInvalidRange)
		}

		if s.Tween == nil {
			continue
		}

		if _, err := ease.ByName(s.Tween.Ease); err != nil {
			return fmt.Errorf("segment %q: %w", s.Name, err)
		}
	}

	for _, t := range c.Triggers {
		if err := claim("trigger", t.Name); err != nil {
			return err
		}
	}

	for _, iv := range c.Intervals {
		if err := claim("interval", iv.Name); err != nil {
			return err
		}

		if iv.Every <= 0 || iv.Limit < 0 {
			return fmt.Errorf("interval %q every %d limit %d: %w",
				iv.Name, iv.Every, iv.Limit, ErrInvalidInterval)
		}
	}

	return nil
}

// Span returns the earliest and the latest time the chart mentions. Unbounded
// intervals count only their first occurrence.
func (c *Chart) Span() (first, last int64) {
	seen := false
	see := func(t int64) {
		if !seen {
			first, last, seen = t, t, true
			return
		}

		first = min(first, t)
		last = max(last, t)
	}

	for _, s := range c.Segments {
		see(s.Start)
		see(s.End)
	}

	for _, t := range c.Triggers {
		see(t.Time)
	}

	for _, iv := range c.Intervals {
		see(iv.Start)

		if iv.Limit > 0 {
			see(iv.Start + iv.Every*int64(iv.Limit-1))
		}
	}

	return first, last
}
