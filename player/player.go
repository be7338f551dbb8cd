// Package player drives a segment manager and a trigger manager with a shared
// clock.
package player

import (
	"context"
	"sync"
	"time"

	"github.com/sarchlab/chartline/timeline"
)

// A Player owns the clock of a timeline. Every access to the managers goes
// through the player so that the managers are only used by one goroutine at a
// time.
type Player struct {
	lock     sync.Mutex
	segments *timeline.SegmentManager
	triggers *timeline.TriggerManager
	now      int64

	pauseLock sync.Mutex
	paused    bool
	resume    chan struct{}

	tick time.Duration
}

// New creates a player with the clock at 0.
func New(segs *timeline.SegmentManager, trigs *timeline.TriggerManager) *Player {
	return &Player{
		segments: segs,
		triggers: trigs,
		tick:     16 * time.Millisecond,
		resume:   make(chan struct{}),
	}
}

// WithTick sets the wall-clock period of Run.
func (p *Player) WithTick(d time.Duration) *Player {
	if d > 0 {
		p.tick = d
	}

	return p
}

// Now returns the clock in milliseconds.
func (p *Player) Now() int64 {
	p.lock.Lock()
	defer p.lock.Unlock()

	return p.now
}

// Seek moves the clock to now. Segments are updated before triggers.
func (p *Player) Seek(now int64) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.seek(now)
}

// Advance moves the clock by delta milliseconds, which can be negative.
func (p *Player) Advance(delta int64) int64 {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.seek(p.now + delta)

	return p.now
}

func (p *Player) seek(now int64) {
	p.segments.Update(now)
	p.triggers.Update(now)
	p.now = now
}

// Do runs f with exclusive access to the managers.
func (p *Player) Do(f func(segs *timeline.SegmentManager, trigs *timeline.TriggerManager)) {
	p.lock.Lock()
	defer p.lock.Unlock()

	f(p.segments, p.triggers)
}

// Pause stops Run from moving the clock. Seek still works.
func (p *Player) Pause() {
	p.pauseLock.Lock()
	defer p.pauseLock.Unlock()

	p.paused = true
}

// Continue resumes a paused Run.
func (p *Player) Continue() {
	p.pauseLock.Lock()
	defer p.pauseLock.Unlock()

	if !p.paused {
		return
	}

	p.paused = false
	close(p.resume)
	p.resume = make(chan struct{})
}

// IsPaused tells if the player is paused.
func (p *Player) IsPaused() bool {
	p.pauseLock.Lock()
	defer p.pauseLock.Unlock()

	return p.paused
}

func (p *Player) waitIfPaused(ctx context.Context) (waited bool, err error) {
	p.pauseLock.Lock()
	paused, resume := p.paused, p.resume
	p.pauseLock.Unlock()

	if !paused {
		return false, nil
	}

	select {
	case <-resume:
		return true, nil
	case <-ctx.Done():
		return true, ctx.Err()
	}
}

// Run advances the clock in real time until it reaches end or ctx is done.
// Each tick moves the clock by the wall-clock time elapsed since the previous
// tick. Time spent paused is not counted.
func (p *Player) Run(ctx context.Context, end int64) error {
	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	last := time.Now()

	var carry time.Duration

	for {
		if p.Now() >= end {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		waited, err := p.waitIfPaused(ctx)
		if err != nil {
			return err
		}

		now := time.Now()
		if waited {
			last = now
			continue
		}

		carry += now.Sub(last)
		last = now

		step := carry.Milliseconds()
		carry -= time.Duration(step) * time.Millisecond

		p.lock.Lock()
		p.seek(min(p.now+step, end))
		p.lock.Unlock()
	}
}
