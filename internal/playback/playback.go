// Package playback replays a finished schedule at a human-friendly pace. It
// never makes scheduling decisions; simulated times come from the segments.
package playback

import (
	"context"
	"time"

	"mlfq-simulator/internal/core"
)

// Player delays each segment by Tick per simulated time unit it covers,
// idle gaps included. A zero Tick replays without delay.
type Player struct {
	Tick time.Duration
}

func New(tick time.Duration) *Player {
	return &Player{Tick: tick}
}

// Replay sends segments on the returned channel in order and closes it when
// all were delivered or ctx is done.
func (p *Player) Replay(ctx context.Context, segments []core.Segment) <-chan core.Segment {
	out := make(chan core.Segment)
	go func() {
		defer close(out)
		clock := 0
		if len(segments) > 0 {
			clock = segments[0].StartTime
		}
		for _, segment := range segments {
			if !p.wait(ctx, segment.StartTime-clock) {
				return
			}
			select {
			case out <- segment:
			case <-ctx.Done():
				return
			}
			if !p.wait(ctx, segment.Duration()) {
				return
			}
			clock = segment.EndTime
		}
	}()
	return out
}

func (p *Player) wait(ctx context.Context, units int) bool {
	if p.Tick <= 0 || units <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(time.Duration(units) * p.Tick)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
