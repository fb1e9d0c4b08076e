package groups

import (
	"context"
	"time"
)

// Scheduler drives a function on a fixed interval. Every engine owns its
// own scheduler, so independent instances never share timers. Ticks run
// one at a time; a tick that outlives the interval delays the next tick
// instead of overlapping it.
type Scheduler struct {
	interval time.Duration
	run      func(context.Context)
	stop     chan struct{}
	done     chan struct{}
	started  bool
}

// NewScheduler builds a stopped scheduler.
func NewScheduler(interval time.Duration, run func(context.Context)) *Scheduler {
	return &Scheduler{
		interval: interval,
		run:      run,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the tick loop and returns immediately. Calling Start on a
// running scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	if s.started {
		return
	}
	s.started = true
	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.run(ctx)
			case <-s.stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the loop and waits for an in-flight tick to finish. Safe to
// call more than once.
func (s *Scheduler) Stop() {
	if !s.started {
		return
	}
	select {
	case <-s.stop:
	default:
		close(s.stop)
	}
	<-s.done
}
