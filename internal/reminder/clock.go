package reminder

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval leaves room for scheduling jitter inside a minute.
const DefaultPollInterval = 20 * time.Second

type Clock interface {
	Now() time.Time
}

// SystemClock reads wall-clock time in Location (time.Local when nil).
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FakeClock is deterministic and test-friendly.
type FakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{t: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

// Sampler reads a Clock on a fixed interval.
type Sampler struct {
	clock    Clock
	interval time.Duration
}

func NewSampler(clock Clock, interval time.Duration) *Sampler {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Sampler{clock: clock, interval: interval}
}

func (s *Sampler) Interval() time.Duration { return s.interval }

// Run sends a clock reading to out every interval until ctx is done.
// A reading is dropped when the previous one has not been consumed yet,
// so a busy consumer never sees a backlog of stale ticks.
func (s *Sampler) Run(ctx context.Context, out chan<- time.Time) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case out <- s.clock.Now():
			default:
			}
		}
	}
}
