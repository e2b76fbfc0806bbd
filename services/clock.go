package services

import (
	"sync"
	"time"
)

// Resolution selects how often a clock subscriber is woken.
type Resolution int

const (
	// Fine subscribers receive every tick (1s).
	Fine Resolution = iota
	// Coarse subscribers receive every 60th tick.
	Coarse
)

const coarseEvery = 60

// Clock is the process-wide ticker. Countdown displays subscribe to it
// instead of running their own timers, and Stop tears every subscription
// down at once.
type Clock struct {
	mu      sync.Mutex
	subs    map[uint64]*clockSub
	nextID  uint64
	ticks   uint64
	stopped bool

	source <-chan time.Time
	ticker *time.Ticker
	done   chan struct{}
}

type clockSub struct {
	ch         chan time.Time
	resolution Resolution
	once       sync.Once
}

func (s *clockSub) close() {
	s.once.Do(func() { close(s.ch) })
}

// NewClock starts a clock ticking every interval.
func NewClock(interval time.Duration) *Clock {
	ticker := time.NewTicker(interval)
	c := newClock(ticker.C)
	c.ticker = ticker
	return c
}

// NewClockWithSource drives the clock from an external channel, e.g. in tests.
func NewClockWithSource(source <-chan time.Time) *Clock {
	return newClock(source)
}

func newClock(source <-chan time.Time) *Clock {
	c := &Clock{
		subs:   make(map[uint64]*clockSub),
		source: source,
		done:   make(chan struct{}),
	}
	go c.run()
	return c
}

func (c *Clock) run() {
	for {
		select {
		case <-c.done:
			return
		case now, ok := <-c.source:
			if !ok {
				c.Stop()
				return
			}
			c.dispatch(now)
		}
	}
}

// Slow subscribers miss ticks rather than blocking the clock.
func (c *Clock) dispatch(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ticks++
	coarse := c.ticks%coarseEvery == 0
	for _, sub := range c.subs {
		if sub.resolution == Coarse && !coarse {
			continue
		}
		select {
		case sub.ch <- now:
		default:
		}
	}
}

// Subscribe registers a listener. The returned func unsubscribes and closes
// the channel; it is safe to call more than once and after Stop.
func (c *Clock) Subscribe(resolution Resolution) (<-chan time.Time, func()) {
	sub := &clockSub{ch: make(chan time.Time, 1), resolution: resolution}

	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		sub.close()
		return sub.ch, func() {}
	}
	id := c.nextID
	c.nextID++
	c.subs[id] = sub
	c.mu.Unlock()

	return sub.ch, func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
		sub.close()
	}
}

// Subscribers reports the number of live subscriptions.
func (c *Clock) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Stop halts the ticker and closes every subscriber channel.
func (c *Clock) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	c.stopped = true

	if c.ticker != nil {
		c.ticker.Stop()
	}
	close(c.done)
	for id, sub := range c.subs {
		sub.close()
		delete(c.subs, id)
	}
}
