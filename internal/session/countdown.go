package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// countdown drives the quiz timer with a one-second tick. It must be
// stopped on teardown; otherwise the tick goroutine outlives the
// session.
type countdown struct {
	mu        sync.Mutex
	remaining time.Duration

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

func newCountdown(d time.Duration, onExpire func()) *countdown {
	c := &countdown{
		remaining: d,
		ticker:    time.NewTicker(time.Second),
		done:      make(chan struct{}),
	}
	go c.run(onExpire)
	return c
}

func (c *countdown) run(onExpire func()) {
	for {
		select {
		case <-c.done:
			return
		case <-c.ticker.C:
			c.mu.Lock()
			c.remaining -= time.Second
			expired := c.remaining <= 0
			c.mu.Unlock()

			if expired {
				c.stop()
				onExpire()
				return
			}
		}
	}
}

func (c *countdown) remainingTime() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.remaining < 0 {
		return 0
	}
	return c.remaining
}

func (c *countdown) stop() {
	c.stopOnce.Do(func() {
		c.ticker.Stop()
		close(c.done)
	})
}

func newSessionID() string {
	return uuid.NewString()
}
