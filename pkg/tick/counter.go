package tick

import (
	"context"
	"sync"
	"sync/atomic"
)

// Counter counts ticks since the last reset. Incr is safe to call from
// the tick callback while the control flow waits or resets.
type Counter struct {
	count    atomic.Uint32
	consumed atomic.Uint64
	once     sync.Once
	notifyCh chan struct{}
}

func (c *Counter) notify() chan struct{} {
	c.once.Do(func() { c.notifyCh = make(chan struct{}, 1) })
	return c.notifyCh
}

// Incr adds one tick. It's used as the Source callback.
func (c *Counter) Incr() {
	c.count.Add(1)
	select {
	case c.notify() <- struct{}{}:
	default:
	}
}

// Count returns the ticks since the last reset.
func (c *Counter) Count() uint32 {
	return c.count.Load()
}

// Reset drops the pending ticks.
func (c *Counter) Reset() {
	c.count.Store(0)
}

// Consumed returns the total number of ticks consumed by Wait.
func (c *Counter) Consumed() uint64 {
	return c.consumed.Load()
}

// Wait blocks until n ticks are counted, then resets the counter.
func (c *Counter) Wait(ctx context.Context, n uint32) error {
	ch := c.notify()
	for {
		if cur := c.count.Load(); cur >= n {
			if c.count.CompareAndSwap(cur, 0) {
				c.consumed.Add(uint64(n))
				return nil
			}
			continue
		}
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
