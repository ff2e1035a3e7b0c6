package transport

import (
	"sync"

	"github.com/openverso/nrue-if/pkg/fapi"
)

// SlotClock publishes slot ticks from the receive loop to anything pacing
// itself on slot boundaries. It is a counting gate: every Post is banked
// until a Wait consumes it, so a burst of ticks arriving while the consumer
// is busy is never lost. The receive loop is the sole writer.
type SlotClock struct {
	mu      sync.Mutex
	cond    *sync.Cond
	pending int
	current fapi.SfnSlot
}

// NewSlotClock creates a slot clock with no ticks pending
func NewSlotClock() *SlotClock {
	c := &SlotClock{}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// Post records s as the current slot and banks one tick for waiters
func (c *SlotClock) Post(s fapi.SfnSlot) {
	c.mu.Lock()
	c.current = s
	c.pending++
	c.mu.Unlock()
	c.cond.Signal()
}

// Wait blocks until a tick is available, consumes it, and returns the
// current slot. This is the one legitimate suspension point on the
// slot-processing path.
func (c *SlotClock) Wait() fapi.SfnSlot {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.pending == 0 {
		c.cond.Wait()
	}
	c.pending--
	return c.current
}

// Current returns the last posted slot without consuming a tick
func (c *SlotClock) Current() fapi.SfnSlot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Pending returns the number of banked, unconsumed ticks
func (c *SlotClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}
