package gesture

import (
	"sync"
	"time"
)

// DefaultCooldown is the minimum time between two dispatched actions.
const DefaultCooldown = 2 * time.Second

// Cooldown rate-limits action dispatch. It keeps exactly one piece of
// state: the timestamp of the last allowed trigger.
type Cooldown struct {
	window time.Duration
	last   time.Time
	now    func() time.Time
	mu     sync.Mutex
}

// NewCooldown creates a Cooldown with the given window.
// Windows <= 0 fall back to DefaultCooldown.
func NewCooldown(window time.Duration) *Cooldown {
	if window <= 0 {
		window = DefaultCooldown
	}
	return &Cooldown{
		window: window,
		now:    time.Now,
	}
}

// Allow reports whether an action may fire now. When it returns true
// the trigger timestamp is updated, so the next call within the window
// returns false.
func (c *Cooldown) Allow() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.last) < c.window {
		return false
	}

	c.last = now
	return true
}

// Reset clears the trigger timestamp so the next Allow succeeds.
func (c *Cooldown) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = time.Time{}
}

// SetWindow updates the cooldown window. Values <= 0 are ignored.
func (c *Cooldown) SetWindow(window time.Duration) {
	if window <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.window = window
}
