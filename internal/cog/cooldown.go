package cog

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

// cooldown is a per-user invocation bucket: one use per window per user.
type cooldown struct {
	mu   sync.Mutex
	per  time.Duration
	last map[snowflake.ID]time.Time
	now  func() time.Time
}

func newCooldown(per time.Duration) *cooldown {
	return &cooldown{
		per:  per,
		last: make(map[snowflake.ID]time.Time),
		now:  time.Now,
	}
}

// check records an invocation attempt for userID, returning a
// *CooldownError with the remaining wait when the window has not elapsed.
func (c *cooldown) check(userID snowflake.ID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if t, ok := c.last[userID]; ok {
		if remaining := c.per - now.Sub(t); remaining > 0 {
			return &CooldownError{RetryAfter: remaining}
		}
	}
	c.last[userID] = now
	return nil
}
