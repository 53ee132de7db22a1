package notify

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Center keeps notifications visible for a fixed interval and then drops
// them.
type Center struct {
	active *expirable.LRU[string, Notification]
	ttl    time.Duration
}

func NewCenter(ttl time.Duration) *Center {
	return &Center{
		active: expirable.NewLRU[string, Notification](0, nil, ttl), // 0 = no size limit
		ttl:    ttl,
	}
}

func (c *Center) Notify(n Notification) {
	c.active.Add(n.ID, n)
}

// Active returns the notifications that have not expired, oldest first.
func (c *Center) Active() []Notification {
	return c.active.Values()
}

func (c *Center) Dismiss(id string) bool {
	return c.active.Remove(id)
}

func (c *Center) TTL() time.Duration {
	return c.ttl
}
