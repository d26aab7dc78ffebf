package music

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// Manager owns the per-guild queues and the pending search sessions.
type Manager struct {
	mu       sync.Mutex
	queues   map[snowflake.ID]*GuildQueue
	Searches *SearchStore
}

func NewManager() *Manager {
	return &Manager{
		queues:   make(map[snowflake.ID]*GuildQueue),
		Searches: NewSearchStore(),
	}
}

// Queue returns the guild's queue, creating it on first use.
func (m *Manager) Queue(guildID snowflake.ID) *GuildQueue {
	m.mu.Lock()
	defer m.mu.Unlock()

	if q, ok := m.queues[guildID]; ok {
		return q
	}

	q := NewGuildQueue(guildID)
	m.queues[guildID] = q
	return q
}

// ExistingQueue returns the guild's queue only if one was already created.
func (m *Manager) ExistingQueue(guildID snowflake.ID) (*GuildQueue, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.queues[guildID]
	return q, ok
}

// GuildIDs lists every guild with a queue, in no particular order.
func (m *Manager) GuildIDs() []snowflake.ID {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]snowflake.ID, 0, len(m.queues))
	for id := range m.queues {
		ids = append(ids, id)
	}
	return ids
}
