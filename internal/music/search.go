package music

import (
	"sync"
	"time"

	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
)

// PageSize is how many search results fit on one page.
const PageSize = 5

// searchTTL is how long an unanswered search prompt stays selectable.
const searchTTL = 5 * time.Minute

// PendingSearch is an unanswered search prompt: the result tracks, the
// page currently shown, and who may pick from it.
type PendingSearch struct {
	Tracks    []lavalink.Track
	Page      int
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	UserID    snowflake.ID
	CreatedAt time.Time
}

func (ps *PendingSearch) TotalPages() int {
	pages := len(ps.Tracks) / PageSize
	if len(ps.Tracks)%PageSize != 0 {
		pages++
	}
	return pages
}

// PageTracks returns the slice of results on the current page.
func (ps *PendingSearch) PageTracks() []lavalink.Track {
	start := ps.Page * PageSize
	end := start + PageSize
	if end > len(ps.Tracks) {
		end = len(ps.Tracks)
	}
	if start >= len(ps.Tracks) {
		return nil
	}
	return ps.Tracks[start:end]
}

// SearchStore keeps pending searches keyed by prompt message ID. Stale
// entries are swept opportunistically on insert.
type SearchStore struct {
	searches map[snowflake.ID]*PendingSearch
	mu       sync.Mutex
	now      func() time.Time
}

func NewSearchStore() *SearchStore {
	return &SearchStore{
		searches: make(map[snowflake.ID]*PendingSearch),
		now:      time.Now,
	}
}

func (ss *SearchStore) Set(messageID snowflake.ID, s *PendingSearch) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := ss.now()
	for id, existing := range ss.searches {
		if now.Sub(existing.CreatedAt) > searchTTL {
			delete(ss.searches, id)
		}
	}

	ss.searches[messageID] = s
}

func (ss *SearchStore) Get(messageID snowflake.ID) *PendingSearch {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return ss.searches[messageID]
}

func (ss *SearchStore) Delete(messageID snowflake.ID) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.searches, messageID)
}
