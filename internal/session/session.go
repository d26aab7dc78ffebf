package session

import (
	"sync"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// DefaultAuditCapacity bounds the rolling audit log.
const DefaultAuditCapacity = 2000

// Entry is a single audit record. Entries live only in memory and are
// discarded on process exit.
type Entry struct {
	When   time.Time
	Kind   string
	Actor  snowflake.ID
	Guild  snowflake.ID
	Detail string
}

// State holds the mutable, process-lifetime bookkeeping of one bot run:
// the tracked presence, the start timestamp, the one-time guards for
// command sync and the startup notice, the DM relay target set and the
// rolling audit log. Event handlers run on SDK goroutines, so every
// accessor is mutex-guarded.
type State struct {
	mu sync.Mutex

	startedAt time.Time

	presenceStatus   discord.OnlineStatus
	presenceActivity string

	guildSynced bool
	noticeSent  bool

	relayTargets map[snowflake.ID]struct{}

	audit auditRing

	now func() time.Time
}

// New returns a State with the default audit capacity.
func New() *State {
	return NewWithCapacity(DefaultAuditCapacity)
}

// NewWithCapacity is New with an explicit audit capacity, for tests.
func NewWithCapacity(auditCap int) *State {
	s := &State{
		presenceStatus:   discord.OnlineStatusDND,
		presenceActivity: "you from the shadows",
		relayTargets:     make(map[snowflake.ID]struct{}),
		audit:            newAuditRing(auditCap),
		now:              time.Now,
	}
	s.startedAt = s.now()
	return s
}

// StartedAt is the instant the session was created.
func (s *State) StartedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.startedAt
}

// Uptime is the time elapsed since the session was created.
func (s *State) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now().Sub(s.startedAt)
}

// SetPresence records the last presence pushed to the platform so later
// confirmations report what was actually set.
func (s *State) SetPresence(status discord.OnlineStatus, activity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presenceStatus = status
	s.presenceActivity = activity
}

// Presence returns the last recorded presence.
func (s *State) Presence() (discord.OnlineStatus, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presenceStatus, s.presenceActivity
}

// GuildSynced reports whether the guild-scoped command sync already ran.
func (s *State) GuildSynced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.guildSynced
}

// MarkGuildSynced flips the guild-sync guard. It returns true on the first
// call and false afterwards, so a repeated ready event cannot sync twice.
func (s *State) MarkGuildSynced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.guildSynced {
		return false
	}
	s.guildSynced = true
	return true
}

// NoticeSent reports whether the startup notice reached the owner.
func (s *State) NoticeSent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.noticeSent
}

// MarkNoticeSent flips the startup-notice guard, returning true on the
// first call only.
func (s *State) MarkNoticeSent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.noticeSent {
		return false
	}
	s.noticeSent = true
	return true
}

// AddRelayTarget registers a user whose direct messages are forwarded to
// the owner. Returns false when the user was already registered.
func (s *State) AddRelayTarget(id snowflake.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.relayTargets[id]; ok {
		return false
	}
	s.relayTargets[id] = struct{}{}
	return true
}

// RemoveRelayTarget unregisters a relay target. Returns false when the
// user was not registered.
func (s *State) RemoveRelayTarget(id snowflake.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.relayTargets[id]; !ok {
		return false
	}
	delete(s.relayTargets, id)
	return true
}

// IsRelayTarget reports whether the user's DMs should be relayed.
func (s *State) IsRelayTarget(id snowflake.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.relayTargets[id]
	return ok
}

// RelayTargets returns the registered relay targets in unspecified order.
func (s *State) RelayTargets() []snowflake.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]snowflake.ID, 0, len(s.relayTargets))
	for id := range s.relayTargets {
		ids = append(ids, id)
	}
	return ids
}

// Record appends an audit entry, evicting the oldest once the ring is full.
func (s *State) Record(kind string, actor snowflake.ID, guild snowflake.ID, detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit.push(Entry{
		When:   s.now(),
		Kind:   kind,
		Actor:  actor,
		Guild:  guild,
		Detail: detail,
	})
}

// AuditLen is the number of retained audit entries.
func (s *State) AuditLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audit.size
}

// RecentAudit returns up to n entries, newest first.
func (s *State) RecentAudit(n int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audit.recent(n)
}

// auditRing is a fixed-capacity ring over audit entries. head points at the
// oldest entry; push overwrites it once the ring is full.
type auditRing struct {
	entries []Entry
	head    int
	size    int
}

func newAuditRing(capacity int) auditRing {
	if capacity < 1 {
		capacity = 1
	}
	return auditRing{entries: make([]Entry, capacity)}
}

func (r *auditRing) push(e Entry) {
	if r.size < len(r.entries) {
		r.entries[(r.head+r.size)%len(r.entries)] = e
		r.size++
		return
	}
	r.entries[r.head] = e
	r.head = (r.head + 1) % len(r.entries)
}

func (r *auditRing) recent(n int) []Entry {
	if n > r.size {
		n = r.size
	}
	if n <= 0 {
		return nil
	}
	out := make([]Entry, n)
	for i := 0; i < n; i++ {
		out[i] = r.entries[(r.head+r.size-1-i)%len(r.entries)]
	}
	return out
}
