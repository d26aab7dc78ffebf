package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRingEvictsOldest(t *testing.T) {
	t.Parallel()

	const capacity = 5
	s := NewWithCapacity(capacity)

	for i := 0; i < capacity+1; i++ {
		s.Record("slash", snowflake.ID(i), 0, fmt.Sprintf("entry-%d", i))
	}

	assert.Equal(t, capacity, s.AuditLen())

	entries := s.RecentAudit(capacity + 1)
	require.Len(t, entries, capacity)
	assert.Equal(t, "entry-5", entries[0].Detail, "newest entry present")
	assert.Equal(t, "entry-1", entries[len(entries)-1].Detail, "oldest surviving entry")
	for _, e := range entries {
		assert.NotEqual(t, "entry-0", e.Detail, "evicted entry absent")
	}
}

func TestAuditRingNeverExceedsCapacity(t *testing.T) {
	t.Parallel()

	s := NewWithCapacity(3)
	for i := 0; i < 50; i++ {
		s.Record("prefix", 1, 2, "spam")
	}
	assert.Equal(t, 3, s.AuditLen())
}

func TestRecentAuditNewestFirst(t *testing.T) {
	t.Parallel()

	s := NewWithCapacity(10)
	s.Record("slash", 1, 0, "first")
	s.Record("slash", 2, 0, "second")
	s.Record("slash", 3, 0, "third")

	entries := s.RecentAudit(2)
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].Detail)
	assert.Equal(t, "second", entries[1].Detail)

	assert.Nil(t, s.RecentAudit(0))
}

func TestMarkGuildSyncedOnce(t *testing.T) {
	t.Parallel()

	s := New()
	assert.False(t, s.GuildSynced())
	assert.True(t, s.MarkGuildSynced())
	assert.False(t, s.MarkGuildSynced(), "second mark must report already synced")
	assert.True(t, s.GuildSynced())
}

func TestMarkNoticeSentOnce(t *testing.T) {
	t.Parallel()

	s := New()
	assert.True(t, s.MarkNoticeSent())
	assert.False(t, s.MarkNoticeSent())
	assert.True(t, s.NoticeSent())
}

func TestRelayTargets(t *testing.T) {
	t.Parallel()

	s := New()
	alice := snowflake.ID(11)
	bob := snowflake.ID(22)

	assert.True(t, s.AddRelayTarget(alice))
	assert.False(t, s.AddRelayTarget(alice), "duplicate add")
	assert.True(t, s.AddRelayTarget(bob))
	assert.True(t, s.IsRelayTarget(alice))

	assert.ElementsMatch(t, []snowflake.ID{alice, bob}, s.RelayTargets())

	assert.True(t, s.RemoveRelayTarget(alice))
	assert.False(t, s.RemoveRelayTarget(alice), "double remove")
	assert.False(t, s.IsRelayTarget(alice))
}

func TestPresenceTracking(t *testing.T) {
	t.Parallel()

	s := New()
	status, activity := s.Presence()
	assert.Equal(t, discord.OnlineStatusDND, status)
	assert.Equal(t, "you from the shadows", activity)

	s.SetPresence(discord.OnlineStatusIdle, "rebooting")
	status, activity = s.Presence()
	assert.Equal(t, discord.OnlineStatusIdle, status)
	assert.Equal(t, "rebooting", activity)
}

func TestUptime(t *testing.T) {
	t.Parallel()

	s := New()
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	s.startedAt = base
	s.now = func() time.Time { return base.Add(90 * time.Second) }

	assert.Equal(t, 90*time.Second, s.Uptime())
}
