package music

import (
	"fmt"
	"testing"

	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func track(title string) lavalink.Track {
	return lavalink.Track{
		Encoded: "enc:" + title,
		Info:    lavalink.TrackInfo{Title: title},
	}
}

func tracks(n int) []lavalink.Track {
	out := make([]lavalink.Track, n)
	for i := range out {
		out[i] = track(fmt.Sprintf("track-%d", i))
	}
	return out
}

func TestQueueNextFIFO(t *testing.T) {
	q := NewGuildQueue(1)
	q.Add(tracks(3)...)

	for i := 0; i < 3; i++ {
		next := q.Next()
		require.NotNil(t, next)
		assert.Equal(t, fmt.Sprintf("track-%d", i), next.Info.Title)
	}

	assert.Nil(t, q.Next())
	assert.Nil(t, q.CurrentTrack)
}

func TestQueueRepeatOne(t *testing.T) {
	q := NewGuildQueue(1)
	q.Add(track("a"), track("b"))

	first := q.Next()
	require.NotNil(t, first)
	assert.Equal(t, "a", first.Info.Title)

	q.Repeat = RepeatOne
	for i := 0; i < 3; i++ {
		next := q.Next()
		require.NotNil(t, next)
		assert.Equal(t, "a", next.Info.Title)
	}
	assert.Equal(t, 1, q.Len())
}

func TestQueueRepeatAll(t *testing.T) {
	q := NewGuildQueue(1)
	q.Add(track("a"), track("b"))
	q.Repeat = RepeatAll

	var order []string
	for i := 0; i < 6; i++ {
		next := q.Next()
		require.NotNil(t, next)
		order = append(order, next.Info.Title)
	}
	assert.Equal(t, []string{"a", "b", "a", "b", "a", "b"}, order)
}

func TestQueueShufflePreservesTracks(t *testing.T) {
	q := NewGuildQueue(1)
	q.Add(tracks(20)...)

	before := q.List(20)
	q.Shuffle()
	after := q.List(20)

	assert.ElementsMatch(t, before, after)
	assert.Equal(t, 20, q.Len())
}

func TestQueueMove(t *testing.T) {
	q := NewGuildQueue(1)
	q.Add(track("a"), track("b"), track("c"))

	moved, ok := q.Move(3, 1)
	require.True(t, ok)
	assert.Equal(t, "c", moved.Info.Title)

	list := q.List(3)
	assert.Equal(t, "c", list[0].Info.Title)
	assert.Equal(t, "a", list[1].Info.Title)
	assert.Equal(t, "b", list[2].Info.Title)
}

func TestQueueMoveOutOfRange(t *testing.T) {
	q := NewGuildQueue(1)
	q.Add(track("a"), track("b"))

	for _, pos := range [][2]int{{0, 1}, {1, 0}, {3, 1}, {1, 3}, {-1, 1}} {
		_, ok := q.Move(pos[0], pos[1])
		assert.False(t, ok, "move %v should be rejected", pos)
	}
	assert.Equal(t, 2, q.Len())
}

func TestQueueRemove(t *testing.T) {
	q := NewGuildQueue(1)
	q.Add(track("a"), track("b"), track("c"))

	removed, ok := q.Remove(2)
	require.True(t, ok)
	assert.Equal(t, "b", removed.Info.Title)

	list := q.List(3)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Info.Title)
	assert.Equal(t, "c", list[1].Info.Title)

	_, ok = q.Remove(0)
	assert.False(t, ok)
	_, ok = q.Remove(3)
	assert.False(t, ok)
}

func TestQueueClear(t *testing.T) {
	q := NewGuildQueue(1)
	q.Add(tracks(5)...)
	q.Repeat = RepeatAll
	cur := track("current")
	q.SetCurrentTrack(&cur)
	q.NowPlayingMessageID = 99
	q.StopUpdateCh = make(chan struct{})

	q.Clear()

	assert.Zero(t, q.Len())
	assert.Nil(t, q.CurrentTrack)
	assert.Equal(t, RepeatOff, q.Repeat)
	assert.Zero(t, q.NowPlayingMessageID)
	assert.Nil(t, q.StopUpdateCh)
}

func TestQueueNextRepeatCycle(t *testing.T) {
	q := NewGuildQueue(1)

	assert.Equal(t, RepeatOne, q.NextRepeat())
	assert.Equal(t, RepeatAll, q.NextRepeat())
	assert.Equal(t, RepeatOff, q.NextRepeat())
}

func TestRepeatModeString(t *testing.T) {
	assert.Equal(t, "off", RepeatOff.String())
	assert.Equal(t, "track", RepeatOne.String())
	assert.Equal(t, "queue", RepeatAll.String())
}

func TestManagerQueueReuse(t *testing.T) {
	m := NewManager()

	q1 := m.Queue(10)
	q2 := m.Queue(10)
	assert.Same(t, q1, q2)

	_, ok := m.ExistingQueue(11)
	assert.False(t, ok)

	m.Queue(11)
	assert.ElementsMatch(t, []snowflake.ID{10, 11}, m.GuildIDs())

	got, ok := m.ExistingQueue(10)
	require.True(t, ok)
	assert.Same(t, q1, got)
}
