package embed

import (
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arkete/shadebot/internal/cog"
	"github.com/arkete/shadebot/internal/music"
)

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		ms   int64
		want string
	}{
		{0, "0:00"},
		{7_000, "0:07"},
		{65_000, "1:05"},
		{600_000, "10:00"},
		{3_600_000, "1:00:00"},
		{3_725_000, "1:02:05"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatDuration(lavalink.Duration(tc.ms)))
	}
}

func TestCooldownEmbedText(t *testing.T) {
	e := CooldownEmbed(2500 * time.Millisecond)

	assert.Equal(t, "⏰ Command on Cooldown", e.Title)
	assert.Equal(t, "Please wait 2.5 seconds before using this command again.", e.Description)
	assert.Equal(t, ColorOrange, e.Color)
}

func TestPermissionEmbedText(t *testing.T) {
	e := PermissionEmbed()

	assert.Equal(t, "🚫 Missing Permissions", e.Title)
	assert.Equal(t, "You don't have the required permissions to use this command.", e.Description)
	assert.Equal(t, ColorRed, e.Color)
}

func TestFromErrorMapping(t *testing.T) {
	e := FromError(&cog.CooldownError{RetryAfter: 5 * time.Second})
	assert.Equal(t, "⏰ Command on Cooldown", e.Title)
	assert.Contains(t, e.Description, "5.0 seconds")

	e = FromError(&cog.PermissionError{})
	assert.Equal(t, "🚫 Missing Permissions", e.Title)

	e = FromError(errors.New("lavalink node exploded: secret detail"))
	assert.Equal(t, "❌ Command Error", e.Title)
	assert.Equal(t, "An error occurred while executing the command. Please try again later.", e.Description)
	assert.NotContains(t, e.Description, "secret detail")
}

func TestStartupEmbed(t *testing.T) {
	e := Startup("shadebot", 1234, "https://cdn.example/avatar.png",
		[]string{"alpha", "beta"}, 6, 42*time.Millisecond)

	assert.Equal(t, "🤖 Bot Started Successfully", e.Title)
	assert.Equal(t, "**shadebot** is now online and ready!", e.Description)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "📊 Status", e.Fields[0].Name)
	assert.Contains(t, e.Fields[0].Value, "Connected to **2** guilds")
	assert.Contains(t, e.Fields[0].Value, "Loaded **6** cogs")
	assert.Contains(t, e.Fields[0].Value, "Latency: **42ms**")
	assert.Equal(t, "🏠 Connected Guilds", e.Fields[1].Name)
	assert.Equal(t, "• alpha\n• beta", e.Fields[1].Value)
	require.NotNil(t, e.Footer)
	assert.Equal(t, "Bot ID: 1234", e.Footer.Text)
}

func TestStartupEmbedSkipsLongGuildList(t *testing.T) {
	names := make([]string, 11)
	for i := range names {
		names[i] = "guild"
	}
	e := Startup("shadebot", 1, "", names, 1, time.Millisecond)

	require.Len(t, e.Fields, 1)
	assert.Contains(t, e.Fields[0].Value, "Connected to **11** guilds")
}

func TestTrackStartedEmbed(t *testing.T) {
	uri := "https://youtu.be/xyz"
	track := lavalink.Track{Info: lavalink.TrackInfo{
		Title:  "Test Song",
		Author: "Test Artist",
		URI:    &uri,
		Length: 185_000,
	}}

	e := TrackStarted(track, "General")

	assert.Equal(t, "🎵 Now Playing", e.Title)
	assert.Equal(t, "**Test Song**\nby Test Artist", e.Description)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "[Link](https://youtu.be/xyz)", e.Fields[0].Value)
	assert.Equal(t, "3:05", e.Fields[1].Value)
	require.NotNil(t, e.Footer)
	assert.Equal(t, "Requested in General", e.Footer.Text)
}

func TestTrackStartedEmbedUnknownChannel(t *testing.T) {
	e := TrackStarted(lavalink.Track{}, "")
	require.NotNil(t, e.Footer)
	assert.Equal(t, "Requested in Unknown", e.Footer.Text)
}

func TestQueueEmbedEmpty(t *testing.T) {
	q := music.NewGuildQueue(1)
	e := Queue(q)

	assert.Contains(t, e.Description, "Nothing is playing right now.")
	assert.Contains(t, e.Description, "The queue is empty.")
	require.NotNil(t, e.Footer)
	assert.Equal(t, "0 tracks total | Repeat: off", e.Footer.Text)
}

func TestQueueEmbedTruncates(t *testing.T) {
	q := music.NewGuildQueue(1)
	uri := "https://example.com/t"
	for i := 0; i < 12; i++ {
		q.Add(lavalink.Track{Info: lavalink.TrackInfo{Title: "t", URI: &uri}})
	}

	e := Queue(q)
	assert.Contains(t, e.Description, "... and 2 more")
}

func TestNowPlayingEmbedFields(t *testing.T) {
	uri := "https://youtu.be/abc"
	track := lavalink.Track{Info: lavalink.TrackInfo{
		Title:  "Song",
		Author: "Artist",
		URI:    &uri,
		Length: 200_000,
	}}
	q := music.NewGuildQueue(1)
	q.Volume = 70
	q.Repeat = music.RepeatAll
	q.Add(track, track)

	e := NowPlaying(track, q, 100_000)

	assert.Equal(t, "Now Playing", e.Title)
	assert.Contains(t, e.Description, "[Song](https://youtu.be/abc)")
	assert.Contains(t, e.Description, "1:40 / 3:20")
	require.Len(t, e.Fields, 3)
	assert.Equal(t, "70%", e.Fields[0].Value)
	assert.Equal(t, "queue", e.Fields[1].Value)
	assert.Equal(t, "2 tracks", e.Fields[2].Value)
}

func TestNowPlayingEmbedStream(t *testing.T) {
	uri := "https://stream.example/live"
	track := lavalink.Track{Info: lavalink.TrackInfo{
		Title:    "Radio",
		URI:      &uri,
		IsStream: true,
	}}
	q := music.NewGuildQueue(1)

	e := NowPlaying(track, q, 0)
	assert.Contains(t, e.Description, "`LIVE`")
}
