package music

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"

	"github.com/arkete/shadebot/internal/cog"
	"github.com/arkete/shadebot/internal/embed"
	"github.com/arkete/shadebot/internal/music"
)

func (c *musicCog) guild(ctx *cog.SlashCtx) (snowflake.ID, bool) {
	if id := ctx.GuildID(); id != nil {
		return *id, true
	}
	return 0, false
}

// ensurePlayer resolves the guild's lavalink player, creating it with the
// queue's stored volume on first use.
func (c *musicCog) ensurePlayer(guildID snowflake.ID, q *music.GuildQueue) disgolink.Player {
	p := c.h.Lavalink().ExistingPlayer(guildID)
	if p == nil {
		p = c.h.Lavalink().Player(guildID)
		q.Mu.Lock()
		vol := q.Volume
		q.Mu.Unlock()
		_ = p.Update(context.TODO(), lavalink.WithVolume(vol))
	}
	return p
}

// startOrEnqueue plays track immediately when the player is idle, otherwise
// appends it to the queue. The returned text announces what happened.
func (c *musicCog) startOrEnqueue(guildID snowflake.ID, q *music.GuildQueue, track lavalink.Track) (string, error) {
	p := c.ensurePlayer(guildID, q)
	if p.Track() == nil {
		q.SetCurrentTrack(&track)
		if err := p.Update(context.TODO(), lavalink.WithTrack(track)); err != nil {
			return "", err
		}
		return fmt.Sprintf("Started playing **%s**!", track.Info.Title), nil
	}
	q.Add(track)
	return fmt.Sprintf("Added **%s** to the queue. (%d queued)", track.Info.Title, q.Len()), nil
}

func (c *musicCog) deleteIdleMessage(q *music.GuildQueue) {
	q.Mu.Lock()
	messageID := q.IdleMessageID
	channelID := q.IdleChannelID
	q.IdleMessageID = 0
	q.IdleChannelID = 0
	q.Mu.Unlock()

	if messageID == 0 || channelID == 0 {
		return
	}
	_ = c.h.Client().Rest().DeleteMessage(channelID, messageID)
}

func (c *musicCog) deleteNowPlaying(q *music.GuildQueue) {
	q.StopUpdateLoop()

	q.Mu.Lock()
	messageID := q.NowPlayingMessageID
	channelID := q.NowPlayingChannelID
	q.NowPlayingMessageID = 0
	q.NowPlayingChannelID = 0
	q.Mu.Unlock()

	if messageID == 0 || channelID == 0 {
		return
	}
	_ = c.h.Client().Rest().DeleteMessage(channelID, messageID)
}

// refreshNowPlaying redraws the pinned now-playing message after a state
// change like a volume or repeat switch.
func (c *musicCog) refreshNowPlaying(guildID snowflake.ID) {
	q, ok := c.h.Music().ExistingQueue(guildID)
	if !ok {
		return
	}
	p := c.h.Lavalink().ExistingPlayer(guildID)

	q.Mu.Lock()
	track := q.CurrentTrack
	messageID := q.NowPlayingMessageID
	channelID := q.NowPlayingChannelID
	q.Mu.Unlock()

	if p == nil || track == nil || messageID == 0 || channelID == 0 {
		return
	}

	e := embed.NowPlaying(*track, q, p.Position())
	buttons := embed.NowPlayingButtons(q)
	if _, err := c.h.Client().Rest().UpdateMessage(channelID, messageID, discord.NewMessageUpdateBuilder().
		SetEmbeds(e).
		SetContainerComponents(buttons...).
		Build()); err != nil {
		slog.Debug("now playing refresh failed", "guild_id", guildID, "error", err)
	}
}

func (c *musicCog) handlePlay(ctx *cog.SlashCtx) error {
	guildID, ok := c.guild(ctx)
	if !ok {
		return ctx.ReplyEphemeral("This command only works in a server.")
	}
	query := ctx.Data().String("query")

	voiceState, ok := c.h.Client().Caches().VoiceState(guildID, ctx.User().ID)
	if !ok || voiceState.ChannelID == nil {
		return ctx.ReplyEphemeral("Join a voice channel first!")
	}

	if err := ctx.Defer(true); err != nil {
		return err
	}

	node := c.h.Lavalink().BestNode()
	if node == nil {
		return ctx.UpdateContent("No audio node is available right now. Try again in a moment.")
	}

	isURL := urlPattern.MatchString(query)
	searchQuery := query
	if !isURL {
		searchQuery = lavalink.SearchTypeYouTube.Apply(query)
	}

	q := c.h.Music().Queue(guildID)
	c.deleteIdleMessage(q)
	q.CancelIdleTimer()
	q.Mu.Lock()
	q.TextChannelID = ctx.ChannelID()
	q.Mu.Unlock()

	if err := c.h.Client().UpdateVoiceState(context.TODO(), guildID, voiceState.ChannelID, false, false); err != nil {
		slog.Error("voice channel join failed", "guild_id", guildID, "error", err)
		return ctx.UpdateContent("Could not join the voice channel.")
	}

	node.LoadTracksHandler(context.TODO(), searchQuery, disgolink.NewResultHandler(
		func(track lavalink.Track) {
			c.announcePlay(ctx.UpdateContent, guildID, q, track)
		},
		func(playlist lavalink.Playlist) {
			c.announcePlaylist(ctx.UpdateContent, guildID, q, playlist)
		},
		func(tracks []lavalink.Track) {
			if len(tracks) == 0 {
				_ = ctx.UpdateContent("No results found.")
				return
			}

			if isURL {
				c.announcePlay(ctx.UpdateContent, guildID, q, tracks[0])
				return
			}

			ps := &music.PendingSearch{
				Tracks:    tracks,
				Page:      0,
				GuildID:   guildID,
				ChannelID: ctx.ChannelID(),
				UserID:    ctx.User().ID,
				CreatedAt: time.Now(),
			}

			e, components := embed.SearchResults(ps)
			msg, err := ctx.UpdateResponse(discord.NewMessageUpdateBuilder().
				SetEmbeds(e).
				SetContainerComponents(components...).
				Build())
			if err != nil {
				slog.Error("search results send failed", "guild_id", guildID, "error", err)
				return
			}

			c.h.Music().Searches.Set(msg.ID, ps)
		},
		func() {
			_ = ctx.UpdateContent("No results found.")
		},
		func(err error) {
			slog.Error("track load failed", "guild_id", guildID, "error", err)
			_ = ctx.UpdateContent("Loading that track failed. Try again later.")
		},
	))
	return nil
}

// announcePlay and announcePlaylist finish a track load. The reply func is
// either an interaction-response edit or a plain channel message, so the
// slash and prefix paths share the rest.
func (c *musicCog) announcePlay(reply func(string) error, guildID snowflake.ID, q *music.GuildQueue, track lavalink.Track) {
	msg, err := c.startOrEnqueue(guildID, q, track)
	if err != nil {
		slog.Error("playback start failed", "guild_id", guildID, "error", err)
		_ = reply("Playback failed. Try again later.")
		return
	}
	_ = reply(msg)
}

func (c *musicCog) announcePlaylist(reply func(string) error, guildID snowflake.ID, q *music.GuildQueue, playlist lavalink.Playlist) {
	tracks := playlist.Tracks
	if len(tracks) == 0 {
		_ = reply("That playlist is empty.")
		return
	}

	p := c.ensurePlayer(guildID, q)
	if p.Track() == nil {
		first := tracks[0]
		q.SetCurrentTrack(&first)
		if err := p.Update(context.TODO(), lavalink.WithTrack(first)); err != nil {
			slog.Error("playback start failed", "guild_id", guildID, "error", err)
			_ = reply("Playback failed. Try again later.")
			return
		}
		q.Add(tracks[1:]...)
	} else {
		q.Add(tracks...)
	}
	_ = reply(fmt.Sprintf("Added %d tracks from playlist **%s**.", len(tracks), playlist.Info.Name))
}

// doPause, doSkip and doStop back both the slash commands and the prefix
// shortcuts. Each returns the text to show the invoker.
func (c *musicCog) doPause(guildID snowflake.ID) string {
	p := c.h.Lavalink().ExistingPlayer(guildID)
	if p == nil {
		return "Nothing is playing right now."
	}

	paused := !p.Paused()
	if err := p.Update(context.TODO(), lavalink.WithPaused(paused)); err != nil {
		slog.Error("pause toggle failed", "guild_id", guildID, "error", err)
		return "That didn't work. Try again."
	}

	if paused {
		return "Paused playback."
	}
	return "Resumed playback."
}

func (c *musicCog) doSkip(guildID snowflake.ID) string {
	p := c.h.Lavalink().ExistingPlayer(guildID)
	if p == nil {
		return "Nothing is playing right now."
	}

	q := c.h.Music().Queue(guildID)
	next := q.Next()
	if next == nil {
		_ = p.Update(context.TODO(), lavalink.WithNullTrack())
		return "The queue is empty. Stopping playback."
	}

	if err := p.Update(context.TODO(), lavalink.WithTrack(*next)); err != nil {
		slog.Error("skip failed", "guild_id", guildID, "error", err)
		return "Skipping failed. Try again."
	}
	return fmt.Sprintf("Skipped! Next up: **%s**", next.Info.Title)
}

func (c *musicCog) doStop(guildID snowflake.ID) string {
	if p := c.h.Lavalink().ExistingPlayer(guildID); p != nil {
		_ = p.Update(context.TODO(), lavalink.WithNullTrack())
		c.h.Lavalink().RemovePlayer(guildID)
	}

	q := c.h.Music().Queue(guildID)
	c.deleteNowPlaying(q)
	c.deleteIdleMessage(q)
	q.Clear()

	_ = c.h.Client().UpdateVoiceState(context.TODO(), guildID, nil, false, false)
	return "Stopped playback and left the voice channel."
}

func (c *musicCog) handlePause(ctx *cog.SlashCtx) error {
	guildID, ok := c.guild(ctx)
	if !ok {
		return ctx.ReplyEphemeral("This command only works in a server.")
	}
	return ctx.ReplyEphemeral(c.doPause(guildID))
}

func (c *musicCog) handleSkip(ctx *cog.SlashCtx) error {
	guildID, ok := c.guild(ctx)
	if !ok {
		return ctx.ReplyEphemeral("This command only works in a server.")
	}
	return ctx.ReplyEphemeral(c.doSkip(guildID))
}

func (c *musicCog) handleStop(ctx *cog.SlashCtx) error {
	guildID, ok := c.guild(ctx)
	if !ok {
		return ctx.ReplyEphemeral("This command only works in a server.")
	}
	return ctx.ReplyEphemeral(c.doStop(guildID))
}

func (c *musicCog) handleQueue(ctx *cog.SlashCtx) error {
	guildID, ok := c.guild(ctx)
	if !ok {
		return ctx.ReplyEphemeral("This command only works in a server.")
	}
	q := c.h.Music().Queue(guildID)
	return ctx.ReplyEphemeralEmbed(embed.Queue(q))
}

func (c *musicCog) handleMove(ctx *cog.SlashCtx) error {
	guildID, ok := c.guild(ctx)
	if !ok {
		return ctx.ReplyEphemeral("This command only works in a server.")
	}
	data := ctx.Data()
	from := data.Int("from")
	to := data.Int("to")

	q := c.h.Music().Queue(guildID)
	track, ok := q.Move(from, to)
	if !ok {
		return ctx.ReplyEphemeral("No track at that position.")
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("Moved **%s** to position %d.", track.Info.Title, to))
}

func (c *musicCog) handleRemove(ctx *cog.SlashCtx) error {
	guildID, ok := c.guild(ctx)
	if !ok {
		return ctx.ReplyEphemeral("This command only works in a server.")
	}
	position := ctx.Data().Int("position")

	q := c.h.Music().Queue(guildID)
	track, ok := q.Remove(position)
	if !ok {
		return ctx.ReplyEphemeral("No track at that position.")
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("Removed **%s** from the queue.", track.Info.Title))
}

func (c *musicCog) handleVolume(ctx *cog.SlashCtx) error {
	guildID, ok := c.guild(ctx)
	if !ok {
		return ctx.ReplyEphemeral("This command only works in a server.")
	}
	level := ctx.Data().Int("level")

	p := c.h.Lavalink().ExistingPlayer(guildID)
	if p == nil {
		return ctx.ReplyEphemeral("Nothing is playing right now.")
	}

	q := c.h.Music().Queue(guildID)
	q.Mu.Lock()
	q.Volume = level
	q.Mu.Unlock()

	if err := p.Update(context.TODO(), lavalink.WithVolume(level)); err != nil {
		slog.Error("volume change failed", "guild_id", guildID, "error", err)
		return ctx.ReplyEphemeral("Changing the volume failed. Try again.")
	}
	if err := ctx.ReplyEphemeral(fmt.Sprintf("Volume set to **%d%%**.", level)); err != nil {
		return err
	}
	c.refreshNowPlaying(guildID)
	return nil
}

func (c *musicCog) handleRepeat(ctx *cog.SlashCtx) error {
	guildID, ok := c.guild(ctx)
	if !ok {
		return ctx.ReplyEphemeral("This command only works in a server.")
	}
	mode := ctx.Data().String("mode")

	q := c.h.Music().Queue(guildID)
	q.Mu.Lock()
	switch mode {
	case "one":
		q.Repeat = music.RepeatOne
	case "all":
		q.Repeat = music.RepeatAll
	default:
		q.Repeat = music.RepeatOff
	}
	repeatMode := q.Repeat
	q.Mu.Unlock()

	if err := ctx.ReplyEphemeral(fmt.Sprintf("Repeat mode: **%s**", repeatMode)); err != nil {
		return err
	}
	c.refreshNowPlaying(guildID)
	return nil
}

func (c *musicCog) handleShuffle(ctx *cog.SlashCtx) error {
	guildID, ok := c.guild(ctx)
	if !ok {
		return ctx.ReplyEphemeral("This command only works in a server.")
	}

	q := c.h.Music().Queue(guildID)
	if q.Len() == 0 {
		return ctx.ReplyEphemeral("The queue is empty.")
	}

	q.Shuffle()
	return ctx.ReplyEphemeral(fmt.Sprintf("Shuffled %d tracks!", q.Len()))
}

func (c *musicCog) handleNowPlaying(ctx *cog.SlashCtx) error {
	guildID, ok := c.guild(ctx)
	if !ok {
		return ctx.ReplyEphemeral("This command only works in a server.")
	}

	p := c.h.Lavalink().ExistingPlayer(guildID)
	if p == nil || p.Track() == nil {
		return ctx.ReplyEphemeral("Nothing is playing right now.")
	}

	q := c.h.Music().Queue(guildID)
	return ctx.ReplyEphemeralEmbed(embed.NowPlaying(*p.Track(), q, p.Position()))
}
