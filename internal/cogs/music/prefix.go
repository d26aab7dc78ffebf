package music

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"

	"github.com/arkete/shadebot/internal/cog"
	"github.com/arkete/shadebot/internal/embed"
	"github.com/arkete/shadebot/internal/music"
)

func (c *musicCog) prefixPlay(mctx *cog.MsgCtx) error {
	if mctx.GuildID() == nil {
		return nil
	}
	guildID := *mctx.GuildID()

	query := mctx.ArgString()
	if query == "" {
		return mctx.Reply("Usage: `!play <search terms or URL>`")
	}

	voiceState, ok := c.h.Client().Caches().VoiceState(guildID, mctx.Author().ID)
	if !ok || voiceState.ChannelID == nil {
		return mctx.Reply("Join a voice channel first!")
	}

	node := c.h.Lavalink().BestNode()
	if node == nil {
		return mctx.Reply("No audio node is available right now. Try again in a moment.")
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
	q.TextChannelID = mctx.ChannelID()
	q.Mu.Unlock()

	if err := c.h.Client().UpdateVoiceState(context.TODO(), guildID, voiceState.ChannelID, false, false); err != nil {
		slog.Error("voice channel join failed", "guild_id", guildID, "error", err)
		return mctx.Reply("Could not join the voice channel.")
	}

	node.LoadTracksHandler(context.TODO(), searchQuery, disgolink.NewResultHandler(
		func(track lavalink.Track) {
			c.announcePlay(mctx.Reply, guildID, q, track)
		},
		func(playlist lavalink.Playlist) {
			c.announcePlaylist(mctx.Reply, guildID, q, playlist)
		},
		func(tracks []lavalink.Track) {
			if len(tracks) == 0 {
				_ = mctx.Reply("No results found.")
				return
			}

			if isURL {
				c.announcePlay(mctx.Reply, guildID, q, tracks[0])
				return
			}

			ps := &music.PendingSearch{
				Tracks:    tracks,
				Page:      0,
				GuildID:   guildID,
				ChannelID: mctx.ChannelID(),
				UserID:    mctx.Author().ID,
				CreatedAt: time.Now(),
			}

			e, components := embed.SearchResults(ps)
			msg, err := c.h.Client().Rest().CreateMessage(mctx.ChannelID(), discord.NewMessageCreateBuilder().
				AddEmbeds(e).
				AddContainerComponents(components...).
				Build())
			if err != nil {
				slog.Error("search results send failed", "guild_id", guildID, "error", err)
				return
			}

			c.h.Music().Searches.Set(msg.ID, ps)
		},
		func() {
			_ = mctx.Reply("No results found.")
		},
		func(err error) {
			slog.Error("track load failed", "guild_id", guildID, "error", err)
			_ = mctx.Reply("Loading that track failed. Try again later.")
		},
	))
	return nil
}

func (c *musicCog) prefixPause(mctx *cog.MsgCtx) error {
	if mctx.GuildID() == nil {
		return nil
	}
	return mctx.Reply(c.doPause(*mctx.GuildID()))
}

func (c *musicCog) prefixSkip(mctx *cog.MsgCtx) error {
	if mctx.GuildID() == nil {
		return nil
	}
	return mctx.Reply(c.doSkip(*mctx.GuildID()))
}

func (c *musicCog) prefixStop(mctx *cog.MsgCtx) error {
	if mctx.GuildID() == nil {
		return nil
	}
	return mctx.Reply(c.doStop(*mctx.GuildID()))
}

func (c *musicCog) prefixQueue(mctx *cog.MsgCtx) error {
	if mctx.GuildID() == nil {
		return nil
	}
	q := c.h.Music().Queue(*mctx.GuildID())
	return mctx.ReplyEmbed(embed.Queue(q))
}

func (c *musicCog) prefixNowPlaying(mctx *cog.MsgCtx) error {
	if mctx.GuildID() == nil {
		return nil
	}
	guildID := *mctx.GuildID()

	p := c.h.Lavalink().ExistingPlayer(guildID)
	if p == nil || p.Track() == nil {
		return mctx.Reply("Nothing is playing right now.")
	}

	q := c.h.Music().Queue(guildID)
	return mctx.ReplyEmbed(embed.NowPlaying(*p.Track(), q, p.Position()))
}
