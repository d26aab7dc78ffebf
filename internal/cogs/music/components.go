package music

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"

	"github.com/arkete/shadebot/internal/embed"
	"github.com/arkete/shadebot/internal/music"
)

func (c *musicCog) handleNPButton(event *events.ComponentInteractionCreate) error {
	if event.GuildID() == nil {
		return event.DeferUpdateMessage()
	}
	guildID := *event.GuildID()
	customID := event.Data.CustomID()
	q := c.h.Music().Queue(guildID)

	switch customID {
	case "np_voldown":
		q.Mu.Lock()
		q.Volume -= 10
		if q.Volume < 0 {
			q.Volume = 0
		}
		newVol := q.Volume
		q.Mu.Unlock()

		if p := c.h.Lavalink().ExistingPlayer(guildID); p != nil {
			_ = p.Update(context.TODO(), lavalink.WithVolume(newVol))
		}
		return c.updateNPFromEvent(event, guildID)

	case "np_volup":
		q.Mu.Lock()
		q.Volume += 10
		if q.Volume > 100 {
			q.Volume = 100
		}
		newVol := q.Volume
		q.Mu.Unlock()

		if p := c.h.Lavalink().ExistingPlayer(guildID); p != nil {
			_ = p.Update(context.TODO(), lavalink.WithVolume(newVol))
		}
		return c.updateNPFromEvent(event, guildID)

	case "np_skip":
		p := c.h.Lavalink().ExistingPlayer(guildID)
		if p == nil {
			return event.DeferUpdateMessage()
		}

		next := q.Next()
		if next == nil {
			_ = p.Update(context.TODO(), lavalink.WithNullTrack())
			return event.DeferUpdateMessage()
		}

		if err := p.Update(context.TODO(), lavalink.WithTrack(*next)); err != nil {
			slog.Error("skip failed", "guild_id", guildID, "error", err)
		}
		return event.DeferUpdateMessage()

	case "np_repeat":
		q.NextRepeat()
		return c.updateNPFromEvent(event, guildID)

	case "np_queue":
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			AddEmbeds(embed.Queue(q)).
			SetEphemeral(true).
			Build())
	}
	return event.DeferUpdateMessage()
}

// updateNPFromEvent redraws the now-playing message through the component
// interaction itself, which skips a separate REST edit.
func (c *musicCog) updateNPFromEvent(event *events.ComponentInteractionCreate, guildID snowflake.ID) error {
	q := c.h.Music().Queue(guildID)
	p := c.h.Lavalink().ExistingPlayer(guildID)

	q.Mu.Lock()
	track := q.CurrentTrack
	q.Mu.Unlock()

	if p == nil || track == nil {
		return event.DeferUpdateMessage()
	}

	e := embed.NowPlaying(*track, q, p.Position())
	buttons := embed.NowPlayingButtons(q)
	return event.UpdateMessage(discord.NewMessageUpdateBuilder().
		SetEmbeds(e).
		SetContainerComponents(buttons...).
		Build())
}

func (c *musicCog) handleSearchButton(event *events.ComponentInteractionCreate) error {
	customID := event.Data.CustomID()
	messageID := event.Message.ID

	ps := c.h.Music().Searches.Get(messageID)
	if ps == nil {
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("This search expired. Run the search again.").
			SetEphemeral(true).
			Build())
	}

	if event.User().ID != ps.UserID {
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("This search belongs to someone else.").
			SetEphemeral(true).
			Build())
	}

	switch {
	case strings.HasPrefix(customID, "search_select:"):
		index, err := strconv.Atoi(strings.TrimPrefix(customID, "search_select:"))
		if err != nil {
			return nil
		}

		globalIndex := ps.Page*music.PageSize + index
		if globalIndex >= len(ps.Tracks) {
			return nil
		}

		track := ps.Tracks[globalIndex]
		c.h.Music().Searches.Delete(messageID)

		q := c.h.Music().Queue(ps.GuildID)
		content, err := c.startOrEnqueue(ps.GuildID, q, track)
		if err != nil {
			slog.Error("playback start failed", "guild_id", ps.GuildID, "error", err)
			content = "Playback failed. Try again later."
		}
		return event.UpdateMessage(discord.NewMessageUpdateBuilder().
			SetContent(content).
			SetEmbeds().
			SetContainerComponents().
			Build())

	case customID == "search_prev":
		if ps.Page > 0 {
			ps.Page--
		}
		e, components := embed.SearchResults(ps)
		return event.UpdateMessage(discord.NewMessageUpdateBuilder().
			SetEmbeds(e).
			SetContainerComponents(components...).
			Build())

	case customID == "search_next":
		if ps.Page < ps.TotalPages()-1 {
			ps.Page++
		}
		e, components := embed.SearchResults(ps)
		return event.UpdateMessage(discord.NewMessageUpdateBuilder().
			SetEmbeds(e).
			SetContainerComponents(components...).
			Build())

	case customID == "search_cancel":
		c.h.Music().Searches.Delete(messageID)
		return event.UpdateMessage(discord.NewMessageUpdateBuilder().
			SetContent("Search cancelled.").
			SetEmbeds().
			SetContainerComponents().
			Build())
	}
	return nil
}
