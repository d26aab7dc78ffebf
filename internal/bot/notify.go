package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"

	"github.com/arkete/shadebot/internal/embed"
)

const autoplayQuery = "lofi hip hop"

// ownerNotifier delivers the one-time startup notice to the owner.
type ownerNotifier interface {
	Notify(ctx context.Context) error
}

type notifierFunc func(ctx context.Context) error

func (f notifierFunc) Notify(ctx context.Context) error {
	return f(ctx)
}

// sendStartupNotice waits for the gateway to settle, delivers the notice
// and marks the one-time guard only after a successful delivery, so a
// failure is retried on the next ready event.
func (b *Bot) sendStartupNotice(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(b.noticeDelay):
	}

	if err := b.notifier.Notify(ctx); err != nil {
		slog.Error("startup notice failed", "error", err)
		return
	}

	b.Session.MarkNoticeSent()
	slog.Info("startup notice delivered to owner", "owner", b.Cfg.OwnerID)
}

func (b *Bot) deliverStartupNotice(context.Context) error {
	owner, err := b.Client.Rest().GetUser(b.Cfg.OwnerID)
	if err != nil {
		return fmt.Errorf("fetch owner: %w", err)
	}

	channel, err := b.Client.Rest().CreateDMChannel(owner.ID)
	if err != nil {
		return fmt.Errorf("open owner dm: %w", err)
	}

	self, _ := b.Client.Caches().SelfUser()
	var guildNames []string
	b.Client.Caches().GuildsForEach(func(g discord.Guild) {
		guildNames = append(guildNames, g.Name)
	})

	e := embed.Startup(self.Username, self.ID, self.EffectiveAvatarURL(),
		guildNames, len(b.loadedCogs), b.Client.Gateway().Latency())

	if _, err := b.Client.Rest().CreateMessage(channel.ID(), discord.NewMessageCreateBuilder().
		AddEmbeds(e).
		Build()); err != nil {
		return fmt.Errorf("send startup dm: %w", err)
	}
	return nil
}

// runAutoPlay joins the first populated voice channel it finds and plays
// a default search result. One successful guild ends the scan.
func (b *Bot) runAutoPlay(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(b.autoplayDelay):
	}

	var guildIDs []snowflake.ID
	b.Client.Caches().GuildsForEach(func(g discord.Guild) {
		guildIDs = append(guildIDs, g.ID)
	})

	for _, guildID := range guildIDs {
		channelID, ok := b.populatedVoiceChannel(guildID)
		if !ok {
			continue
		}
		if b.autoPlayInGuild(ctx, guildID, channelID) {
			return
		}
	}
}

// populatedVoiceChannel picks a voice channel in the guild that has at
// least one connected user other than the bot.
func (b *Bot) populatedVoiceChannel(guildID snowflake.ID) (snowflake.ID, bool) {
	var found snowflake.ID
	b.Client.Caches().VoiceStatesForEach(guildID, func(vs discord.VoiceState) {
		if found != 0 || vs.ChannelID == nil {
			return
		}
		if vs.UserID == b.Client.ApplicationID() {
			return
		}
		found = *vs.ChannelID
	})
	return found, found != 0
}

func (b *Bot) autoPlayInGuild(ctx context.Context, guildID snowflake.ID, channelID snowflake.ID) bool {
	node := b.Lavalink.BestNode()
	if node == nil {
		slog.Warn("autoplay skipped, no audio nodes")
		return false
	}

	if err := b.Client.UpdateVoiceState(ctx, guildID, &channelID, false, false); err != nil {
		slog.Warn("autoplay voice join failed", "guild", guildID, "error", err)
		return false
	}

	var started bool
	play := func(track lavalink.Track) {
		q := b.Music.Queue(guildID)
		q.SetCurrentTrack(&track)
		q.Mu.Lock()
		volume := q.Volume
		q.Mu.Unlock()

		p := b.Lavalink.Player(guildID)
		_ = p.Update(ctx, lavalink.WithVolume(volume))
		if err := p.Update(ctx, lavalink.WithTrack(track)); err != nil {
			slog.Warn("autoplay start failed", "guild", guildID, "error", err)
			return
		}
		started = true
	}

	node.LoadTracksHandler(ctx, lavalink.SearchTypeYouTube.Apply(autoplayQuery), disgolink.NewResultHandler(
		play,
		func(playlist lavalink.Playlist) {
			if len(playlist.Tracks) > 0 {
				play(playlist.Tracks[0])
			}
		},
		func(tracks []lavalink.Track) {
			if len(tracks) > 0 {
				play(tracks[0])
			}
		},
		func() {},
		func(err error) {
			slog.Warn("autoplay search failed", "guild", guildID, "error", err)
		},
	))

	if started {
		slog.Info("autoplay started", "guild", guildID, "channel", channelID)
	}
	return started
}
