package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"

	"github.com/arkete/shadebot/internal/embed"
	"github.com/arkete/shadebot/internal/music"
)

const (
	idleTimeout      = 3 * time.Minute
	nowPlayingPeriod = 15 * time.Second
)

// voiceChannelName resolves the name of the voice channel the bot sits in,
// or "" when it is not connected or the channel is uncached.
func (b *Bot) voiceChannelName(guildID snowflake.ID) string {
	vs, ok := b.Client.Caches().VoiceState(guildID, b.Client.ApplicationID())
	if !ok || vs.ChannelID == nil {
		return ""
	}
	ch, ok := b.Client.Caches().Channel(*vs.ChannelID)
	if !ok {
		return ""
	}
	return ch.Name()
}

func (b *Bot) onTrackStart(p disgolink.Player, event lavalink.TrackStartEvent) {
	guildID := p.GuildID()
	q := b.Music.Queue(guildID)

	q.StopUpdateLoop()
	b.deleteIdleMessage(q)
	q.CancelIdleTimer()

	q.Mu.Lock()
	channelID := q.TextChannelID
	q.Mu.Unlock()

	if channelID == 0 {
		return
	}

	e := embed.TrackStarted(event.Track, b.voiceChannelName(guildID))
	buttons := embed.NowPlayingButtons(q)
	msg, err := b.Client.Rest().CreateMessage(channelID, discord.NewMessageCreateBuilder().
		AddEmbeds(e).
		AddContainerComponents(buttons...).
		Build())
	if err != nil {
		slog.Error("now playing message failed", "guild", guildID, "error", err)
		return
	}

	q.Mu.Lock()
	q.NowPlayingMessageID = msg.ID
	q.NowPlayingChannelID = channelID
	stopCh := make(chan struct{})
	q.StopUpdateCh = stopCh
	q.Mu.Unlock()

	go b.nowPlayingUpdateLoop(guildID, stopCh)
}

func (b *Bot) nowPlayingUpdateLoop(guildID snowflake.ID, stopCh chan struct{}) {
	ticker := time.NewTicker(nowPlayingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			b.updateNowPlayingEmbed(guildID)
		}
	}
}

func (b *Bot) updateNowPlayingEmbed(guildID snowflake.ID) {
	q := b.Music.Queue(guildID)

	q.Mu.Lock()
	msgID := q.NowPlayingMessageID
	chID := q.NowPlayingChannelID
	track := q.CurrentTrack
	q.Mu.Unlock()

	if msgID == 0 || chID == 0 || track == nil {
		return
	}

	p := b.Lavalink.ExistingPlayer(guildID)
	if p == nil {
		return
	}

	e := embed.NowPlaying(*track, q, p.Position())
	buttons := embed.NowPlayingButtons(q)
	_, err := b.Client.Rest().UpdateMessage(chID, msgID, discord.NewMessageUpdateBuilder().
		SetEmbeds(e).
		SetContainerComponents(buttons...).
		Build())
	if err != nil {
		slog.Debug("now playing update failed", "guild", guildID, "error", err)
	}
}

func (b *Bot) onTrackEnd(p disgolink.Player, event lavalink.TrackEndEvent) {
	guildID := p.GuildID()
	q := b.Music.Queue(guildID)

	b.deleteNowPlaying(q)

	if !event.Reason.MayStartNext() {
		return
	}

	nextTrack := q.Next()
	if nextTrack == nil {
		b.startIdleTimer(guildID, q)
		return
	}

	if err := p.Update(context.TODO(), lavalink.WithTrack(*nextTrack)); err != nil {
		slog.Error("next track play failed", "guild", guildID, "error", err)
	}
}

func (b *Bot) onTrackException(p disgolink.Player, event lavalink.TrackExceptionEvent) {
	guildID := p.GuildID()
	q := b.Music.Queue(guildID)
	slog.Error("track exception", "guild", guildID, "error", event.Exception.Message)
	b.deleteNowPlaying(q)
}

func (b *Bot) onTrackStuck(p disgolink.Player, event lavalink.TrackStuckEvent) {
	guildID := p.GuildID()
	q := b.Music.Queue(guildID)
	slog.Warn("track stuck, skipping", "guild", guildID, "threshold", event.Threshold)
	b.deleteNowPlaying(q)

	if nextTrack := q.Next(); nextTrack != nil {
		_ = p.Update(context.TODO(), lavalink.WithTrack(*nextTrack))
	}
}

func (b *Bot) deleteNowPlaying(q *music.GuildQueue) {
	q.StopUpdateLoop()

	q.Mu.Lock()
	msgID := q.NowPlayingMessageID
	chID := q.NowPlayingChannelID
	q.NowPlayingMessageID = 0
	q.NowPlayingChannelID = 0
	q.Mu.Unlock()

	if msgID != 0 && chID != 0 {
		_ = b.Client.Rest().DeleteMessage(chID, msgID)
	}
}

func (b *Bot) startIdleTimer(guildID snowflake.ID, q *music.GuildQueue) {
	q.Mu.Lock()
	channelID := q.TextChannelID
	q.Mu.Unlock()

	if channelID == 0 {
		return
	}

	msg, err := b.Client.Rest().CreateMessage(channelID, discord.NewMessageCreateBuilder().
		AddEmbeds(embed.Idle()).
		Build())
	if err != nil {
		slog.Error("idle message failed", "guild", guildID, "error", err)
		return
	}

	q.Mu.Lock()
	q.IdleMessageID = msg.ID
	q.IdleChannelID = channelID
	q.IdleTimer = time.AfterFunc(idleTimeout, func() {
		b.handleIdleTimeout(guildID)
	})
	q.Mu.Unlock()
}

func (b *Bot) handleIdleTimeout(guildID snowflake.ID) {
	q := b.Music.Queue(guildID)

	b.deleteIdleMessage(q)

	if p := b.Lavalink.ExistingPlayer(guildID); p != nil {
		_ = p.Update(context.TODO(), lavalink.WithNullTrack())
		b.Lavalink.RemovePlayer(guildID)
	}

	q.Clear()
	_ = b.Client.UpdateVoiceState(context.TODO(), guildID, nil, false, false)
	slog.Info("left voice after idle timeout", "guild", guildID)
}

func (b *Bot) deleteIdleMessage(q *music.GuildQueue) {
	q.Mu.Lock()
	msgID := q.IdleMessageID
	chID := q.IdleChannelID
	q.IdleMessageID = 0
	q.IdleChannelID = 0
	q.Mu.Unlock()

	if msgID != 0 && chID != 0 {
		_ = b.Client.Rest().DeleteMessage(chID, msgID)
	}
}
