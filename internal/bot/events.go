package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/arkete/shadebot/internal/embed"
)

func (b *Bot) onReady(event *events.Ready) {
	slog.Info("gateway ready",
		"user", event.User.Username,
		"id", event.User.ID,
		"guilds", len(event.Guilds))

	b.syncCommands()

	if !b.Session.NoticeSent() {
		b.startTask("startup-notice", b.sendStartupNotice)
	}
	if b.Cfg.AutoPlay {
		b.startTask("autoplay", b.runAutoPlay)
	}
}

func (b *Bot) onGuildReady(event *events.GuildReady) {
	slog.Info("guild available",
		"guild", event.Guild.Name,
		"id", event.GuildID)
}

func (b *Bot) onMessageCreate(event *events.MessageCreate) {
	if event.Message.Author.Bot {
		return
	}

	if event.GuildID == nil {
		b.relayDirectMessage(event.Message)
		return
	}

	b.dispatchPrefix(event)
}

// relayDirectMessage forwards a DM from a tracked user to the owner.
func (b *Bot) relayDirectMessage(msg discord.Message) {
	if !b.Session.IsRelayTarget(msg.Author.ID) {
		return
	}

	b.Session.Record("dm-relay", msg.Author.ID, 0, msg.Content)

	channel, err := b.Client.Rest().CreateDMChannel(b.Cfg.OwnerID)
	if err != nil {
		slog.Error("relay dm channel open failed", "error", err)
		return
	}

	e := discord.NewEmbedBuilder().
		SetTitle("📨 Relayed DM").
		SetDescription(msg.Content).
		SetColor(embed.Color).
		SetFooterText(fmt.Sprintf("From %s (%s)", msg.Author.Username, msg.Author.ID)).
		Build()

	if _, err := b.Client.Rest().CreateMessage(channel.ID(), discord.NewMessageCreateBuilder().
		AddEmbeds(e).
		Build()); err != nil {
		slog.Error("relay forward failed", "user", msg.Author.ID, "error", err)
		return
	}

	slog.Info("relayed dm to owner", "user", msg.Author.ID)
}

// stripCommandPrefix removes the command trigger from content: a bot
// mention or one of the literal prefixes. The bool reports whether any
// trigger matched.
func stripCommandPrefix(content string, appID snowflake.ID) (string, bool) {
	for _, prefix := range []string{
		fmt.Sprintf("<@%s>", appID),
		fmt.Sprintf("<@!%s>", appID),
		"!",
		">",
	} {
		if strings.HasPrefix(content, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(content, prefix)), true
		}
	}
	return "", false
}

func (b *Bot) stripPrefix(content string) (string, bool) {
	return stripCommandPrefix(content, b.Client.ApplicationID())
}

func (b *Bot) onVoiceStateUpdate(event *events.GuildVoiceStateUpdate) {
	if event.VoiceState.UserID != b.Client.ApplicationID() {
		return
	}
	b.Lavalink.OnVoiceStateUpdate(context.TODO(), event.VoiceState.GuildID, event.VoiceState.ChannelID, event.VoiceState.SessionID)

	if event.VoiceState.ChannelID == nil {
		if q, ok := b.Music.ExistingQueue(event.VoiceState.GuildID); ok {
			q.Clear()
		}
	}
}

func (b *Bot) onVoiceServerUpdate(event *events.VoiceServerUpdate) {
	b.Lavalink.OnVoiceServerUpdate(context.TODO(), event.GuildID, event.Token, *event.Endpoint)
}
