package bot

import (
	"log/slog"
	"strings"

	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"

	"github.com/arkete/shadebot/internal/cog"
	"github.com/arkete/shadebot/internal/embed"
)

func guildOrZero(id *snowflake.ID) snowflake.ID {
	if id == nil {
		return 0
	}
	return *id
}

// gate applies the owner and cooldown checks shared by both command paths.
func (b *Bot) gate(ownerOnly bool, userID snowflake.ID, cooldown func(snowflake.ID) error) error {
	if ownerOnly && userID != b.Cfg.OwnerID {
		return &cog.PermissionError{}
	}
	return cooldown(userID)
}

func (b *Bot) onApplicationCommand(event *events.ApplicationCommandInteractionCreate) {
	data := event.SlashCommandInteractionData()
	name := data.CommandName()

	cmd, ok := b.Registry.Slash(name)
	if !ok {
		slog.Warn("unregistered slash command", "command", name)
		return
	}

	userID := event.User().ID
	b.Session.Record("slash", userID, guildOrZero(event.GuildID()), name)

	sctx := cog.NewSlashCtx(b.Client, event)

	err := b.gate(cmd.OwnerOnly, userID, cmd.CheckCooldown)
	if err == nil {
		err = cmd.Handler(sctx)
	}
	if err == nil {
		return
	}

	slog.Error("slash command failed", "command", name, "user", userID, "error", err)
	if rerr := sctx.ReplyEphemeralEmbed(embed.FromError(err)); rerr != nil {
		slog.Error("error reply failed", "command", name, "error", rerr)
	}
}

// dispatchPrefix parses a guild message into a prefix command invocation.
// Messages that carry no trigger, or name a command nobody registered,
// are dropped without a reply.
func (b *Bot) dispatchPrefix(event *events.MessageCreate) {
	content := strings.TrimSpace(event.Message.Content)
	if content == "" {
		return
	}

	rest, ok := b.stripPrefix(content)
	if !ok {
		return
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return
	}

	cmd, ok := b.Registry.Prefix(fields[0])
	if !ok {
		return
	}

	userID := event.Message.Author.ID
	b.Session.Record("prefix", userID, guildOrZero(event.GuildID), cmd.Name)

	mctx := cog.NewMsgCtx(b.Client, event, fields[1:])

	err := b.gate(cmd.OwnerOnly, userID, cmd.CheckCooldown)
	if err == nil {
		err = cmd.Handler(mctx)
	}
	if err == nil {
		return
	}

	slog.Error("prefix command failed", "command", cmd.Name, "user", userID, "error", err)
	if rerr := mctx.ReplyEmbed(embed.FromError(err)); rerr != nil {
		slog.Error("error reply failed", "command", cmd.Name, "error", rerr)
	}
}

func (b *Bot) onComponentInteraction(event *events.ComponentInteractionCreate) {
	customID := event.Data.CustomID()

	handler, ok := b.Registry.Component(customID)
	if !ok {
		return
	}

	if err := handler(event); err != nil {
		slog.Error("component interaction failed", "custom_id", customID, "error", err)
	}
}
