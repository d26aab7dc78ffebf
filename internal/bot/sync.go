package bot

import (
	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// commandRegistrar pushes the slash command set to the platform.
type commandRegistrar interface {
	SetGlobal(commands []discord.ApplicationCommandCreate) error
	SetGuild(guildID snowflake.ID, commands []discord.ApplicationCommandCreate) error
}

type restRegistrar struct {
	client bot.Client
}

func (r *restRegistrar) SetGlobal(commands []discord.ApplicationCommandCreate) error {
	_, err := r.client.Rest().SetGlobalCommands(r.client.ApplicationID(), commands)
	return err
}

func (r *restRegistrar) SetGuild(guildID snowflake.ID, commands []discord.ApplicationCommandCreate) error {
	_, err := r.client.Rest().SetGuildCommands(r.client.ApplicationID(), guildID, commands)
	return err
}

// syncCommands runs on every ready event. Global mode re-syncs each time;
// guild mode syncs at most once per process, and only marks the guard
// after a successful push so a failed sync is retried on the next ready.
func (b *Bot) syncCommands() {
	commands := b.Registry.SlashDeclarations()

	if b.Cfg.SyncGlobal {
		if err := b.registrar.SetGlobal(commands); err != nil {
			slog.Error("global command sync failed", "error", err)
			return
		}
		slog.Info("global commands synced", "count", len(commands))
		return
	}

	if b.Cfg.GuildID == nil || b.Session.GuildSynced() {
		slog.Info("guild command sync skipped", "configured", b.Cfg.GuildID != nil, "synced", b.Session.GuildSynced())
		return
	}

	guildID := *b.Cfg.GuildID
	if err := b.registrar.SetGuild(guildID, commands); err != nil {
		slog.Error("guild command sync failed", "guild", guildID, "error", err)
		return
	}

	b.Session.MarkGuildSynced()
	slog.Info("guild commands synced", "guild", guildID, "count", len(commands))
}
