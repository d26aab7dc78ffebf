package embed

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"

	"github.com/arkete/shadebot/internal/cog"
)

// TrackStarted is the channel notification posted when playback begins.
func TrackStarted(track lavalink.Track, voiceChannel string) discord.Embed {
	builder := discord.NewEmbedBuilder().
		SetTitle("🎵 Now Playing").
		SetDescription(fmt.Sprintf("**%s**\nby %s", track.Info.Title, track.Info.Author)).
		SetColor(ColorGreen)

	if track.Info.URI != nil && *track.Info.URI != "" {
		builder.AddField("Source", fmt.Sprintf("[Link](%s)", *track.Info.URI), true)
	}
	if track.Info.Length > 0 {
		builder.AddField("Duration", FormatDuration(track.Info.Length), true)
	}

	if voiceChannel == "" {
		voiceChannel = "Unknown"
	}
	builder.SetFooterText(fmt.Sprintf("Requested in %s", voiceChannel))

	return builder.Build()
}

// Startup is the one-time DM sent to the owner after the gateway opens.
func Startup(botName string, botID snowflake.ID, avatarURL string, guildNames []string, cogCount int, latency time.Duration) discord.Embed {
	builder := discord.NewEmbedBuilder().
		SetTitle("🤖 Bot Started Successfully").
		SetDescription(fmt.Sprintf("**%s** is now online and ready!", botName)).
		SetColor(ColorGreen).
		SetTimestamp(time.Now())

	builder.AddField("📊 Status", fmt.Sprintf(
		"• Connected to **%d** guilds\n• Loaded **%d** cogs\n• Latency: **%dms**",
		len(guildNames), cogCount, latency.Milliseconds()), false)

	if len(guildNames) > 0 && len(guildNames) <= 10 {
		lines := make([]string, len(guildNames))
		for i, name := range guildNames {
			lines[i] = "• " + name
		}
		builder.AddField("🏠 Connected Guilds", strings.Join(lines, "\n"), false)
	}

	builder.SetFooterText(fmt.Sprintf("Bot ID: %s", botID))
	if avatarURL != "" {
		builder.SetThumbnail(avatarURL)
	}

	return builder.Build()
}

func CooldownEmbed(retryAfter time.Duration) discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("⏰ Command on Cooldown").
		SetDescription(fmt.Sprintf("Please wait %.1f seconds before using this command again.", retryAfter.Seconds())).
		SetColor(ColorOrange).
		Build()
}

func PermissionEmbed() discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("🚫 Missing Permissions").
		SetDescription("You don't have the required permissions to use this command.").
		SetColor(ColorRed).
		Build()
}

func CommandErrorEmbed() discord.Embed {
	return discord.NewEmbedBuilder().
		SetTitle("❌ Command Error").
		SetDescription("An error occurred while executing the command. Please try again later.").
		SetColor(ColorRed).
		Build()
}

// FromError translates a handler error into the embed shown to the user.
// Anything unrecognized collapses to the generic message so internal
// details never reach the channel.
func FromError(err error) discord.Embed {
	var cooldown *cog.CooldownError
	if errors.As(err, &cooldown) {
		return CooldownEmbed(cooldown.RetryAfter)
	}
	var perm *cog.PermissionError
	if errors.As(err, &perm) {
		return PermissionEmbed()
	}
	return CommandErrorEmbed()
}

type HelpCommand struct {
	Name        string
	Description string
}

type HelpSection struct {
	Name     string
	Commands []HelpCommand
}

func Help(sections []HelpSection) discord.Embed {
	builder := discord.NewEmbedBuilder().
		SetTitle("Command Help").
		SetColor(Color)

	for _, section := range sections {
		var sb strings.Builder
		for _, cmd := range section.Commands {
			fmt.Fprintf(&sb, "`%s` · %s\n", cmd.Name, cmd.Description)
		}
		builder.AddField(section.Name, sb.String(), false)
	}

	builder.SetFooterText("Prefix commands work with ! or > or by mentioning the bot.")
	return builder.Build()
}
