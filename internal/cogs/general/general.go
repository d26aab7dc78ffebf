// Package general carries the informational commands every install gets:
// ping, uptime, botinfo and help.
package general

import (
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/discord"
	"github.com/hako/durafmt"

	"github.com/arkete/shadebot/internal/cog"
	"github.com/arkete/shadebot/internal/embed"
)

type general struct{}

func New() cog.Cog {
	return general{}
}

func (general) Name() string {
	return "general"
}

func (general) Load(h cog.Host) error {
	slash := []*cog.SlashCommand{
		{
			Create: discord.SlashCommandCreate{
				Name:        "ping",
				Description: "Shows the gateway latency",
			},
			Handler: func(ctx *cog.SlashCtx) error {
				return ctx.ReplyContent(pingLine(h))
			},
		},
		{
			Create: discord.SlashCommandCreate{
				Name:        "uptime",
				Description: "Shows how long the bot has been running",
			},
			Handler: func(ctx *cog.SlashCtx) error {
				return ctx.ReplyContent(uptimeLine(h))
			},
		},
		{
			Create: discord.SlashCommandCreate{
				Name:        "botinfo",
				Description: "Shows runtime information about the bot",
			},
			Cooldown: 10 * time.Second,
			Handler: func(ctx *cog.SlashCtx) error {
				return ctx.ReplyEmbed(infoEmbed(h))
			},
		},
		{
			Create: discord.SlashCommandCreate{
				Name:        "help",
				Description: "Shows the command help",
			},
			Handler: func(ctx *cog.SlashCtx) error {
				return ctx.ReplyEphemeralEmbed(embed.Help(helpSections(h.Registry())))
			},
		},
	}
	for _, cmd := range slash {
		if err := h.Registry().RegisterSlash(cmd); err != nil {
			return err
		}
	}

	prefix := []*cog.PrefixCommand{
		{
			Name:        "ping",
			Description: "Shows the gateway latency",
			Handler: func(ctx *cog.MsgCtx) error {
				return ctx.Reply(pingLine(h))
			},
		},
		{
			Name:        "uptime",
			Description: "Shows how long the bot has been running",
			Handler: func(ctx *cog.MsgCtx) error {
				return ctx.Reply(uptimeLine(h))
			},
		},
		{
			Name:        "botinfo",
			Aliases:     []string{"info"},
			Description: "Shows runtime information about the bot",
			Cooldown:    10 * time.Second,
			Handler: func(ctx *cog.MsgCtx) error {
				return ctx.ReplyEmbed(infoEmbed(h))
			},
		},
		{
			Name:        "help",
			Description: "Shows the command help",
			Handler: func(ctx *cog.MsgCtx) error {
				return ctx.ReplyEmbed(embed.Help(helpSections(h.Registry())))
			},
		},
	}
	for _, cmd := range prefix {
		if err := h.Registry().RegisterPrefix(cmd); err != nil {
			return err
		}
	}

	return nil
}

func pingLine(h cog.Host) string {
	return fmt.Sprintf("🏓 **Pong!** %dms", h.Client().Gateway().Latency().Milliseconds())
}

func uptimeLine(h cog.Host) string {
	up := durafmt.Parse(h.Session().Uptime().Truncate(time.Second)).LimitFirstN(2)
	return fmt.Sprintf("⏱ Up for **%s**", up)
}

func infoEmbed(h cog.Host) discord.Embed {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return discord.NewEmbedBuilder().
		SetTitle("Bot Information").
		SetColor(embed.Color).
		AddField("Go Version", runtime.Version(), true).
		AddField("Disgo Version", disgo.Version, true).
		AddField("Goroutines", strconv.Itoa(runtime.NumGoroutine()), true).
		AddField("RAM Usage", strconv.Itoa(int(m.Alloc/1000000))+"MB", true).
		AddField("Garbage Collections", strconv.Itoa(int(m.NumGC)), true).
		AddField("Guilds", strconv.Itoa(h.Client().Caches().GuildsLen()), true).
		Build()
}

// helpSections flattens the registry into the help embed layout: slash
// commands first, then the prefix table with aliases.
func helpSections(r *cog.Registry) []embed.HelpSection {
	var slash embed.HelpSection
	slash.Name = "Slash Commands"
	for _, cmd := range r.SlashCommands() {
		desc := ""
		if sc, ok := cmd.Create.(discord.SlashCommandCreate); ok {
			desc = sc.Description
		}
		slash.Commands = append(slash.Commands, embed.HelpCommand{
			Name:        "/" + cmd.Name(),
			Description: desc,
		})
	}

	var prefix embed.HelpSection
	prefix.Name = "Prefix Commands"
	for _, cmd := range r.PrefixCommands() {
		name := "!" + cmd.Name
		for _, alias := range cmd.Aliases {
			name += ", !" + alias
		}
		prefix.Commands = append(prefix.Commands, embed.HelpCommand{
			Name:        name,
			Description: cmd.Description,
		})
	}

	return []embed.HelpSection{slash, prefix}
}
