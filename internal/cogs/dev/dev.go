// Package dev is the owner-only toolbox: audit log access, DM relay
// management, live presence changes and a runtime snapshot.
package dev

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/hako/durafmt"

	"github.com/arkete/shadebot/internal/cog"
	"github.com/arkete/shadebot/internal/embed"
)

const defaultAuditCount = 10

type devCog struct {
	h cog.Host
}

func New() cog.Cog {
	return &devCog{}
}

func (c *devCog) Name() string {
	return "dev"
}

func (c *devCog) Load(h cog.Host) error {
	c.h = h

	dmPerm := false
	intPtr := func(v int) *int { return &v }

	slash := []*cog.SlashCommand{
		{
			Create: discord.SlashCommandCreate{
				Name:         "audit",
				Description:  "Shows recent entries from the command audit log",
				DMPermission: &dmPerm,
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        "count",
						Description: "How many entries to show",
						Required:    false,
						MinValue:    intPtr(1),
						MaxValue:    intPtr(25),
					},
				},
			},
			OwnerOnly: true,
			Handler:   c.handleAudit,
		},
		{
			Create: discord.SlashCommandCreate{
				Name:         "relay",
				Description:  "Manages which users' DMs get relayed to the owner",
				DMPermission: &dmPerm,
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionSubCommand{
						Name:        "add",
						Description: "Starts relaying a user's DMs",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionUser{
								Name:        "target",
								Description: "Whose DMs to relay",
								Required:    true,
							},
						},
					},
					discord.ApplicationCommandOptionSubCommand{
						Name:        "remove",
						Description: "Stops relaying a user's DMs",
						Options: []discord.ApplicationCommandOption{
							discord.ApplicationCommandOptionUser{
								Name:        "target",
								Description: "Whose DMs to stop relaying",
								Required:    true,
							},
						},
					},
					discord.ApplicationCommandOptionSubCommand{
						Name:        "list",
						Description: "Lists the current relay targets",
					},
				},
			},
			OwnerOnly: true,
			Handler:   c.handleRelay,
		},
		{
			Create: discord.SlashCommandCreate{
				Name:         "presence",
				Description:  "Changes the bot's status and activity",
				DMPermission: &dmPerm,
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "status",
						Description: "Online status",
						Required:    true,
						Choices: []discord.ApplicationCommandOptionChoiceString{
							{Name: "Online", Value: string(discord.OnlineStatusOnline)},
							{Name: "Idle", Value: string(discord.OnlineStatusIdle)},
							{Name: "Do Not Disturb", Value: string(discord.OnlineStatusDND)},
							{Name: "Invisible", Value: string(discord.OnlineStatusInvisible)},
						},
					},
					discord.ApplicationCommandOptionString{
						Name:        "activity",
						Description: "What the bot should be watching",
						Required:    false,
					},
				},
			},
			OwnerOnly: true,
			Handler:   c.handlePresence,
		},
		{
			Create: discord.SlashCommandCreate{
				Name:         "stats",
				Description:  "Shows a runtime snapshot of the bot process",
				DMPermission: &dmPerm,
			},
			OwnerOnly: true,
			Handler:   c.handleStats,
		},
	}
	for _, cmd := range slash {
		if err := h.Registry().RegisterSlash(cmd); err != nil {
			return err
		}
	}

	return h.Registry().RegisterPrefix(&cog.PrefixCommand{
		Name:        "audit",
		Description: "Shows recent entries from the command audit log",
		OwnerOnly:   true,
		Handler:     c.prefixAudit,
	})
}

func (c *devCog) handleAudit(ctx *cog.SlashCtx) error {
	count := defaultAuditCount
	if v, ok := ctx.Data().OptInt("count"); ok {
		count = v
	}
	return ctx.ReplyEphemeralEmbed(c.auditEmbed(count))
}

func (c *devCog) prefixAudit(mctx *cog.MsgCtx) error {
	return mctx.ReplyEmbed(c.auditEmbed(defaultAuditCount))
}

func (c *devCog) auditEmbed(count int) discord.Embed {
	entries := c.h.Session().RecentAudit(count)

	b := discord.NewEmbedBuilder().
		SetTitle("📋 Audit Log").
		SetColor(embed.Color).
		SetFooterText(fmt.Sprintf("%d entries recorded this session", c.h.Session().AuditLen()))

	if len(entries) == 0 {
		return b.SetDescription("The audit log is empty.").Build()
	}

	var lines strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&lines, "<t:%d:R> `%s` <@%s>", e.When.Unix(), e.Kind, e.Actor)
		if e.Guild != 0 {
			fmt.Fprintf(&lines, " in guild %s", e.Guild)
		}
		if e.Detail != "" {
			fmt.Fprintf(&lines, ": %s", truncate(e.Detail, 60))
		}
		lines.WriteString("\n")
	}
	return b.SetDescription(lines.String()).Build()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}

func (c *devCog) handleRelay(ctx *cog.SlashCtx) error {
	data := ctx.Data()
	sub := ""
	if data.SubCommandName != nil {
		sub = *data.SubCommandName
	}

	switch sub {
	case "add":
		target := data.User("target")
		if target.Bot {
			return ctx.ReplyEphemeral("Bots don't send DMs worth relaying.")
		}
		if !c.h.Session().AddRelayTarget(target.ID) {
			return ctx.ReplyEphemeral(fmt.Sprintf("Already relaying DMs from **%s**.", target.Username))
		}
		return ctx.ReplyEphemeral(fmt.Sprintf("Now relaying DMs from **%s**.", target.Username))

	case "remove":
		target := data.User("target")
		if !c.h.Session().RemoveRelayTarget(target.ID) {
			return ctx.ReplyEphemeral(fmt.Sprintf("**%s** wasn't being relayed.", target.Username))
		}
		return ctx.ReplyEphemeral(fmt.Sprintf("Stopped relaying DMs from **%s**.", target.Username))

	case "list":
		targets := c.h.Session().RelayTargets()
		if len(targets) == 0 {
			return ctx.ReplyEphemeral("No relay targets set.")
		}
		var lines strings.Builder
		for _, id := range targets {
			fmt.Fprintf(&lines, "<@%s>\n", id)
		}
		return ctx.ReplyEphemeralEmbed(discord.NewEmbedBuilder().
			SetTitle("📨 Relay Targets").
			SetDescription(lines.String()).
			SetColor(embed.Color).
			Build())
	}
	return ctx.ReplyEphemeral("Unknown subcommand.")
}

func (c *devCog) handlePresence(ctx *cog.SlashCtx) error {
	data := ctx.Data()
	status := discord.OnlineStatus(data.String("status"))
	activity, _ := data.OptString("activity")

	opts := []gateway.PresenceOpt{gateway.WithOnlineStatus(status)}
	if activity != "" {
		opts = append(opts, gateway.WithWatchingActivity(activity))
	}
	if err := c.h.Client().SetPresence(context.TODO(), opts...); err != nil {
		return fmt.Errorf("set presence: %w", err)
	}

	c.h.Session().SetPresence(status, activity)
	trackedStatus, trackedActivity := c.h.Session().Presence()
	if trackedActivity == "" {
		return ctx.ReplyEphemeral(fmt.Sprintf("Presence updated: **%s**.", trackedStatus))
	}
	return ctx.ReplyEphemeral(fmt.Sprintf("Presence updated: **%s**, watching **%s**.", trackedStatus, trackedActivity))
}

func (c *devCog) handleStats(ctx *cog.SlashCtx) error {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := durafmt.Parse(c.h.Session().Uptime().Truncate(time.Second)).LimitFirstN(2).String()

	e := discord.NewEmbedBuilder().
		SetTitle("🛠 Runtime Snapshot").
		SetColor(embed.Color).
		AddField("Uptime", uptime, true).
		AddField("Goroutines", fmt.Sprintf("%d", runtime.NumGoroutine()), true).
		AddField("RAM", fmt.Sprintf("%d MB", m.Alloc/1000000), true).
		AddField("Garbage Collections", fmt.Sprintf("%d", m.NumGC), true).
		AddField("Guilds", fmt.Sprintf("%d", c.h.Client().Caches().GuildsLen()), true).
		AddField("Audit Entries", fmt.Sprintf("%d", c.h.Session().AuditLen()), true).
		AddField("Relay Targets", fmt.Sprintf("%d", len(c.h.Session().RelayTargets())), true).
		SetTimestamp(time.Now()).
		Build()
	return ctx.ReplyEphemeralEmbed(e)
}
