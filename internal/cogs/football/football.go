// Package football runs five-round penalty shootouts against the bot's
// keeper.
package football

import (
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/arkete/shadebot/internal/cog"
	"github.com/arkete/shadebot/internal/embed"
)

type fbCog struct {
	h     cog.Host
	games *store
}

func New() cog.Cog {
	return &fbCog{games: newStore()}
}

func (c *fbCog) Name() string {
	return "football"
}

func (c *fbCog) Load(h cog.Host) error {
	c.h = h

	dmPerm := false
	if err := h.Registry().RegisterSlash(&cog.SlashCommand{
		Create: discord.SlashCommandCreate{
			Name:         "football",
			Description:  "Takes five penalties against the bot's keeper",
			DMPermission: &dmPerm,
		},
		Handler: c.handleStart,
	}); err != nil {
		return err
	}
	return h.Registry().RegisterComponent("fb:", c.handleKick)
}

func (c *fbCog) handleStart(ctx *cog.SlashCtx) error {
	if err := ctx.Defer(false); err != nil {
		return err
	}

	g := newGame(ctx.User().ID)
	v := g.view()
	msg, err := ctx.UpdateResponse(discord.NewMessageUpdateBuilder().
		SetEmbeds(scoreEmbed(v)).
		SetContainerComponents(kickButtons(v)...).
		Build())
	if err != nil {
		return err
	}

	c.games.set(msg.ID, g)
	return nil
}

func (c *fbCog) handleKick(event *events.ComponentInteractionCreate) error {
	g := c.games.get(event.Message.ID)
	if g == nil {
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("This shootout expired. Start a new one with `/football`.").
			SetEphemeral(true).
			Build())
	}

	if event.User().ID != g.playerID {
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("This isn't your shootout.").
			SetEphemeral(true).
			Build())
	}

	switch event.Data.CustomID() {
	case "fb:left":
		g.kick(dirLeft)
	case "fb:center":
		g.kick(dirCenter)
	case "fb:right":
		g.kick(dirRight)
	default:
		return event.DeferUpdateMessage()
	}

	v := g.view()
	if v.done {
		c.games.delete(event.Message.ID)
	}

	return event.UpdateMessage(discord.NewMessageUpdateBuilder().
		SetEmbeds(scoreEmbed(v)).
		SetContainerComponents(kickButtons(v)...).
		Build())
}

func scoreEmbed(v view) discord.Embed {
	var lines strings.Builder
	for i, s := range v.history {
		result := "🧤 Saved!"
		if s.scored {
			result = "⚽ GOAL!"
		}
		fmt.Fprintf(&lines, "Round %d: aimed %s, keeper dove %s. %s\n", i+1, s.aim, s.keeper, result)
	}

	b := discord.NewEmbedBuilder().
		SetTitle("⚽ Penalty Shootout").
		SetColor(embed.Color)

	if !v.done {
		if lines.Len() > 0 {
			b.SetDescription(lines.String())
		} else {
			b.SetDescription("Five penalties. Pick a corner.")
		}
		b.AddField("Score", fmt.Sprintf("%d/%d after %d of %d shots", v.goals, rounds, len(v.history), rounds), false)
		return b.Build()
	}

	var verdict string
	switch {
	case v.goals == rounds:
		verdict = "Perfect shootout! 🏆"
	case v.goals >= 3:
		verdict = "Solid scoring! 👏"
	case v.goals >= 1:
		verdict = "The keeper read you like a book."
	default:
		verdict = "Shut out completely. Ouch."
	}
	fmt.Fprintf(&lines, "\nYou scored **%d of %d**. %s", v.goals, rounds, verdict)
	return b.SetDescription(lines.String()).Build()
}

func kickButtons(v view) []discord.ContainerComponent {
	return []discord.ContainerComponent{
		discord.NewActionRow(
			discord.NewSecondaryButton("⬅ Left", "fb:left").WithDisabled(v.done),
			discord.NewSecondaryButton("⬆ Center", "fb:center").WithDisabled(v.done),
			discord.NewSecondaryButton("➡ Right", "fb:right").WithDisabled(v.done),
		),
	}
}
