// Package blackjack deals single-player blackjack against the house.
package blackjack

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/arkete/shadebot/internal/cog"
	"github.com/arkete/shadebot/internal/embed"
)

type bjCog struct {
	h     cog.Host
	games *store
}

func New() cog.Cog {
	return &bjCog{games: newStore()}
}

func (c *bjCog) Name() string {
	return "blackjack"
}

func (c *bjCog) Load(h cog.Host) error {
	c.h = h

	dmPerm := false
	if err := h.Registry().RegisterSlash(&cog.SlashCommand{
		Create: discord.SlashCommandCreate{
			Name:         "blackjack",
			Description:  "Deals a hand of blackjack against the house",
			DMPermission: &dmPerm,
		},
		Handler: c.handleDeal,
	}); err != nil {
		return err
	}
	return h.Registry().RegisterComponent("bj:", c.handleAction)
}

func (c *bjCog) handleDeal(ctx *cog.SlashCtx) error {
	if err := ctx.Defer(false); err != nil {
		return err
	}

	g := newGame(ctx.User().ID)
	v := g.view()
	msg, err := ctx.UpdateResponse(discord.NewMessageUpdateBuilder().
		SetEmbeds(tableEmbed(v)).
		SetContainerComponents(tableButtons(v)...).
		Build())
	if err != nil {
		return err
	}

	if v.state == playing {
		c.games.set(msg.ID, g)
	}
	return nil
}

func (c *bjCog) handleAction(event *events.ComponentInteractionCreate) error {
	g := c.games.get(event.Message.ID)
	if g == nil {
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("This table expired. Deal a new hand with `/blackjack`.").
			SetEphemeral(true).
			Build())
	}

	if event.User().ID != g.playerID {
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("This isn't your hand.").
			SetEphemeral(true).
			Build())
	}

	switch event.Data.CustomID() {
	case "bj:hit":
		g.hit()
	case "bj:stand":
		g.stand()
	default:
		return event.DeferUpdateMessage()
	}

	v := g.view()
	if v.state != playing {
		c.games.delete(event.Message.ID)
	}

	return event.UpdateMessage(discord.NewMessageUpdateBuilder().
		SetEmbeds(tableEmbed(v)).
		SetContainerComponents(tableButtons(v)...).
		Build())
}

func tableEmbed(v view) discord.Embed {
	b := discord.NewEmbedBuilder().SetTitle("🃏 Blackjack")

	switch v.state {
	case playerBust:
		b.SetDescription("Bust! You went over 21.").SetColor(embed.ColorRed)
	case playerWin:
		b.SetDescription("You win! 🎉").SetColor(embed.ColorGreen)
	case dealerWin:
		b.SetDescription("The house wins.").SetColor(embed.ColorRed)
	case push:
		b.SetDescription("Push. Nobody wins.").SetColor(embed.ColorOrange)
	default:
		b.SetDescription("Hit to draw another card, stand to end your turn.").SetColor(embed.Color)
	}

	b.AddField("Your hand", fmt.Sprintf("%s (%d)", handString(v.player), v.playerValue), true)
	if v.state == playing {
		b.AddField("Dealer", v.dealer[0].String()+" ?", true)
	} else {
		b.AddField("Dealer", fmt.Sprintf("%s (%d)", handString(v.dealer), v.dealerValue), true)
	}
	return b.Build()
}

func tableButtons(v view) []discord.ContainerComponent {
	done := v.state != playing
	return []discord.ContainerComponent{
		discord.NewActionRow(
			discord.NewPrimaryButton("Hit", "bj:hit").WithDisabled(done),
			discord.NewSecondaryButton("Stand", "bj:stand").WithDisabled(done),
		),
	}
}
