// Package tictactoe runs two-player matches on a 3x3 button grid.
package tictactoe

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"

	"github.com/arkete/shadebot/internal/cog"
	"github.com/arkete/shadebot/internal/embed"
)

type tttCog struct {
	h     cog.Host
	games *store
}

func New() cog.Cog {
	return &tttCog{games: newStore()}
}

func (c *tttCog) Name() string {
	return "tictactoe"
}

func (c *tttCog) Load(h cog.Host) error {
	c.h = h

	dmPerm := false
	if err := h.Registry().RegisterSlash(&cog.SlashCommand{
		Create: discord.SlashCommandCreate{
			Name:         "tictactoe",
			Description:  "Challenges someone to a game of tic-tac-toe",
			DMPermission: &dmPerm,
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionUser{
					Name:        "opponent",
					Description: "Who to challenge",
					Required:    true,
				},
			},
		},
		Handler: c.handleChallenge,
	}); err != nil {
		return err
	}
	return h.Registry().RegisterComponent("ttt:", c.handleMove)
}

func (c *tttCog) handleChallenge(ctx *cog.SlashCtx) error {
	challenger := ctx.User()
	opponent := ctx.Data().User("opponent")

	if opponent.Bot {
		return ctx.ReplyEphemeral("Bots don't play tic-tac-toe.")
	}
	if opponent.ID == challenger.ID {
		return ctx.ReplyEphemeral("You can't challenge yourself.")
	}

	if err := ctx.Defer(false); err != nil {
		return err
	}

	g := newGame(challenger.ID, opponent.ID)
	v := g.view()
	msg, err := ctx.UpdateResponse(discord.NewMessageUpdateBuilder().
		SetEmbeds(statusEmbed(v)).
		SetContainerComponents(boardComponents(v)...).
		Build())
	if err != nil {
		return err
	}

	c.games.set(msg.ID, g)
	return nil
}

func (c *tttCog) handleMove(event *events.ComponentInteractionCreate) error {
	cell, err := strconv.Atoi(strings.TrimPrefix(event.Data.CustomID(), "ttt:"))
	if err != nil {
		return nil
	}

	g := c.games.get(event.Message.ID)
	if g == nil {
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("This game expired. Start a new one with `/tictactoe`.").
			SetEphemeral(true).
			Build())
	}

	switch err := g.move(event.User().ID, cell); {
	case errors.Is(err, errNotPlayer):
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("You're not part of this game.").
			SetEphemeral(true).
			Build())
	case errors.Is(err, errNotYourTurn):
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("It's not your turn.").
			SetEphemeral(true).
			Build())
	case errors.Is(err, errCellTaken):
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("That square is taken.").
			SetEphemeral(true).
			Build())
	case errors.Is(err, errFinished):
		return event.CreateMessage(discord.NewMessageCreateBuilder().
			SetContent("This game is already over.").
			SetEphemeral(true).
			Build())
	}

	v := g.view()
	if v.done {
		c.games.delete(event.Message.ID)
	}

	return event.UpdateMessage(discord.NewMessageUpdateBuilder().
		SetEmbeds(statusEmbed(v)).
		SetContainerComponents(boardComponents(v)...).
		Build())
}

func statusEmbed(v view) discord.Embed {
	desc := fmt.Sprintf("❌ <@%s> vs ⭕ <@%s>\n\n", v.xPlayer, v.oPlayer)
	switch {
	case v.winner != 0:
		desc += fmt.Sprintf("<@%s> wins! 🎉", v.winner)
	case v.done:
		desc += "It's a draw."
	default:
		desc += fmt.Sprintf("Turn: <@%s>", v.turn)
	}

	return discord.NewEmbedBuilder().
		SetTitle("⭕ Tic Tac Toe ❌").
		SetDescription(desc).
		SetColor(embed.Color).
		Build()
}

func boardComponents(v view) []discord.ContainerComponent {
	rows := make([]discord.ContainerComponent, 0, 3)
	for row := 0; row < 3; row++ {
		buttons := make([]discord.InteractiveComponent, 0, 3)
		for col := 0; col < 3; col++ {
			cell := row*3 + col
			id := fmt.Sprintf("ttt:%d", cell)
			switch v.board[cell] {
			case markX:
				buttons = append(buttons, discord.NewDangerButton("❌", id).WithDisabled(true))
			case markO:
				buttons = append(buttons, discord.NewPrimaryButton("⭕", id).WithDisabled(true))
			default:
				buttons = append(buttons, discord.NewSecondaryButton("·", id).WithDisabled(v.done))
			}
		}
		rows = append(rows, discord.NewActionRow(buttons...))
	}
	return rows
}
