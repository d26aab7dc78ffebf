package cog

import (
	"sync"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/snowflake/v2"
)

// SlashCtx wraps a slash interaction and tracks whether it has been
// acknowledged, so later replies know to use the immediate response or a
// follow-up message.
type SlashCtx struct {
	Event *events.ApplicationCommandInteractionCreate

	client bot.Client

	mu    sync.Mutex
	acked bool
}

func NewSlashCtx(client bot.Client, e *events.ApplicationCommandInteractionCreate) *SlashCtx {
	return &SlashCtx{Event: e, client: client}
}

func (c *SlashCtx) Client() bot.Client {
	return c.client
}

// Data is the slash interaction payload with typed option accessors.
func (c *SlashCtx) Data() discord.SlashCommandInteractionData {
	return c.Event.SlashCommandInteractionData()
}

func (c *SlashCtx) User() discord.User {
	return c.Event.User()
}

func (c *SlashCtx) GuildID() *snowflake.ID {
	return c.Event.GuildID()
}

func (c *SlashCtx) ChannelID() snowflake.ID {
	return c.Event.Channel().ID()
}

// Acked reports whether an initial response (message or defer) went out.
func (c *SlashCtx) Acked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acked
}

func (c *SlashCtx) markAcked() {
	c.mu.Lock()
	c.acked = true
	c.mu.Unlock()
}

// Defer acknowledges the interaction with a deferred response, buying time
// for slow work like a track search.
func (c *SlashCtx) Defer(ephemeral bool) error {
	if err := c.Event.DeferCreateMessage(ephemeral); err != nil {
		return err
	}
	c.markAcked()
	return nil
}

// Reply sends msg as the interaction response, or as a follow-up message
// when a response already went out.
func (c *SlashCtx) Reply(msg discord.MessageCreate) error {
	c.mu.Lock()
	acked := c.acked
	c.mu.Unlock()

	if acked {
		_, err := c.client.Rest().CreateFollowupMessage(c.Event.ApplicationID(), c.Event.Token(), msg)
		return err
	}
	if err := c.Event.CreateMessage(msg); err != nil {
		return err
	}
	c.markAcked()
	return nil
}

// ReplyContent sends a plain text reply.
func (c *SlashCtx) ReplyContent(content string) error {
	return c.Reply(discord.NewMessageCreateBuilder().SetContent(content).Build())
}

// ReplyEphemeral sends a caller-only-visible text reply.
func (c *SlashCtx) ReplyEphemeral(content string) error {
	return c.Reply(discord.NewMessageCreateBuilder().SetContent(content).SetEphemeral(true).Build())
}

// ReplyEmbed sends an embed reply visible to the channel.
func (c *SlashCtx) ReplyEmbed(embeds ...discord.Embed) error {
	return c.Reply(discord.NewMessageCreateBuilder().AddEmbeds(embeds...).Build())
}

// ReplyEphemeralEmbed sends a caller-only-visible embed reply.
func (c *SlashCtx) ReplyEphemeralEmbed(embeds ...discord.Embed) error {
	return c.Reply(discord.NewMessageCreateBuilder().AddEmbeds(embeds...).SetEphemeral(true).Build())
}

// UpdateResponse edits the deferred or initial interaction response.
func (c *SlashCtx) UpdateResponse(update discord.MessageUpdate) (*discord.Message, error) {
	return c.client.Rest().UpdateInteractionResponse(c.Event.ApplicationID(), c.Event.Token(), update)
}

// UpdateContent edits the interaction response down to plain text.
func (c *SlashCtx) UpdateContent(content string) error {
	_, err := c.UpdateResponse(discord.NewMessageUpdateBuilder().SetContent(content).Build())
	return err
}

// MsgCtx wraps a prefix command invocation parsed from a guild message.
type MsgCtx struct {
	Event *events.MessageCreate
	// Args holds everything after the command word.
	Args []string

	client bot.Client
}

func NewMsgCtx(client bot.Client, e *events.MessageCreate, args []string) *MsgCtx {
	return &MsgCtx{Event: e, Args: args, client: client}
}

func (c *MsgCtx) Client() bot.Client {
	return c.client
}

func (c *MsgCtx) Author() discord.User {
	return c.Event.Message.Author
}

func (c *MsgCtx) GuildID() *snowflake.ID {
	return c.Event.GuildID
}

func (c *MsgCtx) ChannelID() snowflake.ID {
	return c.Event.ChannelID
}

// ArgString is the raw argument tail joined back together.
func (c *MsgCtx) ArgString() string {
	if len(c.Args) == 0 {
		return ""
	}
	out := c.Args[0]
	for _, a := range c.Args[1:] {
		out += " " + a
	}
	return out
}

// Reply posts a plain message to the invoking channel.
func (c *MsgCtx) Reply(content string) error {
	_, err := c.client.Rest().CreateMessage(c.Event.ChannelID,
		discord.NewMessageCreateBuilder().SetContent(content).Build())
	return err
}

// ReplyEmbed posts an embed to the invoking channel.
func (c *MsgCtx) ReplyEmbed(embeds ...discord.Embed) error {
	_, err := c.client.Rest().CreateMessage(c.Event.ChannelID,
		discord.NewMessageCreateBuilder().AddEmbeds(embeds...).Build())
	return err
}
