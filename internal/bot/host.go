package bot

import (
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgolink/v3/disgolink"

	"github.com/arkete/shadebot/internal/cog"
	"github.com/arkete/shadebot/internal/config"
	"github.com/arkete/shadebot/internal/music"
	"github.com/arkete/shadebot/internal/session"
)

// host adapts the orchestrator to the narrow view cogs load against.
type host struct {
	b *Bot
}

func (h host) Client() bot.Client         { return h.b.Client }
func (h host) Lavalink() disgolink.Client { return h.b.Lavalink }
func (h host) Config() *config.Config     { return h.b.Cfg }
func (h host) Session() *session.State    { return h.b.Session }
func (h host) Music() *music.Manager      { return h.b.Music }
func (h host) Registry() *cog.Registry    { return h.b.Registry }
