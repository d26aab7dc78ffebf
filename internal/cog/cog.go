// Package cog defines the command-plugin contract. A cog is a
// self-contained module that registers slash commands, prefix commands
// and component routes against the host registry when loaded; the
// orchestrator loads cogs in a fixed order and isolates per-cog failures.
package cog

import (
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgolink/v3/disgolink"

	"github.com/arkete/shadebot/internal/config"
	"github.com/arkete/shadebot/internal/music"
	"github.com/arkete/shadebot/internal/session"
)

// Cog is a loadable command plugin.
type Cog interface {
	Name() string
	Load(h Host) error
}

// Host is the narrow view of the orchestrator handed to a cog at load
// time. The orchestrator implements it; tests substitute a fake.
type Host interface {
	Client() bot.Client
	Lavalink() disgolink.Client
	Config() *config.Config
	Session() *session.State
	Music() *music.Manager
	Registry() *Registry
}
