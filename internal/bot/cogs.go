package bot

import (
	"github.com/arkete/shadebot/internal/cog"
	"github.com/arkete/shadebot/internal/cogs/blackjack"
	"github.com/arkete/shadebot/internal/cogs/dev"
	"github.com/arkete/shadebot/internal/cogs/football"
	"github.com/arkete/shadebot/internal/cogs/general"
	musiccog "github.com/arkete/shadebot/internal/cogs/music"
	"github.com/arkete/shadebot/internal/cogs/tictactoe"
)

// defaultCogs is the fixed load order. Failures are isolated per cog, so
// a broken cog costs its own commands and nothing else.
func defaultCogs() []cog.Cog {
	return []cog.Cog{
		general.New(),
		tictactoe.New(),
		blackjack.New(),
		football.New(),
		musiccog.New(),
		dev.New(),
	}
}
