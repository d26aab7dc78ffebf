// Package music is the playback cog: the full slash command set, the
// prefix shortcuts, and the now-playing / search-picker buttons.
package music

import (
	"regexp"
	"time"

	"github.com/disgoorg/disgo/discord"

	"github.com/arkete/shadebot/internal/cog"
)

var urlPattern = regexp.MustCompile(`^https?://`)

type musicCog struct {
	h cog.Host
}

func New() cog.Cog {
	return &musicCog{}
}

func (c *musicCog) Name() string {
	return "music"
}

func (c *musicCog) Load(h cog.Host) error {
	c.h = h

	dmPerm := false
	intPtr := func(v int) *int { return &v }

	slash := []*cog.SlashCommand{
		{
			Create: discord.SlashCommandCreate{
				Name:         "play",
				Description:  "Plays a track from a search query or URL",
				DMPermission: &dmPerm,
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "query",
						Description: "Search terms or a YouTube URL",
						Required:    true,
					},
				},
			},
			Handler: c.handlePlay,
		},
		{
			Create: discord.SlashCommandCreate{
				Name:         "pause",
				Description:  "Pauses or resumes playback",
				DMPermission: &dmPerm,
			},
			Handler: c.handlePause,
		},
		{
			Create: discord.SlashCommandCreate{
				Name:         "skip",
				Description:  "Skips the current track",
				DMPermission: &dmPerm,
			},
			Handler: c.handleSkip,
		},
		{
			Create: discord.SlashCommandCreate{
				Name:         "stop",
				Description:  "Stops playback and clears the queue",
				DMPermission: &dmPerm,
			},
			Handler: c.handleStop,
		},
		{
			Create: discord.SlashCommandCreate{
				Name:         "queue",
				Description:  "Shows the current queue",
				DMPermission: &dmPerm,
			},
			Handler: c.handleQueue,
		},
		{
			Create: discord.SlashCommandCreate{
				Name:         "move",
				Description:  "Moves a track to another position in the queue",
				DMPermission: &dmPerm,
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        "from",
						Description: "Position of the track to move",
						Required:    true,
						MinValue:    intPtr(1),
					},
					discord.ApplicationCommandOptionInt{
						Name:        "to",
						Description: "Position to move it to",
						Required:    true,
						MinValue:    intPtr(1),
					},
				},
			},
			Handler: c.handleMove,
		},
		{
			Create: discord.SlashCommandCreate{
				Name:         "remove",
				Description:  "Removes a track from the queue",
				DMPermission: &dmPerm,
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        "position",
						Description: "Position of the track to remove",
						Required:    true,
						MinValue:    intPtr(1),
					},
				},
			},
			Handler: c.handleRemove,
		},
		{
			Create: discord.SlashCommandCreate{
				Name:         "volume",
				Description:  "Sets the playback volume (0-100)",
				DMPermission: &dmPerm,
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionInt{
						Name:        "level",
						Description: "Volume (0-100)",
						Required:    true,
						MinValue:    intPtr(0),
						MaxValue:    intPtr(100),
					},
				},
			},
			Handler: c.handleVolume,
		},
		{
			Create: discord.SlashCommandCreate{
				Name:         "repeat",
				Description:  "Sets the repeat mode",
				DMPermission: &dmPerm,
				Options: []discord.ApplicationCommandOption{
					discord.ApplicationCommandOptionString{
						Name:        "mode",
						Description: "Repeat mode",
						Required:    true,
						Choices: []discord.ApplicationCommandOptionChoiceString{
							{Name: "Off", Value: "off"},
							{Name: "Repeat track", Value: "one"},
							{Name: "Repeat queue", Value: "all"},
						},
					},
				},
			},
			Handler: c.handleRepeat,
		},
		{
			Create: discord.SlashCommandCreate{
				Name:         "shuffle",
				Description:  "Shuffles the queue",
				DMPermission: &dmPerm,
			},
			Cooldown: 3 * time.Second,
			Handler:  c.handleShuffle,
		},
		{
			Create: discord.SlashCommandCreate{
				Name:         "nowplaying",
				Description:  "Shows the currently playing track",
				DMPermission: &dmPerm,
			},
			Handler: c.handleNowPlaying,
		},
	}
	for _, cmd := range slash {
		if err := h.Registry().RegisterSlash(cmd); err != nil {
			return err
		}
	}

	prefix := []*cog.PrefixCommand{
		{
			Name:        "play",
			Aliases:     []string{"p"},
			Description: "Plays a track from a search query or URL",
			Handler:     c.prefixPlay,
		},
		{
			Name:        "pause",
			Description: "Pauses or resumes playback",
			Handler:     c.prefixPause,
		},
		{
			Name:        "skip",
			Description: "Skips the current track",
			Handler:     c.prefixSkip,
		},
		{
			Name:        "stop",
			Description: "Stops playback and clears the queue",
			Handler:     c.prefixStop,
		},
		{
			Name:        "queue",
			Aliases:     []string{"q"},
			Description: "Shows the current queue",
			Handler:     c.prefixQueue,
		},
		{
			Name:        "np",
			Description: "Shows the currently playing track",
			Handler:     c.prefixNowPlaying,
		},
	}
	for _, cmd := range prefix {
		if err := h.Registry().RegisterPrefix(cmd); err != nil {
			return err
		}
	}

	if err := h.Registry().RegisterComponent("np_", c.handleNPButton); err != nil {
		return err
	}
	return h.Registry().RegisterComponent("search_", c.handleSearchButton)
}
