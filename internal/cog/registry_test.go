package cog

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slashCreate(name string) discord.ApplicationCommandCreate {
	return discord.SlashCommandCreate{Name: name, Description: "test command"}
}

func TestRegistrySlashDuplicate(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.RegisterSlash(&SlashCommand{Create: slashCreate("ping")}))

	err := r.RegisterSlash(&SlashCommand{Create: slashCreate("ping")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ping"`)
}

func TestRegistrySlashLookupAndOrder(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.RegisterSlash(&SlashCommand{Create: slashCreate("play")}))
	require.NoError(t, r.RegisterSlash(&SlashCommand{Create: slashCreate("skip")}))
	require.NoError(t, r.RegisterSlash(&SlashCommand{Create: slashCreate("stop")}))

	cmd, ok := r.Slash("skip")
	require.True(t, ok)
	assert.Equal(t, "skip", cmd.Name())

	_, ok = r.Slash("missing")
	assert.False(t, ok)

	decls := r.SlashDeclarations()
	require.Len(t, decls, 3)
	assert.Equal(t, "play", decls[0].CommandName())
	assert.Equal(t, "skip", decls[1].CommandName())
	assert.Equal(t, "stop", decls[2].CommandName())
}

func TestRegistryPrefixAliases(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.RegisterPrefix(&PrefixCommand{
		Name:    "play",
		Aliases: []string{"p"},
	}))

	for _, name := range []string{"play", "p", "PLAY", "P"} {
		cmd, ok := r.Prefix(name)
		require.True(t, ok, name)
		assert.Equal(t, "play", cmd.Name)
	}

	_, ok := r.Prefix("q")
	assert.False(t, ok)
}

func TestRegistryPrefixDuplicateAlias(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.RegisterPrefix(&PrefixCommand{Name: "play", Aliases: []string{"p"}}))

	err := r.RegisterPrefix(&PrefixCommand{Name: "pause", Aliases: []string{"p"}})
	require.Error(t, err)

	// The failed registration must not leave partial alias entries behind.
	_, ok := r.Prefix("pause")
	assert.False(t, ok)
}

func TestRegistryComponentRouting(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	var hits []string
	require.NoError(t, r.RegisterComponent("np_", func(*events.ComponentInteractionCreate) error {
		hits = append(hits, "np")
		return nil
	}))
	require.NoError(t, r.RegisterComponent("search_", func(*events.ComponentInteractionCreate) error {
		hits = append(hits, "search")
		return nil
	}))

	h, ok := r.Component("np_skip")
	require.True(t, ok)
	require.NoError(t, h(nil))

	h, ok = r.Component("search_select:3")
	require.True(t, ok)
	require.NoError(t, h(nil))

	_, ok = r.Component("ttt:4")
	assert.False(t, ok)

	assert.Equal(t, []string{"np", "search"}, hits)

	err := r.RegisterComponent("np_", func(*events.ComponentInteractionCreate) error { return nil })
	assert.Error(t, err)
}
