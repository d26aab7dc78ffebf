package football

import (
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const player snowflake.ID = 1

func fixedKeeper(d direction) func() direction {
	return func() direction { return d }
}

func TestEveryShotScoresWhenKeeperGuessesWrong(t *testing.T) {
	g := newGame(player)
	g.keeperPick = fixedKeeper(dirLeft)

	for i := 0; i < rounds; i++ {
		g.kick(dirRight)
	}

	v := g.view()
	assert.True(t, v.done)
	assert.Equal(t, rounds, v.goals)
}

func TestKeeperSavesMatchingDives(t *testing.T) {
	g := newGame(player)
	g.keeperPick = fixedKeeper(dirCenter)

	for i := 0; i < rounds; i++ {
		g.kick(dirCenter)
	}

	v := g.view()
	assert.True(t, v.done)
	assert.Zero(t, v.goals)
}

func TestMixedShootout(t *testing.T) {
	g := newGame(player)
	g.keeperPick = fixedKeeper(dirLeft)

	g.kick(dirLeft)   // saved
	g.kick(dirRight)  // goal
	g.kick(dirCenter) // goal
	g.kick(dirLeft)   // saved
	g.kick(dirRight)  // goal

	v := g.view()
	require.True(t, v.done)
	assert.Equal(t, 3, v.goals)
	require.Len(t, v.history, rounds)
	assert.False(t, v.history[0].scored)
	assert.True(t, v.history[1].scored)
}

func TestNoKicksAfterFiveRounds(t *testing.T) {
	g := newGame(player)
	g.keeperPick = fixedKeeper(dirLeft)

	for i := 0; i < rounds+3; i++ {
		g.kick(dirRight)
	}

	v := g.view()
	assert.Len(t, v.history, rounds)
	assert.Equal(t, rounds, v.goals)
}

func TestDirectionNames(t *testing.T) {
	assert.Equal(t, "left", dirLeft.String())
	assert.Equal(t, "center", dirCenter.String())
	assert.Equal(t, "right", dirRight.String())
}

func TestStoreExpiry(t *testing.T) {
	s := newStore()
	current := time.Now()
	s.now = func() time.Time { return current }

	s.set(snowflake.ID(100), newGame(player))
	require.NotNil(t, s.get(snowflake.ID(100)))

	current = current.Add(gameTTL + time.Minute)
	assert.Nil(t, s.get(snowflake.ID(100)))
}
