package football

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const (
	gameTTL = 10 * time.Minute
	rounds  = 5
)

type direction int

const (
	dirLeft direction = iota
	dirCenter
	dirRight
)

func (d direction) String() string {
	switch d {
	case dirLeft:
		return "left"
	case dirCenter:
		return "center"
	default:
		return "right"
	}
}

func randomDirection() direction {
	return direction(rand.IntN(3))
}

// shot is one resolved penalty: where the player aimed, where the keeper
// dove, and whether it went in.
type shot struct {
	aim    direction
	keeper direction
	scored bool
}

// game is a five-round shootout against the house keeper.
type game struct {
	mu         sync.Mutex
	playerID   snowflake.ID
	goals      int
	history    []shot
	keeperPick func() direction
	created    time.Time
}

func newGame(playerID snowflake.ID) *game {
	return &game{
		playerID:   playerID,
		keeperPick: randomDirection,
		created:    time.Now(),
	}
}

// kick resolves one penalty. The keeper saves only by diving the same way
// the shot goes.
func (g *game) kick(aim direction) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.history) >= rounds {
		return
	}

	keeper := g.keeperPick()
	s := shot{aim: aim, keeper: keeper, scored: aim != keeper}
	if s.scored {
		g.goals++
	}
	g.history = append(g.history, s)
}

// view is a consistent read of the shootout for rendering and assertions.
type view struct {
	goals   int
	history []shot
	done    bool
}

func (g *game) view() view {
	g.mu.Lock()
	defer g.mu.Unlock()
	return view{
		goals:   g.goals,
		history: append([]shot(nil), g.history...),
		done:    len(g.history) >= rounds,
	}
}

// store keeps running shootouts keyed by their message, sweeping abandoned
// ones as new games start.
type store struct {
	mu    sync.Mutex
	games map[snowflake.ID]*game
	now   func() time.Time
}

func newStore() *store {
	return &store{
		games: make(map[snowflake.ID]*game),
		now:   time.Now,
	}
}

func (s *store) set(messageID snowflake.ID, g *game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, old := range s.games {
		if s.now().Sub(old.created) > gameTTL {
			delete(s.games, id)
		}
	}
	s.games[messageID] = g
}

func (s *store) get(messageID snowflake.ID) *game {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[messageID]
	if !ok {
		return nil
	}
	if s.now().Sub(g.created) > gameTTL {
		delete(s.games, messageID)
		return nil
	}
	return g
}

func (s *store) delete(messageID snowflake.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, messageID)
}
