package blackjack

import (
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const gameTTL = 10 * time.Minute

var (
	suits     = [4]string{"♠", "♥", "♦", "♣"}
	rankNames = [14]string{"", "A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
)

type card struct {
	rank int // 1 is the ace, 11-13 are face cards
	suit int
}

func (c card) String() string {
	return rankNames[c.rank] + suits[c.suit]
}

func newDeck() []card {
	deck := make([]card, 0, 52)
	for suit := 0; suit < len(suits); suit++ {
		for rank := 1; rank <= 13; rank++ {
			deck = append(deck, card{rank: rank, suit: suit})
		}
	}
	rand.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// handValue scores a hand, counting each ace as 11 until that would bust.
func handValue(hand []card) int {
	total, aces := 0, 0
	for _, c := range hand {
		switch {
		case c.rank == 1:
			total += 11
			aces++
		case c.rank >= 10:
			total += 10
		default:
			total += c.rank
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

func handString(hand []card) string {
	names := make([]string, len(hand))
	for i, c := range hand {
		names[i] = c.String()
	}
	return strings.Join(names, " ")
}

type outcome int

const (
	playing outcome = iota
	playerBust
	playerWin
	dealerWin
	push
)

type game struct {
	mu       sync.Mutex
	deck     []card
	player   []card
	dealer   []card
	playerID snowflake.ID
	state    outcome
	created  time.Time
}

func newGame(playerID snowflake.ID) *game {
	return newGameFromDeck(playerID, newDeck())
}

// newGameFromDeck deals the opening hands from an explicit deck order:
// two cards to the player, then two to the dealer. A natural 21 settles
// the hand immediately.
func newGameFromDeck(playerID snowflake.ID, deck []card) *game {
	g := &game{
		deck:     deck,
		playerID: playerID,
		created:  time.Now(),
	}
	g.player = append(g.player, g.draw(), g.draw())
	g.dealer = append(g.dealer, g.draw(), g.draw())
	if handValue(g.player) == 21 {
		g.finish()
	}
	return g
}

func (g *game) draw() card {
	c := g.deck[0]
	g.deck = g.deck[1:]
	return c
}

// hit draws for the player. Going over 21 busts, hitting exactly 21
// stands automatically.
func (g *game) hit() outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != playing {
		return g.state
	}

	g.player = append(g.player, g.draw())
	switch value := handValue(g.player); {
	case value > 21:
		g.state = playerBust
	case value == 21:
		g.finish()
	}
	return g.state
}

// stand ends the player's turn and plays out the dealer.
func (g *game) stand() outcome {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state != playing {
		return g.state
	}
	g.finish()
	return g.state
}

// finish draws the dealer up to 17 and settles the hand. The caller holds
// the lock, or the game is not yet published.
func (g *game) finish() {
	for handValue(g.dealer) < 17 {
		g.dealer = append(g.dealer, g.draw())
	}

	playerValue, dealerValue := handValue(g.player), handValue(g.dealer)
	switch {
	case dealerValue > 21 || playerValue > dealerValue:
		g.state = playerWin
	case playerValue == dealerValue:
		g.state = push
	default:
		g.state = dealerWin
	}
}

// view is a consistent read of the table for rendering and assertions.
type view struct {
	player      []card
	dealer      []card
	playerValue int
	dealerValue int
	state       outcome
}

func (g *game) view() view {
	g.mu.Lock()
	defer g.mu.Unlock()
	return view{
		player:      append([]card(nil), g.player...),
		dealer:      append([]card(nil), g.dealer...),
		playerValue: handValue(g.player),
		dealerValue: handValue(g.dealer),
		state:       g.state,
	}
}

// store keeps running games keyed by their table message, sweeping
// abandoned ones as new games start.
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
