package tictactoe

import (
	"errors"
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const gameTTL = 10 * time.Minute

var (
	errNotPlayer   = errors.New("not a player in this game")
	errNotYourTurn = errors.New("not your turn")
	errCellTaken   = errors.New("cell already taken")
	errFinished    = errors.New("game already finished")
)

const (
	markNone byte = 0
	markX    byte = 'X'
	markO    byte = 'O'
)

// game is one match. X is the challenger and moves first.
type game struct {
	mu      sync.Mutex
	board   [9]byte
	xPlayer snowflake.ID
	oPlayer snowflake.ID
	turn    snowflake.ID
	winner  snowflake.ID
	done    bool
	created time.Time
}

func newGame(challenger, opponent snowflake.ID) *game {
	return &game{
		xPlayer: challenger,
		oPlayer: opponent,
		turn:    challenger,
		created: time.Now(),
	}
}

// view is a consistent read of the board for rendering and assertions.
type view struct {
	board   [9]byte
	xPlayer snowflake.ID
	oPlayer snowflake.ID
	turn    snowflake.ID
	winner  snowflake.ID
	done    bool
}

func (g *game) view() view {
	g.mu.Lock()
	defer g.mu.Unlock()
	return view{
		board:   g.board,
		xPlayer: g.xPlayer,
		oPlayer: g.oPlayer,
		turn:    g.turn,
		winner:  g.winner,
		done:    g.done,
	}
}

// move applies player's move to cell (0-8), flipping the turn or ending
// the game.
func (g *game) move(player snowflake.ID, cell int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.done {
		return errFinished
	}

	var mark byte
	switch player {
	case g.xPlayer:
		mark = markX
	case g.oPlayer:
		mark = markO
	default:
		return errNotPlayer
	}
	if player != g.turn {
		return errNotYourTurn
	}
	if cell < 0 || cell >= len(g.board) || g.board[cell] != markNone {
		return errCellTaken
	}

	g.board[cell] = mark
	if hasWin(g.board, mark) {
		g.winner = player
		g.done = true
		return nil
	}
	if boardFull(g.board) {
		g.done = true
		return nil
	}

	if g.turn == g.xPlayer {
		g.turn = g.oPlayer
	} else {
		g.turn = g.xPlayer
	}
	return nil
}

var winLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

func hasWin(board [9]byte, mark byte) bool {
	for _, line := range winLines {
		if board[line[0]] == mark && board[line[1]] == mark && board[line[2]] == mark {
			return true
		}
	}
	return false
}

func boardFull(board [9]byte) bool {
	for _, cell := range board {
		if cell == markNone {
			return false
		}
	}
	return true
}

// store keeps running games keyed by their board message, sweeping
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
