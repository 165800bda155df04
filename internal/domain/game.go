package domain

import "errors"

// Game holds the current state of a match between the human and the AI.
// The status is always derived from Board, never stored.
type Game struct {
    Board Board
    Turn  Cell
    Moves int
}

// Errors returned by domain operations.
var (
    ErrOutOfBounds = errors.New("out of bounds")
    ErrOccupied    = errors.New("cell occupied")
    ErrGameOver    = errors.New("game over")
    ErrNotYourTurn = errors.New("not your turn")
)

// IsIgnorable reports whether err is an invalid move request that front ends
// drop without telling the player.
func IsIgnorable(err error) bool {
    return errors.Is(err, ErrOutOfBounds) ||
        errors.Is(err, ErrOccupied) ||
        errors.Is(err, ErrGameOver) ||
        errors.Is(err, ErrNotYourTurn)
}

// New returns a new game with the human to move.
func New() Game {
    return Game{Turn: Human}
}

// Reset clears the board and hands the first move back to the human.
func (g *Game) Reset() {
    *g = New()
}

// Status derives the game outcome from the board.
func (g Game) Status() Status {
    return StatusOf(g.Board)
}

// Over reports whether the game has finished.
func (g Game) Over() bool {
    return g.Status() != InProgress
}

// Message is the status line shown to the player.
func (g Game) Message() string {
    switch g.Status() {
    case HumanWin:
        return "You win!"
    case AIWin:
        return "AI wins!"
    case Draw:
        return "It's a draw!"
    }
    if g.Turn == AI {
        return "AI's turn..."
    }
    return "Your turn!"
}

// Play places side's mark at idx (0..8). A rejected move leaves g untouched.
func (g *Game) Play(idx int, side Cell) error {
    if g.Over() {
        return ErrGameOver
    }
    if idx < 0 || idx >= len(g.Board) {
        return ErrOutOfBounds
    }
    if side != g.Turn {
        return ErrNotYourTurn
    }
    if g.Board[idx] != Empty {
        return ErrOccupied
    }

    g.Board[idx] = side
    g.Moves++

    if !g.Over() {
        g.Turn = side.Opponent()
    }
    return nil
}
