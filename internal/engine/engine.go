// Package engine picks the computer's move for each difficulty tier.
package engine

import (
    "errors"
    "math/rand"
    "time"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
)

// Errors returned by the engine.
var (
    // ErrNoMoves means ChooseMove was called on a full board. Callers must
    // never do that; it is a programming error, not a game outcome.
    ErrNoMoves           = errors.New("no empty cell to play")
    ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// Source is the randomness used by the easy and medium tiers.
// *rand.Rand satisfies it.
type Source interface {
    Intn(n int) int
    Float64() float64
}

// Engine chooses AI moves. It keeps no board state between calls and is not
// safe for concurrent use unless its Source is.
type Engine struct {
    rng Source
}

// New returns an engine drawing randomness from src. A nil src gets a
// time-seeded generator.
func New(src Source) *Engine {
    if src == nil {
        src = rand.New(rand.NewSource(time.Now().UnixNano()))
    }
    return &Engine{rng: src}
}

// NewSeeded returns an engine with a deterministic math/rand source.
func NewSeeded(seed int64) *Engine {
    return New(rand.New(rand.NewSource(seed)))
}

// ChooseMove returns the index (0..8) the AI plays on b at difficulty d.
// b is passed by value and the caller's board is never touched.
func (e *Engine) ChooseMove(b domain.Board, d Difficulty) (int, error) {
    empty := b.EmptyIndices()
    if len(empty) == 0 {
        return -1, ErrNoMoves
    }
    switch d {
    case Easy:
        return e.easy(empty), nil
    case Medium:
        return e.medium(b, empty), nil
    case Hard:
        return hard(b), nil
    }
    return -1, ErrUnknownDifficulty
}

func (e *Engine) easy(empty []int) int {
    return empty[e.rng.Intn(len(empty))]
}

// medium flips a coin for the whole strategy, it does not blend scores.
func (e *Engine) medium(b domain.Board, empty []int) int {
    if e.rng.Float64() < 0.5 {
        return e.easy(empty)
    }
    return hard(b)
}
