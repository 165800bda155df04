package engine

import (
    "errors"
    "math/rand"
    "testing"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
)

const (
    e = domain.Empty
    x = domain.Human
    o = domain.AI
)

// scriptedSource replays fixed values so tests can assert exact picks.
type scriptedSource struct {
    ints   []int
    floats []float64
}

func (s *scriptedSource) Intn(n int) int {
    v := s.ints[0]
    s.ints = s.ints[1:]
    return v % n
}

func (s *scriptedSource) Float64() float64 {
    v := s.floats[0]
    s.floats = s.floats[1:]
    return v
}

func TestHardTakesWinningMove(t *testing.T) {
    eng := New(&scriptedSource{})
    b := domain.Board{o, o, e, x, x, e, e, e, e}
    got, err := eng.ChooseMove(b, Hard)
    if err != nil {
        t.Fatalf("ChooseMove error: %v", err)
    }
    if got != 2 {
        t.Fatalf("expected winning move 2, got %d", got)
    }
}

func TestHardBlocksHumanThreat(t *testing.T) {
    eng := New(&scriptedSource{})
    b := domain.Board{x, x, e, o, e, e, e, e, e}
    got, err := eng.ChooseMove(b, Hard)
    if err != nil {
        t.Fatalf("ChooseMove error: %v", err)
    }
    if got != 2 {
        t.Fatalf("expected block at 2, got %d", got)
    }
}

func TestHumanCompletesRow(t *testing.T) {
    b := domain.Board{x, x, e, o, o, e, e, e, e}
    b[2] = domain.Human
    if !b.IsWinner(domain.Human) {
        t.Fatalf("expected human win after playing 2")
    }
}

func TestHardOnEmptyBoardPicksFirstIndex(t *testing.T) {
    eng := New(&scriptedSource{})
    got, err := eng.ChooseMove(domain.Board{}, Hard)
    if err != nil {
        t.Fatalf("ChooseMove error: %v", err)
    }
    // every opening draws under perfect play, so the first index wins the tie
    if got != 0 {
        t.Fatalf("expected 0 on empty board, got %d", got)
    }
}

func TestHardIsDeterministic(t *testing.T) {
    eng := NewSeeded(7)
    boards := []domain.Board{
        {},
        {x, e, e, e, e, e, e, e, e},
        {e, e, e, e, x, e, e, e, e},
        {x, e, e, e, o, e, e, e, x},
    }
    for _, b := range boards {
        first, err := eng.ChooseMove(b, Hard)
        if err != nil {
            t.Fatalf("ChooseMove error: %v", err)
        }
        second, _ := eng.ChooseMove(b, Hard)
        if first != second {
            t.Fatalf("hard not deterministic on %v: %d then %d", b, first, second)
        }
    }
}

func TestMinimaxRestoresBoard(t *testing.T) {
    b := domain.Board{x, e, e, e, o, e, e, e, x}
    before := b
    _ = minimax(&b, true)
    _ = minimax(&b, false)
    if b != before {
        t.Fatalf("minimax left board modified: %v -> %v", before, b)
    }
}

func TestChooseMoveLeavesCallerBoard(t *testing.T) {
    eng := NewSeeded(1)
    b := domain.Board{x, e, e, e, o, e, e, e, x}
    before := b
    for _, d := range Difficulties {
        if _, err := eng.ChooseMove(b, d); err != nil {
            t.Fatalf("ChooseMove(%v) error: %v", d, err)
        }
    }
    if b != before {
        t.Fatalf("caller board modified: %v -> %v", before, b)
    }
}

func TestFullBoardIsAFault(t *testing.T) {
    eng := NewSeeded(1)
    full := domain.Board{x, o, x, o, x, o, o, x, o}
    for _, d := range Difficulties {
        got, err := eng.ChooseMove(full, d)
        if !errors.Is(err, ErrNoMoves) || got != -1 {
            t.Fatalf("expected (-1, ErrNoMoves) for %v, got (%d, %v)", d, got, err)
        }
    }
}

func TestUnknownDifficulty(t *testing.T) {
    eng := NewSeeded(1)
    if _, err := eng.ChooseMove(domain.Board{}, Difficulty(9)); !errors.Is(err, ErrUnknownDifficulty) {
        t.Fatalf("expected ErrUnknownDifficulty, got %v", err)
    }
}

func TestEasyPicksWithInjectedSource(t *testing.T) {
    b := domain.Board{x, e, o, e, x, e, e, o, e} // empty: 1 3 5 6 8
    eng := New(&scriptedSource{ints: []int{2, 0, 4}})
    want := []int{5, 1, 8}
    for i, w := range want {
        got, err := eng.ChooseMove(b, Easy)
        if err != nil {
            t.Fatalf("ChooseMove error: %v", err)
        }
        if got != w {
            t.Fatalf("pick %d: expected %d, got %d", i, w, got)
        }
    }
}

func TestMediumCoinFlip(t *testing.T) {
    b := domain.Board{o, o, e, x, x, e, e, e, e} // empty: 2 5 6 7 8, hard plays 2

    eng := New(&scriptedSource{floats: []float64{0.2}, ints: []int{4}})
    if got, _ := eng.ChooseMove(b, Medium); got != 8 {
        t.Fatalf("low flip should run easy and pick 8, got %d", got)
    }

    eng = New(&scriptedSource{floats: []float64{0.5}})
    if got, _ := eng.ChooseMove(b, Medium); got != 2 {
        t.Fatalf("high flip should run hard and pick 2, got %d", got)
    }
}

func TestEasyAndMediumOnlyPickEmptyCells(t *testing.T) {
    eng := New(rand.New(rand.NewSource(42)))
    boards := []domain.Board{
        {},
        {x, e, o, e, x, e, e, o, e},
        {x, o, x, o, x, o, o, x, e},
        {e, o, x, o, x, o, o, x, o},
    }
    for _, b := range boards {
        for _, d := range []Difficulty{Easy, Medium} {
            for i := 0; i < 20; i++ {
                got, err := eng.ChooseMove(b, d)
                if err != nil {
                    t.Fatalf("ChooseMove error: %v", err)
                }
                if got < 0 || got > 8 || b[got] != domain.Empty {
                    t.Fatalf("%v picked occupied or invalid cell %d on %v", d, got, b)
                }
            }
        }
    }
}

// playAll enumerates every human reply against the AI at d and calls visit on
// each finished board.
func playAll(t *testing.T, eng *Engine, b domain.Board, turn domain.Cell, d Difficulty, visit func(domain.Board)) {
    t.Helper()
    if domain.StatusOf(b) != domain.InProgress {
        visit(b)
        return
    }
    if turn == domain.AI {
        idx, err := eng.ChooseMove(b, d)
        if err != nil {
            t.Fatalf("ChooseMove error on %v: %v", b, err)
        }
        if b[idx] != domain.Empty {
            t.Fatalf("AI played occupied cell %d on %v", idx, b)
        }
        b[idx] = domain.AI
        playAll(t, eng, b, domain.Human, d, visit)
        return
    }
    for _, idx := range b.EmptyIndices() {
        next := b
        next[idx] = domain.Human
        playAll(t, eng, next, domain.AI, d, visit)
    }
}

func TestHardIsUnbeatable(t *testing.T) {
    eng := NewSeeded(1)
    for _, first := range []domain.Cell{domain.Human, domain.AI} {
        games := 0
        playAll(t, eng, domain.Board{}, first, Hard, func(b domain.Board) {
            games++
            if b.IsWinner(domain.Human) {
                t.Fatalf("human beat hard AI (first=%v): %v", first, b)
            }
        })
        if games == 0 {
            t.Fatalf("no games enumerated")
        }
    }
}

func TestPlayoutsNeverHaveTwoWinners(t *testing.T) {
    eng := NewSeeded(3)
    for _, d := range []Difficulty{Easy, Medium} {
        playAll(t, eng, domain.Board{}, domain.Human, d, func(b domain.Board) {
            if b.IsWinner(domain.Human) && b.IsWinner(domain.AI) {
                t.Fatalf("both sides won on %v", b)
            }
        })
    }
}

func TestDrawScenarioHasNoWinner(t *testing.T) {
    b := domain.Board{x, o, x, o, x, o, o, x, o}
    if !b.IsDraw() || b.IsWinner(domain.Human) || b.IsWinner(domain.AI) {
        t.Fatalf("expected a plain draw on %v", b)
    }
}

func TestParseDifficulty(t *testing.T) {
    cases := map[string]Difficulty{"easy": Easy, "Medium": Medium, " HARD ": Hard}
    for in, want := range cases {
        got, err := ParseDifficulty(in)
        if err != nil || got != want {
            t.Fatalf("ParseDifficulty(%q) = %v, %v", in, got, err)
        }
        if got.String() != want.String() {
            t.Fatalf("unexpected name %q", got)
        }
    }
    if _, err := ParseDifficulty("impossible"); !errors.Is(err, ErrUnknownDifficulty) {
        t.Fatalf("expected ErrUnknownDifficulty, got %v", err)
    }
}
