package domain

import (
    "errors"
    "testing"
)

// helper to apply alternating moves starting with the human
func playMoves(t *testing.T, g *Game, moves []int) {
    t.Helper()
    for i, m := range moves {
        side := Human
        if i%2 == 1 {
            side = AI
        }
        if err := g.Play(m, side); err != nil {
            t.Fatalf("move %d (%d by %v) failed: %v", i, m, side, err)
        }
    }
}

func TestNewGameInitialState(t *testing.T) {
    g := New()
    if g.Turn != Human {
        t.Fatalf("expected human to move first, got %v", g.Turn)
    }
    if g.Moves != 0 {
        t.Fatalf("expected 0 moves, got %d", g.Moves)
    }
    if g.Over() || g.Status() != InProgress {
        t.Fatalf("expected game in progress")
    }
    if g.Message() != "Your turn!" {
        t.Fatalf("unexpected message %q", g.Message())
    }
    for i, c := range g.Board {
        if c != Empty {
            t.Fatalf("expected empty board, cell %d = %v", i, c)
        }
    }
}

func TestPlayOutOfBounds(t *testing.T) {
    g := New()
    for _, idx := range []int{-1, 9, 42} {
        if err := g.Play(idx, Human); !errors.Is(err, ErrOutOfBounds) {
            t.Fatalf("expected ErrOutOfBounds for %d, got %v", idx, err)
        }
    }
    if g.Moves != 0 {
        t.Fatalf("rejected moves must not count")
    }
}

func TestPlayOccupiedLeavesStateUnchanged(t *testing.T) {
    g := New()
    playMoves(t, &g, []int{4})
    before := g
    if err := g.Play(4, AI); !errors.Is(err, ErrOccupied) {
        t.Fatalf("expected ErrOccupied on same cell, got %v", err)
    }
    if g != before {
        t.Fatalf("state changed on rejected move")
    }
}

func TestTurnFlipsAndIsEnforced(t *testing.T) {
    g := New()
    if err := g.Play(0, AI); !errors.Is(err, ErrNotYourTurn) {
        t.Fatalf("expected ErrNotYourTurn for AI first, got %v", err)
    }
    if err := g.Play(4, Human); err != nil {
        t.Fatalf("move failed: %v", err)
    }
    if g.Turn != AI {
        t.Fatalf("expected turn to flip to AI, got %v", g.Turn)
    }
    if g.Message() != "AI's turn..." {
        t.Fatalf("unexpected message %q", g.Message())
    }
    if err := g.Play(0, Human); !errors.Is(err, ErrNotYourTurn) {
        t.Fatalf("expected ErrNotYourTurn for human twice, got %v", err)
    }
}

func TestHumanWinsEveryPattern(t *testing.T) {
    for _, p := range WinPatterns {
        g := New()
        var fillers []int
        for i := 0; i < 9 && len(fillers) < 2; i++ {
            if i != p[0] && i != p[1] && i != p[2] {
                fillers = append(fillers, i)
            }
        }
        playMoves(t, &g, []int{p[0], fillers[0], p[1], fillers[1], p[2]})
        if g.Status() != HumanWin {
            t.Fatalf("expected human win on %v, got %v", p, g.Status())
        }
        if g.Message() != "You win!" {
            t.Fatalf("unexpected message %q", g.Message())
        }
        if g.Moves != 5 {
            t.Fatalf("expected 5 moves to win, got %d", g.Moves)
        }
    }
}

func TestAIWins(t *testing.T) {
    g := New()
    // X: 0, 1, 8   O: 4, 2, 6 (anti diagonal)
    playMoves(t, &g, []int{0, 4, 1, 2, 8, 6})
    if g.Status() != AIWin || g.Message() != "AI wins!" {
        t.Fatalf("expected AI win, got %v %q", g.Status(), g.Message())
    }
    if g.Turn != AI {
        t.Fatalf("turn should stay with the last mover once the game ends")
    }
}

func TestDrawNoWinner(t *testing.T) {
    g := New()
    playMoves(t, &g, []int{0, 1, 2, 4, 3, 5, 7, 6, 8})
    if g.Status() != Draw {
        t.Fatalf("expected draw, got %v", g.Status())
    }
    if g.Message() != "It's a draw!" {
        t.Fatalf("unexpected message %q", g.Message())
    }
    if g.Moves != 9 {
        t.Fatalf("expected 9 moves on draw, got %d", g.Moves)
    }
}

func TestGameOverBlocksFurtherMoves(t *testing.T) {
    g := New()
    playMoves(t, &g, []int{0, 3, 1, 4, 2})
    if g.Status() != HumanWin {
        t.Fatalf("expected human win before extra move")
    }
    if err := g.Play(8, AI); !errors.Is(err, ErrGameOver) {
        t.Fatalf("expected ErrGameOver, got %v", err)
    }
}

func TestReset(t *testing.T) {
    g := New()
    playMoves(t, &g, []int{0, 3, 1, 4, 2})
    g.Reset()
    if g != New() {
        t.Fatalf("expected fresh game after reset, got %+v", g)
    }
}

func TestIsIgnorable(t *testing.T) {
    for _, err := range []error{ErrOutOfBounds, ErrOccupied, ErrGameOver, ErrNotYourTurn} {
        if !IsIgnorable(err) {
            t.Fatalf("expected %v to be ignorable", err)
        }
    }
    if IsIgnorable(errors.New("boom")) || IsIgnorable(nil) {
        t.Fatalf("unexpected ignorable error")
    }
}
