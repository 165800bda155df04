package engine

import "github.com/jaminalder/tictactoe-ai/internal/domain"

// Scores of a position from the AI's point of view.
const (
    scoreLoss = -1
    scoreDraw = 0
    scoreWin  = 1
)

// hard returns the first empty index, ascending, with the best minimax score.
// b must have at least one empty cell.
func hard(b domain.Board) int {
    best, move := scoreLoss-1, -1
    for i := range b {
        if b[i] != domain.Empty {
            continue
        }
        b[i] = domain.AI
        s := minimax(&b, false)
        b[i] = domain.Empty
        if s > best {
            best, move = s, i
        }
    }
    return move
}

// minimax scores b with full-depth search. Every placement is undone before
// returning, so *b is unchanged afterwards. Wins are not weighted by depth.
func minimax(b *domain.Board, maximizing bool) int {
    if b.IsWinner(domain.AI) {
        return scoreWin
    }
    if b.IsWinner(domain.Human) {
        return scoreLoss
    }
    if b.IsDraw() {
        return scoreDraw
    }

    if maximizing {
        best := scoreLoss - 1
        for i := range b {
            if b[i] != domain.Empty {
                continue
            }
            b[i] = domain.AI
            if s := minimax(b, false); s > best {
                best = s
            }
            b[i] = domain.Empty
        }
        return best
    }

    best := scoreWin + 1
    for i := range b {
        if b[i] != domain.Empty {
            continue
        }
        b[i] = domain.Human
        if s := minimax(b, true); s < best {
            best = s
        }
        b[i] = domain.Empty
    }
    return best
}
