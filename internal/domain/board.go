package domain

// Cell represents a board cell state.
type Cell uint8

const (
    Empty Cell = iota
    Human
    AI
)

// String renders the mark shown on the board: the human plays X, the AI O.
func (c Cell) String() string {
    switch c {
    case Human:
        return "X"
    case AI:
        return "O"
    default:
        return ""
    }
}

// Opponent returns the other side. Empty has no opponent.
func (c Cell) Opponent() Cell {
    switch c {
    case Human:
        return AI
    case AI:
        return Human
    default:
        return Empty
    }
}

// Board is a fixed 3x3 board stored row-major.
type Board [9]Cell

// WinPatterns lists every index triple that wins the game.
var WinPatterns = [8][3]int{
    // rows
    {0, 1, 2}, {3, 4, 5}, {6, 7, 8},
    // cols
    {0, 3, 6}, {1, 4, 7}, {2, 5, 8},
    // diags
    {0, 4, 8}, {2, 4, 6},
}

// IsWinner reports whether p holds all three cells of any win pattern.
func (b Board) IsWinner(p Cell) bool {
    for _, ln := range WinPatterns {
        if b[ln[0]] == p && b[ln[1]] == p && b[ln[2]] == p {
            return true
        }
    }
    return false
}

// IsDraw reports whether the board has no empty cell left. It does not look
// for a winner; a full board may still hold a win.
func (b Board) IsDraw() bool {
    for _, c := range b {
        if c == Empty {
            return false
        }
    }
    return true
}

// EmptyIndices returns the empty cells in ascending order.
func (b Board) EmptyIndices() []int {
    out := make([]int, 0, len(b))
    for i, c := range b {
        if c == Empty {
            out = append(out, i)
        }
    }
    return out
}

// Status is the outcome of a board.
type Status uint8

const (
    InProgress Status = iota
    HumanWin
    AIWin
    Draw
)

func (s Status) String() string {
    switch s {
    case HumanWin:
        return "human_win"
    case AIWin:
        return "ai_win"
    case Draw:
        return "draw"
    default:
        return "in_progress"
    }
}

// StatusOf derives the status from the marks on b.
func StatusOf(b Board) Status {
    switch {
    case b.IsWinner(Human):
        return HumanWin
    case b.IsWinner(AI):
        return AIWin
    case b.IsDraw():
        return Draw
    default:
        return InProgress
    }
}
