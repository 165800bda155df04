package engine

import (
    "fmt"
    "strings"
)

// Difficulty selects the strategy used to pick the AI move.
type Difficulty uint8

const (
    Easy Difficulty = iota
    Medium
    Hard
)

// Difficulties lists every tier in display order.
var Difficulties = []Difficulty{Easy, Medium, Hard}

func (d Difficulty) String() string {
    switch d {
    case Easy:
        return "easy"
    case Medium:
        return "medium"
    case Hard:
        return "hard"
    default:
        return fmt.Sprintf("difficulty(%d)", uint8(d))
    }
}

// ParseDifficulty accepts easy, medium or hard in any case.
func ParseDifficulty(s string) (Difficulty, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "easy":
        return Easy, nil
    case "medium":
        return Medium, nil
    case "hard":
        return Hard, nil
    }
    return Hard, fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}
