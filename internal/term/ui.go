// Package term runs the game in a terminal.
package term

import (
    "fmt"
    "time"

    "github.com/gdamore/tcell/v2"
    "go.uber.org/zap"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

// Options configures a UI.
type Options struct {
    Difficulty engine.Difficulty
    // Delay before the AI answers; zero answers right away.
    Delay time.Duration
    Log   *zap.Logger
}

// UI draws the board and turns key presses into moves. All game state is
// owned by the goroutine running Run.
type UI struct {
    screen     tcell.Screen
    engine     *engine.Engine
    log        *zap.Logger
    game       domain.Game
    difficulty engine.Difficulty
    delay      time.Duration
    cursor     int
    thinking   bool
    round      int

    afterFunc func(time.Duration, func())
}

// aiTick is posted as interrupt data when a delayed AI move is due.
type aiTick struct{ round int }

// New returns a UI on an initialized screen.
func New(screen tcell.Screen, eng *engine.Engine, opts Options) *UI {
    log := opts.Log
    if log == nil {
        log = zap.NewNop()
    }
    return &UI{
        screen:     screen,
        engine:     eng,
        log:        log,
        game:       domain.New(),
        difficulty: opts.Difficulty,
        delay:      opts.Delay,
        cursor:     4,
        afterFunc: func(d time.Duration, f func()) {
            time.AfterFunc(d, f)
        },
    }
}

// Game returns a copy of the current game.
func (u *UI) Game() domain.Game { return u.game }

// Difficulty returns the tier used for the next AI move.
func (u *UI) Difficulty() engine.Difficulty { return u.difficulty }

// Run processes events until the player quits or the screen is finalized.
func (u *UI) Run() error {
    for {
        u.draw()
        switch ev := u.screen.PollEvent().(type) {
        case nil:
            return nil
        case *tcell.EventResize:
            u.screen.Sync()
        case *tcell.EventInterrupt:
            tick, ok := ev.Data().(aiTick)
            if !ok || tick.round != u.round || !u.thinking {
                continue
            }
            u.thinking = false
            if err := u.aiMove(); err != nil {
                return err
            }
        case *tcell.EventKey:
            quit, err := u.handleKey(ev)
            if err != nil || quit {
                return err
            }
        }
    }
}

func (u *UI) handleKey(ev *tcell.EventKey) (bool, error) {
    switch ev.Key() {
    case tcell.KeyCtrlC, tcell.KeyEscape:
        return true, nil
    case tcell.KeyUp:
        u.moveCursor(-3)
    case tcell.KeyDown:
        u.moveCursor(3)
    case tcell.KeyLeft:
        u.moveCursor(-1)
    case tcell.KeyRight:
        u.moveCursor(1)
    case tcell.KeyEnter:
        return false, u.place(u.cursor)
    case tcell.KeyRune:
        r := ev.Rune()
        switch {
        case r == 'q':
            return true, nil
        case r == 'k':
            u.moveCursor(-3)
        case r == 'j':
            u.moveCursor(3)
        case r == 'h':
            u.moveCursor(-1)
        case r == 'l':
            u.moveCursor(1)
        case r == ' ':
            return false, u.place(u.cursor)
        case r >= '1' && r <= '9':
            idx := int(r - '1')
            u.cursor = idx
            return false, u.place(idx)
        case r == 'd':
            u.difficulty = engine.Difficulties[(int(u.difficulty)+1)%len(engine.Difficulties)]
            u.log.Debug("difficulty changed", zap.Stringer("difficulty", u.difficulty))
        case r == 'r':
            u.restart()
        }
    }
    return false, nil
}

// moveCursor steps within the 3x3 grid without wrapping.
func (u *UI) moveCursor(delta int) {
    row, col := u.cursor/3, u.cursor%3
    switch delta {
    case -3:
        row--
    case 3:
        row++
    case -1:
        col--
    case 1:
        col++
    }
    if row < 0 || row > 2 || col < 0 || col > 2 {
        return
    }
    u.cursor = row*3 + col
}

// place plays the human mark; invalid requests are silently ignored.
func (u *UI) place(idx int) error {
    if u.thinking {
        return nil
    }
    if err := u.game.Play(idx, domain.Human); err != nil {
        u.log.Debug("move ignored", zap.Int("cell", idx), zap.Error(err))
        return nil
    }
    if u.game.Over() {
        u.log.Info("game finished", zap.Stringer("status", u.game.Status()))
        return nil
    }
    if u.delay <= 0 {
        return u.aiMove()
    }
    u.thinking = true
    round := u.round
    u.afterFunc(u.delay, func() {
        _ = u.screen.PostEvent(tcell.NewEventInterrupt(aiTick{round: round}))
    })
    return nil
}

func (u *UI) aiMove() error {
    idx, err := u.engine.ChooseMove(u.game.Board, u.difficulty)
    if err != nil {
        u.log.Error("engine failed", zap.Error(err))
        return fmt.Errorf("ai move: %w", err)
    }
    if err := u.game.Play(idx, domain.AI); err != nil {
        return fmt.Errorf("ai move %d: %w", idx, err)
    }
    u.log.Debug("ai moved", zap.Int("cell", idx), zap.Stringer("difficulty", u.difficulty))
    if u.game.Over() {
        u.log.Info("game finished", zap.Stringer("status", u.game.Status()))
    }
    return nil
}

func (u *UI) restart() {
    u.game.Reset()
    u.thinking = false
    u.round++
    u.cursor = 4
}

func (u *UI) draw() {
    s := u.screen
    s.Clear()
    plain := tcell.StyleDefault
    bold := plain.Bold(true)
    cursor := plain.Reverse(true)

    drawText(s, 0, 0, bold, "Tic-Tac-Toe vs AI")
    drawText(s, 0, 1, plain, "difficulty: "+u.difficulty.String())

    for row := 0; row < 3; row++ {
        y := 3 + row*2
        for col := 0; col < 3; col++ {
            idx := row*3 + col
            x := col * 4
            style := plain
            if idx == u.cursor && !u.game.Over() {
                style = cursor
            }
            mark := u.game.Board[idx].String()
            if mark == "" {
                mark = " "
            }
            drawText(s, x, y, style, " "+mark+" ")
            if col < 2 {
                drawText(s, x+3, y, plain, "|")
            }
        }
        if row < 2 {
            drawText(s, 0, y+1, plain, "---+---+---")
        }
    }

    drawText(s, 0, 9, bold, u.game.Message())
    drawText(s, 0, 11, plain, "arrows/hjkl move  enter place  1-9 place")
    drawText(s, 0, 12, plain, "d difficulty  r restart  q quit")
    s.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
    for i, r := range []rune(text) {
        s.SetContent(x+i, y, r, nil, style)
    }
}
