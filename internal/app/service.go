package app

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"

    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

// Errors exposed by the service layer.
var (
    ErrNotFound   = errors.New("game not found")
    ErrNotAPlayer = errors.New("not a player")
    ErrAIThinking = errors.New("ai is thinking")
)

// IsIgnorable reports whether err is an invalid move request which the front
// ends silently drop.
func IsIgnorable(err error) bool {
    return errors.Is(err, ErrAIThinking) || domain.IsIgnorable(err)
}

// Session is the in-memory state tracked per game.
type Session struct {
    ID         string
    Game       domain.Game
    Difficulty engine.Difficulty
    Owner      string
    // Thinking is set while a delayed AI move is pending; human moves are
    // refused until it clears.
    Thinking bool
    // Round increments on restart so a pending AI move from the previous
    // round is dropped.
    Round   int
    Created time.Time
    Updated time.Time
}

type subscriber struct {
    mu     sync.Mutex
    ch     chan Session
    closed bool
}

// send delivers without blocking; false means the subscriber lags.
func (s *subscriber) send(gs Session) bool {
    s.mu.Lock()
    defer s.mu.Unlock()
    if s.closed {
        return true
    }
    select {
    case s.ch <- gs:
        return true
    default:
        return false
    }
}

func (s *subscriber) close() {
    s.mu.Lock()
    defer s.mu.Unlock()
    if !s.closed {
        s.closed = true
        close(s.ch)
    }
}

// Service manages games and subscribers.
type Service struct {
    mu     sync.Mutex
    games  map[string]*Session
    subs   map[string]map[*subscriber]struct{}
    engine *engine.Engine
    delay  time.Duration
    log    *zap.Logger

    // afterFunc schedules the delayed AI move; replaced in tests.
    afterFunc func(time.Duration, func())
}

// NewService creates a service. The AI answers after delay; a delay of zero
// or less makes it answer inside Play.
func NewService(eng *engine.Engine, log *zap.Logger, delay time.Duration) *Service {
    if eng == nil {
        eng = engine.New(nil)
    }
    if log == nil {
        log = zap.NewNop()
    }
    return &Service{
        games:  make(map[string]*Session),
        subs:   make(map[string]map[*subscriber]struct{}),
        engine: eng,
        delay:  delay,
        log:    log,
        afterFunc: func(d time.Duration, f func()) {
            time.AfterFunc(d, f)
        },
    }
}

// CreateGame creates and registers a new game owned by owner. An empty owner
// leaves the seat for the first Join.
func (s *Service) CreateGame(owner string, d engine.Difficulty) (*Session, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    id := uuid.NewString()
    now := time.Now()
    gs := &Session{ID: id, Game: domain.New(), Difficulty: d, Owner: owner, Created: now, Updated: now}
    s.games[id] = gs
    s.log.Info("game created", zap.String("game", id), zap.Stringer("difficulty", d))
    cp := *gs
    return &cp, nil
}

// Get returns a copy of the session if present.
func (s *Service) Get(id string) (*Session, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return nil, false
    }
    cp := *gs
    return &cp, true
}

// Join claims an unowned game for playerID. It reports whether playerID owns
// the game; everyone else spectates.
func (s *Service) Join(id, playerID string) (bool, *Session, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    gs, ok := s.games[id]
    if !ok {
        return false, nil, ErrNotFound
    }
    if gs.Owner == "" && playerID != "" {
        gs.Owner = playerID
        gs.Updated = time.Now()
        s.log.Debug("game claimed", zap.String("game", id), zap.String("player", playerID))
    }
    cp := *gs
    return gs.Owner == playerID, &cp, nil
}

// Play applies the human move at idx and lets the AI answer, either right
// away or after the configured delay. Rejected moves leave the game as is.
func (s *Service) Play(id, playerID string, idx int) (*Session, error) {
    s.mu.Lock()
    gs, err := s.ownedLocked(id, playerID)
    if err != nil {
        s.mu.Unlock()
        return nil, err
    }
    if gs.Thinking {
        cp := *gs
        s.mu.Unlock()
        return &cp, ErrAIThinking
    }
    if err := gs.Game.Play(idx, domain.Human); err != nil {
        cp := *gs
        s.mu.Unlock()
        return &cp, err
    }
    gs.Updated = time.Now()

    if !gs.Game.Over() {
        if s.delay > 0 {
            gs.Thinking = true
            round := gs.Round
            s.afterFunc(s.delay, func() { s.aiTurn(id, round) })
        } else if err := s.playAILocked(gs); err != nil {
            cp := *gs
            s.mu.Unlock()
            return &cp, err
        }
    }
    s.logOutcomeLocked(gs)

    cp := *gs
    subs := s.copySubsLocked(id)
    s.mu.Unlock()

    s.publish(id, subs, cp)
    return &cp, nil
}

// Restart resets the board. Any pending AI move from the old round is dropped.
func (s *Service) Restart(id, playerID string) (*Session, error) {
    s.mu.Lock()
    gs, err := s.ownedLocked(id, playerID)
    if err != nil {
        s.mu.Unlock()
        return nil, err
    }
    gs.Game.Reset()
    gs.Thinking = false
    gs.Round++
    gs.Updated = time.Now()
    s.log.Info("game restarted", zap.String("game", id), zap.Int("round", gs.Round))

    cp := *gs
    subs := s.copySubsLocked(id)
    s.mu.Unlock()

    s.publish(id, subs, cp)
    return &cp, nil
}

// SetDifficulty changes the tier used from the next AI move on.
func (s *Service) SetDifficulty(id, playerID string, d engine.Difficulty) (*Session, error) {
    s.mu.Lock()
    gs, err := s.ownedLocked(id, playerID)
    if err != nil {
        s.mu.Unlock()
        return nil, err
    }
    gs.Difficulty = d
    gs.Updated = time.Now()
    s.log.Debug("difficulty changed", zap.String("game", id), zap.Stringer("difficulty", d))

    cp := *gs
    subs := s.copySubsLocked(id)
    s.mu.Unlock()

    s.publish(id, subs, cp)
    return &cp, nil
}

// Subscribe registers a subscriber for a game. Returns a channel and an
// unsubscribe func; the channel closes when ctx ends or the subscriber lags.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan Session, func(), error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.games[id]; !ok {
        return nil, func() {}, ErrNotFound
    }
    set := s.subs[id]
    if set == nil {
        set = make(map[*subscriber]struct{})
        s.subs[id] = set
    }
    sub := &subscriber{ch: make(chan Session, 4)}
    set[sub] = struct{}{}

    unsubOnce := &sync.Once{}
    unsub := func() {
        unsubOnce.Do(func() {
            s.mu.Lock()
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
            s.mu.Unlock()
            sub.close()
        })
    }
    go func() {
        <-ctx.Done()
        unsub()
    }()
    return sub.ch, unsub, nil
}

// aiTurn runs the delayed AI move scheduled by Play.
func (s *Service) aiTurn(id string, round int) {
    s.mu.Lock()
    gs, ok := s.games[id]
    if !ok || gs.Round != round || !gs.Thinking {
        s.mu.Unlock()
        return
    }
    gs.Thinking = false
    if err := s.playAILocked(gs); err != nil {
        s.mu.Unlock()
        return
    }
    s.logOutcomeLocked(gs)

    cp := *gs
    subs := s.copySubsLocked(id)
    s.mu.Unlock()

    s.publish(id, subs, cp)
}

func (s *Service) playAILocked(gs *Session) error {
    idx, err := s.engine.ChooseMove(gs.Game.Board, gs.Difficulty)
    if err != nil {
        s.log.Error("engine failed", zap.String("game", gs.ID), zap.Error(err))
        return fmt.Errorf("ai move: %w", err)
    }
    if err := gs.Game.Play(idx, domain.AI); err != nil {
        s.log.Error("engine chose an illegal move", zap.String("game", gs.ID), zap.Int("cell", idx), zap.Error(err))
        return fmt.Errorf("ai move %d: %w", idx, err)
    }
    gs.Updated = time.Now()
    s.log.Debug("ai moved", zap.String("game", gs.ID), zap.Int("cell", idx), zap.Stringer("difficulty", gs.Difficulty))
    return nil
}

func (s *Service) logOutcomeLocked(gs *Session) {
    if st := gs.Game.Status(); st != domain.InProgress {
        s.log.Info("game finished", zap.String("game", gs.ID), zap.Stringer("status", st), zap.Int("moves", gs.Game.Moves))
    }
}

func (s *Service) ownedLocked(id, playerID string) (*Session, error) {
    gs, ok := s.games[id]
    if !ok {
        return nil, ErrNotFound
    }
    if gs.Owner == "" || gs.Owner != playerID {
        return nil, ErrNotAPlayer
    }
    return gs, nil
}

// publish fans a snapshot out; slow subscribers are closed and forgotten.
func (s *Service) publish(id string, subs map[*subscriber]struct{}, cp Session) {
    var toDrop []*subscriber
    for sub := range subs {
        if !sub.send(cp) {
            sub.close()
            toDrop = append(toDrop, sub)
        }
    }
    if len(toDrop) > 0 {
        s.mu.Lock()
        for _, sub := range toDrop {
            if set, ok := s.subs[id]; ok {
                delete(set, sub)
            }
        }
        s.mu.Unlock()
        s.log.Debug("dropped slow subscribers", zap.String("game", id), zap.Int("count", len(toDrop)))
    }
}

func (s *Service) copySubsLocked(id string) map[*subscriber]struct{} {
    out := make(map[*subscriber]struct{})
    if set, ok := s.subs[id]; ok {
        for k := range set {
            out[k] = struct{}{}
        }
    }
    return out
}
