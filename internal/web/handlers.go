package web

import (
    "bytes"
    "errors"
    "fmt"
    "io"
    "net/http"
    "strconv"
    "time"

    "github.com/go-chi/chi/v5"
    "go.uber.org/zap"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

type handlers struct {
    svc        *app.Service
    tpl        *templates
    log        *zap.Logger
    difficulty engine.Difficulty
}

func (h *handlers) renderBoard(gs app.Session, spectator bool, errMsg string) []byte {
    return renderTemplate(h.tpl.board, "", newBoardView(gs, spectator, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
    data := struct {
        Difficulty   string
        Difficulties []string
    }{Difficulty: h.difficulty.String(), Difficulties: difficultyNames()}
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.index, "base", data))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    d := h.difficulty
    if v := r.Form.Get("difficulty"); v != "" {
        parsed, err := engine.ParseDifficulty(v)
        if err != nil {
            http.Error(w, "unknown difficulty", http.StatusBadRequest)
            return
        }
        d = parsed
    }
    gs, err := h.svc.CreateGame(pid, d)
    if err != nil {
        h.log.Error("create game", zap.Error(err))
        http.Error(w, "failed to create", http.StatusInternalServerError)
        return
    }
    http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    // ensure cookie and auto-claim an unowned game
    pid := ensurePlayerCookie(w, r)
    owner, gs, err := h.svc.Join(id, pid)
    if err != nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    w.WriteHeader(http.StatusOK)
    _, _ = w.Write(renderTemplate(h.tpl.game, "base", newBoardView(*gs, !owner, "")))
}

func (h *handlers) join(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    owner, gs, err := h.svc.Join(id, pid)
    if err != nil || gs == nil {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, !owner, ""))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    idx, err := strconv.Atoi(r.Form.Get("cell"))
    if err != nil {
        idx = -1
    }
    gs, err := h.svc.Play(id, pid, idx)
    h.respond(w, r, id, gs, err)
}

func (h *handlers) restart(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    gs, err := h.svc.Restart(id, pid)
    h.respond(w, r, id, gs, err)
}

func (h *handlers) setDifficulty(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    pid := ensurePlayerCookie(w, r)
    _ = r.ParseForm()
    d, err := engine.ParseDifficulty(r.Form.Get("difficulty"))
    if err != nil {
        http.Error(w, "unknown difficulty", http.StatusBadRequest)
        return
    }
    gs, err := h.svc.SetDifficulty(id, pid, d)
    h.respond(w, r, id, gs, err)
}

// respond renders the board fragment after a player action. Invalid moves
// are dropped silently: the current board is shown with no alert.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, id string, gs *app.Session, err error) {
    var errMsg string
    spectator := false
    if err != nil {
        switch {
        case errors.Is(err, app.ErrNotFound):
            http.NotFound(w, r)
            return
        case errors.Is(err, app.ErrNotAPlayer):
            errMsg = "You are a spectator"
            spectator = true
        case app.IsIgnorable(err):
        default:
            h.log.Error("game action failed", zap.String("game", id), zap.Error(err))
            http.Error(w, "internal error", http.StatusInternalServerError)
            return
        }
    }
    if gs == nil {
        g, ok := h.svc.Get(id)
        if !ok {
            http.NotFound(w, r)
            return
        }
        gs = g
    }
    w.Header().Set("Content-Type", "text/html; charset=utf-8")
    _, _ = w.Write(h.renderBoard(*gs, spectator, errMsg))
}

var heartbeatInterval = 15 * time.Second

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    if _, ok := h.svc.Get(id); !ok {
        http.NotFound(w, r)
        return
    }
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("X-Accel-Buffering", "no")
    // In tests or non-EventSource requests, just acknowledge headers and return
    if r.Header.Get("Accept") != "text/event-stream" {
        w.WriteHeader(http.StatusOK)
        return
    }
    flusher, ok := w.(http.Flusher)
    if !ok {
        w.WriteHeader(http.StatusOK)
        return
    }
    spectator := true
    if c, err := r.Cookie(playerCookie); err == nil {
        if gs, ok := h.svc.Get(id); ok && gs.Owner == c.Value {
            spectator = false
        }
    }
    ctx := r.Context()
    ch, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        w.WriteHeader(http.StatusOK)
        return
    }
    defer unsub()
    ticker := time.NewTicker(heartbeatInterval)
    defer ticker.Stop()
    // Initial flush of headers
    flusher.Flush()
    for {
        select {
        case <-ctx.Done():
            return
        case <-ticker.C:
            _, _ = io.WriteString(w, ": ping\n\n")
            flusher.Flush()
        case gs, ok := <-ch:
            if !ok {
                return
            }
            writeEvent(w, "board", h.renderBoard(gs, spectator, ""))
            flusher.Flush()
        }
    }
}

// writeEvent emits one SSE event; every payload line gets its own data field.
func writeEvent(w io.Writer, name string, payload []byte) {
    _, _ = fmt.Fprintf(w, "event: %s\n", name)
    for _, line := range bytes.Split(bytes.TrimSpace(payload), []byte("\n")) {
        _, _ = fmt.Fprintf(w, "data: %s\n", line)
    }
    _, _ = io.WriteString(w, "\n")
}
