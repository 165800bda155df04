package web

import (
    "context"
    "errors"
    "net/http"
    "reflect"

    "github.com/go-chi/chi/v5"
    "github.com/google/uuid"
    "github.com/gorilla/websocket"
    "github.com/mitchellh/mapstructure"
    "go.uber.org/zap"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

var upgrader = websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}

// Message is the envelope exchanged over the socket.
type Message struct {
    Type     string      `json:"type"`
    Contents interface{} `json:"contents,omitempty"`
}

// toMessage names the message after the contents type.
func toMessage(contents interface{}) Message {
    return Message{Type: reflect.TypeOf(contents).Name(), Contents: contents}
}

// Client requests.
type MakeMoveRequest struct {
    Cell int `mapstructure:"cell"`
}

type SetDifficultyRequest struct {
    Difficulty string `mapstructure:"difficulty"`
}

// Server messages.
type GameStateBroadcast struct {
    ID         string    `json:"id"`
    Board      [9]string `json:"board"`
    Turn       string    `json:"turn"`
    Status     string    `json:"status"`
    Message    string    `json:"message"`
    Difficulty string    `json:"difficulty"`
    Thinking   bool      `json:"thinking"`
    Moves      int       `json:"moves"`
    Spectator  bool      `json:"spectator"`
}

type ErrorResponse struct {
    Reason string `json:"reason"`
}

func newGameStateBroadcast(gs app.Session, spectator bool) GameStateBroadcast {
    out := GameStateBroadcast{
        ID:         gs.ID,
        Turn:       gs.Game.Turn.String(),
        Status:     gs.Game.Status().String(),
        Message:    gs.Game.Message(),
        Difficulty: gs.Difficulty.String(),
        Thinking:   gs.Thinking,
        Moves:      gs.Game.Moves,
        Spectator:  spectator,
    }
    for i, c := range gs.Game.Board {
        out.Board[i] = c.String()
    }
    return out
}

func (h *handlers) socket(w http.ResponseWriter, r *http.Request) {
    id := chi.URLParam(r, "id")
    var header http.Header
    var pid string
    if c, err := r.Cookie(playerCookie); err == nil && c.Value != "" {
        pid = c.Value
    } else {
        pid = uuid.NewString()
        header = http.Header{}
        header.Add("Set-Cookie", (&http.Cookie{Name: playerCookie, Value: pid, Path: "/", HttpOnly: true}).String())
    }
    owner, gs, err := h.svc.Join(id, pid)
    if err != nil {
        http.NotFound(w, r)
        return
    }

    conn, err := upgrader.Upgrade(w, r, header)
    if err != nil {
        h.log.Warn("websocket upgrade failed", zap.String("game", id), zap.Error(err))
        return
    }
    defer conn.Close()

    ctx, cancel := context.WithCancel(r.Context())
    defer cancel()
    updates, unsub, err := h.svc.Subscribe(ctx, id)
    if err != nil {
        return
    }
    defer unsub()

    out := make(chan Message, 8)
    done := make(chan struct{})
    go func() {
        defer close(done)
        h.socketWriter(ctx, conn, *gs, !owner, updates, out)
    }()
    h.socketReader(conn, id, pid, out)
    cancel()
    <-done
}

// socketWriter owns every write on conn.
func (h *handlers) socketWriter(ctx context.Context, conn *websocket.Conn, first app.Session, spectator bool, updates <-chan app.Session, out <-chan Message) {
    defer conn.Close()
    if err := conn.WriteJSON(toMessage(newGameStateBroadcast(first, spectator))); err != nil {
        return
    }
    for {
        var msg Message
        select {
        case <-ctx.Done():
            return
        case gs, ok := <-updates:
            if !ok {
                return
            }
            msg = toMessage(newGameStateBroadcast(gs, spectator))
        case msg = <-out:
        }
        if err := conn.WriteJSON(msg); err != nil {
            h.log.Debug("websocket write failed", zap.Error(err))
            return
        }
    }
}

func (h *handlers) socketReader(conn *websocket.Conn, id, pid string, out chan<- Message) {
    for {
        var msg Message
        if err := conn.ReadJSON(&msg); err != nil {
            if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
                h.log.Debug("websocket closed", zap.String("game", id), zap.Error(err))
            }
            return
        }
        if reason := h.handleSocketMessage(id, pid, msg); reason != "" {
            select {
            case out <- toMessage(ErrorResponse{Reason: reason}):
            default:
            }
        }
    }
}

// handleSocketMessage applies one client request and returns a reason when
// the client must be told about a failure. State changes reach the client
// through the subscription.
func (h *handlers) handleSocketMessage(id, pid string, msg Message) string {
    var err error
    switch msg.Type {
    case "MakeMoveRequest":
        var req MakeMoveRequest
        if msg.Contents == nil {
            return "MakeMoveRequest needs a cell"
        }
        if err := mapstructure.Decode(msg.Contents, &req); err != nil {
            return "Unable to parse MakeMoveRequest"
        }
        _, err = h.svc.Play(id, pid, req.Cell)
    case "RestartRequest":
        _, err = h.svc.Restart(id, pid)
    case "SetDifficultyRequest":
        var req SetDifficultyRequest
        if err := mapstructure.Decode(msg.Contents, &req); err != nil {
            return "Unable to parse SetDifficultyRequest"
        }
        d, perr := engine.ParseDifficulty(req.Difficulty)
        if perr != nil {
            return "Unknown difficulty"
        }
        _, err = h.svc.SetDifficulty(id, pid, d)
    default:
        return msg.Type + " is an invalid message type"
    }

    switch {
    case err == nil, app.IsIgnorable(err):
        return ""
    case errors.Is(err, app.ErrNotAPlayer):
        return "You are a spectator"
    case errors.Is(err, app.ErrNotFound):
        return "Game not found"
    default:
        h.log.Error("websocket action failed", zap.String("game", id), zap.String("type", msg.Type), zap.Error(err))
        return "Internal error"
    }
}
