package web

import (
    "bytes"
    "html/template"
    "net/http"

    "github.com/google/uuid"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/domain"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

type templates struct {
    base  *template.Template
    game  *template.Template
    board *template.Template
    index *template.Template
}

func funcs() template.FuncMap {
    return template.FuncMap{
        "iter":       func(n int) []int { a := make([]int, n); for i := range a { a[i] = i }; return a },
        "cellSymbol": func(c domain.Cell) string { return c.String() },
        "eq":         func(a, b any) bool { return a == b },
        "add":        func(a, b int) int { return a + b },
        "mul":        func(a, b int) int { return a * b },
    }
}

func loadTemplates() *templates {
    base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic-Tac-Toe vs AI</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
    // Define the board template within the same set so game can include it
    template.Must(base.New("board").Funcs(funcs()).Parse(boardTemplate))
    index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic-Tac-Toe vs AI</h1>
<form action="/game" method="post">
  <select name="difficulty">
    {{range .Difficulties}}<option value="{{.}}"{{if eq . $.Difficulty}} selected{{end}}>{{.}}</option>{{end}}
  </select>
  <button>New game</button>
</form>`))
    game := template.Must(template.Must(base.Clone()).New("content").Parse(`
{{if .Spectator}}<p class="spectator">You are watching this game.</p>{{end}}
<div hx-ext="sse" hx-sse="connect:/game/{{.ID}}/events">
  <div id="board-slot" hx-sse="swap:board">{{template "board" .}}</div>
</div>`))
    // Standalone board template used for fragment rendering
    board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
    return &templates{base: base, game: game, board: board, index: index}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
    var buf bytes.Buffer
    if name == "" {
        _ = t.Execute(&buf, data)
    } else {
        _ = t.ExecuteTemplate(&buf, name, data)
    }
    return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  <p class="status">{{.Message}}</p>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{/* 3x3 grid, cells numbered 0..8 */}}
  {{range $r := iter 3}}
  <div class="row">
    {{range $c := iter 3}}{{$i := add (mul $r 3) $c}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="cell" value="{{$i}}">
        <button type="submit"{{if $.Locked}} disabled{{end}}>{{cellSymbol (index $.Board $i)}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  {{if not .Spectator}}
  <form hx-post="/game/{{.ID}}/difficulty" hx-target="#board" hx-swap="outerHTML" hx-trigger="change" method="post">
    <select name="difficulty">
      {{range .Difficulties}}<option value="{{.}}"{{if eq . $.Difficulty}} selected{{end}}>{{.}}</option>{{end}}
    </select>
  </form>
  <form hx-post="/game/{{.ID}}/restart" hx-target="#board" hx-swap="outerHTML" method="post">
    <button type="submit">Restart</button>
  </form>
  {{end}}
</div>
`

// boardView is what the board and page templates render.
type boardView struct {
    ID           string
    Board        domain.Board
    Message      string
    Difficulty   string
    Difficulties []string
    Locked       bool
    Spectator    bool
    Error        string
}

func difficultyNames() []string {
    out := make([]string, 0, len(engine.Difficulties))
    for _, d := range engine.Difficulties {
        out = append(out, d.String())
    }
    return out
}

func newBoardView(gs app.Session, spectator bool, errMsg string) boardView {
    return boardView{
        ID:           gs.ID,
        Board:        gs.Game.Board,
        Message:      gs.Game.Message(),
        Difficulty:   gs.Difficulty.String(),
        Difficulties: difficultyNames(),
        Locked:       spectator || gs.Thinking || gs.Game.Over(),
        Spectator:    spectator,
        Error:        errMsg,
    }
}

const playerCookie = "player_id"

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
    if c, err := r.Cookie(playerCookie); err == nil && c.Value != "" {
        return c.Value
    }
    // Generate UUIDv4 for player ID
    v := uuid.NewString()
    http.SetCookie(w, &http.Cookie{Name: playerCookie, Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
    return v
}
