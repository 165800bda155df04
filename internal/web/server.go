package web

import (
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/chi/v5/middleware"
    "go.uber.org/zap"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

// NewServer wires routes and returns an http.Handler. New games default to
// the given difficulty.
func NewServer(s *app.Service, log *zap.Logger, d engine.Difficulty) http.Handler {
    if log == nil {
        log = zap.NewNop()
    }
    r := chi.NewRouter()
    r.Use(middleware.RequestID)
    r.Use(middleware.RealIP)
    r.Use(requestLogger(log))
    r.Use(middleware.Recoverer)

    h := &handlers{svc: s, tpl: loadTemplates(), log: log, difficulty: d}
    r.Get("/", h.index)
    r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
        _, _ = w.Write([]byte("ok"))
    })
    r.Post("/game", h.create)
    r.Route("/game/{id}", func(r chi.Router) {
        r.Get("/", h.view)
        r.Post("/join", h.join)
        r.Post("/play", h.play)
        r.Post("/restart", h.restart)
        r.Post("/difficulty", h.setDifficulty)
        r.Get("/events", h.events)
        r.Get("/ws", h.socket)
    })
    return r
}

// requestLogger logs method, path, status, bytes and duration of each request.
func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            start := time.Now()
            ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
            next.ServeHTTP(ww, r)
            log.Info("http",
                zap.String("method", r.Method),
                zap.String("path", r.URL.Path),
                zap.Int("status", ww.Status()),
                zap.Int("bytes", ww.BytesWritten()),
                zap.Duration("dur", time.Since(start)),
                zap.String("request_id", middleware.GetReqID(r.Context())),
            )
        })
    }
}
