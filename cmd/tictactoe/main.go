package main

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "go.uber.org/zap"

    "github.com/jaminalder/tictactoe-ai/internal/app"
    "github.com/jaminalder/tictactoe-ai/internal/config"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
    "github.com/jaminalder/tictactoe-ai/internal/web"
)

var (
    configPath = flag.String("config", os.Getenv("TICTACTOE_CONFIG"), "Path to a YAML config file")
    addr       = flag.String("addr", "", "Listen address, overrides the config")
)

func main() {
    flag.Parse()
    if err := run(); err != nil {
        fmt.Fprintln(os.Stderr, err)
        os.Exit(1)
    }
}

func run() error {
    cfg, err := config.Load(*configPath)
    if err != nil {
        return err
    }
    if *addr != "" {
        cfg.Addr = *addr
    }
    log, err := cfg.NewLogger()
    if err != nil {
        return err
    }
    defer log.Sync()

    var eng *engine.Engine
    if cfg.Seed != 0 {
        eng = engine.NewSeeded(cfg.Seed)
    } else {
        eng = engine.New(nil)
    }
    svc := app.NewService(eng, log, cfg.AIDelay)

    srv := &http.Server{
        Addr:              cfg.Addr,
        Handler:           web.NewServer(svc, log, cfg.DefaultDifficulty()),
        ReadHeaderTimeout: 5 * time.Second,
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()
    go func() {
        <-ctx.Done()
        shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()
        _ = srv.Shutdown(shutdownCtx)
    }()

    log.Info("listening",
        zap.String("addr", cfg.Addr),
        zap.String("difficulty", cfg.Difficulty),
        zap.Duration("ai_delay", cfg.AIDelay),
    )
    if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
        log.Error("server error", zap.Error(err))
        return err
    }
    log.Info("server stopped")
    return nil
}
