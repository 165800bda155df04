package main

import (
    "flag"
    "fmt"
    "os"

    "github.com/gdamore/tcell/v2"
    "go.uber.org/zap"

    "github.com/jaminalder/tictactoe-ai/internal/config"
    "github.com/jaminalder/tictactoe-ai/internal/engine"
    "github.com/jaminalder/tictactoe-ai/internal/term"
)

var (
    configPath = flag.String("config", os.Getenv("TICTACTOE_CONFIG"), "Path to a YAML config file")
    difficulty = flag.String("difficulty", "", "easy|medium|hard, overrides the config")
    logPath    = flag.String("log", "", "Write logs to this file; discarded when empty")
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
    d := cfg.DefaultDifficulty()
    if *difficulty != "" {
        if d, err = engine.ParseDifficulty(*difficulty); err != nil {
            return err
        }
    }

    log := zap.NewNop()
    if *logPath != "" {
        lvl, err := cfg.Level()
        if err != nil {
            return err
        }
        zc := zap.NewProductionConfig()
        zc.Level = zap.NewAtomicLevelAt(lvl)
        zc.OutputPaths = []string{*logPath}
        zc.ErrorOutputPaths = []string{*logPath}
        if log, err = zc.Build(); err != nil {
            return err
        }
    }
    defer log.Sync()

    screen, err := tcell.NewScreen()
    if err != nil {
        return err
    }
    if err := screen.Init(); err != nil {
        return err
    }
    defer screen.Fini()

    eng := engine.New(nil)
    if cfg.Seed != 0 {
        eng = engine.NewSeeded(cfg.Seed)
    }
    ui := term.New(screen, eng, term.Options{Difficulty: d, Delay: cfg.AIDelay, Log: log})
    return ui.Run()
}
