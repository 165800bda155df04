// Package config loads runtime settings from an optional YAML file and the
// environment.
package config

import (
    "fmt"
    "os"
    "strings"
    "time"

    "github.com/mitchellh/mapstructure"
    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
    "gopkg.in/yaml.v2"

    "github.com/jaminalder/tictactoe-ai/internal/engine"
)

// EnvPrefix prefixes every environment override, e.g. TICTACTOE_ADDR.
const EnvPrefix = "TICTACTOE_"

type Config struct {
    Addr       string        `mapstructure:"addr"`
    LogLevel   string        `mapstructure:"log_level"`
    Difficulty string        `mapstructure:"difficulty"`
    AIDelay    time.Duration `mapstructure:"ai_delay"`
    // Seed for the easy and medium tiers; 0 seeds from the clock.
    Seed int64 `mapstructure:"seed"`
}

var keys = []string{"addr", "log_level", "difficulty", "ai_delay", "seed"}

func defaults() map[string]interface{} {
    return map[string]interface{}{
        "addr":       ":8080",
        "log_level":  "info",
        "difficulty": "hard",
        "ai_delay":   "500ms",
        "seed":       0,
    }
}

// Load merges defaults, the YAML file at path (skipped when empty) and
// TICTACTOE_* environment variables, in that order.
func Load(path string) (Config, error) {
    raw := defaults()

    if path != "" {
        data, err := os.ReadFile(path)
        if err != nil {
            return Config{}, fmt.Errorf("read config: %w", err)
        }
        fromFile := map[string]interface{}{}
        if err := yaml.Unmarshal(data, &fromFile); err != nil {
            return Config{}, fmt.Errorf("parse config %s: %w", path, err)
        }
        for k, v := range fromFile {
            raw[k] = v
        }
    }

    for _, k := range keys {
        if v, ok := os.LookupEnv(EnvPrefix + strings.ToUpper(k)); ok {
            raw[k] = v
        }
    }

    var cfg Config
    dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
        DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
        WeaklyTypedInput: true,
        ErrorUnused:      true,
        Result:           &cfg,
    })
    if err != nil {
        return Config{}, err
    }
    if err := dec.Decode(raw); err != nil {
        return Config{}, fmt.Errorf("decode config: %w", err)
    }
    if err := cfg.Validate(); err != nil {
        return Config{}, err
    }
    return cfg, nil
}

// Validate checks the values that are parsed later on.
func (c Config) Validate() error {
    if _, err := engine.ParseDifficulty(c.Difficulty); err != nil {
        return fmt.Errorf("config difficulty: %w", err)
    }
    if _, err := c.Level(); err != nil {
        return err
    }
    if c.AIDelay < 0 {
        return fmt.Errorf("config ai_delay must not be negative, got %s", c.AIDelay)
    }
    return nil
}

// DefaultDifficulty returns the parsed difficulty for new games.
func (c Config) DefaultDifficulty() engine.Difficulty {
    d, _ := engine.ParseDifficulty(c.Difficulty)
    return d
}

// Level parses LogLevel.
func (c Config) Level() (zapcore.Level, error) {
    var lvl zapcore.Level
    if err := lvl.UnmarshalText([]byte(strings.ToLower(c.LogLevel))); err != nil {
        return lvl, fmt.Errorf("config log_level: %w", err)
    }
    return lvl, nil
}

// NewLogger builds a production zap logger at the configured level.
func (c Config) NewLogger() (*zap.Logger, error) {
    lvl, err := c.Level()
    if err != nil {
        return nil, err
    }
    zc := zap.NewProductionConfig()
    zc.Level = zap.NewAtomicLevelAt(lvl)
    return zc.Build()
}
