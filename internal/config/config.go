// Package config binds command line flags for the terminal game.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"

	"minichess/internal/board"
	"minichess/internal/core"
)

// Config holds the settings of one terminal session
type Config struct {
	Mode        string `validate:"required,oneof=pvp pvai aivai"`
	Difficulty  string `validate:"required,oneof=easy medium hard"`
	TimeControl string `validate:"required,oneof=blitz rapid classical"`
	Strict      bool
	Seed        int64
	Workers     int    `validate:"min=1,max=16"`
	Theme       string `validate:"required,oneof=off brown green gray"`
	Unicode     bool
	HistoryFile string
	ResultsDB   string
	FEN         string `validate:"omitempty,max=100"`
	Verbose     bool
}

// Default returns the configuration used when no flags are given
func Default() Config {
	def := core.DefaultSettings()
	return Config{
		Mode:        string(def.Mode),
		Difficulty:  string(def.Difficulty),
		TimeControl: string(def.TimeControl),
		Workers:     2,
		Theme:       "off",
		HistoryFile: ".chess_history",
	}
}

// Load parses args (without the program name) into a validated Config.
// flag.ErrHelp is returned unchanged when -h is requested.
func Load(args []string, output io.Writer) (*Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("chess", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&cfg.Mode, "mode", cfg.Mode, "Game mode: pvp, pvai or aivai")
	fs.StringVar(&cfg.Difficulty, "difficulty", cfg.Difficulty, "Computer strength: easy, medium or hard")
	fs.StringVar(&cfg.TimeControl, "time-control", cfg.TimeControl, "Clock budget: blitz, rapid or classical")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "Reject moves that leave the mover's king attacked")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Engine random seed, 0 for time-based")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Engine worker goroutines (1-16)")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "Board colors: off, brown, green or gray")
	fs.BoolVar(&cfg.Unicode, "unicode", cfg.Unicode, "Draw pieces with unicode glyphs")
	fs.StringVar(&cfg.HistoryFile, "history-file", cfg.HistoryFile, "Readline history file, empty to disable")
	fs.StringVar(&cfg.ResultsDB, "results-db", cfg.ResultsDB, "SQLite file archiving finished games, empty to disable")
	fs.StringVar(&cfg.FEN, "fen", cfg.FEN, "Start the first game from this position")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Show search statistics for computer moves")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg.Mode = strings.ToLower(cfg.Mode)
	cfg.Difficulty = strings.ToLower(cfg.Difficulty)
	cfg.TimeControl = strings.ToLower(cfg.TimeControl)
	cfg.Theme = strings.ToLower(cfg.Theme)
	cfg.FEN = strings.TrimSpace(cfg.FEN)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints and that the start position parses
func (c *Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.FEN != "" {
		if _, _, err := board.ParseFEN(c.FEN); err != nil {
			return err
		}
	}
	return nil
}

// Settings converts the session flags into per-game settings
func (c *Config) Settings() core.GameSettings {
	return core.GameSettings{
		Mode:        core.Mode(c.Mode),
		Difficulty:  core.Difficulty(c.Difficulty),
		TimeControl: core.TimeControl(c.TimeControl),
		Strict:      c.Strict,
	}
}
