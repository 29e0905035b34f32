// Package main runs the interactive terminal chess game.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"minichess/internal/cli"
	"minichess/internal/config"
	"minichess/internal/core"
	"minichess/internal/processor"
	"minichess/internal/service"
	"minichess/internal/storage"
	"minichess/internal/transport"
	clitransport "minichess/internal/transport/cli"
)

// minColorWidth is the narrowest terminal that still fits a themed board
const minColorWidth = 24

func main() {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	svc := service.New()
	defer svc.Close()

	svc.AddListener(service.ResultListenerFunc(func(r core.GameResult) {
		if cfg.Verbose {
			log.Printf("Game %s ended: %s after %d moves", r.GameID, r.Outcome, r.Moves)
		}
	}))

	var archive transport.Archive
	if cfg.ResultsDB != "" {
		store, err := storage.NewStore(cfg.ResultsDB)
		if err != nil {
			log.Fatalf("Failed to open results database: %v", err)
		}
		defer store.Close()
		svc.AddListener(store)
		archive = store
	}

	proc := processor.New(svc, processor.Options{Workers: cfg.Workers, Seed: cfg.Seed})
	defer proc.Close()

	input, err := newLineReader(cfg.HistoryFile)
	if err != nil {
		log.Fatalf("Failed to initialize input: %v", err)
	}
	defer input.Close()

	view := cli.New(input, os.Stdout)
	view.SetUnicode(cfg.Unicode)
	view.SetVerbose(cfg.Verbose)
	if err := view.SetTheme(themeFor(cfg.Theme)); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	handler := clitransport.New(proc, view, cfg.Settings(), archive)

	view.ShowWelcome()
	if cfg.FEN != "" || cfg.Mode != string(core.ModePvP) {
		handler.Start(ctx, cfg.FEN)
	}

	if err := handler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Input error: %v\n", err)
	}
}

// newLineReader uses readline on a terminal and plain lines otherwise
func newLineReader(historyFile string) (cli.LineReader, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return cli.NewReadlineReader(historyFile)
	}
	return cli.NewScannerReader(os.Stdin, os.Stdout), nil
}

// themeFor drops board colors when stdout is not a terminal or too narrow
func themeFor(theme string) cli.ColorTheme {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return cli.ThemeOff
	}
	if width, _, err := term.GetSize(fd); err == nil && width < minColorWidth {
		return cli.ThemeOff
	}
	return cli.ColorTheme(theme)
}
