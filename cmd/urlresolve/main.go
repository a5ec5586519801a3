package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"urlresolver/internal/adapters/sqlite"
	"urlresolver/internal/adapters/tui"
	"urlresolver/internal/application"
	"urlresolver/internal/config"
	"urlresolver/internal/logging"
)

func main() {
	configDir := flag.String("config", "", "config directory (default $URLRESOLVER_CONFIG_DIR or XDG config dir)")
	logFile := flag.String("log", "", "write logs to this file (the screen belongs to the UI)")
	flag.Parse()

	if err := run(*configDir, *logFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configDir, logFile string) error {
	cfg, err := config.Load(configDir)
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger, err := logging.New(logOut, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}

	store := sqlite.NewStore()
	if err := store.Open(cfg.CatalogDB); err != nil {
		return err
	}
	defer store.Close()

	opts := cfg.ServiceOptions()
	opts.Logger = logger
	svc, err := application.LoadService(context.Background(), store, opts)
	if err != nil {
		return err
	}

	app := tui.NewApp(svc, store)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
