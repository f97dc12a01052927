package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Chat/internal/api"
	"github.com/dkeye/Chat/internal/config"
	"github.com/dkeye/Chat/internal/core"
	"github.com/dkeye/Chat/internal/identity"
	"github.com/dkeye/Chat/internal/realtime"
	"github.com/dkeye/Chat/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	// The terminal belongs to the TUI; logs go to a file.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logFile, err := os.OpenFile(cfg.Client.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err == nil {
		defer logFile.Close()
		log.Logger = log.Output(logFile)
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	client := api.New(cfg.Client.BackendURL, cfg.Client.RequestTimeout)
	controller := core.NewSessionController(client, realtime.NewDialer(), cfg.Client.RealtimeURL)

	defaultIdentity := identity.DefaultIdentity(identity.EnvProvider{}, cfg.Client.DefaultIdentity)

	app := ui.NewApp(cfg.Client, client, controller, defaultIdentity)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
