package main

import (
	"fmt"
	"os"

	"github.com/benbjohnson/clock"
	tea "github.com/charmbracelet/bubbletea"

	"arbdash/internal/api"
	"arbdash/internal/config"
	"arbdash/internal/logger"
	"arbdash/internal/ui"
	"arbdash/internal/ws"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.File, cfg.Logging.Level)
	log.WithField("ws_url", cfg.Server.WsURL).Info("starting arbdash")

	manager := ws.NewManager(ws.Config{
		URL:               cfg.Server.WsURL,
		HeartbeatInterval: cfg.Connection.HeartbeatInterval,
		InitialDelay:      cfg.Connection.InitialDelay,
		MaxDelay:          cfg.Connection.MaxDelay,
		MaxRetries:        cfg.Connection.MaxRetries,
	}, clock.New(), log.WithField("component", "ws"))
	defer manager.Close()

	manager.Connect()

	client := api.NewClient(cfg.Server.APIBase)

	program := tea.NewProgram(
		ui.New(log, manager, client),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		log.WithError(err).Error("program exited with error")
		fmt.Fprintf(os.Stderr, "arbdash: %v\n", err)
		os.Exit(1)
	}

	log.Info("arbdash stopped")
}
