package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"smsclassifier/internal/history"
	"smsclassifier/internal/logger"
	"smsclassifier/internal/tui"
)

func tuiCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive classifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(*configPath)
		},
	}
}

func runTUI(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	// stdout belongs to the terminal UI.
	log, closer, err := logger.NewFile(cfg.Log)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()
	defer func() { _ = log.Sync() }()

	var m tui.Model
	classifier, paths, err := openClassifier(cfg, log)
	if err != nil {
		log.Error("Artifacts unavailable, starting in failure mode", zap.Error(err))
		m = tui.NewLoadFailure(err, paths)
	} else {
		m = tui.New(classifier, history.New(cfg.History.Size), cfg.UI.Examples)
	}

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
