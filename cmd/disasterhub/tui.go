package main

import (
	"io"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/mr1hm/go-disaster-hub/internal/logging"
	"github.com/mr1hm/go-disaster-hub/internal/navigation"
	"github.com/mr1hm/go-disaster-hub/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse the portal in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog()
		if err != nil {
			return err
		}

		// Log output would tear the alternate screen.
		slog.SetDefault(logging.New(io.Discard, cfg.Logging.Level, cfg.Logging.Format))

		state := navigation.NewState()
		p := tea.NewProgram(tui.New(cat, state), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		_, err = p.Run()
		return err
	},
}
