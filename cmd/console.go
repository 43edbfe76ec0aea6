package cmd

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"carescore/internal/bootstrap"
	"carescore/internal/bootstrap/logging"
	"carescore/internal/errs"
	ratinguc "carescore/internal/usecase/rating"
	"carescore/internal/usecase/ratingconsole"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive facility rating console",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *ratinguc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		mode, _ := cmd.Flags().GetString("mode")
		city, _ := cmd.Flags().GetString("city")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")
		refreshInterval, _ := cmd.Flags().GetDuration("refresh-interval")
		if refreshInterval <= 0 {
			refreshInterval = 15 * time.Second
		}

		model := ratingconsole.NewConsoleModel(ctx, svc, ratingconsole.ConsoleOptions{
			Mode:            mode,
			City:            city,
			Status:          status,
			Limit:           limit,
			RefreshInterval: refreshInterval,
		})

		program := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run rating console")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(consoleCmd)
	consoleCmd.Flags().String("mode", "", "Rating mode (standard|balanced), default from config")
	consoleCmd.Flags().String("city", "", "Only facilities in this city")
	consoleCmd.Flags().String("status", "", "Only facilities with this status")
	consoleCmd.Flags().Int("limit", 50, "Facility list size")
	consoleCmd.Flags().Duration("refresh-interval", 15*time.Second, "Auto refresh interval")
}
