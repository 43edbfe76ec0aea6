package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"carescore/internal/bootstrap"
	"carescore/internal/bootstrap/logging"
	"carescore/internal/errs"
	ratinguc "carescore/internal/usecase/rating"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import facility data from a JSON export",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *ratinguc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		file, _ := cmd.Flags().GetString("file")
		if file == "" {
			return errors.New("--file is required")
		}

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		summary, err := svc.ImportData(ctx, file)
		if err != nil {
			logging.Error(ctx, "import failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "import data")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "imported %d/%d facilities (%d skipped)\n",
			summary.Imported, summary.Total, summary.Skipped); err != nil {
			return errs.Wrap(err, "write import output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().String("file", "", "Path to JSON export file")
}
