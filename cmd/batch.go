package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"carescore/internal/bootstrap"
	"carescore/internal/bootstrap/logging"
	"carescore/internal/errs"
	ratinguc "carescore/internal/usecase/rating"
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Rate every facility and store the results",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *ratinguc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		mode, _ := cmd.Flags().GetString("mode")
		city, _ := cmd.Flags().GetString("city")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")
		workers, _ := cmd.Flags().GetInt("workers")
		noJitter, _ := cmd.Flags().GetBool("no-jitter")

		if err := app.InitSchema(ctx); err != nil {
			return errs.Wrap(err, "initialize schema")
		}

		summary, err := svc.RateAll(ctx, ratinguc.BatchInput{
			Mode:          mode,
			City:          city,
			Status:        status,
			Limit:         limit,
			Workers:       workers,
			DisableJitter: noJitter,
		})
		if err != nil {
			logging.Error(ctx, "batch rating failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "batch rating")
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintf(w, "run_id\t%s\n", summary.RunID); err != nil {
			return errs.Wrap(err, "write batch output")
		}
		if _, err := fmt.Fprintf(w, "mode\t%s\n", summary.Mode); err != nil {
			return errs.Wrap(err, "write batch output")
		}
		if _, err := fmt.Fprintf(w, "total\t%d\n", summary.Total); err != nil {
			return errs.Wrap(err, "write batch output")
		}
		if _, err := fmt.Fprintf(w, "rated\t%d\n", summary.Rated); err != nil {
			return errs.Wrap(err, "write batch output")
		}
		if _, err := fmt.Fprintf(w, "failed\t%d\n", summary.Failed); err != nil {
			return errs.Wrap(err, "write batch output")
		}
		if _, err := fmt.Fprintf(w, "elapsed\t%s\n", summary.Elapsed); err != nil {
			return errs.Wrap(err, "write batch output")
		}
		if err := w.Flush(); err != nil {
			return errs.Wrap(err, "flush batch output")
		}

		for _, failure := range summary.Failures {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "failed: %s: %v\n", failure.FacilityID, failure.Err); err != nil {
				return errs.Wrap(err, "write batch failures")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().String("mode", "", "Rating mode (standard|balanced), default from config")
	batchCmd.Flags().String("city", "", "Only facilities in this city")
	batchCmd.Flags().String("status", "", "Only facilities with this status")
	batchCmd.Flags().Int("limit", 0, "Cap the facility count (0 = all)")
	batchCmd.Flags().Int("workers", 4, "Worker pool size")
	batchCmd.Flags().Bool("no-jitter", false, "Disable balanced-mode jitter")
}
