package cmd

import (
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"carescore/internal/bootstrap"
	"carescore/internal/bootstrap/logging"
	"carescore/internal/errs"
	ratinguc "carescore/internal/usecase/rating"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compare standard and balanced rating distributions",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *ratinguc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		city, _ := cmd.Flags().GetString("city")
		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")
		noJitter, _ := cmd.Flags().GetBool("no-jitter")

		summary, err := svc.CalibrationReport(ctx, ratinguc.ReportInput{
			City:          city,
			Status:        status,
			Limit:         limit,
			DisableJitter: noJitter,
		})
		if err != nil {
			logging.Error(ctx, "calibration report failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "calibration report")
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintf(w, "run_id\t%s\n", summary.RunID); err != nil {
			return errs.Wrap(err, "write report output")
		}
		if _, err := fmt.Fprintf(w, "facilities\t%d\n", summary.Total); err != nil {
			return errs.Wrap(err, "write report output")
		}
		if _, err := fmt.Fprintf(w, "mean_standard\t%.2f\n", summary.MeanBefore); err != nil {
			return errs.Wrap(err, "write report output")
		}
		if _, err := fmt.Fprintf(w, "mean_balanced\t%.2f\n", summary.MeanAfter); err != nil {
			return errs.Wrap(err, "write report output")
		}
		if _, err := fmt.Fprintf(w, "upgraded\t%d\n", summary.Upgraded); err != nil {
			return errs.Wrap(err, "write report output")
		}
		if _, err := fmt.Fprintf(w, "downgraded\t%d\n", summary.Downgraded); err != nil {
			return errs.Wrap(err, "write report output")
		}
		if _, err := fmt.Fprintf(w, "unchanged\t%d\n", summary.Unchanged); err != nil {
			return errs.Wrap(err, "write report output")
		}

		if _, err := fmt.Fprintln(w, ""); err != nil {
			return errs.Wrap(err, "write report separator")
		}
		if _, err := fmt.Fprintln(w, "stars\tstandard\tbalanced"); err != nil {
			return errs.Wrap(err, "write report histogram header")
		}
		for tier := 0.5; tier <= 5.0; tier += 0.5 {
			before := summary.Before[tier]
			after := summary.After[tier]
			line := fmt.Sprintf("%.1f\t%d %s\t%d %s\n", tier, before, bar(before), after, bar(after))
			if _, err := fmt.Fprint(w, line); err != nil {
				return errs.Wrap(err, "write report histogram")
			}
		}
		if err := w.Flush(); err != nil {
			return errs.Wrap(err, "flush report output")
		}
		return nil
	}),
}

// bar renders a coarse histogram bar, one mark per facility up to a cap.
func bar(count int) string {
	const maxMarks = 40
	if count > maxMarks {
		count = maxMarks
	}
	return strings.Repeat("#", count)
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().String("city", "", "Only facilities in this city")
	reportCmd.Flags().String("status", "", "Only facilities with this status")
	reportCmd.Flags().Int("limit", 0, "Cap the facility count (0 = all)")
	reportCmd.Flags().Bool("no-jitter", false, "Disable balanced-mode jitter")
}
