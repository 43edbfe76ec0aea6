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

var ratingsCmd = &cobra.Command{
	Use:   "ratings",
	Short: "List persisted rating results",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *ratinguc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		mode, _ := cmd.Flags().GetString("mode")
		limit, _ := cmd.Flags().GetInt("limit")

		results, err := svc.ListRatings(ctx, mode, limit)
		if err != nil {
			logging.Error(ctx, "list ratings failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "list ratings")
		}
		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no persisted ratings")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintln(w, "facility\tmode\tstars\tviolations\thigh_risk\trecent"); err != nil {
			return errs.Wrap(err, "write ratings header")
		}
		for _, result := range results {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%.1f\t%d\t%d\t%d\n",
				result.FacilityID, result.Mode, result.OverallRating,
				result.ViolationCount, result.HighRiskViolationCount,
				result.RecentViolationsCount); err != nil {
				return errs.Wrap(err, "write ratings row")
			}
		}
		if err := w.Flush(); err != nil {
			return errs.Wrap(err, "flush ratings output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(ratingsCmd)
	ratingsCmd.Flags().String("mode", "", "Rating mode to list (defaults to the configured mode)")
	ratingsCmd.Flags().Int("limit", 0, "Cap the result count (0 = all)")
}
