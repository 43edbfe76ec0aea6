package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"carescore/internal/bootstrap"
	"carescore/internal/bootstrap/logging"
	"carescore/internal/errs"
	ratinguc "carescore/internal/usecase/rating"
)

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Rate a single facility",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *ratinguc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		facilityID, _ := cmd.Flags().GetString("facility")
		if facilityID == "" {
			return errors.New("--facility is required")
		}
		mode, _ := cmd.Flags().GetString("mode")
		persist, _ := cmd.Flags().GetBool("save")
		noJitter, _ := cmd.Flags().GetBool("no-jitter")

		result, err := svc.RateFacility(ctx, ratinguc.RateFacilityInput{
			FacilityID:    facilityID,
			Mode:          mode,
			DisableJitter: noJitter,
			Persist:       persist,
		})
		if err != nil {
			logging.Error(ctx, "rate facility failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "rate facility")
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintf(w, "facility\t%s\n", result.FacilityID); err != nil {
			return errs.Wrap(err, "write rate output")
		}
		if _, err := fmt.Fprintf(w, "mode\t%s\n", result.Mode); err != nil {
			return errs.Wrap(err, "write rate output")
		}
		if _, err := fmt.Fprintf(w, "overall\t%.1f\n", result.OverallRating); err != nil {
			return errs.Wrap(err, "write rate output")
		}
		if _, err := fmt.Fprintf(w, "violations\t%d (%d high risk, %d recent)\n",
			result.ViolationCount, result.HighRiskViolationCount, result.RecentViolationsCount); err != nil {
			return errs.Wrap(err, "write rate output")
		}
		if _, err := fmt.Fprintf(w, "safety_compliance\t%.1f\n", result.SafetyComplianceScore); err != nil {
			return errs.Wrap(err, "write rate output")
		}
		if _, err := fmt.Fprintf(w, "operational_quality\t%.1f\n", result.OperationalQualityScore); err != nil {
			return errs.Wrap(err, "write rate output")
		}
		if _, err := fmt.Fprintf(w, "educational_programming\t%.1f\n", result.EducationalProgrammingScore); err != nil {
			return errs.Wrap(err, "write rate output")
		}
		if _, err := fmt.Fprintf(w, "staff_qualifications\t%.1f\n", result.StaffQualificationsScore); err != nil {
			return errs.Wrap(err, "write rate output")
		}
		if err := w.Flush(); err != nil {
			return errs.Wrap(err, "flush rate output")
		}

		out := cmd.OutOrStdout()
		if len(result.RatingFactors) > 0 {
			if _, err := fmt.Fprintln(out, "\nfactors:"); err != nil {
				return errs.Wrap(err, "write rate factors")
			}
			for _, factor := range result.RatingFactors {
				if _, err := fmt.Fprintf(out, "- %s\n", factor); err != nil {
					return errs.Wrap(err, "write rate factors")
				}
			}
		}
		if len(result.QualityIndicators) > 0 {
			if _, err := fmt.Fprintln(out, "\nstrengths:"); err != nil {
				return errs.Wrap(err, "write rate strengths")
			}
			for _, indicator := range result.QualityIndicators {
				if _, err := fmt.Fprintf(out, "- %s\n", indicator); err != nil {
					return errs.Wrap(err, "write rate strengths")
				}
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(rateCmd)
	rateCmd.Flags().String("facility", "", "Facility ID to rate")
	rateCmd.Flags().String("mode", "", "Rating mode (standard|balanced), default from config")
	rateCmd.Flags().Bool("save", false, "Persist and cache the result")
	rateCmd.Flags().Bool("no-jitter", false, "Disable balanced-mode jitter")
}
