package cmd

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"carescore/internal/bootstrap"
	"carescore/internal/bootstrap/logging"
	"carescore/internal/domain/rating"
	"carescore/internal/errs"
	ratinguc "carescore/internal/usecase/rating"
)

var standardsCmd = &cobra.Command{
	Use:   "standards",
	Short: "Show the active rating profile",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *ratinguc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		profile := svc.Profile()
		if path, _ := cmd.Flags().GetString("profile"); path != "" {
			loaded, err := rating.LoadProfile(path)
			if err != nil {
				logging.Error(ctx, "rating profile load failed", slog.Any("err", errs.Loggable(err)))
				return errs.Wrapf(err, "load rating profile %s", path)
			}
			profile = loaded
		}
		if err := profile.Validate(); err != nil {
			logging.Error(ctx, "rating profile invalid", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "validate rating profile")
		}

		standardsByCategory := map[rating.Category]int{}
		for _, info := range profile.Standards {
			standardsByCategory[info.Category]++
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		if _, err := fmt.Fprintf(w, "mode\t%s\n", svc.DefaultMode()); err != nil {
			return errs.Wrap(err, "write standards output")
		}
		if _, err := fmt.Fprintf(w, "standard_codes\t%d\n", len(profile.Standards)); err != nil {
			return errs.Wrap(err, "write standards output")
		}
		if _, err := fmt.Fprintf(w, "max_quality_boost\t%.2f\n", profile.MaxQualityBoost); err != nil {
			return errs.Wrap(err, "write standards output")
		}
		if _, err := fmt.Fprintf(w, "balanced_max_boost\t%.2f\n", profile.Balanced.MaxBoost); err != nil {
			return errs.Wrap(err, "write standards output")
		}
		if _, err := fmt.Fprintf(w, "balanced_jitter\t%.2f\n", profile.Balanced.Jitter); err != nil {
			return errs.Wrap(err, "write standards output")
		}

		if _, err := fmt.Fprintln(w, ""); err != nil {
			return errs.Wrap(err, "write standards separator")
		}
		if _, err := fmt.Fprintln(w, "category\tcodes\thigh_base\thigh_cap"); err != nil {
			return errs.Wrap(err, "write standards category header")
		}
		for _, category := range rating.Categories {
			rule := profile.Deductions[category][rating.SeverityHigh]
			if _, err := fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\n",
				category, standardsByCategory[category], rule.Base, rule.Cap); err != nil {
				return errs.Wrap(err, "write standards category row")
			}
		}
		if err := w.Flush(); err != nil {
			return errs.Wrap(err, "flush standards output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(standardsCmd)
	standardsCmd.Flags().String("profile", "", "Validate and summarize this TOML profile instead of the active one")
}
