package ui

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *App) repeatCmd() *cobra.Command {
	var weeks int

	cmd := &cobra.Command{
		Use:   "repeat [training-id]",
		Short: "Copy a training onto the same weekday for the next weeks",
		Long: `Copy a training to the same weekday and time for each of the next N weeks.

Weeks where the court is closed or the slot is already booked are
skipped; a week that fails to save does not stop the others. Interrupting
the command stops it before the next week starts.

Example:
  courtsched repeat 3f2a... --weeks 10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if weeks < 1 {
				return fmt.Errorf("--weeks must be at least 1, got %d", weeks)
			}
			if limit := a.config.Schedule.MaxWeeks; weeks > limit {
				return fmt.Errorf("--weeks must be at most %d (schedule.max_weeks), got %d", limit, weeks)
			}

			ctx := cmd.Context()
			source, err := a.store.GetTraining(ctx, args[0])
			if err != nil {
				return fmt.Errorf("training %q: %w", args[0], err)
			}
			court, err := a.courts.GetCourt(ctx, source.CourtID)
			if err != nil {
				return fmt.Errorf("court %q: %w", source.CourtID, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Repeating %s\n", describe(source))

			rep := a.sched.Duplicate(ctx, court, source, weeks)
			PrintReport(out, rep)
			if rep.Cancelled {
				return ctx.Err()
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&weeks, "weeks", "w", 4, "Number of weeks ahead to fill")
	return cmd
}
