package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtsched/internal/config"
	"github.com/javiermolinar/courtsched/internal/dateutil"
	"github.com/javiermolinar/courtsched/internal/slotgrid"
	"github.com/javiermolinar/courtsched/internal/training"
)

// rangeStore is implemented by stores that can load several days at once.
type rangeStore interface {
	TrainingsForCourtBetween(ctx context.Context, courtID string, from, to time.Time) ([]*training.Training, error)
}

// trainingsForDays loads a court's trainings for the given days.
func (a *App) trainingsForDays(ctx context.Context, courtID string, days []time.Time) ([]*training.Training, error) {
	if len(days) == 0 {
		return nil, nil
	}
	if rs, ok := a.store.(rangeStore); ok {
		return rs.TrainingsForCourtBetween(ctx, courtID, days[0], days[len(days)-1])
	}
	var all []*training.Training
	for _, d := range days {
		ts, err := a.store.TrainingsForCourtAndDate(ctx, courtID, d)
		if err != nil {
			return nil, err
		}
		all = append(all, ts...)
	}
	return all, nil
}

func (a *App) gridCmd() *cobra.Command {
	var (
		courtID string
		date    string
		day     bool
		slot    int
	)

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Draw a court's week as a slot grid",
		Long: `Draw the week containing --date (Monday to Sunday) as a grid of time slots.

Rows span the court's widest opening hours that week, widened to fit
any training booked outside them. Use --day for a single day.

Example:
  courtsched grid --court center --date 2025-03-10 --slot 15`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			anchor, err := resolveDate(date)
			if err != nil {
				return err
			}
			days := dateutil.WeekDays(anchor)
			if day {
				days = []time.Time{anchor}
			}
			if !cmd.Flags().Changed("slot") {
				slot = a.config.Schedule.SlotMinutes
			} else if slot < config.MinSlotMinutes || slot > config.MaxSlotMinutes {
				return fmt.Errorf("--slot must be between %d and %d minutes, got %d",
					config.MinSlotMinutes, config.MaxSlotMinutes, slot)
			}

			court, err := a.courts.GetCourt(ctx, courtID)
			if err != nil {
				return fmt.Errorf("court %q: %w", courtID, err)
			}
			trainings, err := a.trainingsForDays(ctx, courtID, days)
			if err != nil {
				return fmt.Errorf("loading trainings: %w", err)
			}

			g := slotgrid.Build(court, trainings, days, slotgrid.Options{
				SlotWidth:     slot,
				DefaultWindow: a.config.DefaultWindow(),
				Logger:        a.logger,
			})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %s  %s\n", formatHeader(court.Name),
				gridTitle(days), formatMuted(fmt.Sprintf("%d min slots", g.SlotWidth())))
			fmt.Fprint(out, RenderGrid(g, GridView{Width: termWidth(), Profile: colorProfile()}))
			return nil
		},
	}
	cmd.Flags().StringVarP(&courtID, "court", "c", "", "Court ID (required)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Any date in the week to show (default today)")
	cmd.Flags().BoolVar(&day, "day", false, "Show only --date instead of the whole week")
	cmd.Flags().IntVar(&slot, "slot", 0, "Slot width in minutes (default from config)")
	_ = cmd.MarkFlagRequired("court")
	return cmd
}

func gridTitle(days []time.Time) string {
	first := days[0].Format("2006-01-02")
	if len(days) == 1 {
		return first
	}
	return first + " to " + days[len(days)-1].Format("2006-01-02")
}

func (a *App) listCmd() *cobra.Command {
	var courtID, date string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a court's trainings",
		Long: `List the trainings booked on a court, for one day or all of them.

Example:
  courtsched list --court center --date tomorrow`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var (
				trainings []*training.Training
				err       error
			)
			if date != "" {
				day, perr := resolveDate(date)
				if perr != nil {
					return perr
				}
				trainings, err = a.store.TrainingsForCourtAndDate(ctx, courtID, day)
			} else {
				trainings, err = a.store.TrainingsForCourt(ctx, courtID)
			}
			if err != nil {
				return fmt.Errorf("loading trainings: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(trainings) == 0 {
				fmt.Fprintln(out, "No trainings.")
				return nil
			}
			for _, t := range trainings {
				team := t.TeamName
				if team == "" {
					team = t.TeamID
				}
				fmt.Fprintf(out, "%s  %s  %s  %s\n", formatMuted("#"+t.ID),
					t.Date.Format("2006-01-02 Mon"), t.Interval(), team)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&courtID, "court", "c", "", "Court ID (required)")
	cmd.Flags().StringVarP(&date, "date", "d", "", "Only list this day")
	_ = cmd.MarkFlagRequired("court")
	return cmd
}
