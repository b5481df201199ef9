package ui

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/courtsched/internal/availability"
	"github.com/javiermolinar/courtsched/internal/dateutil"
	"github.com/javiermolinar/courtsched/internal/training"
)

// ErrUnavailable is returned by check when the slot cannot be booked.
var ErrUnavailable = errors.New("slot not available")

type slotFlags struct {
	court string
	team  string
	date  string
	start string
	end   string
}

func (f *slotFlags) register(cmd *cobra.Command, withTeam bool) {
	cmd.Flags().StringVarP(&f.court, "court", "c", "", "Court ID (required)")
	cmd.Flags().StringVarP(&f.date, "date", "d", "", "Date: YYYY-MM-DD, today, tomorrow, monday... (default today)")
	cmd.Flags().StringVarP(&f.start, "start", "s", "", "Start time HH:MM (required)")
	cmd.Flags().StringVarP(&f.end, "end", "e", "", "End time HH:MM (required)")
	_ = cmd.MarkFlagRequired("court")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	if withTeam {
		cmd.Flags().StringVarP(&f.team, "team", "t", "", "Team ID (required)")
		_ = cmd.MarkFlagRequired("team")
	}
}

func (f *slotFlags) training() (*training.Training, error) {
	day, err := resolveDate(f.date)
	if err != nil {
		return nil, err
	}
	team := f.team
	if team == "" {
		// check does not need a team
		team = "-"
	}
	return training.New(f.court, team, day.Format(dateutil.DateLayout), f.start, f.end)
}

func (a *App) checkCmd() *cobra.Command {
	var flags slotFlags
	var exclude string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check whether a slot can be booked",
		Long: `Check a slot against the court's opening hours and existing bookings.

Exits with an error when the slot is closed, outside opening hours,
or overlaps an existing training. Use --exclude when checking a move
of an existing training so it does not conflict with itself.

Example:
  courtsched check --court center --date 2025-03-10 --start 09:00 --end 10:00`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			candidate, err := flags.training()
			if err != nil {
				return err
			}
			candidate.ID = exclude

			out := cmd.OutOrStdout()
			if _, err := a.booking.CheckByCourtID(cmd.Context(), candidate); err != nil {
				var conflict *training.ConflictError
				switch {
				case errors.As(err, &conflict):
					fmt.Fprintf(out, "%s already booked by %s\n", formatFailed("✗"), describe(conflict.Existing))
				case availability.IsRejection(err):
					fmt.Fprintf(out, "%s %s\n", formatFailed("✗"), availability.Reason(err))
				default:
					return err
				}
				return ErrUnavailable
			}

			fmt.Fprintf(out, "%s %s %s %s is free\n", formatOK("✓"), candidate.CourtID,
				candidate.Date.Format("2006-01-02 Mon"), candidate.Interval())
			return nil
		},
	}
	flags.register(cmd, false)
	cmd.Flags().StringVar(&exclude, "exclude", "", "Training ID to ignore when looking for conflicts")
	return cmd
}

func (a *App) bookCmd() *cobra.Command {
	var flags slotFlags
	var colorHex string

	cmd := &cobra.Command{
		Use:   "book",
		Short: "Book a court for a team training",
		Long: `Book a court after checking its opening hours and existing trainings.

Example:
  courtsched book --court center --team u12 --date monday --start 17:00 --end 18:30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			candidate, err := flags.training()
			if err != nil {
				return err
			}
			candidate.Color = colorHex

			booked, err := a.booking.Book(cmd.Context(), candidate)
			if err != nil {
				return fmt.Errorf("booking: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Booked #%s: %s\n", booked.ID, describe(booked))
			return nil
		},
	}
	flags.register(cmd, true)
	cmd.Flags().StringVar(&colorHex, "color", "", "Display color override, e.g. #ff8800 (default team color)")
	return cmd
}

func (a *App) rescheduleCmd() *cobra.Command {
	var date, start, end string

	cmd := &cobra.Command{
		Use:   "reschedule [training-id]",
		Short: "Move a training to another date or time",
		Long: `Move a training, keeping its ID.

The new slot is checked like a new booking, ignoring the training itself.
Without --date the training stays on its current day.

Example:
  courtsched reschedule 3f2a... --start 18:00 --end 19:30`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day := ""
			if date != "" {
				d, err := resolveDate(date)
				if err != nil {
					return err
				}
				day = d.Format(dateutil.DateLayout)
			}

			moved, err := a.booking.Reschedule(cmd.Context(), args[0], day, start, end)
			if err != nil {
				return fmt.Errorf("rescheduling: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Moved #%s: %s\n", moved.ID, describe(moved))
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "New date (default: keep current)")
	cmd.Flags().StringVarP(&start, "start", "s", "", "New start time HH:MM (required)")
	cmd.Flags().StringVarP(&end, "end", "e", "", "New end time HH:MM (required)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func (a *App) cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [training-id]",
		Short: "Cancel a training",
		Long: `Cancel a training by its ID.

Example:
  courtsched cancel 3f2a...`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.booking.Cancel(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("cancelling training: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cancelled training #%s\n", args[0])
			return nil
		},
	}
}

// describe formats a training as "U12 Girls on center 2025-03-10 Mon 09:00-10:00".
func describe(t *training.Training) string {
	if t == nil {
		return ""
	}
	team := t.TeamName
	if team == "" {
		team = t.TeamID
	}
	return fmt.Sprintf("%s on %s %s %s", team, t.CourtID, t.Date.Format("2006-01-02 Mon"), t.Interval())
}
