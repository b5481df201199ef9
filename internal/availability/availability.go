// Package availability decides whether a court is open for a time slot.
package availability

import (
	"errors"
	"fmt"

	"github.com/javiermolinar/courtsched/internal/training"
)

// Rejection reasons. These are business-rule outcomes, not faults.
var (
	ErrClosedDay     = errors.New("court is closed on this day")
	ErrInvalidWindow = errors.New("court schedule is misconfigured: opening is not before closing")
	ErrOutOfHours    = errors.New("time slot is outside operating hours")
)

// OutOfHoursError carries the operating hours a slot fell outside of.
type OutOfHoursError struct {
	Opening int
	Closing int
}

func (e *OutOfHoursError) Error() string {
	return fmt.Sprintf("%s (open %s-%s)", ErrOutOfHours,
		training.FormatTime(e.Opening), training.FormatTime(e.Closing))
}

// Is lets errors.Is match ErrOutOfHours.
func (e *OutOfHoursError) Is(target error) bool {
	return target == ErrOutOfHours
}

// IsOpen checks whether [start, end) fits inside the court's hours on weekday.
// Returns nil when the slot is bookable, ErrClosedDay when the weekday has no
// active schedule, ErrInvalidWindow when the schedule has opening >= closing,
// and an *OutOfHoursError when the slot starts before opening or ends after closing.
func IsOpen(court *training.Court, weekday training.Weekday, start, end int) error {
	ds, ok := court.Schedule(weekday)
	if !ok || !ds.Active {
		return ErrClosedDay
	}
	if ds.Misconfigured() {
		return ErrInvalidWindow
	}
	if start < ds.OpeningMinutes || end > ds.ClosingMinutes {
		return &OutOfHoursError{Opening: ds.OpeningMinutes, Closing: ds.ClosingMinutes}
	}
	return nil
}

// IsRejection reports whether err is one of the availability rejections.
func IsRejection(err error) bool {
	return errors.Is(err, ErrClosedDay) || errors.Is(err, ErrInvalidWindow) || errors.Is(err, ErrOutOfHours)
}

// GlobalWindow returns the widest operating window (earliest opening, latest
// closing) across the active schedules of the given weekdays. If none are
// active, fallback is returned. Misconfigured days do not contribute.
// The result is advisory for grid sizing only.
func GlobalWindow(court *training.Court, weekdays []training.Weekday, fallback training.Window) training.Window {
	var (
		w     training.Window
		found bool
	)
	for _, wd := range weekdays {
		ds, ok := court.Schedule(wd)
		if !ok || !ds.Active || ds.Misconfigured() {
			continue
		}
		if !found {
			w = ds.Window()
			found = true
			continue
		}
		w.Start = min(w.Start, ds.OpeningMinutes)
		w.End = max(w.End, ds.ClosingMinutes)
	}
	if !found {
		return fallback
	}
	return w
}

// AllWeekdays lists Sunday through Saturday.
func AllWeekdays() []training.Weekday {
	return []training.Weekday{
		training.Sunday, training.Monday, training.Tuesday, training.Wednesday,
		training.Thursday, training.Friday, training.Saturday,
	}
}

// Reason returns a short user-facing message for an availability rejection.
// Unknown errors are returned as their Error() text.
func Reason(err error) string {
	var ooh *OutOfHoursError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrClosedDay):
		return "court closed"
	case errors.Is(err, ErrInvalidWindow):
		return "court schedule misconfigured"
	case errors.As(err, &ooh):
		return fmt.Sprintf("outside opening hours %s-%s",
			training.FormatTime(ooh.Opening), training.FormatTime(ooh.Closing))
	default:
		return err.Error()
	}
}
