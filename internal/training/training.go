// Package training defines the core domain types for court scheduling.
package training

import (
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/courtsched/internal/dateutil"
)

// Validation errors.
var (
	ErrInvalidTimeFormat = errors.New("time must be in HH:MM format")
	ErrEndBeforeStart    = errors.New("end time must be after start time")
	ErrInvalidInterval   = errors.New("training interval must satisfy 0 <= start < end <= 1440")
	ErrMissingCourt      = errors.New("court id cannot be empty")
	ErrMissingTeam       = errors.New("team id cannot be empty")
	ErrInvalidWeekday    = errors.New("weekday must be between 1 (Sunday) and 7 (Saturday)")
)

// Domain errors.
var (
	ErrConflict         = errors.New("training overlaps with an existing booking")
	ErrTrainingNotFound = errors.New("training not found")
	ErrCourtNotFound    = errors.New("court not found")
	ErrTeamNotFound     = errors.New("team not found")
	ErrWriteFailed      = errors.New("store write failed")
)

// Weekday numbers days the way court calendars do: 1=Sunday through 7=Saturday.
type Weekday int

const (
	Sunday Weekday = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// WeekdayOf returns the Weekday of a calendar date.
func WeekdayOf(date time.Time) Weekday {
	return Weekday(date.Weekday()) + 1
}

// Valid reports whether the weekday is in the 1..7 range.
func (w Weekday) Valid() bool {
	return w >= Sunday && w <= Saturday
}

// String returns the English weekday name.
func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return time.Weekday(w - 1).String()
}

// Window is a half-open interval of minutes since midnight.
type Window struct {
	Start int
	End   int
}

// DefaultWindow is the operating window used when no court schedule applies.
var DefaultWindow = Window{Start: 8 * 60, End: 22 * 60}

// Len returns the window length in minutes.
func (w Window) Len() int {
	if w.End <= w.Start {
		return 0
	}
	return w.End - w.Start
}

// String formats the window as "HH:MM-HH:MM".
func (w Window) String() string {
	return FormatTime(w.Start) + "-" + FormatTime(w.End)
}

// DaySchedule is a court's operating hours for one weekday.
type DaySchedule struct {
	Active         bool
	OpeningMinutes int
	ClosingMinutes int
}

// Window returns the schedule's operating hours as a Window.
func (d DaySchedule) Window() Window {
	return Window{Start: d.OpeningMinutes, End: d.ClosingMinutes}
}

// Misconfigured reports whether an active schedule has opening >= closing.
func (d DaySchedule) Misconfigured() bool {
	return d.OpeningMinutes >= d.ClosingMinutes
}

// Court is a bookable resource with a per-weekday schedule.
type Court struct {
	ID             string
	Name           string
	WeeklySchedule map[Weekday]DaySchedule
}

// Schedule returns the DaySchedule for a weekday and whether one is defined.
func (c *Court) Schedule(w Weekday) (DaySchedule, bool) {
	if c == nil || c.WeeklySchedule == nil {
		return DaySchedule{}, false
	}
	ds, ok := c.WeeklySchedule[w]
	return ds, ok
}

// Team is display-only enrichment for a training.
type Team struct {
	ID    string
	Name  string
	Color string
}

// Training is a booking of a court by a team for a date and time interval.
type Training struct {
	ID           string
	CourtID      string
	TeamID       string
	TeamName     string // display only
	Color        string // display only
	Date         time.Time
	StartMinutes int
	EndMinutes   int
	CreatedAt    time.Time
}

// New creates a validated Training from presentation-layer strings.
// date is YYYY-MM-DD (empty means today); start and end are HH:MM.
func New(courtID, teamID, date, start, end string) (*Training, error) {
	if courtID == "" {
		return nil, ErrMissingCourt
	}
	if teamID == "" {
		return nil, ErrMissingTeam
	}

	day, err := dateutil.ParseDate(date)
	if err != nil {
		return nil, err
	}

	startMin, endMin, err := ParseInterval(start, end)
	if err != nil {
		return nil, err
	}

	return &Training{
		CourtID:      courtID,
		TeamID:       teamID,
		Date:         day,
		StartMinutes: startMin,
		EndMinutes:   endMin,
		CreatedAt:    time.Now(),
	}, nil
}

// Validate checks the interval invariant 0 <= start < end <= 1440.
func (t *Training) Validate() error {
	if t.CourtID == "" {
		return ErrMissingCourt
	}
	if t.StartMinutes < 0 || t.EndMinutes > MinutesPerDay || t.StartMinutes >= t.EndMinutes {
		return fmt.Errorf("%w: got %d-%d", ErrInvalidInterval, t.StartMinutes, t.EndMinutes)
	}
	return nil
}

// Duration returns the training length in minutes (0 for malformed intervals).
func (t *Training) Duration() int {
	if t.EndMinutes <= t.StartMinutes {
		return 0
	}
	return t.EndMinutes - t.StartMinutes
}

// Weekday returns the weekday the training falls on.
func (t *Training) Weekday() Weekday {
	return WeekdayOf(t.Date)
}

// Interval returns the training time range as "HH:MM-HH:MM".
func (t *Training) Interval() string {
	return FormatTime(t.StartMinutes) + "-" + FormatTime(t.EndMinutes)
}

// CopyTo returns a copy of the training moved to another date, without an ID.
func (t *Training) CopyTo(date time.Time) *Training {
	return &Training{
		CourtID:      t.CourtID,
		TeamID:       t.TeamID,
		TeamName:     t.TeamName,
		Color:        t.Color,
		Date:         dateutil.TruncateToDay(date),
		StartMinutes: t.StartMinutes,
		EndMinutes:   t.EndMinutes,
		CreatedAt:    time.Now(),
	}
}

// OnDate reports whether the training is scheduled on the given calendar day.
func (t *Training) OnDate(date time.Time) bool {
	return dateutil.SameDay(t.Date, date)
}
