// Package recurrence copies a training onto the same weekday of following weeks.
package recurrence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/javiermolinar/courtsched/internal/availability"
	"github.com/javiermolinar/courtsched/internal/dateutil"
	"github.com/javiermolinar/courtsched/internal/training"
)

// ErrCourtMismatch is returned for every week when the court passed to
// Duplicate is not the source training's court.
var ErrCourtMismatch = errors.New("court does not match the training's court")

// Outcome is the terminal state of one week's duplication step.
type Outcome int

const (
	Added Outcome = iota
	SkippedClosed
	SkippedConflict
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Added:
		return "added"
	case SkippedClosed:
		return "skipped_closed"
	case SkippedConflict:
		return "skipped_conflict"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// WeekResult is the report line for one target week.
type WeekResult struct {
	Week       int
	Date       time.Time
	Outcome    Outcome
	Reason     string             // why the week was skipped or failed
	Err        error              // underlying error for SkippedClosed and Failed
	Conflict   *training.Training // existing booking for SkippedConflict
	TrainingID string             // new training for Added
}

// Report lists the week results in chronological order.
type Report struct {
	SourceID  string
	Requested int
	Results   []WeekResult
	Cancelled bool
}

// Counts returns how many weeks ended in each outcome.
func (r *Report) Counts() map[Outcome]int {
	counts := make(map[Outcome]int, 4)
	for _, res := range r.Results {
		counts[res.Outcome]++
	}
	return counts
}

// Added returns the results that created a training.
func (r *Report) Added() []WeekResult {
	var out []WeekResult
	for _, res := range r.Results {
		if res.Outcome == Added {
			out = append(out, res)
		}
	}
	return out
}

// Summary renders a one line explanation such as
// "7 of 10 weeks added; 3 skipped: court closed".
func (r *Report) Summary() string {
	c := r.Counts()
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d weeks added", c[Added], r.Requested)
	if n := c[SkippedClosed]; n > 0 {
		fmt.Fprintf(&b, "; %d skipped: court closed", n)
	}
	if n := c[SkippedConflict]; n > 0 {
		fmt.Fprintf(&b, "; %d skipped: already booked", n)
	}
	if n := c[Failed]; n > 0 {
		fmt.Fprintf(&b, "; %d failed", n)
	}
	if r.Cancelled {
		fmt.Fprintf(&b, "; cancelled after %d weeks", len(r.Results))
	}
	return b.String()
}

// Scheduler duplicates trainings week by week.
type Scheduler struct {
	store  training.Store
	logger *zap.Logger
}

// New returns a Scheduler writing to store. A nil logger disables logging.
func New(store training.Store, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{store: store, logger: logger}
}

// Duplicate copies source onto the same weekday for each of the next
// weeksAhead weeks, one week at a time and in order.
//
// Each week is checked against the court's hours, then against the bookings
// stored for that date, and only then created. A week that is closed or
// already booked is skipped; a store error fails that week alone.
//
// ctx is consulted between weeks only. Once a week has started it runs to
// completion, so a cancelled run returns the weeks processed so far with
// Cancelled set.
//
// court must be the source's court. Otherwise, or when source is invalid,
// every week fails without touching the store.
//
// The conflict read and the create are separate store calls. A booking made
// by another caller between the two is not detected.
func (s *Scheduler) Duplicate(ctx context.Context, court *training.Court, source *training.Training, weeksAhead int) *Report {
	r := &Report{}
	if source == nil || weeksAhead <= 0 {
		return r
	}
	r.SourceID = source.ID
	r.Requested = weeksAhead

	log := s.logger.With(
		zap.String("source_id", source.ID),
		zap.String("court_id", source.CourtID),
		zap.Int("weeks", weeksAhead),
	)

	if reason, err := rejectSource(court, source); err != nil {
		for week := 1; week <= weeksAhead; week++ {
			r.Results = append(r.Results, WeekResult{
				Week:    week,
				Date:    dateutil.AddWeeks(source.Date, week),
				Outcome: Failed,
				Reason:  reason,
				Err:     err,
			})
		}
		log.Warn("duplicate rejected source", zap.String("reason", reason), zap.Error(err))
		return r
	}

	stepCtx := context.WithoutCancel(ctx)
	for week := 1; week <= weeksAhead; week++ {
		if ctx.Err() != nil {
			r.Cancelled = true
			log.Info("duplicate cancelled", zap.Int("completed", week-1))
			break
		}

		res := s.step(stepCtx, court, source, week)
		r.Results = append(r.Results, res)

		fields := []zap.Field{
			zap.Int("week", week),
			zap.String("date", res.Date.Format(dateutil.DateLayout)),
			zap.Stringer("outcome", res.Outcome),
		}
		switch res.Outcome {
		case Added:
			log.Info("week duplicated", append(fields, zap.String("training_id", res.TrainingID))...)
		case Failed:
			log.Error("week failed", append(fields, zap.Error(res.Err))...)
		default:
			log.Info("week skipped", append(fields, zap.String("reason", res.Reason))...)
		}
	}

	log.Info("duplicate finished", zap.String("summary", r.Summary()))
	return r
}

func rejectSource(court *training.Court, source *training.Training) (string, error) {
	if err := source.Validate(); err != nil {
		return "invalid source training", err
	}
	if court == nil {
		return "wrong court", fmt.Errorf("%w: no court given for %q", ErrCourtMismatch, source.CourtID)
	}
	if court.ID != source.CourtID {
		return "wrong court", fmt.Errorf("%w: got %q, training is on %q", ErrCourtMismatch, court.ID, source.CourtID)
	}
	return "", nil
}

func (s *Scheduler) step(ctx context.Context, court *training.Court, source *training.Training, week int) WeekResult {
	date := dateutil.AddWeeks(source.Date, week)
	res := WeekResult{Week: week, Date: date}

	if err := availability.IsOpen(court, training.WeekdayOf(date), source.StartMinutes, source.EndMinutes); err != nil {
		res.Outcome = SkippedClosed
		res.Reason = availability.Reason(err)
		res.Err = err
		return res
	}

	existing, err := s.store.TrainingsForCourtAndDate(ctx, source.CourtID, date)
	if err != nil {
		res.Outcome = Failed
		res.Reason = "could not load bookings"
		res.Err = fmt.Errorf("loading trainings for %s: %w", date.Format(dateutil.DateLayout), err)
		return res
	}
	if conflict, other := training.HasConflict(source, existing); conflict {
		res.Outcome = SkippedConflict
		res.Reason = "already booked " + other.Interval()
		res.Conflict = other
		return res
	}

	id, err := s.store.CreateTraining(ctx, source.CopyTo(date))
	if err != nil {
		res.Outcome = Failed
		res.Reason = "could not save training"
		if !errors.Is(err, training.ErrWriteFailed) {
			err = fmt.Errorf("%w: %w", training.ErrWriteFailed, err)
		}
		res.Err = err
		return res
	}
	res.Outcome = Added
	res.TrainingID = id
	return res
}
