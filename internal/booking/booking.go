// Package booking validates and persists single trainings.
package booking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/javiermolinar/courtsched/internal/availability"
	"github.com/javiermolinar/courtsched/internal/dateutil"
	"github.com/javiermolinar/courtsched/internal/training"
)

// Service checks a training against court hours and existing bookings
// before writing it.
type Service struct {
	store  training.Store
	courts training.CourtRepository
	teams  training.TeamRepository
	logger *zap.Logger
}

// NewService creates a booking service. teams may be nil, in which case
// trainings are stored without display enrichment.
func NewService(store training.Store, courts training.CourtRepository, teams training.TeamRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, courts: courts, teams: teams, logger: logger}
}

// Check validates candidate against court. It returns nil when the training
// can be booked, an availability rejection when the court is not open, or a
// *training.ConflictError naming the booking it overlaps.
// A candidate with an ID is treated as an edit and never conflicts with itself.
func (s *Service) Check(ctx context.Context, court *training.Court, candidate *training.Training) error {
	if err := candidate.Validate(); err != nil {
		return err
	}
	if err := availability.IsOpen(court, candidate.Weekday(), candidate.StartMinutes, candidate.EndMinutes); err != nil {
		return err
	}

	existing, err := s.store.TrainingsForCourtAndDate(ctx, candidate.CourtID, candidate.Date)
	if err != nil {
		return fmt.Errorf("loading trainings: %w", err)
	}
	if conflict, other := training.HasConflict(candidate, training.ExcludeID(existing, candidate.ID)); conflict {
		return &training.ConflictError{Existing: other}
	}
	return nil
}

// CheckByCourtID loads the court and runs Check.
func (s *Service) CheckByCourtID(ctx context.Context, candidate *training.Training) (*training.Court, error) {
	court, err := s.courts.GetCourt(ctx, candidate.CourtID)
	if err != nil {
		return nil, err
	}
	return court, s.Check(ctx, court, candidate)
}

// Book checks candidate and stores it. The stored training is returned with
// its ID and team display fields set.
func (s *Service) Book(ctx context.Context, candidate *training.Training) (*training.Training, error) {
	if _, err := s.CheckByCourtID(ctx, candidate); err != nil {
		return nil, err
	}
	if err := s.enrich(ctx, candidate); err != nil {
		return nil, err
	}

	id, err := s.store.CreateTraining(ctx, candidate)
	if err != nil {
		return nil, err
	}
	candidate.ID = id

	s.logger.Info("training booked",
		zap.String("training_id", id),
		zap.String("court_id", candidate.CourtID),
		zap.String("team_id", candidate.TeamID),
		zap.String("date", candidate.Date.Format(dateutil.DateLayout)),
		zap.String("interval", candidate.Interval()),
	)
	return candidate, nil
}

// Reschedule moves an existing training to a new date and time.
// date is YYYY-MM-DD (empty keeps the current date); start and end are HH:MM.
// The training keeps its ID. The store has no update, so the move is a
// delete followed by a create; if the create fails the original is restored.
func (s *Service) Reschedule(ctx context.Context, id, date, start, end string) (*training.Training, error) {
	current, err := s.store.GetTraining(ctx, id)
	if err != nil {
		return nil, err
	}

	moved := *current
	if date != "" {
		day, err := dateutil.ParseDate(date)
		if err != nil {
			return nil, err
		}
		moved.Date = day
	}
	moved.StartMinutes, moved.EndMinutes, err = training.ParseInterval(start, end)
	if err != nil {
		return nil, err
	}

	if _, err := s.CheckByCourtID(ctx, &moved); err != nil {
		return nil, err
	}

	if err := s.store.DeleteTraining(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.store.CreateTraining(ctx, &moved); err != nil {
		if _, restoreErr := s.store.CreateTraining(ctx, current); restoreErr != nil {
			s.logger.Error("failed to restore training after reschedule error",
				zap.String("training_id", id), zap.Error(restoreErr))
			return nil, errors.Join(err, restoreErr)
		}
		return nil, err
	}

	s.logger.Info("training rescheduled",
		zap.String("training_id", id),
		zap.String("from", current.Date.Format(dateutil.DateLayout)+" "+current.Interval()),
		zap.String("to", moved.Date.Format(dateutil.DateLayout)+" "+moved.Interval()),
	)
	return &moved, nil
}

// Cancel removes a training. ErrTrainingNotFound is returned for unknown IDs.
func (s *Service) Cancel(ctx context.Context, id string) error {
	if err := s.store.DeleteTraining(ctx, id); err != nil {
		return err
	}
	s.logger.Info("training cancelled", zap.String("training_id", id))
	return nil
}

func (s *Service) enrich(ctx context.Context, t *training.Training) error {
	if s.teams == nil {
		return nil
	}
	team, err := s.teams.GetTeam(ctx, t.TeamID)
	if err != nil {
		return fmt.Errorf("team %q: %w", t.TeamID, err)
	}
	t.TeamName = team.Name
	if t.Color == "" {
		t.Color = team.Color
	}
	return nil
}
