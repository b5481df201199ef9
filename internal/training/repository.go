package training

import (
	"context"
	"time"
)

// Store is the booking persistence contract consumed by the engine.
type Store interface {
	// CreateTraining persists a training and returns its new ID.
	// Failures wrap ErrWriteFailed.
	CreateTraining(ctx context.Context, t *Training) (string, error)

	// DeleteTraining removes a training.
	// Returns ErrTrainingNotFound if no training has the given ID.
	DeleteTraining(ctx context.Context, id string) error

	// GetTraining retrieves a training by ID.
	// Returns ErrTrainingNotFound if no training has the given ID.
	GetTraining(ctx context.Context, id string) (*Training, error)

	// TrainingsForCourtAndDate returns the trainings booked on a court for one day.
	TrainingsForCourtAndDate(ctx context.Context, courtID string, date time.Time) ([]*Training, error)

	// TrainingsForCourt returns every training booked on a court.
	TrainingsForCourt(ctx context.Context, courtID string) ([]*Training, error)
}

// CourtRepository provides read access to courts, with writes for seeding.
type CourtRepository interface {
	// GetCourt retrieves a court with its weekly schedule.
	// Returns ErrCourtNotFound if no court has the given ID.
	GetCourt(ctx context.Context, id string) (*Court, error)

	// SaveCourt inserts or replaces a court and its weekly schedule.
	SaveCourt(ctx context.Context, c *Court) error

	// ListCourts returns all courts ordered by name.
	ListCourts(ctx context.Context) ([]*Court, error)
}

// TeamRepository provides display enrichment for trainings.
type TeamRepository interface {
	// GetTeam retrieves a team by ID.
	// Returns ErrTeamNotFound if no team has the given ID.
	GetTeam(ctx context.Context, id string) (*Team, error)

	// SaveTeam inserts or replaces a team.
	SaveTeam(ctx context.Context, t *Team) error

	// ListTeams returns all teams ordered by name.
	ListTeams(ctx context.Context) ([]*Team, error)
}
