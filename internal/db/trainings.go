package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/courtsched/internal/training"
)

const trainingColumns = `
	t.id, t.court_id, t.team_id, COALESCE(tm.name, ''),
	CASE WHEN t.color <> '' THEN t.color ELSE COALESCE(tm.color, '') END,
	t.training_date, t.start_minutes, t.end_minutes, t.created_at
`

// CreateTraining stores a training and returns its ID.
// A training without an ID gets a new UUID. Failures wrap training.ErrWriteFailed.
func (s *SQLite) CreateTraining(ctx context.Context, t *training.Training) (string, error) {
	if err := t.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", training.ErrWriteFailed, err)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO trainings (
			id, court_id, team_id, color, training_date, start_minutes, end_minutes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		t.ID,
		t.CourtID,
		t.TeamID,
		t.Color,
		formatDate(t.Date),
		t.StartMinutes,
		t.EndMinutes,
		t.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("%w: inserting training: %w", training.ErrWriteFailed, err)
	}

	return t.ID, nil
}

// DeleteTraining removes a training.
func (s *SQLite) DeleteTraining(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM trainings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: deleting training: %w", training.ErrWriteFailed, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s", training.ErrTrainingNotFound, id)
	}

	return nil
}

// GetTraining retrieves a training by ID.
func (s *SQLite) GetTraining(ctx context.Context, id string) (*training.Training, error) {
	query := `SELECT ` + trainingColumns + `
		FROM trainings t
		LEFT JOIN teams tm ON tm.id = t.team_id
		WHERE t.id = ?
	`

	t, err := scanTraining(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", training.ErrTrainingNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// TrainingsForCourtAndDate returns a court's trainings on one day ordered by start time.
func (s *SQLite) TrainingsForCourtAndDate(ctx context.Context, courtID string, date time.Time) ([]*training.Training, error) {
	query := `SELECT ` + trainingColumns + `
		FROM trainings t
		LEFT JOIN teams tm ON tm.id = t.team_id
		WHERE t.court_id = ? AND t.training_date = ?
		ORDER BY t.start_minutes, t.id
	`
	return s.queryTrainings(ctx, query, courtID, formatDate(date))
}

// TrainingsForCourt returns every training on a court ordered by date and start time.
func (s *SQLite) TrainingsForCourt(ctx context.Context, courtID string) ([]*training.Training, error) {
	query := `SELECT ` + trainingColumns + `
		FROM trainings t
		LEFT JOIN teams tm ON tm.id = t.team_id
		WHERE t.court_id = ?
		ORDER BY t.training_date, t.start_minutes, t.id
	`
	return s.queryTrainings(ctx, query, courtID)
}

// TrainingsForCourtBetween returns a court's trainings in the inclusive date range.
func (s *SQLite) TrainingsForCourtBetween(ctx context.Context, courtID string, from, to time.Time) ([]*training.Training, error) {
	query := `SELECT ` + trainingColumns + `
		FROM trainings t
		LEFT JOIN teams tm ON tm.id = t.team_id
		WHERE t.court_id = ? AND t.training_date >= ? AND t.training_date <= ?
		ORDER BY t.training_date, t.start_minutes, t.id
	`
	return s.queryTrainings(ctx, query, courtID, formatDate(from), formatDate(to))
}

func (s *SQLite) queryTrainings(ctx context.Context, query string, args ...any) ([]*training.Training, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying trainings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var trainings []*training.Training
	for rows.Next() {
		t, err := scanTraining(rows)
		if err != nil {
			return nil, err
		}
		trainings = append(trainings, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trainings: %w", err)
	}

	return trainings, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTraining(row scanner) (*training.Training, error) {
	var (
		t         training.Training
		date      string
		createdAt string
	)

	err := row.Scan(
		&t.ID,
		&t.CourtID,
		&t.TeamID,
		&t.TeamName,
		&t.Color,
		&date,
		&t.StartMinutes,
		&t.EndMinutes,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scanning training: %w", err)
	}

	t.Date, err = parseDate(date)
	if err != nil {
		return nil, fmt.Errorf("parsing training date: %w", err)
	}

	t.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created at: %w", err)
	}

	return &t, nil
}
