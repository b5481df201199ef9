package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/javiermolinar/courtsched/internal/training"
)

// GetCourt retrieves a court with its weekly schedule.
func (s *SQLite) GetCourt(ctx context.Context, id string) (*training.Court, error) {
	c := &training.Court{}
	err := s.db.QueryRowContext(ctx, `SELECT id, name FROM courts WHERE id = ?`, id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", training.ErrCourtNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying court: %w", err)
	}

	if c.WeeklySchedule, err = s.schedulesFor(ctx, c.ID); err != nil {
		return nil, err
	}
	return c, nil
}

// ListCourts returns all courts ordered by name.
func (s *SQLite) ListCourts(ctx context.Context) ([]*training.Court, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM courts ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying courts: %w", err)
	}

	var courts []*training.Court
	for rows.Next() {
		c := &training.Court{}
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning court: %w", err)
		}
		courts = append(courts, c)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterating courts: %w", err)
	}
	// The pool holds a single connection; release it before loading schedules.
	_ = rows.Close()

	for _, c := range courts {
		if c.WeeklySchedule, err = s.schedulesFor(ctx, c.ID); err != nil {
			return nil, err
		}
	}
	return courts, nil
}

// SaveCourt inserts or replaces a court and its weekly schedule.
// A court without an ID gets a new UUID.
func (s *SQLite) SaveCourt(ctx context.Context, c *training.Court) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: court name cannot be empty", training.ErrWriteFailed)
	}
	for wd := range c.WeeklySchedule {
		if !wd.Valid() {
			return fmt.Errorf("%w: %w: %d", training.ErrWriteFailed, training.ErrInvalidWeekday, int(wd))
		}
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning transaction: %w", training.ErrWriteFailed, err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO courts (id, name) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`, c.ID, c.Name)
	if err != nil {
		return fmt.Errorf("%w: saving court: %w", training.ErrWriteFailed, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM court_schedules WHERE court_id = ?`, c.ID); err != nil {
		return fmt.Errorf("%w: clearing schedule: %w", training.ErrWriteFailed, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO court_schedules (court_id, weekday, active, opening, closing)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("%w: preparing statement: %w", training.ErrWriteFailed, err)
	}
	defer func() { _ = stmt.Close() }()

	for wd, ds := range c.WeeklySchedule {
		if _, err := stmt.ExecContext(ctx, c.ID, int(wd), ds.Active, ds.OpeningMinutes, ds.ClosingMinutes); err != nil {
			return fmt.Errorf("%w: saving %s schedule: %w", training.ErrWriteFailed, wd, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing transaction: %w", training.ErrWriteFailed, err)
	}
	return nil
}

func (s *SQLite) schedulesFor(ctx context.Context, courtID string) (map[training.Weekday]training.DaySchedule, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT weekday, active, opening, closing
		FROM court_schedules
		WHERE court_id = ?
	`, courtID)
	if err != nil {
		return nil, fmt.Errorf("querying court schedule: %w", err)
	}
	defer func() { _ = rows.Close() }()

	schedule := make(map[training.Weekday]training.DaySchedule)
	for rows.Next() {
		var (
			wd int
			ds training.DaySchedule
		)
		if err := rows.Scan(&wd, &ds.Active, &ds.OpeningMinutes, &ds.ClosingMinutes); err != nil {
			return nil, fmt.Errorf("scanning court schedule: %w", err)
		}
		schedule[training.Weekday(wd)] = ds
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating court schedule: %w", err)
	}
	return schedule, nil
}
