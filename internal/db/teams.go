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

// GetTeam retrieves a team by ID.
func (s *SQLite) GetTeam(ctx context.Context, id string) (*training.Team, error) {
	t := &training.Team{}
	err := s.db.QueryRowContext(ctx, `SELECT id, name, color FROM teams WHERE id = ?`, id).
		Scan(&t.ID, &t.Name, &t.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", training.ErrTeamNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying team: %w", err)
	}
	return t, nil
}

// SaveTeam inserts or replaces a team. A team without an ID gets a new UUID.
func (s *SQLite) SaveTeam(ctx context.Context, t *training.Team) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: team name cannot be empty", training.ErrWriteFailed)
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO teams (id, name, color) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, color = excluded.color
	`, t.ID, t.Name, t.Color)
	if err != nil {
		return fmt.Errorf("%w: saving team: %w", training.ErrWriteFailed, err)
	}
	return nil
}

// ListTeams returns all teams ordered by name.
func (s *SQLite) ListTeams(ctx context.Context) ([]*training.Team, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, color FROM teams ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("querying teams: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var teams []*training.Team
	for rows.Next() {
		t := &training.Team{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating teams: %w", err)
	}
	return teams, nil
}
