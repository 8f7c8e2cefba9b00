package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jerseyhub/backend/internal/domain"
)

// TeamRepository handles database operations for teams.
type TeamRepository struct {
	db *pgxpool.Pool
}

// NewTeamRepository creates a new TeamRepository.
func NewTeamRepository(db *pgxpool.Pool) *TeamRepository {
	return &TeamRepository{db: db}
}

// GetOrCreateByName returns the team with the given name, creating it on
// demand. Jersey forms reference teams by name, not ID.
func (r *TeamRepository) GetOrCreateByName(ctx context.Context, name string) (*domain.Team, error) {
	query := `SELECT id, name, created_at FROM teams WHERE name = $1`
	row := r.db.QueryRow(ctx, query, name)

	var t domain.Team
	err := row.Scan(&t.ID, &t.Name, &t.CreatedAt)
	if err == nil {
		return &t, nil
	}
	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to find team: %w", err)
	}

	t = domain.Team{
		ID:        uuid.New().String(),
		Name:      name,
		CreatedAt: time.Now(),
	}
	insert := `
		INSERT INTO teams (id, name, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING id, name, created_at
	`
	row = r.db.QueryRow(ctx, insert, t.ID, t.Name, t.CreatedAt)
	if err := row.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return &t, nil
}

// ListAll returns all teams ordered by name.
func (r *TeamRepository) ListAll(ctx context.Context) ([]*domain.Team, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, created_at FROM teams ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []*domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, &t)
	}

	if teams == nil {
		teams = []*domain.Team{}
	}
	return teams, nil
}
