package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jerseyhub/backend/internal/domain"
)

const jerseyColumns = `j.id, j.title, j.team_id, t.name, j.image_url, j.image_public_id, j.tags, j.created_by, j.created_at, j.updated_at`

// JerseyRepository handles database operations for jerseys.
type JerseyRepository struct {
	db *pgxpool.Pool
}

// NewJerseyRepository creates a new JerseyRepository.
func NewJerseyRepository(db *pgxpool.Pool) *JerseyRepository {
	return &JerseyRepository{db: db}
}

// Create inserts a new jersey into the database.
func (r *JerseyRepository) Create(ctx context.Context, j *domain.Jersey) error {
	query := `
		INSERT INTO jerseys (id, title, team_id, image_url, image_public_id, tags, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		j.ID, j.Title, j.TeamID, j.ImageURL, j.ImagePublicID,
		j.Tags, j.CreatedBy, j.CreatedAt, j.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create jersey: %w", err)
	}
	return nil
}

// Update rewrites the mutable jersey fields.
func (r *JerseyRepository) Update(ctx context.Context, j *domain.Jersey) error {
	query := `
		UPDATE jerseys
		SET title = $1, team_id = $2, image_url = $3, image_public_id = $4, tags = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query,
		j.Title, j.TeamID, j.ImageURL, j.ImagePublicID, j.Tags, j.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update jersey: %w", err)
	}
	return nil
}

// FindByID returns a jersey by ID with its team name resolved.
func (r *JerseyRepository) FindByID(ctx context.Context, id string) (*domain.Jersey, error) {
	query := `
		SELECT ` + jerseyColumns + `
		FROM jerseys j JOIN teams t ON t.id = j.team_id
		WHERE j.id = $1
	`
	row := r.db.QueryRow(ctx, query, id)
	j, err := scanJersey(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find jersey: %w", err)
	}
	return j, nil
}

// FindAll returns the full catalog, newest first.
func (r *JerseyRepository) FindAll(ctx context.Context) ([]*domain.Jersey, error) {
	query := `
		SELECT ` + jerseyColumns + `
		FROM jerseys j JOIN teams t ON t.id = j.team_id
		ORDER BY j.created_at DESC
	`
	return r.queryMany(ctx, query)
}

// FindByIDs returns the jerseys whose IDs are in the given set, newest
// first. IDs without a matching row are silently absent from the result;
// the caller decides what that means.
func (r *JerseyRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Jersey, error) {
	query := `
		SELECT ` + jerseyColumns + `
		FROM jerseys j JOIN teams t ON t.id = j.team_id
		WHERE j.id = ANY($1)
		ORDER BY j.created_at DESC
	`
	return r.queryMany(ctx, query, ids)
}

// Delete removes a jersey from the database.
func (r *JerseyRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM jerseys WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete jersey: %w", err)
	}
	return nil
}

func (r *JerseyRepository) queryMany(ctx context.Context, query string, args ...interface{}) ([]*domain.Jersey, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jerseys: %w", err)
	}
	defer rows.Close()

	var jerseys []*domain.Jersey
	for rows.Next() {
		j, err := scanJersey(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan jersey: %w", err)
		}
		jerseys = append(jerseys, j)
	}

	if jerseys == nil {
		jerseys = []*domain.Jersey{}
	}
	return jerseys, nil
}

func scanJersey(row pgx.Row) (*domain.Jersey, error) {
	var j domain.Jersey
	err := row.Scan(
		&j.ID, &j.Title, &j.TeamID, &j.TeamName,
		&j.ImageURL, &j.ImagePublicID, &j.Tags, &j.CreatedBy,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}
