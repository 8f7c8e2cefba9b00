package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jerseyhub/backend/internal/domain"
)

const linkColumns = `short_code, user_id, jersey_ids, view_count, expires_at, created_at`

// pgUniqueViolation is the SQLSTATE for unique constraint violations.
const pgUniqueViolation = "23505"

// LinkRepository handles database operations for shared links.
type LinkRepository struct {
	db *pgxpool.Pool
}

// NewLinkRepository creates a new LinkRepository.
func NewLinkRepository(db *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{db: db}
}

// GenerateCode asks the database for a short code that is unique at
// issuance time (the generate_short_code function installed by migrations).
func (r *LinkRepository) GenerateCode(ctx context.Context) (string, error) {
	var code string
	err := r.db.QueryRow(ctx, `SELECT generate_short_code()`).Scan(&code)
	if err != nil {
		return "", fmt.Errorf("failed to generate short code: %w", err)
	}
	return code, nil
}

// Create inserts a new shared link. A short-code collision surfaces as
// domain.ErrDuplicateCode so the caller can regenerate and retry.
func (r *LinkRepository) Create(ctx context.Context, l *domain.SharedLink) error {
	query := `
		INSERT INTO shared_links (` + linkColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.Exec(ctx, query,
		l.ShortCode, l.UserID, l.JerseyIDs, l.ViewCount, l.ExpiresAt, l.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return domain.ErrDuplicateCode
		}
		return fmt.Errorf("failed to create shared link: %w", err)
	}
	return nil
}

// FindByCode returns a shared link by its short code, or nil when no such
// link exists (not-found is not a storage fault).
func (r *LinkRepository) FindByCode(ctx context.Context, code string) (*domain.SharedLink, error) {
	query := `SELECT ` + linkColumns + ` FROM shared_links WHERE short_code = $1`
	row := r.db.QueryRow(ctx, query, code)

	var l domain.SharedLink
	err := row.Scan(&l.ShortCode, &l.UserID, &l.JerseyIDs, &l.ViewCount, &l.ExpiresAt, &l.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find shared link: %w", err)
	}
	return &l, nil
}

// FindAllByUser returns a reseller's links, newest first.
func (r *LinkRepository) FindAllByUser(ctx context.Context, userID string) ([]*domain.SharedLink, error) {
	query := `SELECT ` + linkColumns + ` FROM shared_links WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shared links: %w", err)
	}
	defer rows.Close()

	var links []*domain.SharedLink
	for rows.Next() {
		var l domain.SharedLink
		if err := rows.Scan(&l.ShortCode, &l.UserID, &l.JerseyIDs, &l.ViewCount, &l.ExpiresAt, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan shared link: %w", err)
		}
		links = append(links, &l)
	}

	if links == nil {
		links = []*domain.SharedLink{}
	}
	return links, nil
}

// IncrementViewCount bumps the view counter by one. The increment happens
// inside the database, so concurrent resolutions never lose updates.
func (r *LinkRepository) IncrementViewCount(ctx context.Context, code string) error {
	query := `UPDATE shared_links SET view_count = view_count + 1 WHERE short_code = $1`
	_, err := r.db.Exec(ctx, query, code)
	if err != nil {
		return fmt.Errorf("failed to increment view count: %w", err)
	}
	return nil
}
