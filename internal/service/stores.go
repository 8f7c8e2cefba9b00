package service

import (
	"context"
	"time"

	"github.com/jerseyhub/backend/internal/domain"
)

// Store interfaces consumed by the services. The pgx repositories satisfy
// them; tests substitute in-memory fakes.

// UserStore persists users and their subscription/profile fields.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Exists(ctx context.Context, email string) (bool, error)
	ListAll(ctx context.Context) ([]*domain.User, error)
	Delete(ctx context.Context, id string) error
	UpdatePhone(ctx context.Context, id, phone string) error
	UpdateSubscription(ctx context.Context, id, status string, endDate *time.Time) error
	UpdateSubscriptionByEmail(ctx context.Context, email, status string, endDate *time.Time) error
}

// JerseyStore persists catalog entries.
type JerseyStore interface {
	Create(ctx context.Context, j *domain.Jersey) error
	Update(ctx context.Context, j *domain.Jersey) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Jersey, error)
	FindAll(ctx context.Context) ([]*domain.Jersey, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Jersey, error)
}

// TeamStore persists team names referenced by jerseys.
type TeamStore interface {
	GetOrCreateByName(ctx context.Context, name string) (*domain.Team, error)
	ListAll(ctx context.Context) ([]*domain.Team, error)
}

// LinkStore persists shared links. Create must report a short-code
// collision as domain.ErrDuplicateCode.
type LinkStore interface {
	GenerateCode(ctx context.Context) (string, error)
	Create(ctx context.Context, l *domain.SharedLink) error
	FindByCode(ctx context.Context, code string) (*domain.SharedLink, error)
	FindAllByUser(ctx context.Context, userID string) ([]*domain.SharedLink, error)
	IncrementViewCount(ctx context.Context, code string) error
}
