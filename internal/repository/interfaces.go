package repository

import (
	"context"
	"time"

	"github.com/dom/country-explorer-server/internal/domain"
	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ToggleFavorite flips membership of countryCode in the user's favorites
	// in a single atomic storage operation and returns the updated list.
	ToggleFavorite(ctx context.Context, id uuid.UUID, countryCode string) ([]string, error)
}

// SessionRegistry is the revocation set for refresh tokens. Only tokens that
// have been activated (and not since deactivated) are honored by refresh,
// regardless of their cryptographic validity. Deactivate is idempotent.
type SessionRegistry interface {
	Activate(ctx context.Context, token string, expiresAt time.Time) error
	IsActive(ctx context.Context, token string) (bool, error)
	Deactivate(ctx context.Context, token string) error
}

type Repositories struct {
	User     UserRepository
	Sessions SessionRegistry
}
