package postgres

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/dom/country-explorer-server/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sessionRegistry is the durable revocation set: rows keyed by the sha256
// digest of the exact token string, so activation survives restarts and is
// shared across server instances. The raw token is never stored.
type sessionRegistry struct {
	db *gorm.DB
}

func NewSessionRegistry(db *gorm.DB) *sessionRegistry {
	return &sessionRegistry{db: db}
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *sessionRegistry) Activate(ctx context.Context, token string, expiresAt time.Time) error {
	session := &domain.RefreshSession{
		ID:          uuid.New(),
		TokenDigest: tokenDigest(token),
		ExpiresAt:   expiresAt,
		CreatedAt:   time.Now(),
	}
	// Re-activating the same token is a no-op
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token_digest"}}, DoNothing: true}).
		Create(session).Error
}

func (r *sessionRegistry) IsActive(ctx context.Context, token string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.RefreshSession{}).
		Where("token_digest = ? AND expires_at > ?", tokenDigest(token), time.Now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *sessionRegistry) Deactivate(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Delete(&domain.RefreshSession{}, "token_digest = ?", tokenDigest(token)).Error
}
