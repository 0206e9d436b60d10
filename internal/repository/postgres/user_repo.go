package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/dom/country-explorer-server/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.User{}, "id = ?", id).Error
}

// ToggleFavorite runs as a single UPDATE so concurrent toggles for the same
// user cannot lose updates. Removal strips every occurrence of the code, so
// no duplicate can survive a toggle; insertion appends exactly once.
func (r *userRepository) ToggleFavorite(ctx context.Context, id uuid.UUID, countryCode string) ([]string, error) {
	const query = `
		UPDATE users
		SET favorites = CASE
			WHEN COALESCE(favorites, '[]'::jsonb) @> to_jsonb(?::text) THEN favorites - ?::text
			ELSE COALESCE(favorites, '[]'::jsonb) || to_jsonb(?::text)
		END,
		updated_at = now()
		WHERE id = ?
		RETURNING favorites`

	var raw []byte
	row := r.db.WithContext(ctx).Raw(query, countryCode, countryCode, countryCode, id).Row()
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}

	favorites := []string{}
	if err := json.Unmarshal(raw, &favorites); err != nil {
		return nil, err
	}
	return favorites, nil
}
