package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type User struct {
	ID            uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	FirstName     string         `json:"firstName" gorm:"not null"`
	LastName      string         `json:"lastName" gorm:"not null"`
	Email         string         `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash  string         `json:"-" gorm:"not null"`
	ContactNumber string         `json:"contactNumber"`
	Favorites     datatypes.JSON `json:"favorites" gorm:"type:jsonb;default:'[]'"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

// FavoritesList decodes the jsonb favorites column. A null or empty column
// decodes to an empty slice, never nil, so JSON responses render [].
func (u *User) FavoritesList() []string {
	out := []string{}
	if len(u.Favorites) == 0 {
		return out
	}
	if err := json.Unmarshal(u.Favorites, &out); err != nil {
		return []string{}
	}
	return out
}

// RefreshSession is one row of the revocation set: a refresh token is honored
// only while its digest row exists and has not passed expires_at.
type RefreshSession struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	TokenDigest string    `json:"-" gorm:"uniqueIndex;not null"`
	ExpiresAt   time.Time `json:"expiresAt" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
}
