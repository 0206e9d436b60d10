package service

import (
	"errors"
	"time"

	"github.com/dom/country-explorer-server/internal/config"
	"github.com/dom/country-explorer-server/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrTokenInvalid = errors.New("invalid token")

// Claims are the subject claims embedded in both token kinds. Email and
// FirstName are a cache of the profile at issuance: if the profile changes
// mid-session they stay stale until the token expires (at most the access
// TTL, 55 minutes by default).
type Claims struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// TokenService mints and verifies the two token kinds. Access and refresh
// tokens are signed with distinct secrets so a leaked access secret cannot
// forge refresh tokens.
type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(cfg *config.Config) *TokenService {
	return &TokenService{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

func (s *TokenService) IssueAccessToken(user *domain.User) (string, error) {
	return s.issue(user, s.accessSecret, s.accessTTL)
}

func (s *TokenService) IssueRefreshToken(user *domain.User) (string, error) {
	return s.issue(user, s.refreshSecret, s.refreshTTL)
}

func (s *TokenService) issue(user *domain.User, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email:     user.Email,
		FirstName: user.FirstName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (s *TokenService) VerifyAccessToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.accessSecret)
}

func (s *TokenService) VerifyRefreshToken(tokenString string) (*Claims, error) {
	return s.verify(tokenString, s.refreshSecret)
}

func (s *TokenService) verify(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil {
		return nil, ErrTokenInvalid
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrTokenInvalid
}

// RefreshExpiry reports when a refresh token minted now would expire; the
// session registry records it alongside the token digest.
func (s *TokenService) RefreshExpiry() time.Time {
	return time.Now().Add(s.refreshTTL)
}
