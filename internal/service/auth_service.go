package service

import (
	"context"
	"errors"
	"time"

	"github.com/dom/country-explorer-server/internal/config"
	"github.com/dom/country-explorer-server/internal/domain"
	"github.com/dom/country-explorer-server/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrEmailExists        = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthService struct {
	userRepo repository.UserRepository
	sessions repository.SessionRegistry
	tokens   *TokenService
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, sessions repository.SessionRegistry, tokens *TokenService, cfg *config.Config) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		tokens:   tokens,
		cfg:      cfg,
	}
}

type RegisterInput struct {
	FirstName     string
	LastName      string
	Email         string
	Password      string
	ContactNumber string
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginResult struct {
	User         *domain.User
	AccessToken  string
	RefreshToken string
}

// Register creates the user record. It issues no tokens; the caller logs in
// separately.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:            uuid.New(),
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         input.Email,
		PasswordHash:  string(hashedPassword),
		ContactNumber: input.ContactNumber,
		Favorites:     datatypes.JSON([]byte("[]")),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login returns ErrInvalidCredentials for an unknown email and for a wrong
// password alike; callers cannot tell which check failed.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.IssueRefreshToken(user)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Activate(ctx, refreshToken, s.tokens.RefreshExpiry()); err != nil {
		return nil, err
	}

	return &LoginResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges an active refresh token for a new access token. The
// refresh token itself is not rotated. The registry membership check runs on
// the raw token string before signature verification, so a revoked token is
// rejected even while cryptographically valid, and a registry-present but
// garbled string still fails verification.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	active, err := s.sessions.IsActive(ctx, refreshToken)
	if err != nil {
		return "", err
	}
	if !active {
		return "", ErrTokenInvalid
	}

	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return "", ErrTokenInvalid
	}

	userID, err := claims.UserID()
	if err != nil {
		return "", ErrTokenInvalid
	}

	user := &domain.User{ID: userID, Email: claims.Email, FirstName: claims.FirstName}
	return s.tokens.IssueAccessToken(user)
}

// Logout removes the exact token string from the revocation set. Deactivating
// an unknown or already-inactive token is not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Deactivate(ctx, token)
}

func (s *AuthService) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// DeleteUser is strictly self-service: the id comes from the authenticated
// subject, never from request input.
func (s *AuthService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.userRepo.Delete(ctx, id)
}

func (s *AuthService) ToggleFavorite(ctx context.Context, id uuid.UUID, countryCode string) ([]string, error) {
	favorites, err := s.userRepo.ToggleFavorite(ctx, id, countryCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return favorites, nil
}
