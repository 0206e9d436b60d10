package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dom/country-explorer-server/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	firstName string
	lastName  string
	email     string
	password  string
	favorites []string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		firstName: "Test",
		lastName:  "User",
		email:     fmt.Sprintf("testuser_%s@example.com", uuid.New().String()[:8]),
		password:  "testpassword123",
		favorites: []string{},
	}
}

// WithFirstName sets the first name
func (b *UserBuilder) WithFirstName(name string) *UserBuilder {
	b.firstName = name
	return b
}

// WithLastName sets the last name
func (b *UserBuilder) WithLastName(name string) *UserBuilder {
	b.lastName = name
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// WithFavorites sets the favorites list
func (b *UserBuilder) WithFavorites(codes ...string) *UserBuilder {
	b.favorites = codes
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	favoritesJSON, _ := json.Marshal(b.favorites)
	user := &domain.User{
		ID:           uuid.New(),
		FirstName:    b.firstName,
		LastName:     b.lastName,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		Favorites:    datatypes.JSON(favoritesJSON),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthSession holds the tokens and identity returned by a login
type AuthSession struct {
	UID          string
	Email        string
	FirstName    string
	AccessToken  string
	RefreshToken string
}

// BuildAndAuthenticate registers and logs the user in through the API and
// returns the resulting session
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) *AuthSession {
	t.Helper()

	registerBody, _ := json.Marshal(map[string]string{
		"firstName": b.firstName,
		"lastName":  b.lastName,
		"email":     b.email,
		"password":  b.password,
	})

	resp, err := http.Post(ts.URL("/auth/register"), "application/json", bytes.NewBuffer(registerBody))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected register status code: %d", resp.StatusCode)
	}

	loginBody, _ := json.Marshal(map[string]string{
		"email":    b.email,
		"password": b.password,
	})

	loginResp, err := http.Post(ts.URL("/auth/login"), "application/json", bytes.NewBuffer(loginBody))
	if err != nil {
		t.Fatalf("failed to log in: %v", err)
	}
	defer loginResp.Body.Close()

	if loginResp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected login status code: %d", loginResp.StatusCode)
	}

	var result struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
		UID          string `json:"uid"`
		UEmail       string `json:"uemail"`
		UName        string `json:"uname"`
	}
	if err := json.NewDecoder(loginResp.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}

	return &AuthSession{
		UID:          result.UID,
		Email:        result.UEmail,
		FirstName:    result.UName,
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
	}
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
