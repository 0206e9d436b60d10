package service_test

import (
	"context"
	"testing"

	"github.com/dom/country-explorer-server/internal/domain"
	"github.com/dom/country-explorer-server/internal/repository/postgres"
	"github.com/dom/country-explorer-server/internal/service"
	"github.com/dom/country-explorer-server/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_Register(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewServices(repos, cfg).Auth
	ctx := context.Background()

	tests := []struct {
		name    string
		input   service.RegisterInput
		setup   func()
		wantErr error
	}{
		{
			name: "successful registration",
			input: service.RegisterInput{
				FirstName: "John",
				LastName:  "Doe",
				Email:     "john@example.com",
				Password:  "123456",
			},
		},
		{
			name: "duplicate email",
			input: service.RegisterInput{
				FirstName: "Jane",
				LastName:  "Doe",
				Email:     "taken@example.com",
				Password:  "123456",
			},
			setup: func() {
				testutil.NewUserBuilder().
					WithEmail("taken@example.com").
					Build(t, testDB.DB)
			},
			wantErr: service.ErrEmailExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clean up between tests
			testDB.Truncate(t)

			if tt.setup != nil {
				tt.setup()
			}

			user, err := authService.Register(ctx, tt.input)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.input.Email, user.Email)
			assert.NotEmpty(t, user.PasswordHash)
			assert.NotEqual(t, tt.input.Password, user.PasswordHash)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	services := service.NewServices(repos, cfg)
	authService := services.Auth
	ctx := context.Background()

	user, rawPassword := testutil.NewUserBuilder().
		WithFirstName("John").
		WithEmail("login@example.com").
		WithPassword("correctpassword").
		Build(t, testDB.DB)

	tests := []struct {
		name    string
		input   service.LoginInput
		wantErr error
	}{
		{
			name: "successful login",
			input: service.LoginInput{
				Email:    user.Email,
				Password: rawPassword,
			},
		},
		{
			name: "wrong password",
			input: service.LoginInput{
				Email:    user.Email,
				Password: "wrongpassword",
			},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name: "non-existent email",
			input: service.LoginInput{
				Email:    "nonexistent@example.com",
				Password: "anypassword",
			},
			wantErr: service.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := authService.Login(ctx, tt.input)

			if tt.wantErr != nil {
				// Unknown email and wrong password share one error value
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, user.ID, result.User.ID)
			assert.NotEmpty(t, result.AccessToken)
			assert.NotEmpty(t, result.RefreshToken)

			// Decoded subject matches the stored identity
			claims, err := services.Token.VerifyAccessToken(result.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, user.ID.String(), claims.Subject)
			assert.Equal(t, user.Email, claims.Email)
			assert.Equal(t, user.FirstName, claims.FirstName)
		})
	}
}

func TestAuthService_Refresh(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	services := service.NewServices(repos, cfg)
	authService := services.Auth
	ctx := context.Background()

	_, rawPassword := testutil.NewUserBuilder().
		WithEmail("refresh@example.com").
		Build(t, testDB.DB)

	result, err := authService.Login(ctx, service.LoginInput{
		Email:    "refresh@example.com",
		Password: rawPassword,
	})
	require.NoError(t, err)

	t.Run("active token mints a new access token", func(t *testing.T) {
		accessToken, err := authService.Refresh(ctx, result.RefreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, accessToken)

		_, err = services.Token.VerifyAccessToken(accessToken)
		require.NoError(t, err)
	})

	t.Run("token not in the active set is rejected", func(t *testing.T) {
		_, err := authService.Refresh(ctx, "unknown.token.string")
		assert.ErrorIs(t, err, service.ErrTokenInvalid)
	})

	t.Run("registry-present but garbled token fails verification", func(t *testing.T) {
		require.NoError(t, repos.Sessions.Activate(ctx, "not-a-jwt", services.Token.RefreshExpiry()))
		_, err := authService.Refresh(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, service.ErrTokenInvalid)
	})

	t.Run("logged-out token is rejected while cryptographically valid", func(t *testing.T) {
		// Signature and expiry are still individually valid
		_, err := services.Token.VerifyRefreshToken(result.RefreshToken)
		require.NoError(t, err)

		require.NoError(t, authService.Logout(ctx, result.RefreshToken))

		_, err = authService.Refresh(ctx, result.RefreshToken)
		assert.ErrorIs(t, err, service.ErrTokenInvalid)
	})
}

func TestAuthService_Logout(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewServices(repos, cfg).Auth
	ctx := context.Background()

	_, rawPassword := testutil.NewUserBuilder().
		WithEmail("logout@example.com").
		Build(t, testDB.DB)

	result, err := authService.Login(ctx, service.LoginInput{
		Email:    "logout@example.com",
		Password: rawPassword,
	})
	require.NoError(t, err)

	require.NoError(t, authService.Logout(ctx, result.RefreshToken))

	// Logging out the same or an unknown token is not an error
	require.NoError(t, authService.Logout(ctx, result.RefreshToken))
	require.NoError(t, authService.Logout(ctx, "never-seen-token"))
}

func TestAuthService_GetUserByID(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewServices(repos, cfg).Auth
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	got, err := authService.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, got.Email)

	_, err = authService.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAuthService_DeleteUser(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewServices(repos, cfg).Auth
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	require.NoError(t, authService.DeleteUser(ctx, user.ID))

	_, err := authService.GetUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAuthService_ToggleFavorite(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	cfg := testutil.TestConfig()
	authService := service.NewServices(repos, cfg).Auth
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	favorites, err := authService.ToggleFavorite(ctx, user.ID, "US")
	require.NoError(t, err)
	assert.Equal(t, []string{"US"}, favorites)

	// Toggling again removes it, never appends a second copy
	favorites, err = authService.ToggleFavorite(ctx, user.ID, "US")
	require.NoError(t, err)
	assert.Equal(t, []string{}, favorites)

	_, err = authService.ToggleFavorite(ctx, uuid.New(), "US")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
