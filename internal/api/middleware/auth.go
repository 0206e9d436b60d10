package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/dom/country-explorer-server/internal/service"
)

type contextKey string

const claimsKey contextKey = "claims"

// Auth gates protected routes. A missing or malformed Authorization header is
// 401; a header that carries a token failing verification is 403. The two
// outcomes are distinct parts of the contract.
func Auth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				log.Printf("ERROR [middleware.Auth] missing or malformed authorization header")
				writeError(w, http.StatusUnauthorized, "Access denied")
				return
			}

			claims, err := tokens.VerifyAccessToken(token)
			if err != nil {
				log.Printf("ERROR [middleware.Auth] token verification failed: %v", err)
				writeError(w, http.StatusForbidden, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from an `Authorization: Bearer <token>`
// header.
func BearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetClaims returns the subject claims attached by Auth.
func GetClaims(ctx context.Context) (*service.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*service.Claims)
	return claims, ok
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}
