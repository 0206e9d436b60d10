package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/dom/country-explorer-server/internal/api/middleware"
	"github.com/dom/country-explorer-server/internal/domain"
	"github.com/dom/country-explorer-server/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Request bodies are capped to keep oversized payloads off the decoder.
const maxBodyBytes = 1 << 20

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	ContactNumber string `json:"contactNumber"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	UID          string `json:"uid"`
	UEmail       string `json:"uemail"`
	UName        string `json:"uname"`
}

type RefreshRequest struct {
	Token string `json:"token"`
}

type ToggleFavoriteRequest struct {
	CountryCode string `json:"countryCode"`
}

// PublicUserResponse is the public-safe subset returned by the
// unauthenticated by-id lookup; email, contact number and timestamps are
// never exposed there.
type PublicUserResponse struct {
	UID       string   `json:"uid"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Favorites []string `json:"favorites"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	_, err := h.authService.Register(r.Context(), service.RegisterInput{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Password:      req.Password,
		ContactNumber: req.ContactNumber,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			writeMessage(w, http.StatusBadRequest, "User already exists")
			return
		}
		log.Printf("ERROR [handlers.Register] %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
		return
	}

	writeMessage(w, http.StatusCreated, "User registered successfully")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		log.Printf("ERROR [handlers.Login] %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		AccessToken:  result.AccessToken,
		RefreshToken: result.RefreshToken,
		UID:          result.User.ID.String(),
		UEmail:       result.User.Email,
		UName:        result.User.FirstName,
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	// An empty body counts as a missing token, not a malformed request
	var req RefreshRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Token == "" {
		writeMessage(w, http.StatusUnauthorized, "Access denied")
		return
	}

	accessToken, err := h.authService.Refresh(r.Context(), req.Token)
	if err != nil {
		if errors.Is(err, service.ErrTokenInvalid) {
			writeMessage(w, http.StatusForbidden, "Invalid refresh token")
			return
		}
		log.Printf("ERROR [handlers.Refresh] %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Database error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"accessToken": accessToken})
}

// Logout is not behind the auth middleware: it accepts either token kind and
// only needs the raw header string to drop from the revocation set.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, "Token missing from headers")
		return
	}

	if err := h.authService.Logout(r.Context(), token); err != nil {
		log.Printf("ERROR [handlers.Logout] %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) GetUserDetails(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Access denied")
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		writeMessage(w, http.StatusForbidden, "Invalid token")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("ERROR [handlers.GetUserDetails] %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"userdetails": user})
}

func (h *AuthHandler) GetUserDetailsByID(w http.ResponseWriter, r *http.Request) {
	uid, err := uuid.Parse(chi.URLParam(r, "uid"))
	if err != nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), uid)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("ERROR [handlers.GetUserDetailsByID] %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"userdetails": PublicUserResponse{
		UID:       user.ID.String(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Favorites: user.FavoritesList(),
	}})
}

func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Access denied")
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		writeMessage(w, http.StatusForbidden, "Invalid token")
		return
	}

	if err := h.authService.DeleteUser(r.Context(), userID); err != nil {
		log.Printf("ERROR [handlers.DeleteUser] %v", err)
		writeMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	writeMessage(w, http.StatusOK, "User deleted successfully")
}

func (h *AuthHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, "Access denied")
		return
	}

	userID, err := claims.UserID()
	if err != nil {
		writeMessage(w, http.StatusForbidden, "Invalid token")
		return
	}

	var req ToggleFavoriteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.CountryCode == "" {
		writeMessage(w, http.StatusBadRequest, "countryCode is required")
		return
	}

	favorites, err := h.authService.ToggleFavorite(r.Context(), userID, req.CountryCode)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeMessage(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("ERROR [handlers.ToggleFavorite] %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Favorites updated",
		"favorites": favorites,
	})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
