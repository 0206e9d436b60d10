package service

import (
	"github.com/dom/country-explorer-server/internal/config"
	"github.com/dom/country-explorer-server/internal/repository"
)

type Services struct {
	Token *TokenService
	Auth  *AuthService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	tokens := NewTokenService(cfg)
	return &Services{
		Token: tokens,
		Auth:  NewAuthService(repos.User, repos.Sessions, tokens, cfg),
	}
}
