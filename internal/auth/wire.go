package auth

import (
	"github.com/google/wire"

	"tourney/config"
	"tourney/internal/account"
)

// ProvideTokenManager is a Wire provider function that creates a TokenManager
// from config.
func ProvideTokenManager(cfg *config.Config) *TokenManager {
	return NewTokenManager(cfg.SecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
}

// ProvideService is a Wire provider function that creates the auth Service.
func ProvideService(storage *account.PostgresStorage, tokens *TokenManager) *Service {
	return NewService(storage, tokens)
}

var Set = wire.NewSet(
	ProvideTokenManager,
	ProvideService,
)
