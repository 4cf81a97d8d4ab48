package server

import (
	"github.com/google/wire"
	"github.com/gorilla/mux"

	"tourney/config"
	"tourney/internal/auth"
	"tourney/internal/otp"
)

// ProvideGate is a Wire provider function that creates the request gate.
func ProvideGate(tokens *auth.TokenManager, cfg *config.Config) *Gate {
	return NewGate(tokens, cfg.APIKeyDigest)
}

// ProvideHandler is a Wire provider function that creates the route handlers.
func ProvideHandler(authService *auth.Service, otpManager *otp.Manager, tokens *auth.TokenManager) *Handler {
	return NewHandler(authService, otpManager, tokens)
}

// ProvideRouter is a Wire provider function that assembles the router.
func ProvideRouter(h *Handler, g *Gate) *mux.Router {
	return NewRouter(h, g)
}

var Set = wire.NewSet(
	ProvideGate,
	ProvideHandler,
	ProvideRouter,
)
