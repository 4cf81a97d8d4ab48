package server

import (
	"github.com/gorilla/mux"

	"tourney/internal/account"
)

// NewRouter wires the middleware chain and the route table. The API-key gate
// runs router-wide; the identity gate wraps only the protected handlers so
// they fail before the handler body runs.
func NewRouter(h *Handler, g *Gate) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestLogger)
	r.Use(g.APIKey)

	r.HandleFunc("/", h.Home).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")

	r.HandleFunc("/auth/signup", h.Signup(account.RoleUser)).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth/host_signup", h.Signup(account.RoleHost)).Methods("POST", "OPTIONS")
	r.HandleFunc("/auth/login", h.Login(account.RoleUser)).Methods("POST")
	r.HandleFunc("/auth/host_login", h.Login(account.RoleHost)).Methods("POST")

	r.HandleFunc("/auth/refresh", h.Refresh).Methods("POST")
	r.HandleFunc("/auth/logout", h.Logout).Methods("POST", "OPTIONS")

	r.HandleFunc("/auth/me", g.Authenticate(h.Me)).Methods("GET")
	r.HandleFunc("/auth/generate_otp", g.Authenticate(h.GenerateOTP)).Methods("GET")
	r.HandleFunc("/auth/verify_otp", g.Authenticate(h.VerifyOTP)).Methods("POST")

	return r
}
