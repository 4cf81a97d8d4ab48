package server

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"tourney/internal/account"
	"tourney/internal/auth"
)

type ctxKey int

const identityKey ctxKey = iota

// Identity is the authenticated caller resolved by the identity gate, made
// available to route handlers through the request context.
type Identity struct {
	ID     uuid.UUID
	Role   account.Role
	Claims *auth.TokenClaims
}

func IdentityFromContext(ctx context.Context) (*Identity, bool) {
	identity, ok := ctx.Value(identityKey).(*Identity)
	return identity, ok
}

// apiKeyExempt lists the routes reachable without the shared service key:
// liveness probes and the endpoints a client must hit before it has any
// credentials.
var apiKeyExempt = map[string]struct{}{
	"/":                 {},
	"/health":           {},
	"/auth/signup":      {},
	"/auth/host_signup": {},
	"/auth/login":       {},
	"/auth/host_login":  {},
}

// Gate implements the two request-level checks: the coarse pre-shared
// API-key filter and the per-user identity check.
type Gate struct {
	tokens       *auth.TokenManager
	apiKeyDigest string
}

func NewGate(tokens *auth.TokenManager, apiKeyDigest string) *Gate {
	return &Gate{tokens: tokens, apiKeyDigest: apiKeyDigest}
}

// APIKey rejects any non-exempt request whose x-api-key header does not hash
// to the configured digest. OPTIONS passes so CORS preflights work.
func (g *Gate) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if _, exempt := apiKeyExempt[r.URL.Path]; exempt {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get("x-api-key")
		if key == "" {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		sum := sha256.Sum256([]byte(key))
		digest := hex.EncodeToString(sum[:])
		if subtle.ConstantTimeCompare([]byte(digest), []byte(g.apiKeyDigest)) != 1 {
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Authenticate validates the access cookie, enforces the CSRF double-submit
// on state-changing methods, and resolves the caller's identity before the
// handler body runs.
func (g *Gate) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(accessTokenCookie)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Missing or invalid token")
			return
		}

		claims, err := g.tokens.Validate(cookie.Value, auth.TokenAccess)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Missing or invalid token")
			return
		}

		if r.Method != http.MethodGet && r.Method != http.MethodHead && r.Method != http.MethodOptions {
			header := r.Header.Get(csrfHeader)
			if header == "" || subtle.ConstantTimeCompare([]byte(header), []byte(claims.CSRF)) != 1 {
				respondError(w, http.StatusForbidden, "CSRF token missing or invalid")
				return
			}
		}

		id, err := uuid.Parse(claims.Subject)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Missing or invalid token")
			return
		}
		role, err := account.ParseRole(string(claims.Role))
		if err != nil {
			respondError(w, http.StatusUnauthorized, "Missing or invalid token")
			return
		}

		identity := &Identity{ID: id, Role: role, Claims: claims}
		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// RequestLogger records method, path, status, and latency for every request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Printf("Latency: %v | Status: %v | Method: %s | Path: %s",
			time.Since(start), rec.status, r.Method, r.URL.Path)
	})
}
