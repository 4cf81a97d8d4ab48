package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"tourney/internal/account"
	"tourney/internal/auth"
	"tourney/internal/otp"
)

const (
	accessTokenCookie  = "access_token_cookie"
	refreshTokenCookie = "refresh_token_cookie"
	refreshCookiePath  = "/auth/refresh"

	csrfHeader     = "X-CSRF-Token"
	timeLeftHeader = "Time-Left"
)

// Handler holds the route handlers for the auth API.
type Handler struct {
	auth   *auth.Service
	otp    *otp.Manager
	tokens *auth.TokenManager
}

func NewHandler(authService *auth.Service, otpManager *otp.Manager, tokens *auth.TokenManager) *Handler {
	return &Handler{auth: authService, otp: otpManager, tokens: tokens}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup returns the registration handler for the given role. Host signups
// additionally receive a generated invite code.
func (h *Handler) Signup(role account.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var missing []string
		for key, value := range map[string]string{
			"username": req.Username,
			"email":    req.Email,
			"phone":    req.Phone,
			"password": req.Password,
		} {
			if value == "" {
				missing = append(missing, key)
			}
		}
		if len(missing) > 0 {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("Missing keys: %v", missing))
			return
		}

		err := h.auth.Signup(r.Context(), role, auth.SignupInput{
			Username: req.Username,
			Email:    req.Email,
			Phone:    req.Phone,
			Password: req.Password,
		})
		if err != nil {
			switch {
			case errors.Is(err, account.ErrDuplicateAccount):
				respondError(w, http.StatusConflict, roleLabel(role)+" with one of these details already exists")
			case errors.Is(err, auth.ErrWeakPassword):
				respondError(w, http.StatusBadRequest, err.Error())
			default:
				respondError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		respondJSON(w, http.StatusCreated, envelope{
			"status":  "success",
			"message": roleLabel(role) + " registered",
		})
	}
}

// Login returns the login handler for the given role. On success the access
// and refresh tokens travel as cookies; the CSRF nonce and access expiry are
// surfaced as response headers.
func (h *Handler) Login(role account.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" || req.Password == "" {
			respondError(w, http.StatusBadRequest, "Missing credentials")
			return
		}

		acct, pair, err := h.auth.Login(r.Context(), role, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				respondError(w, http.StatusUnauthorized, "Invalid credentials")
				return
			}
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		setAccessCookie(w, pair.AccessToken)
		setRefreshCookie(w, pair.RefreshToken)
		w.Header().Set(csrfHeader, pair.CSRFToken)
		w.Header().Set(timeLeftHeader, strconv.FormatInt(pair.ExpiresIn, 10))

		respondJSON(w, http.StatusOK, envelope{
			"status":          "success",
			"message":         "Logged in",
			"role":            role,
			"details":         acct,
			"isAuthenticated": true,
		})
	}
}

// Refresh mints a new access token from the refresh cookie. The refresh
// token is scoped to this path only.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(refreshTokenCookie)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}

	claims, err := h.tokens.Validate(cookie.Value, auth.TokenRefresh)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}

	access, csrf, expiresIn, err := h.auth.Refresh(claims)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}

	setAccessCookie(w, access)
	w.Header().Set(csrfHeader, csrf)
	w.Header().Set(timeLeftHeader, strconv.FormatInt(expiresIn, 10))

	respondJSON(w, http.StatusOK, envelope{
		"status":  "success",
		"message": "Token refreshed",
	})
}

// Logout clears both credential cookies. It succeeds whether or not the
// caller was logged in.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	clearCookie(w, accessTokenCookie, "/")
	clearCookie(w, refreshTokenCookie, refreshCookiePath)

	respondJSON(w, http.StatusOK, envelope{
		"status":          "success",
		"message":         "Logged out",
		"isAuthenticated": false,
	})
}

// Me returns the authenticated account, password digest stripped.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}

	acct, err := h.auth.Me(r.Context(), identity.Role, identity.ID)
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set(timeLeftHeader, strconv.FormatInt(h.tokens.TimeLeft(identity.Claims), 10))
	respondJSON(w, http.StatusOK, envelope{
		"status":          "success",
		"details":         acct,
		"role":            identity.Role,
		"isAuthenticated": true,
	})
}

// GenerateOTP issues a fresh code for the authenticated account and emails
// it.
func (h *Handler) GenerateOTP(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}

	w.Header().Set(timeLeftHeader, strconv.FormatInt(h.tokens.TimeLeft(identity.Claims), 10))

	if err := h.otp.Issue(r.Context(), identity.Role, identity.ID); err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			respondError(w, http.StatusNotFound, "User not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to send OTP email")
		return
	}

	respondJSON(w, http.StatusOK, envelope{
		"status":  "success",
		"message": "OTP generated and email sent",
	})
}

// VerifyOTP checks the submitted code and marks the account verified on
// success.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	identity, ok := IdentityFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Missing or invalid token")
		return
	}

	w.Header().Set(timeLeftHeader, strconv.FormatInt(h.tokens.TimeLeft(identity.Claims), 10))

	var req struct {
		OTP string `json:"otp"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OTP == "" {
		respondError(w, http.StatusBadRequest, "Missing otp")
		return
	}

	err := h.otp.Verify(r.Context(), identity.Role, identity.ID, req.OTP)
	switch {
	case err == nil:
		respondJSON(w, http.StatusOK, envelope{
			"status":  "success",
			"message": "OTP verified successfully.",
		})
	case errors.Is(err, otp.ErrNoPendingOTP):
		respondError(w, http.StatusNotFound, "OTP not found. Please generate a new one.")
	case errors.Is(err, otp.ErrOTPExpired):
		respondError(w, http.StatusBadRequest, "OTP has expired. Please generate a new one.")
	case errors.Is(err, otp.ErrOTPMismatch):
		respondError(w, http.StatusBadRequest, "Invalid OTP.")
	case errors.Is(err, account.ErrAccountNotFound):
		respondError(w, http.StatusNotFound, "User not found")
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// Health is the unauthenticated liveness probe.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, envelope{
		"status":  "success",
		"message": "API is healthy",
	})
}

// Home greets unauthenticated callers at the root.
func (h *Handler) Home(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, envelope{
		"status":  "success",
		"message": "Welcome to the Tournament Organizer API",
	})
}

type envelope map[string]any

func respondJSON(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, envelope{"status": "error", "message": message})
}

func roleLabel(role account.Role) string {
	if role == account.RoleHost {
		return "Host"
	}
	return "User"
}

func setAccessCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     accessTokenCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    token,
		Path:     refreshCookiePath,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}

func clearCookie(w http.ResponseWriter, name, path string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
	})
}
