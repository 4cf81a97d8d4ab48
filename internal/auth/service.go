package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	passwordvalidator "github.com/wagslane/go-password-validator"

	"tourney/internal/account"
)

const passwordMinEntropyBits = 30

// inviteCodeLength matches the legacy format: twelve lowercase hex chars.
const inviteCodeLength = 12

// SignupInput is the payload common to user and host registration.
type SignupInput struct {
	Username string
	Email    string
	Phone    string
	Password string
}

// TokenPair bundles the credentials minted at login: a short-lived access
// token with its CSRF nonce and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	CSRFToken    string
	// ExpiresIn is seconds until the access token expires, surfaced to the
	// client in the Time-Left header.
	ExpiresIn int64
}

// Service implements the account side of the auth lifecycle: signup, login,
// refresh, and identity lookup. Token and OTP mechanics live in their own
// components.
type Service struct {
	accounts account.Storage
	tokens   *TokenManager
}

func NewService(accounts account.Storage, tokens *TokenManager) *Service {
	return &Service{accounts: accounts, tokens: tokens}
}

// Signup registers a new account in the role's table. Uniqueness of
// username, email, and phone is checked across both tables first, but the
// store's own constraints are the authoritative guard against concurrent
// signups.
func (s *Service) Signup(ctx context.Context, role account.Role, in SignupInput) error {
	if err := passwordvalidator.Validate(in.Password, passwordMinEntropyBits); err != nil {
		return fmt.Errorf("%w: %v", ErrWeakPassword, err)
	}

	_, err := s.accounts.AccountByAnyIdentity(ctx, in.Username, in.Email, in.Phone)
	if err == nil {
		return account.ErrDuplicateAccount
	}
	if err != account.ErrAccountNotFound {
		return fmt.Errorf("failed to check existing accounts: %w", err)
	}

	digest, err := HashPassword(in.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	acct := &account.Account{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: digest,
		CreatedAt:    time.Now(),
	}
	if role == account.RoleHost {
		acct.InviteCode = newInviteCode()
	}

	return s.accounts.SaveAccount(ctx, role, acct)
}

// Login verifies the credentials against the role's table and mints a fresh
// token pair. Unknown email and wrong password are indistinguishable to the
// caller.
func (s *Service) Login(ctx context.Context, role account.Role, email, password string) (*account.Account, *TokenPair, error) {
	acct, err := s.accounts.AccountByEmail(ctx, role, email)
	if err != nil {
		if err == account.ErrAccountNotFound {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to look up account: %w", err)
	}

	if !VerifyPassword(acct.PasswordHash, password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(acct.ID, role)
	if err != nil {
		return nil, nil, err
	}
	return acct, pair, nil
}

// Refresh mints a new access token for an identity proven by a validated
// refresh token.
func (s *Service) Refresh(claims *TokenClaims) (accessToken, csrf string, expiresIn int64, err error) {
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", "", 0, ErrInvalidToken
	}
	accessToken, csrf, err = s.tokens.IssueAccess(id, claims.Role)
	if err != nil {
		return "", "", 0, err
	}
	return accessToken, csrf, int64(s.tokens.accessTTL.Seconds()), nil
}

// Me returns the account behind an authenticated identity.
func (s *Service) Me(ctx context.Context, role account.Role, id uuid.UUID) (*account.Account, error) {
	return s.accounts.AccountByID(ctx, role, id)
}

func (s *Service) issuePair(id uuid.UUID, role account.Role) (*TokenPair, error) {
	access, csrf, err := s.tokens.IssueAccess(id, role)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(id, role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		CSRFToken:    csrf,
		ExpiresIn:    int64(s.tokens.accessTTL.Seconds()),
	}, nil
}

func newInviteCode() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return hex[:inviteCodeLength]
}
