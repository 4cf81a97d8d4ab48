// Package otp implements the one-time-passcode flow used to confirm control
// of an account's email address.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"tourney/internal/account"
)

var (
	ErrNoPendingOTP = errors.New("no pending otp")
	ErrOTPExpired   = errors.New("otp has expired")
	ErrOTPMismatch  = errors.New("otp does not match")
	// ErrNotificationFailed means the code was persisted but the email did
	// not go out; the client should request a fresh code.
	ErrNotificationFailed = errors.New("failed to send otp email")
)

// Notifier delivers the code to the account's email address.
type Notifier interface {
	SendOTPEmail(to, username, code string) error
}

// Store is the slice of the credential store the manager needs.
type Store interface {
	AccountByID(ctx context.Context, role account.Role, id uuid.UUID) (*account.Account, error)
	SetOTP(ctx context.Context, role account.Role, id uuid.UUID, code string, expiresAt time.Time) error
	ClearOTPAndMarkVerified(ctx context.Context, role account.Role, id uuid.UUID) error
}

// Manager generates, issues, and verifies numeric one-time codes. At most one
// code is pending per account; issuing again overwrites it.
type Manager struct {
	store    Store
	notifier Notifier
	length   int
	ttl      time.Duration

	now func() time.Time
}

func NewManager(store Store, notifier Notifier, length int, ttl time.Duration) *Manager {
	return &Manager{
		store:    store,
		notifier: notifier,
		length:   length,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Generate returns a string of length uniformly random decimal digits.
func Generate(length int) (string, error) {
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate otp digit: %w", err)
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}

// Issue stores a fresh code with its expiry window on the account, replacing
// any earlier pending code, then emails it. The code stays persisted even if
// delivery fails so the distinction is visible to the caller.
func (m *Manager) Issue(ctx context.Context, role account.Role, id uuid.UUID) error {
	acct, err := m.store.AccountByID(ctx, role, id)
	if err != nil {
		return err
	}

	code, err := Generate(m.length)
	if err != nil {
		return err
	}

	if err := m.store.SetOTP(ctx, role, id, code, m.now().Add(m.ttl)); err != nil {
		return fmt.Errorf("failed to store otp: %w", err)
	}

	if err := m.notifier.SendOTPEmail(acct.Email, acct.Username, code); err != nil {
		return fmt.Errorf("%w: %v", ErrNotificationFailed, err)
	}
	return nil
}

// Verify checks a submitted code against the pending one. On success the
// account is marked verified and the code is consumed; a second submission of
// the same code finds nothing pending.
func (m *Manager) Verify(ctx context.Context, role account.Role, id uuid.UUID, submitted string) error {
	acct, err := m.store.AccountByID(ctx, role, id)
	if err != nil {
		return err
	}

	if !acct.HasPendingOTP() {
		return ErrNoPendingOTP
	}
	if m.now().After(acct.OTPExpiresAt.Time) {
		return ErrOTPExpired
	}
	if subtle.ConstantTimeCompare([]byte(acct.OTPCode.String), []byte(submitted)) != 1 {
		return ErrOTPMismatch
	}

	return m.store.ClearOTPAndMarkVerified(ctx, role, id)
}
