package server

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"tourney/internal/account"
	"tourney/internal/auth"
	"tourney/internal/otp"
)

const testAPIKey = "service-key"

// memStorage is an in-memory account.Storage enforcing uniqueness across
// both roles.
type memStorage struct {
	accounts map[account.Role][]*account.Account
}

var _ account.Storage = (*memStorage)(nil)

func newMemStorage() *memStorage {
	return &memStorage{accounts: map[account.Role][]*account.Account{}}
}

func (m *memStorage) SaveAccount(_ context.Context, role account.Role, acct *account.Account) error {
	for _, accts := range m.accounts {
		for _, existing := range accts {
			if existing.Username == acct.Username || existing.Email == acct.Email || existing.Phone == acct.Phone {
				return account.ErrDuplicateAccount
			}
		}
	}
	m.accounts[role] = append(m.accounts[role], acct)
	return nil
}

func (m *memStorage) AccountByEmail(_ context.Context, role account.Role, email string) (*account.Account, error) {
	for _, acct := range m.accounts[role] {
		if acct.Email == email {
			return acct, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (m *memStorage) AccountByID(_ context.Context, role account.Role, id uuid.UUID) (*account.Account, error) {
	for _, acct := range m.accounts[role] {
		if acct.ID == id {
			return acct, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (m *memStorage) AccountByAnyIdentity(_ context.Context, username, email, phone string) (*account.Account, error) {
	for _, accts := range m.accounts {
		for _, acct := range accts {
			if acct.Username == username || acct.Email == email || acct.Phone == phone {
				return acct, nil
			}
		}
	}
	return nil, account.ErrAccountNotFound
}

func (m *memStorage) SetOTP(ctx context.Context, role account.Role, id uuid.UUID, code string, expiresAt time.Time) error {
	acct, err := m.AccountByID(ctx, role, id)
	if err != nil {
		return err
	}
	acct.OTPCode = sql.NullString{String: code, Valid: true}
	acct.OTPExpiresAt = sql.NullTime{Time: expiresAt, Valid: true}
	return nil
}

func (m *memStorage) ClearOTPAndMarkVerified(ctx context.Context, role account.Role, id uuid.UUID) error {
	acct, err := m.AccountByID(ctx, role, id)
	if err != nil {
		return err
	}
	acct.Verified = true
	acct.OTPCode = sql.NullString{}
	acct.OTPExpiresAt = sql.NullTime{}
	return nil
}

type memNotifier struct {
	sendErr error
	code    string
	calls   int
}

func (n *memNotifier) SendOTPEmail(_, _, code string) error {
	n.calls++
	n.code = code
	return n.sendErr
}

type testApp struct {
	router   *mux.Router
	storage  *memStorage
	notifier *memNotifier
	tokens   *auth.TokenManager
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	storage := newMemStorage()
	notifier := &memNotifier{}
	tokens := auth.NewTokenManager([]byte("test-secret"), 10*time.Minute, 7*24*time.Hour)
	authService := auth.NewService(storage, tokens)
	otpManager := otp.NewManager(storage, notifier, 6, 5*time.Minute)

	digest := sha256.Sum256([]byte(testAPIKey))
	gate := NewGate(tokens, hex.EncodeToString(digest[:]))
	handler := NewHandler(authService, otpManager, tokens)

	return &testApp{
		router:   NewRouter(handler, gate),
		storage:  storage,
		notifier: notifier,
		tokens:   tokens,
	}
}

func (app *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

// authTokenManagerWithTTL shares the test secret so its tokens verify
// against the app's gate.
func authTokenManagerWithTTL(ttl time.Duration) *auth.TokenManager {
	return auth.NewTokenManager([]byte("test-secret"), ttl, ttl)
}

func cookieByName(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
