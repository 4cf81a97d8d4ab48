package account

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	// ErrDuplicateAccount means the store's uniqueness constraints rejected
	// an insert, or a pre-check found a colliding username/email/phone.
	ErrDuplicateAccount = errors.New("account with one of these details already exists")
)

type Saver interface {
	SaveAccount(ctx context.Context, role Role, acct *Account) error
}

type Provider interface {
	AccountByEmail(ctx context.Context, role Role, email string) (*Account, error)
	AccountByID(ctx context.Context, role Role, id uuid.UUID) (*Account, error)
	// AccountByAnyIdentity searches both tables for a colliding username,
	// email, or phone. Uniqueness is enforced across user and host accounts.
	AccountByAnyIdentity(ctx context.Context, username, email, phone string) (*Account, error)
}

type Updater interface {
	SetOTP(ctx context.Context, role Role, id uuid.UUID, code string, expiresAt time.Time) error
	ClearOTPAndMarkVerified(ctx context.Context, role Role, id uuid.UUID) error
}

// Storage is the full credential-store contract the rest of the service
// builds on.
type Storage interface {
	Saver
	Provider
	Updater
}

type PostgresStorage struct {
	db *sql.DB
}

var _ Storage = (*PostgresStorage)(nil)

func NewPostgresStorage(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db: db}
}

const accountColumns = "id, username, email, phone, password_hash, invite_code, verified, otp_code, otp_expires_at, created_at"

func (r *PostgresStorage) SaveAccount(ctx context.Context, role Role, acct *Account) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, username, email, phone, password_hash, invite_code, verified, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, role.Table())
	_, err := r.db.ExecContext(ctx, query,
		acct.ID, acct.Username, acct.Email, acct.Phone, acct.PasswordHash,
		nullString(acct.InviteCode), acct.Verified, acct.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return ErrDuplicateAccount
		}
		return err
	}
	return nil
}

func (r *PostgresStorage) AccountByEmail(ctx context.Context, role Role, email string) (*Account, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE email = $1", accountColumns, role.Table())
	return scanAccount(r.db.QueryRowContext(ctx, query, email))
}

func (r *PostgresStorage) AccountByID(ctx context.Context, role Role, id uuid.UUID) (*Account, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", accountColumns, role.Table())
	return scanAccount(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresStorage) AccountByAnyIdentity(ctx context.Context, username, email, phone string) (*Account, error) {
	for _, role := range []Role{RoleUser, RoleHost} {
		query := fmt.Sprintf(`
			SELECT %s FROM %s
			WHERE username = $1 OR email = $2 OR phone = $3`, accountColumns, role.Table())
		acct, err := scanAccount(r.db.QueryRowContext(ctx, query, username, email, phone))
		if err == nil {
			return acct, nil
		}
		if !errors.Is(err, ErrAccountNotFound) {
			return nil, err
		}
	}
	return nil, ErrAccountNotFound
}

func (r *PostgresStorage) SetOTP(ctx context.Context, role Role, id uuid.UUID, code string, expiresAt time.Time) error {
	query := fmt.Sprintf("UPDATE %s SET otp_code = $2, otp_expires_at = $3 WHERE id = $1", role.Table())
	return r.execForOne(ctx, query, id, code, expiresAt)
}

func (r *PostgresStorage) ClearOTPAndMarkVerified(ctx context.Context, role Role, id uuid.UUID) error {
	query := fmt.Sprintf("UPDATE %s SET verified = TRUE, otp_code = NULL, otp_expires_at = NULL WHERE id = $1", role.Table())
	return r.execForOne(ctx, query, id)
}

func (r *PostgresStorage) execForOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func scanAccount(row *sql.Row) (*Account, error) {
	acct := &Account{}
	var inviteCode sql.NullString
	err := row.Scan(
		&acct.ID, &acct.Username, &acct.Email, &acct.Phone, &acct.PasswordHash,
		&inviteCode, &acct.Verified, &acct.OTPCode, &acct.OTPExpiresAt, &acct.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	acct.InviteCode = inviteCode.String
	return acct, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
