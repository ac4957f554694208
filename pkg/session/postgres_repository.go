package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// PostgresAccountRepository implements AccountRepository using PostgreSQL
type PostgresAccountRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAccountRepository creates a new PostgreSQL account repository
func NewPostgresAccountRepository(pool *pgxpool.Pool) *PostgresAccountRepository {
	return &PostgresAccountRepository{
		pool: pool,
	}
}

const accountColumns = `
	id, email, username, two_factor_enabled, two_factor_secret,
	backup_codes, created_at, updated_at
`

// CreateAccount creates a new account with 2FA disabled
func (r *PostgresAccountRepository) CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	query := `
		INSERT INTO accounts (
			email, username, password_hash,
			two_factor_enabled, two_factor_secret, backup_codes
		) VALUES (
			$1, $2, $3, false, '', '{}'
		) RETURNING` + accountColumns

	account, err := r.scanAccount(r.pool.QueryRow(ctx, query, params.Email, params.Username, hash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Account{}, ErrAccountExists
		}
		return Account{}, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// VerifyPassword checks the credential registered under email
func (r *PostgresAccountRepository) VerifyPassword(ctx context.Context, email, password string) (Account, error) {
	query := `
		SELECT password_hash,` + accountColumns + `
		FROM accounts
		WHERE lower(email) = lower($1)
	`

	var hash []byte
	var account Account
	err := r.pool.QueryRow(ctx, query, email).Scan(
		&hash,
		&account.ID,
		&account.Email,
		&account.Username,
		&account.TwoFactorEnabled,
		&account.TwoFactorSecret,
		&account.BackupCodes,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, fmt.Errorf("failed to query account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}

	return account, nil
}

// GetAccountByID retrieves an account by ID
func (r *PostgresAccountRepository) GetAccountByID(ctx context.Context, id uuid.UUID) (Account, error) {
	query := `SELECT` + accountColumns + `FROM accounts WHERE id = $1`

	account, err := r.scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("failed to query account: %w", err)
	}
	return account, nil
}

// UpdateTwoFactor overwrites the account's 2FA fields in one statement,
// so the enabled flag, secret, and backup-code list change together or
// not at all.
func (r *PostgresAccountRepository) UpdateTwoFactor(ctx context.Context, params UpdateTwoFactorParams) (Account, error) {
	query := `
		UPDATE accounts
		SET two_factor_enabled = $2,
		    two_factor_secret = $3,
		    backup_codes = $4,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING` + accountColumns

	backupCodes := params.BackupCodes
	if backupCodes == nil {
		backupCodes = []string{}
	}

	account, err := r.scanAccount(r.pool.QueryRow(ctx, query,
		params.AccountID,
		params.TwoFactorEnabled,
		params.TwoFactorSecret,
		backupCodes,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrAccountNotFound
		}
		return Account{}, fmt.Errorf("failed to update account: %w", err)
	}
	return account, nil
}

func (r *PostgresAccountRepository) scanAccount(row pgx.Row) (Account, error) {
	var account Account
	err := row.Scan(
		&account.ID,
		&account.Email,
		&account.Username,
		&account.TwoFactorEnabled,
		&account.TwoFactorSecret,
		&account.BackupCodes,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		return Account{}, err
	}
	return account, nil
}
