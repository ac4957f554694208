package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// InMemoryAccountRepository implements AccountRepository using in-memory
// storage. Intended for tests and single-process demos.
type InMemoryAccountRepository struct {
	mu                 sync.RWMutex
	accounts           map[uuid.UUID]accountRecord
	accountsByEmail    map[string]uuid.UUID
	accountsByUsername map[string]uuid.UUID
}

type accountRecord struct {
	account      Account
	passwordHash []byte
}

// NewInMemoryAccountRepository creates an empty in-memory repository.
func NewInMemoryAccountRepository() *InMemoryAccountRepository {
	return &InMemoryAccountRepository{
		accounts:           make(map[uuid.UUID]accountRecord),
		accountsByEmail:    make(map[string]uuid.UUID),
		accountsByUsername: make(map[string]uuid.UUID),
	}
}

// CreateAccount creates a new account with a bcrypt-hashed password
func (r *InMemoryAccountRepository) CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	emailKey := normalizeEmail(params.Email)
	if _, taken := r.accountsByEmail[emailKey]; taken {
		return Account{}, ErrAccountExists
	}
	if _, taken := r.accountsByUsername[params.Username]; taken {
		return Account{}, ErrAccountExists
	}

	now := time.Now().UTC()
	account := Account{
		ID:               uuid.New(),
		Email:            params.Email,
		Username:         params.Username,
		TwoFactorEnabled: false,
		TwoFactorSecret:  "",
		BackupCodes:      []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	r.accounts[account.ID] = accountRecord{account: account, passwordHash: hash}
	r.accountsByEmail[emailKey] = account.ID
	r.accountsByUsername[params.Username] = account.ID

	return account.clone(), nil
}

// VerifyPassword checks the credential registered under email
func (r *InMemoryAccountRepository) VerifyPassword(ctx context.Context, email, password string) (Account, error) {
	r.mu.RLock()
	id, ok := r.accountsByEmail[normalizeEmail(email)]
	var rec accountRecord
	if ok {
		rec = r.accounts[id]
	}
	r.mu.RUnlock()

	if !ok {
		return Account{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(rec.passwordHash, []byte(password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return rec.account.clone(), nil
}

// GetAccountByID retrieves an account by ID
func (r *InMemoryAccountRepository) GetAccountByID(ctx context.Context, id uuid.UUID) (Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return rec.account.clone(), nil
}

// UpdateTwoFactor overwrites the account's 2FA fields
func (r *InMemoryAccountRepository) UpdateTwoFactor(ctx context.Context, params UpdateTwoFactorParams) (Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.accounts[params.AccountID]
	if !ok {
		return Account{}, ErrAccountNotFound
	}

	rec.account.TwoFactorEnabled = params.TwoFactorEnabled
	rec.account.TwoFactorSecret = params.TwoFactorSecret
	rec.account.BackupCodes = append([]string(nil), params.BackupCodes...)
	rec.account.UpdatedAt = time.Now().UTC()
	r.accounts[params.AccountID] = rec

	return rec.account.clone(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
