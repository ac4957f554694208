package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// FileAccountRepository implements AccountRepository using file-based
// storage: a single JSON file rewritten atomically on every mutation.
type FileAccountRepository struct {
	dataDir  string
	accounts map[uuid.UUID]fileAccountRecord
	mutex    sync.RWMutex
}

type fileAccountRecord struct {
	ID               uuid.UUID `json:"id"`
	Email            string    `json:"email"`
	Username         string    `json:"username"`
	PasswordHash     []byte    `json:"password_hash"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	TwoFactorSecret  string    `json:"two_factor_secret"`
	BackupCodes      []string  `json:"backup_codes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewFileAccountRepository creates a new file-based account repository
func NewFileAccountRepository(dataDir string) (*FileAccountRepository, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	repo := &FileAccountRepository{
		dataDir:  dataDir,
		accounts: make(map[uuid.UUID]fileAccountRecord),
	}

	if err := repo.load(); err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	return repo, nil
}

// CreateAccount creates a new account with 2FA disabled
func (r *FileAccountRepository) CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	for _, rec := range r.accounts {
		if normalizeEmail(rec.Email) == normalizeEmail(params.Email) || rec.Username == params.Username {
			return Account{}, ErrAccountExists
		}
	}

	now := time.Now().UTC()
	rec := fileAccountRecord{
		ID:               uuid.New(),
		Email:            params.Email,
		Username:         params.Username,
		PasswordHash:     hash,
		TwoFactorEnabled: false,
		TwoFactorSecret:  "",
		BackupCodes:      []string{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	r.accounts[rec.ID] = rec

	if err := r.save(); err != nil {
		// Rollback
		delete(r.accounts, rec.ID)
		return Account{}, fmt.Errorf("failed to save: %w", err)
	}

	return rec.toAccount(), nil
}

// VerifyPassword checks the credential registered under email
func (r *FileAccountRepository) VerifyPassword(ctx context.Context, email, password string) (Account, error) {
	r.mutex.RLock()
	var rec fileAccountRecord
	found := false
	for _, candidate := range r.accounts {
		if normalizeEmail(candidate.Email) == normalizeEmail(email) {
			rec = candidate
			found = true
			break
		}
	}
	r.mutex.RUnlock()

	if !found {
		return Account{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(rec.PasswordHash, []byte(password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return rec.toAccount(), nil
}

// GetAccountByID retrieves an account by ID
func (r *FileAccountRepository) GetAccountByID(ctx context.Context, id uuid.UUID) (Account, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	rec, ok := r.accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return rec.toAccount(), nil
}

// UpdateTwoFactor overwrites the account's 2FA fields. The previous
// record is restored if the file write fails, so a failed persist never
// leaves a half-applied update.
func (r *FileAccountRepository) UpdateTwoFactor(ctx context.Context, params UpdateTwoFactorParams) (Account, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	rec, ok := r.accounts[params.AccountID]
	if !ok {
		return Account{}, ErrAccountNotFound
	}

	prev := rec
	rec.TwoFactorEnabled = params.TwoFactorEnabled
	rec.TwoFactorSecret = params.TwoFactorSecret
	rec.BackupCodes = append([]string(nil), params.BackupCodes...)
	rec.UpdatedAt = time.Now().UTC()
	r.accounts[params.AccountID] = rec

	if err := r.save(); err != nil {
		// Rollback
		r.accounts[params.AccountID] = prev
		return Account{}, fmt.Errorf("failed to save: %w", err)
	}

	return rec.toAccount(), nil
}

func (rec fileAccountRecord) toAccount() Account {
	return Account{
		ID:               rec.ID,
		Email:            rec.Email,
		Username:         rec.Username,
		TwoFactorEnabled: rec.TwoFactorEnabled,
		TwoFactorSecret:  rec.TwoFactorSecret,
		BackupCodes:      append([]string(nil), rec.BackupCodes...),
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}
}

// load reads account data from file
func (r *FileAccountRepository) load() error {
	filePath := filepath.Join(r.dataDir, "accounts.json")

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) == 0 {
		return nil
	}

	var records []fileAccountRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	r.accounts = make(map[uuid.UUID]fileAccountRecord)
	for _, rec := range records {
		r.accounts[rec.ID] = rec
	}

	return nil
}

// save writes account data to file atomically
func (r *FileAccountRepository) save() error {
	records := make([]fileAccountRecord, 0, len(r.accounts))
	for _, rec := range r.accounts {
		records = append(records, rec)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	// Write to temp file first
	tempFile := filepath.Join(r.dataDir, "accounts.json.tmp")
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	// Atomic rename
	finalFile := filepath.Join(r.dataDir, "accounts.json")
	if err := os.Rename(tempFile, finalFile); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
