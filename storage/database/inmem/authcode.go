package inmemdb

import (
	"context"
	"time"

	"github.com/kelasku/jurnalkelas/core/authcode"
)

type authCodeRepository struct {
	db *DB
}

var _ authcode.Repository = (*authCodeRepository)(nil) // interface compliance check

func NewAuthCodeRepository(db *DB) *authCodeRepository {
	return &authCodeRepository{db: db}
}

func (repo *authCodeRepository) CreateCode(_ context.Context, code authcode.Code) (authcode.Code, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.codes = append(repo.db.codes, code)
	return code, nil
}

func (repo *authCodeRepository) GetCode(_ context.Context, code string) (authcode.Code, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, entry := range repo.db.codes {
		if entry.Code == code {
			return entry, nil
		}
	}
	return authcode.Code{}, authcode.ErrCodeNotFound
}

func (repo *authCodeRepository) QueryAllCodes(_ context.Context) ([]authcode.Code, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	codes := make([]authcode.Code, len(repo.db.codes))
	copy(codes, repo.db.codes)
	return codes, nil
}

func (repo *authCodeRepository) MarkCodeUsed(_ context.Context, code, accountID string, usedAt time.Time) (authcode.Code, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i := range repo.db.codes {
		entry := &repo.db.codes[i]
		if entry.Code != code {
			continue
		}
		if entry.Used {
			return authcode.Code{}, authcode.ErrCodeUsed
		}
		entry.Used = true
		entry.UsedByAccountID = accountID
		entry.UsedAt = &usedAt
		return *entry, nil
	}
	return authcode.Code{}, authcode.ErrCodeNotFound
}
