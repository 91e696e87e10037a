package inmemdb

import (
	"context"

	"github.com/kelasku/jurnalkelas/core/account"
)

type accountRepository struct {
	db *DB
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *DB) *accountRepository {
	return &accountRepository{db: db}
}

func (repo *accountRepository) CreateAccount(_ context.Context, acct account.Account) (account.Account, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.accounts = append(repo.db.accounts, acct)
	return acct, nil
}

func (repo *accountRepository) QueryAllAccounts(_ context.Context) ([]account.Account, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	accounts := make([]account.Account, len(repo.db.accounts))
	copy(accounts, repo.db.accounts)
	return accounts, nil
}

func (repo *accountRepository) GetAccountByID(_ context.Context, id string) (account.Account, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, acct := range repo.db.accounts {
		if acct.ID == id {
			return acct, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) GetAccountByUsername(_ context.Context, username string) (account.Account, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, acct := range repo.db.accounts {
		if acct.Username == username {
			return acct, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (repo *accountRepository) GetAccountByTeacherID(_ context.Context, teacherID string) (account.Account, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, acct := range repo.db.accounts {
		if acct.TeacherID == teacherID && acct.TeacherID != "" {
			return acct, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}
