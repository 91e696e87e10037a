package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kelasku/jurnalkelas/core/account"
)

type accountRow struct {
	ID             string    `db:"id"`
	Username       string    `db:"username"`
	FullName       string    `db:"full_name"`
	Email          string    `db:"email"`
	Role           string    `db:"role"`
	NISN           string    `db:"nisn"`
	TeacherID      string    `db:"teacher_id"`
	Subject        string    `db:"subject"`
	TaughtClass    string    `db:"taught_class"`
	PasswordDigest string    `db:"password_digest"`
	CreatedAt      time.Time `db:"created_at"`
}

const accountColumns = `id, username, full_name, email, role, nisn, teacher_id, subject, taught_class, password_digest, created_at`

func (r accountRow) domain() account.Account {
	return account.Account{
		ID:             r.ID,
		Username:       r.Username,
		FullName:       r.FullName,
		Email:          r.Email,
		Role:           r.Role,
		NISN:           r.NISN,
		TeacherID:      r.TeacherID,
		Subject:        r.Subject,
		TaughtClass:    r.TaughtClass,
		PasswordDigest: r.PasswordDigest,
		CreatedAt:      r.CreatedAt,
	}
}

type accountRepository struct {
	db *sqlx.DB
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *sqlx.DB) *accountRepository {
	return &accountRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to account.ErrNotFound
func (repo accountRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return account.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo accountRepository) CreateAccount(ctx context.Context, acct account.Account) (account.Account, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO account (`+accountColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		acct.ID, acct.Username, acct.FullName, acct.Email, acct.Role,
		acct.NISN, acct.TeacherID, acct.Subject, acct.TaughtClass,
		acct.PasswordDigest, acct.CreatedAt.UTC(),
	)
	if err != nil {
		return account.Account{}, errors.Wrap(err, "inserting account")
	}
	return acct, nil
}

func (repo accountRepository) QueryAllAccounts(ctx context.Context) ([]account.Account, error) {
	var rows []accountRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT `+accountColumns+` FROM account ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "querying accounts")
	}

	accounts := make([]account.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, row.domain())
	}
	return accounts, nil
}

func (repo accountRepository) GetAccountByID(ctx context.Context, id string) (account.Account, error) {
	var row accountRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+accountColumns+` FROM account WHERE id = $1`, id)
	if err != nil {
		return account.Account{}, repo.trapNoRowsErr(err, "finding account by ID")
	}
	return row.domain(), nil
}

func (repo accountRepository) GetAccountByUsername(ctx context.Context, username string) (account.Account, error) {
	var row accountRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+accountColumns+` FROM account WHERE username = $1`, username)
	if err != nil {
		return account.Account{}, repo.trapNoRowsErr(err, "finding account by username")
	}
	return row.domain(), nil
}

func (repo accountRepository) GetAccountByTeacherID(ctx context.Context, teacherID string) (account.Account, error) {
	var row accountRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+accountColumns+` FROM account WHERE teacher_id = $1 AND teacher_id <> ''`, teacherID)
	if err != nil {
		return account.Account{}, repo.trapNoRowsErr(err, "finding account by teacher identifier")
	}
	return row.domain(), nil
}
