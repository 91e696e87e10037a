package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kelasku/jurnalkelas/core/authcode"
)

type authCodeRow struct {
	Code            string       `db:"code"`
	Used            bool         `db:"used"`
	IssuedBy        string       `db:"issued_by"`
	IssuedAt        time.Time    `db:"issued_at"`
	UsedByAccountID string       `db:"used_by_account_id"`
	UsedAt          sql.NullTime `db:"used_at"`
}

const authCodeColumns = `code, used, issued_by, issued_at, used_by_account_id, used_at`

func (r authCodeRow) domain() authcode.Code {
	code := authcode.Code{
		Code:            r.Code,
		Used:            r.Used,
		IssuedBy:        r.IssuedBy,
		IssuedAt:        r.IssuedAt,
		UsedByAccountID: r.UsedByAccountID,
	}
	if r.UsedAt.Valid {
		usedAt := r.UsedAt.Time
		code.UsedAt = &usedAt
	}
	return code
}

type authCodeRepository struct {
	db *sqlx.DB
}

var _ authcode.Repository = (*authCodeRepository)(nil) // interface compliance check

func NewAuthCodeRepository(db *sqlx.DB) *authCodeRepository {
	return &authCodeRepository{db: db}
}

func (repo authCodeRepository) CreateCode(ctx context.Context, code authcode.Code) (authcode.Code, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO auth_code (code, used, issued_by, issued_at, used_by_account_id)
		 VALUES ($1, $2, $3, $4, $5)`,
		code.Code, code.Used, code.IssuedBy, code.IssuedAt.UTC(), code.UsedByAccountID,
	)
	if err != nil {
		return authcode.Code{}, errors.Wrap(err, "inserting auth code")
	}
	return code, nil
}

func (repo authCodeRepository) GetCode(ctx context.Context, code string) (authcode.Code, error) {
	var row authCodeRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+authCodeColumns+` FROM auth_code WHERE code = $1`, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return authcode.Code{}, authcode.ErrCodeNotFound
		}
		return authcode.Code{}, errors.Wrap(err, "finding auth code")
	}
	return row.domain(), nil
}

func (repo authCodeRepository) QueryAllCodes(ctx context.Context) ([]authcode.Code, error) {
	var rows []authCodeRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT `+authCodeColumns+` FROM auth_code ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "querying auth codes")
	}

	codes := make([]authcode.Code, 0, len(rows))
	for _, row := range rows {
		codes = append(codes, row.domain())
	}
	return codes, nil
}

func (repo authCodeRepository) MarkCodeUsed(ctx context.Context, code, accountID string, usedAt time.Time) (authcode.Code, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE auth_code SET used = TRUE, used_by_account_id = $2, used_at = $3
		 WHERE code = $1 AND used = FALSE`,
		code, accountID, usedAt.UTC(),
	)
	if err != nil {
		return authcode.Code{}, errors.Wrap(err, "marking auth code used")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return authcode.Code{}, errors.Wrap(err, "marking auth code used")
	}
	if affected == 0 {
		// either unknown or already consumed; disambiguate for the caller
		if _, err := repo.GetCode(ctx, code); err != nil {
			return authcode.Code{}, err
		}
		return authcode.Code{}, authcode.ErrCodeUsed
	}
	return repo.GetCode(ctx, code)
}
