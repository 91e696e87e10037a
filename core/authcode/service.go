package authcode

import (
	"context"
	"errors"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/kelasku/jurnalkelas/core"
)

var (
	// errors
	ErrCodeExists   = errors.New("kode autentikasi sudah pernah diterbitkan")
	ErrCodeNotFound = errors.New("kode autentikasi tidak ditemukan")
	ErrCodeUsed     = errors.New("kode autentikasi sudah digunakan")
)

type (
	Repository interface {
		CreateCode(ctx context.Context, code Code) (Code, error)
		GetCode(ctx context.Context, code string) (Code, error) // ErrCodeNotFound when absent
		// QueryAllCodes returns codes in issuance order.
		QueryAllCodes(ctx context.Context) ([]Code, error)
		// MarkCodeUsed stamps the entry; ErrCodeNotFound when absent,
		// ErrCodeUsed when already consumed.
		MarkCodeUsed(ctx context.Context, code, accountID string, usedAt time.Time) (Code, error)
	}

	Service interface {
		Issue(ctx context.Context, nc NewCode) (Code, error)
		IsRedeemable(ctx context.Context, code string) (bool, error)
		Redeem(ctx context.Context, code, accountID string) (Code, error)
		QueryAll(ctx context.Context) ([]Code, error)
	}

	service struct {
		repo Repository
		mu   sync.Mutex // serializes existence check + create
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Issue registers a new code. A code value can only ever be issued once,
// used or not.
func (svc *service) Issue(ctx context.Context, nc NewCode) (Code, error) {
	nc.Code = core.CleanString(nc.Code)
	nc.IssuedBy = core.CleanString(nc.IssuedBy)
	if err := core.Validate.Struct(nc); err != nil {
		return Code{}, err
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if _, err := svc.repo.GetCode(ctx, nc.Code); err == nil {
		return Code{}, core.NewValidationError(ErrCodeExists, core.FieldError{Field: "code", Error: ErrCodeExists.Error()})
	} else if pkgerrors.Cause(err) != ErrCodeNotFound {
		return Code{}, pkgerrors.Wrap(err, "checking code uniqueness")
	}

	code, err := svc.repo.CreateCode(ctx, Code{
		Code:     nc.Code,
		IssuedBy: nc.IssuedBy,
		IssuedAt: time.Now().UTC(),
	})
	return code, pkgerrors.Wrap(err, "creating code")
}

// IsRedeemable reports whether an entry exists for code and is still unused.
func (svc *service) IsRedeemable(ctx context.Context, code string) (bool, error) {
	entry, err := svc.repo.GetCode(ctx, core.CleanString(code))
	if err != nil {
		if pkgerrors.Cause(err) == ErrCodeNotFound {
			return false, nil
		}
		return false, pkgerrors.Wrap(err, "finding code")
	}
	return !entry.Used, nil
}

// Redeem consumes the code on behalf of accountID.
func (svc *service) Redeem(ctx context.Context, code, accountID string) (Code, error) {
	return svc.repo.MarkCodeUsed(ctx, core.CleanString(code), accountID, time.Now().UTC())
}

func (svc *service) QueryAll(ctx context.Context) ([]Code, error) {
	return svc.repo.QueryAllCodes(ctx)
}
