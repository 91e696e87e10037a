package account

import (
	"context"
	"errors"
	"regexp"

	pkgerrors "github.com/pkg/errors"

	"github.com/kelasku/jurnalkelas/core/authcode"
)

// Policy names accepted by configuration.
const (
	PolicyAuthCode       = "authcode"
	PolicyEmployeeNumber = "nip"
)

var (
	nipRegex = regexp.MustCompile(`^[0-9]{18}$`)

	// errors
	ErrInvalidAuthCode   = errors.New("kode autentikasi minimal 4 karakter")
	ErrInvalidNIP        = errors.New("NIP harus terdiri dari 18 digit angka")
	ErrCodeNotRedeemable = errors.New("kode autentikasi tidak valid atau sudah digunakan")
	ErrNIPExists         = errors.New("NIP sudah terdaftar")
)

// TeacherIdentityPolicy decides how a prospective teacher proves their
// identity at registration. Exactly one policy is selected per deployment.
type TeacherIdentityPolicy interface {
	Name() string
	// Validate reports whether the identifier is well-formed.
	Validate(id string) bool
	// InvalidError is the caller-visible error for a malformed identifier.
	InvalidError() error
	// CheckAvailable ensures the identifier can still be claimed;
	// returns ErrCodeNotRedeemable or ErrNIPExists when it cannot.
	CheckAvailable(ctx context.Context, id string) error
	// Consume claims the identifier for a freshly created account.
	// A no-op for policies without claim bookkeeping.
	Consume(ctx context.Context, id, accountID string) error
}

// AuthCodePolicy validates teacher registrations against admin-issued
// single-use codes held in the auth-code registry.
type AuthCodePolicy struct {
	codes authcode.Service
}

var _ TeacherIdentityPolicy = (*AuthCodePolicy)(nil)

func NewAuthCodePolicy(codes authcode.Service) *AuthCodePolicy {
	return &AuthCodePolicy{codes: codes}
}

func (p *AuthCodePolicy) Name() string { return PolicyAuthCode }

func (p *AuthCodePolicy) Validate(id string) bool {
	return len(id) >= 4 // id is pre-trimmed by NewAccount.Clean
}

func (p *AuthCodePolicy) InvalidError() error { return ErrInvalidAuthCode }

func (p *AuthCodePolicy) CheckAvailable(ctx context.Context, id string) error {
	redeemable, err := p.codes.IsRedeemable(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(err, "checking code redeemability")
	}
	if !redeemable {
		return ErrCodeNotRedeemable
	}
	return nil
}

func (p *AuthCodePolicy) Consume(ctx context.Context, id, accountID string) error {
	_, err := p.codes.Redeem(ctx, id, accountID)
	return err
}

// EmployeeNumberPolicy validates teacher registrations by NIP: the fixed
// 18-digit civil-servant employee number, unique among accounts.
type EmployeeNumberPolicy struct {
	repo Repository
}

var _ TeacherIdentityPolicy = (*EmployeeNumberPolicy)(nil)

func NewEmployeeNumberPolicy(repo Repository) *EmployeeNumberPolicy {
	return &EmployeeNumberPolicy{repo: repo}
}

func (p *EmployeeNumberPolicy) Name() string { return PolicyEmployeeNumber }

func (p *EmployeeNumberPolicy) Validate(id string) bool {
	return nipRegex.MatchString(id)
}

func (p *EmployeeNumberPolicy) InvalidError() error { return ErrInvalidNIP }

func (p *EmployeeNumberPolicy) CheckAvailable(ctx context.Context, id string) error {
	if _, err := p.repo.GetAccountByTeacherID(ctx, id); err == nil {
		return ErrNIPExists
	} else if pkgerrors.Cause(err) != ErrNotFound {
		return pkgerrors.Wrap(err, "checking NIP uniqueness")
	}
	return nil
}

func (p *EmployeeNumberPolicy) Consume(context.Context, string, string) error {
	return nil // uniqueness within the account registry is the only bookkeeping
}
