package account

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sync"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/kelasku/jurnalkelas/core"
)

var (
	// errors
	ErrNotFound             = errors.New("akun tidak ditemukan")
	ErrAuthenticationFailed = errors.New("username atau password salah")
	ErrUsernameExists       = errors.New("username sudah terdaftar")
	ErrInvalidUsername      = errors.New("username harus 3-20 karakter, diawali huruf, dan hanya berisi huruf, angka, atau garis bawah")
	ErrWeakPassword         = errors.New("password kurang kuat")
	ErrPasswordTooSimilar   = errors.New("password terlalu mirip dengan data akun")
	ErrInvalidEmail         = errors.New("format email tidak valid")
	ErrInvalidSubject       = errors.New("mata pelajaran tidak terdaftar di kurikulum")
)

type (
	// Repository persists accounts. It does not re-validate uniqueness:
	// the Service serializes its uniqueness checks with CreateAccount.
	Repository interface {
		CreateAccount(ctx context.Context, acct Account) (Account, error)
		// QueryAllAccounts returns accounts in insertion order.
		QueryAllAccounts(ctx context.Context) ([]Account, error)
		GetAccountByID(ctx context.Context, id string) (Account, error)
		GetAccountByUsername(ctx context.Context, username string) (Account, error)
		GetAccountByTeacherID(ctx context.Context, teacherID string) (Account, error)
	}

	// Hasher digests a registration secret and verifies a login secret.
	Hasher interface {
		Hash(secret string) (string, error)
		Verify(secret, digest string) bool
	}

	Service interface {
		Register(ctx context.Context, na NewAccount) (Account, error)
		// Authenticate returns ErrAuthenticationFailed for both an unknown
		// username and a wrong password: callers cannot probe for account
		// existence.
		Authenticate(ctx context.Context, username, password string) (View, error)
		QueryAll(ctx context.Context) ([]Account, error)
		GetByID(ctx context.Context, id string) (Account, error)
		GetByUsername(ctx context.Context, username string) (Account, error)
	}

	service struct {
		repo    Repository
		policy  TeacherIdentityPolicy
		hasher  Hasher
		seeds   []SeedAccount
		mailSvc core.EmailService
		logger  core.Logger

		mu sync.Mutex // serializes uniqueness checks with the append
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	policy TeacherIdentityPolicy,
	hasher Hasher,
	seeds []SeedAccount,
	mailSvc core.EmailService,
	logger core.Logger,
) Service {
	return &service{
		repo:    repo,
		policy:  policy,
		hasher:  hasher,
		seeds:   seeds,
		mailSvc: mailSvc,
		logger:  logger,
	}
}

// Register creates a new account. Checks run in a fixed order and the first
// failing one aborts with its specific error; nothing is written until all
// checks pass.
func (svc *service) Register(ctx context.Context, na NewAccount) (Account, error) {
	na.Clean()

	// required fields
	if err := core.Validate.Struct(na); err != nil {
		return Account{}, err
	}

	// username shape
	if !ValidUsername(na.Username) {
		return Account{}, fieldError(ErrInvalidUsername, "username")
	}

	// password policy: name every unmet character class
	if strength := CheckPasswordStrength(na.Password); !strength.Strong() {
		flds := make([]core.FieldError, 0, 4)
		for _, m := range strength.Missing() {
			flds = append(flds, core.FieldError{Field: "password", Error: "password harus memuat " + m})
		}
		return Account{}, core.NewValidationError(ErrWeakPassword, flds...)
	}
	if tooSimilar(na.Password, na.Username, na.FullName, na.Email) {
		return Account{}, fieldError(ErrPasswordTooSimilar, "password")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	// username uniqueness
	if _, err := svc.repo.GetAccountByUsername(ctx, na.Username); err == nil {
		return Account{}, fieldError(ErrUsernameExists, "username")
	} else if pkgerrors.Cause(err) != ErrNotFound {
		return Account{}, pkgerrors.Wrap(err, "checking username uniqueness")
	}

	// teacher identity, email and subject
	if na.Role == RoleTeacher {
		if !svc.policy.Validate(na.TeacherID) {
			return Account{}, fieldError(svc.policy.InvalidError(), "teacherId")
		}
		if err := svc.policy.CheckAvailable(ctx, na.TeacherID); err != nil {
			switch pkgerrors.Cause(err) {
			case ErrCodeNotRedeemable, ErrNIPExists:
				return Account{}, fieldError(err, "teacherId")
			default:
				return Account{}, pkgerrors.Wrap(err, "checking teacher identifier")
			}
		}
		if !ValidEmail(na.Email) {
			return Account{}, fieldError(ErrInvalidEmail, "email")
		}
		if !ValidSubject(na.Subject) {
			return Account{}, fieldError(ErrInvalidSubject, "mapelMengajar")
		}
	}

	digest, err := svc.hasher.Hash(na.Password)
	if err != nil {
		return Account{}, pkgerrors.Wrap(err, "hashing password")
	}

	acct := Account{
		ID:             uuid.New().String(),
		Username:       na.Username,
		FullName:       na.FullName,
		Role:           na.Role,
		PasswordDigest: digest,
		CreatedAt:      time.Now().UTC(),
	}
	switch na.Role {
	case RoleStudent:
		acct.NISN = na.NISN
	case RoleTeacher:
		acct.Email = na.Email
		acct.TeacherID = na.TeacherID
		acct.Subject = na.Subject
		acct.TaughtClass = na.TaughtClass
	}

	acct, err = svc.repo.CreateAccount(ctx, acct)
	if err != nil {
		return Account{}, pkgerrors.Wrap(err, "creating account")
	}

	if na.Role == RoleTeacher {
		// The account is already durably created: a failure to claim the
		// identifier is logged for an administrator, not surfaced to the
		// registering user.
		if err := svc.policy.Consume(ctx, na.TeacherID, acct.ID); err != nil {
			svc.logger.Error(fmt.Sprintf("consuming teacher identifier %q for account %s: %v", na.TeacherID, acct.ID, err), err)
		}
		svc.sendWelcomeMail(acct)
	}
	return acct, nil
}

func (svc *service) Authenticate(ctx context.Context, username, password string) (View, error) {
	username = core.CleanString(username)

	acct, err := svc.repo.GetAccountByUsername(ctx, username)
	if err != nil {
		if pkgerrors.Cause(err) == ErrNotFound {
			// Demo seed accounts: plaintext compare, deliberately kept
			// apart from the hashed-credential path.
			if seed, ok := svc.matchSeed(username, password); ok {
				return seed.view(), nil
			}
			return View{}, ErrAuthenticationFailed
		}
		return View{}, pkgerrors.Wrap(err, "finding account by username")
	}
	if !svc.hasher.Verify(password, acct.PasswordDigest) {
		return View{}, ErrAuthenticationFailed
	}
	return acct.View(), nil
}

func (svc *service) QueryAll(ctx context.Context) ([]Account, error) {
	return svc.repo.QueryAllAccounts(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Account, error) {
	return svc.repo.GetAccountByID(ctx, id)
}

func (svc *service) GetByUsername(ctx context.Context, username string) (Account, error) {
	return svc.repo.GetAccountByUsername(ctx, core.CleanString(username))
}

func (svc *service) matchSeed(username, password string) (SeedAccount, bool) {
	for _, seed := range svc.seeds {
		if seed.Username == username && seed.Password == password {
			return seed, true
		}
	}
	return SeedAccount{}, false
}

func (svc *service) sendWelcomeMail(acct Account) {
	if svc.mailSvc == nil || acct.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: acct.FullName, Address: acct.Email}},
		Subject: "Selamat datang di Jurnal Kelas",
		BodyStr: fmt.Sprintf(
			"Halo %s,\r\n\r\nAkun guru Anda untuk mata pelajaran %s sudah aktif. Silakan masuk dengan username %q.\r\n",
			acct.FullName, acct.Subject, acct.Username),
	})
}

func fieldError(err error, field string) error {
	return core.NewValidationError(err, core.FieldError{Field: field, Error: err.Error()})
}
