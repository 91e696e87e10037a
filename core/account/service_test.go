package account_test

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"

	"github.com/kelasku/jurnalkelas/core"
	"github.com/kelasku/jurnalkelas/core/account"
	"github.com/kelasku/jurnalkelas/core/authcode"
	"github.com/kelasku/jurnalkelas/core/hash"
	emailsvc "github.com/kelasku/jurnalkelas/services/email"
	inmemdb "github.com/kelasku/jurnalkelas/storage/database/inmem"
)

type testEnv struct {
	acctSvc account.Service
	codeSvc authcode.Service
}

func setup(t *testing.T, policyName string) testEnv {
	t.Helper()

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	acctRepo := inmemdb.NewAccountRepository(db)
	codeSvc := authcode.NewService(inmemdb.NewAuthCodeRepository(db))

	var policy account.TeacherIdentityPolicy
	if policyName == account.PolicyEmployeeNumber {
		policy = account.NewEmployeeNumberPolicy(acctRepo)
	} else {
		policy = account.NewAuthCodePolicy(codeSvc)
	}

	acctSvc := account.NewService(
		acctRepo,
		policy,
		hash.New(hash.AlgorithmSHA256),
		account.DemoAccounts,
		emailsvc.NewConsoleServiceMock(),
		core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
	)
	return testEnv{acctSvc: acctSvc, codeSvc: codeSvc}
}

func newStudent() account.NewAccount {
	return account.NewAccount{
		Username: "sari_w",
		Password: "Belajar1!",
		FullName: "Sari Wulandari",
		Role:     account.RoleStudent,
		NISN:     "0051234567",
	}
}

func newTeacher(teacherID string) account.NewAccount {
	return account.NewAccount{
		Username:    "pak_budi",
		Password:    "Mengajar1!",
		FullName:    "Budi Santoso",
		Role:        account.RoleTeacher,
		Email:       "budi@sekolah.sch.id",
		TeacherID:   teacherID,
		Subject:     "Matematika",
		TaughtClass: "7A",
	}
}

func wantFieldError(t *testing.T, err, wantCause error, wantField string) {
	t.Helper()
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v (%[1]T), want *core.ValidationError", err)
	}
	if verr.Err != wantCause {
		t.Errorf("cause = %v, want %v", verr.Err, wantCause)
	}
	if len(verr.Fields) == 0 || verr.Fields[0].Field != wantField {
		t.Errorf("fields = %+v, want field %q", verr.Fields, wantField)
	}
}

func Test_service_RegisterAuthenticate(t *testing.T) {
	env := setup(t, account.PolicyAuthCode)
	ctx := context.Background()

	acct, err := env.acctSvc.Register(ctx, newStudent())
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if acct.ID == "" {
		t.Error("ID not set")
	}
	if acct.PasswordDigest == "Belajar1!" || acct.PasswordDigest == "" {
		t.Error("password not digested")
	}
	if acct.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}

	view, err := env.acctSvc.Authenticate(ctx, "sari_w", "Belajar1!")
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}
	if view.ID != acct.ID || view.Username != "sari_w" || view.FullName != "Sari Wulandari" || view.NISN != "0051234567" {
		t.Errorf("view = %+v does not match registered account", view)
	}

	// wrong password and unknown username fail with the same error
	if _, err = env.acctSvc.Authenticate(ctx, "sari_w", "salah"); err != account.ErrAuthenticationFailed {
		t.Errorf("wrong password: error = %v, want %v", err, account.ErrAuthenticationFailed)
	}
	if _, err = env.acctSvc.Authenticate(ctx, "siapa_ini", "Belajar1!"); err != account.ErrAuthenticationFailed {
		t.Errorf("unknown username: error = %v, want %v", err, account.ErrAuthenticationFailed)
	}
}

func Test_service_Register_rejections(t *testing.T) {
	env := setup(t, account.PolicyAuthCode)
	ctx := context.Background()

	if _, err := env.acctSvc.Register(ctx, newStudent()); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}

	t.Run("invalid username", func(t *testing.T) {
		na := newStudent()
		na.Username = "1sari"
		_, err := env.acctSvc.Register(ctx, na)
		wantFieldError(t, err, account.ErrInvalidUsername, "username")
	})

	t.Run("weak password names every missing class", func(t *testing.T) {
		na := newStudent()
		na.Username = "sari_dua"
		na.Password = "belajar"
		_, err := env.acctSvc.Register(ctx, na)
		var verr *core.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("error = %v (%[1]T), want *core.ValidationError", err)
		}
		if verr.Err != account.ErrWeakPassword {
			t.Errorf("cause = %v, want %v", verr.Err, account.ErrWeakPassword)
		}
		if len(verr.Fields) != 3 { // missing upper, digit, special
			t.Errorf("field errors = %+v, want 3", verr.Fields)
		}
	})

	t.Run("password too similar to username", func(t *testing.T) {
		na := newStudent()
		na.Username = "sari_dua"
		na.Password = "Sari_dua1!"
		_, err := env.acctSvc.Register(ctx, na)
		wantFieldError(t, err, account.ErrPasswordTooSimilar, "password")
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := env.acctSvc.Register(ctx, newStudent())
		wantFieldError(t, err, account.ErrUsernameExists, "username")
	})

	t.Run("admin role not registrable", func(t *testing.T) {
		na := newStudent()
		na.Username = "sari_tiga"
		na.Role = account.RoleAdmin
		if _, err := env.acctSvc.Register(ctx, na); err == nil {
			t.Error("expected validation error for admin role")
		}
	})
}

func Test_service_Register_authCodePolicy(t *testing.T) {
	env := setup(t, account.PolicyAuthCode)
	ctx := context.Background()

	if _, err := env.codeSvc.Issue(ctx, authcode.NewCode{Code: "GURU2025", IssuedBy: "admin"}); err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	t.Run("code too short", func(t *testing.T) {
		na := newTeacher("ab")
		_, err := env.acctSvc.Register(ctx, na)
		wantFieldError(t, err, account.ErrInvalidAuthCode, "teacherId")
	})

	t.Run("unknown code", func(t *testing.T) {
		na := newTeacher("TIDAKADA")
		_, err := env.acctSvc.Register(ctx, na)
		wantFieldError(t, err, account.ErrCodeNotRedeemable, "teacherId")
	})

	t.Run("invalid email checked after identity", func(t *testing.T) {
		na := newTeacher("GURU2025")
		na.Email = "budi@sekolah"
		_, err := env.acctSvc.Register(ctx, na)
		wantFieldError(t, err, account.ErrInvalidEmail, "email")
	})

	t.Run("subject outside curriculum", func(t *testing.T) {
		na := newTeacher("GURU2025")
		na.Subject = "Olahraga"
		_, err := env.acctSvc.Register(ctx, na)
		wantFieldError(t, err, account.ErrInvalidSubject, "mapelMengajar")
	})

	t.Run("valid registration consumes the code", func(t *testing.T) {
		acct, err := env.acctSvc.Register(ctx, newTeacher("GURU2025"))
		if err != nil {
			t.Fatalf("Register() failed: %v", err)
		}
		if acct.Subject != "Matematika" || acct.TeacherID != "GURU2025" {
			t.Errorf("teacher fields not kept: %+v", acct)
		}

		redeemable, err := env.codeSvc.IsRedeemable(ctx, "GURU2025")
		if err != nil {
			t.Fatalf("IsRedeemable() failed: %v", err)
		}
		if redeemable {
			t.Error("code still redeemable after registration")
		}

		// a second teacher cannot reuse it
		na := newTeacher("GURU2025")
		na.Username = "bu_siti"
		_, err = env.acctSvc.Register(ctx, na)
		wantFieldError(t, err, account.ErrCodeNotRedeemable, "teacherId")
	})
}

func Test_service_Register_employeeNumberPolicy(t *testing.T) {
	env := setup(t, account.PolicyEmployeeNumber)
	ctx := context.Background()
	nip := "196512301990031007"

	t.Run("malformed NIP", func(t *testing.T) {
		na := newTeacher("12345")
		_, err := env.acctSvc.Register(ctx, na)
		wantFieldError(t, err, account.ErrInvalidNIP, "teacherId")
	})

	t.Run("valid NIP registers", func(t *testing.T) {
		if _, err := env.acctSvc.Register(ctx, newTeacher(nip)); err != nil {
			t.Fatalf("Register() failed: %v", err)
		}
	})

	t.Run("duplicate NIP", func(t *testing.T) {
		na := newTeacher(nip)
		na.Username = "bu_siti"
		_, err := env.acctSvc.Register(ctx, na)
		wantFieldError(t, err, account.ErrNIPExists, "teacherId")
	})
}

func Test_service_Authenticate_seeds(t *testing.T) {
	env := setup(t, account.PolicyAuthCode)
	ctx := context.Background()

	view, err := env.acctSvc.Authenticate(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}
	if view.ID != "demo-admin" || view.Role != account.RoleAdmin {
		t.Errorf("view = %+v, want demo-admin/admin", view)
	}

	if _, err = env.acctSvc.Authenticate(ctx, "admin", "admin124"); err != account.ErrAuthenticationFailed {
		t.Errorf("wrong seed password: error = %v, want %v", err, account.ErrAuthenticationFailed)
	}

	if _, err = env.acctSvc.Authenticate(ctx, "budi.guru", "guru123"); err != nil {
		t.Errorf("seed teacher login failed: %v", err)
	}
}

// failingPolicy accepts any identifier but fails to consume it.
type failingPolicy struct {
	account.TeacherIdentityPolicy
	consumeErr error
}

func (p failingPolicy) Validate(string) bool { return true }

func (p failingPolicy) CheckAvailable(context.Context, string) error { return nil }

func (p failingPolicy) Consume(context.Context, string, string) error {
	return p.consumeErr
}

func Test_service_Register_consumeFailureNotFatal(t *testing.T) {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	acctSvc := account.NewService(
		inmemdb.NewAccountRepository(db),
		failingPolicy{consumeErr: errors.New("boom")},
		hash.New(hash.AlgorithmSHA256),
		nil,
		emailsvc.NewConsoleServiceMock(),
		core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
	)

	// registration succeeds even though the identifier claim fails
	acct, err := acctSvc.Register(context.Background(), newTeacher("GURU2025"))
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if _, err = acctSvc.Authenticate(context.Background(), acct.Username, "Mengajar1!"); err != nil {
		t.Errorf("Authenticate() failed: %v", err)
	}
}
