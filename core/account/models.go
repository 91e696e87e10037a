package account

import (
	"time"

	"github.com/kelasku/jurnalkelas/core"
)

// Roles
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin" // not self-registrable; pre-provisioned accounts only
)

// Account is one registered person. Created only via Service.Register;
// never updated in place by this subsystem.
type Account struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	FullName       string    `json:"namaLengkap"`
	Email          string    `json:"email,omitempty"`
	Role           string    `json:"role"`
	NISN           string    `json:"nisn,omitempty"`          // student only
	TeacherID      string    `json:"teacherId,omitempty"`     // teacher only: auth code or NIP
	Subject        string    `json:"mapelMengajar,omitempty"` // teacher only
	TaughtClass    string    `json:"kelasMengajar,omitempty"` // teacher only
	PasswordDigest string    `json:"-"`
	CreatedAt      time.Time `json:"createdAt"` // UTC
}

func (a *Account) IsStudent() bool { return a.Role == RoleStudent }
func (a *Account) IsTeacher() bool { return a.Role == RoleTeacher }
func (a *Account) IsAdmin() bool   { return a.Role == RoleAdmin }

// View is an Account stripped of its password digest, safe to hand to a caller.
type View struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	FullName    string    `json:"namaLengkap"`
	Email       string    `json:"email,omitempty"`
	Role        string    `json:"role"`
	NISN        string    `json:"nisn,omitempty"`
	TeacherID   string    `json:"teacherId,omitempty"`
	Subject     string    `json:"mapelMengajar,omitempty"`
	TaughtClass string    `json:"kelasMengajar,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (a Account) View() View {
	return View{
		ID:          a.ID,
		Username:    a.Username,
		FullName:    a.FullName,
		Email:       a.Email,
		Role:        a.Role,
		NISN:        a.NISN,
		TeacherID:   a.TeacherID,
		Subject:     a.Subject,
		TaughtClass: a.TaughtClass,
		CreatedAt:   a.CreatedAt,
	}
}

// NewAccount contains information needed to register a new Account.
type NewAccount struct {
	Username    string `json:"username" validate:"required"`
	Password    string `json:"password" validate:"required"`
	FullName    string `json:"namaLengkap" validate:"required"`
	Role        string `json:"role" validate:"required,oneof=student teacher"`
	Email       string `json:"email"`
	NISN        string `json:"nisn"`
	TeacherID   string `json:"teacherId"`
	Subject     string `json:"mapelMengajar"`
	TaughtClass string `json:"kelasMengajar"`
}

// Clean normalizes all inputs. Username keeps its case: the uniqueness
// and lookup rules are case-sensitive, as is the stored value.
func (na *NewAccount) Clean() {
	na.Username = core.CleanString(na.Username)
	na.FullName = core.CleanString(na.FullName)
	na.Role = core.CleanString(na.Role, true /* lower */)
	na.Email = core.CleanString(na.Email, true /* lower */)
	na.NISN = core.CleanString(na.NISN)
	na.TeacherID = core.CleanString(na.TeacherID)
	na.Subject = core.CleanString(na.Subject)
	na.TaughtClass = core.CleanString(na.TaughtClass)
}

// SeedAccount is a pre-provisioned demo credential. Seeds bypass the
// hashing service entirely (plaintext compare) and exist only so the demo
// can be logged into before any registration has happened.
type SeedAccount struct {
	ID       string
	Username string
	Password string
	FullName string
	Email    string
	Role     string
}

func (s SeedAccount) view() View {
	return View{
		ID:       s.ID,
		Username: s.Username,
		FullName: s.FullName,
		Email:    s.Email,
		Role:     s.Role,
	}
}

// DemoAccounts are the stock demo credentials, injected into the Service
// by the composition root. Alternate sets may be injected in tests.
var DemoAccounts = []SeedAccount{
	{ID: "demo-admin", Username: "admin", Password: "admin123", FullName: "Administrator", Role: RoleAdmin},
	{ID: "demo-guru-1", Username: "budi.guru", Password: "guru123", FullName: "Budi Santoso", Email: "budi@sekolah.sch.id", Role: RoleTeacher},
	{ID: "demo-guru-2", Username: "siti.guru", Password: "guru456", FullName: "Siti Rahayu", Email: "siti@sekolah.sch.id", Role: RoleTeacher},
}
