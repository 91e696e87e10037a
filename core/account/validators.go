package account

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pmezard/go-difflib/difflib"
)

var (
	usernameRegex = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{2,19}$`)
	emailRegex    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// password policy
	specialRegex = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	pwdMaxSim    = .7
)

// Subjects is the curriculum whitelist a teacher account must teach one of.
// Order is fixed: it is what the registration form presents.
var Subjects = []string{
	"Pendidikan Agama",
	"PPKn",
	"Bahasa Indonesia",
	"Bahasa Inggris",
	"Matematika",
	"Fisika",
	"Kimia",
	"Biologi",
	"Ekonomi",
	"Geografi",
	"Sejarah",
	"Sosiologi",
	"Informatika",
	"Seni Budaya",
	"PJOK",
	"Prakarya",
	"Bimbingan Konseling",
}

// ValidUsername reports whether s is 3-20 characters, starts with a letter
// and contains only letters, digits and underscores.
func ValidUsername(s string) bool {
	return usernameRegex.MatchString(s)
}

// ValidEmail reports whether s has a conventional local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailRegex.MatchString(s) && strings.Count(s, "@") == 1
}

// ValidSubject is an exact, case-sensitive membership test against Subjects.
func ValidSubject(s string) bool {
	for _, subj := range Subjects {
		if s == subj {
			return true
		}
	}
	return false
}

// PasswordStrength reports which character classes a password satisfies.
// Each check is independent so the caller can name exactly what is missing.
type PasswordStrength struct {
	Upper   bool `json:"upper"`
	Lower   bool `json:"lower"`
	Digit   bool `json:"digit"`
	Special bool `json:"special"`
}

func (ps PasswordStrength) Strong() bool {
	return ps.Upper && ps.Lower && ps.Digit && ps.Special
}

// Missing returns the unmet requirements as user-facing labels.
func (ps PasswordStrength) Missing() []string {
	var missing []string
	if !ps.Upper {
		missing = append(missing, "huruf besar")
	}
	if !ps.Lower {
		missing = append(missing, "huruf kecil")
	}
	if !ps.Digit {
		missing = append(missing, "angka")
	}
	if !ps.Special {
		missing = append(missing, "karakter khusus")
	}
	return missing
}

// CheckPasswordStrength applies the password policy:
// at least 1 uppercase character, 1 lowercase character, 1 digit and
// 1 special character.
func CheckPasswordStrength(pwd string) PasswordStrength {
	var ps PasswordStrength
	for _, char := range pwd {
		if !ps.Upper && unicode.IsUpper(char) {
			ps.Upper = true
		}
		if !ps.Lower && unicode.IsLower(char) {
			ps.Lower = true
		}
		if !ps.Digit && unicode.IsDigit(char) {
			ps.Digit = true
		}
	}
	ps.Special = specialRegex.MatchString(pwd)
	return ps
}

// tooSimilar reports whether pwd closely matches any of the account attributes.
func tooSimilar(pwd string, attrs ...string) bool {
	lpwd := strings.ToLower(pwd)
	for _, attr := range attrs {
		if attr == "" {
			continue
		}
		ratio := difflib.NewMatcher(
			strings.Split(lpwd, ""),
			strings.Split(strings.ToLower(attr), ""),
		).QuickRatio()
		if ratio >= pwdMaxSim {
			return true
		}
	}
	return false
}
