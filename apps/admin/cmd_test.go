package main

import (
	"context"
	"log"
	"os"
	"testing"

	"golang.org/x/term"

	"github.com/kelasku/jurnalkelas/core/account"
	"github.com/kelasku/jurnalkelas/core/authcode"
	"github.com/kelasku/jurnalkelas/core/hash"
	inmemdb "github.com/kelasku/jurnalkelas/storage/database/inmem"
)

func setup(t *testing.T) *commandLine {
	t.Helper()
	logger = log.New(os.Stdout, "TEST : ", log.LstdFlags)

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	return &commandLine{
		acctRepo: inmemdb.NewAccountRepository(db),
		codeSvc:  authcode.NewService(inmemdb.NewAuthCodeRepository(db)),
		hasher:   hash.New(hash.AlgorithmSHA256),
	}
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_issueCode(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no code", args: []string{"issuecode"}, wantErr: errHelp},
		{name: "issue", args: []string{"issuecode", "-code", "GURU2025"}},
		{name: "issue with issuer", args: []string{"issuecode", "-code", "GURU2026", "-issuer", "kepala-sekolah"}},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	codes, err := cli.codeSvc.QueryAll(context.Background())
	if err != nil {
		t.Fatalf("QueryAll() failed: %v", err)
	}
	if len(codes) != 2 {
		t.Fatalf("got %d codes, want 2", len(codes))
	}
	if codes[0].IssuedBy != "admin-cli" || codes[1].IssuedBy != "kepala-sekolah" {
		t.Errorf("issuers = %q, %q; want admin-cli, kepala-sekolah", codes[0].IssuedBy, codes[1].IssuedBy)
	}
}

func Test_commandLine_addAdmin(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no username", args: []string{"addadmin", "-name", "Kepala Sekolah"}, wantErr: errHelp},
		{name: "no name", args: []string{"addadmin", "-username", "kepsek"}, wantErr: errHelp},
		{name: "no password", args: []string{"addadmin", "-username", "kepsek", "-name", "Kepala Sekolah"}, wantErr: errHelp},
		{name: "bad username", args: []string{"addadmin", "-username", "1kepsek", "-name", "Kepala Sekolah"}, pwd: "Rahasia1!", wantErr: account.ErrInvalidUsername},
		{name: "create", args: []string{"addadmin", "-username", "kepsek", "-name", "Kepala Sekolah", "-email", "kepsek@sekolah.sch.id"}, pwd: "Rahasia1!"},
		{name: "duplicate username", args: []string{"addadmin", "-username", "kepsek", "-name", "Kepala Sekolah"}, pwd: "Rahasia1!", wantErr: account.ErrUsernameExists},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		readPasswordFunc = func(int) ([]byte, error) { return []byte(tt.pwd), nil }

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	readPasswordFunc = term.ReadPassword // reset

	acct, err := cli.acctRepo.GetAccountByUsername(context.Background(), "kepsek")
	if err != nil {
		t.Fatalf("GetAccountByUsername() failed: %v", err)
	}
	if !acct.IsAdmin() {
		t.Errorf("role = %q, want admin", acct.Role)
	}
	if !cli.hasher.Verify("Rahasia1!", acct.PasswordDigest) {
		t.Error("stored digest does not verify against the prompted password")
	}
}

func Test_commandLine_migrate_requiresDatabase(t *testing.T) {
	cli := setup(t)

	if err := cli.run([]string{"admin", "migrate", "up"}); err != errNoDatabase {
		t.Errorf("cli.run() error = %v, wantErr %v", err, errNoDatabase)
	}
}
