package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kelasku/jurnalkelas/core"
	"github.com/kelasku/jurnalkelas/core/account"
	"github.com/kelasku/jurnalkelas/core/authcode"
	"github.com/kelasku/jurnalkelas/core/hash"
	"github.com/kelasku/jurnalkelas/core/journal"
	emailsvc "github.com/kelasku/jurnalkelas/services/email"
	inmemdb "github.com/kelasku/jurnalkelas/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	server  Server
	acctSvc account.Service
	codeSvc authcode.Service
}

func setup(t *testing.T) testEnv {
	t.Helper()

	// deterministic error payloads
	core.Conf.Debug = false
	core.Conf.TestMode = true

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	acctRepo := inmemdb.NewAccountRepository(db)
	codeSvc := authcode.NewService(inmemdb.NewAuthCodeRepository(db))
	acctSvc := account.NewService(
		acctRepo,
		account.NewAuthCodePolicy(codeSvc),
		hash.New(hash.AlgorithmSHA256),
		account.DemoAccounts,
		emailsvc.NewConsoleServiceMock(),
		core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
	)
	journalSvc := journal.NewService(inmemdb.NewJournalRepository(db))

	server := NewServer(&Options{
		DisableReqLogs: true,
		Logger:         core.NewStdLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags)),
		AccountSvc:     acctSvc,
		AuthCodeSvc:    codeSvc,
		JournalSvc:     journalSvc,
	})
	return testEnv{server: server, acctSvc: acctSvc, codeSvc: codeSvc}
}

type httpErr struct {
	Error string `json:"error"`
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, view account.View) string {
	t.Helper()
	token, err := GenerateToken(GetAccountClaims(view))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decoding body %q: %v", rec.Body.String(), err)
	}
}

func checkCodeAndBody(t *testing.T, rec *httptest.ResponseRecorder, wantCode int, wantBody []byte) {
	t.Helper()
	if rec.Code != wantCode {
		t.Errorf("code = %v, want %v (body: %s)", rec.Code, wantCode, rec.Body.String())
	}
	if wantBody != nil {
		assert.JSONEq(t, string(wantBody), rec.Body.String())
	}
}

// registerTeacher provisions an auth code and registers a teacher through the service.
func registerTeacher(t *testing.T, env testEnv, username, code string) account.Account {
	t.Helper()
	ctx := context.Background()
	if _, err := env.codeSvc.Issue(ctx, authcode.NewCode{Code: code, IssuedBy: "admin"}); err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}
	acct, err := env.acctSvc.Register(ctx, account.NewAccount{
		Username:    username,
		Password:    "Mengajar1!",
		FullName:    "Budi Santoso",
		Role:        account.RoleTeacher,
		Email:       username + "@sekolah.sch.id",
		TeacherID:   code,
		Subject:     "Matematika",
		TaughtClass: "7A",
	})
	if err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	return acct
}

func adminToken(t *testing.T) string {
	t.Helper()
	return getToken(t, account.View{ID: "demo-admin", Username: "admin", FullName: "Administrator", Role: account.RoleAdmin})
}
