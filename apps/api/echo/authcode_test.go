package echoapi

import (
	"net/http"
	"testing"

	"github.com/kelasku/jurnalkelas/core/authcode"
)

func Test_authCodeApi_issue(t *testing.T) {
	env := setup(t)
	token := adminToken(t)

	body := marshallObj(t, authcode.NewCode{Code: "GURU2025"})
	req, rec := newAuthRequest(http.MethodPost, "/v1/authcodes", token, body)
	env.server.ServeHTTP(rec, req)

	checkCodeAndBody(t, rec, http.StatusCreated, nil)
	var code authcode.Code
	decodeBody(t, rec, &code)
	if code.Code != "GURU2025" || code.Used {
		t.Errorf("code = %+v, want fresh GURU2025", code)
	}
	if code.IssuedBy != "admin" {
		t.Errorf("IssuedBy = %q, want the authenticated admin", code.IssuedBy)
	}

	t.Run("duplicate", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/authcodes", token, body)
		env.server.ServeHTTP(rec, req)
		checkCodeAndBody(t, rec, http.StatusBadRequest, nil)
		var fldErrs map[string]string
		decodeBody(t, rec, &fldErrs)
		if fldErrs["code"] != authcode.ErrCodeExists.Error() {
			t.Errorf("field errors = %v, want code exists", fldErrs)
		}
	})

	t.Run("admin required", func(t *testing.T) {
		acct := registerTeacher(t, env, "pak_budi", "GURU2026")
		req, rec := newAuthRequest(http.MethodPost, "/v1/authcodes", getToken(t, acct.View()), body)
		env.server.ServeHTTP(rec, req)
		checkCodeAndBody(t, rec, http.StatusForbidden, nil)
	})

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/authcodes", body)
		env.server.ServeHTTP(rec, req)
		checkCodeAndBody(t, rec, http.StatusUnauthorized, marshallObj(t, errMissingToken))
	})
}

func Test_authCodeApi_query(t *testing.T) {
	env := setup(t)
	token := adminToken(t)

	req, rec := newAuthRequest(http.MethodGet, "/v1/authcodes", token)
	env.server.ServeHTTP(rec, req)
	checkCodeAndBody(t, rec, http.StatusOK, []byte("[]"))

	for _, c := range []string{"KODE-A", "KODE-B"} {
		req, rec := newAuthRequest(http.MethodPost, "/v1/authcodes", token, marshallObj(t, authcode.NewCode{Code: c}))
		env.server.ServeHTTP(rec, req)
		checkCodeAndBody(t, rec, http.StatusCreated, nil)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/authcodes", token)
	env.server.ServeHTTP(rec, req)
	checkCodeAndBody(t, rec, http.StatusOK, nil)
	var codes []authcode.Code
	decodeBody(t, rec, &codes)
	if len(codes) != 2 || codes[0].Code != "KODE-A" || codes[1].Code != "KODE-B" {
		t.Errorf("codes = %+v, want KODE-A then KODE-B", codes)
	}
}
