package echoapi

import (
	"net/http"
	"testing"

	"github.com/kelasku/jurnalkelas/core/account"
	"github.com/kelasku/jurnalkelas/core/journal"
)

func newEntryBody(t *testing.T) []byte {
	return marshallObj(t, journal.NewEntry{
		Tanggal: "2026-08-31",
		JamKe:   3,
		Kelas:   "7A",
		Mapel:   "Matematika",
		Materi:  "Persamaan linear satu variabel",
		Hadir:   30,
		Sakit:   1,
		Izin:    1,
	})
}

func Test_journalApi_log(t *testing.T) {
	env := setup(t)
	teacher := registerTeacher(t, env, "pak_budi", "GURU2025")

	req, rec := newAuthRequest(http.MethodPost, "/v1/journal", getToken(t, teacher.View()), newEntryBody(t))
	env.server.ServeHTTP(rec, req)

	checkCodeAndBody(t, rec, http.StatusCreated, nil)
	var entry journal.Entry
	decodeBody(t, rec, &entry)
	if entry.TeacherID != teacher.ID {
		t.Errorf("TeacherID = %q, want the authenticated teacher %q", entry.TeacherID, teacher.ID)
	}
	if entry.Mapel != "Matematika" || entry.JamKe != 3 {
		t.Errorf("entry = %+v does not match the payload", entry)
	}

	t.Run("teacher required", func(t *testing.T) {
		student := account.View{ID: "stu-1", Username: "sari_w", Role: account.RoleStudent}
		req, rec := newAuthRequest(http.MethodPost, "/v1/journal", getToken(t, student), newEntryBody(t))
		env.server.ServeHTTP(rec, req)
		checkCodeAndBody(t, rec, http.StatusForbidden, nil)
	})

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/journal", newEntryBody(t))
		env.server.ServeHTTP(rec, req)
		checkCodeAndBody(t, rec, http.StatusUnauthorized, marshallObj(t, errMissingToken))
	})
}

func Test_journalApi_query(t *testing.T) {
	env := setup(t)
	budi := registerTeacher(t, env, "pak_budi", "GURU2025")
	siti := registerTeacher(t, env, "bu_siti", "GURU2026")

	logEntry := func(teacher account.Account) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/journal", getToken(t, teacher.View()), newEntryBody(t))
		env.server.ServeHTTP(rec, req)
		checkCodeAndBody(t, rec, http.StatusCreated, nil)
	}
	logEntry(budi)
	logEntry(budi)
	logEntry(siti)

	query := func(t *testing.T, token, path string) []journal.Entry {
		t.Helper()
		req, rec := newAuthRequest(http.MethodGet, path, token)
		env.server.ServeHTTP(rec, req)
		checkCodeAndBody(t, rec, http.StatusOK, nil)
		var entries []journal.Entry
		decodeBody(t, rec, &entries)
		return entries
	}

	t.Run("teachers see their own entries only", func(t *testing.T) {
		entries := query(t, getToken(t, budi.View()), "/v1/journal")
		if len(entries) != 2 {
			t.Fatalf("got %d entries, want 2", len(entries))
		}
		for _, e := range entries {
			if e.TeacherID != budi.ID {
				t.Errorf("entry %q belongs to %q", e.ID, e.TeacherID)
			}
		}

		// a foreign teacherId filter is overridden
		entries = query(t, getToken(t, siti.View()), "/v1/journal?teacherId="+budi.ID)
		if len(entries) != 1 || entries[0].TeacherID != siti.ID {
			t.Errorf("entries = %+v, want only bu_siti's", entries)
		}
	})

	t.Run("admin sees all", func(t *testing.T) {
		if entries := query(t, adminToken(t), "/v1/journal"); len(entries) != 3 {
			t.Errorf("got %d entries, want 3", len(entries))
		}
	})

	t.Run("students forbidden", func(t *testing.T) {
		student := account.View{ID: "stu-1", Username: "sari_w", Role: account.RoleStudent}
		req, rec := newAuthRequest(http.MethodGet, "/v1/journal", getToken(t, student))
		env.server.ServeHTTP(rec, req)
		checkCodeAndBody(t, rec, http.StatusForbidden, nil)
	})
}

func Test_journalApi_retrieve(t *testing.T) {
	env := setup(t)
	budi := registerTeacher(t, env, "pak_budi", "GURU2025")
	siti := registerTeacher(t, env, "bu_siti", "GURU2026")

	req, rec := newAuthRequest(http.MethodPost, "/v1/journal", getToken(t, budi.View()), newEntryBody(t))
	env.server.ServeHTTP(rec, req)
	checkCodeAndBody(t, rec, http.StatusCreated, nil)
	var entry journal.Entry
	decodeBody(t, rec, &entry)

	tests := []struct {
		name     string
		token    string
		id       string
		wantCode int
	}{
		{name: "own entry", token: getToken(t, budi.View()), id: entry.ID, wantCode: http.StatusOK},
		{name: "admin", token: adminToken(t), id: entry.ID, wantCode: http.StatusOK},
		{name: "foreign entry hidden", token: getToken(t, siti.View()), id: entry.ID, wantCode: http.StatusNotFound},
		{name: "unknown id", token: getToken(t, budi.View()), id: "tidak-ada", wantCode: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/journal/"+tt.id, tt.token)
			env.server.ServeHTTP(rec, req)
			checkCodeAndBody(t, rec, tt.wantCode, nil)
		})
	}
}
