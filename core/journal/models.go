package journal

import (
	"time"

	"github.com/kelasku/jurnalkelas/core"
)

// Entry is one logged class session: who taught what, when, and the
// attendance headcount.
type Entry struct {
	ID        string    `json:"id"`
	TeacherID string    `json:"teacherId"` // account ID of the logging teacher
	Tanggal   string    `json:"tanggal"`   // session date, YYYY-MM-DD
	JamKe     int       `json:"jamKe"`     // period of the school day
	Kelas     string    `json:"kelas"`
	Mapel     string    `json:"mapel"`
	Materi    string    `json:"materi"`
	Hadir     int       `json:"hadir"`
	Sakit     int       `json:"sakit"`
	Izin      int       `json:"izin"`
	Alpa      int       `json:"alpa"`
	Catatan   string    `json:"catatan,omitempty"`
	CreatedAt time.Time `json:"createdAt"` // UTC
}

// NewEntry contains information needed to log a new Entry.
type NewEntry struct {
	Tanggal string `json:"tanggal" validate:"required,datetime=2006-01-02"`
	JamKe   int    `json:"jamKe" validate:"required,min=1,max=12"`
	Kelas   string `json:"kelas" validate:"required"`
	Mapel   string `json:"mapel" validate:"required"`
	Materi  string `json:"materi" validate:"required"`
	Hadir   int    `json:"hadir" validate:"min=0"`
	Sakit   int    `json:"sakit" validate:"min=0"`
	Izin    int    `json:"izin" validate:"min=0"`
	Alpa    int    `json:"alpa" validate:"min=0"`
	Catatan string `json:"catatan"`
}

func (ne *NewEntry) Clean() {
	ne.Tanggal = core.CleanString(ne.Tanggal)
	ne.Kelas = core.CleanString(ne.Kelas)
	ne.Mapel = core.CleanString(ne.Mapel)
	ne.Materi = core.CleanString(ne.Materi)
	ne.Catatan = core.CleanString(ne.Catatan)
}

// QueryFilter narrows entry listings. Fields are ANDed; zero values are skipped.
type QueryFilter struct {
	TeacherID string `query:"teacherId"`
	Kelas     string `query:"kelas"`
	Tanggal   string `query:"tanggal"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.TeacherID == "" && qf.Kelas == "" && qf.Tanggal == ""
}

func (qf *QueryFilter) Clean() {
	qf.TeacherID = core.CleanString(qf.TeacherID)
	qf.Kelas = core.CleanString(qf.Kelas)
	qf.Tanggal = core.CleanString(qf.Tanggal)
}
