package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"

	"github.com/kelasku/jurnalkelas/core"
	"github.com/kelasku/jurnalkelas/core/account"
)

var (
	// errors
	ErrNotFound = errors.New("catatan jurnal tidak ditemukan")
)

type (
	Repository interface {
		CreateEntry(ctx context.Context, entry Entry) (Entry, error)
		// QueryAllEntries returns entries in insertion order.
		QueryAllEntries(ctx context.Context) ([]Entry, error)
		// FilterEntries applies AND operation on available QueryFilter fields.
		FilterEntries(ctx context.Context, filter QueryFilter) ([]Entry, error)
		GetEntryByID(ctx context.Context, id string) (Entry, error)
	}

	Service interface {
		Log(ctx context.Context, teacherID string, ne NewEntry) (Entry, error)
		QueryAll(ctx context.Context) ([]Entry, error)
		Filter(ctx context.Context, filter QueryFilter) ([]Entry, error)
		GetByID(ctx context.Context, id string) (Entry, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Log records a class session on behalf of teacherID.
func (svc *service) Log(ctx context.Context, teacherID string, ne NewEntry) (Entry, error) {
	ne.Clean()
	if err := core.Validate.Struct(ne); err != nil {
		return Entry{}, err
	}
	// sessions are logged against the same curriculum whitelist accounts
	// register with
	if !account.ValidSubject(ne.Mapel) {
		return Entry{}, core.NewValidationError(account.ErrInvalidSubject,
			core.FieldError{Field: "mapel", Error: account.ErrInvalidSubject.Error()})
	}

	entry := Entry{
		ID:        uuid.New().String(),
		TeacherID: teacherID,
		Tanggal:   ne.Tanggal,
		JamKe:     ne.JamKe,
		Kelas:     ne.Kelas,
		Mapel:     ne.Mapel,
		Materi:    ne.Materi,
		Hadir:     ne.Hadir,
		Sakit:     ne.Sakit,
		Izin:      ne.Izin,
		Alpa:      ne.Alpa,
		Catatan:   ne.Catatan,
		CreatedAt: time.Now().UTC(),
	}
	entry, err := svc.repo.CreateEntry(ctx, entry)
	return entry, pkgerrors.Wrap(err, "creating journal entry")
}

func (svc *service) QueryAll(ctx context.Context) ([]Entry, error) {
	return svc.repo.QueryAllEntries(ctx)
}

func (svc *service) Filter(ctx context.Context, filter QueryFilter) ([]Entry, error) {
	filter.Clean()
	if filter.IsEmpty() {
		return svc.repo.QueryAllEntries(ctx)
	}
	return svc.repo.FilterEntries(ctx, filter)
}

func (svc *service) GetByID(ctx context.Context, id string) (Entry, error) {
	return svc.repo.GetEntryByID(ctx, id)
}
