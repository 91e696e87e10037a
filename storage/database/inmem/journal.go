package inmemdb

import (
	"context"

	"github.com/kelasku/jurnalkelas/core/journal"
)

type journalRepository struct {
	db *DB
}

var _ journal.Repository = (*journalRepository)(nil) // interface compliance check

func NewJournalRepository(db *DB) *journalRepository {
	return &journalRepository{db: db}
}

func (repo *journalRepository) CreateEntry(_ context.Context, entry journal.Entry) (journal.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.entries = append(repo.db.entries, entry)
	return entry, nil
}

func (repo *journalRepository) QueryAllEntries(_ context.Context) ([]journal.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	entries := make([]journal.Entry, len(repo.db.entries))
	copy(entries, repo.db.entries)
	return entries, nil
}

func (repo *journalRepository) FilterEntries(_ context.Context, filter journal.QueryFilter) ([]journal.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	entries := make([]journal.Entry, 0, len(repo.db.entries))
	for _, entry := range repo.db.entries {
		if filter.TeacherID != "" && entry.TeacherID != filter.TeacherID {
			continue
		}
		if filter.Kelas != "" && entry.Kelas != filter.Kelas {
			continue
		}
		if filter.Tanggal != "" && entry.Tanggal != filter.Tanggal {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (repo *journalRepository) GetEntryByID(_ context.Context, id string) (journal.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, entry := range repo.db.entries {
		if entry.ID == id {
			return entry, nil
		}
	}
	return journal.Entry{}, journal.ErrNotFound
}
