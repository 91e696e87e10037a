package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/kelasku/jurnalkelas/core/journal"
)

type journalRow struct {
	ID        string    `db:"id"`
	TeacherID string    `db:"teacher_id"`
	Tanggal   string    `db:"tanggal"`
	JamKe     int       `db:"jam_ke"`
	Kelas     string    `db:"kelas"`
	Mapel     string    `db:"mapel"`
	Materi    string    `db:"materi"`
	Hadir     int       `db:"hadir"`
	Sakit     int       `db:"sakit"`
	Izin      int       `db:"izin"`
	Alpa      int       `db:"alpa"`
	Catatan   string    `db:"catatan"`
	CreatedAt time.Time `db:"created_at"`
}

const journalColumns = `id, teacher_id, tanggal, jam_ke, kelas, mapel, materi, hadir, sakit, izin, alpa, catatan, created_at`

func (r journalRow) domain() journal.Entry {
	return journal.Entry{
		ID:        r.ID,
		TeacherID: r.TeacherID,
		Tanggal:   r.Tanggal,
		JamKe:     r.JamKe,
		Kelas:     r.Kelas,
		Mapel:     r.Mapel,
		Materi:    r.Materi,
		Hadir:     r.Hadir,
		Sakit:     r.Sakit,
		Izin:      r.Izin,
		Alpa:      r.Alpa,
		Catatan:   r.Catatan,
		CreatedAt: r.CreatedAt,
	}
}

type journalRepository struct {
	db *sqlx.DB
}

var _ journal.Repository = (*journalRepository)(nil) // interface compliance check

func NewJournalRepository(db *sqlx.DB) *journalRepository {
	return &journalRepository{db: db}
}

func (repo journalRepository) CreateEntry(ctx context.Context, entry journal.Entry) (journal.Entry, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO journal_entry (`+journalColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		entry.ID, entry.TeacherID, entry.Tanggal, entry.JamKe, entry.Kelas,
		entry.Mapel, entry.Materi, entry.Hadir, entry.Sakit, entry.Izin,
		entry.Alpa, entry.Catatan, entry.CreatedAt.UTC(),
	)
	if err != nil {
		return journal.Entry{}, errors.Wrap(err, "inserting journal entry")
	}
	return entry, nil
}

func (repo journalRepository) QueryAllEntries(ctx context.Context) ([]journal.Entry, error) {
	var rows []journalRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT `+journalColumns+` FROM journal_entry ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "querying journal entries")
	}
	return repo.domainSlice(rows), nil
}

func (repo journalRepository) FilterEntries(ctx context.Context, filter journal.QueryFilter) ([]journal.Entry, error) {
	conds := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)

	addCond := func(col, val string) {
		if val != "" {
			args = append(args, val)
			conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
		}
	}
	addCond("teacher_id", filter.TeacherID)
	addCond("kelas", filter.Kelas)
	addCond("tanggal", filter.Tanggal)

	query := `SELECT ` + journalColumns + ` FROM journal_entry`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY seq`

	var rows []journalRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering journal entries")
	}
	return repo.domainSlice(rows), nil
}

func (repo journalRepository) GetEntryByID(ctx context.Context, id string) (journal.Entry, error) {
	var row journalRow
	err := repo.db.GetContext(ctx, &row,
		`SELECT `+journalColumns+` FROM journal_entry WHERE id = $1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return journal.Entry{}, journal.ErrNotFound
		}
		return journal.Entry{}, errors.Wrap(err, "finding journal entry")
	}
	return row.domain(), nil
}

func (repo journalRepository) domainSlice(rows []journalRow) []journal.Entry {
	entries := make([]journal.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.domain())
	}
	return entries
}
