package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/PabloGalante/farum-journal/internal/domain"
)

// Store implements domain.JournalStore on a local SQLite file.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the database at path and runs the schema.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating sqlite directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	// One writer keeps SQLITE_BUSY away without a retry loop.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initialize() error {
	stmts := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		`CREATE TABLE IF NOT EXISTS journal_entries (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			entry_text TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			stress_score INTEGER,
			happiness_score INTEGER,
			therapy_note TEXT,
			therapy_note_viewed INTEGER NOT NULL DEFAULT 0
		)`,
		"CREATE INDEX IF NOT EXISTS idx_journal_entries_user ON journal_entries(user_id, created_at)",
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("initializing sqlite schema: %w", err)
		}
	}
	return nil
}

const selectColumns = `id, user_id, entry_text, created_at, updated_at,
	stress_score, happiness_score, therapy_note, therapy_note_viewed`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*domain.JournalEntry, error) {
	var (
		e         domain.JournalEntry
		id, user  string
		stress    sql.NullInt64
		happiness sql.NullInt64
		note      sql.NullString
		viewed    bool
	)
	if err := row.Scan(&id, &user, &e.Text, &e.CreatedAt, &e.UpdatedAt, &stress, &happiness, &note, &viewed); err != nil {
		return nil, err
	}

	e.ID = domain.JournalEntryID(id)
	e.UserID = domain.UserID(user)
	if stress.Valid {
		v := int(stress.Int64)
		e.Analysis.StressScore = &v
	}
	if happiness.Valid {
		v := int(happiness.Int64)
		e.Analysis.HappinessScore = &v
	}
	if note.Valid {
		v := note.String
		e.Analysis.TherapyNote = &v
	}
	e.Analysis.TherapyNoteViewed = viewed
	return &e, nil
}

func (s *Store) CreateEntry(ctx context.Context, entry *domain.JournalEntry) error {
	if entry.ID == "" {
		entry.ID = domain.JournalEntryID(uuid.NewString())
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO journal_entries (id, user_id, entry_text, created_at, updated_at, therapy_note_viewed)
		 VALUES (?, ?, ?, ?, ?, 0)`,
		string(entry.ID), string(entry.UserID), entry.Text, entry.CreatedAt.UTC(), entry.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("sqlite CreateEntry: %w", err)
	}
	return nil
}

func (s *Store) GetEntry(ctx context.Context, owner domain.UserID, id domain.JournalEntryID) (*domain.JournalEntry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+selectColumns+" FROM journal_entries WHERE id = ? AND user_id = ?",
		string(id), string(owner),
	)
	e, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("sqlite GetEntry: %w", err)
	}
	return e, nil
}

// ListEntriesByUser returns entries newest first. limit <= 0 returns all.
func (s *Store) ListEntriesByUser(ctx context.Context, owner domain.UserID, limit int) ([]*domain.JournalEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+selectColumns+" FROM journal_entries WHERE user_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?",
		string(owner), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite ListEntriesByUser: %w", err)
	}
	defer rows.Close()

	out := []*domain.JournalEntry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite ListEntriesByUser scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite ListEntriesByUser: %w", err)
	}
	return out, nil
}

// execOwned runs an owner-scoped UPDATE/DELETE and maps "no row" to ErrEntryNotFound.
func (s *Store) execOwned(ctx context.Context, op, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("sqlite %s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite %s: %w", op, err)
	}
	if n == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (s *Store) UpdateText(ctx context.Context, owner domain.UserID, id domain.JournalEntryID, text string, at time.Time) error {
	return s.execOwned(ctx, "UpdateText",
		"UPDATE journal_entries SET entry_text = ?, updated_at = ? WHERE id = ? AND user_id = ?",
		text, at.UTC(), string(id), string(owner),
	)
}

func (s *Store) UpdateAnalysis(ctx context.Context, owner domain.UserID, id domain.JournalEntryID, update domain.AnalysisUpdate) error {
	return s.execOwned(ctx, "UpdateAnalysis",
		`UPDATE journal_entries
		 SET stress_score = ?, happiness_score = NULL, therapy_note = ?, therapy_note_viewed = 0
		 WHERE id = ? AND user_id = ?`,
		update.StressScore, update.TherapyNote, string(id), string(owner),
	)
}

func (s *Store) MarkNoteViewed(ctx context.Context, owner domain.UserID, id domain.JournalEntryID) error {
	return s.execOwned(ctx, "MarkNoteViewed",
		"UPDATE journal_entries SET therapy_note_viewed = 1 WHERE id = ? AND user_id = ?",
		string(id), string(owner),
	)
}

func (s *Store) DeleteEntry(ctx context.Context, owner domain.UserID, id domain.JournalEntryID) error {
	return s.execOwned(ctx, "DeleteEntry",
		"DELETE FROM journal_entries WHERE id = ? AND user_id = ?",
		string(id), string(owner),
	)
}
