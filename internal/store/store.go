// Package store handles SQLite persistence of the custom passage library.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/verte-zerg/typetest/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// ErrNotFound is returned when a passage id does not exist.
var ErrNotFound = errors.New("passage not found")

// Store wraps SQLite access for passages.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create db directory")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open db")
	}
	st := &Store{db: db}
	if err := st.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close db after migration error")
		}
		return nil, err
	}
	return st, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS passages (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			body TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_passages_created_at ON passages(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return errors.Wrap(err, "failed to migrate db")
		}
	}
	return nil
}

// AddPassage stores a passage and returns its id. Bodies are normalized to
// "\n" line endings with trailing whitespace trimmed.
func (s *Store) AddPassage(ctx context.Context, title, body string) (int64, error) {
	ids, err := s.AddPassages(ctx, []model.Passage{{Title: title, Body: body}})
	if err != nil {
		return 0, err
	}
	return ids[0], nil
}

// AddPassages stores passages in one transaction.
func (s *Store) AddPassages(ctx context.Context, passages []model.Passage) (ids []int64, err error) {
	for _, p := range passages {
		if NormalizeBody(p.Body) == "" {
			return nil, errors.Errorf("passage %q has an empty body", p.Title)
		}
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				log.Warn().Err(rerr).Msg("failed to roll back passage insert")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO passages (title, body, created_at) VALUES (?, ?, ?)`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to prepare insert")
	}
	defer func() {
		if cerr := stmt.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close insert statement")
		}
	}()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for _, p := range passages {
		title := strings.TrimSpace(p.Title)
		body := NormalizeBody(p.Body)
		if title == "" {
			title = defaultTitle(body)
		}
		res, err := stmt.ExecContext(ctx, title, body, now)
		if err != nil {
			return nil, errors.Wrap(err, "failed to insert passage")
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, errors.Wrap(err, "failed to read passage id")
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.Wrap(err, "failed to commit passages")
	}
	return ids, nil
}

// ListPassages returns all passages, oldest first.
func (s *Store) ListPassages(ctx context.Context) ([]model.Passage, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title, body, created_at FROM passages ORDER BY id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query passages")
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("failed to close passage rows")
		}
	}()

	var out []model.Passage
	for rows.Next() {
		p, err := scanPassage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate passages")
	}
	return out, nil
}

// RandomPassage returns a uniformly chosen passage, or ErrNotFound when the
// library is empty.
func (s *Store) RandomPassage(ctx context.Context) (model.Passage, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, body, created_at FROM passages ORDER BY RANDOM() LIMIT 1`)
	p, err := scanPassage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Passage{}, ErrNotFound
	}
	return p, err
}

// GetPassage loads one passage by id.
func (s *Store) GetPassage(ctx context.Context, id int64) (model.Passage, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, title, body, created_at FROM passages WHERE id = ?`, id)
	p, err := scanPassage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Passage{}, ErrNotFound
	}
	return p, err
}

// DeletePassage removes a passage by id.
func (s *Store) DeletePassage(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM passages WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete passage")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read affected rows")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPassage(row scanner) (model.Passage, error) {
	var p model.Passage
	var createdAt string
	if err := row.Scan(&p.ID, &p.Title, &p.Body, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Passage{}, err
		}
		return model.Passage{}, errors.Wrap(err, "failed to scan passage")
	}
	parsed, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return model.Passage{}, errors.Wrap(err, "failed to parse passage timestamp")
	}
	p.CreatedAt = parsed
	return p, nil
}

// NormalizeBody converts line endings to "\n" and trims trailing whitespace
// from every line and from the whole text.
func NormalizeBody(body string) string {
	body = strings.ReplaceAll(body, "\r\n", "\n")
	body = strings.ReplaceAll(body, "\r", "\n")
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func defaultTitle(body string) string {
	first, _, _ := strings.Cut(body, "\n")
	runes := []rune(first)
	if len(runes) > 32 {
		return string(runes[:32]) + "…"
	}
	return first
}
