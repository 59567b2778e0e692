package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "github.com/mattn/go-sqlite3"

	"github.com/weadingguestwebsite1-lab/wedding-guests/internal/models"
)

var (
	ErrGuestNotFound    = errors.New("guest not found")
	ErrCategoryNotFound = errors.New("category not found")
)

const schema = `
CREATE TABLE IF NOT EXISTS closeness (
	id INTEGER PRIMARY KEY,
	phrase TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS guests (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT,
	is_group INTEGER NOT NULL DEFAULT 0,
	group_size INTEGER NOT NULL DEFAULT 1,
	closs_id INTEGER NOT NULL,
	phone TEXT NOT NULL DEFAULT '',
	FOREIGN KEY(closs_id) REFERENCES closeness(id)
);
`

// Storage is the SQLite backed guest list.
type Storage struct {
	db *sql.DB
}

// NewStorage opens (creating if needed) the database at filePath and runs the
// schema migration and category seed.
func NewStorage(ctx context.Context, filePath string) (*Storage, error) {
	// Ensure directory exists
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", filePath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// Migrate creates the tables and seeds the four closeness categories. Existing
// phrases are never overwritten, so it is safe to run on every start.
func (s *Storage) Migrate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	for _, c := range models.DefaultCategories {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO closeness (id, phrase) VALUES (?, ?)", c.ID, c.Phrase,
		); err != nil {
			return fmt.Errorf("failed to seed category %d: %w", c.ID, err)
		}
	}

	return tx.Commit()
}

// Close closes the database.
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// AddGuest inserts a guest and returns its id.
func (s *Storage) AddGuest(ctx context.Context, guest models.Guest) (int64, error) {
	if guest.GroupSize < 1 || !guest.IsGroup {
		guest.GroupSize = 1
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO guests (name, is_group, group_size, closs_id, phone) VALUES (?, ?, ?, ?, ?)",
		guest.Name, boolToInt(guest.IsGroup), guest.GroupSize, guest.CategoryID, guest.Phone,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert guest: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read guest id: %w", err)
	}
	return id, nil
}

// DeleteGuest removes a guest. Unknown ids are not an error.
func (s *Storage) DeleteGuest(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM guests WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete guest: %w", err)
	}
	return nil
}

const guestRowQuery = `
SELECT g.id, g.name, g.is_group, g.group_size, g.closs_id, c.phrase, g.phone
FROM guests g
JOIN closeness c ON g.closs_id = c.id
`

// ListGuests returns every guest with its category phrase, by name with
// unnamed guests last.
func (s *Storage) ListGuests(ctx context.Context) ([]models.GuestRow, error) {
	rows, err := s.db.QueryContext(ctx, guestRowQuery+
		"ORDER BY (g.name IS NULL OR g.name = ''), g.name ASC, g.id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query guests: %w", err)
	}
	defer rows.Close()

	guests := make([]models.GuestRow, 0)
	for rows.Next() {
		row, err := scanGuestRow(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read guests: %w", err)
	}
	return guests, nil
}

// GetGuest retrieves a single guest row by id.
func (s *Storage) GetGuest(ctx context.Context, id int64) (*models.GuestRow, error) {
	row, err := scanGuestRow(s.db.QueryRowContext(ctx, guestRowQuery+"WHERE g.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGuestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// ListCategories returns the closeness categories ordered by id.
func (s *Storage) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, phrase FROM closeness ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Phrase); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read categories: %w", err)
	}
	return categories, nil
}

// UpdatePhrases sets the phrase of every category in phrases inside one
// transaction. Empty phrases are skipped; an unknown id aborts the whole batch.
func (s *Storage) UpdatePhrases(ctx context.Context, phrases map[int]string) error {
	ids := make([]int, 0, len(phrases))
	for id, phrase := range phrases {
		if phrase != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Ints(ids)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, id := range ids {
		res, err := tx.ExecContext(ctx, "UPDATE closeness SET phrase = ? WHERE id = ?", phrases[id], id)
		if err != nil {
			return fmt.Errorf("failed to update category %d: %w", id, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to update category %d: %w", id, err)
		}
		if n == 0 {
			return fmt.Errorf("category %d: %w", id, ErrCategoryNotFound)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit phrases: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGuestRow(sc scanner) (models.GuestRow, error) {
	var (
		row     models.GuestRow
		name    sql.NullString
		isGroup int
	)
	if err := sc.Scan(&row.ID, &name, &isGroup, &row.GroupSize, &row.CategoryID, &row.Phrase, &row.Phone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return row, err
		}
		return row, fmt.Errorf("failed to scan guest: %w", err)
	}
	row.Name = name.String
	row.IsGroup = isGroup != 0
	return row, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
