package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/flicklog/internal/models"
	"github.com/desertthunder/flicklog/internal/shared"
	"github.com/jmoiron/sqlx"
)

// SQLStore implements [models.WatchlistStore] on SQLite or Postgres.
//
// Queries are written with "?" placeholders and rebound for the connected driver.
type SQLStore struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewSQLStore creates a new [SQLStore] with the given (already migrated) database connection
func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// DB exposes the underlying connection for health checks.
func (s *SQLStore) DB() *sqlx.DB {
	return s.db
}

type entryRow struct {
	UserID  string    `db:"user_id"`
	Movie   string    `db:"movie"`
	AddedAt time.Time `db:"added_at"`
}

const insertEntry = `INSERT INTO watchlists (user_id, movie, added_at) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`

// AddEntry inserts a title unless the (user, title) pair already exists.
func (s *SQLStore) AddEntry(ctx context.Context, userID, title string) (bool, error) {
	result, err := s.db.ExecContext(ctx, s.db.Rebind(insertEntry), userID, title, s.now())
	if err != nil {
		return false, fmt.Errorf("failed to insert watchlist entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}

// AddEntries inserts all titles in one transaction. Existing pairs are skipped.
func (s *SQLStore) AddEntries(ctx context.Context, userID string, titles []string) (int, error) {
	if len(titles) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(insertEntry))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	added := 0
	for _, title := range titles {
		result, err := stmt.ExecContext(ctx, userID, title, s.now())
		if err != nil {
			return 0, fmt.Errorf("failed to insert watchlist entry %q: %w", title, err)
		}
		if rows, err := result.RowsAffected(); err == nil && rows > 0 {
			added++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit watchlist batch: %w", err)
	}
	return added, nil
}

// RemoveEntry deletes the exact (user, title) pair.
func (s *SQLStore) RemoveEntry(ctx context.Context, userID, title string) (bool, error) {
	query := s.db.Rebind(`DELETE FROM watchlists WHERE user_id = ? AND movie = ?`)
	result, err := s.db.ExecContext(ctx, query, userID, title)
	if err != nil {
		return false, fmt.Errorf("failed to delete watchlist entry: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}

// ListEntries returns a user's entries, oldest first.
func (s *SQLStore) ListEntries(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	query := s.db.Rebind(`
		SELECT user_id, movie, added_at
		FROM watchlists
		WHERE user_id = ?
		ORDER BY added_at ASC, movie ASC
	`)

	var rows []entryRow
	if err := s.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}

	entries := make([]models.WatchlistEntry, len(rows))
	for i, row := range rows {
		entries[i] = models.WatchlistEntry{UserID: row.UserID, Title: row.Movie, AddedAt: row.AddedAt}
	}
	return entries, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

type linkRow struct {
	UserID    string    `db:"user_id"`
	Link      string    `db:"link"`
	UpdatedAt time.Time `db:"updated_at"`
}

// UpsertLink stores the profile link for a user, replacing any previous one.
func (s *SQLStore) UpsertLink(ctx context.Context, userID, url string) error {
	query := s.db.Rebind(`
		INSERT INTO letterboxd_profiles (user_id, link, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET link = excluded.link, updated_at = excluded.updated_at
	`)
	if _, err := s.db.ExecContext(ctx, query, userID, url, s.now()); err != nil {
		return fmt.Errorf("failed to upsert profile link: %w", err)
	}
	return nil
}

// GetLink retrieves the profile link for a user.
func (s *SQLStore) GetLink(ctx context.Context, userID string) (*models.ProfileLink, error) {
	query := s.db.Rebind(`SELECT user_id, link, updated_at FROM letterboxd_profiles WHERE user_id = ?`)

	var row linkRow
	err := s.db.GetContext(ctx, &row, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrNoLinkedProfile, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile link: %w", err)
	}

	return &models.ProfileLink{UserID: row.UserID, URL: row.Link, UpdatedAt: row.UpdatedAt}, nil
}
