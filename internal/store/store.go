// Package store persists users, per-user favorites, and the page-result
// cache in SQLite. Duplicate-favorite detection lives here, enforced by a
// unique index; cache freshness is applied by the caller.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUserExists        = errors.New("user already exists")
	ErrDuplicateFavorite = errors.New("favorite already exists")
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

// Store wraps the SQLite handle. Safe for concurrent use; WAL mode keeps
// readers unblocked while a writer is active.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
// Path ":memory:" gives an ephemeral database for tests.
func Open(path string) (*Store, error) {
	dsn := path
	if path != ":memory:" {
		dsn = fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	);
	CREATE TABLE IF NOT EXISTS favorites (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		UNIQUE(user_id, url)
	);
	CREATE TABLE IF NOT EXISTS page_cache (
		url TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		saved_at TIMESTAMP NOT NULL
	);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// CreateUser inserts a new user. The password must arrive already hashed.
func (s *Store) CreateUser(ctx context.Context, username, email, passwordHash string) (*User, error) {
	u := &User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID.String(), u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// UserByUsername returns the user or ErrNotFound.
func (s *Store) UserByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	var id string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`,
		username).Scan(&id, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse user id: %w", err)
	}
	return &u, nil
}

// AddFavorite records url for user. A repeated (user, url) pair returns
// ErrDuplicateFavorite.
func (s *Store) AddFavorite(ctx context.Context, userID uuid.UUID, title, url string) (*Favorite, error) {
	f := &Favorite{
		ID:        uuid.New(),
		UserID:    userID,
		Title:     title,
		URL:       url,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO favorites (id, user_id, title, url, created_at) VALUES (?, ?, ?, ?, ?)`,
		f.ID.String(), f.UserID.String(), f.Title, f.URL, f.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateFavorite
		}
		return nil, fmt.Errorf("add favorite: %w", err)
	}
	return f, nil
}

// Favorites lists the user's favorites, oldest first.
func (s *Store) Favorites(ctx context.Context, userID uuid.UUID) ([]Favorite, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, url, created_at FROM favorites WHERE user_id = ? ORDER BY created_at, id`,
		userID.String())
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	out := make([]Favorite, 0)
	for rows.Next() {
		var f Favorite
		var id, uid string
		if err := rows.Scan(&id, &uid, &f.Title, &f.URL, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		if f.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse favorite id: %w", err)
		}
		if f.UserID, err = uuid.Parse(uid); err != nil {
			return nil, fmt.Errorf("parse favorite user id: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// RemoveFavorite deletes one favorite owned by userID, or ErrNotFound.
func (s *Store) RemoveFavorite(ctx context.Context, userID, favoriteID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE id = ? AND user_id = ?`,
		favoriteID.String(), userID.String())
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetPage returns the cached payload for url and when it was saved, or
// ErrNotFound. Freshness is the caller's policy.
func (s *Store) GetPage(ctx context.Context, url string) ([]byte, time.Time, error) {
	var payload []byte
	var savedAt time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT payload, saved_at FROM page_cache WHERE url = ?`, url).Scan(&payload, &savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query page cache: %w", err)
	}
	return payload, savedAt, nil
}

// PutPage upserts the cache entry for url, last writer wins.
func (s *Store) PutPage(ctx context.Context, url string, payload []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO page_cache (url, payload, saved_at) VALUES (?, ?, ?)
		 ON CONFLICT(url) DO UPDATE SET payload = excluded.payload, saved_at = excluded.saved_at`,
		url, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("write page cache: %w", err)
	}
	return nil
}
