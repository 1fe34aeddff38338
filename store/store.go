// Package store persists records as encoded text in a SQLite database.
//
// Documents are addressed by kind and key. The body column holds exactly what
// Codec.Encode produced, so stored rows can be read by any consumer of the
// text form.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/hengadev/magicjson"
	"github.com/hengadev/magicjson/internal/magicerr"
	"github.com/hengadev/magicjson/internal/reliability"
)

// DefaultFileName is used when Open is given a directory.
const DefaultFileName = "magicjson.db"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
	CREATE TABLE IF NOT EXISTS documents (
		kind TEXT NOT NULL,
		key TEXT NOT NULL,
		body TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		PRIMARY KEY (kind, key)
	);

	CREATE INDEX IF NOT EXISTS idx_documents_kind ON documents(kind);
`

// Document is one stored row.
type Document struct {
	Kind      string
	Key       string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a SQLite-backed document store. It is safe for concurrent use.
type Store struct {
	db    *sql.DB
	path  string
	codec *magicjson.Codec
	retry reliability.Retrier
}

// Option configures a Store.
type Option func(*options) error

type options struct {
	backoff reliability.Backoff
}

// WithRetry sets how often a write is attempted while another process holds
// the database lock, and the first delay between attempts.
func WithRetry(maxAttempts int, initialDelay time.Duration) Option {
	return func(o *options) error {
		if maxAttempts < 1 {
			return magicerr.NewInvalidConfigurationError("retry attempts", "must be at least 1")
		}
		if initialDelay <= 0 {
			return magicerr.NewInvalidConfigurationError("retry delay", "must be positive")
		}
		o.backoff.MaxAttempts = maxAttempts
		o.backoff.Initial = initialDelay
		return nil
	}
}

// Open opens or creates the database at path. A directory path gets
// DefaultFileName inside it. A nil codec uses the package defaults.
func Open(path string, codec *magicjson.Codec, opts ...Option) (*Store, error) {
	o := options{backoff: reliability.DefaultBackoff}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return nil, err
		}
	}

	if codec == nil {
		var err error
		if codec, err = magicjson.New(); err != nil {
			return nil, err
		}
	}

	dbPath, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrapf(err, "store: failed to open database at '%s'", dbPath)
	}
	// SQLite allows one writer, and an in-memory database exists only on
	// the connection that created it.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "store: connection test failed for '%s'", dbPath)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "store: failed to create schema in '%s'", dbPath)
	}

	return &Store{
		db:    db,
		path:  dbPath,
		codec: codec,
		retry: reliability.Retrier{Backoff: o.backoff, Retryable: isBusy},
	}, nil
}

// isBusy reports whether err is SQLite refusing a write because the database
// is locked by another connection.
func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}

func resolvePath(path string) (string, error) {
	if path == "" || path == MemoryPath {
		return MemoryPath, nil
	}

	s, err := os.Stat(path)
	switch {
	case err == nil && s.IsDir():
		return filepath.Join(path, DefaultFileName), nil
	case err == nil:
		return path, nil
	case os.IsNotExist(err):
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return "", errors.Wrapf(err, "store: failed to create directory for '%s'", path)
		}
		return path, nil
	default:
		return "", errors.Wrapf(err, "store: failed to stat '%s'", path)
	}
}

// Path returns the database file, or MemoryPath.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// KindOf returns the default kind for v: its type name without pointers.
func KindOf(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	return t.Name()
}

// Put encodes v and stores it under kind and key, replacing any previous
// body. An empty kind defaults to KindOf(v); an empty key gets a new random
// UUID. The key used is returned.
func (s *Store) Put(ctx context.Context, kind, key string, v any) (string, error) {
	if v == nil {
		return "", magicerr.NewInvalidTargetError("value must not be nil", magicerr.Store)
	}
	if kind == "" {
		kind = KindOf(v)
	}
	if key == "" {
		key = uuid.NewString()
	}

	if err := s.PutText(ctx, kind, key, s.codec.Encode(v)); err != nil {
		return "", err
	}
	return key, nil
}

// PutText stores an already encoded body as is.
func (s *Store) PutText(ctx context.Context, kind, key, body string) error {
	if kind == "" || key == "" {
		return magicerr.NewInvalidTargetError("kind and key must not be empty", magicerr.Store)
	}

	now := time.Now().UTC()
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO documents (kind, key, body, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (kind, key) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
		`, kind, key, body, now, now)
		return err
	})
	if err != nil {
		return errors.Wrapf(err, "store/put(%s/%s): failed to write document", kind, key)
	}
	return nil
}

// Raw returns the stored document without decoding it.
func (s *Store) Raw(ctx context.Context, kind, key string) (Document, error) {
	doc := Document{Kind: kind, Key: key}
	err := s.db.QueryRowContext(ctx, `
		SELECT body, created_at, updated_at FROM documents
		WHERE kind = ? AND key = ?
	`, kind, key).Scan(&doc.Body, &doc.CreatedAt, &doc.UpdatedAt)
	if err == sql.ErrNoRows {
		return Document{}, magicerr.NewNotFoundError(kind, key)
	}
	if err != nil {
		return Document{}, errors.Wrapf(err, "store/get(%s/%s): failed to execute query", kind, key)
	}
	return doc, nil
}

// Get decodes the document stored under kind and key into target. Decoding
// follows the codec: a strict codec reports unresolved fields.
func (s *Store) Get(ctx context.Context, kind, key string, target any) error {
	doc, err := s.Raw(ctx, kind, key)
	if err != nil {
		return err
	}
	return s.codec.Decode(doc.Body, target)
}

// List returns the documents of kind in insertion order. An empty kind lists
// every document.
func (s *Store) List(ctx context.Context, kind string) ([]Document, error) {
	query := `SELECT kind, key, body, created_at, updated_at FROM documents`
	var args []any
	if kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, kind)
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "store/list: failed to execute query")
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.Kind, &doc.Key, &doc.Body, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "store/list: failed to scan document")
		}
		docs = append(docs, doc)
	}
	return docs, errors.Wrap(rows.Err(), "store/list: iteration failed")
}

// Delete removes the document stored under kind and key.
func (s *Store) Delete(ctx context.Context, kind, key string) error {
	var res sql.Result
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		res, err = s.db.ExecContext(ctx, `DELETE FROM documents WHERE kind = ? AND key = ?`, kind, key)
		return err
	})
	if err != nil {
		return errors.Wrapf(err, "store/delete(%s/%s): failed to execute query", kind, key)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "store/delete: rows affected failed")
	}
	if affected == 0 {
		return magicerr.NewNotFoundError(kind, key)
	}
	return nil
}
