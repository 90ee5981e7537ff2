package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

const createKVTable = `CREATE TABLE IF NOT EXISTS kv (
	namespace TEXT NOT NULL,
	key       TEXT NOT NULL,
	value     TEXT NOT NULL,
	PRIMARY KEY (namespace, key)
)`

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.WithMessage(err, "failed to create store directory")
		}
	}

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	d, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to open sqlite store")
	}
	if _, err := d.Exec(createKVTable); err != nil {
		_ = d.Close()
		return nil, errors.WithMessage(err, "failed to create kv table")
	}
	return &SQLiteStore{db: d}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, namespace, key, def string) (string, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return def, errors.WithMessage(err, "failed to open store connection")
	}
	defer conn.Close()

	var val string
	err = conn.QueryRowContext(ctx,
		"SELECT value FROM kv WHERE namespace = ? AND key = ?",
		namespace, key,
	).Scan(&val)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return def, nil
	case err != nil:
		return def, errors.WithMessagef(err, "failed to read %s/%s", namespace, key)
	}
	return val, nil
}

func (s *SQLiteStore) Put(ctx context.Context, namespace, key, value string) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return errors.WithMessage(err, "failed to open store connection")
	}
	defer conn.Close()

	_, err = conn.ExecContext(ctx,
		`INSERT INTO kv (namespace, key, value) VALUES (?, ?, ?)
		ON CONFLICT (namespace, key) DO UPDATE SET value = excluded.value`,
		namespace, key, value,
	)
	if err != nil {
		return errors.WithMessagef(err, "failed to write %s/%s", namespace, key)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
