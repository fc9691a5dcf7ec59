package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophdrive/internal/client/migrations"
	"github.com/dmitrijs2005/gophdrive/internal/dbx"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// RunMigrations applies the embedded client migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// OpenSQLite opens (creating if needed) the session database at dsn and
// migrates it.
func OpenSQLite(ctx context.Context, dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	// a single connection keeps ":memory:" databases consistent and
	// serializes writers
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", dsn, err)
	}
	return NewSQLiteStore(db), nil
}

// SQLiteStore keeps the session in the `session` table.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// kv runs the key/value statements on either the database or a transaction.
type kv struct {
	db dbx.DBTX
}

func (r kv) get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM session WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return value, nil
}

func (r kv) set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO session (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}

func (r kv) delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete session[%s]: %w", key, err)
	}
	return nil
}

// setOrDelete stores value, or removes the key when value is empty.
func (r kv) setOrDelete(ctx context.Context, key, value string) error {
	if value == "" {
		return r.delete(ctx, key)
	}
	return r.set(ctx, key, value)
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, error) {
	return kv{s.db}.get(ctx, key)
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	return kv{s.db}.set(ctx, key, value)
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return kv{s.db}.delete(ctx, key)
}

func (s *SQLiteStore) Load(ctx context.Context) (Session, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value FROM session WHERE key IN (?, ?, ?)`,
		KeyToken, KeyUserName, KeyUserEmail)
	if err != nil {
		return Session{}, fmt.Errorf("failed to load session: %w", err)
	}
	defer rows.Close()

	var out Session
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Session{}, fmt.Errorf("failed to scan session row: %w", err)
		}
		switch key {
		case KeyToken:
			out.Token = value
		case KeyUserName:
			out.UserName = value
		case KeyUserEmail:
			out.UserEmail = value
		}
	}
	if err := rows.Err(); err != nil {
		return Session{}, fmt.Errorf("failed to iterate session rows: %w", err)
	}
	return out, nil
}

func (s *SQLiteStore) SaveLogin(ctx context.Context, sess Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := kv{tx}
		if err := r.setOrDelete(ctx, KeyToken, sess.Token); err != nil {
			return err
		}
		if err := r.setOrDelete(ctx, KeyUserName, sess.UserName); err != nil {
			return err
		}
		return r.setOrDelete(ctx, KeyUserEmail, sess.UserEmail)
	})
}

func (s *SQLiteStore) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM session WHERE key IN (?, ?, ?)`,
		KeyToken, KeyUserName, KeyUserEmail)
	if err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
