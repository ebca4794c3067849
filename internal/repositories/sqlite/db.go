// Package sqlite is the embedded SQLite backend of the repositories
// interfaces, built on the pure-Go modernc driver. It is the default store
// for local development and the store every service test runs against.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ArowuTest/recyclepoints-backend/internal/repositories"
	_ "modernc.org/sqlite"
)

// Compile-time check to ensure DB implements the Store interface
var _ repositories.Store = (*DB)(nil)

// timeLayout is fixed-width so that stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Options tunes the store.
type Options struct {
	// TxTimeout bounds every WithTransaction call. Zero disables the bound.
	TxTimeout time.Duration
	// BusyTimeout is how long SQLite waits on a locked database.
	BusyTimeout time.Duration
}

// DB is a SQLite-backed repositories.Store.
type DB struct {
	db        *sql.DB
	txTimeout time.Duration
	repos     *repositories.Repositories
}

// Open opens (creating if needed) the database file at path and applies the
// schema.
func Open(path string, opts Options) (*DB, error) {
	busy := opts.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	// Write transactions take the RESERVED lock at BEGIN so two writers never
	// both read a row and then race to update it.
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_txlock=immediate",
		path, busy.Milliseconds())

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; one pooled connection makes the pool
	// queue transactions instead of surfacing SQLITE_BUSY.
	conn.SetMaxOpenConns(1)

	db := &DB{db: conn, txTimeout: opts.TxTimeout}
	db.repos = newRepositories(conn)

	if err := db.Migrate(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db, nil
}

// Migrate applies the schema. Statements are idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range Migrations() {
		if _, err := db.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, stmt)
		}
	}
	return nil
}

// Repositories returns repositories bound to the connection pool.
func (db *DB) Repositories() *repositories.Repositories { return db.repos }

// WithTransaction runs fn inside one SQLite transaction.
func (db *DB) WithTransaction(ctx context.Context, fn func(ctx context.Context, repos *repositories.Repositories) error) error {
	if db.txTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, db.txTimeout)
		defer cancel()
	}

	tx, err := db.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx, newRepositories(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close closes the database.
func (db *DB) Close(ctx context.Context) error {
	return db.db.Close()
}

func newRepositories(q querier) *repositories.Repositories {
	return &repositories.Repositories{
		Users:         &userRepository{q: q},
		Ledger:        &ledgerRepository{q: q},
		Requests:      &requestRepository{q: q},
		Collections:   &collectionRepository{q: q},
		Categories:    &categoryRepository{q: q},
		Rewards:       &rewardRepository{q: q},
		Addresses:     &addressRepository{q: q},
		Notifications: &notificationRepository{q: q},
	}
}

// ─── helpers ────────────────────────────────────────────────────────────────

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}

func formatNullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}

func parseNullTime(s sql.NullString) *time.Time {
	if !s.Valid {
		return nil
	}
	t := parseTime(s.String)
	return &t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// notFound maps sql.ErrNoRows to repositories.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, repositories.ErrNotFound)
	}
	return err
}
