package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	"github.com/abhisek/assess/internal/assessment"
	"github.com/abhisek/assess/internal/profile"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// querier is the subset of sqlx satisfied by both *sqlx.DB and *sqlx.Tx,
// so repositories work unchanged inside and outside a transaction.
type querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// Store provides SQLite-backed repositories for the assessment engine.
type Store struct {
	q querier

	// db is nil when the store is transaction-scoped.
	db *sqlx.DB
}

var _ assessment.Repos = (*Store)(nil)

// Open connects to the SQLite database at dsn, applies recommended pragmas
// and creates the schema.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{q: db, db: db}, nil
}

// DB returns the underlying *sqlx.DB for raw queries. It is nil on a
// transaction-scoped store.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Sessions returns the session repository.
func (s *Store) Sessions() assessment.SessionRepo {
	return &sessionRepo{q: s.q}
}

// Items returns the item repository.
func (s *Store) Items() assessment.ItemRepo {
	return &itemRepo{q: s.q}
}

// Profiles returns the knowledge state store.
func (s *Store) Profiles() profile.Store {
	return &profileRepo{q: s.q}
}

// Events returns the LLM request event repository.
func (s *Store) Events() *EventRepo {
	return &EventRepo{q: s.q}
}

// Transact runs fn against transaction-scoped repositories. On a store that
// is already transaction-scoped fn joins the open transaction.
func (s *Store) Transact(ctx context.Context, fn func(assessment.Repos) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(&Store{q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. ASSESS_DB environment variable
// 2. $XDG_DATA_HOME/assess/assess.db
// 3. ~/.local/share/assess/assess.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("ASSESS_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "assess", "assess.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// ResetStudent deletes a student's sessions, items and knowledge profiles.
func (s *Store) ResetStudent(ctx context.Context, studentID string) error {
	return s.Transact(ctx, func(tx assessment.Repos) error {
		st := tx.(*Store)
		if _, err := st.q.ExecContext(ctx,
			`DELETE FROM items WHERE session_id IN (SELECT id FROM sessions WHERE student_id = ?)`,
			studentID); err != nil {
			return fmt.Errorf("delete items: %w", err)
		}
		if _, err := st.q.ExecContext(ctx,
			`DELETE FROM sessions WHERE student_id = ?`, studentID); err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}
		if _, err := st.q.ExecContext(ctx,
			`DELETE FROM knowledge_profiles WHERE student_id = ?`, studentID); err != nil {
			return fmt.Errorf("delete profiles: %w", err)
		}
		return nil
	})
}
