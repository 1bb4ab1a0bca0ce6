// Package taskstore caches task-issue snapshots in SQLite so a
// restarted dashboard renders the last known task list immediately
// while the first poll is still in flight.
package taskstore

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/config"
	"github.com/DeprecatedLuke/oh-my-singularity-sub003/internal/domain"

	_ "modernc.org/sqlite"
)

// Store wraps a SQLite database holding the issue snapshot cache.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database in the data directory.
func Open() (*Store, error) {
	dir, err := config.DataDir()
	if err != nil {
		return nil, fmt.Errorf("data dir: %w", err)
	}
	dsn := filepath.Join(dir, "tasks.db")

	db, err := sql.Open("sqlite", dsn+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewFromDB creates a Store from an existing *sql.DB and runs
// migrations. Used by tests with an in-memory database.
func NewFromDB(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS issues (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			priority INTEGER DEFAULT 0,
			labels TEXT NOT NULL DEFAULT '',
			depends_on TEXT NOT NULL DEFAULT '',
			comments TEXT NOT NULL DEFAULT '[]',
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);
		CREATE INDEX IF NOT EXISTS idx_issues_status ON issues(status);
	`)
	return err
}

// ReplaceAll swaps the cached snapshot for a fresh poll result in one
// transaction: issues absent from the new set are removed.
func (s *Store) ReplaceAll(issues []domain.TaskIssue) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM issues`); err != nil {
		return fmt.Errorf("clear issues: %w", err)
	}
	for _, issue := range issues {
		if err := upsertTx(tx, issue); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Upsert stores or refreshes a single issue snapshot.
func (s *Store) Upsert(issue domain.TaskIssue) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()
	if err := upsertTx(tx, issue); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertTx(tx *sql.Tx, issue domain.TaskIssue) error {
	comments, err := json.Marshal(issue.Comments)
	if err != nil {
		return fmt.Errorf("marshal comments: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO issues (id, title, status, priority, labels, depends_on, comments, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			priority = excluded.priority,
			labels = excluded.labels,
			depends_on = excluded.depends_on,
			comments = excluded.comments,
			updated_at = datetime('now')
	`, issue.ID, issue.Title, issue.Status, issue.Priority,
		strings.Join(issue.Labels, ","), strings.Join(issue.DependsOnIDs, ","), string(comments))
	if err != nil {
		return fmt.Errorf("upsert issue %s: %w", issue.ID, err)
	}
	return nil
}

// All returns the cached snapshot ordered by priority then id.
func (s *Store) All() ([]domain.TaskIssue, error) {
	rows, err := s.db.Query(`
		SELECT id, title, status, priority, labels, depends_on, comments
		FROM issues ORDER BY priority DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query issues: %w", err)
	}
	defer rows.Close()

	var out []domain.TaskIssue
	for rows.Next() {
		var issue domain.TaskIssue
		var labels, dependsOn, comments string
		if err := rows.Scan(&issue.ID, &issue.Title, &issue.Status, &issue.Priority,
			&labels, &dependsOn, &comments); err != nil {
			return nil, fmt.Errorf("scan issue: %w", err)
		}
		issue.Labels = splitCSV(labels)
		issue.DependsOnIDs = splitCSV(dependsOn)
		if err := json.Unmarshal([]byte(comments), &issue.Comments); err != nil {
			issue.Comments = nil
		}
		out = append(out, issue)
	}
	return out, rows.Err()
}

// Get returns one cached issue by id; found is false when absent.
func (s *Store) Get(id string) (issue domain.TaskIssue, found bool, err error) {
	var labels, dependsOn, comments string
	err = s.db.QueryRow(`
		SELECT id, title, status, priority, labels, depends_on, comments
		FROM issues WHERE id = ?
	`, id).Scan(&issue.ID, &issue.Title, &issue.Status, &issue.Priority,
		&labels, &dependsOn, &comments)
	if err == sql.ErrNoRows {
		return domain.TaskIssue{}, false, nil
	}
	if err != nil {
		return domain.TaskIssue{}, false, fmt.Errorf("query issue %s: %w", id, err)
	}
	issue.Labels = splitCSV(labels)
	issue.DependsOnIDs = splitCSV(dependsOn)
	if err := json.Unmarshal([]byte(comments), &issue.Comments); err != nil {
		issue.Comments = nil
	}
	return issue, true, nil
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
