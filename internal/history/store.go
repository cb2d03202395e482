// Package history keeps a persistent audit log of registry mutations in
// SQLite. It is an optional subsystem: if it fails to initialize, the
// server logs a warning and runs without it — registry operations never
// depend on history being available.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// --- Event kinds ---

// Kind classifies a recorded mutation.
type Kind string

const (
	KindRegistered        Kind = "capability_registered"
	KindUpdated           Kind = "capability_updated"
	KindDeleted           Kind = "capability_deleted"
	KindMaturitySet       Kind = "maturity_set"
	KindTemplateAdded     Kind = "template_added"
	KindResolutionApplied Kind = "resolution_applied"
	KindMigrationPlanned  Kind = "migration_planned"
	KindPhaseExecuted     Kind = "phase_executed"
	KindDeprecationPlan   Kind = "deprecation_planned"
)

// Event is one recorded registry mutation.
type Event struct {
	ID           int64  `json:"id"`
	OccurredAt   string `json:"occurred_at"`
	Kind         Kind   `json:"kind"`
	CapabilityID string `json:"capability_id,omitempty"`
	TemplateID   string `json:"template_id,omitempty"`
	Detail       string `json:"detail,omitempty"`
}

// --- Config ---

// Config holds history store configuration.
type Config struct {
	DataDir string
}

// DefaultConfig returns the default configuration, rooted under the
// user's home directory.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{DataDir: filepath.Join(home, ".lodestar")}
}

// --- Store ---

// Store is the audit log backed by SQLite.
type Store struct {
	db *sql.DB
}

// New creates a Store with the given configuration. It creates the data
// directory if needed, opens SQLite with WAL mode, and runs migrations.
func New(cfg Config) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("history: create data dir: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, "history.db")
	db, err := openDB("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("history: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return nil, fmt.Errorf("history: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("history: migration: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			occurred_at   TEXT NOT NULL,
			kind          TEXT NOT NULL,
			capability_id TEXT NOT NULL DEFAULT '',
			template_id   TEXT NOT NULL DEFAULT '',
			detail        TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_events_kind ON events(kind);
		CREATE INDEX IF NOT EXISTS idx_events_capability ON events(capability_id);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// Record appends an event. The timestamp is set here, not by callers.
func (s *Store) Record(kind Kind, capabilityID, templateID, detail string) error {
	now := timeNow().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`INSERT INTO events (occurred_at, kind, capability_id, template_id, detail)
		 VALUES (?, ?, ?, ?, ?)`,
		now, string(kind), capabilityID, templateID, detail,
	)
	if err != nil {
		return fmt.Errorf("history: record %s: %w", kind, err)
	}
	return nil
}

// Recent returns the newest events, most recent first, up to limit.
func (s *Store) Recent(limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(
		`SELECT id, occurred_at, kind, capability_id, template_id, detail
		 FROM events ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query recent: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var kind string
		if err := rows.Scan(&e.ID, &e.OccurredAt, &kind, &e.CapabilityID, &e.TemplateID, &e.Detail); err != nil {
			return nil, fmt.Errorf("history: scan event: %w", err)
		}
		e.Kind = Kind(kind)
		events = append(events, e)
	}
	return events, rows.Err()
}

// ForCapability returns events touching one capability, oldest first.
func (s *Store) ForCapability(capabilityID string) ([]Event, error) {
	rows, err := s.db.Query(
		`SELECT id, occurred_at, kind, capability_id, template_id, detail
		 FROM events WHERE capability_id = ? ORDER BY id ASC`, capabilityID,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query capability %q: %w", capabilityID, err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var kind string
		if err := rows.Scan(&e.ID, &e.OccurredAt, &kind, &e.CapabilityID, &e.TemplateID, &e.Detail); err != nil {
			return nil, fmt.Errorf("history: scan event: %w", err)
		}
		e.Kind = Kind(kind)
		events = append(events, e)
	}
	return events, rows.Err()
}
