// Package findingstore persists confirmed findings to sqlite so each one is
// individually addressable by ID after the run directory is gone.
package findingstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/zero-day-ai/provoke/internal/redteam"
	"github.com/zero-day-ai/provoke/internal/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS findings (
	id TEXT PRIMARY KEY,
	category TEXT NOT NULL,
	severity TEXT NOT NULL,
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	attack_vector TEXT NOT NULL,
	conversation_id TEXT NOT NULL,
	proof_of_concept TEXT NOT NULL,
	mitigations TEXT NOT NULL,
	metadata TEXT NOT NULL,
	discovered_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_findings_category ON findings(category);
CREATE INDEX IF NOT EXISTS idx_findings_severity ON findings(severity);
`

// Store persists findings in a sqlite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the sqlite database at path and ensures
// the schema exists. Use ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open finding database: %w", err)
	}
	// A single connection keeps ":memory:" databases coherent; every pool
	// connection would otherwise see its own empty database.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate finding database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts a finding. Findings are immutable, so a duplicate ID is an
// error rather than an upsert.
func (s *Store) Save(ctx context.Context, f redteam.Finding) error {
	mitigations, err := json.Marshal(f.Mitigations)
	if err != nil {
		return fmt.Errorf("failed to encode mitigations: %w", err)
	}
	metadata, err := json.Marshal(f.Metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO findings (id, category, severity, title, description,
			attack_vector, conversation_id, proof_of_concept, mitigations,
			metadata, discovered_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID.String(), f.Category.String(), f.Severity.String(), f.Title,
		f.Description, f.AttackVector, f.ConversationID.String(),
		f.ProofOfConcept, string(mitigations), string(metadata), f.DiscoveredAt)
	if err != nil {
		return fmt.Errorf("failed to insert finding %s: %w", f.ID, err)
	}
	return nil
}

// SaveAll inserts every finding in one transaction.
func (s *Store) SaveAll(ctx context.Context, findings []redteam.Finding) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, f := range findings {
		mitigations, err := json.Marshal(f.Mitigations)
		if err != nil {
			return fmt.Errorf("failed to encode mitigations: %w", err)
		}
		metadata, err := json.Marshal(f.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO findings (id, category, severity, title, description,
				attack_vector, conversation_id, proof_of_concept, mitigations,
				metadata, discovered_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			f.ID.String(), f.Category.String(), f.Severity.String(), f.Title,
			f.Description, f.AttackVector, f.ConversationID.String(),
			f.ProofOfConcept, string(mitigations), string(metadata), f.DiscoveredAt); err != nil {
			return fmt.Errorf("failed to insert finding %s: %w", f.ID, err)
		}
	}
	return tx.Commit()
}

// Get retrieves a finding by ID.
func (s *Store) Get(ctx context.Context, id types.ID) (*redteam.Finding, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, category, severity, title, description, attack_vector,
			conversation_id, proof_of_concept, mitigations, metadata,
			discovered_at
		FROM findings WHERE id = ?`, id.String())

	f, err := scanFinding(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("finding %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load finding %s: %w", id, err)
	}
	return f, nil
}

// List returns all findings, optionally filtered to one category, newest
// first.
func (s *Store) List(ctx context.Context, category *redteam.Category) ([]redteam.Finding, error) {
	query := `
		SELECT id, category, severity, title, description, attack_vector,
			conversation_id, proof_of_concept, mitigations, metadata,
			discovered_at
		FROM findings`
	args := []any{}
	if category != nil {
		query += " WHERE category = ?"
		args = append(args, category.String())
	}
	query += " ORDER BY discovered_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list findings: %w", err)
	}
	defer rows.Close()

	var out []redteam.Finding
	for rows.Next() {
		f, err := scanFinding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan finding: %w", err)
		}
		out = append(out, *f)
	}
	return out, rows.Err()
}

// Count returns the number of stored findings.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM findings").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count findings: %w", err)
	}
	return n, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanFinding(row scanner) (*redteam.Finding, error) {
	var f redteam.Finding
	var id, category, severity, conversationID, mitigations, metadata string
	var discoveredAt time.Time

	err := row.Scan(&id, &category, &severity, &f.Title, &f.Description,
		&f.AttackVector, &conversationID, &f.ProofOfConcept, &mitigations,
		&metadata, &discoveredAt)
	if err != nil {
		return nil, err
	}

	f.ID = types.ID(id)
	f.Category = redteam.Category(category)
	f.Severity = redteam.Severity(severity)
	f.ConversationID = types.ID(conversationID)
	f.DiscoveredAt = discoveredAt

	if err := json.Unmarshal([]byte(mitigations), &f.Mitigations); err != nil {
		return nil, fmt.Errorf("corrupt mitigations column: %w", err)
	}
	if err := json.Unmarshal([]byte(metadata), &f.Metadata); err != nil {
		return nil, fmt.Errorf("corrupt metadata column: %w", err)
	}
	return &f, nil
}
