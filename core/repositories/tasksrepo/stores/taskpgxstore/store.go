// Package taskpgxstore serves named task fixture documents from Postgres.
package taskpgxstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/infrastructure/postgresdb"
	"github.com/jrazmi/taskboard/sdk/logger"
)

// DefaultName is the fixture row read when no name is configured.
const DefaultName = "default"

// ========================================
// STORE
// ========================================

// Store reads one row of the task_fixtures table.
type Store struct {
	log  *logger.Logger
	db   postgresdb.Querier
	name string
}

// NewStore creates a new fixture store for the named row.
func NewStore(log *logger.Logger, db postgresdb.Querier, name string) *Store {
	if name == "" {
		name = DefaultName
	}
	return &Store{
		log:  log,
		db:   db,
		name: name,
	}
}

// Fixture implements tasksrepo.Storer. A missing row or a database that has
// not been migrated reports tasksrepo.ErrFixtureNotFound.
func (s *Store) Fixture(ctx context.Context) ([]byte, error) {
	const query = `SELECT document FROM task_fixtures WHERE name = $1`

	var document []byte
	if err := s.db.QueryRow(ctx, query, s.name).Scan(&document); err != nil {
		err = postgresdb.HandlePgError(err)
		if errors.Is(err, postgresdb.ErrDBNotFound) || errors.Is(err, postgresdb.ErrUndefinedTable) {
			s.log.WarnContext(ctx, "fixture row missing", "name", s.name, "err", err)
			return nil, fmt.Errorf("fixture %q: %w", s.name, tasksrepo.ErrFixtureNotFound)
		}
		return nil, fmt.Errorf("query fixture %q: %w", s.name, err)
	}

	return document, nil
}

// Save upserts the fixture row. The document must be valid JSON; it is not
// checked against the task document shape so that malformed fixtures can be
// seeded on purpose.
func (s *Store) Save(ctx context.Context, document []byte) error {
	const query = `
		INSERT INTO task_fixtures (name, document)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (name) DO UPDATE
		SET document = EXCLUDED.document, updated_at = NOW()`

	if !json.Valid(document) {
		return fmt.Errorf("save fixture %q: document is not valid JSON", s.name)
	}

	if _, err := s.db.Exec(ctx, query, s.name, string(document)); err != nil {
		return fmt.Errorf("save fixture %q: %w", s.name, postgresdb.HandlePgError(err))
	}

	s.log.InfoContext(ctx, "fixture saved", "name", s.name, "bytes", len(document))
	return nil
}

// Name returns the fixture row the store reads.
func (s *Store) Name() string {
	return s.name
}
