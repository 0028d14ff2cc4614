// Package taskfilestore serves the task fixture document from a file.
package taskfilestore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jrazmi/taskboard/core/repositories/tasksrepo"
	"github.com/jrazmi/taskboard/sdk/logger"
)

// DefaultName is the embedded fixture file.
const DefaultName = "fixtures/tasks.json"

//go:embed fixtures/tasks.json
var fixtures embed.FS

// ========================================
// STORE
// ========================================

// Store reads the fixture document from a file system on every call, so
// edits to an on-disk fixture are picked up without a restart.
type Store struct {
	log  *logger.Logger
	fsys fs.FS
	name string
}

// New creates a store reading name from fsys.
func New(log *logger.Logger, fsys fs.FS, name string) *Store {
	return &Store{
		log:  log,
		fsys: fsys,
		name: name,
	}
}

// NewDefault creates a store over the embedded fixture.
func NewDefault(log *logger.Logger) *Store {
	return New(log, fixtures, DefaultName)
}

// NewFromPath creates a store reading the file at path.
func NewFromPath(log *logger.Logger, path string) *Store {
	return New(log, os.DirFS(filepath.Dir(path)), filepath.Base(path))
}

// Fixture implements tasksrepo.Storer.
func (s *Store) Fixture(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(s.fsys, s.name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.WarnContext(ctx, "fixture file missing", "name", s.name)
			return nil, fmt.Errorf("read %s: %w", s.name, tasksrepo.ErrFixtureNotFound)
		}
		return nil, fmt.Errorf("read %s: %w", s.name, err)
	}

	return data, nil
}

// Name returns the file the store reads.
func (s *Store) Name() string {
	return s.name
}
