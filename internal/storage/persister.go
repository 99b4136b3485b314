// Package storage persists whole ledger snapshots. Every mutation
// overwrites the full set of four collections; there is no incremental
// or append persistence. Three backends exist: a JSON snapshot file
// (default), SQLite, and a null persister that keeps nothing.
package storage

import (
	"context"
	"fmt"

	"debtbook/internal/config"
	"debtbook/internal/core"
)

// Persister loads the ledger state at startup and overwrites it after
// every mutation.
type Persister interface {
	// Load returns the persisted snapshot. A backend with no previous
	// state returns an empty snapshot, not an error.
	Load(ctx context.Context) (core.Snapshot, error)

	// Save overwrites the full persisted state with the snapshot.
	Save(ctx context.Context, snap core.Snapshot) error

	Close() error
}

// Open selects and initializes a persister from the configuration.
func Open(cfg *config.Config) (Persister, error) {
	switch cfg.DataBackend {
	case "json":
		return NewJSONFile(cfg.SnapshotPath), nil
	case "sqlite":
		return NewSQLite(cfg.SQLiteDBPath)
	case "memory":
		return Null{}, nil
	default:
		return nil, fmt.Errorf("unsupported data backend: %s", cfg.DataBackend)
	}
}

// Null is a persister that keeps nothing. Used for throwaway runs and
// tests.
type Null struct{}

func (Null) Load(context.Context) (core.Snapshot, error) { return core.Snapshot{}, nil }
func (Null) Save(context.Context, core.Snapshot) error   { return nil }
func (Null) Close() error                                { return nil }
