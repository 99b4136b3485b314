package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"debtbook/internal/core"
)

// JSONFile persists the snapshot as a single JSON document holding the
// four collections under their four logical keys. This is the literal
// persistence contract: keys absent from the document decode as empty
// collections, and a missing file means a fresh ledger.
type JSONFile struct {
	path string
}

func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

func (j *JSONFile) Load(ctx context.Context) (core.Snapshot, error) {
	data, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		slog.InfoContext(ctx, "No snapshot file, starting empty", "path", j.path)
		return core.Snapshot{}, nil
	}
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("read snapshot file: %w", err)
	}

	var snap core.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return core.Snapshot{}, fmt.Errorf("decode snapshot file %s: %w", j.path, err)
	}

	slog.InfoContext(ctx, "Snapshot loaded",
		"path", j.path,
		"users", len(snap.Users),
		"bills", len(snap.Bills),
		"transactions", len(snap.Transactions),
		"expenses", len(snap.Expenses))
	return snap, nil
}

// Save writes the whole document through a temp file and rename so a
// crash mid-write never leaves a truncated snapshot behind.
func (j *JSONFile) Save(ctx context.Context, snap core.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(j.path), 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(normalize(snap), "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot temp file: %w", err)
	}
	if err := os.Rename(tmp, j.path); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}
	return nil
}

func (j *JSONFile) Close() error { return nil }

// normalize replaces nil collections with empty ones so all four keys
// always appear as arrays in the document.
func normalize(snap core.Snapshot) core.Snapshot {
	if snap.Users == nil {
		snap.Users = []core.User{}
	}
	if snap.Bills == nil {
		snap.Bills = []core.Bill{}
	}
	if snap.Transactions == nil {
		snap.Transactions = []core.Transaction{}
	}
	if snap.Expenses == nil {
		snap.Expenses = []core.Expense{}
	}
	return snap
}
