// Package worker records the ledger change feed into an append-only
// audit log, one JSON line per mutation.
package worker

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"debtbook/internal/events"
)

// AuditWriter appends change messages to a JSON-lines audit file.
type AuditWriter struct {
	mu    sync.Mutex
	file  *os.File
	count uint64
}

type auditEntry struct {
	Entity     string    `json:"entity"`
	Op         string    `json:"op"`
	ID         string    `json:"id"`
	Version    uint64    `json:"version"`
	Timestamp  time.Time `json:"timestamp"`
	RecordedAt time.Time `json:"recordedAt"`
}

func NewAuditWriter(path string) (*AuditWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create audit directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	return &AuditWriter{file: f}, nil
}

// Record appends one change message. Safe for concurrent use.
func (w *AuditWriter) Record(msg *events.ChangeMessage) error {
	entry := auditEntry{
		Entity:     msg.Entity,
		Op:         msg.Op,
		ID:         msg.ID,
		Version:    msg.Version,
		Timestamp:  msg.Timestamp,
		RecordedAt: time.Now(),
	}
	line, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal audit entry: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append audit entry: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of entries recorded since startup.
func (w *AuditWriter) Count() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

func (w *AuditWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}
