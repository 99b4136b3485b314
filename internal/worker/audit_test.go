package worker

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"debtbook/internal/events"
)

func TestAuditWriterRecordsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	w, err := NewAuditWriter(path)
	if err != nil {
		t.Fatalf("NewAuditWriter: %v", err)
	}
	defer w.Close()

	messages := []*events.ChangeMessage{
		events.NewChangeMessage(events.EntityUser, events.OpCreated, "u1", 1),
		events.NewChangeMessage(events.EntityBill, events.OpCreated, "b1", 2),
		events.NewChangeMessage(events.EntityUser, events.OpDeleted, "u1", 3),
	}
	for _, msg := range messages {
		if err := w.Record(msg); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if w.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", w.Count())
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open audit log: %v", err)
	}
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("line %d is not valid JSON: %v", lines+1, err)
		}
		if entry["entity"] != messages[lines].Entity || entry["op"] != messages[lines].Op {
			t.Fatalf("line %d mismatch: %v", lines+1, entry)
		}
		if _, ok := entry["recordedAt"]; !ok {
			t.Fatalf("line %d missing recordedAt: %v", lines+1, entry)
		}
		lines++
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan audit log: %v", err)
	}
	if lines != 3 {
		t.Fatalf("audit log has %d lines, want 3", lines)
	}
}

func TestAuditWriterAppendsAcrossOpens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")

	w, err := NewAuditWriter(path)
	if err != nil {
		t.Fatalf("NewAuditWriter: %v", err)
	}
	if err := w.Record(events.NewChangeMessage(events.EntityExpense, events.OpCreated, "e1", 1)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	w.Close()

	w2, err := NewAuditWriter(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer w2.Close()
	if err := w2.Record(events.NewChangeMessage(events.EntityExpense, events.OpDeleted, "e1", 2)); err != nil {
		t.Fatalf("Record after reopen: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read audit log: %v", err)
	}
	var count int
	for _, b := range data {
		if b == '\n' {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("audit log has %d entries after reopen, want 2", count)
	}
}
