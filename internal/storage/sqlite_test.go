package storage

import (
	"context"
	"path/filepath"
	"testing"

	"debtbook/internal/config"
	"debtbook/internal/core"
)

func testConfig(dir, backend string) *config.Config {
	return &config.Config{
		DataBackend:  backend,
		SnapshotPath: filepath.Join(dir, "ledger.json"),
		SQLiteDBPath: filepath.Join(dir, "ledger.db"),
	}
}

func TestSQLiteRoundtrip(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	empty, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load of fresh database: %v", err)
	}
	if len(empty.Users) != 0 {
		t.Fatalf("fresh database should be empty, got %+v", empty)
	}

	snap := core.Snapshot{
		Users: []core.User{
			{ID: "u1", Name: "Ada", Email: "ada@example.com", Phone: "555-0100", CreatedAt: 1},
			{ID: "u2", Name: "Bob", Email: "bob@example.com", CreatedAt: 2},
		},
		Bills: []core.Bill{{
			ID: "b1", UserID: "u1", BillName: "Rent",
			TotalAmount: core.Money{Cents: 100000},
			DueDate:     core.NewDate(2026, 9, 1),
			CreatedAt:   3,
		}},
		Transactions: []core.Transaction{{
			ID: "t1", BillID: "b1",
			PaidAmount:  core.Money{Cents: 40000},
			PaymentDate: core.NewDate(2026, 9, 5),
			CreatedAt:   4,
		}},
		Expenses: []core.Expense{{
			ID: "e1", Description: "Ads",
			Amount:    core.Money{Cents: 5000},
			Category:  core.CategoryMarketing,
			Date:      core.NewDate(2026, 8, 1),
			CreatedAt: 5,
		}},
	}

	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Users) != 2 || got.Users[0] != snap.Users[0] || got.Users[1] != snap.Users[1] {
		t.Fatalf("users roundtrip mismatch: %+v", got.Users)
	}
	if len(got.Bills) != 1 || got.Bills[0].DueDate.String() != "2026-09-01" || got.Bills[0].TotalAmount.Cents != 100000 {
		t.Fatalf("bills roundtrip mismatch: %+v", got.Bills)
	}
	if len(got.Transactions) != 1 || got.Transactions[0].PaidAmount.Cents != 40000 {
		t.Fatalf("transactions roundtrip mismatch: %+v", got.Transactions)
	}
	if len(got.Expenses) != 1 || got.Expenses[0].Category != core.CategoryMarketing {
		t.Fatalf("expenses roundtrip mismatch: %+v", got.Expenses)
	}
}

func TestSQLiteSaveOverwrites(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("NewSQLite: %v", err)
	}
	defer s.Close()
	ctx := context.Background()

	first := core.Snapshot{Users: []core.User{
		{ID: "u1", Name: "Ada", Email: "ada@example.com", CreatedAt: 1},
		{ID: "u2", Name: "Bob", Email: "bob@example.com", CreatedAt: 2},
	}}
	if err := s.Save(ctx, first); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	second := core.Snapshot{Users: []core.User{
		{ID: "u2", Name: "Bob", Email: "bob@example.com", CreatedAt: 2},
	}}
	if err := s.Save(ctx, second); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Users) != 1 || got.Users[0].ID != "u2" {
		t.Fatalf("Save must replace the whole collection, got %+v", got.Users)
	}
}

func TestOpenSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		backend string
		wantErr bool
	}{
		{"json", false},
		{"sqlite", false},
		{"memory", false},
		{"postgres", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			p, err := Open(testConfig(dir, tt.backend))
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Open(%q) should fail", tt.backend)
				}
				return
			}
			if err != nil {
				t.Fatalf("Open(%q): %v", tt.backend, err)
			}
			p.Close()
		})
	}
}
