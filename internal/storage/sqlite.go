package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"debtbook/internal/core"
)

// SQLite persists the snapshot in four tables mirroring the record
// shapes. The contract stays whole-collection overwrite: Save replaces
// every row inside one transaction.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(dbPath string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLite) Load(ctx context.Context) (core.Snapshot, error) {
	var snap core.Snapshot

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, email, phone, created_at FROM users ORDER BY rowid`)
	if err != nil {
		return snap, fmt.Errorf("query users: %w", err)
	}
	for rows.Next() {
		var u core.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.CreatedAt); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan user: %w", err)
		}
		snap.Users = append(snap.Users, u)
	}
	if err := rows.Close(); err != nil {
		return snap, fmt.Errorf("close users rows: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, user_id, bill_name, total_amount_cents, due_date, created_at FROM bills ORDER BY rowid`)
	if err != nil {
		return snap, fmt.Errorf("query bills: %w", err)
	}
	for rows.Next() {
		var b core.Bill
		var due string
		if err := rows.Scan(&b.ID, &b.UserID, &b.BillName, &b.TotalAmount.Cents, &due, &b.CreatedAt); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan bill: %w", err)
		}
		if b.DueDate, err = parseStoredDate(due); err != nil {
			rows.Close()
			return snap, fmt.Errorf("bill %s due date: %w", b.ID, err)
		}
		snap.Bills = append(snap.Bills, b)
	}
	if err := rows.Close(); err != nil {
		return snap, fmt.Errorf("close bills rows: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, bill_id, paid_amount_cents, payment_date, created_at FROM transactions ORDER BY rowid`)
	if err != nil {
		return snap, fmt.Errorf("query transactions: %w", err)
	}
	for rows.Next() {
		var t core.Transaction
		var paid string
		if err := rows.Scan(&t.ID, &t.BillID, &t.PaidAmount.Cents, &paid, &t.CreatedAt); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan transaction: %w", err)
		}
		if t.PaymentDate, err = parseStoredDate(paid); err != nil {
			rows.Close()
			return snap, fmt.Errorf("transaction %s payment date: %w", t.ID, err)
		}
		snap.Transactions = append(snap.Transactions, t)
	}
	if err := rows.Close(); err != nil {
		return snap, fmt.Errorf("close transactions rows: %w", err)
	}

	rows, err = s.db.QueryContext(ctx, `SELECT id, description, amount_cents, category, date, created_at FROM expenses ORDER BY rowid`)
	if err != nil {
		return snap, fmt.Errorf("query expenses: %w", err)
	}
	for rows.Next() {
		var e core.Expense
		var date string
		if err := rows.Scan(&e.ID, &e.Description, &e.Amount.Cents, &e.Category, &date, &e.CreatedAt); err != nil {
			rows.Close()
			return snap, fmt.Errorf("scan expense: %w", err)
		}
		if e.Date, err = parseStoredDate(date); err != nil {
			rows.Close()
			return snap, fmt.Errorf("expense %s date: %w", e.ID, err)
		}
		snap.Expenses = append(snap.Expenses, e)
	}
	if err := rows.Close(); err != nil {
		return snap, fmt.Errorf("close expenses rows: %w", err)
	}

	return snap, nil
}

func (s *SQLite) Save(ctx context.Context, snap core.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"transactions", "bills", "users", "expenses"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, u := range snap.Users {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, name, email, phone, created_at) VALUES (?, ?, ?, ?, ?)`,
			u.ID, u.Name, u.Email, u.Phone, u.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert user %s: %w", u.ID, err)
		}
	}

	for _, b := range snap.Bills {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO bills (id, user_id, bill_name, total_amount_cents, due_date, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			b.ID, b.UserID, b.BillName, b.TotalAmount.Cents, b.DueDate.String(), b.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert bill %s: %w", b.ID, err)
		}
	}

	for _, t := range snap.Transactions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (id, bill_id, paid_amount_cents, payment_date, created_at) VALUES (?, ?, ?, ?, ?)`,
			t.ID, t.BillID, t.PaidAmount.Cents, t.PaymentDate.String(), t.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	for _, e := range snap.Expenses {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (id, description, amount_cents, category, date, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.Description, e.Amount.Cents, string(e.Category), e.Date.String(), e.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert expense %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot transaction: %w", err)
	}
	return nil
}

func parseStoredDate(s string) (core.Date, error) {
	if s == "" {
		return core.Date{}, nil
	}
	return core.ParseDate(s)
}
