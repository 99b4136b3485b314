// Package service orchestrates the ledger store with snapshot
// persistence and the optional change feed: every mutation is applied
// to the store, then the full snapshot is written through the
// persister, then a change message is published. Persistence and
// publish failures are logged, never surfaced to the caller; the
// mutation itself has already happened.
package service

import (
	"context"
	"log/slog"

	"debtbook/internal/core"
	"debtbook/internal/events"
	"debtbook/internal/ledger"
	applog "debtbook/internal/log"
	"debtbook/internal/storage"
)

// ChangePublisher announces ledger mutations to interested consumers.
type ChangePublisher interface {
	PublishChange(ctx context.Context, msg *events.ChangeMessage) error
}

// LedgerService is the single entry point the presentation boundary
// talks to.
type LedgerService struct {
	store     *ledger.Store
	persister storage.Persister
	publisher ChangePublisher
}

// New wires the service. publisher may be nil when the change feed is
// disabled.
func New(store *ledger.Store, persister storage.Persister, publisher ChangePublisher) *LedgerService {
	return &LedgerService{
		store:     store,
		persister: persister,
		publisher: publisher,
	}
}

func (s *LedgerService) CreateUser(ctx context.Context, name, email, phone string) core.User {
	u := s.store.AddUser(name, email, phone)
	s.afterMutation(ctx, events.EntityUser, events.OpCreated, u.ID)
	return u
}

// UpdateUser edits the user's profile fields. An unknown id is a benign
// no-op; the bool reports whether anything changed.
func (s *LedgerService) UpdateUser(ctx context.Context, id, name, email, phone string) (core.User, bool) {
	u, ok := s.store.EditUser(id, name, email, phone)
	if ok {
		s.afterMutation(ctx, events.EntityUser, events.OpUpdated, id)
	}
	return u, ok
}

func (s *LedgerService) DeleteUser(ctx context.Context, id string) {
	s.store.DeleteUser(id)
	s.afterMutation(ctx, events.EntityUser, events.OpDeleted, id)
}

func (s *LedgerService) CreateBill(ctx context.Context, userID, billName string, totalAmount core.Money, dueDate core.Date) core.Bill {
	b := s.store.AddBill(userID, billName, totalAmount, dueDate)
	s.afterMutation(ctx, events.EntityBill, events.OpCreated, b.ID)
	return b
}

func (s *LedgerService) DeleteBill(ctx context.Context, id string) {
	s.store.DeleteBill(id)
	s.afterMutation(ctx, events.EntityBill, events.OpDeleted, id)
}

func (s *LedgerService) CreateTransaction(ctx context.Context, billID string, paidAmount core.Money, paymentDate core.Date) core.Transaction {
	t := s.store.AddTransaction(billID, paidAmount, paymentDate)
	s.afterMutation(ctx, events.EntityTransaction, events.OpCreated, t.ID)
	return t
}

func (s *LedgerService) CreateExpense(ctx context.Context, description string, amount core.Money, category core.Category, date core.Date) core.Expense {
	e := s.store.AddExpense(description, amount, category, date)
	s.afterMutation(ctx, events.EntityExpense, events.OpCreated, e.ID)
	return e
}

func (s *LedgerService) DeleteExpense(ctx context.Context, id string) {
	s.store.DeleteExpense(id)
	s.afterMutation(ctx, events.EntityExpense, events.OpDeleted, id)
}

func (s *LedgerService) Users() []core.User { return s.store.Users() }

func (s *LedgerService) HasUser(id string) bool { return s.store.HasUser(id) }

func (s *LedgerService) HasBill(id string) bool { return s.store.HasBill(id) }

func (s *LedgerService) UserSummary(userID string) (core.UserSummary, error) {
	return s.store.UserSummary(userID)
}

func (s *LedgerService) UserBills(userID string) []core.BillSummary {
	return s.store.UserBills(userID)
}

func (s *LedgerService) BillTransactions(billID string) []core.Transaction {
	return s.store.BillTransactions(billID)
}

func (s *LedgerService) Expenses() []core.Expense { return s.store.Expenses() }

func (s *LedgerService) ExpenseOverview() core.ExpenseOverview {
	return s.store.ExpenseOverview()
}

func (s *LedgerService) Dashboard() core.DashboardOverview {
	return s.store.Dashboard()
}

// Close releases the persister.
func (s *LedgerService) Close() error {
	if s.persister != nil {
		return s.persister.Close()
	}
	return nil
}

func (s *LedgerService) afterMutation(ctx context.Context, entity, op, id string) {
	version := s.store.Version()

	if s.persister != nil {
		if err := s.persister.Save(ctx, s.store.Snapshot()); err != nil {
			slog.ErrorContext(ctx, "Failed to persist snapshot",
				applog.FieldError, err,
				applog.FieldEntity, entity,
				applog.FieldOp, op,
				applog.FieldRecordID, id)
		}
	}

	if s.publisher == nil {
		return
	}
	msg := events.NewChangeMessage(entity, op, id, version)
	if err := s.publisher.PublishChange(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			applog.FieldError, err,
			applog.FieldEntity, entity,
			applog.FieldOp, op,
			applog.FieldRecordID, id)
	}
}
