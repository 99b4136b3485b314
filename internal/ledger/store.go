// Package ledger owns the authoritative in-process state of the debt
// ledger: the four record collections plus the mutation and query API
// computed over them.
//
// The store trusts its callers: mutation operations do not verify that
// referenced ids exist, and validation of field contents is the
// presentation layer's job. Referential integrity is maintained
// procedurally by cascade deletion, never checked after the fact.
package ledger

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"debtbook/internal/core"
)

var ErrUserNotFound = errors.New("no such user")

// Store holds the four collections. All operations are safe for
// concurrent use; every mutation is applied atomically under the write
// lock so a concurrent read never observes a partially applied cascade.
type Store struct {
	mu           sync.RWMutex
	users        []core.User
	bills        []core.Bill
	transactions []core.Transaction
	expenses     []core.Expense

	version uint64

	now   func() time.Time
	newID func() string
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithClock overrides the timestamp source. Tests use this to get
// deterministic createdAt ordering.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc overrides record id generation.
func WithIDFunc(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New constructs a store seeded from the given snapshot. The snapshot is
// copied; the caller's slices are never aliased.
func New(snap core.Snapshot, opts ...Option) *Store {
	snap = snap.Clone()
	s := &Store{
		users:        snap.Users,
		bills:        snap.Bills,
		transactions: snap.Transactions,
		expenses:     snap.Expenses,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) timestamp() int64 {
	return s.now().UnixMilli()
}

// AddUser registers a user with a fresh id and creation timestamp.
func (s *Store) AddUser(name, email, phone string) core.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := core.User{
		ID:        s.newID(),
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: s.timestamp(),
	}
	s.users = append(s.users, u)
	s.version++
	return u
}

// EditUser replaces the mutable profile fields of the matching user,
// preserving id and creation timestamp. An unknown id is a benign no-op;
// the returned bool reports whether a user was updated.
func (s *Store) EditUser(id, name, email, phone string) (core.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Name = name
			s.users[i].Email = email
			s.users[i].Phone = phone
			s.version++
			return s.users[i], true
		}
	}
	return core.User{}, false
}

// DeleteUser removes the user, all bills owned by the user, and all
// transactions belonging to those bills. The affected bill set is
// collected before bills are removed so the transaction cascade knows
// which bills just disappeared.
func (s *Store) DeleteUser(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removedBills := make(map[string]bool)
	for _, b := range s.bills {
		if b.UserID == id {
			removedBills[b.ID] = true
		}
	}

	s.users = deleteWhere(s.users, func(u core.User) bool { return u.ID == id })
	s.bills = deleteWhere(s.bills, func(b core.Bill) bool { return b.UserID == id })
	s.transactions = deleteWhere(s.transactions, func(t core.Transaction) bool { return removedBills[t.BillID] })
	s.version++
}

// AddBill records a bill owed by the given user. The user id is not
// checked for existence.
func (s *Store) AddBill(userID, billName string, totalAmount core.Money, dueDate core.Date) core.Bill {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := core.Bill{
		ID:          s.newID(),
		UserID:      userID,
		BillName:    billName,
		TotalAmount: totalAmount,
		DueDate:     dueDate,
		CreatedAt:   s.timestamp(),
	}
	s.bills = append(s.bills, b)
	s.version++
	return b
}

// DeleteBill removes the bill and every transaction referencing it.
func (s *Store) DeleteBill(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.bills = deleteWhere(s.bills, func(b core.Bill) bool { return b.ID == id })
	s.transactions = deleteWhere(s.transactions, func(t core.Transaction) bool { return t.BillID == id })
	s.version++
}

// AddTransaction appends a payment record against the given bill. The
// bill id is not checked for existence, and the amount is not capped
// against the remaining deficiency: overpayment is stored as-is and only
// the derived deficiency clamps to zero.
func (s *Store) AddTransaction(billID string, paidAmount core.Money, paymentDate core.Date) core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := core.Transaction{
		ID:          s.newID(),
		BillID:      billID,
		PaidAmount:  paidAmount,
		PaymentDate: paymentDate,
		CreatedAt:   s.timestamp(),
	}
	s.transactions = append(s.transactions, t)
	s.version++
	return t
}

// AddExpense records an operating expense.
func (s *Store) AddExpense(description string, amount core.Money, category core.Category, date core.Date) core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := core.Expense{
		ID:          s.newID(),
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        date,
		CreatedAt:   s.timestamp(),
	}
	s.expenses = append(s.expenses, e)
	s.version++
	return e
}

// DeleteExpense removes the matching expense. Expenses reference nothing,
// so there is no cascade.
func (s *Store) DeleteExpense(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.expenses = deleteWhere(s.expenses, func(e core.Expense) bool { return e.ID == id })
	s.version++
}

// HasUser reports whether a user with the id exists. Mutation
// operations never call this; it exists for callers that want to
// validate references before mutating.
func (s *Store) HasUser(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return true
		}
	}
	return false
}

// HasBill reports whether a bill with the id exists.
func (s *Store) HasBill(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bills {
		if b.ID == id {
			return true
		}
	}
	return false
}

// Users returns the user collection in insertion order.
func (s *Store) Users() []core.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.User, len(s.users))
	copy(out, s.users)
	return out
}

// UserSummary derives the aggregate debt figures for one user, computed
// fresh from the current collections. Returns ErrUserNotFound for an
// unknown id; callers must check before using the result.
func (s *Store) UserSummary(userID string) (core.UserSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == userID {
			return core.SummarizeUser(u, s.bills, s.transactions), nil
		}
	}
	return core.UserSummary{}, ErrUserNotFound
}

// UserBills returns summaries for all bills owned by the user, in the
// insertion order of the bill collection.
func (s *Store) UserBills(userID string) []core.BillSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.BillSummary
	for _, b := range s.bills {
		if b.UserID == userID {
			out = append(out, core.SummarizeBill(b, s.transactions))
		}
	}
	return out
}

// BillTransactions returns the bill's transactions ordered by createdAt
// descending, most recent first. The ordering is part of the contract.
func (s *Store) BillTransactions(billID string) []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []core.Transaction
	for _, t := range s.transactions {
		if t.BillID == billID {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out
}

// Expenses returns the expense collection sorted by date descending.
func (s *Store) Expenses() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Expense, len(s.expenses))
	copy(out, s.expenses)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date.Time) })
	return out
}

// Dashboard derives the global overview figures from all four
// collections.
func (s *Store) Dashboard() core.DashboardOverview {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return core.SummarizeDashboard(s.users, s.bills, s.transactions, s.expenses)
}

// ExpenseOverview aggregates the expense collection.
func (s *Store) ExpenseOverview() core.ExpenseOverview {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return core.SummarizeExpenses(s.expenses)
}

// Snapshot returns a deep copy of the four collections for persistence.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return core.Snapshot{
		Users:        s.users,
		Bills:        s.bills,
		Transactions: s.transactions,
		Expenses:     s.expenses,
	}.Clone()
}

// Version reports the number of mutations applied since construction.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.version
}

func deleteWhere[T any](in []T, match func(T) bool) []T {
	out := in[:0]
	for _, v := range in {
		if !match(v) {
			out = append(out, v)
		}
	}
	return out
}
