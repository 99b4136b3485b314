package ledger

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"debtbook/internal/core"
)

// testStore returns a store with a deterministic clock and id sequence.
// The clock advances one millisecond per mutation.
func testStore(t *testing.T, snap core.Snapshot) *Store {
	t.Helper()
	var tick int64
	var seq int
	return New(snap,
		WithClock(func() time.Time {
			tick++
			return time.UnixMilli(tick)
		}),
		WithIDFunc(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	)
}

func TestAddAndEditUser(t *testing.T) {
	s := testStore(t, core.Snapshot{})

	u := s.AddUser("Ada", "ada@example.com", "555-0100")
	if u.ID == "" || u.CreatedAt == 0 {
		t.Fatalf("AddUser should assign id and createdAt, got %+v", u)
	}

	updated, ok := s.EditUser(u.ID, "Ada L.", "ada@new.example.com", "")
	if !ok {
		t.Fatalf("EditUser reported no-op for existing user")
	}
	if updated.Name != "Ada L." || updated.Email != "ada@new.example.com" || updated.Phone != "" {
		t.Fatalf("EditUser did not apply fields: %+v", updated)
	}
	if updated.ID != u.ID || updated.CreatedAt != u.CreatedAt {
		t.Fatalf("EditUser must preserve id and createdAt: %+v vs %+v", updated, u)
	}
}

func TestEditUnknownUserIsNoOp(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	s.AddUser("Ada", "ada@example.com", "")
	before := s.Snapshot()

	_, ok := s.EditUser("missing", "x", "y", "z")
	if ok {
		t.Fatalf("EditUser on unknown id should report false")
	}
	after := s.Snapshot()
	if len(after.Users) != len(before.Users) || after.Users[0] != before.Users[0] {
		t.Fatalf("EditUser on unknown id must leave users untouched")
	}
}

func TestBillPaymentProgression(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	u := s.AddUser("Ada", "ada@example.com", "")
	b := s.AddBill(u.ID, "Laptop", core.Money{Cents: 100000}, core.NewDate(2026, 9, 1))

	check := func(wantPaid, wantDef int64, wantStatus core.BillStatus) {
		t.Helper()
		bills := s.UserBills(u.ID)
		if len(bills) != 1 {
			t.Fatalf("UserBills returned %d bills, want 1", len(bills))
		}
		got := bills[0]
		if got.TotalPaid.Cents != wantPaid || got.Deficiency.Cents != wantDef || got.Status != wantStatus {
			t.Fatalf("bill summary = paid %d deficiency %d status %q, want %d %d %q",
				got.TotalPaid.Cents, got.Deficiency.Cents, got.Status, wantPaid, wantDef, wantStatus)
		}
	}

	check(0, 100000, core.StatusUnpaid)

	s.AddTransaction(b.ID, core.Money{Cents: 40000}, core.NewDate(2026, 9, 5))
	check(40000, 60000, core.StatusPartial)

	s.AddTransaction(b.ID, core.Money{Cents: 60000}, core.NewDate(2026, 9, 10))
	check(100000, 0, core.StatusPaid)
}

func TestOverpaymentStoredAsIs(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	u := s.AddUser("Ada", "ada@example.com", "")
	b := s.AddBill(u.ID, "Phone", core.Money{Cents: 10000}, core.NewDate(2026, 9, 1))

	tx := s.AddTransaction(b.ID, core.Money{Cents: 25000}, core.NewDate(2026, 9, 2))
	if tx.PaidAmount.Cents != 25000 {
		t.Fatalf("overpayment must be stored uncapped, got %d", tx.PaidAmount.Cents)
	}

	bills := s.UserBills(u.ID)
	if bills[0].TotalPaid.Cents != 25000 {
		t.Fatalf("TotalPaid = %d, want 25000", bills[0].TotalPaid.Cents)
	}
	if bills[0].Deficiency.Cents != 0 {
		t.Fatalf("Deficiency = %d, want clamp to 0", bills[0].Deficiency.Cents)
	}
	if bills[0].Status != core.StatusPaid {
		t.Fatalf("Status = %q, want paid", bills[0].Status)
	}
}

func TestDeleteUserCascade(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	ada := s.AddUser("Ada", "ada@example.com", "")
	bob := s.AddUser("Bob", "bob@example.com", "")

	adaBill1 := s.AddBill(ada.ID, "Rent", core.Money{Cents: 10000}, core.NewDate(2026, 9, 1))
	adaBill2 := s.AddBill(ada.ID, "Phone", core.Money{Cents: 5000}, core.NewDate(2026, 9, 1))
	bobBill := s.AddBill(bob.ID, "Car", core.Money{Cents: 90000}, core.NewDate(2026, 9, 1))

	s.AddTransaction(adaBill1.ID, core.Money{Cents: 100}, core.NewDate(2026, 9, 2))
	s.AddTransaction(adaBill2.ID, core.Money{Cents: 200}, core.NewDate(2026, 9, 2))
	keep := s.AddTransaction(bobBill.ID, core.Money{Cents: 300}, core.NewDate(2026, 9, 2))

	s.DeleteUser(ada.ID)

	snap := s.Snapshot()
	if len(snap.Users) != 1 || snap.Users[0].ID != bob.ID {
		t.Fatalf("only Bob should remain, got %+v", snap.Users)
	}
	if len(snap.Bills) != 1 || snap.Bills[0].ID != bobBill.ID {
		t.Fatalf("only Bob's bill should remain, got %+v", snap.Bills)
	}
	if len(snap.Transactions) != 1 || snap.Transactions[0].ID != keep.ID {
		t.Fatalf("only Bob's transaction should remain, got %+v", snap.Transactions)
	}
}

func TestDeleteBillCascade(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	u := s.AddUser("Ada", "ada@example.com", "")
	b1 := s.AddBill(u.ID, "Rent", core.Money{Cents: 10000}, core.NewDate(2026, 9, 1))
	b2 := s.AddBill(u.ID, "Phone", core.Money{Cents: 5000}, core.NewDate(2026, 9, 1))
	s.AddTransaction(b1.ID, core.Money{Cents: 100}, core.NewDate(2026, 9, 2))
	keep := s.AddTransaction(b2.ID, core.Money{Cents: 200}, core.NewDate(2026, 9, 2))

	s.DeleteBill(b1.ID)

	snap := s.Snapshot()
	if len(snap.Bills) != 1 || snap.Bills[0].ID != b2.ID {
		t.Fatalf("bill cascade wrong: %+v", snap.Bills)
	}
	if len(snap.Transactions) != 1 || snap.Transactions[0].ID != keep.ID {
		t.Fatalf("transaction cascade wrong: %+v", snap.Transactions)
	}
	if len(snap.Users) != 1 {
		t.Fatalf("deleting a bill must not touch users")
	}
}

func TestDeleteUnknownIDsAreNoOps(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	s.AddUser("Ada", "ada@example.com", "")
	before := s.Snapshot()

	s.DeleteUser("missing")
	s.DeleteBill("missing")
	s.DeleteExpense("missing")

	after := s.Snapshot()
	if len(after.Users) != len(before.Users) {
		t.Fatalf("deleting unknown ids must not remove records")
	}
}

func TestUserSummaryNotFound(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	if _, err := s.UserSummary("missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("UserSummary(missing) = %v, want ErrUserNotFound", err)
	}
}

func TestUserSummaryFreshUser(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	u := s.AddUser("Ada", "ada@example.com", "")

	got, err := s.UserSummary(u.ID)
	if err != nil {
		t.Fatalf("UserSummary: %v", err)
	}
	if got.TotalBills != 0 || got.TotalDebt.Cents != 0 || got.TotalDeficiency.Cents != 0 {
		t.Fatalf("fresh user summary should be all zero, got %+v", got)
	}
}

func TestQueriesIdempotentWithoutMutations(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	u := s.AddUser("Ada", "ada@example.com", "")
	b := s.AddBill(u.ID, "Rent", core.Money{Cents: 10000}, core.NewDate(2026, 9, 1))
	s.AddTransaction(b.ID, core.Money{Cents: 4000}, core.NewDate(2026, 9, 2))

	first, err := s.UserSummary(u.ID)
	if err != nil {
		t.Fatalf("UserSummary: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := s.UserSummary(u.ID)
		if err != nil {
			t.Fatalf("UserSummary repeat %d: %v", i, err)
		}
		if again != first {
			t.Fatalf("repeat %d changed result: %+v vs %+v", i, again, first)
		}
		bills := s.UserBills(u.ID)
		if len(bills) != 1 || bills[0] != s.UserBills(u.ID)[0] {
			t.Fatalf("UserBills not stable on repeat %d", i)
		}
	}
}

func TestUserSummaryAggregates(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	u := s.AddUser("Ada", "ada@example.com", "")
	b1 := s.AddBill(u.ID, "Rent", core.Money{Cents: 10000}, core.NewDate(2026, 9, 1))
	s.AddBill(u.ID, "Phone", core.Money{Cents: 5000}, core.NewDate(2026, 9, 1))
	s.AddTransaction(b1.ID, core.Money{Cents: 4000}, core.NewDate(2026, 9, 2))

	got, err := s.UserSummary(u.ID)
	if err != nil {
		t.Fatalf("UserSummary: %v", err)
	}
	if got.TotalBills != 2 {
		t.Fatalf("TotalBills = %d, want 2", got.TotalBills)
	}
	if got.TotalDebt.Cents != 15000 {
		t.Fatalf("TotalDebt = %d, want 15000", got.TotalDebt.Cents)
	}
	if got.TotalDeficiency.Cents != 11000 {
		t.Fatalf("TotalDeficiency = %d, want 11000", got.TotalDeficiency.Cents)
	}
}

func TestUserBillsInsertionOrder(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	u := s.AddUser("Ada", "ada@example.com", "")
	names := []string{"First", "Second", "Third"}
	for _, n := range names {
		s.AddBill(u.ID, n, core.Money{Cents: 100}, core.NewDate(2026, 9, 1))
	}

	bills := s.UserBills(u.ID)
	if len(bills) != len(names) {
		t.Fatalf("got %d bills, want %d", len(bills), len(names))
	}
	for i, n := range names {
		if bills[i].BillName != n {
			t.Fatalf("bills[%d] = %q, want %q (insertion order)", i, bills[i].BillName, n)
		}
	}
}

func TestBillTransactionsNewestFirst(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	u := s.AddUser("Ada", "ada@example.com", "")
	b := s.AddBill(u.ID, "Rent", core.Money{Cents: 10000}, core.NewDate(2026, 9, 1))

	first := s.AddTransaction(b.ID, core.Money{Cents: 100}, core.NewDate(2026, 9, 2))
	second := s.AddTransaction(b.ID, core.Money{Cents: 200}, core.NewDate(2026, 9, 3))
	third := s.AddTransaction(b.ID, core.Money{Cents: 300}, core.NewDate(2026, 9, 4))

	got := s.BillTransactions(b.ID)
	wantOrder := []string{third.ID, second.ID, first.ID}
	if len(got) != 3 {
		t.Fatalf("got %d transactions, want 3", len(got))
	}
	for i, id := range wantOrder {
		if got[i].ID != id {
			t.Fatalf("transactions[%d] = %s, want %s (createdAt desc)", i, got[i].ID, id)
		}
	}
}

func TestBillTransactionsEmptyForUnknownBill(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	if got := s.BillTransactions("missing"); len(got) != 0 {
		t.Fatalf("unknown bill should have no transactions, got %+v", got)
	}
}

func TestExpensesSortedByDateDesc(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	s.AddExpense("Old", core.Money{Cents: 100}, core.CategoryOther, core.NewDate(2026, 1, 1))
	s.AddExpense("New", core.Money{Cents: 200}, core.CategoryOther, core.NewDate(2026, 8, 1))
	s.AddExpense("Mid", core.Money{Cents: 300}, core.CategoryOther, core.NewDate(2026, 4, 1))

	got := s.Expenses()
	wantOrder := []string{"New", "Mid", "Old"}
	for i, desc := range wantOrder {
		if got[i].Description != desc {
			t.Fatalf("expenses[%d] = %q, want %q (date desc)", i, got[i].Description, desc)
		}
	}

	s.DeleteExpense(got[0].ID)
	if remaining := s.Expenses(); len(remaining) != 2 {
		t.Fatalf("DeleteExpense left %d expenses, want 2", len(remaining))
	}
}

func TestExpenseOverview(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	s.AddExpense("Rent", core.Money{Cents: 100000}, core.CategoryRent, core.NewDate(2026, 8, 1))
	s.AddExpense("Ads", core.Money{Cents: 5000}, core.CategoryMarketing, core.NewDate(2026, 8, 2))

	got := s.ExpenseOverview()
	if got.Total.Cents != 105000 {
		t.Fatalf("Total = %d, want 105000", got.Total.Cents)
	}
	if len(got.ByCategory) != 2 {
		t.Fatalf("ByCategory has %d entries, want 2", len(got.ByCategory))
	}
}

func TestDashboard(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	ada := s.AddUser("Ada", "ada@example.com", "")
	bob := s.AddUser("Bob", "bob@example.com", "")
	b1 := s.AddBill(ada.ID, "Rent", core.Money{Cents: 10000}, core.NewDate(2026, 9, 1))
	s.AddBill(bob.ID, "Car", core.Money{Cents: 20000}, core.NewDate(2026, 9, 1))
	s.AddTransaction(b1.ID, core.Money{Cents: 4000}, core.NewDate(2026, 9, 2))
	s.AddExpense("Ads", core.Money{Cents: 1500}, core.CategoryMarketing, core.NewDate(2026, 8, 1))

	got := s.Dashboard()
	if got.TotalOutstanding.Cents != 26000 {
		t.Fatalf("TotalOutstanding = %d, want 26000", got.TotalOutstanding.Cents)
	}
	if got.TotalExpenses.Cents != 1500 {
		t.Fatalf("TotalExpenses = %d, want 1500", got.TotalExpenses.Cents)
	}
	if got.ActiveUsers != 2 || got.ActiveBills != 2 {
		t.Fatalf("counts = %d users %d bills, want 2 and 2", got.ActiveUsers, got.ActiveBills)
	}
}

func TestDashboardOutstandingGoesNegativeOnOverpayment(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	u := s.AddUser("Ada", "ada@example.com", "")
	b := s.AddBill(u.ID, "Rent", core.Money{Cents: 10000}, core.NewDate(2026, 9, 1))
	s.AddTransaction(b.ID, core.Money{Cents: 25000}, core.NewDate(2026, 9, 2))

	got := s.Dashboard()
	if got.TotalOutstanding.Cents != -15000 {
		t.Fatalf("TotalOutstanding = %d, want -15000 (global figure is not floored)", got.TotalOutstanding.Cents)
	}

	// The per-bill view still clamps.
	if bills := s.UserBills(u.ID); bills[0].Deficiency.Cents != 0 {
		t.Fatalf("per-bill deficiency = %d, want 0", bills[0].Deficiency.Cents)
	}
}

func TestHasUserAndHasBill(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	u := s.AddUser("Ada", "ada@example.com", "")
	b := s.AddBill(u.ID, "Rent", core.Money{Cents: 100}, core.NewDate(2026, 9, 1))

	if !s.HasUser(u.ID) || s.HasUser("missing") {
		t.Fatalf("HasUser gave wrong answers")
	}
	if !s.HasBill(b.ID) || s.HasBill("missing") {
		t.Fatalf("HasBill gave wrong answers")
	}
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	s.AddUser("Ada", "ada@example.com", "")

	snap := s.Snapshot()
	snap.Users[0].Name = "changed"

	fresh := s.Snapshot()
	if fresh.Users[0].Name != "Ada" {
		t.Fatalf("Snapshot must not alias live collections")
	}
}

func TestSeedSnapshotNotAliased(t *testing.T) {
	seed := core.Snapshot{Users: []core.User{{ID: "u1", Name: "Ada"}}}
	s := New(seed)
	seed.Users[0].Name = "changed"

	if s.Snapshot().Users[0].Name != "Ada" {
		t.Fatalf("New must copy the seed snapshot")
	}
}

func TestVersionIncrementsOnMutation(t *testing.T) {
	s := testStore(t, core.Snapshot{})
	if s.Version() != 0 {
		t.Fatalf("fresh store version = %d, want 0", s.Version())
	}
	u := s.AddUser("Ada", "ada@example.com", "")
	s.EditUser(u.ID, "Ada L.", "ada@example.com", "")
	s.DeleteUser(u.ID)
	if s.Version() != 3 {
		t.Fatalf("version = %d after three mutations, want 3", s.Version())
	}
}
