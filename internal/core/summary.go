package core

// CategoryAmount is an amount aggregated under one expense category.
type CategoryAmount struct {
	Category Category `json:"category"`
	Amount   Money    `json:"amount"`
}

// ExpenseOverview is a compact aggregate over the expense collection.
type ExpenseOverview struct {
	Total      Money            `json:"total"`
	ByCategory []CategoryAmount `json:"byCategory"`
}

// DashboardOverview is the global view over all four collections:
// outstanding debt across every bill, the expense total, and the
// collection counts.
type DashboardOverview struct {
	TotalOutstanding Money `json:"totalOutstanding"`
	TotalExpenses    Money `json:"totalExpenses"`
	ActiveUsers      int   `json:"activeUsers"`
	ActiveBills      int   `json:"activeBills"`
}

// SummarizeDashboard derives the global figures. TotalOutstanding is
// all bill totals minus all payments and is not floored at zero;
// ledger-wide overpayment shows as a negative figure, unlike the
// per-bill deficiency.
func SummarizeDashboard(users []User, bills []Bill, transactions []Transaction, expenses []Expense) DashboardOverview {
	overview := DashboardOverview{
		ActiveUsers: len(users),
		ActiveBills: len(bills),
	}
	for _, b := range bills {
		overview.TotalOutstanding = overview.TotalOutstanding.Add(b.TotalAmount)
	}
	for _, t := range transactions {
		overview.TotalOutstanding.Cents -= t.PaidAmount.Cents
	}
	for _, e := range expenses {
		overview.TotalExpenses = overview.TotalExpenses.Add(e.Amount)
	}
	return overview
}

// SummarizeExpenses totals the expense collection overall and per
// category. Categories with no expenses are omitted; the rest follow
// taxonomy order.
func SummarizeExpenses(expenses []Expense) ExpenseOverview {
	byCat := make(map[Category]Money, len(expenses))
	var overview ExpenseOverview
	for _, e := range expenses {
		overview.Total = overview.Total.Add(e.Amount)
		byCat[e.Category] = byCat[e.Category].Add(e.Amount)
	}
	for _, c := range Categories() {
		if amount, ok := byCat[c]; ok {
			overview.ByCategory = append(overview.ByCategory, CategoryAmount{Category: c, Amount: amount})
		}
	}
	return overview
}
