package core

const (
	StatusUnpaid  BillStatus = "unpaid"
	StatusPartial BillStatus = "partial"
	StatusPaid    BillStatus = "paid"
)

type (
	// BillStatus classifies how much of a bill has been settled.
	BillStatus string

	// BillSummary is a bill enriched with derived payment figures.
	// It is computed on demand and never stored.
	BillSummary struct {
		Bill
		TotalPaid  Money      `json:"totalPaid"`
		Deficiency Money      `json:"deficiency"`
		Status     BillStatus `json:"status"`
	}

	// UserSummary is a user enriched with aggregate debt figures
	// across all of their bills.
	UserSummary struct {
		User
		TotalBills      int   `json:"totalBills"`
		TotalDebt       Money `json:"totalDebt"`
		TotalDeficiency Money `json:"totalDeficiency"`
	}
)

// TotalPaid sums the paid amounts of all transactions belonging to the
// given bill. A bill with no transactions has a total of zero.
func TotalPaid(billID string, transactions []Transaction) Money {
	var sum Money
	for _, t := range transactions {
		if t.BillID == billID {
			sum = sum.Add(t.PaidAmount)
		}
	}
	return sum
}

// Deficiency returns the outstanding balance, floored at zero.
// Overpayment is absorbed, never reported as a credit.
func Deficiency(totalAmount, totalPaid Money) Money {
	if diff := totalAmount.Cents - totalPaid.Cents; diff > 0 {
		return Money{Cents: diff}
	}
	return Money{}
}

// StatusFor classifies a bill from its total and paid amounts.
// Paying exactly the total counts as paid, not partial.
func StatusFor(totalAmount, totalPaid Money) BillStatus {
	switch {
	case totalPaid.Cents >= totalAmount.Cents:
		return StatusPaid
	case totalPaid.Cents > 0:
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// SummarizeBill derives the payment figures for one bill from the full
// transaction collection.
func SummarizeBill(bill Bill, transactions []Transaction) BillSummary {
	paid := TotalPaid(bill.ID, transactions)
	return BillSummary{
		Bill:       bill,
		TotalPaid:  paid,
		Deficiency: Deficiency(bill.TotalAmount, paid),
		Status:     StatusFor(bill.TotalAmount, paid),
	}
}

// SummarizeUser aggregates debt figures across all bills owned by the
// user. The bills slice may contain bills of other users; only the
// matching ones contribute.
func SummarizeUser(user User, bills []Bill, transactions []Transaction) UserSummary {
	summary := UserSummary{User: user}
	for _, b := range bills {
		if b.UserID != user.ID {
			continue
		}
		bs := SummarizeBill(b, transactions)
		summary.TotalBills++
		summary.TotalDebt = summary.TotalDebt.Add(b.TotalAmount)
		summary.TotalDeficiency = summary.TotalDeficiency.Add(bs.Deficiency)
	}
	return summary
}
