package core

// Snapshot is the full serializable state of the ledger: the four record
// collections under their four logical keys. Persisters overwrite the
// whole snapshot after every mutation; missing keys decode as empty
// collections.
type Snapshot struct {
	Users        []User        `json:"users"`
	Bills        []Bill        `json:"bills"`
	Transactions []Transaction `json:"transactions"`
	Expenses     []Expense     `json:"expenses"`
}

// Clone returns a deep copy so a held snapshot never aliases live
// collections.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Users:        make([]User, len(s.Users)),
		Bills:        make([]Bill, len(s.Bills)),
		Transactions: make([]Transaction, len(s.Transactions)),
		Expenses:     make([]Expense, len(s.Expenses)),
	}
	copy(out.Users, s.Users)
	copy(out.Bills, s.Bills)
	copy(out.Transactions, s.Transactions)
	copy(out.Expenses, s.Expenses)
	return out
}
