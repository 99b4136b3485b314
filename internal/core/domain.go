package core

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

const (
	CategoryCOGS      Category = "COGS"
	CategoryRent      Category = "Rent"
	CategoryUtilities Category = "Utilities"
	CategorySalary    Category = "Salary"
	CategoryMarketing Category = "Marketing"
	CategoryOther     Category = "Other"
)

type (
	// Category is the fixed operating-expense taxonomy.
	Category string

	// Date is a plain calendar date. It serializes as "2006-01-02",
	// never as a timestamp.
	Date struct {
		time.Time
	}

	// Money is an amount in integer cents.
	Money struct {
		Cents int64
	}

	// User is a registered debtor. Name, email and phone are the only
	// mutable fields; ID and CreatedAt are fixed at registration.
	User struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		CreatedAt int64  `json:"createdAt"`
	}

	// Bill is a fixed charge owed by a user. Bills are immutable after
	// creation; they only disappear via explicit or cascade deletion.
	Bill struct {
		ID          string `json:"id"`
		UserID      string `json:"userId"`
		BillName    string `json:"billName"`
		TotalAmount Money  `json:"totalAmount"`
		DueDate     Date   `json:"dueDate"`
		CreatedAt   int64  `json:"createdAt"`
	}

	// Transaction is an append-only payment record against a bill.
	Transaction struct {
		ID          string `json:"id"`
		BillID      string `json:"billId"`
		PaidAmount  Money  `json:"paidAmount"`
		PaymentDate Date   `json:"paymentDate"`
		CreatedAt   int64  `json:"createdAt"`
	}

	// Expense is an operating cost unrelated to users or bills.
	Expense struct {
		ID          string   `json:"id"`
		Description string   `json:"description"`
		Amount      Money    `json:"amount"`
		Category    Category `json:"category"`
		Date        Date     `json:"date"`
		CreatedAt   int64    `json:"createdAt"`
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyEmail       = errors.New("empty email")
	ErrEmptyBillName    = errors.New("empty bill name")
	ErrEmptyDescription = errors.New("empty description")
)

// Categories returns the full expense taxonomy in display order.
func Categories() []Category {
	return []Category{
		CategoryCOGS,
		CategoryRent,
		CategoryUtilities,
		CategorySalary,
		CategoryMarketing,
		CategoryOther,
	}
}

// IsValid returns true if the category belongs to the fixed taxonomy.
func (c Category) IsValid() bool {
	switch c {
	case CategoryCOGS, CategoryRent, CategoryUtilities, CategorySalary, CategoryMarketing, CategoryOther:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

const dateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a "2006-01-02" calendar-date string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String returns the date as "2006-01-02", or "" for the zero date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MarshalJSON serializes the date as a calendar-date string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts "2006-01-02" or an empty string for the zero date.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MarshalJSON serializes money as a bare cents number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(m.Cents, 10)), nil
}

// UnmarshalJSON accepts a bare cents number.
func (m *Money) UnmarshalJSON(data []byte) error {
	cents, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return ErrInvalidAmount
	}
	m.Cents = cents
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

func (u User) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmptyEmail
	}
	return nil
}

func (b Bill) Validate() error {
	if strings.TrimSpace(b.BillName) == "" {
		return ErrEmptyBillName
	}
	if err := b.TotalAmount.Validate(); err != nil {
		return err
	}
	return b.DueDate.Validate()
}

func (t Transaction) Validate() error {
	if err := t.PaidAmount.Validate(); err != nil {
		return err
	}
	return t.PaymentDate.Validate()
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Description) == "" {
		return ErrEmptyDescription
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.IsValid() {
		return ErrInvalidCategory
	}
	return e.Date.Validate()
}
