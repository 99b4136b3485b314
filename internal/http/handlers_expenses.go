package http

import (
	"log/slog"
	"net/http"

	"debtbook/internal/core"
	applog "debtbook/internal/log"
)

type expenseRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

type expenseListResponse struct {
	Expenses []core.Expense  `json:"expenses"`
	Overview expenseOverview `json:"overview"`
}

type expenseOverview struct {
	core.ExpenseOverview
	TotalFormatted string `json:"totalFormatted"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount")
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date")
		return
	}

	e := core.Expense{
		Description: sanitizeInput(req.Description),
		Amount:      core.Money{Cents: cents},
		Category:    core.Category(sanitizeInput(req.Category)),
		Date:        date,
	}
	if err := e.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created := s.svc.CreateExpense(r.Context(), e.Description, e.Amount, e.Category, e.Date)
	slog.InfoContext(r.Context(), "Expense recorded",
		applog.FieldRecordID, created.ID,
		"category", created.Category.String(),
		"amount_cents", created.Amount.Cents)
	writeJSON(w, http.StatusCreated, created)
}

// handleListExpenses returns expenses sorted by date descending plus the
// aggregate overview.
func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses := s.svc.Expenses()
	if expenses == nil {
		expenses = []core.Expense{}
	}
	overview := s.svc.ExpenseOverview()
	writeJSON(w, http.StatusOK, expenseListResponse{
		Expenses: expenses,
		Overview: expenseOverview{
			ExpenseOverview: overview,
			TotalFormatted:  core.FormatCents(overview.Total.Cents),
		},
	})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.svc.DeleteExpense(r.Context(), id)
	slog.InfoContext(r.Context(), "Expense deleted", applog.FieldRecordID, id)
	w.WriteHeader(http.StatusNoContent)
}
