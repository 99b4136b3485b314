package http

import (
	"log/slog"
	"net/http"

	"debtbook/internal/core"
	applog "debtbook/internal/log"
)

type billRequest struct {
	UserID      string `json:"userId"`
	BillName    string `json:"billName"`
	TotalAmount string `json:"totalAmount"`
	DueDate     string `json:"dueDate"`
}

type transactionRequest struct {
	BillID      string `json:"billId"`
	PaidAmount  string `json:"paidAmount"`
	PaymentDate string `json:"paymentDate"`
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The store trusts its callers, so existence of the referenced user
	// is checked here, at the boundary.
	if !s.svc.HasUser(sanitizeInput(req.UserID)) {
		writeError(w, http.StatusUnprocessableEntity, "unknown user id")
		return
	}

	cents, err := core.ParseDecimalToCents(req.TotalAmount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid total amount")
		return
	}
	dueDate, err := core.ParseDate(req.DueDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid due date")
		return
	}

	b := core.Bill{
		BillName:    sanitizeInput(req.BillName),
		TotalAmount: core.Money{Cents: cents},
		DueDate:     dueDate,
	}
	if err := b.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created := s.svc.CreateBill(r.Context(), sanitizeInput(req.UserID), b.BillName, b.TotalAmount, b.DueDate)
	slog.InfoContext(r.Context(), "Bill created",
		"bill_id", created.ID,
		"user_id", created.UserID,
		"amount_cents", created.TotalAmount.Cents)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.svc.DeleteBill(r.Context(), id)
	slog.InfoContext(r.Context(), "Bill deleted with cascade", "bill_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBillTransactions(w http.ResponseWriter, r *http.Request) {
	transactions := s.svc.BillTransactions(r.PathValue("id"))
	if transactions == nil {
		transactions = []core.Transaction{}
	}
	writeJSON(w, http.StatusOK, transactions)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if !s.svc.HasBill(sanitizeInput(req.BillID)) {
		writeError(w, http.StatusUnprocessableEntity, "unknown bill id")
		return
	}

	cents, err := core.ParseDecimalToCents(req.PaidAmount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid paid amount")
		return
	}
	paymentDate, err := core.ParseDate(req.PaymentDate)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid payment date")
		return
	}

	// Overpayment is allowed and stored as-is; the derived deficiency
	// clamps at zero.
	created := s.svc.CreateTransaction(r.Context(), sanitizeInput(req.BillID), core.Money{Cents: cents}, paymentDate)
	slog.InfoContext(r.Context(), "Payment recorded",
		applog.FieldRecordID, created.ID,
		"bill_id", created.BillID,
		"amount_cents", created.PaidAmount.Cents)
	writeJSON(w, http.StatusCreated, created)
}
