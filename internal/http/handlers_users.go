package http

import (
	"errors"
	"log/slog"
	"net/http"

	"debtbook/internal/core"
	"debtbook/internal/ledger"
)

type userRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (req *userRequest) validate() (core.User, error) {
	u := core.User{
		Name:  sanitizeInput(req.Name),
		Email: sanitizeInput(req.Email),
		Phone: sanitizeInput(req.Phone),
	}
	return u, u.Validate()
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := req.validate()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created := s.svc.CreateUser(r.Context(), u.Name, u.Email, u.Phone)
	slog.InfoContext(r.Context(), "User registered", "user_id", created.ID)
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users := s.svc.Users()
	if users == nil {
		users = []core.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := req.validate()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id := r.PathValue("id")
	updated, ok := s.svc.UpdateUser(r.Context(), id, u.Name, u.Email, u.Phone)
	if !ok {
		// Editing an unknown user is a benign no-op in the store;
		// the API still reports it so clients can tell.
		writeError(w, http.StatusNotFound, "no such user")
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.svc.DeleteUser(r.Context(), id)
	slog.InfoContext(r.Context(), "User deleted with cascade", "user_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUserSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.svc.UserSummary(r.PathValue("id"))
	if err != nil {
		if errors.Is(err, ledger.ErrUserNotFound) {
			writeError(w, http.StatusNotFound, "no such user")
			return
		}
		writeError(w, http.StatusInternalServerError, "summary failed")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleUserBills(w http.ResponseWriter, r *http.Request) {
	bills := s.svc.UserBills(r.PathValue("id"))
	if bills == nil {
		bills = []core.BillSummary{}
	}
	writeJSON(w, http.StatusOK, bills)
}
