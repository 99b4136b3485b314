package http

import (
	"net/http"

	"debtbook/internal/core"
)

type dashboardResponse struct {
	core.DashboardOverview
	TotalOutstandingFormatted string `json:"totalOutstandingFormatted"`
	TotalExpensesFormatted    string `json:"totalExpensesFormatted"`
}

// handleDashboard returns the global overview figures.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	overview := s.svc.Dashboard()
	writeJSON(w, http.StatusOK, dashboardResponse{
		DashboardOverview:         overview,
		TotalOutstandingFormatted: core.FormatCents(overview.TotalOutstanding.Cents),
		TotalExpensesFormatted:    core.FormatCents(overview.TotalExpenses.Cents),
	})
}
