package http

import (
	"net/http"
	"strconv"
	"time"

	"kopilka/internal/analytics"
)

// Defaults mirror the analytics views: six months of history, thirty days
// of running balance.
const (
	defaultMonths = 6
	defaultDays   = 30
)

func (s *Server) handleExpenseBreakdown(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, orEmpty(analytics.ExpenseBreakdown(snap.Transactions, snap.Categories)))
}

func (s *Server) handleMonthlySeries(w http.ResponseWriter, r *http.Request) {
	lastN := queryInt(r, "months", defaultMonths)
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, orEmpty(analytics.MonthlySeries(snap.Transactions, lastN)))
}

func (s *Server) handleRunningBalance(w http.ResponseWriter, r *http.Request) {
	lastN := queryInt(r, "days", defaultDays)
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, orEmpty(analytics.RunningBalance(snap.Transactions, lastN)))
}

func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	year := queryInt(r, "year", now.Year())
	month := queryInt(r, "month", int(now.Month()))
	if month < 1 || month > 12 {
		writeError(w, http.StatusBadRequest, "month must be between 1 and 12")
		return
	}
	snap := s.store.Snapshot()
	writeJSON(w, http.StatusOK, orEmpty(analytics.BudgetProgress(snap.Transactions, snap.Categories, year, month)))
}

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
