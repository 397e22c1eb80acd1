// Package http exposes the ledger's command and query surface as a JSON
// API. It is the input boundary: request payloads are validated here, and
// the store below trusts what it receives.
package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"kopilka/internal/ledger"
)

type Server struct {
	http.Server
	store *ledger.Store
}

// NewServer configures routes and middleware, returning a ready-to-run
// server. requestsPerMinute caps per-client traffic; zero disables the cap.
func NewServer(addr string, store *ledger.Store, requestsPerMinute int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{Addr: addr},
		store:  store,
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /transactions", s.handleAddTransaction)
	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	mux.HandleFunc("PUT /transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("POST /categories", s.handleAddCategory)
	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("PATCH /categories/{id}", s.handleUpdateCategory)

	mux.HandleFunc("GET /balance", s.handleBalance)

	mux.HandleFunc("GET /analytics/categories", s.handleExpenseBreakdown)
	mux.HandleFunc("GET /analytics/monthly", s.handleMonthlySeries)
	mux.HandleFunc("GET /analytics/running-balance", s.handleRunningBalance)
	mux.HandleFunc("GET /analytics/budgets", s.handleBudgetProgress)

	mux.HandleFunc("GET /reconcile", s.handleReconcilePreview)
	mux.HandleFunc("POST /reconcile/commit", s.handleReconcileCommit)

	mux.HandleFunc("GET /export/json", s.handleExportJSON)
	mux.HandleFunc("GET /export/csv", s.handleExportCSV)
	mux.HandleFunc("POST /import", s.handleImport)
	mux.HandleFunc("POST /admin/clear", s.handleClear)

	s.Handler = s.withRequestLog(newRateLimiter(requestsPerMinute).middleware(mux))
	return s
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
