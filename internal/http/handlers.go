package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"kopilka/internal/core"
)

const maxBodyBytes = 10 << 20 // generous: import payloads carry the whole ledger

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var in core.TransactionInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	id := s.store.AddTransaction(r.Context(), in)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var in core.TransactionInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	// An unknown id is a silent no-op by contract, so this always reports
	// success.
	s.store.UpdateTransaction(r.Context(), r.PathValue("id"), in)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	s.store.DeleteTransaction(r.Context(), r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if typ := q.Get("type"); typ != "" {
		tt := core.TransactionType(typ)
		if tt != core.Income && tt != core.Expense {
			writeError(w, http.StatusBadRequest, "type must be income or expense")
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(s.store.TransactionsByType(tt)))
		return
	}

	from, to := q.Get("from"), q.Get("to")
	if from != "" || to != "" {
		if _, err := core.ParseDate(from); err != nil {
			writeError(w, http.StatusBadRequest, "from must be a YYYY-MM-DD date")
			return
		}
		if _, err := core.ParseDate(to); err != nil {
			writeError(w, http.StatusBadRequest, "to must be a YYYY-MM-DD date")
			return
		}
		writeJSON(w, http.StatusOK, orEmpty(s.store.TransactionsByDateRange(from, to)))
		return
	}

	writeJSON(w, http.StatusOK, orEmpty(s.store.Snapshot().Transactions))
}

func (s *Server) handleAddCategory(w http.ResponseWriter, r *http.Request) {
	var in core.CategoryInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	id := s.store.AddCategory(r.Context(), in)
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var patch core.CategoryPatch
	if !decodeBody(w, r, &patch) {
		return
	}
	if patch.Limit != nil && *patch.Limit < 0 {
		writeError(w, http.StatusUnprocessableEntity, "limit must not be negative")
		return
	}
	s.store.UpdateCategory(r.Context(), r.PathValue("id"), patch)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, orEmpty(s.store.Categories()))
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]float64{"balance": s.store.Balance()})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.store.ClearAllData(r.Context())
	slog.InfoContext(r.Context(), "Ledger cleared")
	w.WriteHeader(http.StatusNoContent)
}

// orEmpty keeps list responses as [] instead of null.
func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func isMaxBytes(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
