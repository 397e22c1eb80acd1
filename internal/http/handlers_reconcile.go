package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"kopilka/internal/core"
	"kopilka/internal/reconcile"
)

func (s *Server) handleReconcilePreview(w http.ResponseWriter, r *http.Request) {
	bank, err := strconv.ParseFloat(r.URL.Query().Get("bank"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bank must be a decimal balance")
		return
	}
	writeJSON(w, http.StatusOK, reconcile.Compare(s.store.Balance(), bank))
}

func (s *Server) handleReconcileCommit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BankBalance   float64 `json:"bankBalance"`
		IsApproximate bool    `json:"isApproximate,omitempty"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	res := reconcile.Compare(s.store.Balance(), req.BankBalance)
	today := core.FormatDate(time.Now())
	id, err := reconcile.CommitDifference(r.Context(), s.store, res, today, req.IsApproximate)
	if err != nil {
		switch {
		case errors.Is(err, reconcile.ErrNothingToCommit):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, reconcile.ErrPettyCategoryMissing):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":     id,
		"amount": res.Difference,
	})
}
