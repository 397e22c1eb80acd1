package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"kopilka/internal/codec"
)

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	out, err := codec.ExportJSON(snap.Transactions, snap.Categories, time.Now())
	if err != nil {
		slog.ErrorContext(r.Context(), "JSON export failed", "error", err)
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="kopilka-export.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Snapshot()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="kopilka-export.csv"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(codec.ExportCSV(snap.Transactions)))
}

// handleImport validates the payload before touching the store: a rejected
// import leaves the current ledger exactly as it was.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		if isMaxBytes(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "import payload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	data, err := codec.ImportJSON(body)
	if err != nil {
		if errors.Is(err, codec.ErrMalformedImport) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "import failed")
		return
	}

	s.store.Restore(r.Context(), data.Categories, data.Transactions)
	writeJSON(w, http.StatusOK, map[string]int{
		"transactions": len(data.Transactions),
		"categories":   len(data.Categories),
	})
}
