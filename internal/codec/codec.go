// Package codec serializes the ledger for backup and restores it from a
// backup file. The JSON layout and the CSV column set are frozen: existing
// exports must keep importing and external spreadsheet tooling expects the
// localized CSV header as-is.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kopilka/internal/core"
)

// Version tags exported files. Bump only with a migration story.
const Version = "1.0.0"

// ErrMalformedImport covers everything that makes a payload unusable:
// broken JSON, a missing top-level collection, or any record failing shape
// validation. Import is all-or-nothing, so the caller's ledger is untouched
// whenever this is returned.
var ErrMalformedImport = errors.New("malformed import payload")

type ExportData struct {
	Transactions []core.Transaction `json:"transactions"`
	Categories   []core.Category    `json:"categories"`
	ExportDate   string             `json:"exportDate"`
	Version      string             `json:"version"`
}

// ExportJSON renders the full ledger as pretty-printed JSON.
func ExportJSON(txs []core.Transaction, cats []core.Category, now time.Time) ([]byte, error) {
	data := ExportData{
		Transactions: txs,
		Categories:   cats,
		ExportDate:   now.UTC().Format(time.RFC3339),
		Version:      Version,
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return out, nil
}

var csvHeader = "ID,Тип,Сумма,Категория,Дата,Комментарий"

// ExportCSV renders transactions as CSV, one quoted row per transaction,
// newline-delimited with no trailing newline. Column names and the
// Доход/Расход type labels are part of the frozen format.
func ExportCSV(txs []core.Transaction) string {
	rows := make([]string, 0, len(txs)+1)
	rows = append(rows, csvHeader)
	for _, t := range txs {
		label := "Расход"
		if t.Type == core.Income {
			label = "Доход"
		}
		cells := []string{
			t.ID,
			label,
			strconv.FormatFloat(t.Amount, 'f', -1, 64),
			t.Category,
			t.Date,
			t.Comment,
		}
		for i, c := range cells {
			cells[i] = `"` + c + `"`
		}
		rows = append(rows, strings.Join(cells, ","))
	}
	return strings.Join(rows, "\n")
}

// ImportJSON parses and validates a backup payload. Both top-level
// collections must be present, and every record must pass shape validation;
// the first invalid record rejects the whole import.
func ImportJSON(content []byte) (*ExportData, error) {
	var probe struct {
		Transactions json.RawMessage `json:"transactions"`
		Categories   json.RawMessage `json:"categories"`
	}
	if err := json.Unmarshal(content, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}
	if probe.Transactions == nil || probe.Categories == nil {
		return nil, fmt.Errorf("%w: missing transactions or categories", ErrMalformedImport)
	}

	var data ExportData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedImport, err)
	}

	for i, t := range data.Transactions {
		in := core.TransactionInput{
			Type:          t.Type,
			Amount:        t.Amount,
			Category:      t.Category,
			Date:          t.Date,
			Comment:       t.Comment,
			IsApproximate: t.IsApproximate,
		}
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %v", ErrMalformedImport, i, err)
		}
	}
	for i, c := range data.Categories {
		in := core.CategoryInput{
			Name:          c.Name,
			Color:         c.Color,
			Icon:          c.Icon,
			IsQuickAccess: c.IsQuickAccess,
			Limit:         c.Limit,
		}
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("%w: category %d: %v", ErrMalformedImport, i, err)
		}
	}

	return &data, nil
}
