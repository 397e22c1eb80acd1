// Package analytics computes derived views over a ledger snapshot. Every
// function is pure: results depend only on the arguments, and nothing is
// cached or mutated. Recomputing from scratch on each call is fine at the
// volumes a single user produces.
package analytics

import (
	"fmt"
	"sort"

	"kopilka/internal/core"
)

// FallbackColor is used for transactions whose category name no longer
// matches any stored category (stale names after a rename or import).
const FallbackColor = "#607D8B"

type CategoryTotal struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Color  string  `json:"color"`
	Icon   string  `json:"icon,omitempty"`
}

// CategoryTotals sums amounts per category name in a single pass. The
// output keeps the order in which each name first occurs.
func CategoryTotals(txs []core.Transaction) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	for _, t := range txs {
		i, ok := index[t.Category]
		if !ok {
			index[t.Category] = len(out)
			out = append(out, CategoryTotal{Name: t.Category})
			i = len(out) - 1
		}
		out[i].Amount += t.Amount
	}
	return out
}

// ExpenseBreakdown is the analytics view: expense transactions only,
// decorated with the category's color and icon, sorted descending by
// amount. Stale category names get FallbackColor.
func ExpenseBreakdown(txs []core.Transaction, cats []core.Category) []CategoryTotal {
	var expenses []core.Transaction
	for _, t := range txs {
		if t.Type == core.Expense {
			expenses = append(expenses, t)
		}
	}
	totals := CategoryTotals(expenses)

	byName := make(map[string]core.Category, len(cats))
	for _, c := range cats {
		byName[c.Name] = c
	}
	for i := range totals {
		if c, ok := byName[totals[i].Name]; ok {
			totals[i].Color = c.Color
			totals[i].Icon = c.Icon
		} else {
			totals[i].Color = FallbackColor
		}
	}

	sort.SliceStable(totals, func(i, j int) bool {
		return totals[i].Amount > totals[j].Amount
	})
	return totals
}

type MonthRow struct {
	Month   string  `json:"month"` // YYYY-MM
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
}

// MonthlySeries groups transactions by calendar month, accumulating income
// and expense sums separately. Rows come out chronologically; when lastN > 0
// only the most recent lastN months present in the data are kept.
func MonthlySeries(txs []core.Transaction, lastN int) []MonthRow {
	index := make(map[string]int)
	var rows []MonthRow
	for _, t := range txs {
		if len(t.Date) < 7 {
			continue
		}
		key := t.Date[:7]
		i, ok := index[key]
		if !ok {
			index[key] = len(rows)
			rows = append(rows, MonthRow{Month: key})
			i = len(rows) - 1
		}
		if t.Type == core.Income {
			rows[i].Income += t.Amount
		} else {
			rows[i].Expense += t.Amount
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Month < rows[j].Month
	})
	if lastN > 0 && len(rows) > lastN {
		rows = rows[len(rows)-lastN:]
	}
	return rows
}

type BalancePoint struct {
	Date    string  `json:"date"`
	Balance float64 `json:"balance"`
}

// RunningBalance walks the transactions in date order and emits one point
// per distinct date holding the cumulative balance as of end of that date.
// Same-day intermediate values collapse into the day's final value. When
// lastN > 0 only the most recent lastN dates are kept.
func RunningBalance(txs []core.Transaction, lastN int) []BalancePoint {
	sorted := append([]core.Transaction(nil), txs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	var points []BalancePoint
	var balance float64
	for _, t := range sorted {
		if t.Type == core.Income {
			balance += t.Amount
		} else {
			balance -= t.Amount
		}
		if n := len(points); n > 0 && points[n-1].Date == t.Date {
			points[n-1].Balance = balance
		} else {
			points = append(points, BalancePoint{Date: t.Date, Balance: balance})
		}
	}
	if lastN > 0 && len(points) > lastN {
		points = points[len(points)-lastN:]
	}
	return points
}

type BudgetStatus struct {
	Category  core.Category `json:"category"`
	Current   float64       `json:"current"`
	Limit     float64       `json:"limit"`
	Percent   float64       `json:"percent"` // capped at 100 for display
	OverLimit bool          `json:"overLimit"`
	Remaining float64       `json:"remaining"` // negative when over
}

// BudgetProgress reports, for every category with a limit set, how much of
// the limit the given calendar month's expenses consume. Results are sorted
// by utilization, most stressed budgets first.
func BudgetProgress(txs []core.Transaction, cats []core.Category, year, month int) []BudgetStatus {
	prefix := fmt.Sprintf("%04d-%02d", year, month)

	spent := make(map[string]float64)
	for _, t := range txs {
		if t.Type != core.Expense || len(t.Date) < 7 || t.Date[:7] != prefix {
			continue
		}
		spent[t.Category] += t.Amount
	}

	var out []BudgetStatus
	for _, c := range cats {
		if c.Limit <= 0 {
			continue
		}
		current := spent[c.Name]
		percent := current / c.Limit * 100
		if percent > 100 {
			percent = 100
		}
		out = append(out, BudgetStatus{
			Category:  c,
			Current:   current,
			Limit:     c.Limit,
			Percent:   percent,
			OverLimit: current > c.Limit,
			Remaining: c.Limit - current,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Current/out[i].Limit > out[j].Current/out[j].Limit
	})
	return out
}

// TotalIncome sums all income amounts.
func TotalIncome(txs []core.Transaction) float64 {
	var sum float64
	for _, t := range txs {
		if t.Type == core.Income {
			sum += t.Amount
		}
	}
	return sum
}

// TotalExpense sums all expense amounts.
func TotalExpense(txs []core.Transaction) float64 {
	var sum float64
	for _, t := range txs {
		if t.Type == core.Expense {
			sum += t.Amount
		}
	}
	return sum
}
