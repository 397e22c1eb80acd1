// Package reconcile compares the tracked balance against an externally
// reported bank balance and turns the difference into a ledger entry on
// request. It never mutates the ledger on its own: Compare is a pure
// computation, and committing is an explicit separate step.
package reconcile

import (
	"context"
	"errors"
	"fmt"

	"kopilka/internal/core"
)

// PettyCategory is the category untracked spending is booked against. It is
// not part of the seed set; the user creates it once, and committing fails
// with ErrPettyCategoryMissing until they do.
const PettyCategory = "Мелкие траты"

const (
	commentExact       = "Разница с балансом в банке"
	commentApproximate = "Приблизительная сумма (разница с банком)"
)

type Kind string

const (
	// UntrackedExpense: the tracker shows more money than the bank, so some
	// spending was never recorded. The difference can be committed.
	UntrackedExpense Kind = "untracked-expense"
	// Reconciled: balances match, nothing to do.
	Reconciled Kind = "reconciled"
	// UntrackedIncome: the bank shows more than the tracker. Informational
	// only; no automated remedy is offered.
	UntrackedIncome Kind = "untracked-income"
)

type Result struct {
	TrackerBalance float64 `json:"trackerBalance"`
	BankBalance    float64 `json:"bankBalance"`
	Difference     float64 `json:"difference"`
	Kind           Kind    `json:"kind"`
}

var (
	ErrNothingToCommit      = errors.New("difference is not a positive untracked expense")
	ErrPettyCategoryMissing = errors.New("petty expenses category not found")
)

// Compare computes difference = tracker - bank and classifies it.
func Compare(tracker, bank float64) Result {
	res := Result{
		TrackerBalance: tracker,
		BankBalance:    bank,
		Difference:     tracker - bank,
	}
	switch {
	case res.Difference > 0:
		res.Kind = UntrackedExpense
	case res.Difference < 0:
		res.Kind = UntrackedIncome
	default:
		res.Kind = Reconciled
	}
	return res
}

// Ledger is the slice of the store the committer needs.
type Ledger interface {
	AddTransaction(ctx context.Context, in core.TransactionInput) string
	Categories() []core.Category
}

// CommitDifference records the difference as an expense against the petty
// category on the given date, returning the new transaction's id. Only a
// positive difference can be committed.
func CommitDifference(ctx context.Context, l Ledger, res Result, date string, approximate bool) (string, error) {
	if res.Difference <= 0 {
		return "", fmt.Errorf("%w: difference=%.2f", ErrNothingToCommit, res.Difference)
	}

	found := false
	for _, c := range l.Categories() {
		if c.Name == PettyCategory {
			found = true
			break
		}
	}
	if !found {
		return "", fmt.Errorf("%w: %q", ErrPettyCategoryMissing, PettyCategory)
	}

	comment := commentExact
	if approximate {
		comment = commentApproximate
	}
	id := l.AddTransaction(ctx, core.TransactionInput{
		Type:          core.Expense,
		Amount:        res.Difference,
		Category:      PettyCategory,
		Date:          date,
		Comment:       comment,
		IsApproximate: approximate,
	})
	return id, nil
}
