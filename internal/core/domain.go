package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// DateLayout is the wire format for transaction dates. Dates are zero-padded,
// so lexicographic comparison of two date strings matches chronological order.
const DateLayout = "2006-01-02"

type (
	TransactionType string

	// Transaction is a single income or expense entry. Category is a
	// denormalized reference by name: renaming a category leaves historical
	// transactions pointing at the old name, and readers fall back to a
	// default color for such orphans.
	Transaction struct {
		ID            string          `json:"id"`
		Type          TransactionType `json:"type"`
		Amount        float64         `json:"amount"`
		Category      string          `json:"category"`
		Date          string          `json:"date"`
		Comment       string          `json:"comment,omitempty"`
		IsApproximate bool            `json:"isApproximate,omitempty"`
	}

	Category struct {
		ID            string  `json:"id"`
		Name          string  `json:"name"`
		Color         string  `json:"color"`
		Icon          string  `json:"icon,omitempty"`
		IsQuickAccess bool    `json:"isQuickAccess,omitempty"`
		Limit         float64 `json:"limit,omitempty"` // monthly budget ceiling, 0 = none
	}

	// TransactionInput is a transaction without its id, as accepted by the
	// ledger's add/update commands. The ledger trusts this shape; Validate
	// must be called at the input boundary.
	TransactionInput struct {
		Type          TransactionType `json:"type" validate:"required,oneof=income expense"`
		Amount        float64         `json:"amount" validate:"required,gt=0"`
		Category      string          `json:"category" validate:"required"`
		Date          string          `json:"date" validate:"required,datetime=2006-01-02"`
		Comment       string          `json:"comment,omitempty"`
		IsApproximate bool            `json:"isApproximate,omitempty"`
	}

	CategoryInput struct {
		Name          string  `json:"name" validate:"required"`
		Color         string  `json:"color" validate:"required"`
		Icon          string  `json:"icon,omitempty"`
		IsQuickAccess bool    `json:"isQuickAccess,omitempty"`
		Limit         float64 `json:"limit,omitempty" validate:"omitempty,gt=0"`
	}

	// CategoryPatch carries a partial category update; nil fields are left
	// untouched by the merge.
	CategoryPatch struct {
		Name          *string  `json:"name,omitempty"`
		Color         *string  `json:"color,omitempty"`
		Icon          *string  `json:"icon,omitempty"`
		IsQuickAccess *bool    `json:"isQuickAccess,omitempty"`
		Limit         *float64 `json:"limit,omitempty"`
	}
)

var (
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidCategory    = errors.New("invalid category")
)

var validate = validator.New()

func (in TransactionInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	return nil
}

func (in CategoryInput) Validate() error {
	if err := validate.Struct(in); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCategory, err)
	}
	return nil
}

// Record materializes the input as a transaction with the given id.
func (in TransactionInput) Record(id string) Transaction {
	return Transaction{
		ID:            id,
		Type:          in.Type,
		Amount:        in.Amount,
		Category:      in.Category,
		Date:          in.Date,
		Comment:       in.Comment,
		IsApproximate: in.IsApproximate,
	}
}

// Record materializes the input as a category with the given id.
func (in CategoryInput) Record(id string) Category {
	return Category{
		ID:            id,
		Name:          in.Name,
		Color:         in.Color,
		Icon:          in.Icon,
		IsQuickAccess: in.IsQuickAccess,
		Limit:         in.Limit,
	}
}

// ParseDate parses an ISO YYYY-MM-DD date string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders t as an ISO YYYY-MM-DD date string.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}
