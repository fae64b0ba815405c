package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrAmountRequired  = errors.New("amount is required")
	ErrInvalidCategory = errors.New("invalid expense category")
)

// Expense is a single recorded transaction. A non-negative amount is money
// received, a negative amount is money paid out. Time is always truncated
// to whole seconds once set.
type Expense struct {
	ID           string
	Name         string
	Amount       decimal.Decimal
	Time         time.Time
	Counterparty string
	Category     ExpenseCategory
}

// CounterpartyText returns the counterparty prefixed with "Received from"
// or "Paid to" depending on the sign of the amount. A blank counterparty
// reads as "Unknown".
func (e Expense) CounterpartyText() string {
	prefix := "Received from "
	if e.Amount.IsNegative() {
		prefix = "Paid to "
	}
	name := e.Counterparty
	if strings.TrimSpace(name) == "" {
		name = "Unknown"
	}
	return prefix + name
}

// CategoryText returns the human-readable name of the category.
func (e Expense) CategoryText() string {
	return e.Category.Label()
}

// ExpenseInput carries caller-supplied expense data. Every field is
// optional; a nil field means "not supplied", which a patch interprets as
// "leave unchanged" rather than "clear".
type ExpenseInput struct {
	Name         *string
	Amount       *decimal.Decimal
	Time         *time.Time
	Counterparty *string
	Category     *ExpenseCategory
}

// Validate checks an input used for create or full replace. An amount is
// required and a supplied category must be a known code.
func (in ExpenseInput) Validate() error {
	if in.Amount == nil {
		return ErrAmountRequired
	}
	if in.Category != nil && !in.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// NewExpense builds an unsaved expense from a full input. The time is
// stamped to the current second when not supplied, and an absent category
// defaults to CategoryOther.
func NewExpense(in ExpenseInput, now time.Time) (Expense, error) {
	if err := in.Validate(); err != nil {
		return Expense{}, err
	}
	e := Expense{
		Amount:   *in.Amount,
		Time:     now.Truncate(time.Second),
		Category: CategoryOther,
	}
	if in.Name != nil {
		e.Name = *in.Name
	}
	if in.Time != nil {
		e.Time = in.Time.Truncate(time.Second)
	}
	if in.Counterparty != nil {
		e.Counterparty = *in.Counterparty
	}
	if in.Category != nil {
		e.Category = *in.Category
	}
	return e, nil
}

// ApplyPatch overwrites exactly the fields the input supplies and leaves
// the rest untouched. A supplied time is truncated to seconds.
func (e *Expense) ApplyPatch(in ExpenseInput) {
	if in.Name != nil {
		e.Name = *in.Name
	}
	if in.Amount != nil {
		e.Amount = *in.Amount
	}
	if in.Time != nil {
		e.Time = in.Time.Truncate(time.Second)
	}
	if in.Counterparty != nil {
		e.Counterparty = *in.Counterparty
	}
	if in.Category != nil {
		e.Category = *in.Category
	}
}
