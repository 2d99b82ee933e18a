package models

import "github.com/mmynk/gopayurself/internal/money"

// ExpenseKind tells real expenses and settlements apart.
type ExpenseKind string

const (
	// KindExpense is money spent on behalf of the participants.
	KindExpense ExpenseKind = "expense"

	// KindSettlement is a debtor paying a creditor back. It is stored with
	// PayerID = debtor and a single split for the creditor.
	KindSettlement ExpenseKind = "settlement"
)

// Valid reports whether k is a known kind.
func (k ExpenseKind) Valid() bool {
	return k == KindExpense || k == KindSettlement
}

// Expense is one immutable ledger record.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group whose ledger holds this record.
	GroupID string

	// Kind is KindExpense or KindSettlement.
	Kind ExpenseKind

	// Description is free text shown in the expense list.
	Description string

	// Amount is the full amount credited to the payer. Always positive.
	Amount money.Cents

	// PayerID is the member who paid.
	PayerID string

	// Splits are the participants' shares, in participant order.
	// They always sum to Amount.
	Splits []Split

	// CreatedAt is the Unix timestamp when the record was created.
	CreatedAt int64

	// CreatedBy is the user who recorded the expense.
	CreatedBy string
}

// Split is one participant's share of an expense.
type Split struct {
	UserID string
	Amount money.Cents
}

// Participants returns the user IDs of all splits.
func (e *Expense) Participants() []string {
	ids := make([]string, len(e.Splits))
	for i, s := range e.Splits {
		ids[i] = s.UserID
	}
	return ids
}

// SplitTotal sums the split amounts.
func (e *Expense) SplitTotal() money.Cents {
	var total money.Cents
	for _, s := range e.Splits {
		total += s.Amount
	}
	return total
}
