package core

import "time"

const (
	ExpenseCreated ChangeKind = "expense.created"
	ExpenseUpdated ChangeKind = "expense.updated"
	ExpenseDeleted ChangeKind = "expense.deleted"
	BudgetUpdated  ChangeKind = "budget.updated"
	LedgerImported ChangeKind = "ledger.imported"
	LedgerReset    ChangeKind = "ledger.reset"
)

// ChangeKind names the mutation that produced a ChangeEvent.
type ChangeKind string

// ChangeEvent announces a committed change to the ledger. ExpenseID is
// empty for changes that are not about a single expense.
type ChangeEvent struct {
	Kind      ChangeKind `json:"kind"`
	ExpenseID string     `json:"expenseId,omitempty"`
	At        time.Time  `json:"at"`
}

func (k ChangeKind) Valid() bool {
	switch k {
	case ExpenseCreated, ExpenseUpdated, ExpenseDeleted, BudgetUpdated, LedgerImported, LedgerReset:
		return true
	default:
		return false
	}
}
