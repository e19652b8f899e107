package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"despesas/internal/core"
	"despesas/internal/log"
	"despesas/internal/storage"
)

// ErrInvalidBackup marks an import payload that is malformed or incomplete.
var ErrInvalidBackup = errors.New("invalid backup")

const exportDateLayout = "2006-01-02T15:04:05.000Z07:00"

// Backup is the full-ledger interchange document.
type Backup struct {
	Expenses    []core.Expense   `json:"expenses"`
	DailyBudget core.DailyBudget `json:"dailyBudget"`
	ExportDate  string           `json:"exportDate"`
}

// BackupFileName is the download name for a backup taken at now.
func BackupFileName(now time.Time) string {
	return "expense-tracker-backup-" + now.Format(core.ISODateLayout) + ".json"
}

// Export snapshots the ledger.
func (s *ExpenseStore) Export() Backup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Backup{
		Expenses:    append([]core.Expense{}, s.expenses...),
		DailyBudget: s.budget,
		ExportDate:  s.now().UTC().Format(exportDateLayout),
	}
}

// Import replaces both records with the contents of a backup document.
// Nothing is written unless both expenses and dailyBudget are present and
// decode cleanly.
func (s *ExpenseStore) Import(ctx context.Context, data []byte) error {
	expenses, budget, err := decodeBackup(data)
	if err != nil {
		return err
	}
	if err := s.replace(ctx, expenses, budget); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Ledger imported", log.FieldOperation, log.OpImport, log.FieldCount, len(expenses))
	s.notify(ctx, core.LedgerImported, "")
	return nil
}

// Reset empties the collection and restores the default budget table.
func (s *ExpenseStore) Reset(ctx context.Context) error {
	if err := s.replace(ctx, []core.Expense{}, core.DefaultDailyBudget()); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Ledger reset", log.FieldOperation, log.OpReset)
	s.notify(ctx, core.LedgerReset, "")
	return nil
}

func decodeBackup(data []byte) ([]core.Expense, core.DailyBudget, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, core.DailyBudget{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}

	for _, key := range []string{ExpensesKey, DailyBudgetKey} {
		raw, ok := doc[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, core.DailyBudget{}, fmt.Errorf("%w: missing %s", ErrInvalidBackup, key)
		}
	}

	expenses := []core.Expense{}
	if err := json.Unmarshal(doc[ExpensesKey], &expenses); err != nil {
		return nil, core.DailyBudget{}, fmt.Errorf("%w: %s: %v", ErrInvalidBackup, ExpensesKey, err)
	}
	var budget core.DailyBudget
	if err := json.Unmarshal(doc[DailyBudgetKey], &budget); err != nil {
		return nil, core.DailyBudget{}, fmt.Errorf("%w: %s: %v", ErrInvalidBackup, DailyBudgetKey, err)
	}
	if err := budget.Validate(); err != nil {
		return nil, core.DailyBudget{}, fmt.Errorf("%w: %v", ErrInvalidBackup, err)
	}
	return expenses, budget, nil
}

// replace writes both records in one batch where the backend supports it,
// then swaps the in-memory state.
func (s *ExpenseStore) replace(ctx context.Context, expenses []core.Expense, budget core.DailyBudget) error {
	rawExpenses, err := json.Marshal(expenses)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ExpensesKey, err)
	}
	rawBudget, err := json.Marshal(budget)
	if err != nil {
		return fmt.Errorf("encode %s: %w", DailyBudgetKey, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	err = storage.SetAll(ctx, s.store, map[string][]byte{
		ExpensesKey:    rawExpenses,
		DailyBudgetKey: rawBudget,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist ledger", log.FieldError, err)
		return fmt.Errorf("persist ledger: %w", err)
	}
	s.expenses = expenses
	s.budget = budget
	return nil
}
