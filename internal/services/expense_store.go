package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"despesas/internal/core"
	"despesas/internal/log"
	"despesas/internal/storage"
)

// Keys of the two records the ledger persists.
const (
	ExpensesKey    = "expenses"
	DailyBudgetKey = "dailyBudget"
)

// Notifier receives an event after every committed mutation.
type Notifier interface {
	Notify(ctx context.Context, event core.ChangeEvent) error
}

// ExpenseStore owns the expense collection and the daily budget table.
// Every mutation is written to the storage port before it becomes visible
// in memory, so a failed write leaves the previous state in place.
type ExpenseStore struct {
	mu       sync.RWMutex
	expenses []core.Expense
	budget   core.DailyBudget
	filter   core.FilterOptions

	store    storage.Store
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time
	newID    func() string
}

type Option func(*ExpenseStore)

func WithNotifier(n Notifier) Option {
	return func(s *ExpenseStore) { s.notifier = n }
}

func WithLogger(l *log.Logger) Option {
	return func(s *ExpenseStore) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *ExpenseStore) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *ExpenseStore) { s.newID = newID }
}

// NewExpenseStore loads the ledger from store. Missing records start as an
// empty collection and the default budget table.
func NewExpenseStore(ctx context.Context, store storage.Store, opts ...Option) (*ExpenseStore, error) {
	s := &ExpenseStore{
		store:  store,
		filter: core.FilterOptions{PaymentMethod: core.AllPaymentMethods},
		now:    time.Now,
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default(log.ComponentLedger)
	}
	s.logger = s.logger.WithComponent(log.ComponentLedger)

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload replaces the in-memory state with what the storage port holds.
func (s *ExpenseStore) Reload(ctx context.Context) error {
	expenses, budget, err := load(ctx, s.store)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.expenses = expenses
	s.budget = budget
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "Ledger loaded", log.FieldOperation, log.OpLoad, log.FieldCount, len(expenses))
	return nil
}

func load(ctx context.Context, store storage.Store) ([]core.Expense, core.DailyBudget, error) {
	expenses := []core.Expense{}
	raw, err := store.Get(ctx, ExpensesKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, core.DailyBudget{}, fmt.Errorf("load %s: %w", ExpensesKey, err)
	default:
		if err := json.Unmarshal(raw, &expenses); err != nil {
			return nil, core.DailyBudget{}, fmt.Errorf("decode %s: %w", ExpensesKey, err)
		}
		if expenses == nil {
			expenses = []core.Expense{}
		}
	}

	budget := core.DefaultDailyBudget()
	raw, err = store.Get(ctx, DailyBudgetKey)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		return nil, core.DailyBudget{}, fmt.Errorf("load %s: %w", DailyBudgetKey, err)
	default:
		if strings.TrimSpace(string(raw)) != "null" {
			if err := json.Unmarshal(raw, &budget); err != nil {
				return nil, core.DailyBudget{}, fmt.Errorf("decode %s: %w", DailyBudgetKey, err)
			}
		}
	}
	return expenses, budget, nil
}

// Add validates in, assigns a fresh id and appends the expense.
func (s *ExpenseStore) Add(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	if err := in.Validate(); err != nil {
		return core.Expense{}, err
	}

	s.mu.Lock()
	e := core.NewExpense(s.newID(), in)
	next := append(slices.Clip(s.expenses), e)
	if err := s.persistExpenses(ctx, next); err != nil {
		s.mu.Unlock()
		return core.Expense{}, err
	}
	s.expenses = next
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Expense created",
		log.FieldOperation, log.OpCreate,
		log.FieldExpenseID, e.ID,
		log.FieldItem, e.Item,
		log.FieldTotal, e.Total)
	s.notify(ctx, core.ExpenseCreated, e.ID)
	return e, nil
}

// Edit replaces every field of the expense with id except the id itself.
// An unknown id changes nothing and reports false.
func (s *ExpenseStore) Edit(ctx context.Context, id string, in core.ExpenseInput) (bool, error) {
	if err := in.Validate(); err != nil {
		return false, err
	}

	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	next := slices.Clone(s.expenses)
	next[i] = core.NewExpense(id, in)
	if err := s.persistExpenses(ctx, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.expenses = next
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Expense updated", log.FieldOperation, log.OpUpdate, log.FieldExpenseID, id)
	s.notify(ctx, core.ExpenseUpdated, id)
	return true, nil
}

// Delete removes the expense with id. An unknown id changes nothing and
// reports false.
func (s *ExpenseStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	next := slices.Delete(slices.Clone(s.expenses), i, i+1)
	if err := s.persistExpenses(ctx, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.expenses = next
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Expense deleted", log.FieldOperation, log.OpDelete, log.FieldExpenseID, id)
	s.notify(ctx, core.ExpenseDeleted, id)
	return true, nil
}

// UpdateBudget replaces the budget table wholesale.
func (s *ExpenseStore) UpdateBudget(ctx context.Context, budget core.DailyBudget) error {
	if err := budget.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(budget)
	if err != nil {
		return fmt.Errorf("encode %s: %w", DailyBudgetKey, err)
	}

	s.mu.Lock()
	if err := s.store.Set(ctx, DailyBudgetKey, raw); err != nil {
		s.mu.Unlock()
		s.logger.ErrorContext(ctx, "Failed to persist budget", log.FieldOperation, log.OpUpdateBudget, log.FieldError, err)
		return fmt.Errorf("persist %s: %w", DailyBudgetKey, err)
	}
	s.budget = budget
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Budget updated", log.FieldOperation, log.OpUpdateBudget, "weekly_total", budget.Total())
	s.notify(ctx, core.BudgetUpdated, "")
	return nil
}

// Expenses returns a copy of the collection in insertion order.
func (s *ExpenseStore) Expenses() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.expenses)
}

func (s *ExpenseStore) Get(id string) (core.Expense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.expenses[i], true
	}
	return core.Expense{}, false
}

func (s *ExpenseStore) Budget() core.DailyBudget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.budget
}

// SetFilter replaces the criteria of the filtered view.
func (s *ExpenseStore) SetFilter(opts core.FilterOptions) {
	s.mu.Lock()
	s.filter = opts
	s.mu.Unlock()
}

// ClearFilter resets the filtered view to every payment method and no bounds.
func (s *ExpenseStore) ClearFilter() {
	s.SetFilter(core.FilterOptions{PaymentMethod: core.AllPaymentMethods})
}

func (s *ExpenseStore) Filter() core.FilterOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Filtered applies the current filter to the current collection, newest
// date first. Expenses on the same date keep their insertion order.
func (s *ExpenseStore) Filtered() []core.Expense {
	s.mu.RLock()
	out := core.Filter(s.expenses, s.filter)
	s.mu.RUnlock()
	SortByDateDesc(out)
	return out
}

// SortByDateDesc orders expenses newest first, stable within a day.
func SortByDateDesc(expenses []core.Expense) {
	slices.SortStableFunc(expenses, func(a, b core.Expense) int {
		return strings.Compare(b.Date, a.Date)
	})
}

func (s *ExpenseStore) indexOf(id string) int {
	return slices.IndexFunc(s.expenses, func(e core.Expense) bool { return e.ID == id })
}

// persistExpenses must be called with s.mu held.
func (s *ExpenseStore) persistExpenses(ctx context.Context, expenses []core.Expense) error {
	raw, err := json.Marshal(expenses)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ExpensesKey, err)
	}
	if err := s.store.Set(ctx, ExpensesKey, raw); err != nil {
		s.logger.ErrorContext(ctx, "Failed to persist expenses", log.FieldError, err)
		return fmt.Errorf("persist %s: %w", ExpensesKey, err)
	}
	return nil
}

func (s *ExpenseStore) notify(ctx context.Context, kind core.ChangeKind, expenseID string) {
	if s.notifier == nil {
		return
	}
	event := core.ChangeEvent{Kind: kind, ExpenseID: expenseID, At: s.now().UTC()}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish change event",
			log.FieldEventKind, kind,
			log.FieldExpenseID, expenseID,
			log.FieldError, err)
	}
}
