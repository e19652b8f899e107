package worker

import (
	"context"
	"fmt"

	"despesas/internal/core"
	"despesas/internal/log"
	"despesas/internal/report"
	"despesas/internal/sheets"
)

// Ledger is the read side of the expense store the worker mirrors.
type Ledger interface {
	Reload(ctx context.Context) error
	Expenses() []core.Expense
}

// MirrorWorker rewrites a spreadsheet tab with the full ledger whenever a
// change event arrives. Every sync writes the complete state, so events
// carry no payload and may be handled out of order.
type MirrorWorker struct {
	ledger Ledger
	sheet  sheets.RowWriter
	logger *log.Logger
}

func NewMirrorWorker(ledger Ledger, sheet sheets.RowWriter, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.Default(log.ComponentWorker)
	}
	return &MirrorWorker{
		ledger: ledger,
		sheet:  sheet,
		logger: logger.WithComponent(log.ComponentWorker),
	}
}

// HandleChange is the AMQP handler: it reloads the ledger from the shared
// backend and rewrites the sheet.
func (w *MirrorWorker) HandleChange(ctx context.Context, event core.ChangeEvent) error {
	w.logger.InfoContext(ctx, "Processing change event",
		log.FieldEventKind, event.Kind,
		log.FieldExpenseID, event.ExpenseID)
	return w.Sync(ctx)
}

// Sync mirrors the current ledger once.
func (w *MirrorWorker) Sync(ctx context.Context) error {
	if err := w.ledger.Reload(ctx); err != nil {
		return fmt.Errorf("reload ledger: %w", err)
	}

	expenses := w.ledger.Expenses()
	if err := w.sheet.ReplaceRows(ctx, report.SheetValues(expenses)); err != nil {
		return fmt.Errorf("write sheet: %w", err)
	}

	w.logger.InfoContext(ctx, "Ledger mirrored", log.FieldOperation, log.OpSync, log.FieldCount, len(expenses))
	return nil
}
