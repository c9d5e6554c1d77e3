// Package worker drains the export queue into the spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"bachat/internal/amqp"
	"bachat/internal/core"
	"bachat/internal/export"
)

// SyncStore is the slice of the record store the worker needs: reading
// expense rows and tracking their export state.
type SyncStore interface {
	GetExpense(ctx context.Context, id int64, userID string) (core.Expense, error)
	GetPendingSyncExpenses(ctx context.Context, limit int) ([]core.Expense, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// SyncWorker exports expenses from the local store to the spreadsheet. Queue
// messages drive the common path; ProcessPendingExpenses sweeps up rows whose
// messages were lost.
type SyncWorker struct {
	store     SyncStore
	writer    export.ExpenseWriter
	deleter   export.ExpenseDeleter
	batchSize int
}

func NewSyncWorker(store SyncStore, writer export.ExpenseWriter, deleter export.ExpenseDeleter, batchSize int) *SyncWorker {
	return &SyncWorker{
		store:     store,
		writer:    writer,
		deleter:   deleter,
		batchSize: batchSize,
	}
}

// HandleSyncMessage exports the expense named by a queue message. The message
// only carries ids; the current record is read from the store so a stale
// message still exports fresh data.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ExpenseSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"expense_id", msg.ID, "user_id", msg.UserID)

	expense, err := w.store.GetExpense(ctx, msg.ID, msg.UserID)
	if err != nil {
		// Deleted between publish and consume; the delete message will follow.
		if errors.Is(err, core.ErrExpenseNotFound) {
			slog.WarnContext(ctx, "Expense gone before export, skipping", "expense_id", msg.ID)
			return nil
		}
		return fmt.Errorf("get expense from store: %w", err)
	}

	return w.exportExpense(ctx, expense)
}

// HandleDeleteMessage removes an exported expense row.
func (w *SyncWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.ExpenseDeleteMessage) error {
	slog.InfoContext(ctx, "Processing delete message",
		"expense_id", msg.ID, "user_id", msg.UserID)

	if w.deleter == nil {
		slog.WarnContext(ctx, "No expense deleter configured, skipping spreadsheet deletion",
			"expense_id", msg.ID)
		return nil
	}

	if err := w.deleter.DeleteExpense(ctx, msg.ID); err != nil {
		return fmt.Errorf("delete expense from spreadsheet: %w", err)
	}

	slog.InfoContext(ctx, "Deleted expense from spreadsheet", "expense_id", msg.ID)
	return nil
}

// ProcessPendingExpenses exports rows still marked pending. This is the
// backup path for lost queue messages.
func (w *SyncWorker) ProcessPendingExpenses(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncExpenses(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending expenses: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending expenses", "count", len(pending))

	for _, expense := range pending {
		if err := w.exportExpense(ctx, expense); err != nil {
			slog.ErrorContext(ctx, "Failed to export expense",
				"expense_id", expense.ID, "error", err)
		}
	}
	return nil
}

// StartupSyncCheck drains a larger pending batch once at worker startup to
// recover from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.store.GetPendingSyncExpenses(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending expenses for startup check: %w", err)
	}
	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending expenses found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending expenses on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0
	for _, expense := range pending {
		if err := w.exportExpense(ctx, expense); err != nil {
			slog.ErrorContext(ctx, "Failed to export expense during startup",
				"expense_id", expense.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending), "synced", successCount, "errors", errorCount)
	return nil
}

// RunPeriodicSweep calls ProcessPendingExpenses on every tick until the
// context is cancelled.
func (w *SyncWorker) RunPeriodicSweep(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.ProcessPendingExpenses(ctx); err != nil {
				slog.ErrorContext(ctx, "Pending sweep failed", "error", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (w *SyncWorker) exportExpense(ctx context.Context, expense core.Expense) error {
	ref, err := w.writer.AppendExpense(ctx, expense)
	if err != nil {
		if markErr := w.store.MarkSyncError(ctx, expense.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error",
				"expense_id", expense.ID, "error", markErr)
		}
		return fmt.Errorf("append to spreadsheet: %w", err)
	}

	if err := w.store.MarkSynced(ctx, expense.ID); err != nil {
		// The export itself worked; only the bookkeeping failed.
		slog.ErrorContext(ctx, "Failed to mark as synced",
			"expense_id", expense.ID, "error", err)
	}

	slog.InfoContext(ctx, "Exported expense",
		"expense_id", expense.ID, "sheet_ref", ref, "amount_paise", expense.Amount.Paise)
	return nil
}
