// Package services orchestrates the record store, the core calculations, and
// the async export queue.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"bachat/internal/core"
)

// Store is the record store port: budgets and expenses keyed by user id.
// Not-found is signalled with core.ErrBudgetNotFound / core.ErrExpenseNotFound,
// never with zero-value defaults.
type Store interface {
	UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	GetBudget(ctx context.Context, userID string) (core.Budget, error)
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	ListExpenses(ctx context.Context, userID string, since time.Time) ([]core.Expense, error)
	GetExpense(ctx context.Context, id int64, userID string) (core.Expense, error)
	UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	DeleteExpense(ctx context.Context, id int64, userID string) error
}

// Publisher queues expense changes for the export worker.
type Publisher interface {
	PublishExpenseSync(ctx context.Context, id int64, userID string) error
	PublishExpenseDelete(ctx context.Context, id int64, userID string) error
}

// BudgetService is the request-scoped entry point for all budget and expense
// operations. It holds no state of its own; every computation is a pure
// function of the user's current records.
type BudgetService struct {
	store     Store
	publisher Publisher
	now       func() time.Time
}

// Option configures a BudgetService.
type Option func(*BudgetService)

// WithClock overrides the service clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *BudgetService) { s.now = now }
}

func NewBudgetService(store Store, publisher Publisher, opts ...Option) *BudgetService {
	s := &BudgetService{
		store:     store,
		publisher: publisher,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetBudget validates and stores the user's budget with replace-or-insert
// semantics: a second call for the same user overwrites the numeric fields.
func (s *BudgetService) SetBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	stored, err := s.store.UpsertBudget(ctx, b)
	if err != nil {
		return core.Budget{}, fmt.Errorf("set budget: %w", err)
	}
	return stored, nil
}

// GetBudget returns the user's stored budget or core.ErrBudgetNotFound.
func (s *BudgetService) GetBudget(ctx context.Context, userID string) (core.Budget, error) {
	return s.store.GetBudget(ctx, userID)
}

// CreateExpense saves an expense and queues it for export. The publish is
// best effort: the expense is durable locally either way.
func (s *BudgetService) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	created, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	if err := s.publishSync(ctx, created.ID, created.UserID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"expense_id", created.ID, "error", err)
		// Don't fail the request - expense is saved locally
	}

	return created, nil
}

// UpdateExpense mutates an expense scoped to its owner and re-queues it for
// export.
func (s *BudgetService) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	updated, err := s.store.UpdateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, err
	}

	if err := s.publishSync(ctx, updated.ID, updated.UserID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"expense_id", updated.ID, "error", err)
	}

	return updated, nil
}

// DeleteExpense removes an expense scoped to its owner and queues the
// deletion for export.
func (s *BudgetService) DeleteExpense(ctx context.Context, id int64, userID string) error {
	if err := s.store.DeleteExpense(ctx, id, userID); err != nil {
		return err
	}

	if err := s.publishDelete(ctx, id, userID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message",
			"expense_id", id, "error", err)
		// Don't fail the request - expense is deleted locally
	}

	return nil
}

// ListExpenses returns the user's full expense history, newest first.
func (s *BudgetService) ListExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, userID, time.Time{})
}

// MonthlyExpenses returns the current month's expenses, newest first.
func (s *BudgetService) MonthlyExpenses(ctx context.Context, userID string) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, userID, core.StartOfMonth(s.now()))
}

// Dashboard computes dashboard metrics over the full expense history.
// A missing budget surfaces as core.ErrBudgetNotFound.
func (s *BudgetService) Dashboard(ctx context.Context, userID string) (core.DashboardStats, error) {
	budget, err := s.store.GetBudget(ctx, userID)
	if err != nil {
		return core.DashboardStats{}, err
	}

	expenses, err := s.store.ListExpenses(ctx, userID, time.Time{})
	if err != nil {
		return core.DashboardStats{}, fmt.Errorf("list expenses: %w", err)
	}

	return core.ComputeDashboard(budget, core.Aggregate(expenses), core.RemainingDays(s.now()))
}

// Savings computes the savings view over the current month's expenses only
// (dated at or after the first of the month, local midnight).
func (s *BudgetService) Savings(ctx context.Context, userID string) (core.SavingsOverview, error) {
	budget, err := s.store.GetBudget(ctx, userID)
	if err != nil {
		return core.SavingsOverview{}, err
	}

	expenses, err := s.store.ListExpenses(ctx, userID, core.StartOfMonth(s.now()))
	if err != nil {
		return core.SavingsOverview{}, fmt.Errorf("list month expenses: %w", err)
	}

	return core.ComputeSavings(budget, core.Aggregate(expenses).Total), nil
}

func (s *BudgetService) publishSync(ctx context.Context, id int64, userID string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Publisher not available, skipping sync message")
		return nil
	}
	return s.publisher.PublishExpenseSync(ctx, id, userID)
}

func (s *BudgetService) publishDelete(ctx context.Context, id int64, userID string) error {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Publisher not available, skipping delete message")
		return nil
	}
	return s.publisher.PublishExpenseDelete(ctx, id, userID)
}
