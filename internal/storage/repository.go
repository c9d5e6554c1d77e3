package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"bachat/internal/core"

	_ "modernc.org/sqlite"
)

// Sync states for the export queue.
const (
	SyncPending = "pending"
	SyncDone    = "synced"
	SyncError   = "error"
)

// SQLiteRepository is the record store: budgets and expenses keyed by user id.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// UpsertBudget stores the budget as a single replace-or-insert keyed by user
// id. A second submission for the same user overwrites the numeric fields in
// place; created_at survives the overwrite.
func (r *SQLiteRepository) UpsertBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO budgets (user_id, monthly_income_paise, mandatory_expenses_paise, savings_goal_paise, days_in_month, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			monthly_income_paise = excluded.monthly_income_paise,
			mandatory_expenses_paise = excluded.mandatory_expenses_paise,
			savings_goal_paise = excluded.savings_goal_paise,
			days_in_month = excluded.days_in_month,
			updated_at = excluded.updated_at`,
		b.UserID, b.MonthlyIncome.Paise, b.MandatoryExpenses.Paise, b.SavingsGoal.Paise, b.DaysInMonth, now, now)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}

	stored, err := r.GetBudget(ctx, b.UserID)
	if err != nil {
		return core.Budget{}, err
	}

	slog.InfoContext(ctx, "Budget saved",
		"user_id", stored.UserID,
		"monthly_income_paise", stored.MonthlyIncome.Paise,
		"savings_goal_paise", stored.SavingsGoal.Paise)

	return stored, nil
}

// GetBudget returns the user's budget or core.ErrBudgetNotFound.
func (r *SQLiteRepository) GetBudget(ctx context.Context, userID string) (core.Budget, error) {
	var b core.Budget
	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, monthly_income_paise, mandatory_expenses_paise, savings_goal_paise, days_in_month, created_at, updated_at
		FROM budgets WHERE user_id = ?`, userID).
		Scan(&b.UserID, &b.MonthlyIncome.Paise, &b.MandatoryExpenses.Paise, &b.SavingsGoal.Paise, &b.DaysInMonth, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, core.ErrBudgetNotFound
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// CreateExpense inserts a new expense and returns it with its assigned id.
func (r *SQLiteRepository) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	tags, err := marshalTags(e.Tags)
	if err != nil {
		return core.Expense{}, fmt.Errorf("marshal tags: %w", err)
	}

	now := time.Now().UTC()
	if e.Date.IsZero() {
		e.Date = now
	}

	res, err := r.db.ExecContext(ctx, `
		INSERT INTO expenses (user_id, amount_paise, category, description, tags, date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Amount.Paise, e.Category, e.Description, tags, e.Date, now, now)
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("expense insert id: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now

	slog.InfoContext(ctx, "Expense saved",
		"expense_id", e.ID,
		"user_id", e.UserID,
		"category", e.Category,
		"amount_paise", e.Amount.Paise)

	return e, nil
}

// ListExpenses returns the user's expenses newest first. A zero since lists
// the full history; otherwise only expenses dated at or after since.
func (r *SQLiteRepository) ListExpenses(ctx context.Context, userID string, since time.Time) ([]core.Expense, error) {
	query := `
		SELECT id, user_id, amount_paise, category, description, tags, date, created_at, updated_at
		FROM expenses WHERE user_id = ?`
	args := []any{userID}
	if !since.IsZero() {
		query += ` AND date >= ?`
		args = append(args, since.UTC())
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list expenses rows: %w", err)
	}
	return expenses, nil
}

// GetExpense returns an expense scoped to its owner, or core.ErrExpenseNotFound.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id int64, userID string) (core.Expense, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, amount_paise, category, description, tags, date, created_at, updated_at
		FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, core.ErrExpenseNotFound
	}
	if err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// UpdateExpense mutates an expense matching both id and owner. The row goes
// back to pending so the export worker picks the change up.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	tags, err := marshalTags(e.Tags)
	if err != nil {
		return core.Expense{}, fmt.Errorf("marshal tags: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE expenses
		SET amount_paise = ?, category = ?, description = ?, tags = ?, updated_at = ?, sync_status = ?
		WHERE id = ? AND user_id = ?`,
		e.Amount.Paise, e.Category, e.Description, tags, time.Now().UTC(), SyncPending, e.ID, e.UserID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return core.Expense{}, fmt.Errorf("update expense rows affected: %w", err)
	}
	if affected == 0 {
		return core.Expense{}, core.ErrExpenseNotFound
	}

	return r.GetExpense(ctx, e.ID, e.UserID)
}

// DeleteExpense removes an expense matching both id and owner.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id int64, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense rows affected: %w", err)
	}
	if affected == 0 {
		return core.ErrExpenseNotFound
	}

	slog.InfoContext(ctx, "Expense deleted", "expense_id", id, "user_id", userID)
	return nil
}

// GetPendingSyncExpenses returns expenses waiting for spreadsheet export.
func (r *SQLiteRepository) GetPendingSyncExpenses(ctx context.Context, limit int) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, amount_paise, category, description, tags, date, created_at, updated_at
		FROM expenses WHERE sync_status = ? ORDER BY id ASC LIMIT ?`, SyncPending, limit)
	if err != nil {
		return nil, fmt.Errorf("get pending sync expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pending sync rows: %w", err)
	}
	return expenses, nil
}

// MarkSynced marks an expense as exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET sync_status = ? WHERE id = ?`, SyncDone, id); err != nil {
		return fmt.Errorf("mark expense synced: %w", err)
	}
	slog.InfoContext(ctx, "Expense marked as synced", "expense_id", id)
	return nil
}

// MarkSyncError records a failed export attempt.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `
		UPDATE expenses SET sync_status = ?, sync_attempts = sync_attempts + 1 WHERE id = ?`, SyncError, id); err != nil {
		return fmt.Errorf("mark expense sync error: %w", err)
	}
	slog.WarnContext(ctx, "Expense marked with sync error", "expense_id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var (
		e    core.Expense
		tags string
	)
	err := row.Scan(&e.ID, &e.UserID, &e.Amount.Paise, &e.Category, &e.Description, &tags, &e.Date, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return core.Expense{}, err
		}
		return core.Expense{}, fmt.Errorf("scan expense: %w", err)
	}
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return core.Expense{}, fmt.Errorf("unmarshal tags: %w", err)
	}
	return e, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
