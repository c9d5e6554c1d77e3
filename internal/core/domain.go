package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Money is an amount in paise, the smallest whole currency unit.
	// All arithmetic happens on integer paise; rupees exist only at the
	// presentation edge.
	Money struct {
		Paise int64
	}

	// Budget is a user's single active monthly financial plan. At most one
	// Budget exists per user; setting it again replaces the numeric fields
	// in place.
	Budget struct {
		UserID            string
		MonthlyIncome     Money
		MandatoryExpenses Money
		SavingsGoal       Money
		DaysInMonth       int
		CreatedAt         time.Time
		UpdatedAt         time.Time
	}

	// Expense is a single dated spending record owned by a user. The sign of
	// Amount is not validated at this layer.
	Expense struct {
		ID          int64
		UserID      string
		Amount      Money
		Category    string
		Description string
		Tags        []string
		Date        time.Time
		CreatedAt   time.Time
		UpdatedAt   time.Time
	}
)

var (
	ErrEmptyUserID     = errors.New("empty user id")
	ErrEmptyCategory   = errors.New("empty category")
	ErrNegativeAmount  = errors.New("negative amount")
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidDays     = errors.New("days in month must be between 28 and 31")
	ErrNoRemainingDays = errors.New("no remaining days in month")
	ErrBudgetNotFound  = errors.New("budget not found")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrDescriptionSize = errors.New("description too long (max 200 characters)")
)

func (b Budget) Validate() error {
	if strings.TrimSpace(b.UserID) == "" {
		return ErrEmptyUserID
	}
	if b.MonthlyIncome.Paise < 0 || b.MandatoryExpenses.Paise < 0 || b.SavingsGoal.Paise < 0 {
		return ErrNegativeAmount
	}
	if b.DaysInMonth < 28 || b.DaysInMonth > 31 {
		return ErrInvalidDays
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Description) > 200 {
		return ErrDescriptionSize
	}
	return nil
}
