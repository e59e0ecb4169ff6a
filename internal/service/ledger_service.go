package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// LedgerService manages the personal side of the system: categories,
// monthly goals and personal-ledger records. Every expense mutation
// re-aggregates the affected month's goal total from the ledger, so
// CurrentAmount is always a full SUM rather than an incremental delta.
type LedgerService struct {
	store storage.Store
	now   func() time.Time
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(store storage.Store) *LedgerService {
	return &LedgerService{store: store, now: time.Now}
}

// CreateCategory creates a category for userID. Names are unique per
// user; the category ID comes from the store's global sequence.
func (s *LedgerService) CreateCategory(ctx context.Context, userID int64, name string, expenseType models.ExpenseType) (*models.Category, error) {
	if name == "" {
		return nil, validationf("category name is required")
	}
	if !expenseType.Valid() {
		return nil, validationf("invalid expense type %q", expenseType)
	}

	if _, err := s.store.GetCategoryByName(ctx, userID, name); err == nil {
		return nil, validationf("category %q already exists", name)
	} else if !isMissing(err) {
		return nil, fmt.Errorf("lookup category: %w", err)
	}

	nowMs := s.now().UnixMilli()
	cat := &models.Category{
		UserID:       userID,
		CategoryName: name,
		ExpenseType:  expenseType,
		CreatedAt:    nowMs,
		UpdatedAt:    nowMs,
	}
	if err := s.store.CreateCategory(ctx, cat); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return cat, nil
}

// ListCategories returns all of a user's categories.
func (s *LedgerService) ListCategories(ctx context.Context, userID int64) ([]*models.Category, error) {
	cats, err := s.store.ListCategoriesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// RenameCategory changes a category's display name. Identity (the
// category ID) never changes, so existing ledger rows keep pointing at it.
func (s *LedgerService) RenameCategory(ctx context.Context, userID, categoryID int64, name string) error {
	if name == "" {
		return validationf("category name is required")
	}
	err := s.store.RenameCategory(ctx, userID, categoryID, name, s.now().UnixMilli())
	if err != nil {
		if isMissing(err) {
			return notFoundf("category %d", categoryID)
		}
		return fmt.Errorf("rename category: %w", err)
	}
	return nil
}

// CreateGoalParams carries the fields of a new monthly goal.
type CreateGoalParams struct {
	CategoryID   int64
	ExpenseType  models.ExpenseType
	TargetAmount float64
	Description  string
}

// CreateGoal creates a goal for the current calendar month. A category
// can hold at most one goal per month; the initial CurrentAmount is the
// aggregate of the category's ledger entries already in the month.
func (s *LedgerService) CreateGoal(ctx context.Context, userID int64, params CreateGoalParams) (*models.MonthlyGoal, error) {
	if params.CategoryID == 0 {
		return nil, validationf("categoryId is required")
	}
	if !params.ExpenseType.Valid() {
		return nil, validationf("invalid expense type %q", params.ExpenseType)
	}
	if params.TargetAmount < 0 {
		return nil, validationf("target amount must not be negative")
	}

	now := s.now()
	from, to := monthWindow(now)
	if _, err := s.store.GetGoalInRange(ctx, userID, params.CategoryID, from, to); err == nil {
		return nil, validationf("goal for category %d already exists this month", params.CategoryID)
	} else if !isMissing(err) {
		return nil, fmt.Errorf("lookup goal: %w", err)
	}

	current, err := s.store.SumExpenseAmount(ctx, userID, params.CategoryID, from, to)
	if err != nil {
		return nil, fmt.Errorf("aggregate ledger: %w", err)
	}

	nowMs := now.UnixMilli()
	goal := &models.MonthlyGoal{
		UserID:        userID,
		CategoryID:    params.CategoryID,
		ExpenseType:   params.ExpenseType,
		TargetAmount:  params.TargetAmount,
		CurrentAmount: current,
		Description:   params.Description,
		CreatedAt:     nowMs,
		UpdatedAt:     nowMs,
	}
	if err := s.store.CreateGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("create goal: %w", err)
	}
	return goal, nil
}

// ListGoals returns a user's goals, newest first, optionally bounded by a
// [from, to) creation range. Zero bounds are open.
func (s *LedgerService) ListGoals(ctx context.Context, userID, from, to int64) ([]*models.MonthlyGoal, error) {
	goals, err := s.store.ListGoalsByUser(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// UpdateGoalParams carries the mutable fields of a goal. Nil fields are
// left unchanged.
type UpdateGoalParams struct {
	TargetAmount *float64
	Description  *string
}

// UpdateGoal updates a goal's target and description. CurrentAmount is
// derived and cannot be set directly.
func (s *LedgerService) UpdateGoal(ctx context.Context, userID, goalID int64, params UpdateGoalParams) (*models.MonthlyGoal, error) {
	goal, err := s.findGoal(ctx, userID, goalID)
	if err != nil {
		return nil, err
	}

	if params.TargetAmount != nil {
		if *params.TargetAmount < 0 {
			return nil, validationf("target amount must not be negative")
		}
		goal.TargetAmount = *params.TargetAmount
	}
	if params.Description != nil {
		goal.Description = *params.Description
	}
	goal.UpdatedAt = s.now().UnixMilli()

	if err := s.store.UpdateGoal(ctx, goal); err != nil {
		if isMissing(err) {
			return nil, notFoundf("goal %d", goalID)
		}
		return nil, fmt.Errorf("update goal: %w", err)
	}
	return goal, nil
}

// DeleteGoal removes a goal. Ledger records are untouched.
func (s *LedgerService) DeleteGoal(ctx context.Context, userID, goalID int64) error {
	if err := s.store.DeleteGoal(ctx, userID, goalID); err != nil {
		if isMissing(err) {
			return notFoundf("goal %d", goalID)
		}
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

func (s *LedgerService) findGoal(ctx context.Context, userID, goalID int64) (*models.MonthlyGoal, error) {
	goals, err := s.store.ListGoalsByUser(ctx, userID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	for _, goal := range goals {
		if goal.ID == goalID {
			return goal, nil
		}
	}
	return nil, notFoundf("goal %d", goalID)
}

// CreateExpenseParams carries the fields of a new personal-ledger record.
type CreateExpenseParams struct {
	CategoryID  int64
	Name        string
	ExpenseType models.ExpenseType
	Amount      float64
	Description string
}

// CreateExpense appends a record to the user's personal ledger and
// refreshes the goal total for the record's month.
func (s *LedgerService) CreateExpense(ctx context.Context, userID int64, params CreateExpenseParams) (*models.PersonalExpense, error) {
	if params.CategoryID == 0 {
		return nil, validationf("categoryId is required")
	}
	if params.Name == "" {
		return nil, validationf("expense name is required")
	}
	if !params.ExpenseType.Valid() {
		return nil, validationf("invalid expense type %q", params.ExpenseType)
	}

	nowMs := s.now().UnixMilli()
	exp := &models.PersonalExpense{
		UserID:      userID,
		CategoryID:  params.CategoryID,
		Name:        params.Name,
		ExpenseType: params.ExpenseType,
		Amount:      params.Amount,
		Description: params.Description,
		CreatedAt:   nowMs,
		UpdatedAt:   nowMs,
	}
	if err := s.store.CreatePersonalExpense(ctx, exp); err != nil {
		return nil, fmt.Errorf("create personal expense: %w", err)
	}

	s.RefreshGoal(ctx, userID, exp.CategoryID, exp.ExpenseType, exp.CreatedAt)
	return exp, nil
}

// ListExpenses returns a user's ledger records, newest first, optionally
// bounded by a [from, to) creation range. Zero bounds are open.
func (s *LedgerService) ListExpenses(ctx context.Context, userID, from, to int64) ([]*models.PersonalExpense, error) {
	expenses, err := s.store.ListPersonalExpenses(ctx, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("list personal expenses: %w", err)
	}
	return expenses, nil
}

// UpdateExpenseParams carries the mutable fields of a ledger record. Nil
// fields are left unchanged.
type UpdateExpenseParams struct {
	CategoryID  *int64
	Name        *string
	ExpenseType *models.ExpenseType
	Amount      *float64
	Description *string
}

// UpdateExpense modifies a ledger record and refreshes every goal the
// change touches. Moving the record to another category refreshes both
// the old and the new category's goals.
func (s *LedgerService) UpdateExpense(ctx context.Context, userID, expenseID int64, params UpdateExpenseParams) (*models.PersonalExpense, error) {
	exp, err := s.store.GetPersonalExpense(ctx, expenseID)
	if err != nil {
		if isMissing(err) {
			return nil, notFoundf("expense %d", expenseID)
		}
		return nil, fmt.Errorf("get personal expense: %w", err)
	}
	if exp.UserID != userID {
		return nil, notFoundf("expense %d", expenseID)
	}

	prevCategory := exp.CategoryID
	prevType := exp.ExpenseType

	if params.CategoryID != nil {
		exp.CategoryID = *params.CategoryID
	}
	if params.Name != nil {
		exp.Name = *params.Name
	}
	if params.ExpenseType != nil {
		if !params.ExpenseType.Valid() {
			return nil, validationf("invalid expense type %q", *params.ExpenseType)
		}
		exp.ExpenseType = *params.ExpenseType
	}
	if params.Amount != nil {
		exp.Amount = *params.Amount
	}
	if params.Description != nil {
		exp.Description = *params.Description
	}
	exp.UpdatedAt = s.now().UnixMilli()

	if err := s.store.UpdatePersonalExpense(ctx, exp); err != nil {
		if isMissing(err) {
			return nil, notFoundf("expense %d", expenseID)
		}
		return nil, fmt.Errorf("update personal expense: %w", err)
	}

	s.RefreshGoal(ctx, userID, exp.CategoryID, exp.ExpenseType, exp.CreatedAt)
	if prevCategory != exp.CategoryID {
		s.RefreshGoal(ctx, userID, prevCategory, prevType, exp.CreatedAt)
	}
	return exp, nil
}

// DeleteExpense removes a ledger record and refreshes its month's goal.
func (s *LedgerService) DeleteExpense(ctx context.Context, userID, expenseID int64) error {
	exp, err := s.store.GetPersonalExpense(ctx, expenseID)
	if err != nil {
		if isMissing(err) {
			return notFoundf("expense %d", expenseID)
		}
		return fmt.Errorf("get personal expense: %w", err)
	}
	if exp.UserID != userID {
		return notFoundf("expense %d", expenseID)
	}

	if err := s.store.DeletePersonalExpense(ctx, expenseID); err != nil {
		if isMissing(err) {
			return notFoundf("expense %d", expenseID)
		}
		return fmt.Errorf("delete personal expense: %w", err)
	}

	s.RefreshGoal(ctx, userID, exp.CategoryID, exp.ExpenseType, exp.CreatedAt)
	return nil
}

// RefreshGoal re-aggregates the goal total for (userID, categoryID) over
// the calendar month containing txCreatedAt and writes it back. A failure
// here leaves the goal stale but never fails the calling operation; it is
// logged so the divergence is visible.
func (s *LedgerService) RefreshGoal(ctx context.Context, userID, categoryID int64, expenseType models.ExpenseType, txCreatedAt int64) {
	from, to := monthWindow(time.UnixMilli(txCreatedAt))
	total, err := s.store.SumExpenseAmount(ctx, userID, categoryID, from, to)
	if err == nil {
		err = s.store.SetGoalCurrentAmount(ctx, userID, categoryID, total, expenseType, s.now().UnixMilli())
	}
	if err != nil {
		slog.Error("Failed to refresh goal total",
			"user_id", userID, "category_id", categoryID,
			"ledger_divergence", true, "error", err)
	}
}
