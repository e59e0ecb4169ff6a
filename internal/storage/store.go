// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/splitledger/splitledger/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// MirrorKey identifies a mirror row in the personal ledger. Mirrors are
// matched by exact creation-timestamp equality, not by foreign key.
type MirrorKey struct {
	UserID     int64
	CategoryID int64
	CreatedAt  int64
}

// Store defines the interface for all persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
type Store interface {
	// Users

	// CreateUser persists a new user; user.ID is populated by the store.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// Categories

	// CreateCategory persists a new category. If cat.CategoryID is zero
	// the store assigns the next value of the global category sequence.
	CreateCategory(ctx context.Context, cat *models.Category) error
	GetCategoryByName(ctx context.Context, userID int64, name string) (*models.Category, error)
	ListCategoriesByUser(ctx context.Context, userID int64) ([]*models.Category, error)
	RenameCategory(ctx context.Context, userID, categoryID int64, name string, updatedAt int64) error

	// Monthly goals

	CreateGoal(ctx context.Context, goal *models.MonthlyGoal) error
	// GetGoalInRange returns the goal for (userID, categoryID) whose
	// CreatedAt falls within [from, to). ErrNotFound if none exists.
	GetGoalInRange(ctx context.Context, userID, categoryID, from, to int64) (*models.MonthlyGoal, error)
	ListGoalsByUser(ctx context.Context, userID, from, to int64) ([]*models.MonthlyGoal, error)
	UpdateGoal(ctx context.Context, goal *models.MonthlyGoal) error
	// SetGoalCurrentAmount writes a freshly aggregated current amount to
	// the goal for (userID, categoryID), creating a zero-target goal if
	// none exists yet.
	SetGoalCurrentAmount(ctx context.Context, userID, categoryID int64, current float64, expenseType models.ExpenseType, now int64) error
	DeleteGoal(ctx context.Context, userID, id int64) error

	// Personal expenses

	CreatePersonalExpense(ctx context.Context, exp *models.PersonalExpense) error
	GetPersonalExpense(ctx context.Context, id int64) (*models.PersonalExpense, error)
	ListPersonalExpenses(ctx context.Context, userID, from, to int64) ([]*models.PersonalExpense, error)
	UpdatePersonalExpense(ctx context.Context, exp *models.PersonalExpense) error
	DeletePersonalExpense(ctx context.Context, id int64) error
	// SumExpenseAmount aggregates personal-expense amounts for
	// (userID, categoryID) with CreatedAt in [from, to).
	SumExpenseAmount(ctx context.Context, userID, categoryID, from, to int64) (float64, error)

	// Mirror operations, keyed by (userID, categoryID, createdAt).

	FindMirror(ctx context.Context, key MirrorKey) (*models.PersonalExpense, error)
	// ReassignMirror rewrites the mirror at key with the owner, category,
	// name, type, amount and description of upd. CreatedAt is preserved.
	ReassignMirror(ctx context.Context, key MirrorKey, upd *models.PersonalExpense) error
	DeleteMirror(ctx context.Context, key MirrorKey) error

	// Split groups

	CreateSplitGroup(ctx context.Context, group *models.SplitGroup) error
	GetSplitGroup(ctx context.Context, splitGroupID int64) (*models.SplitGroup, error)
	UpdateSplitGroup(ctx context.Context, group *models.SplitGroup) error
	// ListSplitGroupsByMember returns groups containing userID, newest first.
	ListSplitGroupsByMember(ctx context.Context, userID int64) ([]*models.SplitGroup, error)

	// Split expenses

	CreateSplitExpense(ctx context.Context, exp *models.SplitExpense) error
	GetSplitExpense(ctx context.Context, splitExpenseID int64) (*models.SplitExpense, error)
	UpdateSplitExpense(ctx context.Context, exp *models.SplitExpense) error
	DeleteSplitExpense(ctx context.Context, splitExpenseID int64) error
	// ListSplitExpensesByGroup returns the group's expenses, newest first.
	ListSplitExpensesByGroup(ctx context.Context, splitGroupID int64) ([]*models.SplitExpense, error)

	// Activity log (append-only)

	AppendActivity(ctx context.Context, entry *models.SplitActivity) error
	// ListActivitiesByGroup returns the group's audit entries, newest first.
	ListActivitiesByGroup(ctx context.Context, splitGroupID int64) ([]*models.SplitActivity, error)

	// Close releases any resources held by the store.
	Close() error
}
