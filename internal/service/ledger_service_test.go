package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/splitledger/splitledger/internal/models"
)

func newLedgerFixture(t *testing.T) (*LedgerService, *testClock) {
	t.Helper()
	store := newTestStore(t)
	clock := &testClock{t: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	svc := NewLedgerService(store)
	svc.now = clock.Now
	return svc, clock
}

func TestCategoryCRUD(t *testing.T) {
	ledger, _ := newLedgerFixture(t)
	ctx := context.Background()

	cat, err := ledger.CreateCategory(ctx, 1, "Food", models.TypeExpense)
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if cat.CategoryID == 0 {
		t.Error("Expected category ID to be assigned")
	}

	if _, err := ledger.CreateCategory(ctx, 1, "Food", models.TypeExpense); !errors.Is(err, ErrValidation) {
		t.Errorf("Duplicate name error = %v, want ErrValidation", err)
	}

	// Same name is fine for another user
	if _, err := ledger.CreateCategory(ctx, 2, "Food", models.TypeExpense); err != nil {
		t.Errorf("CreateCategory for other user failed: %v", err)
	}

	if err := ledger.RenameCategory(ctx, 1, cat.CategoryID, "Dining"); err != nil {
		t.Fatalf("RenameCategory failed: %v", err)
	}
	cats, err := ledger.ListCategories(ctx, 1)
	if err != nil {
		t.Fatalf("ListCategories failed: %v", err)
	}
	if len(cats) != 1 || cats[0].CategoryName != "Dining" {
		t.Errorf("Categories = %+v, want renamed Dining", cats)
	}
	if cats[0].CategoryID != cat.CategoryID {
		t.Error("Rename must not change the category ID")
	}

	if err := ledger.RenameCategory(ctx, 1, 999, "X"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Rename missing category error = %v, want ErrNotFound", err)
	}
}

func TestExpenseMutationsRefreshGoal(t *testing.T) {
	ledger, clock := newLedgerFixture(t)
	ctx := context.Background()

	cat, err := ledger.CreateCategory(ctx, 1, "Food", models.TypeExpense)
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	goal, err := ledger.CreateGoal(ctx, 1, CreateGoalParams{
		CategoryID:   cat.CategoryID,
		ExpenseType:  models.TypeExpense,
		TargetAmount: 200,
	})
	if err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}
	if goal.CurrentAmount != 0 {
		t.Errorf("Fresh goal current = %v, want 0", goal.CurrentAmount)
	}

	clock.Advance(time.Hour)
	exp, err := ledger.CreateExpense(ctx, 1, CreateExpenseParams{
		CategoryID:  cat.CategoryID,
		Name:        "Lunch",
		ExpenseType: models.TypeExpense,
		Amount:      60,
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	current := func() float64 {
		goals, err := ledger.ListGoals(ctx, 1, 0, 0)
		if err != nil {
			t.Fatalf("ListGoals failed: %v", err)
		}
		if len(goals) != 1 {
			t.Fatalf("Got %d goals, want 1", len(goals))
		}
		return goals[0].CurrentAmount
	}

	if got := current(); got != 60 {
		t.Errorf("Goal current after create = %v, want 60", got)
	}

	clock.Advance(time.Hour)
	amount := 100.0
	if _, err := ledger.UpdateExpense(ctx, 1, exp.ID, UpdateExpenseParams{Amount: &amount}); err != nil {
		t.Fatalf("UpdateExpense failed: %v", err)
	}
	if got := current(); got != 100 {
		t.Errorf("Goal current after update = %v, want 100", got)
	}

	clock.Advance(time.Hour)
	if err := ledger.DeleteExpense(ctx, 1, exp.ID); err != nil {
		t.Fatalf("DeleteExpense failed: %v", err)
	}
	if got := current(); got != 0 {
		t.Errorf("Goal current after delete = %v, want 0", got)
	}
}

func TestExpenseOwnershipEnforced(t *testing.T) {
	ledger, _ := newLedgerFixture(t)
	ctx := context.Background()

	cat, err := ledger.CreateCategory(ctx, 1, "Food", models.TypeExpense)
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	exp, err := ledger.CreateExpense(ctx, 1, CreateExpenseParams{
		CategoryID:  cat.CategoryID,
		Name:        "Lunch",
		ExpenseType: models.TypeExpense,
		Amount:      10,
	})
	if err != nil {
		t.Fatalf("CreateExpense failed: %v", err)
	}

	if err := ledger.DeleteExpense(ctx, 2, exp.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Cross-user delete error = %v, want ErrNotFound", err)
	}
	name := "Hijack"
	if _, err := ledger.UpdateExpense(ctx, 2, exp.ID, UpdateExpenseParams{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Cross-user update error = %v, want ErrNotFound", err)
	}
}

func TestCreateGoalOncePerMonth(t *testing.T) {
	ledger, _ := newLedgerFixture(t)
	ctx := context.Background()

	cat, err := ledger.CreateCategory(ctx, 1, "Travel", models.TypeExpense)
	if err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	params := CreateGoalParams{
		CategoryID:   cat.CategoryID,
		ExpenseType:  models.TypeExpense,
		TargetAmount: 300,
	}
	if _, err := ledger.CreateGoal(ctx, 1, params); err != nil {
		t.Fatalf("CreateGoal failed: %v", err)
	}
	if _, err := ledger.CreateGoal(ctx, 1, params); !errors.Is(err, ErrValidation) {
		t.Errorf("Second goal in month error = %v, want ErrValidation", err)
	}
}
