package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateUser assigns ID and lookups work", func(t *testing.T) {
		user := models.NewUser("alice@example.com", "Alice", "hash")
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if user.ID == 0 {
			t.Error("Expected user ID to be assigned")
		}

		byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if byEmail.ID != user.ID || byEmail.Name != "Alice" {
			t.Errorf("Got user %+v, want ID=%d Name=Alice", byEmail, user.ID)
		}

		if _, err := store.GetUserByID(ctx, 9999); err != storage.ErrNotFound {
			t.Errorf("Expected ErrNotFound for missing user, got %v", err)
		}
	})

	t.Run("Category IDs are globally monotonic across users", func(t *testing.T) {
		a := &models.Category{UserID: 1, CategoryName: "Food", ExpenseType: models.TypeExpense}
		b := &models.Category{UserID: 2, CategoryName: "Food", ExpenseType: models.TypeExpense}
		if err := store.CreateCategory(ctx, a); err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}
		if err := store.CreateCategory(ctx, b); err != nil {
			t.Fatalf("CreateCategory failed: %v", err)
		}
		if b.CategoryID != a.CategoryID+1 {
			t.Errorf("Expected sequential IDs, got %d then %d", a.CategoryID, b.CategoryID)
		}

		got, err := store.GetCategoryByName(ctx, 2, "Food")
		if err != nil {
			t.Fatalf("GetCategoryByName failed: %v", err)
		}
		if got.CategoryID != b.CategoryID {
			t.Errorf("Got category %d, want %d", got.CategoryID, b.CategoryID)
		}
	})

	t.Run("GetGoalInRange respects window bounds", func(t *testing.T) {
		goal := &models.MonthlyGoal{
			UserID: 1, CategoryID: 100, ExpenseType: models.TypeExpense,
			TargetAmount: 500, CreatedAt: 5000, UpdatedAt: 5000,
		}
		if err := store.CreateGoal(ctx, goal); err != nil {
			t.Fatalf("CreateGoal failed: %v", err)
		}

		if _, err := store.GetGoalInRange(ctx, 1, 100, 4000, 6000); err != nil {
			t.Errorf("Expected goal inside window, got %v", err)
		}
		if _, err := store.GetGoalInRange(ctx, 1, 100, 6000, 7000); err != storage.ErrNotFound {
			t.Errorf("Expected ErrNotFound outside window, got %v", err)
		}
	})

	t.Run("SetGoalCurrentAmount updates existing goal", func(t *testing.T) {
		if err := store.SetGoalCurrentAmount(ctx, 1, 100, 123.45, models.TypeExpense, 6000); err != nil {
			t.Fatalf("SetGoalCurrentAmount failed: %v", err)
		}
		goal, err := store.GetGoalInRange(ctx, 1, 100, 4000, 6000)
		if err != nil {
			t.Fatalf("GetGoalInRange failed: %v", err)
		}
		if goal.CurrentAmount != 123.45 {
			t.Errorf("CurrentAmount = %v, want 123.45", goal.CurrentAmount)
		}
		if goal.TargetAmount != 500 {
			t.Errorf("TargetAmount = %v, want 500 (unchanged)", goal.TargetAmount)
		}
	})

	t.Run("SetGoalCurrentAmount creates zero-target goal when absent", func(t *testing.T) {
		if err := store.SetGoalCurrentAmount(ctx, 7, 700, 42, models.TypeIncome, 8000); err != nil {
			t.Fatalf("SetGoalCurrentAmount failed: %v", err)
		}
		goal, err := store.GetGoalInRange(ctx, 7, 700, 7000, 9000)
		if err != nil {
			t.Fatalf("Expected upserted goal, got %v", err)
		}
		if goal.TargetAmount != 0 || goal.CurrentAmount != 42 {
			t.Errorf("Got target=%v current=%v, want 0 and 42", goal.TargetAmount, goal.CurrentAmount)
		}
	})

	t.Run("SumExpenseAmount aggregates within range only", func(t *testing.T) {
		rows := []*models.PersonalExpense{
			{UserID: 3, CategoryID: 50, Name: "a", ExpenseType: models.TypeExpense, Amount: 10, CreatedAt: 1000, UpdatedAt: 1000},
			{UserID: 3, CategoryID: 50, Name: "b", ExpenseType: models.TypeExpense, Amount: 20, CreatedAt: 2000, UpdatedAt: 2000},
			{UserID: 3, CategoryID: 50, Name: "c", ExpenseType: models.TypeExpense, Amount: 40, CreatedAt: 9000, UpdatedAt: 9000},
		}
		for _, exp := range rows {
			if err := store.CreatePersonalExpense(ctx, exp); err != nil {
				t.Fatalf("CreatePersonalExpense failed: %v", err)
			}
		}

		total, err := store.SumExpenseAmount(ctx, 3, 50, 1000, 3000)
		if err != nil {
			t.Fatalf("SumExpenseAmount failed: %v", err)
		}
		if total != 30 {
			t.Errorf("Sum = %v, want 30", total)
		}

		empty, err := store.SumExpenseAmount(ctx, 3, 51, 0, 99999)
		if err != nil {
			t.Fatalf("SumExpenseAmount failed: %v", err)
		}
		if empty != 0 {
			t.Errorf("Sum of empty category = %v, want 0", empty)
		}
	})

	t.Run("Mirror collision picks oldest row", func(t *testing.T) {
		first := &models.PersonalExpense{
			UserID: 4, CategoryID: 60, Name: "first", ExpenseType: models.TypeExpense,
			Amount: 1, CreatedAt: 7777, UpdatedAt: 7777,
		}
		second := &models.PersonalExpense{
			UserID: 4, CategoryID: 60, Name: "second", ExpenseType: models.TypeExpense,
			Amount: 2, CreatedAt: 7777, UpdatedAt: 7777,
		}
		if err := store.CreatePersonalExpense(ctx, first); err != nil {
			t.Fatalf("CreatePersonalExpense failed: %v", err)
		}
		if err := store.CreatePersonalExpense(ctx, second); err != nil {
			t.Fatalf("CreatePersonalExpense failed: %v", err)
		}

		key := storage.MirrorKey{UserID: 4, CategoryID: 60, CreatedAt: 7777}
		got, err := store.FindMirror(ctx, key)
		if err != nil {
			t.Fatalf("FindMirror failed: %v", err)
		}
		if got.Name != "first" {
			t.Errorf("FindMirror returned %q, want oldest row %q", got.Name, "first")
		}

		if err := store.DeleteMirror(ctx, key); err != nil {
			t.Fatalf("DeleteMirror failed: %v", err)
		}
		remaining, err := store.FindMirror(ctx, key)
		if err != nil {
			t.Fatalf("FindMirror after delete failed: %v", err)
		}
		if remaining.Name != "second" {
			t.Errorf("DeleteMirror removed %q, expected only the oldest row deleted", remaining.Name)
		}
	})

	t.Run("ReassignMirror moves ownership and keeps createdAt", func(t *testing.T) {
		orig := &models.PersonalExpense{
			UserID: 5, CategoryID: 70, Name: "mirror", ExpenseType: models.TypeExpense,
			Amount: 50, CreatedAt: 4242, UpdatedAt: 4242,
		}
		if err := store.CreatePersonalExpense(ctx, orig); err != nil {
			t.Fatalf("CreatePersonalExpense failed: %v", err)
		}

		key := storage.MirrorKey{UserID: 5, CategoryID: 70, CreatedAt: 4242}
		upd := &models.PersonalExpense{
			UserID: 6, CategoryID: 71, Name: "moved", ExpenseType: models.TypeIncome,
			Amount: 50, Description: "new owner", UpdatedAt: 5000,
		}
		if err := store.ReassignMirror(ctx, key, upd); err != nil {
			t.Fatalf("ReassignMirror failed: %v", err)
		}

		moved, err := store.FindMirror(ctx, storage.MirrorKey{UserID: 6, CategoryID: 71, CreatedAt: 4242})
		if err != nil {
			t.Fatalf("FindMirror after reassign failed: %v", err)
		}
		if moved.ExpenseType != models.TypeIncome || moved.Name != "moved" {
			t.Errorf("Reassigned mirror = %+v, want Income/moved", moved)
		}
		if moved.CreatedAt != 4242 {
			t.Errorf("CreatedAt = %d, want preserved 4242", moved.CreatedAt)
		}
	})

	t.Run("Split groups list newest first for member", func(t *testing.T) {
		g1 := &models.SplitGroup{Name: "Old", Members: []int64{1, 2}, CreatedAt: 1000, UpdatedAt: 1000}
		g2 := &models.SplitGroup{Name: "New", Members: []int64{2, 3}, CreatedAt: 2000, UpdatedAt: 2000}
		if err := store.CreateSplitGroup(ctx, g1); err != nil {
			t.Fatalf("CreateSplitGroup failed: %v", err)
		}
		if err := store.CreateSplitGroup(ctx, g2); err != nil {
			t.Fatalf("CreateSplitGroup failed: %v", err)
		}

		groups, err := store.ListSplitGroupsByMember(ctx, 2)
		if err != nil {
			t.Fatalf("ListSplitGroupsByMember failed: %v", err)
		}
		if len(groups) != 2 {
			t.Fatalf("Got %d groups, want 2", len(groups))
		}
		if groups[0].Name != "New" || groups[1].Name != "Old" {
			t.Errorf("Order = [%s, %s], want newest first", groups[0].Name, groups[1].Name)
		}

		only, err := store.ListSplitGroupsByMember(ctx, 3)
		if err != nil {
			t.Fatalf("ListSplitGroupsByMember failed: %v", err)
		}
		if len(only) != 1 || only[0].Name != "New" {
			t.Errorf("User 3 groups = %+v, want only New", only)
		}
	})

	t.Run("Split expense round trip preserves member order", func(t *testing.T) {
		exp := &models.SplitExpense{
			SplitGroupID: 1, Title: "Dinner", Amount: 90, PaidBy: 2,
			SplitBetween: []int64{3, 1, 2},
			CreatedAt:    3000, UpdatedAt: 3000,
		}
		if err := store.CreateSplitExpense(ctx, exp); err != nil {
			t.Fatalf("CreateSplitExpense failed: %v", err)
		}
		if exp.SplitExpenseID == 0 {
			t.Fatal("Expected split expense ID to be assigned")
		}

		got, err := store.GetSplitExpense(ctx, exp.SplitExpenseID)
		if err != nil {
			t.Fatalf("GetSplitExpense failed: %v", err)
		}
		if len(got.SplitBetween) != 3 || got.SplitBetween[0] != 3 || got.SplitBetween[1] != 1 || got.SplitBetween[2] != 2 {
			t.Errorf("SplitBetween = %v, want [3 1 2]", got.SplitBetween)
		}

		if err := store.DeleteSplitExpense(ctx, exp.SplitExpenseID); err != nil {
			t.Fatalf("DeleteSplitExpense failed: %v", err)
		}
		if _, err := store.GetSplitExpense(ctx, exp.SplitExpenseID); err != storage.ErrNotFound {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("Activities append and list newest first", func(t *testing.T) {
		entries := []*models.SplitActivity{
			{SplitGroupID: 9, UserID: 1, Action: models.ActionCreateExpense, Title: "Dinner",
				Description: []string{"line one", "line two"}, Timestamp: 1000},
			{SplitGroupID: 9, UserID: 2, Action: models.ActionDeleteExpense, Title: "Dinner",
				Description: []string{"gone"}, Timestamp: 2000},
		}
		for _, entry := range entries {
			if err := store.AppendActivity(ctx, entry); err != nil {
				t.Fatalf("AppendActivity failed: %v", err)
			}
			if entry.AuditID == 0 {
				t.Error("Expected audit ID to be assigned")
			}
		}

		got, err := store.ListActivitiesByGroup(ctx, 9)
		if err != nil {
			t.Fatalf("ListActivitiesByGroup failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("Got %d activities, want 2", len(got))
		}
		if got[0].Action != models.ActionDeleteExpense {
			t.Errorf("First activity = %s, want newest (DELETE_EXPENSE)", got[0].Action)
		}
		if len(got[1].Description) != 2 || got[1].Description[0] != "line one" {
			t.Errorf("Description = %v, want decoded [line one, line two]", got[1].Description)
		}
	})
}

func TestIDAllocatorSeedsFromExistingRows(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	seeded := &models.Category{CategoryID: 41, UserID: 1, CategoryName: "Seeded", ExpenseType: models.TypeExpense}
	if err := store.CreateCategory(ctx, seeded); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}

	next := &models.Category{UserID: 1, CategoryName: "Next", ExpenseType: models.TypeExpense}
	if err := store.CreateCategory(ctx, next); err != nil {
		t.Fatalf("CreateCategory failed: %v", err)
	}
	if next.CategoryID != 42 {
		t.Errorf("Allocated ID = %d, want 42 (max+1)", next.CategoryID)
	}
}
