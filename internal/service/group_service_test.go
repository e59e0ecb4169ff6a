package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
	"github.com/splitledger/splitledger/internal/storage/sqlite"
)

// testClock is a controllable time source so mirror timestamps and month
// windows are deterministic in tests.
type testClock struct {
	t time.Time
}

func (c *testClock) Now() time.Time { return c.t }

func (c *testClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) storage.Store {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "splitledger-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	store, err := sqlite.New(filepath.Join(tempDir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// seedUsers creates n users named User1..UserN with sequential IDs.
func seedUsers(t *testing.T, store storage.Store, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= n; i++ {
		user := models.NewUser(
			"user"+string(rune('0'+i))+"@example.com",
			"User"+string(rune('0'+i)),
			"hash",
		)
		if err := store.CreateUser(ctx, user); err != nil {
			t.Fatalf("Failed to seed user %d: %v", i, err)
		}
		if user.ID != int64(i) {
			t.Fatalf("Seeded user got ID %d, want %d", user.ID, i)
		}
	}
}

func newGroupService(t *testing.T, store storage.Store, clock *testClock) *GroupService {
	t.Helper()
	svc, err := NewGroupService(store)
	if err != nil {
		t.Fatalf("Failed to create group service: %v", err)
	}
	svc.now = clock.Now
	return svc
}

func TestCreateGroupBootstrapsShadowCategories(t *testing.T) {
	store := newTestStore(t)
	clock := &testClock{t: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	seedUsers(t, store, 2)
	groups := newGroupService(t, store, clock)
	ctx := context.Background()

	group, err := groups.CreateGroup(ctx, "Trip", []int64{1, 2})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	if group.SplitGroupID == 0 {
		t.Error("Expected group ID to be assigned")
	}
	if len(group.Members) != 2 || group.Members[0].Name != "User1" || group.Members[1].Name != "User2" {
		t.Errorf("Members = %+v, want resolved User1, User2", group.Members)
	}

	for userID := int64(1); userID <= 2; userID++ {
		cats, err := store.ListCategoriesByUser(ctx, userID)
		if err != nil {
			t.Fatalf("ListCategoriesByUser failed: %v", err)
		}
		if len(cats) != 3 {
			t.Fatalf("User %d has %d categories, want 3", userID, len(cats))
		}

		byName := map[string]models.ExpenseType{}
		for _, cat := range cats {
			byName[cat.CategoryName] = cat.ExpenseType
		}
		if byName["Split Expense"] != models.TypeExpense {
			t.Errorf("Split Expense type = %s, want Expense", byName["Split Expense"])
		}
		if byName["Settlement Paid"] != models.TypeExpense {
			t.Errorf("Settlement Paid type = %s, want Expense", byName["Settlement Paid"])
		}
		if byName["Settlement Received"] != models.TypeIncome {
			t.Errorf("Settlement Received type = %s, want Income", byName["Settlement Received"])
		}

		goals, err := store.ListGoalsByUser(ctx, userID, 0, 0)
		if err != nil {
			t.Fatalf("ListGoalsByUser failed: %v", err)
		}
		if len(goals) != 3 {
			t.Fatalf("User %d has %d goals, want 3", userID, len(goals))
		}
		for _, goal := range goals {
			if goal.TargetAmount != 0 {
				t.Errorf("Bootstrap goal target = %v, want 0", goal.TargetAmount)
			}
		}
	}
}

func TestBootstrapIsIdempotentWithinMonth(t *testing.T) {
	store := newTestStore(t)
	clock := &testClock{t: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	seedUsers(t, store, 1)
	groups := newGroupService(t, store, clock)
	ctx := context.Background()

	if err := groups.EnsureCategoriesForMembers(ctx, []int64{1}, clock.Now()); err != nil {
		t.Fatalf("First bootstrap failed: %v", err)
	}

	clock.Advance(48 * time.Hour)
	if err := groups.EnsureCategoriesForMembers(ctx, []int64{1}, clock.Now()); err != nil {
		t.Fatalf("Second bootstrap failed: %v", err)
	}

	cats, err := store.ListCategoriesByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListCategoriesByUser failed: %v", err)
	}
	if len(cats) != 3 {
		t.Errorf("Got %d categories after repeat bootstrap, want 3", len(cats))
	}

	goals, err := store.ListGoalsByUser(ctx, 1, 0, 0)
	if err != nil {
		t.Fatalf("ListGoalsByUser failed: %v", err)
	}
	if len(goals) != 3 {
		t.Errorf("Got %d goals after repeat bootstrap, want 3", len(goals))
	}
}

func TestUpdateGroupBootstrapsNewMembers(t *testing.T) {
	store := newTestStore(t)
	clock := &testClock{t: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	seedUsers(t, store, 3)
	groups := newGroupService(t, store, clock)
	ctx := context.Background()

	group, err := groups.CreateGroup(ctx, "Flat", []int64{1, 2})
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	clock.Advance(time.Hour)
	name := "Flatmates"
	updated, err := groups.UpdateGroup(ctx, group.SplitGroupID, UpdateGroupParams{
		Name:    &name,
		Members: []int64{1, 2, 3},
	})
	if err != nil {
		t.Fatalf("UpdateGroup failed: %v", err)
	}
	if updated.Name != "Flatmates" {
		t.Errorf("Name = %q, want Flatmates", updated.Name)
	}
	if len(updated.Members) != 3 || updated.Members[2].Name != "User3" {
		t.Errorf("Members = %+v, want User3 appended", updated.Members)
	}

	cats, err := store.ListCategoriesByUser(ctx, 3)
	if err != nil {
		t.Fatalf("ListCategoriesByUser failed: %v", err)
	}
	if len(cats) != 3 {
		t.Errorf("New member has %d categories, want 3", len(cats))
	}
}

func TestGetAllGroupsNewestFirst(t *testing.T) {
	store := newTestStore(t)
	clock := &testClock{t: time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)}
	seedUsers(t, store, 2)
	groups := newGroupService(t, store, clock)
	ctx := context.Background()

	if _, err := groups.CreateGroup(ctx, "First", []int64{1}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	clock.Advance(time.Minute)
	if _, err := groups.CreateGroup(ctx, "Second", []int64{1, 2}); err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	got, err := groups.GetAllGroups(ctx, 1)
	if err != nil {
		t.Fatalf("GetAllGroups failed: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Second" || got[1].Name != "First" {
		t.Errorf("Groups = %+v, want [Second, First]", got)
	}

	other, err := groups.GetAllGroups(ctx, 2)
	if err != nil {
		t.Fatalf("GetAllGroups failed: %v", err)
	}
	if len(other) != 1 || other[0].Name != "Second" {
		t.Errorf("User 2 groups = %+v, want only Second", other)
	}
}
