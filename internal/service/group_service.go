package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// GroupService manages split groups and the shadow-category bootstrap
// that keeps every member's personal ledger ready to receive mirror
// records.
type GroupService struct {
	store storage.Store
	names *nameResolver
	now   func() time.Time
}

// NewGroupService creates a new GroupService with the given storage backend.
func NewGroupService(store storage.Store) (*GroupService, error) {
	names, err := newNameResolver(store)
	if err != nil {
		return nil, err
	}
	return &GroupService{store: store, names: names, now: time.Now}, nil
}

// UpdateGroupParams carries the optional fields of a group update.
// A nil Name leaves the name unchanged; a nil Members slice leaves the
// member list unchanged.
type UpdateGroupParams struct {
	Name    *string
	Members []int64
}

// CreateGroup creates a group and bootstraps shadow categories and
// current-month goals for every member. Returns the group with member
// IDs resolved to display names.
func (s *GroupService) CreateGroup(ctx context.Context, name string, members []int64) (*models.SplitGroupView, error) {
	if name == "" {
		return nil, validationf("group name is required")
	}
	if len(members) == 0 {
		return nil, validationf("group must have at least one member")
	}

	now := s.now()
	nowMs := now.UnixMilli()
	group := &models.SplitGroup{
		Name:      name,
		Members:   members,
		CreatedAt: nowMs,
		UpdatedAt: nowMs,
	}
	if err := s.store.CreateSplitGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("create split group: %w", err)
	}

	if err := s.EnsureCategoriesForMembers(ctx, members, now); err != nil {
		// The group row exists; bootstrap failure leaves members without
		// shadow categories until the next membership update.
		slog.Error("Shadow-category bootstrap failed after group create",
			"group_id", group.SplitGroupID, "ledger_divergence", true, "error", err)
	}

	slog.Info("Group created", "group_id", group.SplitGroupID, "members", len(members))
	return s.groupView(ctx, group), nil
}

// UpdateGroup updates a group's name and/or member list and re-runs the
// bootstrap for every member in the resulting list, not just newly-added
// ones. The bootstrap is idempotent so this is safe, merely redundant.
func (s *GroupService) UpdateGroup(ctx context.Context, splitGroupID int64, params UpdateGroupParams) (*models.SplitGroupView, error) {
	group, err := s.store.GetSplitGroup(ctx, splitGroupID)
	if err != nil {
		if isMissing(err) {
			return nil, notFoundf("split group %d", splitGroupID)
		}
		return nil, fmt.Errorf("get split group: %w", err)
	}

	if params.Name != nil {
		group.Name = *params.Name
	}
	if params.Members != nil {
		group.Members = params.Members
	}

	now := s.now()
	group.UpdatedAt = now.UnixMilli()
	if err := s.store.UpdateSplitGroup(ctx, group); err != nil {
		if isMissing(err) {
			return nil, notFoundf("split group %d", splitGroupID)
		}
		return nil, fmt.Errorf("update split group: %w", err)
	}

	if err := s.EnsureCategoriesForMembers(ctx, group.Members, now); err != nil {
		slog.Error("Shadow-category bootstrap failed after group update",
			"group_id", splitGroupID, "ledger_divergence", true, "error", err)
	}

	slog.Info("Group updated", "group_id", splitGroupID, "members", len(group.Members))
	return s.groupView(ctx, group), nil
}

// GetAllGroups returns the groups containing userID, newest first, with
// members resolved to display names.
func (s *GroupService) GetAllGroups(ctx context.Context, userID int64) ([]*models.SplitGroupView, error) {
	if userID == 0 {
		return nil, validationf("userId is required")
	}

	groups, err := s.store.ListSplitGroupsByMember(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list split groups: %w", err)
	}

	views := make([]*models.SplitGroupView, len(groups))
	for i, group := range groups {
		views[i] = s.groupView(ctx, group)
	}
	return views, nil
}

// GetGroup returns one group with members resolved to display names.
func (s *GroupService) GetGroup(ctx context.Context, splitGroupID int64) (*models.SplitGroupView, error) {
	group, err := s.store.GetSplitGroup(ctx, splitGroupID)
	if err != nil {
		if isMissing(err) {
			return nil, notFoundf("split group %d", splitGroupID)
		}
		return nil, fmt.Errorf("get split group: %w", err)
	}
	return s.groupView(ctx, group), nil
}

// EnsureCategoriesForMembers runs the shadow-category bootstrap for each
// user in a single pass. For every user and every shadow category it
// looks up the category by (user, name), creates it with the next global
// category ID when absent, and then ensures a zero-target goal exists for
// the current calendar month. Calling it repeatedly within a month is a
// no-op.
func (s *GroupService) EnsureCategoriesForMembers(ctx context.Context, userIDs []int64, now time.Time) error {
	for _, userID := range userIDs {
		if _, err := s.ensureCategories(ctx, userID, now); err != nil {
			return fmt.Errorf("bootstrap user %d: %w", userID, err)
		}
	}
	return nil
}

// ensureCategories bootstraps one user and returns the mapping from
// shadow-category name to category ID.
func (s *GroupService) ensureCategories(ctx context.Context, userID int64, now time.Time) (map[string]int64, error) {
	nowMs := now.UnixMilli()
	ids := make(map[string]int64, len(shadowCategories))

	for _, shadow := range shadowCategories {
		cat, err := s.store.GetCategoryByName(ctx, userID, shadow.Name)
		switch {
		case err == nil:
		case isMissing(err):
			cat = &models.Category{
				UserID:       userID,
				CategoryName: shadow.Name,
				ExpenseType:  shadow.Type,
				CreatedAt:    nowMs,
				UpdatedAt:    nowMs,
			}
			if err := s.store.CreateCategory(ctx, cat); err != nil {
				return nil, fmt.Errorf("create category %q: %w", shadow.Name, err)
			}
		default:
			return nil, fmt.Errorf("lookup category %q: %w", shadow.Name, err)
		}
		ids[shadow.Name] = cat.CategoryID

		if err := s.ensureGoal(ctx, userID, cat.CategoryID, shadow, now); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// ensureGoal creates a zero-target goal for (user, category) in the
// current calendar month if none exists yet.
func (s *GroupService) ensureGoal(ctx context.Context, userID, categoryID int64, shadow shadowCategory, now time.Time) error {
	from, to := monthWindow(now)
	_, err := s.store.GetGoalInRange(ctx, userID, categoryID, from, to)
	if err == nil {
		return nil
	}
	if !isMissing(err) {
		return fmt.Errorf("lookup goal for category %d: %w", categoryID, err)
	}

	nowMs := now.UnixMilli()
	goal := &models.MonthlyGoal{
		UserID:      userID,
		CategoryID:  categoryID,
		ExpenseType: shadow.Type,
		Description: shadow.GoalDescription,
		CreatedAt:   nowMs,
		UpdatedAt:   nowMs,
	}
	if err := s.store.CreateGoal(ctx, goal); err != nil {
		return fmt.Errorf("create goal for category %d: %w", categoryID, err)
	}
	return nil
}

func (s *GroupService) groupView(ctx context.Context, group *models.SplitGroup) *models.SplitGroupView {
	return &models.SplitGroupView{
		SplitGroupID: group.SplitGroupID,
		Name:         group.Name,
		Members:      s.names.Members(ctx, group.Members),
		CreatedAt:    group.CreatedAt,
		UpdatedAt:    group.UpdatedAt,
	}
}
