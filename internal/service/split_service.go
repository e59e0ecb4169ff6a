package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// SplitService is the reconciliation engine: it keeps every member's
// personal ledger consistent with the group's split expenses and
// settle-ups by maintaining mirror records, refreshing goal totals and
// appending audit activity.
//
// Mirror rows are matched by (userId, categoryId, createdAt); a mirror
// always shares the exact creation timestamp of the split expense it
// reflects. A mirror failure after the primary write has succeeded does
// not fail the operation; it is logged with ledger_divergence=true.
type SplitService struct {
	store  storage.Store
	names  *nameResolver
	policy Policy
	now    func() time.Time
}

// NewSplitService creates a new SplitService with the given policy.
func NewSplitService(store storage.Store, policy Policy) (*SplitService, error) {
	names, err := newNameResolver(store)
	if err != nil {
		return nil, err
	}
	return &SplitService{store: store, names: names, policy: policy, now: time.Now}, nil
}

// SplitExpenseParams carries the full field set of a split expense.
// Updates are whole-record replacements, not partial patches.
type SplitExpenseParams struct {
	SplitGroupID int64
	Title        string
	Amount       float64
	PaidBy       int64
	SplitBetween []int64
}

// SettleUpParams carries the field set of a settle-up payment.
type SettleUpParams struct {
	SplitGroupID int64
	From         int64
	To           int64
	Amount       float64
}

// CreateSplitExpense records a shared expense, mirrors it into the
// payer's "Split Expense" category and logs a CREATE_EXPENSE activity.
func (s *SplitService) CreateSplitExpense(ctx context.Context, params SplitExpenseParams) (*models.SplitExpenseView, error) {
	if err := validateSplitExpense(params); err != nil {
		return nil, err
	}

	group, err := s.store.GetSplitGroup(ctx, params.SplitGroupID)
	if err != nil {
		if isMissing(err) {
			return nil, notFoundf("split group %d", params.SplitGroupID)
		}
		return nil, fmt.Errorf("get split group: %w", err)
	}

	now := s.now()
	nowMs := now.UnixMilli()
	exp := &models.SplitExpense{
		SplitGroupID: params.SplitGroupID,
		Title:        params.Title,
		Amount:       params.Amount,
		PaidBy:       params.PaidBy,
		SplitBetween: params.SplitBetween,
		CreatedAt:    nowMs,
		UpdatedAt:    nowMs,
	}
	if err := s.store.CreateSplitExpense(ctx, exp); err != nil {
		return nil, fmt.Errorf("create split expense: %w", err)
	}

	s.writeMirror(ctx, exp, splitExpenseShadow, exp.PaidBy, exp.Title, group.Name, now)

	payer := s.names.UserName(ctx, exp.PaidBy)
	lines := append([]string{
		fmt.Sprintf("%s added %q for ₹%s", payer, exp.Title, formatAmount(exp.Amount)),
	}, s.shareLines(ctx, exp)...)
	s.appendActivity(ctx, exp, models.ActionCreateExpense, exp.PaidBy, lines, nowMs)

	slog.Info("Split expense created",
		"split_expense_id", exp.SplitExpenseID, "group_id", exp.SplitGroupID, "amount", exp.Amount)
	return s.expenseView(ctx, exp), nil
}

// UpdateSplitExpense replaces a split expense's fields, keeps the
// payer's mirror in sync (moving it when the payer changes) and logs an
// UPDATE_EXPENSE activity when the edit has a visible delta.
func (s *SplitService) UpdateSplitExpense(ctx context.Context, splitExpenseID, updatedBy int64, params SplitExpenseParams) (*models.SplitExpenseView, error) {
	if err := validateSplitExpense(params); err != nil {
		return nil, err
	}

	prev, err := s.store.GetSplitExpense(ctx, splitExpenseID)
	if err != nil {
		if isMissing(err) {
			return nil, notFoundf("split expense %d", splitExpenseID)
		}
		return nil, fmt.Errorf("get split expense: %w", err)
	}
	if prev.IsSettleUp() {
		return nil, validationf("split expense %d is a settle-up", splitExpenseID)
	}

	group, err := s.store.GetSplitGroup(ctx, prev.SplitGroupID)
	if err != nil && !isMissing(err) {
		return nil, fmt.Errorf("get split group: %w", err)
	}
	groupName := "Unknown Group"
	if group != nil {
		groupName = group.Name
	}

	now := s.now()
	nowMs := now.UnixMilli()
	exp := &models.SplitExpense{
		SplitExpenseID: splitExpenseID,
		SplitGroupID:   prev.SplitGroupID,
		Title:          params.Title,
		Amount:         params.Amount,
		PaidBy:         params.PaidBy,
		SplitBetween:   params.SplitBetween,
		CreatedAt:      prev.CreatedAt,
		UpdatedAt:      nowMs,
	}
	if err := s.store.UpdateSplitExpense(ctx, exp); err != nil {
		if isMissing(err) {
			return nil, notFoundf("split expense %d", splitExpenseID)
		}
		return nil, fmt.Errorf("update split expense: %w", err)
	}

	if prev.PaidBy == exp.PaidBy {
		s.rewriteMirror(ctx, prev, splitExpenseShadow, exp.PaidBy, exp.Amount, exp.Title, groupName, now)
	} else {
		// The payer changed, so the old payer's mirror moves to the new
		// payer. The old row is dropped and a fresh one is created at
		// the original timestamp.
		s.dropMirror(ctx, prev, splitExpenseShadow, prev.PaidBy, now, true)
		s.writeMirror(ctx, exp, splitExpenseShadow, exp.PaidBy, exp.Title, groupName, now)
	}

	lines := s.expenseDiff(ctx, prev, exp)
	s.appendActivity(ctx, exp, models.ActionUpdateExpense, updatedBy, lines, nowMs)

	slog.Info("Split expense updated",
		"split_expense_id", splitExpenseID, "group_id", exp.SplitGroupID, "delta_lines", len(lines))
	return s.expenseView(ctx, exp), nil
}

// CreateSettleUp records a direct payment from one member to another,
// mirrored as a Settlement Paid expense for the sender and, when the
// receiver differs, a Settlement Received income for the receiver.
func (s *SplitService) CreateSettleUp(ctx context.Context, params SettleUpParams) (*models.SplitExpenseView, error) {
	if err := validateSettleUp(params); err != nil {
		return nil, err
	}

	group, err := s.store.GetSplitGroup(ctx, params.SplitGroupID)
	if err != nil && !isMissing(err) {
		return nil, fmt.Errorf("get split group: %w", err)
	}
	groupName := "Unknown Group"
	if group != nil {
		groupName = group.Name
	}

	now := s.now()
	nowMs := now.UnixMilli()
	exp := &models.SplitExpense{
		SplitGroupID: params.SplitGroupID,
		Title:        models.SettleUpTitle,
		Amount:       params.Amount,
		PaidBy:       params.From,
		SplitBetween: []int64{params.To},
		CreatedAt:    nowMs,
		UpdatedAt:    nowMs,
	}
	if err := s.store.CreateSplitExpense(ctx, exp); err != nil {
		return nil, fmt.Errorf("create settle up: %w", err)
	}

	fromName := s.names.UserName(ctx, params.From)
	toName := s.names.UserName(ctx, params.To)

	s.writeMirror(ctx, exp, settlementPaidShadow, params.From, toName, groupName, now)
	if params.To != params.From {
		s.writeMirror(ctx, exp, settlementReceivedShadow, params.To, fromName, groupName, now)
	}

	line := fmt.Sprintf("%s paid ₹%s to %s", fromName, formatAmount(params.Amount), toName)
	s.appendActivity(ctx, exp, models.ActionCreateSettleUp, params.From, []string{line}, nowMs)

	slog.Info("Settle up created",
		"split_expense_id", exp.SplitExpenseID, "group_id", exp.SplitGroupID,
		"from", params.From, "to", params.To, "amount", params.Amount)
	return s.expenseView(ctx, exp), nil
}

// UpdateSettleUp replaces a settle-up's payer, receiver and amount, and
// transitions the mirror pair so the invariant holds afterwards: the
// payer owns a Settlement Paid mirror and the receiver a Settlement
// Received mirror, both at the original timestamp.
//
// When both sides change the old pair is dropped and a fresh pair
// created. When only one side changes the existing rows are converted
// crosswise: the previous receiver's row becomes the new payer's Paid
// mirror and the previous payer's row becomes the receiver's Received
// mirror. An amount-only change rewrites both rows in place.
func (s *SplitService) UpdateSettleUp(ctx context.Context, splitExpenseID, updatedBy int64, params SettleUpParams) (*models.SplitExpenseView, error) {
	if err := validateSettleUp(params); err != nil {
		return nil, err
	}

	prev, err := s.store.GetSplitExpense(ctx, splitExpenseID)
	if err != nil {
		if isMissing(err) {
			return nil, notFoundf("settle up %d", splitExpenseID)
		}
		return nil, fmt.Errorf("get settle up: %w", err)
	}
	if !prev.IsSettleUp() {
		return nil, validationf("split expense %d is not a settle-up", splitExpenseID)
	}

	prevFrom, prevTo, prevAmount := prev.PaidBy, prev.Receiver(), prev.Amount
	payerChanged := prevFrom != params.From
	receiverChanged := prevTo != params.To
	amountChanged := prevAmount != params.Amount
	bothChanged := payerChanged && receiverChanged

	group, err := s.store.GetSplitGroup(ctx, prev.SplitGroupID)
	if err != nil && !isMissing(err) {
		return nil, fmt.Errorf("get split group: %w", err)
	}
	groupName := "Unknown Group"
	if group != nil {
		groupName = group.Name
	}

	now := s.now()
	nowMs := now.UnixMilli()
	exp := &models.SplitExpense{
		SplitExpenseID: splitExpenseID,
		SplitGroupID:   prev.SplitGroupID,
		Title:          models.SettleUpTitle,
		Amount:         params.Amount,
		PaidBy:         params.From,
		SplitBetween:   []int64{params.To},
		CreatedAt:      prev.CreatedAt,
		UpdatedAt:      nowMs,
	}
	if err := s.store.UpdateSplitExpense(ctx, exp); err != nil {
		if isMissing(err) {
			return nil, notFoundf("settle up %d", splitExpenseID)
		}
		return nil, fmt.Errorf("update settle up: %w", err)
	}

	fromName := s.names.UserName(ctx, params.From)
	toName := s.names.UserName(ctx, params.To)

	switch {
	case bothChanged:
		s.dropMirror(ctx, prev, settlementPaidShadow, prevFrom, now, true)
		if prevTo != prevFrom {
			s.dropMirror(ctx, prev, settlementReceivedShadow, prevTo, now, true)
		}
		s.writeMirror(ctx, exp, settlementPaidShadow, params.From, toName, groupName, now)
		if params.To != params.From {
			s.writeMirror(ctx, exp, settlementReceivedShadow, params.To, fromName, groupName, now)
		}
	case payerChanged, receiverChanged:
		// Crosswise conversion: the previous receiver's Received row
		// becomes the new payer's Paid mirror, and the previous payer's
		// Paid row becomes the receiver's Received mirror.
		s.convertMirror(ctx, prev, exp,
			settlementReceivedShadow, prevTo,
			settlementPaidShadow, params.From, toName, groupName, now)
		s.convertMirror(ctx, prev, exp,
			settlementPaidShadow, prevFrom,
			settlementReceivedShadow, params.To, fromName, groupName, now)
	case amountChanged:
		s.rewriteMirror(ctx, prev, settlementPaidShadow, params.From, params.Amount, toName, groupName, now)
		if params.To != params.From {
			s.rewriteMirror(ctx, prev, settlementReceivedShadow, params.To, params.Amount, fromName, groupName, now)
		}
	}

	var lines []string
	if payerChanged {
		lines = append(lines, fmt.Sprintf("Payer changed from %s to %s",
			s.names.UserName(ctx, prevFrom), fromName))
	}
	if receiverChanged {
		lines = append(lines, fmt.Sprintf("Receiver changed from %s to %s",
			s.names.UserName(ctx, prevTo), toName))
	}
	if amountChanged {
		lines = append(lines, fmt.Sprintf("Amount changed from ₹%s to ₹%s",
			formatAmount(prevAmount), formatAmount(params.Amount)))
	}
	s.appendActivity(ctx, exp, models.ActionUpdateSettleUp, updatedBy, lines, nowMs)

	slog.Info("Settle up updated",
		"split_expense_id", splitExpenseID, "payer_changed", payerChanged,
		"receiver_changed", receiverChanged, "amount_changed", amountChanged)
	return s.expenseView(ctx, exp), nil
}

// DeleteSplitExpense removes a split expense or settle-up together with
// its mirror rows and appends the corresponding delete activity.
func (s *SplitService) DeleteSplitExpense(ctx context.Context, splitExpenseID int64) error {
	exp, err := s.store.GetSplitExpense(ctx, splitExpenseID)
	if err != nil {
		if isMissing(err) {
			return notFoundf("split expense %d", splitExpenseID)
		}
		return fmt.Errorf("get split expense: %w", err)
	}

	if err := s.store.DeleteSplitExpense(ctx, splitExpenseID); err != nil {
		if isMissing(err) {
			return notFoundf("split expense %d", splitExpenseID)
		}
		return fmt.Errorf("delete split expense: %w", err)
	}

	now := s.now()
	nowMs := now.UnixMilli()

	if exp.IsSettleUp() {
		from, to := exp.PaidBy, exp.Receiver()
		s.dropMirror(ctx, exp, settlementPaidShadow, from, now, s.policy.RecomputeGoalsOnDelete)
		if to != from {
			s.dropMirror(ctx, exp, settlementReceivedShadow, to, now, s.policy.RecomputeGoalsOnDelete)
		}

		line := fmt.Sprintf("%s paid ₹%s to %s",
			s.names.UserName(ctx, from), formatAmount(exp.Amount), s.names.UserName(ctx, to))
		s.appendActivity(ctx, exp, models.ActionDeleteSettleUp, from, []string{line}, nowMs)
	} else {
		s.dropMirror(ctx, exp, splitExpenseShadow, exp.PaidBy, now, s.policy.RecomputeGoalsOnDelete)

		payer := s.names.UserName(ctx, exp.PaidBy)
		lines := []string{fmt.Sprintf("%s deleted %q for ₹%s", payer, exp.Title, formatAmount(exp.Amount))}
		share := perHeadShare(exp.Amount, len(exp.SplitBetween))
		for _, member := range exp.SplitBetween {
			if member == exp.PaidBy {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s no longer gets ₹%s from %s",
				payer, share, s.names.UserName(ctx, member)))
		}
		s.appendActivity(ctx, exp, models.ActionDeleteExpense, exp.PaidBy, lines, nowMs)
	}

	slog.Info("Split expense deleted",
		"split_expense_id", splitExpenseID, "settle_up", exp.IsSettleUp())
	return nil
}

// GetExpensesByGroup returns the group's expenses, newest first, with
// paidBy and splitBetween resolved to display names.
func (s *SplitService) GetExpensesByGroup(ctx context.Context, splitGroupID int64) ([]*models.SplitExpenseView, error) {
	if splitGroupID == 0 {
		return nil, validationf("splitGroupId is required")
	}

	expenses, err := s.store.ListSplitExpensesByGroup(ctx, splitGroupID)
	if err != nil {
		return nil, fmt.Errorf("list split expenses: %w", err)
	}

	views := make([]*models.SplitExpenseView, len(expenses))
	for i, exp := range expenses {
		views[i] = s.expenseView(ctx, exp)
	}
	return views, nil
}

// GetSplitActivity returns the group's audit entries, newest first, with
// user and group names resolved.
func (s *SplitService) GetSplitActivity(ctx context.Context, splitGroupID int64) ([]*models.SplitActivityView, error) {
	if splitGroupID == 0 {
		return nil, validationf("splitGroupId is required")
	}

	entries, err := s.store.ListActivitiesByGroup(ctx, splitGroupID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	groupName := "Unknown Group"
	if group, err := s.store.GetSplitGroup(ctx, splitGroupID); err == nil {
		groupName = group.Name
	}

	views := make([]*models.SplitActivityView, len(entries))
	for i, entry := range entries {
		views[i] = &models.SplitActivityView{
			SplitActivity: *entry,
			UserName:      s.names.UserName(ctx, entry.UserID),
			GroupName:     groupName,
		}
	}
	return views, nil
}

func validateSplitExpense(params SplitExpenseParams) error {
	if params.SplitGroupID == 0 {
		return validationf("splitGroupId is required")
	}
	if params.Title == "" {
		return validationf("title is required")
	}
	if params.Title == models.SettleUpTitle {
		return validationf("title %q is reserved", models.SettleUpTitle)
	}
	if params.Amount <= 0 {
		return validationf("amount must be positive")
	}
	if params.PaidBy == 0 {
		return validationf("paidBy is required")
	}
	if len(params.SplitBetween) == 0 {
		return validationf("splitBetween must not be empty")
	}
	return nil
}

func validateSettleUp(params SettleUpParams) error {
	if params.SplitGroupID == 0 {
		return validationf("splitGroupId is required")
	}
	if params.From == 0 || params.To == 0 {
		return validationf("from and to are required")
	}
	if params.Amount <= 0 {
		return validationf("amount must be positive")
	}
	return nil
}

// writeMirror inserts a mirror row for userID in the given shadow
// category at the split expense's creation timestamp. Users without the
// shadow category are skipped, matching the original contract.
func (s *SplitService) writeMirror(ctx context.Context, exp *models.SplitExpense, shadow shadowCategory, userID int64, subject, groupName string, now time.Time) {
	cat, err := s.store.GetCategoryByName(ctx, userID, shadow.Name)
	if err != nil {
		if !isMissing(err) {
			s.logDivergence(exp, "mirror category lookup failed", err)
		}
		return
	}

	mirror := &models.PersonalExpense{
		UserID:               userID,
		CategoryID:           cat.CategoryID,
		Name:                 shadow.MirrorName(groupName),
		ExpenseType:          shadow.Type,
		Amount:               exp.Amount,
		Description:          shadow.MirrorDescription(subject, groupName),
		SourceSplitExpenseID: exp.SplitExpenseID,
		CreatedAt:            exp.CreatedAt,
		UpdatedAt:            now.UnixMilli(),
	}
	if err := s.store.CreatePersonalExpense(ctx, mirror); err != nil {
		s.logDivergence(exp, "mirror create failed", err)
		return
	}

	s.refreshGoal(ctx, userID, cat.CategoryID, shadow.Type, exp.CreatedAt, now)
}

// rewriteMirror updates userID's existing mirror in place: amount,
// generated name and description. The row keeps its owner, category and
// creation timestamp.
func (s *SplitService) rewriteMirror(ctx context.Context, prev *models.SplitExpense, shadow shadowCategory, userID int64, amount float64, subject, groupName string, now time.Time) {
	cat, err := s.store.GetCategoryByName(ctx, userID, shadow.Name)
	if err != nil {
		if !isMissing(err) {
			s.logDivergence(prev, "mirror category lookup failed", err)
		}
		return
	}

	key := storage.MirrorKey{UserID: userID, CategoryID: cat.CategoryID, CreatedAt: prev.CreatedAt}
	upd := &models.PersonalExpense{
		UserID:               userID,
		CategoryID:           cat.CategoryID,
		Name:                 shadow.MirrorName(groupName),
		ExpenseType:          shadow.Type,
		Amount:               amount,
		Description:          shadow.MirrorDescription(subject, groupName),
		SourceSplitExpenseID: prev.SplitExpenseID,
		UpdatedAt:            now.UnixMilli(),
	}
	if err := s.store.ReassignMirror(ctx, key, upd); err != nil {
		if !isMissing(err) {
			s.logDivergence(prev, "mirror update failed", err)
		}
		return
	}

	s.refreshGoal(ctx, userID, cat.CategoryID, shadow.Type, prev.CreatedAt, now)
}

// convertMirror reassigns the mirror owned by (oldUser, oldShadow) to
// (newUser, newShadow), rewriting name, type, amount and description.
// Either side missing its shadow category skips the conversion.
func (s *SplitService) convertMirror(ctx context.Context, prev, exp *models.SplitExpense, oldShadow shadowCategory, oldUser int64, newShadow shadowCategory, newUser int64, subject, groupName string, now time.Time) {
	oldCat, err := s.store.GetCategoryByName(ctx, oldUser, oldShadow.Name)
	if err != nil {
		if !isMissing(err) {
			s.logDivergence(prev, "mirror category lookup failed", err)
		}
		return
	}
	newCat, err := s.store.GetCategoryByName(ctx, newUser, newShadow.Name)
	if err != nil {
		if !isMissing(err) {
			s.logDivergence(prev, "mirror category lookup failed", err)
		}
		return
	}

	key := storage.MirrorKey{UserID: oldUser, CategoryID: oldCat.CategoryID, CreatedAt: prev.CreatedAt}
	upd := &models.PersonalExpense{
		UserID:               newUser,
		CategoryID:           newCat.CategoryID,
		Name:                 newShadow.MirrorName(groupName),
		ExpenseType:          newShadow.Type,
		Amount:               exp.Amount,
		Description:          newShadow.MirrorDescription(subject, groupName),
		SourceSplitExpenseID: prev.SplitExpenseID,
		UpdatedAt:            now.UnixMilli(),
	}
	if err := s.store.ReassignMirror(ctx, key, upd); err != nil {
		if !isMissing(err) {
			s.logDivergence(prev, "mirror conversion failed", err)
		}
		return
	}

	s.refreshGoal(ctx, newUser, newCat.CategoryID, newShadow.Type, prev.CreatedAt, now)
	if oldUser != newUser || oldCat.CategoryID != newCat.CategoryID {
		s.refreshGoal(ctx, oldUser, oldCat.CategoryID, oldShadow.Type, prev.CreatedAt, now)
	}
}

// dropMirror deletes userID's mirror in the given shadow category at the
// expense's creation timestamp. Drops that move a mirror to another user
// pass recompute=true so the departing side's goal is re-summed; drops
// from an expense delete gate the recompute by policy.
func (s *SplitService) dropMirror(ctx context.Context, exp *models.SplitExpense, shadow shadowCategory, userID int64, now time.Time, recompute bool) {
	cat, err := s.store.GetCategoryByName(ctx, userID, shadow.Name)
	if err != nil {
		if !isMissing(err) {
			s.logDivergence(exp, "mirror category lookup failed", err)
		}
		return
	}

	key := storage.MirrorKey{UserID: userID, CategoryID: cat.CategoryID, CreatedAt: exp.CreatedAt}
	if err := s.store.DeleteMirror(ctx, key); err != nil {
		if !isMissing(err) {
			s.logDivergence(exp, "mirror delete failed", err)
		}
		return
	}

	if recompute {
		s.refreshGoal(ctx, userID, cat.CategoryID, shadow.Type, exp.CreatedAt, now)
	}
}

// refreshGoal re-aggregates the goal total for (userID, categoryID) over
// the policy's window and writes it back. Failures leave the goal stale
// but never fail the calling operation.
func (s *SplitService) refreshGoal(ctx context.Context, userID, categoryID int64, expenseType models.ExpenseType, txCreatedAt int64, now time.Time) {
	from, to := s.policy.recomputeWindow(now, txCreatedAt)
	total, err := s.store.SumExpenseAmount(ctx, userID, categoryID, from, to)
	if err == nil {
		err = s.store.SetGoalCurrentAmount(ctx, userID, categoryID, total, expenseType, now.UnixMilli())
	}
	if err != nil {
		slog.Error("Failed to refresh goal total",
			"user_id", userID, "category_id", categoryID,
			"ledger_divergence", true, "error", err)
	}
}

// expenseDiff builds the human-readable delta between two versions of a
// split expense: title change, membership changes and per-member shares
// when the amount or member set changed. An empty result means the edit
// had no visible effect.
func (s *SplitService) expenseDiff(ctx context.Context, prev, next *models.SplitExpense) []string {
	var lines []string

	if prev.Title != next.Title {
		lines = append(lines, fmt.Sprintf("Changed title from %q to %q", prev.Title, next.Title))
	}

	added, removed := diffMembers(prev.SplitBetween, next.SplitBetween)
	if len(added) > 0 {
		lines = append(lines, "Added members: "+s.joinNames(ctx, added))
	}
	if len(removed) > 0 {
		lines = append(lines, "Removed members: "+s.joinNames(ctx, removed))
	}

	if prev.Amount != next.Amount || len(added) > 0 || len(removed) > 0 {
		lines = append(lines, s.shareLines(ctx, next)...)
	}
	return lines
}

// shareLines renders the equal per-head share owed to the payer by each
// non-payer member.
func (s *SplitService) shareLines(ctx context.Context, exp *models.SplitExpense) []string {
	payer := s.names.UserName(ctx, exp.PaidBy)
	share := perHeadShare(exp.Amount, len(exp.SplitBetween))

	var lines []string
	for _, member := range exp.SplitBetween {
		if member == exp.PaidBy {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s gets ₹%s from %s",
			payer, share, s.names.UserName(ctx, member)))
	}
	return lines
}

func (s *SplitService) joinNames(ctx context.Context, userIDs []int64) string {
	out := ""
	for i, id := range userIDs {
		if i > 0 {
			out += ", "
		}
		out += s.names.UserName(ctx, id)
	}
	return out
}

// diffMembers computes the set difference between two member lists,
// preserving the order of the list each entry came from.
func diffMembers(prev, next []int64) (added, removed []int64) {
	in := func(list []int64, id int64) bool {
		for _, v := range list {
			if v == id {
				return true
			}
		}
		return false
	}
	for _, id := range next {
		if !in(prev, id) {
			added = append(added, id)
		}
	}
	for _, id := range prev {
		if !in(next, id) {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// appendActivity writes one audit entry, skipping empty deltas. Audit
// failures never fail the primary operation.
func (s *SplitService) appendActivity(ctx context.Context, exp *models.SplitExpense, action models.ActivityAction, userID int64, lines []string, nowMs int64) {
	if len(lines) == 0 {
		return
	}
	entry := &models.SplitActivity{
		SplitGroupID: exp.SplitGroupID,
		UserID:       userID,
		Action:       action,
		Title:        exp.Title,
		Description:  lines,
		Timestamp:    nowMs,
	}
	if err := s.store.AppendActivity(ctx, entry); err != nil {
		s.logDivergence(exp, "activity append failed", err)
	}
}

func (s *SplitService) logDivergence(exp *models.SplitExpense, msg string, err error) {
	slog.Error("Ledger reconciliation incomplete: "+msg,
		"split_expense_id", exp.SplitExpenseID, "group_id", exp.SplitGroupID,
		"ledger_divergence", true, "error", err)
}

func (s *SplitService) expenseView(ctx context.Context, exp *models.SplitExpense) *models.SplitExpenseView {
	return &models.SplitExpenseView{
		SplitExpenseID: exp.SplitExpenseID,
		SplitGroupID:   exp.SplitGroupID,
		Title:          exp.Title,
		Amount:         exp.Amount,
		PaidBy:         models.Member{UserID: exp.PaidBy, Name: s.names.UserName(ctx, exp.PaidBy)},
		SplitBetween:   s.names.Members(ctx, exp.SplitBetween),
		CreatedAt:      exp.CreatedAt,
		UpdatedAt:      exp.UpdatedAt,
	}
}
