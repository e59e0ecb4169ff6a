package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

const goalColumns = `id, user_id, category_id, expense_type, target_amount, current_amount, description, created_at, updated_at`

// CreateGoal persists a new monthly goal.
func (s *SQLiteStore) CreateGoal(ctx context.Context, goal *models.MonthlyGoal) error {
	if goal.CreatedAt == 0 {
		goal.CreatedAt = time.Now().UnixMilli()
	}
	if goal.UpdatedAt == 0 {
		goal.UpdatedAt = goal.CreatedAt
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO monthly_goals (user_id, category_id, expense_type, target_amount, current_amount, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.UserID, goal.CategoryID, goal.ExpenseType, goal.TargetAmount,
		goal.CurrentAmount, goal.Description, goal.CreatedAt, goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert goal: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read goal id: %w", err)
	}
	goal.ID = id
	return nil
}

// GetGoalInRange returns the goal for (userID, categoryID) created within
// [from, to). Month membership of a goal is determined by its own
// CreatedAt, there is no separate month column.
func (s *SQLiteStore) GetGoalInRange(ctx context.Context, userID, categoryID, from, to int64) (*models.MonthlyGoal, error) {
	goal := &models.MonthlyGoal{}
	err := s.db.QueryRowContext(ctx,
		`SELECT `+goalColumns+` FROM monthly_goals
		 WHERE user_id = ? AND category_id = ? AND created_at >= ? AND created_at < ?
		 ORDER BY created_at DESC LIMIT 1`,
		userID, categoryID, from, to,
	).Scan(&goal.ID, &goal.UserID, &goal.CategoryID, &goal.ExpenseType,
		&goal.TargetAmount, &goal.CurrentAmount, &goal.Description,
		&goal.CreatedAt, &goal.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return goal, nil
}

// ListGoalsByUser retrieves a user's goals, newest first, optionally
// bounded by a [from, to) creation range (zero bounds are open).
func (s *SQLiteStore) ListGoalsByUser(ctx context.Context, userID, from, to int64) ([]*models.MonthlyGoal, error) {
	query := `SELECT ` + goalColumns + ` FROM monthly_goals WHERE user_id = ?`
	args := []any{userID}
	if from > 0 {
		query += ` AND created_at >= ?`
		args = append(args, from)
	}
	if to > 0 {
		query += ` AND created_at < ?`
		args = append(args, to)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []*models.MonthlyGoal
	for rows.Next() {
		goal := &models.MonthlyGoal{}
		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.CategoryID, &goal.ExpenseType,
			&goal.TargetAmount, &goal.CurrentAmount, &goal.Description,
			&goal.CreatedAt, &goal.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, goal)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}
	return goals, nil
}

// UpdateGoal updates a goal's target amount, type and description. The
// update is scoped to goal.UserID so users cannot touch each other's goals.
func (s *SQLiteStore) UpdateGoal(ctx context.Context, goal *models.MonthlyGoal) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE monthly_goals
		 SET expense_type = ?, target_amount = ?, description = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		goal.ExpenseType, goal.TargetAmount, goal.Description, goal.UpdatedAt, goal.ID, goal.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetGoalCurrentAmount writes a re-aggregated current amount to the most
// recent goal for (userID, categoryID), creating a zero-target goal if
// the pair has none yet (upsert, matching the reconciliation contract).
func (s *SQLiteStore) SetGoalCurrentAmount(ctx context.Context, userID, categoryID int64, current float64, expenseType models.ExpenseType, now int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE monthly_goals SET current_amount = ?, updated_at = ?
		 WHERE id = (SELECT id FROM monthly_goals WHERE user_id = ? AND category_id = ?
		             ORDER BY created_at DESC LIMIT 1)`,
		current, now, userID, categoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to set goal current amount: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n > 0 {
		return nil
	}

	goal := &models.MonthlyGoal{
		UserID:        userID,
		CategoryID:    categoryID,
		ExpenseType:   expenseType,
		TargetAmount:  0,
		CurrentAmount: current,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return s.CreateGoal(ctx, goal)
}

// DeleteGoal removes a goal by ID, scoped to its owner.
func (s *SQLiteStore) DeleteGoal(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM monthly_goals WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete goal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}
