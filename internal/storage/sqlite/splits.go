package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// CreateSplitExpense persists a new split expense, assigning the next
// value of the global expense sequence when exp.SplitExpenseID is zero.
func (s *SQLiteStore) CreateSplitExpense(ctx context.Context, exp *models.SplitExpense) error {
	if exp.SplitExpenseID == 0 {
		id, err := s.ids.Next(ctx, "split_expenses", "split_expense_id")
		if err != nil {
			return err
		}
		exp.SplitExpenseID = id
	}
	if exp.CreatedAt == 0 {
		exp.CreatedAt = time.Now().UnixMilli()
	}
	if exp.UpdatedAt == 0 {
		exp.UpdatedAt = exp.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO split_expenses (split_expense_id, split_group_id, title, amount, paid_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		exp.SplitExpenseID, exp.SplitGroupID, exp.Title, exp.Amount, exp.PaidBy,
		exp.CreatedAt, exp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split expense: %w", err)
	}

	if err := insertSplitMembers(ctx, tx, exp.SplitExpenseID, exp.SplitBetween); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSplitExpense retrieves a split expense by ID with its member list.
func (s *SQLiteStore) GetSplitExpense(ctx context.Context, splitExpenseID int64) (*models.SplitExpense, error) {
	exp := &models.SplitExpense{}
	err := s.db.QueryRowContext(ctx,
		`SELECT split_expense_id, split_group_id, title, amount, paid_by, created_at, updated_at
		 FROM split_expenses WHERE split_expense_id = ?`,
		splitExpenseID,
	).Scan(&exp.SplitExpenseID, &exp.SplitGroupID, &exp.Title, &exp.Amount,
		&exp.PaidBy, &exp.CreatedAt, &exp.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split expense: %w", err)
	}

	members, err := s.splitMembers(ctx, splitExpenseID)
	if err != nil {
		return nil, err
	}
	exp.SplitBetween = members
	return exp, nil
}

// UpdateSplitExpense replaces a split expense's fields and member list.
// CreatedAt is never rewritten; it is the mirror-matching key.
func (s *SQLiteStore) UpdateSplitExpense(ctx context.Context, exp *models.SplitExpense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE split_expenses SET split_group_id = ?, title = ?, amount = ?, paid_by = ?, updated_at = ?
		 WHERE split_expense_id = ?`,
		exp.SplitGroupID, exp.Title, exp.Amount, exp.PaidBy, exp.UpdatedAt, exp.SplitExpenseID,
	)
	if err != nil {
		return fmt.Errorf("failed to update split expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM split_expense_members WHERE split_expense_id = ?`, exp.SplitExpenseID)
	if err != nil {
		return fmt.Errorf("failed to clear split members: %w", err)
	}
	if err := insertSplitMembers(ctx, tx, exp.SplitExpenseID, exp.SplitBetween); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteSplitExpense removes a split expense by ID.
func (s *SQLiteStore) DeleteSplitExpense(ctx context.Context, splitExpenseID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM split_expenses WHERE split_expense_id = ?`, splitExpenseID)
	if err != nil {
		return fmt.Errorf("failed to delete split expense: %w", err)
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

// ListSplitExpensesByGroup retrieves a group's expenses, newest first.
func (s *SQLiteStore) ListSplitExpensesByGroup(ctx context.Context, splitGroupID int64) ([]*models.SplitExpense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT split_expense_id, split_group_id, title, amount, paid_by, created_at, updated_at
		 FROM split_expenses WHERE split_group_id = ?
		 ORDER BY created_at DESC, split_expense_id DESC`,
		splitGroupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list split expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.SplitExpense
	for rows.Next() {
		exp := &models.SplitExpense{}
		if err := rows.Scan(&exp.SplitExpenseID, &exp.SplitGroupID, &exp.Title,
			&exp.Amount, &exp.PaidBy, &exp.CreatedAt, &exp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan split expense: %w", err)
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split expenses: %w", err)
	}

	for _, exp := range expenses {
		members, err := s.splitMembers(ctx, exp.SplitExpenseID)
		if err != nil {
			return nil, err
		}
		exp.SplitBetween = members
	}
	return expenses, nil
}

func (s *SQLiteStore) splitMembers(ctx context.Context, splitExpenseID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id FROM split_expense_members WHERE split_expense_id = ? ORDER BY position`,
		splitExpenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get split members: %w", err)
	}
	defer rows.Close()

	var members []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan split member: %w", err)
		}
		members = append(members, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split members: %w", err)
	}
	return members, nil
}

func insertSplitMembers(ctx context.Context, tx *sql.Tx, splitExpenseID int64, members []int64) error {
	for i, userID := range members {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO split_expense_members (split_expense_id, user_id, position) VALUES (?, ?, ?)`,
			splitExpenseID, userID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split member: %w", err)
		}
	}
	return nil
}
