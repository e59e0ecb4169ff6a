package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

const expenseColumns = `id, user_id, category_id, name, expense_type, amount, description, source_split_expense_id, created_at, updated_at`

// CreatePersonalExpense persists a new personal-ledger record.
func (s *SQLiteStore) CreatePersonalExpense(ctx context.Context, exp *models.PersonalExpense) error {
	if exp.CreatedAt == 0 {
		exp.CreatedAt = time.Now().UnixMilli()
	}
	if exp.UpdatedAt == 0 {
		exp.UpdatedAt = exp.CreatedAt
	}

	var source any
	if exp.SourceSplitExpenseID != 0 {
		source = exp.SourceSplitExpenseID
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO personal_expenses (user_id, category_id, name, expense_type, amount, description, source_split_expense_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		exp.UserID, exp.CategoryID, exp.Name, exp.ExpenseType, exp.Amount,
		exp.Description, source, exp.CreatedAt, exp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert personal expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read personal expense id: %w", err)
	}
	exp.ID = id
	return nil
}

// GetPersonalExpense retrieves a personal-ledger record by ID.
func (s *SQLiteStore) GetPersonalExpense(ctx context.Context, id int64) (*models.PersonalExpense, error) {
	return scanPersonalExpense(s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM personal_expenses WHERE id = ?`, id))
}

// ListPersonalExpenses retrieves a user's records, newest first, optionally
// bounded by a [from, to) creation range (zero bounds are open).
func (s *SQLiteStore) ListPersonalExpenses(ctx context.Context, userID, from, to int64) ([]*models.PersonalExpense, error) {
	query := `SELECT ` + expenseColumns + ` FROM personal_expenses WHERE user_id = ?`
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
		return nil, fmt.Errorf("failed to list personal expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.PersonalExpense
	for rows.Next() {
		exp, err := scanPersonalExpenseRows(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, exp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate personal expenses: %w", err)
	}
	return expenses, nil
}

// UpdatePersonalExpense updates a record by ID.
func (s *SQLiteStore) UpdatePersonalExpense(ctx context.Context, exp *models.PersonalExpense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE personal_expenses
		 SET category_id = ?, name = ?, expense_type = ?, amount = ?, description = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		exp.CategoryID, exp.Name, exp.ExpenseType, exp.Amount, exp.Description,
		exp.UpdatedAt, exp.ID, exp.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update personal expense: %w", err)
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

// DeletePersonalExpense removes a record by ID.
func (s *SQLiteStore) DeletePersonalExpense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM personal_expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete personal expense: %w", err)
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

// SumExpenseAmount aggregates personal-expense amounts for
// (userID, categoryID) with CreatedAt in [from, to).
func (s *SQLiteStore) SumExpenseAmount(ctx context.Context, userID, categoryID, from, to int64) (float64, error) {
	var total sql.NullFloat64
	err := s.db.QueryRowContext(ctx,
		`SELECT SUM(amount) FROM personal_expenses
		 WHERE user_id = ? AND category_id = ? AND created_at >= ? AND created_at < ?`,
		userID, categoryID, from, to,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("failed to sum expense amounts: %w", err)
	}
	return total.Float64, nil
}

// FindMirror retrieves the mirror row matching key. When duplicate
// timestamps collide, the oldest inserted row wins (rowid order), which
// mirrors the first-match behavior of the underlying contract.
func (s *SQLiteStore) FindMirror(ctx context.Context, key storage.MirrorKey) (*models.PersonalExpense, error) {
	return scanPersonalExpense(s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+` FROM personal_expenses
		 WHERE user_id = ? AND category_id = ? AND created_at = ?
		 ORDER BY id LIMIT 1`,
		key.UserID, key.CategoryID, key.CreatedAt))
}

// ReassignMirror rewrites the mirror at key with upd's owner, category,
// name, type, amount and description. CreatedAt is preserved so the
// month-window classification of the row does not change.
func (s *SQLiteStore) ReassignMirror(ctx context.Context, key storage.MirrorKey, upd *models.PersonalExpense) error {
	var source any
	if upd.SourceSplitExpenseID != 0 {
		source = upd.SourceSplitExpenseID
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE personal_expenses
		 SET user_id = ?, category_id = ?, name = ?, expense_type = ?, amount = ?, description = ?, source_split_expense_id = ?, updated_at = ?
		 WHERE id = (SELECT id FROM personal_expenses
		             WHERE user_id = ? AND category_id = ? AND created_at = ?
		             ORDER BY id LIMIT 1)`,
		upd.UserID, upd.CategoryID, upd.Name, upd.ExpenseType, upd.Amount,
		upd.Description, source, upd.UpdatedAt,
		key.UserID, key.CategoryID, key.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to reassign mirror: %w", err)
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

// DeleteMirror removes the mirror row matching key.
func (s *SQLiteStore) DeleteMirror(ctx context.Context, key storage.MirrorKey) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM personal_expenses
		 WHERE id = (SELECT id FROM personal_expenses
		             WHERE user_id = ? AND category_id = ? AND created_at = ?
		             ORDER BY id LIMIT 1)`,
		key.UserID, key.CategoryID, key.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to delete mirror: %w", err)
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

func scanPersonalExpense(row *sql.Row) (*models.PersonalExpense, error) {
	exp := &models.PersonalExpense{}
	var source sql.NullInt64
	err := row.Scan(&exp.ID, &exp.UserID, &exp.CategoryID, &exp.Name, &exp.ExpenseType,
		&exp.Amount, &exp.Description, &source, &exp.CreatedAt, &exp.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get personal expense: %w", err)
	}
	exp.SourceSplitExpenseID = source.Int64
	return exp, nil
}

func scanPersonalExpenseRows(rows *sql.Rows) (*models.PersonalExpense, error) {
	exp := &models.PersonalExpense{}
	var source sql.NullInt64
	if err := rows.Scan(&exp.ID, &exp.UserID, &exp.CategoryID, &exp.Name, &exp.ExpenseType,
		&exp.Amount, &exp.Description, &source, &exp.CreatedAt, &exp.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan personal expense: %w", err)
	}
	exp.SourceSplitExpenseID = source.Int64
	return exp, nil
}
