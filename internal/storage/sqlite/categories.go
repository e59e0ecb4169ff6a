package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// CreateCategory persists a new category, assigning the next value of the
// global category sequence when cat.CategoryID is zero.
func (s *SQLiteStore) CreateCategory(ctx context.Context, cat *models.Category) error {
	if cat.CategoryID == 0 {
		id, err := s.ids.Next(ctx, "categories", "category_id")
		if err != nil {
			return err
		}
		cat.CategoryID = id
	}
	if cat.CreatedAt == 0 {
		cat.CreatedAt = time.Now().UnixMilli()
	}
	if cat.UpdatedAt == 0 {
		cat.UpdatedAt = cat.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO categories (category_id, user_id, category_name, expense_type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		cat.CategoryID, cat.UserID, cat.CategoryName, cat.ExpenseType, cat.CreatedAt, cat.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// GetCategoryByName retrieves a category by (user, name).
func (s *SQLiteStore) GetCategoryByName(ctx context.Context, userID int64, name string) (*models.Category, error) {
	cat := &models.Category{}
	err := s.db.QueryRowContext(ctx,
		`SELECT category_id, user_id, category_name, expense_type, created_at, updated_at
		 FROM categories WHERE user_id = ? AND category_name = ?`,
		userID, name,
	).Scan(&cat.CategoryID, &cat.UserID, &cat.CategoryName, &cat.ExpenseType,
		&cat.CreatedAt, &cat.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return cat, nil
}

// ListCategoriesByUser retrieves all of a user's categories, oldest first.
func (s *SQLiteStore) ListCategoriesByUser(ctx context.Context, userID int64) ([]*models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category_id, user_id, category_name, expense_type, created_at, updated_at
		 FROM categories WHERE user_id = ? ORDER BY category_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var cats []*models.Category
	for rows.Next() {
		cat := &models.Category{}
		if err := rows.Scan(&cat.CategoryID, &cat.UserID, &cat.CategoryName,
			&cat.ExpenseType, &cat.CreatedAt, &cat.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		cats = append(cats, cat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return cats, nil
}

// RenameCategory changes a category's display name. Identity is immutable.
func (s *SQLiteStore) RenameCategory(ctx context.Context, userID, categoryID int64, name string, updatedAt int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE categories SET category_name = ?, updated_at = ? WHERE user_id = ? AND category_id = ?`,
		name, updatedAt, userID, categoryID,
	)
	if err != nil {
		return fmt.Errorf("failed to rename category: %w", err)
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
