package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/storage"
)

// CreateSplitGroup persists a new split group, assigning the next value
// of the global group sequence when group.SplitGroupID is zero.
func (s *SQLiteStore) CreateSplitGroup(ctx context.Context, group *models.SplitGroup) error {
	if group.SplitGroupID == 0 {
		id, err := s.ids.Next(ctx, "split_groups", "split_group_id")
		if err != nil {
			return err
		}
		group.SplitGroupID = id
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().UnixMilli()
	}
	if group.UpdatedAt == 0 {
		group.UpdatedAt = group.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO split_groups (split_group_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		group.SplitGroupID, group.Name, group.CreatedAt, group.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split group: %w", err)
	}

	if err := insertGroupMembers(ctx, tx, group.SplitGroupID, group.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetSplitGroup retrieves a group by ID, including its member list.
func (s *SQLiteStore) GetSplitGroup(ctx context.Context, splitGroupID int64) (*models.SplitGroup, error) {
	group := &models.SplitGroup{}
	err := s.db.QueryRowContext(ctx,
		`SELECT split_group_id, name, created_at, updated_at FROM split_groups WHERE split_group_id = ?`,
		splitGroupID,
	).Scan(&group.SplitGroupID, &group.Name, &group.CreatedAt, &group.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split group: %w", err)
	}

	members, err := s.groupMembers(ctx, splitGroupID)
	if err != nil {
		return nil, err
	}
	group.Members = members
	return group, nil
}

// UpdateSplitGroup replaces a group's name and member list.
func (s *SQLiteStore) UpdateSplitGroup(ctx context.Context, group *models.SplitGroup) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE split_groups SET name = ?, updated_at = ? WHERE split_group_id = ?`,
		group.Name, group.UpdatedAt, group.SplitGroupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update split group: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM split_group_members WHERE split_group_id = ?`, group.SplitGroupID)
	if err != nil {
		return fmt.Errorf("failed to clear group members: %w", err)
	}
	if err := insertGroupMembers(ctx, tx, group.SplitGroupID, group.Members); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListSplitGroupsByMember retrieves groups containing userID, newest first.
func (s *SQLiteStore) ListSplitGroupsByMember(ctx context.Context, userID int64) ([]*models.SplitGroup, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT g.split_group_id, g.name, g.created_at, g.updated_at
		 FROM split_groups g
		 JOIN split_group_members m ON m.split_group_id = g.split_group_id
		 WHERE m.user_id = ?
		 ORDER BY g.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list split groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.SplitGroup
	for rows.Next() {
		group := &models.SplitGroup{}
		if err := rows.Scan(&group.SplitGroupID, &group.Name, &group.CreatedAt, &group.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan split group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate split groups: %w", err)
	}

	for _, group := range groups {
		members, err := s.groupMembers(ctx, group.SplitGroupID)
		if err != nil {
			return nil, err
		}
		group.Members = members
	}
	return groups, nil
}

func (s *SQLiteStore) groupMembers(ctx context.Context, splitGroupID int64) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id FROM split_group_members WHERE split_group_id = ? ORDER BY position`,
		splitGroupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	var members []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}
	return members, nil
}

func insertGroupMembers(ctx context.Context, tx *sql.Tx, splitGroupID int64, members []int64) error {
	for i, userID := range members {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO split_group_members (split_group_id, user_id, position) VALUES (?, ?, ?)`,
			splitGroupID, userID, i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}
	return nil
}
