package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/splitledger/splitledger/internal/models"
)

// AppendActivity persists a new audit entry, assigning the next value of
// the global audit sequence when entry.AuditID is zero. Entries are
// append-only; there is no update or delete.
func (s *SQLiteStore) AppendActivity(ctx context.Context, entry *models.SplitActivity) error {
	if entry.AuditID == 0 {
		id, err := s.ids.Next(ctx, "split_activities", "audit_id")
		if err != nil {
			return err
		}
		entry.AuditID = id
	}
	if entry.Timestamp == 0 {
		entry.Timestamp = time.Now().UnixMilli()
	}

	desc, err := json.Marshal(entry.Description)
	if err != nil {
		return fmt.Errorf("failed to encode activity description: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO split_activities (audit_id, split_group_id, user_id, action, title, description, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		entry.AuditID, entry.SplitGroupID, entry.UserID, entry.Action,
		entry.Title, string(desc), entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}
	return nil
}

// ListActivitiesByGroup retrieves a group's audit entries, newest first.
func (s *SQLiteStore) ListActivitiesByGroup(ctx context.Context, splitGroupID int64) ([]*models.SplitActivity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT audit_id, split_group_id, user_id, action, title, description, timestamp
		 FROM split_activities WHERE split_group_id = ?
		 ORDER BY timestamp DESC, audit_id DESC`,
		splitGroupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	var entries []*models.SplitActivity
	for rows.Next() {
		entry := &models.SplitActivity{}
		var desc string
		if err := rows.Scan(&entry.AuditID, &entry.SplitGroupID, &entry.UserID,
			&entry.Action, &entry.Title, &desc, &entry.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if err := json.Unmarshal([]byte(desc), &entry.Description); err != nil {
			return nil, fmt.Errorf("failed to decode activity description: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}
	return entries, nil
}
