package models

// ActivityAction identifies the kind of mutation an audit entry records.
type ActivityAction string

const (
	ActionCreateExpense  ActivityAction = "CREATE_EXPENSE"
	ActionUpdateExpense  ActivityAction = "UPDATE_EXPENSE"
	ActionDeleteExpense  ActivityAction = "DELETE_EXPENSE"
	ActionCreateSettleUp ActivityAction = "CREATE_SETTLE_UP"
	ActionUpdateSettleUp ActivityAction = "UPDATE_SETTLE_UP"
	ActionDeleteSettleUp ActivityAction = "DELETE_SETTLE_UP"
)

// SplitActivity is one append-only audit entry describing a human-visible
// change to a split expense or settle-up. Entries are never mutated or
// deleted, and one is produced per mutating operation only when there is
// a non-trivial delta to report.
type SplitActivity struct {
	AuditID      int64          `json:"auditId"`
	SplitGroupID int64          `json:"splitGroupId"`
	UserID       int64          `json:"userId"`
	Action       ActivityAction `json:"action"`
	Title        string         `json:"title"`
	Description  []string       `json:"description"`
	Timestamp    int64          `json:"timestamp"`
}

// SplitActivityView is an audit entry enriched with resolved user and
// group display names.
type SplitActivityView struct {
	SplitActivity
	UserName  string `json:"userName"`
	GroupName string `json:"groupName"`
}
