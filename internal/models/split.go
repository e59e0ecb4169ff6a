package models

// SettleUpTitle marks a SplitExpense as a settle-up payment rather than a
// shared expense. Settle-ups have exactly one splitBetween entry: the
// receiver.
const SettleUpTitle = "Settle Up"

// SplitExpense is a shared group expense, or a settle-up payment when its
// title equals SettleUpTitle.
type SplitExpense struct {
	// SplitExpenseID is globally unique and monotonically assigned.
	SplitExpenseID int64 `json:"splitExpenseId"`

	// SplitGroupID is the group this expense belongs to.
	SplitGroupID int64 `json:"splitGroupId"`

	// Title is the human-readable name ("Dinner"), or SettleUpTitle.
	Title string `json:"title"`

	// Amount is the full expense amount paid by PaidBy.
	Amount float64 `json:"amount"`

	// PaidBy is the user who paid. For settle-ups this is the sender.
	PaidBy int64 `json:"paidBy"`

	// SplitBetween is the list of users sharing the expense, in request
	// order. For settle-ups it holds exactly the receiver.
	SplitBetween []int64 `json:"splitBetween"`

	// CreatedAt is the Unix millisecond timestamp when the expense was
	// created. Mirror records in the personal ledger share this exact
	// timestamp; it is the mirror-matching key.
	CreatedAt int64 `json:"createdAt"`

	// UpdatedAt is the Unix millisecond timestamp of the last update.
	UpdatedAt int64 `json:"updatedAt"`
}

// IsSettleUp reports whether the expense is a settle-up payment.
func (e *SplitExpense) IsSettleUp() bool {
	return e.Title == SettleUpTitle
}

// Receiver returns the settle-up receiver (first splitBetween entry).
func (e *SplitExpense) Receiver() int64 {
	if len(e.SplitBetween) == 0 {
		return 0
	}
	return e.SplitBetween[0]
}

// SplitExpenseView is a split expense with paidBy/splitBetween resolved
// to display names.
type SplitExpenseView struct {
	SplitExpenseID int64    `json:"splitExpenseId"`
	SplitGroupID   int64    `json:"splitGroupId"`
	Title          string   `json:"title"`
	Amount         float64  `json:"amount"`
	PaidBy         Member   `json:"paidBy"`
	SplitBetween   []Member `json:"splitBetween"`
	CreatedAt      int64    `json:"createdAt"`
	UpdatedAt      int64    `json:"updatedAt"`
}
