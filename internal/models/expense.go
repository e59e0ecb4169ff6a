package models

// PersonalExpense is one record in a user's personal ledger: a real-world
// expense, income or saving entry against one of the user's categories.
//
// Mirror records generated by the split engine are ordinary rows here,
// distinguished only by CategoryID pointing at a shadow category and by
// their generated Name/Description. SourceSplitExpenseID links a mirror
// back to the split expense that produced it (0 for hand-entered rows).
type PersonalExpense struct {
	ID                   int64       `json:"id"`
	UserID               int64       `json:"userId"`
	CategoryID           int64       `json:"categoryId"`
	Name                 string      `json:"name"`
	ExpenseType          ExpenseType `json:"expenseType"`
	Amount               float64     `json:"amount"`
	Description          string      `json:"description"`
	SourceSplitExpenseID int64       `json:"sourceSplitExpenseId,omitempty"`
	CreatedAt            int64       `json:"createdAt"`
	UpdatedAt            int64       `json:"updatedAt"`
}
