package models

// ExpenseType classifies a personal-expense record or goal.
type ExpenseType string

const (
	TypeExpense ExpenseType = "Expense"
	TypeIncome  ExpenseType = "Income"
	TypeSaving  ExpenseType = "Saving"
)

// Valid reports whether t is one of the known expense types.
func (t ExpenseType) Valid() bool {
	switch t {
	case TypeExpense, TypeIncome, TypeSaving:
		return true
	}
	return false
}

// Category is a per-user named expense category.
//
// CategoryID is unique across the whole store: the allocator hands out a
// single monotonic sequence shared by all users. Identity is immutable
// once created; only the name may be changed.
type Category struct {
	UserID       int64       `json:"userId"`
	CategoryID   int64       `json:"categoryId"`
	CategoryName string      `json:"categoryName"`
	ExpenseType  ExpenseType `json:"expenseType"`
	CreatedAt    int64       `json:"createdAt"`
	UpdatedAt    int64       `json:"updatedAt"`
}

// MonthlyGoal is a per-user-per-category budget goal.
//
// There is one conceptual goal per (user, category, calendar month); the
// month is the one containing CreatedAt, there is no separate month
// column. CurrentAmount is derived: it is re-aggregated from the
// personal-expense ledger after every mutation that could affect it, not
// maintained transactionally.
type MonthlyGoal struct {
	ID            int64       `json:"id"`
	UserID        int64       `json:"userId"`
	CategoryID    int64       `json:"categoryId"`
	ExpenseType   ExpenseType `json:"expenseType"`
	TargetAmount  float64     `json:"targetAmount"`
	CurrentAmount float64     `json:"currentAmount"`
	Description   string      `json:"description"`
	CreatedAt     int64       `json:"createdAt"`
	UpdatedAt     int64       `json:"updatedAt"`
}
