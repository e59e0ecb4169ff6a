package service

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// monthWindow returns the [start, end) Unix millisecond bounds of the
// calendar month containing t. Computed in UTC so window classification
// does not depend on server locale.
func monthWindow(t time.Time) (from, to int64) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start.UnixMilli(), start.AddDate(0, 1, 0).UnixMilli()
}

// Policy controls the reconciliation behaviors the source system left
// implicit, so each can be toggled instead of hardcoded.
type Policy struct {
	// RecomputeGoalsOnDelete re-aggregates affected goals when a split
	// expense or settle-up is deleted. The source system never did this
	// (asymmetric with create/update); default is off for parity.
	RecomputeGoalsOnDelete bool

	// GoalWindowFromTransaction computes goal-recompute windows from the
	// transaction's own timestamp instead of the wall clock. The source
	// always used the current calendar month; default is off for parity.
	GoalWindowFromTransaction bool
}

// DefaultPolicy matches the observable behavior of the source system.
func DefaultPolicy() Policy {
	return Policy{}
}

// recomputeWindow picks the goal window per policy: the month of txCreated
// when GoalWindowFromTransaction is set, otherwise the month of now.
func (p Policy) recomputeWindow(now time.Time, txCreated int64) (int64, int64) {
	if p.GoalWindowFromTransaction {
		return monthWindow(time.UnixMilli(txCreated))
	}
	return monthWindow(now)
}

// formatAmount renders an amount the way the clients display it: no
// trailing zeros, no fixed precision ("50", "33.33").
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

// perHeadShare computes the equal share of amount across n participants,
// rounded to 2 decimals, rendered with fixed precision ("33.33", "50.00").
func perHeadShare(amount float64, n int) string {
	return decimal.NewFromFloat(amount).
		Div(decimal.NewFromInt(int64(n))).
		Round(2).
		StringFixed(2)
}
