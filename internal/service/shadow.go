package service

import (
	"fmt"

	"github.com/splitledger/splitledger/internal/models"
)

// shadowCategory describes one of the three system-created categories
// maintained per user to mirror group-expense activity into the personal
// ledger. The templates reproduce the exact names and descriptions the
// mobile clients expect.
type shadowCategory struct {
	Name            string
	Type            models.ExpenseType
	GoalDescription string
}

var (
	splitExpenseShadow = shadowCategory{
		Name:            "Split Expense",
		Type:            models.TypeExpense,
		GoalDescription: "Default goal for tracking all your expenses made through Splitwise",
	}
	settlementPaidShadow = shadowCategory{
		Name:            "Settlement Paid",
		Type:            models.TypeExpense,
		GoalDescription: "Default goal for tracking planned settlements (payments) in Splitwise",
	}
	settlementReceivedShadow = shadowCategory{
		Name:            "Settlement Received",
		Type:            models.TypeIncome,
		GoalDescription: "Default goal for tracking expected settlements (receipts) in Splitwise",
	}

	// shadowCategories is the bootstrap order for group membership.
	shadowCategories = []shadowCategory{
		splitExpenseShadow,
		settlementPaidShadow,
		settlementReceivedShadow,
	}
)

// MirrorName renders the generated name of a mirror record.
func (c shadowCategory) MirrorName(groupName string) string {
	return fmt.Sprintf("%s - %s", c.Name, groupName)
}

// MirrorDescription renders the generated description of a mirror record.
// subject is the expense title for Split Expense mirrors, and the
// counterparty's display name for settlement mirrors.
func (c shadowCategory) MirrorDescription(subject, groupName string) string {
	switch c.Name {
	case settlementPaidShadow.Name:
		return fmt.Sprintf("You paid %s in %q", subject, groupName)
	case settlementReceivedShadow.Name:
		return fmt.Sprintf("You received from %s in %q", subject, groupName)
	default:
		return fmt.Sprintf("%s — You spent in %q", subject, groupName)
	}
}
