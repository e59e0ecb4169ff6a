// Package models defines the core domain models for splitledger.
//
// # Identity
//
// Users, categories, split groups, split expenses and audit entries are
// identified by numeric IDs. Category, group, expense and audit IDs are
// globally monotonic across the whole store (not per user); allocation is
// handled by the storage layer.
//
// # Mirror records
//
// The reconciliation engine materializes split activity into ordinary
// PersonalExpense rows ("mirrors") under one of three per-user shadow
// categories. A mirror is matched back to its split expense by
// (UserID, CategoryID, CreatedAt); SourceSplitExpenseID carries an
// explicit back-reference but is not used for matching, to keep the
// observable contract stable.
//
// # Design principles
//
//  1. Timestamps are Unix milliseconds, set once at creation; month
//     membership of a goal is derived from its own CreatedAt.
//  2. Avoid circular references: relationships are ID fields, not pointers.
//  3. Resolved views (Member, SplitGroupView, ...) are the API-facing
//     shapes with user IDs expanded to display names.
package models
