package sqlite

import "database/sql"

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// IMPORTANT: split_groups must be created BEFORE split_group_members and
// split_expenses due to foreign key constraints.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    category_id INTEGER PRIMARY KEY,
    user_id INTEGER NOT NULL,
    category_name TEXT NOT NULL,
    expense_type TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    UNIQUE (user_id, category_name)
);

CREATE TABLE IF NOT EXISTS monthly_goals (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    category_id INTEGER NOT NULL,
    expense_type TEXT NOT NULL,
    target_amount REAL NOT NULL DEFAULT 0,
    current_amount REAL NOT NULL DEFAULT 0,
    description TEXT NOT NULL DEFAULT '',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS personal_expenses (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    category_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    expense_type TEXT NOT NULL,
    amount REAL NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    source_split_expense_id INTEGER,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS split_groups (
    split_group_id INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS split_group_members (
    split_group_id INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (split_group_id, user_id),
    FOREIGN KEY (split_group_id) REFERENCES split_groups(split_group_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS split_expenses (
    split_expense_id INTEGER PRIMARY KEY,
    split_group_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    amount REAL NOT NULL,
    paid_by INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL,
    FOREIGN KEY (split_group_id) REFERENCES split_groups(split_group_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS split_expense_members (
    split_expense_id INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    position INTEGER NOT NULL,
    PRIMARY KEY (split_expense_id, user_id),
    FOREIGN KEY (split_expense_id) REFERENCES split_expenses(split_expense_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS split_activities (
    audit_id INTEGER PRIMARY KEY,
    split_group_id INTEGER NOT NULL,
    user_id INTEGER NOT NULL,
    action TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    timestamp INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_categories_user_id ON categories(user_id);
CREATE INDEX IF NOT EXISTS idx_monthly_goals_user_category ON monthly_goals(user_id, category_id);
CREATE INDEX IF NOT EXISTS idx_personal_expenses_user_category ON personal_expenses(user_id, category_id, created_at);
CREATE INDEX IF NOT EXISTS idx_split_group_members_user_id ON split_group_members(user_id);
CREATE INDEX IF NOT EXISTS idx_split_expenses_group_id ON split_expenses(split_group_id);
CREATE INDEX IF NOT EXISTS idx_split_activities_group_id ON split_activities(split_group_id);
`

// runMigrations executes the schema setup.
func runMigrations(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
