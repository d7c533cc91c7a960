package sqlite

import "time"

// User represents a registered user row. The identifier doubles as the
// primary key and is mutable; renames cascade through every referencing
// table in one transaction (see UpdateUserProfile).
type User struct {
	ID           string
	PasswordHash string
	Lastname     string
	Firstname    string
	CreatedAt    time.Time
}

// Task represents a task row. IsShared is derived from the task_shares
// edge table and is recomputed in the same transaction as every share-set
// mutation.
type Task struct {
	ID          int64
	UserID      string
	Name        string
	Deadline    time.Time
	IsShared    bool
	IsCompleted bool
	CompletedAt *time.Time // Using pointer to allow NULL values
	CreatedAt   time.Time
}
