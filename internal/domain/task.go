package domain

import "time"

// Task is the domain model for a task. SharedWith holds the identifiers of
// the users the task is shared with; IsShared is true exactly when
// SharedWith is non-empty. Sharing grants visibility only, never edit or
// delete rights.
type Task struct {
	ID          int64
	OwnerID     string
	Name        string
	Deadline    time.Time
	IsShared    bool
	IsCompleted bool
	CompletedAt *time.Time
	CreatedAt   time.Time
	SharedWith  []string
}

// IsOwnedBy reports whether the given user owns this task
func (t Task) IsOwnedBy(userID string) bool {
	return t.OwnerID == userID
}

// IsOverdue reports whether the task's deadline has passed without the
// task being completed
func (t Task) IsOverdue(now time.Time) bool {
	return t.Deadline.Before(now) && !t.IsCompleted
}
