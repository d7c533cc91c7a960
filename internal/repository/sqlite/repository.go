package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"taskfollow/internal/errors"
	"taskfollow/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// TaskOrder names a sortable task column
type TaskOrder string

const (
	OrderByDeadline  TaskOrder = "deadline"
	OrderByName      TaskOrder = "name"
	OrderByCreatedAt TaskOrder = "created_at"
)

// orderColumns whitelists the sortable columns; anything else falls back
// to the deadline.
var orderColumns = map[TaskOrder]string{
	OrderByDeadline:  "tasks.deadline",
	OrderByName:      "tasks.name",
	OrderByCreatedAt: "tasks.created_at",
}

// TaskFilter contains all possible task search parameters
type TaskFilter struct {
	OwnerID      *string
	SharedWithID *string
	Completed    *bool
	DueBefore    *time.Time
	DueAfter     *time.Time
	OrderBy      TaskOrder
	Descending   bool
}

// Repository defines the interface for database operations
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	UserExists(ctx context.Context, id string) (bool, error)
	ListUsers(ctx context.Context) ([]*User, error)
	UpdateUserProfile(ctx context.Context, oldID string, user *User) error

	// Follow graph operations
	CreateFollow(ctx context.Context, followerID, followeeID string) error
	DeleteFollow(ctx context.Context, followerID, followeeID string) error
	HasFollow(ctx context.Context, followerID, followeeID string) (bool, error)
	ListFollowees(ctx context.Context, userID string) ([]*User, error)
	ListFollowers(ctx context.Context, userID string) ([]*User, error)

	// Task operations
	CreateTask(ctx context.Context, task *Task, sharedWith []string) error
	GetTask(ctx context.Context, id int64) (*Task, error)
	SearchTasks(ctx context.Context, filter TaskFilter) ([]*Task, error)
	UpdateTask(ctx context.Context, task *Task, sharedWith []string) error
	DeleteTask(ctx context.Context, id int64) error
	CompleteTask(ctx context.Context, id int64, completedAt time.Time) error
	ListTaskShares(ctx context.Context, taskID int64) ([]string, error)

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// Run migrations
	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// CreateUser creates a new user row
func (r *SQLiteRepository) CreateUser(ctx context.Context, user *User) error {
	query := `
	INSERT INTO users (id, password_hash, lastname, firstname, created_at)
	VALUES (?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query, user.ID, user.PasswordHash, user.Lastname, user.Firstname, FormatTimeForDB(user.CreatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return errors.NewConflictError("user", fmt.Sprintf("identifier %q is already taken", user.ID))
		}
		return HandleDatabaseError("create user", err)
	}
	return nil
}

// GetUser retrieves a user by ID
func (r *SQLiteRepository) GetUser(ctx context.Context, id string) (*User, error) {
	query := `
	SELECT id, password_hash, lastname, firstname, created_at
	FROM users
	WHERE id = ?`

	return QuerySingle(ctx, r.db, query, ScanUser, "user", id, id)
}

// UserExists reports whether a user with the given ID exists
func (r *SQLiteRepository) UserExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, HandleDatabaseError("check user exists", err)
	}
	return count > 0, nil
}

// ListUsers retrieves all users ordered by identifier
func (r *SQLiteRepository) ListUsers(ctx context.Context) ([]*User, error) {
	query := `
	SELECT id, password_hash, lastname, firstname, created_at
	FROM users
	ORDER BY id ASC`

	return QueryMultiple(ctx, r.db, query, ScanUsers, "users")
}

// UpdateUserProfile updates a user's password hash and name fields. When
// user.ID differs from oldID it also renames the identifier, cascading
// through tasks, follow edges and share edges. Everything runs in one
// transaction, so a taken target identifier or a failed field update
// leaves every table untouched.
func (r *SQLiteRepository) UpdateUserProfile(ctx context.Context, oldID string, user *User) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if user.ID != oldID {
			var count int
			if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE id = ?`, user.ID).Scan(&count); err != nil {
				return HandleDatabaseError("check user exists", err)
			}
			if count > 0 {
				return errors.NewConflictError("user", fmt.Sprintf("identifier %q is already taken", user.ID))
			}

			result, err := tx.ExecContext(ctx, `UPDATE users SET id = ? WHERE id = ?`, user.ID, oldID)
			if err != nil {
				return HandleDatabaseError("rename user", err)
			}
			if err := ValidateRowsAffected(result, "user", oldID); err != nil {
				return err
			}

			cascades := []string{
				`UPDATE tasks SET user_id = ? WHERE user_id = ?`,
				`UPDATE follows SET follower_id = ? WHERE follower_id = ?`,
				`UPDATE follows SET followee_id = ? WHERE followee_id = ?`,
				`UPDATE task_shares SET user_id = ? WHERE user_id = ?`,
			}
			for _, query := range cascades {
				if _, err := tx.ExecContext(ctx, query, user.ID, oldID); err != nil {
					return HandleDatabaseError("cascade user rename", err)
				}
			}
		}

		query := `
		UPDATE users
		SET password_hash = ?, lastname = ?, firstname = ?
		WHERE id = ?`

		result, err := tx.ExecContext(ctx, query, user.PasswordHash, user.Lastname, user.Firstname, user.ID)
		if err != nil {
			return HandleDatabaseError("update user", err)
		}
		return ValidateRowsAffected(result, "user", user.ID)
	})
}

// CreateFollow adds a directed follow edge
func (r *SQLiteRepository) CreateFollow(ctx context.Context, followerID, followeeID string) error {
	query := `INSERT INTO follows (follower_id, followee_id) VALUES (?, ?)`

	_, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.NewConflictError("follow", "already following")
		}
		return HandleDatabaseError("create follow", err)
	}
	return nil
}

// DeleteFollow removes a directed follow edge
func (r *SQLiteRepository) DeleteFollow(ctx context.Context, followerID, followeeID string) error {
	query := `DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`

	result, err := r.db.ExecContext(ctx, query, followerID, followeeID)
	if err != nil {
		return HandleDatabaseError("delete follow", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return HandleDatabaseError("get rows affected", err)
	}
	if rows == 0 {
		return errors.NewConflictError("follow", "not following")
	}
	return nil
}

// HasFollow reports whether a follow edge exists
func (r *SQLiteRepository) HasFollow(ctx context.Context, followerID, followeeID string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM follows WHERE follower_id = ? AND followee_id = ?`, followerID, followeeID).Scan(&count)
	if err != nil {
		return false, HandleDatabaseError("check follow exists", err)
	}
	return count > 0, nil
}

// ListFollowees retrieves the users a given user follows
func (r *SQLiteRepository) ListFollowees(ctx context.Context, userID string) ([]*User, error) {
	query := `
	SELECT users.id, users.password_hash, users.lastname, users.firstname, users.created_at
	FROM users
	JOIN follows ON follows.followee_id = users.id
	WHERE follows.follower_id = ?
	ORDER BY users.id ASC`

	return QueryMultiple(ctx, r.db, query, ScanUsers, "followees", userID)
}

// ListFollowers retrieves the users following a given user
func (r *SQLiteRepository) ListFollowers(ctx context.Context, userID string) ([]*User, error) {
	query := `
	SELECT users.id, users.password_hash, users.lastname, users.firstname, users.created_at
	FROM users
	JOIN follows ON follows.follower_id = users.id
	WHERE follows.followee_id = ?
	ORDER BY users.id ASC`

	return QueryMultiple(ctx, r.db, query, ScanUsers, "followers", userID)
}

// CreateTask inserts a task and its share edges in one transaction.
// IsShared is derived from the share set inside the same transaction.
func (r *SQLiteRepository) CreateTask(ctx context.Context, task *Task, sharedWith []string) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		task.IsShared = len(sharedWith) > 0

		query := `
		INSERT INTO tasks (user_id, name, deadline, is_shared, is_completed, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

		result, err := tx.ExecContext(ctx, query,
			task.UserID, task.Name, FormatTimeForDB(task.Deadline), task.IsShared,
			task.IsCompleted, FormatTimePtrForDB(task.CompletedAt), FormatTimeForDB(task.CreatedAt))
		if err != nil {
			return HandleDatabaseError("create task", err)
		}

		id, err := result.LastInsertId()
		if err != nil {
			return HandleDatabaseError("get last insert ID", err)
		}
		task.ID = id

		return insertShares(ctx, tx, task.ID, sharedWith)
	})
}

// GetTask retrieves a task by ID
func (r *SQLiteRepository) GetTask(ctx context.Context, id int64) (*Task, error) {
	query := `
	SELECT id, user_id, name, deadline, is_shared, is_completed, completed_at, created_at
	FROM tasks
	WHERE id = ?`

	return QuerySingle(ctx, r.db, query, ScanTask, "task", fmt.Sprintf("%d", id), id)
}

// SearchTasks searches for tasks based on the provided filter
func (r *SQLiteRepository) SearchTasks(ctx context.Context, filter TaskFilter) ([]*Task, error) {
	var conditions []string
	var args []interface{}

	query := `
	SELECT tasks.id, tasks.user_id, tasks.name, tasks.deadline, tasks.is_shared, tasks.is_completed, tasks.completed_at, tasks.created_at
	FROM tasks`

	if filter.SharedWithID != nil {
		query += " JOIN task_shares ON task_shares.task_id = tasks.id"
		conditions = append(conditions, "task_shares.user_id = ?")
		args = append(args, *filter.SharedWithID)
	}

	if filter.OwnerID != nil {
		conditions = append(conditions, "tasks.user_id = ?")
		args = append(args, *filter.OwnerID)
	}

	if filter.Completed != nil {
		conditions = append(conditions, "tasks.is_completed = ?")
		args = append(args, *filter.Completed)
	}

	if filter.DueAfter != nil {
		conditions = append(conditions, "tasks.deadline >= ?")
		args = append(args, FormatTimeForDB(*filter.DueAfter))
	}

	if filter.DueBefore != nil {
		conditions = append(conditions, "tasks.deadline < ?")
		args = append(args, FormatTimeForDB(*filter.DueBefore))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	column, ok := orderColumns[filter.OrderBy]
	if !ok {
		column = orderColumns[OrderByDeadline]
	}
	direction := "ASC"
	if filter.Descending {
		direction = "DESC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s", column, direction)

	return QueryMultiple(ctx, r.db, query, ScanTasks, "tasks", args...)
}

// UpdateTask updates a task's fields and replaces its share set in one
// transaction. The share set is replaced wholesale, not merged.
func (r *SQLiteRepository) UpdateTask(ctx context.Context, task *Task, sharedWith []string) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		task.IsShared = len(sharedWith) > 0

		query := `
		UPDATE tasks
		SET name = ?, deadline = ?, is_shared = ?
		WHERE id = ?`

		result, err := tx.ExecContext(ctx, query, task.Name, FormatTimeForDB(task.Deadline), task.IsShared, task.ID)
		if err != nil {
			return HandleDatabaseError("update task", err)
		}
		if err := ValidateRowsAffected(result, "task", fmt.Sprintf("%d", task.ID)); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM task_shares WHERE task_id = ?`, task.ID); err != nil {
			return HandleDatabaseError("clear task shares", err)
		}
		return insertShares(ctx, tx, task.ID, sharedWith)
	})
}

// DeleteTask deletes a task and its share edges
func (r *SQLiteRepository) DeleteTask(ctx context.Context, id int64) error {
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM task_shares WHERE task_id = ?`, id); err != nil {
			return HandleDatabaseError("clear task shares", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
		if err != nil {
			return HandleDatabaseError("delete task", err)
		}
		return ValidateRowsAffected(result, "task", fmt.Sprintf("%d", id))
	})
}

// CompleteTask marks a task completed and records the completion time
func (r *SQLiteRepository) CompleteTask(ctx context.Context, id int64, completedAt time.Time) error {
	query := `
	UPDATE tasks
	SET is_completed = ?, completed_at = ?
	WHERE id = ?`

	return ExecuteWithRowsAffected(ctx, r.db, query, "task", fmt.Sprintf("%d", id), true, FormatTimeForDB(completedAt), id)
}

// ListTaskShares retrieves the user IDs a task is shared with
func (r *SQLiteRepository) ListTaskShares(ctx context.Context, taskID int64) ([]string, error) {
	query := `
	SELECT user_id
	FROM task_shares
	WHERE task_id = ?
	ORDER BY user_id ASC`

	return QueryMultiple(ctx, r.db, query, ScanUserIDs, "task shares", taskID)
}

func insertShares(ctx context.Context, tx *sql.Tx, taskID int64, sharedWith []string) error {
	for _, userID := range sharedWith {
		if _, err := tx.ExecContext(ctx, `INSERT INTO task_shares (task_id, user_id) VALUES (?, ?)`, taskID, userID); err != nil {
			return HandleDatabaseError("insert task share", err)
		}
	}
	return nil
}

// isUniqueViolation reports whether err is a sqlite unique/primary key
// constraint failure
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "constraint failed")
}
