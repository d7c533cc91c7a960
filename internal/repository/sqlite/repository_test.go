package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskfollow/internal/errors"
)

func setupTestDB(t *testing.T) (*SQLiteRepository, func()) {
	// Create data directory if it doesn't exist
	dataDir := "./data"
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatal(err)
	}

	// Set up test database path
	dbPath := filepath.Join(dataDir, "taskfollow_test.db")

	// Create repository instance
	repo, err := New(dbPath)
	require.NoError(t, err)

	// Return cleanup function
	cleanup := func() {
		repo.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func createTestUser(t *testing.T, repo *SQLiteRepository, id string) *User {
	t.Helper()
	user := &User{
		ID:           id,
		PasswordHash: "hash-" + id,
		Lastname:     "Last" + id,
		Firstname:    "First" + id,
		CreatedAt:    time.Now(),
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func createTestTask(t *testing.T, repo *SQLiteRepository, ownerID, name string, deadline time.Time, sharedWith []string) *Task {
	t.Helper()
	task := &Task{
		UserID:    ownerID,
		Name:      name,
		Deadline:  deadline,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.CreateTask(context.Background(), task, sharedWith))
	return task
}

func TestCreateUser(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, repo, "alice")

	retrieved, err := repo.GetUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, user.ID, retrieved.ID)
	assert.Equal(t, user.PasswordHash, retrieved.PasswordHash)
	assert.Equal(t, user.Lastname, retrieved.Lastname)
	assert.Equal(t, user.Firstname, retrieved.Firstname)
	assert.Equal(t, user.CreatedAt.Unix(), retrieved.CreatedAt.Unix())
}

func TestCreateUserDuplicate(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestUser(t, repo, "alice")

	dup := &User{ID: "alice", PasswordHash: "other", CreatedAt: time.Now()}
	err := repo.CreateUser(context.Background(), dup)
	assert.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))
}

func TestGetUserNotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetUser(context.Background(), "ghost")
	assert.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestUserExists(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	exists, err := repo.UserExists(context.Background(), "alice")
	require.NoError(t, err)
	assert.False(t, exists)

	createTestUser(t, repo, "alice")

	exists, err = repo.UserExists(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestListUsers(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestUser(t, repo, "carol")
	createTestUser(t, repo, "alice")
	createTestUser(t, repo, "bob")

	users, err := repo.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "alice", users[0].ID)
	assert.Equal(t, "bob", users[1].ID)
	assert.Equal(t, "carol", users[2].ID)
}

func TestUpdateUserProfileFields(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	user := createTestUser(t, repo, "alice")
	user.Lastname = "Changed"
	user.PasswordHash = "newhash"

	err := repo.UpdateUserProfile(context.Background(), "alice", user)
	require.NoError(t, err)

	retrieved, err := repo.GetUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "Changed", retrieved.Lastname)
	assert.Equal(t, "newhash", retrieved.PasswordHash)
}

func TestUpdateUserProfileRenameCascades(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, repo, "alice")
	createTestUser(t, repo, "bob")

	require.NoError(t, repo.CreateFollow(ctx, "alice", "bob"))
	require.NoError(t, repo.CreateFollow(ctx, "bob", "alice"))

	owned := createTestTask(t, repo, "alice", "mine", time.Now().Add(time.Hour), nil)
	shared := createTestTask(t, repo, "bob", "theirs", time.Now().Add(time.Hour), []string{"alice"})

	renamed := &User{
		ID:           "alicia",
		PasswordHash: "hash-alice",
		Lastname:     "Lastalice",
		Firstname:    "Firstalice",
	}
	err := repo.UpdateUserProfile(ctx, "alice", renamed)
	require.NoError(t, err)

	// Old identifier is gone, new one resolves
	_, err = repo.GetUser(ctx, "alice")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
	retrieved, err := repo.GetUser(ctx, "alicia")
	require.NoError(t, err)
	assert.Equal(t, "Lastalice", retrieved.Lastname)
	assert.Equal(t, "hash-alice", retrieved.PasswordHash)

	// Task ownership followed the rename
	task, err := repo.GetTask(ctx, owned.ID)
	require.NoError(t, err)
	assert.Equal(t, "alicia", task.UserID)

	// Both follow directions followed the rename
	has, err := repo.HasFollow(ctx, "alicia", "bob")
	require.NoError(t, err)
	assert.True(t, has)
	has, err = repo.HasFollow(ctx, "bob", "alicia")
	require.NoError(t, err)
	assert.True(t, has)

	// Share edges followed the rename
	shares, err := repo.ListTaskShares(ctx, shared.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alicia"}, shares)
}

func TestUpdateUserProfileRenameConflict(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, repo, "alice")
	createTestUser(t, repo, "bob")
	task := createTestTask(t, repo, "alice", "mine", time.Now().Add(time.Hour), nil)

	err := repo.UpdateUserProfile(ctx, "alice", &User{
		ID:           "bob",
		PasswordHash: "newhash",
		Lastname:     "Changed",
		Firstname:    "Changed",
	})
	assert.Error(t, err)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))

	// The conflict rolled everything back, the field update included
	user, err := repo.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Lastalice", user.Lastname)
	assert.Equal(t, "hash-alice", user.PasswordHash)
	retrieved, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", retrieved.UserID)
}

func TestFollowLifecycle(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, repo, "alice")
	createTestUser(t, repo, "bob")

	require.NoError(t, repo.CreateFollow(ctx, "alice", "bob"))

	// Re-following is a conflict
	err := repo.CreateFollow(ctx, "alice", "bob")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))

	// Directional: bob does not follow alice
	has, err := repo.HasFollow(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.False(t, has)

	followees, err := repo.ListFollowees(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, followees, 1)
	assert.Equal(t, "bob", followees[0].ID)

	followers, err := repo.ListFollowers(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].ID)

	require.NoError(t, repo.DeleteFollow(ctx, "alice", "bob"))

	// Unfollowing again is a conflict
	err = repo.DeleteFollow(ctx, "alice", "bob")
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeConflict))
}

func TestCreateTaskWithShares(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, repo, "alice")
	createTestUser(t, repo, "bob")
	createTestUser(t, repo, "carol")

	deadline := time.Now().Add(24 * time.Hour)
	task := createTestTask(t, repo, "alice", "report", deadline, []string{"bob", "carol"})
	assert.Greater(t, task.ID, int64(0))
	assert.True(t, task.IsShared)

	retrieved, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "report", retrieved.Name)
	assert.True(t, retrieved.IsShared)
	assert.False(t, retrieved.IsCompleted)
	assert.Nil(t, retrieved.CompletedAt)
	assert.Equal(t, deadline.Unix(), retrieved.Deadline.Unix())

	shares, err := repo.ListTaskShares(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, shares)
}

func TestCreateTaskUnshared(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestUser(t, repo, "alice")
	task := createTestTask(t, repo, "alice", "solo", time.Now().Add(time.Hour), nil)
	assert.False(t, task.IsShared)

	shares, err := repo.ListTaskShares(context.Background(), task.ID)
	require.NoError(t, err)
	assert.Empty(t, shares)
}

func TestUpdateTaskReplacesShares(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, repo, "alice")
	createTestUser(t, repo, "bob")
	createTestUser(t, repo, "carol")

	task := createTestTask(t, repo, "alice", "report", time.Now().Add(time.Hour), []string{"bob"})

	task.Name = "final report"
	err := repo.UpdateTask(ctx, task, []string{"carol"})
	require.NoError(t, err)
	assert.True(t, task.IsShared)

	shares, err := repo.ListTaskShares(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, shares)

	// Emptying the share set clears the shared flag
	err = repo.UpdateTask(ctx, task, nil)
	require.NoError(t, err)

	retrieved, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final report", retrieved.Name)
	assert.False(t, retrieved.IsShared)

	shares, err = repo.ListTaskShares(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, shares)
}

func TestUpdateTaskNotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	task := &Task{ID: 999, Name: "ghost", Deadline: time.Now(), CreatedAt: time.Now()}
	err := repo.UpdateTask(context.Background(), task, nil)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestDeleteTask(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, repo, "alice")
	createTestUser(t, repo, "bob")
	task := createTestTask(t, repo, "alice", "report", time.Now().Add(time.Hour), []string{"bob"})

	err := repo.DeleteTask(ctx, task.ID)
	require.NoError(t, err)

	_, err = repo.GetTask(ctx, task.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	shares, err := repo.ListTaskShares(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, shares)

	// Deleting again reports not found
	err = repo.DeleteTask(ctx, task.ID)
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))
}

func TestCompleteTask(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, repo, "alice")
	task := createTestTask(t, repo, "alice", "report", time.Now().Add(time.Hour), nil)

	completedAt := time.Now()
	err := repo.CompleteTask(ctx, task.ID, completedAt)
	require.NoError(t, err)

	retrieved, err := repo.GetTask(ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, retrieved.IsCompleted)
	require.NotNil(t, retrieved.CompletedAt)
	assert.Equal(t, completedAt.Unix(), retrieved.CompletedAt.Unix())
}

func TestSearchTasksByOwner(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, repo, "alice")
	createTestUser(t, repo, "bob")
	createTestTask(t, repo, "alice", "mine", time.Now().Add(time.Hour), nil)
	createTestTask(t, repo, "bob", "theirs", time.Now().Add(time.Hour), nil)

	owner := "alice"
	tasks, err := repo.SearchTasks(ctx, TaskFilter{OwnerID: &owner})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "mine", tasks[0].Name)
}

func TestSearchTasksSharedWith(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, repo, "alice")
	createTestUser(t, repo, "bob")
	createTestUser(t, repo, "carol")
	createTestTask(t, repo, "alice", "for bob", time.Now().Add(time.Hour), []string{"bob"})
	createTestTask(t, repo, "alice", "for carol", time.Now().Add(time.Hour), []string{"carol"})
	createTestTask(t, repo, "alice", "private", time.Now().Add(time.Hour), nil)

	target := "bob"
	tasks, err := repo.SearchTasks(ctx, TaskFilter{SharedWithID: &target})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "for bob", tasks[0].Name)
}

func TestSearchTasksByCompletionAndDeadline(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, repo, "alice")
	now := time.Now()
	past := createTestTask(t, repo, "alice", "past", now.Add(-time.Hour), nil)
	createTestTask(t, repo, "alice", "future", now.Add(time.Hour), nil)
	done := createTestTask(t, repo, "alice", "done", now.Add(-2*time.Hour), nil)
	require.NoError(t, repo.CompleteTask(ctx, done.ID, now))

	owner := "alice"
	completed := false

	// Uncompleted tasks already past their deadline
	tasks, err := repo.SearchTasks(ctx, TaskFilter{OwnerID: &owner, Completed: &completed, DueBefore: &now})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, past.ID, tasks[0].ID)

	// Uncompleted tasks with deadlines still ahead
	tasks, err = repo.SearchTasks(ctx, TaskFilter{OwnerID: &owner, Completed: &completed, DueAfter: &now})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "future", tasks[0].Name)
}

func TestSearchTasksOrdering(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	createTestUser(t, repo, "alice")
	now := time.Now()
	createTestTask(t, repo, "alice", "banana", now.Add(2*time.Hour), nil)
	createTestTask(t, repo, "alice", "apple", now.Add(3*time.Hour), nil)
	createTestTask(t, repo, "alice", "cherry", now.Add(time.Hour), nil)

	owner := "alice"

	tasks, err := repo.SearchTasks(ctx, TaskFilter{OwnerID: &owner, OrderBy: OrderByName})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "apple", tasks[0].Name)
	assert.Equal(t, "cherry", tasks[2].Name)

	tasks, err = repo.SearchTasks(ctx, TaskFilter{OwnerID: &owner, OrderBy: OrderByDeadline, Descending: true})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "apple", tasks[0].Name)
	assert.Equal(t, "cherry", tasks[2].Name)

	// Unknown column falls back to the deadline ordering
	tasks, err = repo.SearchTasks(ctx, TaskFilter{OwnerID: &owner, OrderBy: TaskOrder("evil; DROP TABLE tasks")})
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "cherry", tasks[0].Name)
}
