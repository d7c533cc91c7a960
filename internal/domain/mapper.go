package domain

import (
	"taskfollow/internal/repository/sqlite"
)

// UserMapper handles conversion between domain and database User models.
// The database model's password hash is dropped on the way out; nothing
// above the repository layer can read it.
type UserMapper struct{}

// NewUserMapper creates a new UserMapper instance.
func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

// FromDatabase converts a database User to a domain User.
func (m *UserMapper) FromDatabase(dbUser sqlite.User) User {
	return User{
		ID:        dbUser.ID,
		Lastname:  dbUser.Lastname,
		Firstname: dbUser.Firstname,
		CreatedAt: dbUser.CreatedAt,
	}
}

// FromDatabaseSlice converts a slice of database Users to domain Users.
func (m *UserMapper) FromDatabaseSlice(dbUsers []*sqlite.User) []*User {
	users := make([]*User, len(dbUsers))
	for i, dbUser := range dbUsers {
		user := m.FromDatabase(*dbUser)
		users[i] = &user
	}
	return users
}

// TaskMapper handles conversion between domain and database Task models.
type TaskMapper struct{}

// NewTaskMapper creates a new TaskMapper instance.
func NewTaskMapper() *TaskMapper {
	return &TaskMapper{}
}

// ToDatabase converts a domain Task to a database Task.
func (m *TaskMapper) ToDatabase(task Task) sqlite.Task {
	return sqlite.Task{
		ID:          task.ID,
		UserID:      task.OwnerID,
		Name:        task.Name,
		Deadline:    task.Deadline,
		IsShared:    task.IsShared,
		IsCompleted: task.IsCompleted,
		CompletedAt: task.CompletedAt,
		CreatedAt:   task.CreatedAt,
	}
}

// FromDatabase converts a database Task to a domain Task. The share list
// lives in its own table; callers that need it attach it separately.
func (m *TaskMapper) FromDatabase(dbTask sqlite.Task) Task {
	return Task{
		ID:          dbTask.ID,
		OwnerID:     dbTask.UserID,
		Name:        dbTask.Name,
		Deadline:    dbTask.Deadline,
		IsShared:    dbTask.IsShared,
		IsCompleted: dbTask.IsCompleted,
		CompletedAt: dbTask.CompletedAt,
		CreatedAt:   dbTask.CreatedAt,
	}
}

// FromDatabaseSlice converts a slice of database Tasks to domain Tasks.
func (m *TaskMapper) FromDatabaseSlice(dbTasks []*sqlite.Task) []*Task {
	tasks := make([]*Task, len(dbTasks))
	for i, dbTask := range dbTasks {
		task := m.FromDatabase(*dbTask)
		tasks[i] = &task
	}
	return tasks
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	User *UserMapper
	Task *TaskMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		User: NewUserMapper(),
		Task: NewTaskMapper(),
	}
}
