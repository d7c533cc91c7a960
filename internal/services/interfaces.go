package services

import (
	"context"
	"time"

	"taskfollow/internal/domain"
	"taskfollow/internal/repository/sqlite"
)

// SortField names a task list sort column
type SortField string

const (
	SortByName      SortField = "name"
	SortByCreatedAt SortField = "created_at"
	SortByDeadline  SortField = "deadline" // default
)

// SortOrder selects ascending or descending list order
type SortOrder string

const (
	SortAsc  SortOrder = "asc" // default
	SortDesc SortOrder = "desc"
)

// ParseSortField normalizes a raw sort parameter, falling back to the
// deadline ordering for anything unrecognized.
func ParseSortField(s string) SortField {
	switch SortField(s) {
	case SortByName, SortByCreatedAt, SortByDeadline:
		return SortField(s)
	default:
		return SortByDeadline
	}
}

// ParseSortOrder normalizes a raw order parameter, falling back to
// ascending.
func ParseSortOrder(s string) SortOrder {
	if SortOrder(s) == SortDesc {
		return SortDesc
	}
	return SortAsc
}

// TaskLists is the grouped result for the home list view. The sort
// parameters apply to the active lists only; completed lists are always
// deadline-ascending.
type TaskLists struct {
	MyActive        []*domain.Task
	MyCompleted     []*domain.Task
	SharedActive    []*domain.Task
	SharedCompleted []*domain.Task
}

// ExpiredLists groups overdue, uncompleted tasks for the expired view
type ExpiredLists struct {
	MyExpired     []*domain.Task
	SharedExpired []*domain.Task
}

// ProfileUpdate carries the fields of a profile mutation. NewID and
// NewPassword are optional; empty values keep the current ones.
type ProfileUpdate struct {
	NewID       string
	Lastname    string
	Firstname   string
	NewPassword string
}

// IdentityService handles registration, authentication and the follow graph
type IdentityService interface {
	Register(ctx context.Context, id, password, lastname, firstname string) (*domain.User, error)
	Authenticate(ctx context.Context, id, password string) (*domain.User, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error)

	Follow(ctx context.Context, actorID, targetID string) error
	Unfollow(ctx context.Context, actorID, targetID string) error
	ListFollowees(ctx context.Context, userID string) ([]*domain.User, error)
	ListOtherUsers(ctx context.Context, actorID string) ([]*domain.User, error)
}

// TaskService handles the task lifecycle. Every mutation is
// ownership-checked against the acting user.
type TaskService interface {
	CreateTask(ctx context.Context, ownerID, name string, deadline time.Time, shareCandidateIDs []string) (*domain.Task, error)
	GetTask(ctx context.Context, actorID string, taskID int64) (*domain.Task, error)
	UpdateTask(ctx context.Context, actorID string, taskID int64, name string, deadline time.Time, shareCandidateIDs []string) (*domain.Task, error)
	DeleteTask(ctx context.Context, actorID string, taskID int64) error
	CompleteTask(ctx context.Context, actorID string, taskID int64) (*domain.Task, error)
}

// QueryService assembles the task lists for the list and calendar views
type QueryService interface {
	ListTasks(ctx context.Context, userID string, field SortField, order SortOrder) (*TaskLists, error)
	ListExpired(ctx context.Context, userID string) (*ExpiredLists, error)
	ListCalendarTasks(ctx context.Context, userID string) ([]*domain.Task, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	Identity IdentityService
	Tasks    TaskService
	Queries  QueryService
}

// NewServiceContainer wires up all services against one repository.
// loc is the application zone used for deadline interpretation.
func NewServiceContainer(repo sqlite.Repository, loc *time.Location) *ServiceContainer {
	return &ServiceContainer{
		Identity: NewIdentityService(repo),
		Tasks:    NewTaskService(repo, loc),
		Queries:  NewQueryService(repo, loc),
	}
}
