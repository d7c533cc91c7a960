package services

import (
	"context"
	"time"

	"taskfollow/internal/domain"
	"taskfollow/internal/repository/sqlite"
)

// queryServiceImpl implements the QueryService interface
type queryServiceImpl struct {
	repo   sqlite.Repository
	loc    *time.Location
	mapper *domain.Mapper
}

// NewQueryService creates a new QueryService instance
func NewQueryService(repo sqlite.Repository, loc *time.Location) QueryService {
	return &queryServiceImpl{
		repo:   repo,
		loc:    loc,
		mapper: domain.NewMapper(),
	}
}

func repoOrder(field SortField) sqlite.TaskOrder {
	switch field {
	case SortByName:
		return sqlite.OrderByName
	case SortByCreatedAt:
		return sqlite.OrderByCreatedAt
	default:
		return sqlite.OrderByDeadline
	}
}

func boolPtr(b bool) *bool { return &b }

// ListTasks assembles the four home-view lists. The caller's sort
// parameters apply to the two active lists; completed lists are always
// deadline-ascending.
func (s *queryServiceImpl) ListTasks(ctx context.Context, userID string, field SortField, order SortOrder) (*TaskLists, error) {
	now := time.Now().In(s.loc)
	orderBy := repoOrder(field)
	descending := order == SortDesc

	myActive, err := s.repo.SearchTasks(ctx, sqlite.TaskFilter{
		OwnerID:    &userID,
		Completed:  boolPtr(false),
		DueAfter:   &now,
		OrderBy:    orderBy,
		Descending: descending,
	})
	if err != nil {
		return nil, err
	}

	myCompleted, err := s.repo.SearchTasks(ctx, sqlite.TaskFilter{
		OwnerID:   &userID,
		Completed: boolPtr(true),
		OrderBy:   sqlite.OrderByDeadline,
	})
	if err != nil {
		return nil, err
	}

	sharedActive, err := s.repo.SearchTasks(ctx, sqlite.TaskFilter{
		SharedWithID: &userID,
		Completed:    boolPtr(false),
		DueAfter:     &now,
		OrderBy:      orderBy,
		Descending:   descending,
	})
	if err != nil {
		return nil, err
	}

	sharedCompleted, err := s.repo.SearchTasks(ctx, sqlite.TaskFilter{
		SharedWithID: &userID,
		Completed:    boolPtr(true),
		OrderBy:      sqlite.OrderByDeadline,
	})
	if err != nil {
		return nil, err
	}

	return &TaskLists{
		MyActive:        s.mapper.Task.FromDatabaseSlice(myActive),
		MyCompleted:     s.mapper.Task.FromDatabaseSlice(myCompleted),
		SharedActive:    s.mapper.Task.FromDatabaseSlice(sharedActive),
		SharedCompleted: s.mapper.Task.FromDatabaseSlice(sharedCompleted),
	}, nil
}

// ListExpired assembles the overdue, uncompleted lists. Sort parameters
// never apply here; both lists are deadline-ascending.
func (s *queryServiceImpl) ListExpired(ctx context.Context, userID string) (*ExpiredLists, error) {
	now := time.Now().In(s.loc)

	myExpired, err := s.repo.SearchTasks(ctx, sqlite.TaskFilter{
		OwnerID:   &userID,
		Completed: boolPtr(false),
		DueBefore: &now,
		OrderBy:   sqlite.OrderByDeadline,
	})
	if err != nil {
		return nil, err
	}

	sharedExpired, err := s.repo.SearchTasks(ctx, sqlite.TaskFilter{
		SharedWithID: &userID,
		Completed:    boolPtr(false),
		DueBefore:    &now,
		OrderBy:      sqlite.OrderByDeadline,
	})
	if err != nil {
		return nil, err
	}

	return &ExpiredLists{
		MyExpired:     s.mapper.Task.FromDatabaseSlice(myExpired),
		SharedExpired: s.mapper.Task.FromDatabaseSlice(sharedExpired),
	}, nil
}

// ListCalendarTasks returns every task visible to the user, owned and
// shared, regardless of completion. The full-month calendar shows them
// all.
func (s *queryServiceImpl) ListCalendarTasks(ctx context.Context, userID string) ([]*domain.Task, error) {
	owned, err := s.repo.SearchTasks(ctx, sqlite.TaskFilter{
		OwnerID: &userID,
		OrderBy: sqlite.OrderByDeadline,
	})
	if err != nil {
		return nil, err
	}

	shared, err := s.repo.SearchTasks(ctx, sqlite.TaskFilter{
		SharedWithID: &userID,
		OrderBy:      sqlite.OrderByDeadline,
	})
	if err != nil {
		return nil, err
	}

	return s.mapper.Task.FromDatabaseSlice(append(owned, shared...)), nil
}
