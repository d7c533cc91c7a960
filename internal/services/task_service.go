package services

import (
	"context"
	"fmt"
	"time"

	"taskfollow/internal/domain"
	"taskfollow/internal/errors"
	"taskfollow/internal/logging"
	"taskfollow/internal/repository/sqlite"
	"taskfollow/internal/validation"
)

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	repo          sqlite.Repository
	loc           *time.Location
	mapper        *domain.Mapper
	taskValidator *validation.TaskValidator
}

// NewTaskService creates a new TaskService instance
func NewTaskService(repo sqlite.Repository, loc *time.Location) TaskService {
	return &taskServiceImpl{
		repo:          repo,
		loc:           loc,
		mapper:        domain.NewMapper(),
		taskValidator: validation.NewTaskValidator(),
	}
}

// filterShareCandidates intersects the requested share set with the
// owner's followees. Candidates outside the followee set are dropped
// silently, never rejected; duplicates collapse.
func (s *taskServiceImpl) filterShareCandidates(ctx context.Context, ownerID string, candidateIDs []string) ([]string, error) {
	if len(candidateIDs) == 0 {
		return nil, nil
	}

	followees, err := s.repo.ListFollowees(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	followeeSet := make(map[string]bool, len(followees))
	for _, f := range followees {
		followeeSet[f.ID] = true
	}

	var shared []string
	seen := make(map[string]bool)
	for _, id := range candidateIDs {
		if followeeSet[id] && !seen[id] {
			shared = append(shared, id)
			seen[id] = true
		}
	}
	return shared, nil
}

// getOwnedTask loads a task and checks the actor owns it. A task owned by
// someone else reports forbidden; callers surface forbidden and not-found
// identically so task existence never leaks.
func (s *taskServiceImpl) getOwnedTask(ctx context.Context, actorID string, taskID int64) (*sqlite.Task, error) {
	if err := s.taskValidator.ValidateTaskID(taskID); err != nil {
		return nil, wrapValidation(err)
	}

	dbTask, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if dbTask.UserID != actorID {
		return nil, errors.NewForbiddenError("modify", fmt.Sprintf("task %d", taskID))
	}
	return dbTask, nil
}

// CreateTask creates a task for the owner, sharing it with the candidates
// that are actually followed.
func (s *taskServiceImpl) CreateTask(ctx context.Context, ownerID, name string, deadline time.Time, shareCandidateIDs []string) (*domain.Task, error) {
	if err := s.taskValidator.ValidateTaskForCreation(name, deadline); err != nil {
		return nil, wrapValidation(err)
	}

	cleanedName, err := s.taskValidator.GetValidTaskName(name)
	if err != nil {
		return nil, wrapValidation(err)
	}

	sharedWith, err := s.filterShareCandidates(ctx, ownerID, shareCandidateIDs)
	if err != nil {
		return nil, err
	}

	dbTask := &sqlite.Task{
		UserID:    ownerID,
		Name:      cleanedName,
		Deadline:  deadline,
		CreatedAt: time.Now().In(s.loc),
	}

	if err := s.repo.CreateTask(ctx, dbTask, sharedWith); err != nil {
		return nil, err
	}

	logging.Debugf("created task %d for %s (shared with %d users)\n", dbTask.ID, ownerID, len(sharedWith))

	task := s.mapper.Task.FromDatabase(*dbTask)
	task.SharedWith = sharedWith
	return &task, nil
}

// GetTask retrieves a single task with its share list, for the owner only
func (s *taskServiceImpl) GetTask(ctx context.Context, actorID string, taskID int64) (*domain.Task, error) {
	dbTask, err := s.getOwnedTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	sharedWith, err := s.repo.ListTaskShares(ctx, taskID)
	if err != nil {
		return nil, err
	}

	task := s.mapper.Task.FromDatabase(*dbTask)
	task.SharedWith = sharedWith
	return &task, nil
}

// UpdateTask updates a task's name, deadline and share set. The share set
// is replaced wholesale with the filtered candidates.
func (s *taskServiceImpl) UpdateTask(ctx context.Context, actorID string, taskID int64, name string, deadline time.Time, shareCandidateIDs []string) (*domain.Task, error) {
	dbTask, err := s.getOwnedTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.taskValidator.ValidateTaskForUpdate(taskID, name, deadline); err != nil {
		return nil, wrapValidation(err)
	}

	cleanedName, err := s.taskValidator.GetValidTaskName(name)
	if err != nil {
		return nil, wrapValidation(err)
	}

	sharedWith, err := s.filterShareCandidates(ctx, actorID, shareCandidateIDs)
	if err != nil {
		return nil, err
	}

	dbTask.Name = cleanedName
	dbTask.Deadline = deadline

	if err := s.repo.UpdateTask(ctx, dbTask, sharedWith); err != nil {
		return nil, err
	}

	task := s.mapper.Task.FromDatabase(*dbTask)
	task.SharedWith = sharedWith
	return &task, nil
}

// DeleteTask deletes a task, owner only
func (s *taskServiceImpl) DeleteTask(ctx context.Context, actorID string, taskID int64) error {
	if _, err := s.getOwnedTask(ctx, actorID, taskID); err != nil {
		return err
	}

	return s.repo.DeleteTask(ctx, taskID)
}

// CompleteTask marks a task completed. Completing an already completed
// task is a no-op, not an error; the original completion time stands.
func (s *taskServiceImpl) CompleteTask(ctx context.Context, actorID string, taskID int64) (*domain.Task, error) {
	dbTask, err := s.getOwnedTask(ctx, actorID, taskID)
	if err != nil {
		return nil, err
	}

	if !dbTask.IsCompleted {
		completedAt := time.Now().In(s.loc)
		if err := s.repo.CompleteTask(ctx, taskID, completedAt); err != nil {
			return nil, err
		}
		dbTask.IsCompleted = true
		dbTask.CompletedAt = &completedAt
	}

	task := s.mapper.Task.FromDatabase(*dbTask)
	return &task, nil
}
