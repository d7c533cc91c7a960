package services

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"

	"taskfollow/internal/domain"
	"taskfollow/internal/errors"
	"taskfollow/internal/logging"
	"taskfollow/internal/repository/sqlite"
	"taskfollow/internal/validation"
)

// wrapValidation converts a field-level validation error into the app
// error taxonomy, keeping the user-facing message.
func wrapValidation(err error) *errors.AppError {
	if ve, ok := err.(*validation.ValidationError); ok {
		return errors.NewValidationError(ve.GetUserFriendlyMessage(), ve)
	}
	return errors.NewValidationError(err.Error(), err)
}

// identityServiceImpl implements the IdentityService interface
type identityServiceImpl struct {
	repo          sqlite.Repository
	mapper        *domain.Mapper
	userValidator *validation.UserValidator
}

// NewIdentityService creates a new IdentityService instance
func NewIdentityService(repo sqlite.Repository) IdentityService {
	return &identityServiceImpl{
		repo:          repo,
		mapper:        domain.NewMapper(),
		userValidator: validation.NewUserValidator(),
	}
}

// Register creates a new user with a bcrypt-hashed password
func (s *identityServiceImpl) Register(ctx context.Context, id, password, lastname, firstname string) (*domain.User, error) {
	if err := s.userValidator.ValidateRegistration(id, password, lastname, firstname); err != nil {
		return nil, wrapValidation(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeDatabase, "hash password")
	}

	dbUser := &sqlite.User{
		ID:           id,
		PasswordHash: string(hash),
		Lastname:     lastname,
		Firstname:    firstname,
		CreatedAt:    time.Now(),
	}

	// The primary key constraint backstops this create; a duplicate
	// identifier surfaces as a conflict either way.
	if err := s.repo.CreateUser(ctx, dbUser); err != nil {
		return nil, err
	}

	logging.Debugf("registered user %s\n", id)
	user := s.mapper.User.FromDatabase(*dbUser)
	return &user, nil
}

// Authenticate verifies an identifier/password pair. Unknown identifiers
// and wrong passwords return the same authentication error.
func (s *identityServiceImpl) Authenticate(ctx context.Context, id, password string) (*domain.User, error) {
	dbUser, err := s.repo.GetUser(ctx, id)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, errors.NewAuthenticationError()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(dbUser.PasswordHash), []byte(password)); err != nil {
		return nil, errors.NewAuthenticationError()
	}

	user := s.mapper.User.FromDatabase(*dbUser)
	return &user, nil
}

// GetUser retrieves a user by identifier
func (s *identityServiceImpl) GetUser(ctx context.Context, id string) (*domain.User, error) {
	dbUser, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user := s.mapper.User.FromDatabase(*dbUser)
	return &user, nil
}

// UpdateProfile mutates a user's profile. The field update and any rename
// cascade commit in a single transaction; a duplicate target identifier
// fails with a conflict and leaves the profile untouched.
func (s *identityServiceImpl) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) (*domain.User, error) {
	if err := s.userValidator.ValidateProfileUpdate(update.NewID, update.Lastname, update.Firstname); err != nil {
		return nil, wrapValidation(err)
	}

	dbUser, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	currentID := userID
	if update.NewID != "" && update.NewID != userID {
		currentID = update.NewID
	}

	hash := dbUser.PasswordHash
	if update.NewPassword != "" {
		newHash, err := bcrypt.GenerateFromPassword([]byte(update.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrorTypeDatabase, "hash password")
		}
		hash = string(newHash)
	}

	updated := &sqlite.User{
		ID:           currentID,
		PasswordHash: hash,
		Lastname:     update.Lastname,
		Firstname:    update.Firstname,
		CreatedAt:    dbUser.CreatedAt,
	}
	if err := s.repo.UpdateUserProfile(ctx, userID, updated); err != nil {
		return nil, err
	}
	if currentID != userID {
		logging.Debugf("renamed user %s to %s\n", userID, currentID)
	}

	user := s.mapper.User.FromDatabase(*updated)
	return &user, nil
}

// Follow adds a follow edge from actor to target. Following an already
// followed user is a data-level no-op reported as a conflict. Self-follows
// are rejected outright.
func (s *identityServiceImpl) Follow(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return errors.NewValidationError("you cannot follow yourself", nil)
	}

	// Resolve the target first so a missing user reports not-found
	// rather than a dangling edge.
	if _, err := s.repo.GetUser(ctx, targetID); err != nil {
		return err
	}

	return s.repo.CreateFollow(ctx, actorID, targetID)
}

// Unfollow removes a follow edge. Unfollowing someone not followed is a
// data-level no-op reported as a conflict.
func (s *identityServiceImpl) Unfollow(ctx context.Context, actorID, targetID string) error {
	if actorID == targetID {
		return errors.NewValidationError("you cannot unfollow yourself", nil)
	}

	if _, err := s.repo.GetUser(ctx, targetID); err != nil {
		return err
	}

	return s.repo.DeleteFollow(ctx, actorID, targetID)
}

// ListFollowees lists the users the given user follows
func (s *identityServiceImpl) ListFollowees(ctx context.Context, userID string) ([]*domain.User, error) {
	dbUsers, err := s.repo.ListFollowees(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.mapper.User.FromDatabaseSlice(dbUsers), nil
}

// ListOtherUsers lists every registered user except the actor, for the
// follow page.
func (s *identityServiceImpl) ListOtherUsers(ctx context.Context, actorID string) ([]*domain.User, error) {
	dbUsers, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	others := make([]*sqlite.User, 0, len(dbUsers))
	for _, u := range dbUsers {
		if u.ID != actorID {
			others = append(others, u)
		}
	}
	return s.mapper.User.FromDatabaseSlice(others), nil
}
