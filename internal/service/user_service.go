package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vitapredict/obesity-backend/internal/constants"
	"github.com/vitapredict/obesity-backend/internal/models"
	"github.com/vitapredict/obesity-backend/internal/repository"
	"github.com/vitapredict/obesity-backend/internal/utils"
)

// UserService handles administrative user management
type UserService struct {
	userRepo       repository.UserRepository
	predictionRepo repository.PredictionRepository
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo repository.UserRepository,
	predictionRepo repository.PredictionRepository,
) *UserService {
	return &UserService{
		userRepo:       userRepo,
		predictionRepo: predictionRepo,
	}
}

// GetUserByID retrieves a user by ID
func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}

// ListUsers returns a page of sanitized user accounts and the total count.
func (s *UserService) ListUsers(ctx context.Context, page, pageSize int) ([]*models.User, int, error) {
	users, total, err := s.userRepo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	sanitized := make([]*models.User, len(users))
	for i, user := range users {
		sanitized[i] = user.Sanitize()
	}

	return sanitized, total, nil
}

// DeleteUser removes a user account and, through the cascade, the user's
// prediction history. Administrators cannot delete their own account.
func (s *UserService) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return utils.NewForbiddenError(constants.MsgSelfModification)
	}

	if err := s.userRepo.Delete(ctx, targetID); err != nil {
		return err
	}

	log.Info().
		Int64("actor_id", actorID).
		Int64("user_id", targetID).
		Msg("User account removed by administrator")

	return nil
}

// ToggleAdmin flips the target's administrator flag and returns the updated
// account. Administrators cannot change their own admin flag, so the last
// admin cannot lock everyone out.
func (s *UserService) ToggleAdmin(ctx context.Context, actorID, targetID int64) (*models.User, error) {
	if actorID == targetID {
		return nil, utils.NewForbiddenError(constants.MsgSelfModification)
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	isAdmin := !user.IsAdmin
	if err := s.userRepo.SetAdmin(ctx, targetID, isAdmin); err != nil {
		return nil, err
	}

	log.Info().
		Int64("actor_id", actorID).
		Int64("user_id", targetID).
		Bool("is_admin", isAdmin).
		Msg("Administrator flag changed")

	return s.GetUserByID(ctx, targetID)
}

// ToggleActive flips the target's active flag and returns the updated
// account. Administrators cannot deactivate their own account.
func (s *UserService) ToggleActive(ctx context.Context, actorID, targetID int64) (*models.User, error) {
	if actorID == targetID {
		return nil, utils.NewForbiddenError(constants.MsgSelfModification)
	}

	user, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	isActive := !user.IsActive
	if err := s.userRepo.SetActive(ctx, targetID, isActive); err != nil {
		return nil, err
	}

	log.Info().
		Int64("actor_id", actorID).
		Int64("user_id", targetID).
		Bool("is_active", isActive).
		Msg("Account active flag changed")

	return s.GetUserByID(ctx, targetID)
}

// GetStats returns aggregate account and prediction counts.
func (s *UserService) GetStats(ctx context.Context) (*models.UserStats, error) {
	total, active, admins, err := s.userRepo.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get user stats: %w", err)
	}

	predictions, err := s.predictionRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count predictions: %w", err)
	}

	return &models.UserStats{
		TotalUsers:       total,
		ActiveUsers:      active,
		AdminUsers:       admins,
		TotalPredictions: predictions,
	}, nil
}
