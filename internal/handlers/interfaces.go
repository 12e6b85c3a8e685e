// Package handlers provides HTTP request handlers for the API.
package handlers

import (
	"context"

	"github.com/vitapredict/obesity-backend/internal/ml"
	"github.com/vitapredict/obesity-backend/internal/models"
)

// AuthServiceInterface defines the methods required from the authentication
// service. Handlers depend on this interface instead of the concrete service
// so tests can substitute their own implementation.
type AuthServiceInterface interface {
	// RegisterUser registers a new user with the provided registration data.
	// The returned user is sanitized.
	RegisterUser(ctx context.Context, reg *models.UserRegistration) (*models.User, error)

	// AuthenticateUser authenticates a user with the provided credentials and
	// returns the sanitized user, an access token, and a refresh token.
	AuthenticateUser(ctx context.Context, creds *models.UserCredentials) (*models.User, string, string, error)

	// RefreshTokens uses a refresh token to generate a new token pair.
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)

	// GetUserByID returns the sanitized account of the given user.
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
}

// PredictionServiceInterface defines the methods required from the
// prediction service.
type PredictionServiceInterface interface {
	// Predict classifies the submitted features, stores the result in the
	// caller's history, and returns the classification outcome.
	Predict(ctx context.Context, userID int64, input *models.PredictionInput) (*models.PredictionResponse, error)

	// GetPrediction returns one of the caller's history entries.
	GetPrediction(ctx context.Context, userID, predictionID int64) (*models.Prediction, error)

	// GetHistory returns a page of the user's predictions, newest first.
	GetHistory(ctx context.Context, userID int64, page, pageSize int) ([]*models.Prediction, int, error)

	// ClearHistory removes all of the caller's predictions and returns the
	// number of entries removed.
	ClearHistory(ctx context.Context, userID int64) (int64, error)

	// ModelInfo returns the metadata describing the loaded model.
	ModelInfo() ml.Metadata
}

// UserServiceInterface defines the methods required from the administrative
// user service.
type UserServiceInterface interface {
	// ListUsers returns a page of sanitized user accounts and the total count.
	ListUsers(ctx context.Context, page, pageSize int) ([]*models.User, int, error)

	// GetUserByID retrieves a sanitized user by ID.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	// DeleteUser removes a user account on behalf of an administrator.
	DeleteUser(ctx context.Context, actorID, targetID int64) error

	// ToggleAdmin flips the target's administrator flag.
	ToggleAdmin(ctx context.Context, actorID, targetID int64) (*models.User, error)

	// ToggleActive flips the target's active flag.
	ToggleActive(ctx context.Context, actorID, targetID int64) (*models.User, error)

	// GetStats returns aggregate account and prediction counts.
	GetStats(ctx context.Context) (*models.UserStats, error)
}
