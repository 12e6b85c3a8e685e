package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vitapredict/obesity-backend/internal/ml"
	"github.com/vitapredict/obesity-backend/internal/models"
	"github.com/vitapredict/obesity-backend/internal/repository"
	"github.com/vitapredict/obesity-backend/internal/utils"
)

// PredictionService runs model inference and persists the results
type PredictionService struct {
	predictor      *ml.Predictor
	predictionRepo repository.PredictionRepository
}

// NewPredictionService creates a new PredictionService
func NewPredictionService(
	predictor *ml.Predictor,
	predictionRepo repository.PredictionRepository,
) *PredictionService {
	return &PredictionService{
		predictor:      predictor,
		predictionRepo: predictionRepo,
	}
}

// Predict classifies the submitted features, stores the result in the
// caller's history and returns the classification outcome. The response
// carries the probability distribution as a map; only the stored row keeps
// the serialized string form.
func (s *PredictionService) Predict(ctx context.Context, userID int64, input *models.PredictionInput) (*models.PredictionResponse, error) {
	startTime := time.Now()

	result, err := s.predictor.Predict(*input)
	if err != nil {
		return nil, fmt.Errorf("model inference failed: %w", err)
	}

	// Probabilities are stored as a JSON object keyed by class label
	probabilities, err := json.Marshal(result.Probabilities)
	if err != nil {
		return nil, fmt.Errorf("failed to encode probabilities: %w", err)
	}

	prediction := models.NewPrediction(userID, *input, result.Label, result.Confidence, string(probabilities))
	if err := s.predictionRepo.Create(ctx, prediction); err != nil {
		return nil, err
	}

	utils.LogPrediction(userID, result.Label, result.Confidence, time.Since(startTime))

	return &models.PredictionResponse{
		PredictedClass: result.Label,
		Confidence:     result.Confidence,
		Probabilities:  result.Probabilities,
	}, nil
}

// GetPrediction returns one of the caller's history entries. Entries owned by
// other users surface as not found so record IDs do not leak across accounts.
func (s *PredictionService) GetPrediction(ctx context.Context, userID, predictionID int64) (*models.Prediction, error) {
	prediction, err := s.predictionRepo.GetByID(ctx, predictionID)
	if err != nil {
		return nil, err
	}
	if prediction.UserID != userID {
		return nil, utils.NewNotFoundError("Prediction", predictionID)
	}
	return prediction, nil
}

// ClearHistory removes all of the caller's predictions and returns the number
// of entries removed.
func (s *PredictionService) ClearHistory(ctx context.Context, userID int64) (int64, error) {
	deleted, err := s.predictionRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear prediction history: %w", err)
	}
	return deleted, nil
}

// GetHistory returns a page of the user's predictions, newest first, along
// with the user's total prediction count.
func (s *PredictionService) GetHistory(ctx context.Context, userID int64, page, pageSize int) ([]*models.Prediction, int, error) {
	predictions, total, err := s.predictionRepo.GetByUserID(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get prediction history: %w", err)
	}
	return predictions, total, nil
}

// ModelInfo returns the metadata describing the loaded model.
func (s *PredictionService) ModelInfo() ml.Metadata {
	return s.predictor.Info()
}
