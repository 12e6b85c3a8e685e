package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vitapredict/obesity-backend/internal/ml"
	"github.com/vitapredict/obesity-backend/internal/models"
	"github.com/vitapredict/obesity-backend/internal/utils"
)

// stubPredictionService implements PredictionServiceInterface with
// overridable functions.
type stubPredictionService struct {
	predictFn       func(ctx context.Context, userID int64, input *models.PredictionInput) (*models.PredictionResponse, error)
	getPredictionFn func(ctx context.Context, userID, predictionID int64) (*models.Prediction, error)
	getHistoryFn    func(ctx context.Context, userID int64, page, pageSize int) ([]*models.Prediction, int, error)
	clearHistoryFn  func(ctx context.Context, userID int64) (int64, error)
	modelInfoFn     func() ml.Metadata
}

func (s *stubPredictionService) Predict(ctx context.Context, userID int64, input *models.PredictionInput) (*models.PredictionResponse, error) {
	return s.predictFn(ctx, userID, input)
}

func (s *stubPredictionService) GetPrediction(ctx context.Context, userID, predictionID int64) (*models.Prediction, error) {
	return s.getPredictionFn(ctx, userID, predictionID)
}

func (s *stubPredictionService) GetHistory(ctx context.Context, userID int64, page, pageSize int) ([]*models.Prediction, int, error) {
	return s.getHistoryFn(ctx, userID, page, pageSize)
}

func (s *stubPredictionService) ClearHistory(ctx context.Context, userID int64) (int64, error) {
	return s.clearHistoryFn(ctx, userID)
}

func (s *stubPredictionService) ModelInfo() ml.Metadata {
	return s.modelInfoFn()
}

const validPredictionPayload = `{
	"gender": "Male",
	"age": 24,
	"height": 1.8,
	"weight": 90,
	"family_history_with_overweight": "yes",
	"favc": "yes",
	"fcvc": 2,
	"ncp": 3,
	"caec": "Sometimes",
	"smoke": "no",
	"ch2o": 2,
	"scc": "no",
	"faf": 1,
	"tue": 1,
	"calc": "Sometimes",
	"mtrans": "Public_Transportation"
}`

func TestPredict(t *testing.T) {
	svc := &stubPredictionService{
		predictFn: func(ctx context.Context, userID int64, input *models.PredictionInput) (*models.PredictionResponse, error) {
			return &models.PredictionResponse{
				PredictedClass: "Obesity_Type_I",
				Confidence:     0.91,
				Probabilities:  map[string]float64{"Obesity_Type_I": 0.91, "Normal_Weight": 0.09},
			}, nil
		},
	}
	handler := NewPredictionHandler(svc)

	t.Run("Valid input returns the classification result", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/prediction", bytes.NewBufferString(validPredictionPayload))
		req.Header.Set("Content-Type", "application/json")
		req = authedRequest(req, 1)
		rec := httptest.NewRecorder()

		handler.Predict(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
		}

		body := decodeResponse(t, rec)
		data, _ := body["data"].(map[string]interface{})
		if data["predicted_class"] != "Obesity_Type_I" {
			t.Errorf("Expected predicted class, got %v", data["predicted_class"])
		}
		if data["confidence"] != 0.91 {
			t.Errorf("Expected confidence 0.91, got %v", data["confidence"])
		}

		// The distribution is a JSON object keyed by class, not a string
		probs, ok := data["probabilities"].(map[string]interface{})
		if !ok {
			t.Fatalf("Expected probabilities object, got %T", data["probabilities"])
		}
		if probs["Normal_Weight"] != 0.09 {
			t.Errorf("Expected Normal_Weight probability 0.09, got %v", probs["Normal_Weight"])
		}
	})

	t.Run("Missing identity returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/prediction", bytes.NewBufferString(validPredictionPayload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()

		handler.Predict(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", rec.Code)
		}
	})

	t.Run("Invalid input returns 400", func(t *testing.T) {
		payload := `{"gender": "Male", "age": -5}`
		req := httptest.NewRequest(http.MethodPost, "/api/prediction", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		req = authedRequest(req, 1)
		rec := httptest.NewRecorder()

		handler.Predict(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("Service failure returns 500", func(t *testing.T) {
		failing := &stubPredictionService{
			predictFn: func(ctx context.Context, userID int64, input *models.PredictionInput) (*models.PredictionResponse, error) {
				return nil, utils.NewInternalServerError(context.DeadlineExceeded)
			},
		}
		failingHandler := NewPredictionHandler(failing)

		req := httptest.NewRequest(http.MethodPost, "/api/prediction", bytes.NewBufferString(validPredictionPayload))
		req.Header.Set("Content-Type", "application/json")
		req = authedRequest(req, 1)
		rec := httptest.NewRecorder()

		failingHandler.Predict(rec, req)

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("Expected status 500, got %d", rec.Code)
		}
	})
}

func TestGetPrediction(t *testing.T) {
	svc := &stubPredictionService{
		getPredictionFn: func(ctx context.Context, userID, predictionID int64) (*models.Prediction, error) {
			if predictionID != 7 {
				return nil, utils.NewNotFoundError("Prediction", predictionID)
			}
			return &models.Prediction{
				ID:             7,
				UserID:         userID,
				PredictedClass: "Normal_Weight",
				Confidence:     0.8,
				Probabilities:  `{"Normal_Weight": 0.8}`,
				CreatedAt:      time.Now(),
			}, nil
		},
	}
	handler := NewPredictionHandler(svc)

	t.Run("Own history entry is returned", func(t *testing.T) {
		req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/prediction/7", nil), 1)
		req = withURLParam(req, "predictionID", "7")
		rec := httptest.NewRecorder()

		handler.GetPrediction(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		body := decodeResponse(t, rec)
		data, _ := body["data"].(map[string]interface{})
		if data["predicted_class"] != "Normal_Weight" {
			t.Errorf("Expected predicted class, got %v", data["predicted_class"])
		}
	})

	t.Run("Unknown entry returns 404", func(t *testing.T) {
		req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/prediction/99", nil), 1)
		req = withURLParam(req, "predictionID", "99")
		rec := httptest.NewRecorder()

		handler.GetPrediction(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", rec.Code)
		}
	})

	t.Run("Malformed ID returns 400", func(t *testing.T) {
		req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/prediction/abc", nil), 1)
		req = withURLParam(req, "predictionID", "abc")
		rec := httptest.NewRecorder()

		handler.GetPrediction(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", rec.Code)
		}
	})

	t.Run("Missing identity returns 401", func(t *testing.T) {
		req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/prediction/7", nil), "predictionID", "7")
		rec := httptest.NewRecorder()

		handler.GetPrediction(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", rec.Code)
		}
	})
}

func TestHistory(t *testing.T) {
	svc := &stubPredictionService{
		getHistoryFn: func(ctx context.Context, userID int64, page, pageSize int) ([]*models.Prediction, int, error) {
			return []*models.Prediction{
				{ID: 2, UserID: userID, PredictedClass: "Normal_Weight"},
				{ID: 1, UserID: userID, PredictedClass: "Obesity_Type_I"},
			}, 2, nil
		},
	}
	handler := NewPredictionHandler(svc)

	t.Run("Returns paginated history", func(t *testing.T) {
		req := authedRequest(httptest.NewRequest(http.MethodGet, "/api/prediction/history?page=1&page_size=10", nil), 1)
		rec := httptest.NewRecorder()

		handler.History(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		body := decodeResponse(t, rec)
		data, _ := body["data"].([]interface{})
		if len(data) != 2 {
			t.Errorf("Expected 2 predictions, got %d", len(data))
		}
	})

	t.Run("Missing identity returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/prediction/history", nil)
		rec := httptest.NewRecorder()

		handler.History(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", rec.Code)
		}
	})
}

func TestClearHistory(t *testing.T) {
	svc := &stubPredictionService{
		clearHistoryFn: func(ctx context.Context, userID int64) (int64, error) {
			return 3, nil
		},
	}
	handler := NewPredictionHandler(svc)

	t.Run("Reports the number of removed entries", func(t *testing.T) {
		req := authedRequest(httptest.NewRequest(http.MethodDelete, "/api/prediction/history", nil), 1)
		rec := httptest.NewRecorder()

		handler.ClearHistory(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		body := decodeResponse(t, rec)
		data, _ := body["data"].(map[string]interface{})
		if data["deleted"] != float64(3) {
			t.Errorf("Expected 3 deleted entries, got %v", data["deleted"])
		}
	})

	t.Run("Missing identity returns 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/prediction/history", nil)
		rec := httptest.NewRecorder()

		handler.ClearHistory(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("Expected status 401, got %d", rec.Code)
		}
	})
}

func TestModelInfo(t *testing.T) {
	svc := &stubPredictionService{
		modelInfoFn: func() ml.Metadata {
			return ml.Metadata{
				"model_name": "RandomForestClassifier",
				"n_trees":    100,
			}
		},
	}
	handler := NewPredictionHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	rec := httptest.NewRecorder()

	handler.ModelInfo(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	body := decodeResponse(t, rec)
	data, _ := body["data"].(map[string]interface{})
	if data["model_name"] != "RandomForestClassifier" {
		t.Errorf("Expected model name in metadata, got %v", data["model_name"])
	}
}
