package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vitapredict/obesity-backend/internal/auth"
	"github.com/vitapredict/obesity-backend/internal/constants"
	"github.com/vitapredict/obesity-backend/internal/models"
	"github.com/vitapredict/obesity-backend/internal/utils"
)

// PredictionHandler handles model inference and history routes
type PredictionHandler struct {
	predictionService PredictionServiceInterface
}

// NewPredictionHandler creates a new PredictionHandler
func NewPredictionHandler(predictionService PredictionServiceInterface) *PredictionHandler {
	if predictionService == nil {
		panic("predictionService cannot be nil")
	}
	return &PredictionHandler{
		predictionService: predictionService,
	}
}

// Predict classifies the submitted features and stores the result in the
// caller's history.
func (h *PredictionHandler) Predict(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	// Decode and validate the request body
	var input models.PredictionInput
	if err := utils.DecodeAndValidate(r, &input); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	result, err := h.predictionService.Predict(r.Context(), userID, &input)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusCreated, result)
}

// GetPrediction returns a single entry from the caller's history.
func (h *PredictionHandler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	raw := chi.URLParam(r, "predictionID")
	predictionID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || predictionID <= 0 {
		utils.BadRequest(w, "Invalid prediction ID", map[string]string{"predictionID": "must be a positive integer"})
		return
	}

	prediction, err := h.predictionService.GetPrediction(r.Context(), userID, predictionID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, prediction)
}

// History returns a page of the caller's predictions, newest first.
func (h *PredictionHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	params := utils.GetPaginationParams(r)

	predictions, total, err := h.predictionService.GetHistory(r.Context(), userID, params.Page, params.PageSize)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.Paginated(w, http.StatusOK, predictions, params.Page, params.PageSize, total)
}

// ClearHistory removes all of the caller's predictions and reports how many
// entries were removed.
func (h *PredictionHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	deleted, err := h.predictionService.ClearHistory(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}

// ModelInfo exposes the loaded model's metadata.
func (h *PredictionHandler) ModelInfo(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, h.predictionService.ModelInfo())
}
