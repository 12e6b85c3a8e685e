package models

import (
	"time"
)

// PredictionInput carries the sixteen lifestyle and body measurement features
// the classifier was trained on. The JSON field names are the lowercase wire
// names clients submit; internally each field maps back to its training
// dataset column.
//
// Categorical fields accept free-form strings. Values outside the training
// vocabulary are mapped to a fallback code during encoding rather than
// rejected, so validation here only enforces presence and numeric ranges.
type PredictionInput struct {
	Gender                      string  `json:"gender" validate:"required"`
	Age                         float64 `json:"age" validate:"required,gt=0,lte=120"`
	Height                      float64 `json:"height" validate:"required,gt=0"`
	Weight                      float64 `json:"weight" validate:"required,gt=0"`
	FamilyHistoryWithOverweight string  `json:"family_history_with_overweight" validate:"required"`
	FAVC                        string  `json:"favc" validate:"required"`
	FCVC                        float64 `json:"fcvc" validate:"gte=0"`
	NCP                         float64 `json:"ncp" validate:"gte=0"`
	CAEC                        string  `json:"caec" validate:"required"`
	Smoke                       string  `json:"smoke" validate:"required"`
	CH2O                        float64 `json:"ch2o" validate:"gte=0"`
	SCC                         string  `json:"scc" validate:"required"`
	FAF                         float64 `json:"faf" validate:"gte=0"`
	TUE                         float64 `json:"tue" validate:"gte=0"`
	CALC                        string  `json:"calc" validate:"required"`
	MTRANS                      string  `json:"mtrans" validate:"required"`
}

// PredictionResponse is the wire shape of one classification outcome: the
// winning class, its probability, and the full class distribution as a real
// JSON object. History entries keep the stored string form instead.
type PredictionResponse struct {
	PredictedClass string             `json:"predicted_class"`
	Confidence     float64            `json:"confidence"`
	Probabilities  map[string]float64 `json:"probabilities"`
}

// Prediction represents a persisted classification result tied to the user
// who requested it. Probabilities are stored as a JSON object keyed by class
// label, serialized into a text column.
type Prediction struct {
	ID             int64           `json:"id" db:"prediction_id"`
	UserID         int64           `json:"user_id" db:"user_id"`
	Input          PredictionInput `json:"input"`
	PredictedClass string          `json:"predicted_class" db:"predicted_class"`
	Confidence     float64         `json:"confidence" db:"confidence"`
	Probabilities  string          `json:"probabilities" db:"probabilities"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}

// TableName returns the database table name for the Prediction model.
func (p *Prediction) TableName() string {
	return "predictions"
}

// NewPrediction creates a Prediction owned by the given user from a
// classification outcome.
func NewPrediction(userID int64, input PredictionInput, predictedClass string, confidence float64, probabilities string) *Prediction {
	return &Prediction{
		UserID:         userID,
		Input:          input,
		PredictedClass: predictedClass,
		Confidence:     confidence,
		Probabilities:  probabilities,
		CreatedAt:      time.Now(),
	}
}
