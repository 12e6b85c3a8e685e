package ml

import (
	"fmt"

	"github.com/vitapredict/obesity-backend/internal/constants"
	"github.com/vitapredict/obesity-backend/internal/models"
)

// Result is the outcome of one classification: the winning label, its
// probability, and the full class distribution.
type Result struct {
	Label         string
	Confidence    float64
	Probabilities map[string]float64
}

// Predictor runs the full serving pipeline: encode, scale, infer, decode.
// It is safe for concurrent use since all state is read-only after load.
type Predictor struct {
	artifacts *Artifacts
}

// NewPredictor wraps loaded artifacts in a serving pipeline.
func NewPredictor(artifacts *Artifacts) *Predictor {
	return &Predictor{artifacts: artifacts}
}

// Predict classifies one input. Categorical values outside the training
// vocabulary are mapped to the fallback code by the encoders rather than
// rejected.
func (p *Predictor) Predict(input models.PredictionInput) (*Result, error) {
	features, err := p.EncodeInput(input)
	if err != nil {
		return nil, err
	}

	scaled, err := p.artifacts.Scaler.Transform(features)
	if err != nil {
		return nil, err
	}

	probs, err := p.artifacts.Forest.PredictProba(scaled)
	if err != nil {
		return nil, err
	}

	winner := ArgMax(probs)
	label, err := p.artifacts.Encoders.DecodeTarget(winner)
	if err != nil {
		return nil, err
	}

	distribution := make(map[string]float64, len(probs))
	for i, prob := range probs {
		class, err := p.artifacts.Encoders.DecodeTarget(i)
		if err != nil {
			return nil, err
		}
		distribution[class] = prob
	}

	return &Result{
		Label:         label,
		Confidence:    probs[winner],
		Probabilities: distribution,
	}, nil
}

// EncodeInput turns a request payload into a raw (unscaled) feature vector
// following the trained feature order.
func (p *Predictor) EncodeInput(input models.PredictionInput) ([]float64, error) {
	enc := p.artifacts.Encoders
	features := make([]float64, len(enc.FeatureOrder))

	for i, column := range enc.FeatureOrder {
		value, err := featureValue(input, enc, column)
		if err != nil {
			return nil, err
		}
		features[i] = value
	}
	return features, nil
}

// Info returns the model metadata for the metrics endpoint. When no metadata
// artifact was loaded, a minimal fallback identifies the model family.
func (p *Predictor) Info() Metadata {
	if p.artifacts.Metadata != nil {
		return p.artifacts.Metadata
	}
	return Metadata{
		"model_name": constants.FallbackModelName,
		"status":     "loaded",
	}
}

// Classes returns the target class labels in index order.
func (p *Predictor) Classes() []string {
	return p.artifacts.Encoders.TargetClasses
}

// featureValue resolves one column of the feature vector from the input,
// label-encoding categorical columns.
func featureValue(input models.PredictionInput, enc *Encoders, column string) (float64, error) {
	switch column {
	case "Gender":
		return float64(enc.ResolveCategory(column, input.Gender)), nil
	case "Age":
		return input.Age, nil
	case "Height":
		return input.Height, nil
	case "Weight":
		return input.Weight, nil
	case "family_history_with_overweight":
		return float64(enc.ResolveCategory(column, input.FamilyHistoryWithOverweight)), nil
	case "FAVC":
		return float64(enc.ResolveCategory(column, input.FAVC)), nil
	case "FCVC":
		return input.FCVC, nil
	case "NCP":
		return input.NCP, nil
	case "CAEC":
		return float64(enc.ResolveCategory(column, input.CAEC)), nil
	case "SMOKE":
		return float64(enc.ResolveCategory(column, input.Smoke)), nil
	case "CH2O":
		return input.CH2O, nil
	case "SCC":
		return float64(enc.ResolveCategory(column, input.SCC)), nil
	case "FAF":
		return input.FAF, nil
	case "TUE":
		return input.TUE, nil
	case "CALC":
		return float64(enc.ResolveCategory(column, input.CALC)), nil
	case "MTRANS":
		return float64(enc.ResolveCategory(column, input.MTRANS)), nil
	default:
		return 0, fmt.Errorf("unknown feature column %q", column)
	}
}
