package ml

import (
	"fmt"
	"math"
)

// Scaler standardizes feature vectors to zero mean and unit variance using
// per-column statistics fitted during training.
type Scaler struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// FitScaler computes per-column mean and standard deviation over the rows.
// Columns with zero variance get a scale of 1 so transformation is a no-op
// for them, matching the behavior of common standard scalers.
func FitScaler(rows [][]float64) (*Scaler, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("cannot fit scaler on an empty dataset")
	}

	cols := len(rows[0])
	mean := make([]float64, cols)
	scale := make([]float64, cols)

	for _, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("ragged dataset: expected %d columns, got %d", cols, len(row))
		}
		for j, v := range row {
			mean[j] += v
		}
	}
	n := float64(len(rows))
	for j := range mean {
		mean[j] /= n
	}

	for _, row := range rows {
		for j, v := range row {
			d := v - mean[j]
			scale[j] += d * d
		}
	}
	for j := range scale {
		scale[j] = math.Sqrt(scale[j] / n)
		if scale[j] == 0 {
			scale[j] = 1
		}
	}

	return &Scaler{Mean: mean, Scale: scale}, nil
}

// Transform standardizes a single feature vector in place-safe fashion,
// returning a new slice.
func (s *Scaler) Transform(features []float64) ([]float64, error) {
	if len(features) != len(s.Mean) {
		return nil, fmt.Errorf("feature vector has %d columns, scaler expects %d", len(features), len(s.Mean))
	}

	out := make([]float64, len(features))
	for j, v := range features {
		out[j] = (v - s.Mean[j]) / s.Scale[j]
	}
	return out, nil
}

// TransformAll standardizes every row of a dataset.
func (s *Scaler) TransformAll(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}

// Validate checks that the scaler statistics are usable.
func (s *Scaler) Validate() error {
	if len(s.Mean) == 0 {
		return fmt.Errorf("scaler artifact has no statistics")
	}
	if len(s.Mean) != len(s.Scale) {
		return fmt.Errorf("scaler mean and scale lengths differ: %d vs %d", len(s.Mean), len(s.Scale))
	}
	for j, v := range s.Scale {
		if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("scaler column %d has invalid scale %v", j, v)
		}
	}
	return nil
}
