// Package ml implements the obesity level classifier serving path: feature
// encoding, standard scaling, and random forest inference over artifacts
// produced by the offline trainer. The package also contains the training
// code itself, so the serialized artifacts are written and read by the same
// data structures.
package ml

import (
	"fmt"
	"sort"
)

// FeatureOrder is the pinned column order of the training dataset. Feature
// vectors handed to the scaler and the forest must follow this order exactly.
var FeatureOrder = []string{
	"Gender",
	"Age",
	"Height",
	"Weight",
	"family_history_with_overweight",
	"FAVC",
	"FCVC",
	"NCP",
	"CAEC",
	"SMOKE",
	"CH2O",
	"SCC",
	"FAF",
	"TUE",
	"CALC",
	"MTRANS",
}

// CategoricalFeatures names the columns that carry string categories and are
// label-encoded before scaling.
var CategoricalFeatures = []string{
	"Gender",
	"family_history_with_overweight",
	"FAVC",
	"CAEC",
	"SMOKE",
	"SCC",
	"CALC",
	"MTRANS",
}

// Encoders holds the fitted categorical vocabularies, the target class
// vocabulary, and the feature order the model was trained with.
type Encoders struct {
	// FeatureOrder is the column order the model expects.
	FeatureOrder []string `json:"feature_order"`

	// Categorical maps each categorical column to its sorted vocabulary.
	// A category's code is its index in the slice.
	Categorical map[string][]string `json:"categorical"`

	// TargetClasses is the sorted vocabulary of the target column. A class
	// index produced by the forest resolves to a label through this slice.
	TargetClasses []string `json:"target_classes"`
}

// NewEncoders fits vocabularies from raw string columns. Vocabularies are
// sorted so that category codes are stable across runs.
func NewEncoders(categorical map[string][]string, targetValues []string) *Encoders {
	enc := &Encoders{
		FeatureOrder: append([]string(nil), FeatureOrder...),
		Categorical:  make(map[string][]string, len(categorical)),
	}

	for column, values := range categorical {
		enc.Categorical[column] = sortedUnique(values)
	}
	enc.TargetClasses = sortedUnique(targetValues)

	return enc
}

// ResolveCategory returns the integer code for a category value in the given
// column. Values outside the fitted vocabulary map to code 0 so that a novel
// category degrades to the first known one instead of failing the request.
func (e *Encoders) ResolveCategory(column, value string) int {
	vocab, ok := e.Categorical[column]
	if !ok {
		return 0
	}
	for i, v := range vocab {
		if v == value {
			return i
		}
	}
	return 0
}

// EncodeTarget returns the integer code of a target label, or an error when
// the label was not seen during fitting. Unlike feature categories, target
// labels never fall back silently because a wrong target corrupts training.
func (e *Encoders) EncodeTarget(label string) (int, error) {
	for i, v := range e.TargetClasses {
		if v == label {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown target label %q", label)
}

// DecodeTarget resolves a class index back to its label.
func (e *Encoders) DecodeTarget(index int) (string, error) {
	if index < 0 || index >= len(e.TargetClasses) {
		return "", fmt.Errorf("class index %d out of range [0, %d)", index, len(e.TargetClasses))
	}
	return e.TargetClasses[index], nil
}

// IsCategorical reports whether a column holds string categories.
func (e *Encoders) IsCategorical(column string) bool {
	_, ok := e.Categorical[column]
	return ok
}

// Validate checks that the encoders describe a usable feature space: the
// feature order must be non-empty, every categorical column must appear in
// the feature order, and the target vocabulary must not be empty.
func (e *Encoders) Validate() error {
	if len(e.FeatureOrder) == 0 {
		return fmt.Errorf("encoders artifact has an empty feature order")
	}
	if len(e.TargetClasses) == 0 {
		return fmt.Errorf("encoders artifact has no target classes")
	}

	// The artifact must describe the exact column set this build was
	// compiled against, in the same order
	if len(e.FeatureOrder) != len(FeatureOrder) {
		return fmt.Errorf("encoders artifact describes %d features, expected %d",
			len(e.FeatureOrder), len(FeatureOrder))
	}
	for i, column := range e.FeatureOrder {
		if column != FeatureOrder[i] {
			return fmt.Errorf("encoders artifact feature %d is %q, expected %q",
				i, column, FeatureOrder[i])
		}
	}

	position := make(map[string]bool, len(e.FeatureOrder))
	for _, column := range e.FeatureOrder {
		position[column] = true
	}
	for column, vocab := range e.Categorical {
		if !position[column] {
			return fmt.Errorf("categorical column %q is not in the feature order", column)
		}
		if len(vocab) == 0 {
			return fmt.Errorf("categorical column %q has an empty vocabulary", column)
		}
	}

	return nil
}

// sortedUnique returns the sorted set of distinct values in a column.
func sortedUnique(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
