package ml

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/vitapredict/obesity-backend/internal/config"
	"github.com/vitapredict/obesity-backend/internal/constants"
)

// Metadata carries optional descriptive information about the trained model.
// The keys are free-form and reported verbatim by the metrics endpoint.
type Metadata map[string]interface{}

// Artifacts bundles everything the serving path needs: the forest, the
// scaler, the encoders, and optional metadata.
type Artifacts struct {
	Forest   *Forest
	Scaler   *Scaler
	Encoders *Encoders
	Metadata Metadata
}

// LoadArtifacts reads the serving artifacts from disk. The model, scaler and
// encoders artifacts are required; a missing or unreadable metadata artifact
// only produces a warning since the metrics endpoint has a fallback.
func LoadArtifacts(cfg *config.ModelSettings) (*Artifacts, error) {
	var forest Forest
	if err := readJSONFile(cfg.ModelPath(), &forest); err != nil {
		return nil, fmt.Errorf("loading model artifact: %w", err)
	}
	if err := forest.Validate(); err != nil {
		return nil, fmt.Errorf("model artifact: %w", err)
	}

	var scaler Scaler
	if err := readJSONFile(cfg.ScalerPath(), &scaler); err != nil {
		return nil, fmt.Errorf("loading scaler artifact: %w", err)
	}
	if err := scaler.Validate(); err != nil {
		return nil, fmt.Errorf("scaler artifact: %w", err)
	}

	var encoders Encoders
	if err := readJSONFile(cfg.EncodersPath(), &encoders); err != nil {
		return nil, fmt.Errorf("loading encoders artifact: %w", err)
	}
	if err := encoders.Validate(); err != nil {
		return nil, fmt.Errorf("encoders artifact: %w", err)
	}

	// The three artifacts must agree on the feature space and class count
	if len(scaler.Mean) != len(encoders.FeatureOrder) {
		return nil, fmt.Errorf("scaler covers %d columns but encoders describe %d features",
			len(scaler.Mean), len(encoders.FeatureOrder))
	}
	if forest.NumClasses != len(encoders.TargetClasses) {
		return nil, fmt.Errorf("forest predicts %d classes but encoders describe %d",
			forest.NumClasses, len(encoders.TargetClasses))
	}

	var metadata Metadata
	if err := readJSONFile(cfg.MetadataPath(), &metadata); err != nil {
		log.Warn().Err(err).Str("path", cfg.MetadataPath()).Msg("Metadata artifact unavailable, using fallback")
		metadata = nil
	}

	log.Info().
		Str("category", constants.LogCategoryModel).
		Int("trees", len(forest.Trees)).
		Int("classes", forest.NumClasses).
		Int("features", len(encoders.FeatureOrder)).
		Msg("Model artifacts loaded")

	return &Artifacts{
		Forest:   &forest,
		Scaler:   &scaler,
		Encoders: &encoders,
		Metadata: metadata,
	}, nil
}

// SaveArtifacts writes the serving artifacts to the configured paths. Used
// by the offline trainer.
func SaveArtifacts(cfg *config.ModelSettings, artifacts *Artifacts) error {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("creating artifact directory: %w", err)
	}

	if err := writeJSONFile(cfg.ModelPath(), artifacts.Forest); err != nil {
		return fmt.Errorf("writing model artifact: %w", err)
	}
	if err := writeJSONFile(cfg.ScalerPath(), artifacts.Scaler); err != nil {
		return fmt.Errorf("writing scaler artifact: %w", err)
	}
	if err := writeJSONFile(cfg.EncodersPath(), artifacts.Encoders); err != nil {
		return fmt.Errorf("writing encoders artifact: %w", err)
	}
	if artifacts.Metadata != nil {
		if err := writeJSONFile(cfg.MetadataPath(), artifacts.Metadata); err != nil {
			return fmt.Errorf("writing metadata artifact: %w", err)
		}
	}

	return nil
}

func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func writeJSONFile(path string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
