// Package main is the offline trainer for the obesity level classifier.
// It fits the encoders, the scaler and the random forest on the raw CSV
// dataset and writes the serving artifacts consumed by the API server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vitapredict/obesity-backend/internal/config"
	"github.com/vitapredict/obesity-backend/internal/constants"
	"github.com/vitapredict/obesity-backend/internal/ml"
)

func main() {
	var (
		datasetPath  string
		outputDir    string
		numTrees     int
		maxDepth     int
		testFraction float64
		seed         int64
	)

	defaults := ml.DefaultTrainingConfig()

	flag.StringVar(&datasetPath, "dataset", "./data/obesity.csv", "Path to the raw training dataset (CSV)")
	flag.StringVar(&outputDir, "out", constants.DefaultModelDir, "Directory to write model artifacts to")
	flag.IntVar(&numTrees, "trees", defaults.NumTrees, "Number of trees in the forest")
	flag.IntVar(&maxDepth, "depth", defaults.MaxDepth, "Maximum tree depth")
	flag.Float64Var(&testFraction, "test-fraction", 0.2, "Fraction of rows held out for evaluation")
	flag.Int64Var(&seed, "seed", defaults.Seed, "Random seed for the split and the forest")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	modelCfg := &config.ModelSettings{
		Dir:          outputDir,
		ModelFile:    constants.ModelArtifactFile,
		ScalerFile:   constants.ScalerArtifactFile,
		EncodersFile: constants.EncodersArtifactFile,
		MetadataFile: constants.MetadataArtifactFile,
	}

	trainingCfg := defaults
	trainingCfg.NumTrees = numTrees
	trainingCfg.MaxDepth = maxDepth
	trainingCfg.Seed = seed

	if err := train(datasetPath, modelCfg, trainingCfg, testFraction); err != nil {
		log.Fatal().Err(err).Msg("Training failed")
	}
}

// train runs the full training pipeline: load, encode, scale, split, fit,
// evaluate and persist.
func train(datasetPath string, modelCfg *config.ModelSettings, trainingCfg ml.TrainingConfig, testFraction float64) error {
	startTime := time.Now()

	log.Info().
		Str("category", constants.LogCategoryModel).
		Str("dataset", datasetPath).
		Msg("Loading training dataset")

	dataset, err := ml.LoadDataset(datasetPath)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}

	encoders, err := dataset.FitEncoders()
	if err != nil {
		return fmt.Errorf("fitting encoders: %w", err)
	}

	rows, labels, err := dataset.Encode(encoders)
	if err != nil {
		return fmt.Errorf("encoding dataset: %w", err)
	}

	// The scaler is fitted on the full dataset so the serving path sees the
	// same feature distribution the forest was trained against.
	scaler, err := ml.FitScaler(rows)
	if err != nil {
		return fmt.Errorf("fitting scaler: %w", err)
	}
	scaled, err := scaler.TransformAll(rows)
	if err != nil {
		return fmt.Errorf("scaling dataset: %w", err)
	}

	trainIdx, testIdx, err := ml.StratifiedSplit(labels, testFraction, trainingCfg.Seed)
	if err != nil {
		return fmt.Errorf("splitting dataset: %w", err)
	}
	trainRows, trainLabels := ml.Subset(scaled, labels, trainIdx)
	testRows, testLabels := ml.Subset(scaled, labels, testIdx)

	log.Info().
		Str("category", constants.LogCategoryModel).
		Int("train_rows", len(trainRows)).
		Int("test_rows", len(testRows)).
		Int("classes", len(encoders.TargetClasses)).
		Int("trees", trainingCfg.NumTrees).
		Msg("Fitting random forest")

	forest, err := ml.FitForest(trainRows, trainLabels, len(encoders.TargetClasses), trainingCfg)
	if err != nil {
		return fmt.Errorf("fitting forest: %w", err)
	}

	accuracy, err := ml.Accuracy(forest, testRows, testLabels)
	if err != nil {
		return fmt.Errorf("evaluating forest: %w", err)
	}

	metadata := ml.Metadata{
		"model_name": constants.FallbackModelName,
		"n_trees":    trainingCfg.NumTrees,
		"max_depth":  trainingCfg.MaxDepth,
		"n_classes":  forest.NumClasses,
		"n_features": len(encoders.FeatureOrder),
		"accuracy":   accuracy,
		"trained_at": time.Now().UTC().Format(time.RFC3339),
	}

	artifacts := &ml.Artifacts{
		Forest:   forest,
		Scaler:   scaler,
		Encoders: encoders,
		Metadata: metadata,
	}
	if err := ml.SaveArtifacts(modelCfg, artifacts); err != nil {
		return fmt.Errorf("saving artifacts: %w", err)
	}

	log.Info().
		Str("category", constants.LogCategoryModel).
		Str("dir", modelCfg.Dir).
		Float64("accuracy", accuracy).
		Dur("duration", time.Since(startTime)).
		Msg("Training completed, artifacts written")

	return nil
}
