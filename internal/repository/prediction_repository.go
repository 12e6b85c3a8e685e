package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/vitapredict/obesity-backend/internal/database"
	"github.com/vitapredict/obesity-backend/internal/models"
	"github.com/vitapredict/obesity-backend/internal/utils"
)

// PredictionRepository defines methods for persisting classification results
type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.Prediction) error
	GetByID(ctx context.Context, id int64) (*models.Prediction, error)
	GetByUserID(ctx context.Context, userID int64, page, pageSize int) ([]*models.Prediction, int, error)
	CountByUserID(ctx context.Context, userID int64) (int, error)
	Count(ctx context.Context) (int, error)
	DeleteByUserID(ctx context.Context, userID int64) (int64, error)
}

// PostgresPredictionRepository is a PostgreSQL implementation of PredictionRepository
type PostgresPredictionRepository struct {
	db *database.Pool
}

// NewPredictionRepository creates a new PredictionRepository
func NewPredictionRepository(db *database.Pool) PredictionRepository {
	return &PostgresPredictionRepository{
		db: db,
	}
}

// predictionColumns is the canonical select list for prediction rows. The
// sixteen feature columns appear in training order.
const predictionColumns = `prediction_id, user_id,
        gender, age, height, weight, family_history_with_overweight, favc, fcvc, ncp,
        caec, smoke, ch2o, scc, faf, tue, calc, mtrans,
        predicted_class, confidence, probabilities, created_at`

// scanPrediction reads one prediction row including its input features.
func scanPrediction(scanner interface{ Scan(dest ...interface{}) error }) (*models.Prediction, error) {
	p := &models.Prediction{}
	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&p.Input.Gender,
		&p.Input.Age,
		&p.Input.Height,
		&p.Input.Weight,
		&p.Input.FamilyHistoryWithOverweight,
		&p.Input.FAVC,
		&p.Input.FCVC,
		&p.Input.NCP,
		&p.Input.CAEC,
		&p.Input.Smoke,
		&p.Input.CH2O,
		&p.Input.SCC,
		&p.Input.FAF,
		&p.Input.TUE,
		&p.Input.CALC,
		&p.Input.MTRANS,
		&p.PredictedClass,
		&p.Confidence,
		&p.Probabilities,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Create persists a prediction together with the input features it was made
// from, so history entries can be replayed without the original request.
func (r *PostgresPredictionRepository) Create(ctx context.Context, prediction *models.Prediction) error {
	// Start query timer
	startTime := time.Now()

	if prediction.CreatedAt.IsZero() {
		prediction.CreatedAt = time.Now()
	}

	query := `
        INSERT INTO predictions (
            user_id,
            gender, age, height, weight, family_history_with_overweight, favc, fcvc, ncp,
            caec, smoke, ch2o, scc, faf, tue, calc, mtrans,
            predicted_class, confidence, probabilities, created_at
        )
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
        RETURNING prediction_id
    `

	in := prediction.Input
	args := []interface{}{
		prediction.UserID,
		in.Gender, in.Age, in.Height, in.Weight, in.FamilyHistoryWithOverweight, in.FAVC, in.FCVC, in.NCP,
		in.CAEC, in.Smoke, in.CH2O, in.SCC, in.FAF, in.TUE, in.CALC, in.MTRANS,
		prediction.PredictedClass, prediction.Confidence, prediction.Probabilities, prediction.CreatedAt,
	}

	err := r.db.QueryRowContext(ctx, query, args...).Scan(&prediction.ID)

	// Log the query execution
	utils.LogDBQuery(
		query,
		args,
		time.Since(startTime),
		err,
	)

	if err != nil {
		// A missing owner surfaces as a foreign key violation
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return utils.NewNotFoundError("User", prediction.UserID)
		}
		return fmt.Errorf("failed to create prediction: %w", err)
	}

	log.Info().
		Int64("prediction_id", prediction.ID).
		Int64("user_id", prediction.UserID).
		Str("predicted_class", prediction.PredictedClass).
		Msg("Prediction saved")

	return nil
}

// GetByID retrieves a prediction by ID
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id int64) (*models.Prediction, error) {
	// Start query timer
	startTime := time.Now()

	query := fmt.Sprintf(`SELECT %s FROM predictions WHERE prediction_id = $1`, predictionColumns)

	prediction, err := scanPrediction(r.db.QueryRowContext(ctx, query, id))

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{id},
		time.Since(startTime),
		err,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, utils.NewNotFoundError("Prediction", id)
		}
		return nil, fmt.Errorf("failed to get prediction by ID: %w", err)
	}

	return prediction, nil
}

// GetByUserID retrieves a page of a user's predictions ordered newest first,
// along with the user's total prediction count for pagination metadata.
func (r *PostgresPredictionRepository) GetByUserID(ctx context.Context, userID int64, page, pageSize int) ([]*models.Prediction, int, error) {
	// Start query timer
	startTime := time.Now()

	total, err := r.CountByUserID(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
        SELECT %s
        FROM predictions
        WHERE user_id = $1
        ORDER BY created_at DESC, prediction_id DESC
        LIMIT $2 OFFSET $3
    `, predictionColumns)

	offset := (page - 1) * pageSize
	rows, err := r.db.QueryContext(ctx, query, userID, pageSize, offset)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID, pageSize, offset},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return nil, 0, fmt.Errorf("failed to get predictions for user: %w", err)
	}
	defer rows.Close()

	var predictions []*models.Prediction
	for rows.Next() {
		prediction, err := scanPrediction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan prediction row: %w", err)
		}
		predictions = append(predictions, prediction)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating prediction rows: %w", err)
	}

	return predictions, total, nil
}

// CountByUserID returns the number of predictions a user has made.
func (r *PostgresPredictionRepository) CountByUserID(ctx context.Context, userID int64) (int, error) {
	// Start query timer
	startTime := time.Now()

	query := "SELECT COUNT(*) FROM predictions WHERE user_id = $1"

	var count int
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return 0, fmt.Errorf("failed to count predictions for user: %w", err)
	}

	return count, nil
}

// Count returns the total number of predictions across all users.
func (r *PostgresPredictionRepository) Count(ctx context.Context) (int, error) {
	// Start query timer
	startTime := time.Now()

	query := "SELECT COUNT(*) FROM predictions"

	var count int
	err := r.db.QueryRowContext(ctx, query).Scan(&count)

	// Log the query execution
	utils.LogDBQuery(
		query,
		nil,
		time.Since(startTime),
		err,
	)

	if err != nil {
		return 0, fmt.Errorf("failed to count predictions: %w", err)
	}

	return count, nil
}

// DeleteByUserID removes all predictions owned by a user and returns the
// number of rows removed. User deletion cascades in the database; this exists
// for explicit history clearing.
func (r *PostgresPredictionRepository) DeleteByUserID(ctx context.Context, userID int64) (int64, error) {
	// Start query timer
	startTime := time.Now()

	query := "DELETE FROM predictions WHERE user_id = $1"
	result, err := r.db.ExecContext(ctx, query, userID)

	// Log the query execution
	utils.LogDBQuery(
		query,
		[]interface{}{userID},
		time.Since(startTime),
		err,
	)

	if err != nil {
		return 0, fmt.Errorf("failed to delete predictions for user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	log.Info().
		Int64("user_id", userID).
		Int64("deleted", rowsAffected).
		Msg("Prediction history cleared")

	return rowsAffected, nil
}
