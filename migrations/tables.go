package migrations

import (
	"context"
	"database/sql"
)

// createUsersTable creates the users table
func createUsersTable() Migration {
	return Migration{
		Name:        "create_users_table",
		Description: "Creates the users table",
		TableName:   "users",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS users (
					user_id BIGSERIAL PRIMARY KEY,
					username VARCHAR(50) NOT NULL,
					email VARCHAR(255) NOT NULL,
					password_hash VARCHAR(255) NOT NULL,
					salt VARCHAR(255) NOT NULL,
					is_admin BOOLEAN NOT NULL DEFAULT FALSE,
					is_active BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT idx_username UNIQUE (username),
					CONSTRAINT idx_email UNIQUE (email)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createPredictionsTable creates the predictions table.
// Each row stores the full feature vector submitted by the user alongside the
// classification outcome, so history entries can be replayed later.
func createPredictionsTable() Migration {
	return Migration{
		Name:        "create_predictions_table",
		Description: "Creates the predictions table",
		TableName:   "predictions",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS predictions (
					prediction_id BIGSERIAL PRIMARY KEY,
					user_id BIGINT NOT NULL,
					gender VARCHAR(20) NOT NULL,
					age DOUBLE PRECISION NOT NULL,
					height DOUBLE PRECISION NOT NULL,
					weight DOUBLE PRECISION NOT NULL,
					family_history_with_overweight VARCHAR(10) NOT NULL,
					favc VARCHAR(10) NOT NULL,
					fcvc DOUBLE PRECISION NOT NULL,
					ncp DOUBLE PRECISION NOT NULL,
					caec VARCHAR(20) NOT NULL,
					smoke VARCHAR(10) NOT NULL,
					ch2o DOUBLE PRECISION NOT NULL,
					scc VARCHAR(10) NOT NULL,
					faf DOUBLE PRECISION NOT NULL,
					tue DOUBLE PRECISION NOT NULL,
					calc VARCHAR(20) NOT NULL,
					mtrans VARCHAR(50) NOT NULL,
					predicted_class VARCHAR(50) NOT NULL,
					confidence DOUBLE PRECISION NOT NULL,
					probabilities TEXT NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT fk_user FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
				)
			`
			_, err := tx.ExecContext(ctx, query)
			if err != nil {
				return err
			}

			// Create indexes
			indexes := []string{
				`CREATE INDEX IF NOT EXISTS idx_predictions_user_id ON predictions(user_id)`,
				`CREATE INDEX IF NOT EXISTS idx_predictions_created_at ON predictions(created_at)`,
			}

			for _, idx := range indexes {
				_, err = tx.ExecContext(ctx, idx)
				if err != nil {
					return err
				}
			}

			return nil
		},
	}
}
