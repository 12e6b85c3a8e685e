// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines constants related to database structures,
// including table names and frequently referenced column names. Using these
// constants instead of string literals ensures consistent database access
// patterns and simplifies schema changes.
package constants

// Table Names define the names of database tables used in the application.
const (
	// TableUsers is the name of the table storing user account information.
	TableUsers = "users"

	// TablePredictions is the name of the table storing persisted prediction records.
	TablePredictions = "predictions"
)

// Column Names define frequently referenced column names.
const (
	// ColumnUserID is the primary key column of the users table and the
	// foreign key column of the predictions table.
	ColumnUserID = "user_id"

	// ColumnPredictionID is the primary key column of the predictions table.
	ColumnPredictionID = "prediction_id"
)
