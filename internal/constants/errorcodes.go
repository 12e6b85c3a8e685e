// Package constants provides shared constant values used throughout the application.
//
// The errorcodes.go file defines constants related to error handling,
// categorization, and messaging. These constants ensure consistent error
// reporting throughout the application. User-facing error messages are
// crafted to be informative without revealing implementation details.
package constants

// User-Facing Error Messages define standardized messages that can be safely
// presented to users.
const (
	// MsgAuthRequired indicates that the user must authenticate to access the resource.
	MsgAuthRequired = "Authentication required"

	// MsgAdminRequired indicates that the action is restricted to administrators.
	MsgAdminRequired = "Administrator access required"

	// MsgPasswordsDoNotMatch indicates that the provided passwords do not match.
	MsgPasswordsDoNotMatch = "Passwords do not match"

	// MsgInvalidPassword indicates that login credentials are incorrect.
	MsgInvalidPassword = "Invalid username or password"

	// MsgInactiveAccount indicates that the account has been deactivated.
	MsgInactiveAccount = "This account has been deactivated"

	// MsgAccessDenied indicates that the user lacks permission for the requested action.
	MsgAccessDenied = "You don't have permission to access this resource"

	// MsgInternalServerError provides a generic server error message.
	MsgInternalServerError = "An internal server error occurred"

	// MsgTokenExpired indicates that the user's authentication token has expired.
	MsgTokenExpired = "Authentication token has expired"

	// MsgInvalidToken indicates that the provided token is invalid.
	MsgInvalidToken = "Invalid token"

	// MsgRequestBodyTooLarge indicates that the request payload exceeds size limits.
	MsgRequestBodyTooLarge = "Request body too large"

	// MsgEmptyRequestBody indicates that a request body was expected but not provided.
	MsgEmptyRequestBody = "Request body must not be empty"

	// MsgMalformedJSON indicates that the request body contains invalid JSON.
	MsgMalformedJSON = "Request body contains malformed JSON"

	// MsgResourceNotFound indicates that the requested resource does not exist.
	MsgResourceNotFound = "The requested resource could not be found"

	// MsgResourceAlreadyExists indicates a duplicate resource conflict.
	MsgResourceAlreadyExists = "A resource with the same unique identifier already exists"

	// MsgMethodNotAllowed indicates that the HTTP method is not supported for the endpoint.
	MsgMethodNotAllowed = "This method is not allowed for this resource"

	// MsgUserDeleted confirms successful account deletion.
	MsgUserDeleted = "Account successfully deleted"

	// MsgPasswordChanged confirms successful password change.
	MsgPasswordChanged = "Password successfully changed"

	// MsgSelfModification indicates an admin attempted to modify their own account flags.
	MsgSelfModification = "You cannot perform this action on your own account"

	// MsgRateLimited indicates the client has exceeded the allowed request rate.
	MsgRateLimited = "Too many requests, please try again later"

	// MsgPredictionFailed is the generic message for a failed model inference.
	MsgPredictionFailed = "An error occurred during prediction"
)

// Database Error Types define constants for recognizing and handling
// database-specific errors.
const (
	// DBErrorDuplicateKey is the PostgreSQL error message for unique constraint violations.
	DBErrorDuplicateKey = "duplicate key value violates unique constraint"

	// PGErrorDuplicateConstraint is the PostgreSQL error code for unique constraint violations.
	PGErrorDuplicateConstraint = "23505"

	// PGErrorForeignKeyConstraint is the PostgreSQL error code for foreign key violations.
	PGErrorForeignKeyConstraint = "23503"

	// PGErrorNotNullConstraint is the PostgreSQL error code for not-null constraint violations.
	PGErrorNotNullConstraint = "23502"
)

// Logger Constants define values used for structured logging.
const (
	// LogCategoryUser is the log category for user-related events.
	LogCategoryUser = "user"

	// LogCategoryAuth is the log category for authentication-related events.
	LogCategoryAuth = "auth"

	// LogCategoryModel is the log category for model loading and inference events.
	LogCategoryModel = "model"

	// LogEventLogin is the log event type for user login.
	LogEventLogin = "login"

	// LogEventRegister is the log event type for user registration.
	LogEventRegister = "register"

	// LogEventPredict is the log event type for prediction requests.
	LogEventPredict = "predict"

	// LogRedactedValue is used to replace sensitive values in logs.
	LogRedactedValue = "[REDACTED]"
)
