// Package constants provides shared constant values used throughout the application.
//
// The defaults.go file defines default values and limits used throughout the
// application. These constants provide sensible defaults for configuration
// settings, establish boundaries for resource usage, and define security
// parameters. Changes to these values may significantly impact application
// behavior, performance, and security.
package constants

// Default Pagination Values define the parameters used for paginated responses.
const (
	// DefaultPage is the default page number for paginated results when not specified.
	DefaultPage = 1

	// DefaultPageSize is the default number of items per page when not specified.
	DefaultPageSize = 20

	// MaxPageSize is the maximum allowable page size to prevent excessive resource usage.
	MaxPageSize = 100

	// MinPageSize is the minimum allowable page size.
	MinPageSize = 1
)

// Default Configuration Values define fallback settings when not specified in configuration.
const (
	// DefaultServerPort is the default HTTP server port.
	DefaultServerPort = 8080

	// DefaultDBMaxConnections is the default maximum number of database connections.
	DefaultDBMaxConnections = 20

	// DefaultDBMinConnections is the default minimum number of database connections.
	DefaultDBMinConnections = 5

	// DefaultLogLevel is the default logging verbosity level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default logging output format.
	DefaultLogFormat = "json"

	// DefaultJWTIssuer is the default issuer claim for generated tokens.
	DefaultJWTIssuer = "vitapredict-api"
)

// Default Model Artifact Settings define where serving artifacts are found.
// The four artifacts are produced by the offline trainer (cmd/train) and are
// loaded exactly once at startup.
const (
	// DefaultModelDir is the default directory containing model artifacts.
	DefaultModelDir = "./models"

	// ModelArtifactFile is the serialized random forest (per-tree node tables).
	ModelArtifactFile = "model.json"

	// ScalerArtifactFile holds the fitted per-column mean/scale vectors.
	ScalerArtifactFile = "scaler.json"

	// EncodersArtifactFile holds the categorical vocabularies, the target
	// vocabulary, and the pinned feature column order.
	EncodersArtifactFile = "encoders.json"

	// MetadataArtifactFile holds optional training metadata.
	MetadataArtifactFile = "metadata.json"

	// FallbackModelName is reported by the metadata endpoint when no metadata
	// artifact is present.
	FallbackModelName = "RandomForestClassifier"
)

// Environment Types define the recognized application running environments.
const (
	// EnvDevelopment identifies a development environment with debugging features enabled.
	EnvDevelopment = "development"

	// EnvTesting identifies a testing environment for automated tests.
	EnvTesting = "testing"

	// EnvProduction identifies a production environment with optimized settings.
	EnvProduction = "production"
)

// Request Size Limits help prevent denial of service via excessive resource consumption.
const (
	// MaxRequestBodySize is the maximum size in bytes for HTTP request bodies.
	MaxRequestBodySize = 1048576 // 1MB in bytes
)

// Default Rate Limits bound the per-client request rates on sensitive routes.
const (
	// LoginRatePerSecond is the sustained login attempt rate per client IP.
	LoginRatePerSecond = 1.0

	// LoginRateBurst is the login attempt burst capacity per client IP.
	LoginRateBurst = 5

	// PredictionRatePerSecond is the sustained prediction rate per client IP.
	PredictionRatePerSecond = 5.0

	// PredictionRateBurst is the prediction burst capacity per client IP.
	PredictionRateBurst = 20
)

// Default Password Hash Settings define the parameters for Argon2id hashing.
const (
	// DefaultPasswordHashMemory is the memory cost parameter for Argon2id hashing.
	DefaultPasswordHashMemory = 64 * 1024

	// DefaultPasswordHashIterations is the number of iterations for Argon2id hashing.
	DefaultPasswordHashIterations = 3

	// DefaultPasswordHashParallelism is the parallelism parameter for Argon2id hashing.
	DefaultPasswordHashParallelism = 2

	// DefaultPasswordHashSaltLength is the length in bytes of the random salt.
	DefaultPasswordHashSaltLength = 16

	// DefaultPasswordHashKeyLength is the length in bytes of the derived key.
	DefaultPasswordHashKeyLength = 32

	// DevPasswordHashMemory is a reduced memory cost for development environments.
	DevPasswordHashMemory = 32 * 1024

	// DevPasswordHashIterations is a reduced iteration count for development environments.
	DevPasswordHashIterations = 1
)

// Default Log Rotation Settings bound the size and age of rotated log files.
const (
	// DefaultLogMaxSizeMB is the maximum size of a log file before rotation.
	DefaultLogMaxSizeMB = 100

	// DefaultLogMaxBackups is the number of rotated files kept on disk.
	DefaultLogMaxBackups = 5

	// DefaultLogMaxAgeDays is the maximum age of a rotated log file.
	DefaultLogMaxAgeDays = 30
)
