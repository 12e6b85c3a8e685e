package constants

// Base Routes
const (
	APIBasePath = "/api"
	HealthPath  = "/health"
	VersionPath = "/version"
)

// Authentication Routes
const (
	AuthBasePath     = "/api/auth"
	AuthRegisterPath = "/api/auth/register"
	AuthLoginPath    = "/api/auth/login"
	AuthRefreshPath  = "/api/auth/refresh"
	AuthLogoutPath   = "/api/auth/logout"
	AuthMePath       = "/api/auth/me"
)

// Prediction Routes
const (
	PredictionBasePath    = "/api/prediction"
	PredictionHistoryPath = "/api/prediction/history"
)

// Metrics Routes
const (
	MetricsBasePath = "/api/metrics"
)

// Admin Routes
const (
	AdminBasePath         = "/api/admin"
	AdminUsersPath        = "/api/admin/users"
	AdminUserDetailPath   = "/api/admin/users/{userID}"
	AdminToggleAdminPath  = "/api/admin/users/{userID}/toggle-admin"
	AdminToggleActivePath = "/api/admin/users/{userID}/toggle-active"
	AdminStatsPath        = "/api/admin/stats"
)
