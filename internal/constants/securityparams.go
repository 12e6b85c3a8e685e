package constants

// Context Key Names
const (
	UserIDContextKey    = "user_id"
	UsernameContextKey  = "username"
	EmailContextKey     = "email"
	IsAdminContextKey   = "is_admin"
	RequestIDContextKey = "request_id"
)

// Auth Token Types
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Bearer token handling
const (
	BearerTokenPrefix  = "Bearer "
	AuthTokenCookie    = "auth_token"
	RefreshTokenCookie = "refresh_token"
)

// Password Validation
const (
	MinPasswordLength = 8
	MinUsernameLength = 3
	MaxUsernameLength = 50
	MaxEmailLength    = 255
)
