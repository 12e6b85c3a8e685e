package auth

// JWTValidator defines the interface for JWT validation
type JWTValidator interface {
	// ValidateToken validates a JWT token and returns its claims if valid
	ValidateToken(tokenString string, expectedType string) (*CustomClaims, error)
}

// Ensure JWTService implements JWTValidator.
var _ JWTValidator = (*JWTService)(nil)
