package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/vitapredict/obesity-backend/internal/auth"
	"github.com/vitapredict/obesity-backend/internal/constants"
	"github.com/vitapredict/obesity-backend/internal/models"
	"github.com/vitapredict/obesity-backend/internal/repository"
	"github.com/vitapredict/obesity-backend/internal/utils"
)

// AuthService handles registration, login and token refresh
type AuthService struct {
	userRepo    repository.UserRepository
	jwtService  *auth.JWTService
	passwordCfg *auth.PasswordConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo repository.UserRepository,
	jwtService *auth.JWTService,
	passwordCfg *auth.PasswordConfig,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		jwtService:  jwtService,
		passwordCfg: passwordCfg,
	}
}

// RegisterUser creates a new user account. The first account created in an
// empty database becomes an administrator so a fresh deployment can be
// managed without manual database edits.
func (s *AuthService) RegisterUser(ctx context.Context, reg *models.UserRegistration) (*models.User, error) {
	// Validate password match
	if reg.Password != reg.ConfirmPassword {
		return nil, utils.NewValidationError("confirm_password", "Passwords do not match")
	}

	// Check if username already exists
	existsUsername, err := s.userRepo.ExistsByUsername(ctx, reg.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username existence: %w", err)
	}
	if existsUsername {
		return nil, utils.NewDuplicateError("User", "username", reg.Username)
	}

	// Check if email already exists
	existsEmail, err := s.userRepo.ExistsByEmail(ctx, reg.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existsEmail {
		return nil, utils.NewDuplicateError("User", "email", reg.Email)
	}

	// Hash the password
	passwordHash, salt, err := auth.HashPassword(reg.Password, s.passwordCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Create the user
	user := models.NewUser(reg.Username, reg.Email)
	user.PasswordHash = passwordHash
	user.Salt = salt

	// The first registered user becomes the bootstrap administrator
	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count == 0 {
		user.IsAdmin = true
	}

	// Save the user to the database
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	utils.LogAuth("register_success", fmt.Sprintf("%d", user.ID), user.Username, true, "")

	return user.Sanitize(), nil
}

// AuthenticateUser verifies user credentials and returns authentication tokens
func (s *AuthService) AuthenticateUser(ctx context.Context, creds *models.UserCredentials) (*models.User, string, string, error) {
	var user *models.User
	var err error

	// Find the user by username or email
	if creds.Username != "" {
		user, err = s.userRepo.GetByUsername(ctx, creds.Username)
	} else if creds.Email != "" {
		user, err = s.userRepo.GetByEmail(ctx, creds.Email)
	} else {
		return nil, "", "", utils.NewValidationError("credentials", "Username or email is required")
	}

	if err != nil {
		if utils.IsNotFoundError(err) {
			utils.LogAuth("login_failed", "0", creds.Username, false, "user not found")
			return nil, "", "", utils.NewInvalidCredentialsError()
		}
		return nil, "", "", fmt.Errorf("failed to get user: %w", err)
	}

	// Verify the password
	match, err := auth.VerifyPassword(creds.Password, user.PasswordHash, user.Salt, s.passwordCfg)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to verify password: %w", err)
	}

	if !match {
		utils.LogAuth("login_failed", fmt.Sprintf("%d", user.ID), user.Username, false, "invalid password")
		return nil, "", "", utils.NewInvalidCredentialsError()
	}

	// Deactivated accounts keep their data but cannot sign in
	if !user.IsActive {
		utils.LogAuth("login_failed", fmt.Sprintf("%d", user.ID), user.Username, false, "account deactivated")
		return nil, "", "", utils.NewForbiddenError(constants.MsgInactiveAccount)
	}

	// Generate JWT tokens carrying the admin flag
	accessToken, _, err := s.jwtService.GenerateAccessToken(user.ID, user.Username, user.Email, user.IsAdmin)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, _, err := s.jwtService.GenerateRefreshToken(user.ID, user.Username, user.Email, user.IsAdmin)
	if err != nil {
		return nil, "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	utils.LogAuth("login_success", fmt.Sprintf("%d", user.ID), user.Username, true, "")

	return user.Sanitize(), accessToken, refreshToken, nil
}

// RefreshTokens validates a refresh token and generates a new token pair.
// The user record is re-read so a demotion or deactivation since the token
// was issued takes effect on the next refresh.
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.jwtService.ValidateToken(refreshToken, constants.TokenTypeRefresh)
	if err != nil {
		return "", "", err
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if utils.IsNotFoundError(err) {
			return "", "", utils.NewInvalidTokenError()
		}
		return "", "", fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return "", "", utils.NewForbiddenError(constants.MsgInactiveAccount)
	}

	accessToken, _, err := s.jwtService.GenerateAccessToken(user.ID, user.Username, user.Email, user.IsAdmin)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}

	newRefreshToken, _, err := s.jwtService.GenerateRefreshToken(user.ID, user.Username, user.Email, user.IsAdmin)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("Tokens refreshed successfully")

	return accessToken, newRefreshToken, nil
}

// GetUserByID returns the sanitized account of the given user.
func (s *AuthService) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Sanitize(), nil
}
