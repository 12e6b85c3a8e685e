package handlers

import (
	"net/http"
	"time"

	"github.com/vitapredict/obesity-backend/internal/auth"
	"github.com/vitapredict/obesity-backend/internal/constants"
	"github.com/vitapredict/obesity-backend/internal/models"
	"github.com/vitapredict/obesity-backend/internal/utils"
)

// AuthHandler handles authentication-related routes
type AuthHandler struct {
	authService AuthServiceInterface
	jwtService  *auth.JWTService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService AuthServiceInterface, jwtService *auth.JWTService) *AuthHandler {
	if authService == nil {
		panic("authService cannot be nil")
	}
	if jwtService == nil {
		panic("jwtService cannot be nil")
	}
	return &AuthHandler{
		authService: authService,
		jwtService:  jwtService,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	// Decode and validate the request body
	var reg models.UserRegistration
	if err := utils.DecodeAndValidate(r, &reg); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Register the user
	user, err := h.authService.RegisterUser(r.Context(), &reg)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Return the newly created user
	utils.JSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	// Decode and validate the request body
	var creds models.UserCredentials
	if err := utils.DecodeAndValidate(r, &creds); err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Authenticate the user
	user, accessToken, refreshToken, err := h.authService.AuthenticateUser(r.Context(), &creds)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Set the refresh token as an HTTP-only cookie
	h.setRefreshCookie(w, r, refreshToken)

	// Return the access token and user info
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"user":         user,
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   int(h.jwtService.Config.Expiry.Seconds()),
	})
}

// RefreshToken handles token refresh. The refresh token is taken from the
// HTTP-only cookie set at login, or from the request body as a fallback for
// non-browser clients.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	refreshToken := ""
	if cookie, err := r.Cookie(constants.RefreshTokenCookie); err == nil {
		refreshToken = cookie.Value
	} else {
		var body struct {
			RefreshToken string `json:"refresh_token" validate:"required"`
		}
		if err := utils.DecodeAndValidate(r, &body); err != nil {
			utils.Unauthorized(w, "Refresh token not found")
			return
		}
		refreshToken = body.RefreshToken
	}

	// Refresh the tokens
	accessToken, newRefreshToken, err := h.authService.RefreshTokens(r.Context(), refreshToken)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	// Set the new refresh token as a cookie
	h.setRefreshCookie(w, r, newRefreshToken)

	// Return the new access token
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"access_token": accessToken,
		"token_type":   "Bearer",
		"expires_in":   int(h.jwtService.Config.Expiry.Seconds()),
	})
}

// Logout clears the refresh token cookie. Access tokens stay valid until
// they expire since no server-side session state is kept.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.RefreshTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Successfully logged out",
	})
}

// Me returns the authenticated user's account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserID(r)
	if !ok {
		utils.Unauthorized(w, constants.MsgAuthRequired)
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		utils.ErrorFromAppError(w, utils.ParseError(err))
		return
	}

	utils.JSON(w, http.StatusOK, user)
}

// setRefreshCookie stores the refresh token in an HTTP-only cookie scoped to
// the whole API.
func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, r *http.Request, refreshToken string) {
	refreshExpiry := h.jwtService.Config.RefreshExpiry
	http.SetCookie(w, &http.Cookie{
		Name:     constants.RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(refreshExpiry.Seconds()),
		Expires:  time.Now().Add(refreshExpiry),
	})
}
