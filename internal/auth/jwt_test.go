package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/vitapredict/obesity-backend/internal/auth"
	"github.com/vitapredict/obesity-backend/internal/config"
	"github.com/vitapredict/obesity-backend/internal/utils"
)

func testJWTConfig() *config.JWTSettings {
	return &config.JWTSettings{
		Secret:        "test-secret",
		Expiry:        15 * time.Minute,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "test-issuer",
	}
}

func TestNewJWTService(t *testing.T) {
	cfg := testJWTConfig()
	service := auth.NewJWTService(cfg)

	if service == nil {
		t.Fatal("Expected service to be created, got nil")
	}
	if service.Config != cfg {
		t.Errorf("Expected Config to be %v, got %v", cfg, service.Config)
	}
}

func TestGenerateAccessToken(t *testing.T) {
	service := auth.NewJWTService(testJWTConfig())

	userID := int64(123)
	username := "testuser"
	email := "test@example.com"

	token, jwtID, err := service.GenerateAccessToken(userID, username, email, true)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if token == "" {
		t.Error("Expected non-empty token")
	}
	if jwtID == "" {
		t.Error("Expected non-empty JWT ID")
	}

	// Validate the token and check the claims round-tripped
	claims, err := service.ValidateToken(token, "access")
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("Expected UserID %d, got %d", userID, claims.UserID)
	}
	if claims.Username != username {
		t.Errorf("Expected Username %s, got %s", username, claims.Username)
	}
	if claims.Email != email {
		t.Errorf("Expected Email %s, got %s", email, claims.Email)
	}
	if !claims.IsAdmin {
		t.Error("Expected IsAdmin to be true")
	}
	if claims.TokenType != "access" {
		t.Errorf("Expected TokenType access, got %s", claims.TokenType)
	}
}

func TestGenerateRefreshToken(t *testing.T) {
	service := auth.NewJWTService(testJWTConfig())

	token, _, err := service.GenerateRefreshToken(42, "testuser", "test@example.com", false)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}

	claims, err := service.ValidateToken(token, "refresh")
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.TokenType != "refresh" {
		t.Errorf("Expected TokenType refresh, got %s", claims.TokenType)
	}
	if claims.IsAdmin {
		t.Error("Expected IsAdmin to be false")
	}
}

func TestValidateToken(t *testing.T) {
	service := auth.NewJWTService(testJWTConfig())

	t.Run("Wrong token type is rejected", func(t *testing.T) {
		token, _, err := service.GenerateAccessToken(1, "user", "user@example.com", false)
		if err != nil {
			t.Fatalf("GenerateAccessToken() error = %v", err)
		}

		if _, err := service.ValidateToken(token, "refresh"); err == nil {
			t.Error("Expected error for wrong token type, got nil")
		}
	})

	t.Run("Malformed token is rejected", func(t *testing.T) {
		_, err := service.ValidateToken("not-a-token", "access")
		if err == nil {
			t.Fatal("Expected error for malformed token, got nil")
		}
		if !errors.Is(err, utils.ErrInvalidToken) {
			var appErr *utils.AppError
			if !errors.As(err, &appErr) {
				t.Errorf("Expected AppError, got %v", err)
			}
		}
	})

	t.Run("Token signed with a different secret is rejected", func(t *testing.T) {
		other := auth.NewJWTService(&config.JWTSettings{
			Secret:        "different-secret",
			Expiry:        15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
			Issuer:        "test-issuer",
		})
		token, _, err := other.GenerateAccessToken(1, "user", "user@example.com", false)
		if err != nil {
			t.Fatalf("GenerateAccessToken() error = %v", err)
		}

		if _, err := service.ValidateToken(token, "access"); err == nil {
			t.Error("Expected error for foreign signature, got nil")
		}
	})

	t.Run("Expired token is rejected", func(t *testing.T) {
		expired := auth.NewJWTService(&config.JWTSettings{
			Secret:        "test-secret",
			Expiry:        -1 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
			Issuer:        "test-issuer",
		})
		token, _, err := expired.GenerateAccessToken(1, "user", "user@example.com", false)
		if err != nil {
			t.Fatalf("GenerateAccessToken() error = %v", err)
		}

		_, err = service.ValidateToken(token, "access")
		if err == nil {
			t.Fatal("Expected error for expired token, got nil")
		}
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			if !errors.Is(appErr.Err, utils.ErrExpiredToken) {
				t.Errorf("Expected expired token error, got %v", appErr.Err)
			}
		}
	})
}

func TestRefreshTokens(t *testing.T) {
	service := auth.NewJWTService(testJWTConfig())

	t.Run("Valid refresh token issues a new pair", func(t *testing.T) {
		refreshToken, _, err := service.GenerateRefreshToken(7, "admin", "admin@example.com", true)
		if err != nil {
			t.Fatalf("GenerateRefreshToken() error = %v", err)
		}

		accessToken, newRefreshToken, claims, err := service.RefreshTokens(refreshToken)
		if err != nil {
			t.Fatalf("RefreshTokens() error = %v", err)
		}
		if accessToken == "" || newRefreshToken == "" {
			t.Error("Expected non-empty token pair")
		}
		if claims.UserID != 7 {
			t.Errorf("Expected UserID 7, got %d", claims.UserID)
		}

		// The new access token carries the same identity including the admin flag
		accessClaims, err := service.ValidateToken(accessToken, "access")
		if err != nil {
			t.Fatalf("ValidateToken() error = %v", err)
		}
		if !accessClaims.IsAdmin {
			t.Error("Expected refreshed access token to keep the admin flag")
		}
	})

	t.Run("Access token is not accepted as refresh token", func(t *testing.T) {
		accessToken, _, err := service.GenerateAccessToken(7, "admin", "admin@example.com", true)
		if err != nil {
			t.Fatalf("GenerateAccessToken() error = %v", err)
		}

		if _, _, _, err := service.RefreshTokens(accessToken); err == nil {
			t.Error("Expected error when refreshing with an access token, got nil")
		}
	})
}
