package service

import (
	"context"
	"testing"

	"github.com/vitapredict/obesity-backend/internal/models"
	"github.com/vitapredict/obesity-backend/internal/utils"
)

func seedUser(t *testing.T, repo *MockUserRepository, username string, isAdmin bool) *models.User {
	t.Helper()
	user := models.NewUser(username, username+"@example.com")
	user.IsAdmin = isAdmin
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return user
}

func TestUserService_GetUserByID(t *testing.T) {
	userRepo := NewMockUserRepository()
	svc := NewUserService(userRepo, NewMockPredictionRepository())
	ctx := context.Background()

	seeded := seedUser(t, userRepo, "alice", false)
	seeded.PasswordHash = "hash"
	seeded.Salt = "salt"

	user, err := svc.GetUserByID(ctx, seeded.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Expected username alice, got %s", user.Username)
	}
	if user.PasswordHash != "" || user.Salt != "" {
		t.Error("Expected sanitized user without credentials")
	}

	if _, err := svc.GetUserByID(ctx, 999); !utils.IsNotFoundError(err) {
		t.Errorf("Expected not found error, got %v", err)
	}
}

func TestUserService_ListUsers(t *testing.T) {
	userRepo := NewMockUserRepository()
	svc := NewUserService(userRepo, NewMockPredictionRepository())
	ctx := context.Background()

	seedUser(t, userRepo, "alice", true)
	seedUser(t, userRepo, "bob", false)
	seedUser(t, userRepo, "carol", false)

	users, total, err := svc.ListUsers(ctx, 1, 2)
	if err != nil {
		t.Fatalf("ListUsers() error = %v", err)
	}
	if total != 3 {
		t.Errorf("Expected total 3, got %d", total)
	}
	if len(users) != 2 {
		t.Fatalf("Expected 2 users on the first page, got %d", len(users))
	}
	for _, user := range users {
		if user.PasswordHash != "" {
			t.Error("Expected sanitized users in listing")
		}
	}
}

func TestUserService_DeleteUser(t *testing.T) {
	userRepo := NewMockUserRepository()
	svc := NewUserService(userRepo, NewMockPredictionRepository())
	ctx := context.Background()

	admin := seedUser(t, userRepo, "admin", true)
	target := seedUser(t, userRepo, "bob", false)

	t.Run("Admin deletes another user", func(t *testing.T) {
		if err := svc.DeleteUser(ctx, admin.ID, target.ID); err != nil {
			t.Fatalf("DeleteUser() error = %v", err)
		}
		if _, err := userRepo.GetByID(ctx, target.ID); !utils.IsNotFoundError(err) {
			t.Error("Expected user to be removed")
		}
	})

	t.Run("Self-deletion is rejected", func(t *testing.T) {
		err := svc.DeleteUser(ctx, admin.ID, admin.ID)
		if err == nil {
			t.Fatal("Expected error for self-deletion, got nil")
		}
		if _, getErr := userRepo.GetByID(ctx, admin.ID); getErr != nil {
			t.Error("Expected admin account to remain")
		}
	})

	t.Run("Unknown target", func(t *testing.T) {
		if err := svc.DeleteUser(ctx, admin.ID, 999); !utils.IsNotFoundError(err) {
			t.Errorf("Expected not found error, got %v", err)
		}
	})
}

func TestUserService_ToggleAdmin(t *testing.T) {
	userRepo := NewMockUserRepository()
	svc := NewUserService(userRepo, NewMockPredictionRepository())
	ctx := context.Background()

	admin := seedUser(t, userRepo, "admin", true)
	target := seedUser(t, userRepo, "bob", false)

	t.Run("First toggle grants admin", func(t *testing.T) {
		updated, err := svc.ToggleAdmin(ctx, admin.ID, target.ID)
		if err != nil {
			t.Fatalf("ToggleAdmin() error = %v", err)
		}
		if !updated.IsAdmin {
			t.Error("Expected target to be an administrator")
		}
	})

	t.Run("Second toggle revokes admin", func(t *testing.T) {
		updated, err := svc.ToggleAdmin(ctx, admin.ID, target.ID)
		if err != nil {
			t.Fatalf("ToggleAdmin() error = %v", err)
		}
		if updated.IsAdmin {
			t.Error("Expected target's admin flag to flip back")
		}
	})

	t.Run("Self-modification is rejected", func(t *testing.T) {
		if _, err := svc.ToggleAdmin(ctx, admin.ID, admin.ID); err == nil {
			t.Error("Expected error for changing own admin flag, got nil")
		}
	})

	t.Run("Unknown target", func(t *testing.T) {
		if _, err := svc.ToggleAdmin(ctx, admin.ID, 999); !utils.IsNotFoundError(err) {
			t.Errorf("Expected not found error, got %v", err)
		}
	})
}

func TestUserService_ToggleActive(t *testing.T) {
	userRepo := NewMockUserRepository()
	svc := NewUserService(userRepo, NewMockPredictionRepository())
	ctx := context.Background()

	admin := seedUser(t, userRepo, "admin", true)
	target := seedUser(t, userRepo, "bob", false)
	target.IsActive = true

	t.Run("First toggle deactivates the account", func(t *testing.T) {
		updated, err := svc.ToggleActive(ctx, admin.ID, target.ID)
		if err != nil {
			t.Fatalf("ToggleActive() error = %v", err)
		}
		if updated.IsActive {
			t.Error("Expected target account to be deactivated")
		}
	})

	t.Run("Second toggle reactivates the account", func(t *testing.T) {
		updated, err := svc.ToggleActive(ctx, admin.ID, target.ID)
		if err != nil {
			t.Fatalf("ToggleActive() error = %v", err)
		}
		if !updated.IsActive {
			t.Error("Expected target account to be reactivated")
		}
	})

	t.Run("Self-deactivation is rejected", func(t *testing.T) {
		if _, err := svc.ToggleActive(ctx, admin.ID, admin.ID); err == nil {
			t.Error("Expected error for deactivating own account, got nil")
		}
	})
}

func TestUserService_GetStats(t *testing.T) {
	userRepo := NewMockUserRepository()
	predictionRepo := NewMockPredictionRepository()
	svc := NewUserService(userRepo, predictionRepo)
	ctx := context.Background()

	seedUser(t, userRepo, "admin", true)
	bob := seedUser(t, userRepo, "bob", false)
	carol := seedUser(t, userRepo, "carol", false)
	if err := userRepo.SetActive(ctx, carol.ID, false); err != nil {
		t.Fatalf("SetActive() error = %v", err)
	}

	for i := 0; i < 4; i++ {
		prediction := models.NewPrediction(bob.ID, models.PredictionInput{}, "Normal_Weight", 0.9, "{}")
		if err := predictionRepo.Create(ctx, prediction); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	stats, err := svc.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}
	if stats.TotalUsers != 3 {
		t.Errorf("Expected 3 total users, got %d", stats.TotalUsers)
	}
	if stats.ActiveUsers != 2 {
		t.Errorf("Expected 2 active users, got %d", stats.ActiveUsers)
	}
	if stats.AdminUsers != 1 {
		t.Errorf("Expected 1 admin user, got %d", stats.AdminUsers)
	}
	if stats.TotalPredictions != 4 {
		t.Errorf("Expected 4 predictions, got %d", stats.TotalPredictions)
	}
}
