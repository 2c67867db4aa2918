package repository

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ecoheroes/recycle-rewards/internal/models"
)

// setupUserTestDB creates an in-memory SQLite database for testing.
func setupUserTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	// Enable foreign key constraints (SQLite default is off)
	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(&models.User{})
	if err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	return &DB{db}
}

// createTestUser creates a test user in the database.
func createTestUser(t *testing.T, repo *UserRepository, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		DisplayName:  username,
		Rank:         "Bronze",
	}
	if err := repo.Create(user); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func TestUserRepository_Create(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	user := createTestUser(t, repo, "greta")

	if user.ID == 0 {
		t.Error("Expected user ID to be set after creation")
	}
	if user.CreatedAt.IsZero() {
		t.Error("Expected CreatedAt to be set")
	}
}

func TestUserRepository_Create_DuplicateUsername(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	createTestUser(t, repo, "greta")

	dup := &models.User{Username: "greta", Email: "other@example.com", PasswordHash: "x"}
	if err := repo.Create(dup); err == nil {
		t.Error("Expected duplicate username to fail")
	}
}

func TestUserRepository_GetByUsername(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	created := createTestUser(t, repo, "sam")

	retrieved, err := repo.GetByUsername("sam")
	if err != nil {
		t.Fatalf("GetByUsername() failed: %v", err)
	}
	if retrieved.ID != created.ID {
		t.Errorf("Expected ID %d, got %d", created.ID, retrieved.ID)
	}

	if _, err := repo.GetByUsername("nobody"); err == nil {
		t.Error("Expected error for unknown username")
	}
}

func TestUserRepository_GetForUpdate_RoundTrip(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	created := createTestUser(t, repo, "ana")

	err := repo.Transaction(func(tx *gorm.DB) error {
		user, err := repo.GetForUpdate(tx, created.ID)
		if err != nil {
			return err
		}
		user.Points += 50
		user.TotalPointsEarned += 50
		return repo.SaveTx(tx, user)
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}

	reloaded, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if reloaded.Points != 50 || reloaded.TotalPointsEarned != 50 {
		t.Errorf("Expected 50/50 points, got %d/%d", reloaded.Points, reloaded.TotalPointsEarned)
	}
}

func TestUserRepository_Transaction_RollsBackOnError(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	created := createTestUser(t, repo, "max")

	err := repo.Transaction(func(tx *gorm.DB) error {
		user, err := repo.GetForUpdate(tx, created.ID)
		if err != nil {
			return err
		}
		user.Points = 999
		if err := repo.SaveTx(tx, user); err != nil {
			return err
		}
		return fmt.Errorf("forced rollback")
	})
	if err == nil {
		t.Fatal("Expected transaction to return the forced error")
	}

	reloaded, err := repo.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if reloaded.Points != 0 {
		t.Errorf("Expected rollback to keep points at 0, got %d", reloaded.Points)
	}
}
