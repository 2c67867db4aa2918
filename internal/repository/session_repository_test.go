package repository

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ecoheroes/recycle-rewards/internal/models"
)

// setupSessionTestDB creates an in-memory SQLite database for testing.
func setupSessionTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	db.Exec("PRAGMA foreign_keys = ON")

	err = db.AutoMigrate(&models.User{}, &models.GameSession{})
	if err != nil {
		t.Fatalf("Failed to auto-migrate tables: %v", err)
	}

	return &DB{db}
}

func createSessionTestUser(t *testing.T, db *DB, username string) *models.User {
	t.Helper()

	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func TestSessionRepository_GetOrCreateForUpdate_CreatesOnFirstPlay(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewSessionRepository(db)
	user := createSessionTestUser(t, db, "rivera")

	err := db.Transaction(func(tx *gorm.DB) error {
		session, err := repo.GetOrCreateForUpdate(tx, user.ID)
		if err != nil {
			return err
		}
		if session.ID == 0 {
			t.Error("Expected session row to be created")
		}
		if session.PlaysToday != 0 || session.TotalGamesPlayed != 0 {
			t.Errorf("Expected fresh counters, got plays=%d total=%d", session.PlaysToday, session.TotalGamesPlayed)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}

	// Second lookup returns the same row
	err = db.Transaction(func(tx *gorm.DB) error {
		first, err := repo.GetOrCreateForUpdate(tx, user.ID)
		if err != nil {
			return err
		}
		second, err := repo.GetOrCreateForUpdate(tx, user.ID)
		if err != nil {
			return err
		}
		if first.ID != second.ID {
			t.Errorf("Expected one session row, got IDs %d and %d", first.ID, second.ID)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}
}

func TestSessionRepository_SaveTx_UpdatesCounters(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewSessionRepository(db)
	user := createSessionTestUser(t, db, "kim")

	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	err := db.Transaction(func(tx *gorm.DB) error {
		session, err := repo.GetOrCreateForUpdate(tx, user.ID)
		if err != nil {
			return err
		}
		session.PlaysToday = 3
		session.TotalGamesPlayed = 17
		session.HighScore = 112
		session.LastPlayedAt = now
		return repo.SaveTx(tx, session)
	})
	if err != nil {
		t.Fatalf("Transaction failed: %v", err)
	}

	reloaded, err := repo.GetByUserID(user.ID)
	if err != nil {
		t.Fatalf("GetByUserID() failed: %v", err)
	}
	if reloaded.PlaysToday != 3 || reloaded.TotalGamesPlayed != 17 || reloaded.HighScore != 112 {
		t.Errorf("Unexpected counters: %+v", reloaded)
	}
	if !reloaded.LastPlayedAt.Equal(now) {
		t.Errorf("Expected LastPlayedAt %v, got %v", now, reloaded.LastPlayedAt)
	}
}

func TestSessionRepository_TopByHighScore(t *testing.T) {
	db := setupSessionTestDB(t)
	repo := NewSessionRepository(db)

	scores := map[string]int{"alice": 90, "bob": 120, "cara": 50, "dave": 0}
	for username, score := range scores {
		user := createSessionTestUser(t, db, username)
		session := &models.GameSession{UserID: user.ID, HighScore: score, TotalGamesPlayed: 4}
		if err := db.Create(session).Error; err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
	}

	rows, err := repo.TopByHighScore(3)
	if err != nil {
		t.Fatalf("TopByHighScore() failed: %v", err)
	}

	// dave has no score yet and must be excluded
	if len(rows) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(rows))
	}
	if rows[0].Username != "bob" || rows[0].HighScore != 120 {
		t.Errorf("Expected bob/120 first, got %s/%d", rows[0].Username, rows[0].HighScore)
	}
	if rows[1].Username != "alice" || rows[2].Username != "cara" {
		t.Errorf("Unexpected order: %v", rows)
	}
}

func TestGameSession_SameDay(t *testing.T) {
	session := &models.GameSession{
		LastPlayedAt: time.Date(2026, 3, 14, 23, 50, 0, 0, time.UTC),
	}

	sameDay := time.Date(2026, 3, 14, 0, 5, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 15, 0, 5, 0, 0, time.UTC)

	if !session.SameDay(sameDay) {
		t.Error("Expected same calendar day to match")
	}
	if session.SameDay(nextDay) {
		t.Error("Expected next calendar day to differ")
	}
}
