package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/linkupapp/linkup-backend/internal/cache"
	"github.com/linkupapp/linkup-backend/internal/config"
	"github.com/linkupapp/linkup-backend/internal/database"
	"github.com/linkupapp/linkup-backend/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory SQLite database with the same
// TranslateError setting production uses, so unique-index violations
// surface as gorm.ErrDuplicatedKey here too.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A second connection to :memory: would see a different database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  time.Hour,
		JWTRefreshExpiry: 168 * time.Hour,
	}
}

// noCache is a pass-through access cache: every Get misses.
func noCache() *cache.AccessCache {
	return cache.NewAccessCache(nil, 0)
}

func seedUser(t *testing.T, db *gorm.DB, name, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:       uuid.New(),
		Name:     name,
		Email:    email,
		Password: "not-a-real-hash",
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}
	return user
}

func seedCreator(t *testing.T, db *gorm.DB, userID uuid.UUID, isPublic bool) *models.Creator {
	t.Helper()
	creator := &models.Creator{
		ID:       uuid.New(),
		UserID:   userID,
		IsPublic: isPublic,
	}
	if err := db.Create(creator).Error; err != nil {
		t.Fatalf("failed to seed creator: %v", err)
	}
	return creator
}
