package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/mangrovewatch/backend/internal/config"
	"github.com/mangrovewatch/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database with the full schema migrated.
// MaxOpenConns is pinned to 1 so every query sees the same memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Profile{},
		&models.Area{},
		&models.Report{},
		&models.PointsTransaction{},
		&models.Alert{},
		&models.SystemLog{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,

		PointsReportSubmitted: 10,
		PointsReportVerified:  25,
		PointsReportRejected:  0,

		ValidationSweepThreshold: 24 * time.Hour,
	}
}

// seedProfile creates a user plus profile with the given role and returns
// the profile.
func seedProfile(t *testing.T, db *gorm.DB, email, role string) *models.Profile {
	t.Helper()

	user := models.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)

	profile := models.Profile{
		ID:          uuid.New(),
		UserID:      user.ID,
		DisplayName: email,
		Email:       email,
		Role:        role,
	}
	require.NoError(t, db.Create(&profile).Error)
	return &profile
}

func seedArea(t *testing.T, db *gorm.DB, name string) *models.Area {
	t.Helper()

	area := models.Area{
		ID:        uuid.New(),
		Name:      name,
		Latitude:  21.9,
		Longitude: 89.2,
	}
	require.NoError(t, db.Create(&area).Error)
	return &area
}

func newTestReportService(db *gorm.DB, cfg *config.Config) *ReportService {
	points := NewPointsService(db)
	alerts := NewAlertService(db)
	return NewReportService(db, cfg, points, alerts, NewContentFilter())
}
