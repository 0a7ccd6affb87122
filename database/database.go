package database

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"geovista-api/models"
)

func Initialize(databaseURL string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// TranslateError maps driver duplicate-key errors onto
		// gorm.ErrDuplicatedKey, which the repositories rely on for
		// conflict detection.
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB, log *logrus.Logger) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Region{},
		&models.Place{},
		&models.Checkin{},
		&models.CheckinPhoto{},
		&models.RegionFavorite{},
		&models.PlaceFavorite{},
		&models.RegionPin{},
		&models.PlacePermission{},
		&models.Report{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	addCustomIndexes(db, log)
	return nil
}

func addCustomIndexes(db *gorm.DB, log *logrus.Logger) {
	// Composite indexes for the hot listing queries. Failures are warnings;
	// older MySQL versions lack IF NOT EXISTS on CREATE INDEX.
	statements := []string{
		"CREATE INDEX IF NOT EXISTS idx_regions_status_created ON regions(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_places_region_status ON places(region_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_places_status_created ON places(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_checkins_place_status ON checkins(place_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_region_pins_user_order ON region_pins(user_id, display_order)",
		"CREATE INDEX IF NOT EXISTS idx_sessions_expires_at ON sessions(expires_at)",
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			log.WithError(err).Warn("could not create index")
		}
	}
}

// SeedData populates a fresh database with a development admin account.
func SeedData(db *gorm.DB) error {
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	if userCount > 0 {
		return nil
	}

	admin := models.User{
		ID:       "admin-1",
		Name:     "GeoVista Admin",
		Email:    "admin@geovista.app",
		Password: "$2a$10$dummy", // replaced on first real deployment
		Role:     models.RoleAdmin,
		Status:   models.UserStatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}
