package database

import (
	"fmt"

	"farmhith/config"
	"farmhith/logger"
	bookingModel "farmhith/models/booking"
	contactModel "farmhith/models/contact"
	logModel "farmhith/models/log"
	otpModel "farmhith/models/otp"
	reportModel "farmhith/models/report"
	sessionModel "farmhith/models/session"
	userModel "farmhith/models/user"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open connects to the configured database without migrating.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	gormCfg := &gorm.Config{TranslateError: true}
	if cfg.IsProduction() {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Warn)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the database: %w", err)
	}
	logger.Success(fmt.Sprintf("Successfully connected to the %s database", cfg.DBDriver))
	return db, nil
}

// InitDB opens the database, migrates every model and creates the lookup indexes.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := Migrate(db); err != nil {
		logger.Error("Failed to migrate database", err)
		return nil, err
	}
	return db, nil
}

// Models lists every table this service owns, parents first.
func Models() []interface{} {
	return []interface{}{
		&userModel.User{},
		&userModel.Profile{},
		&sessionModel.Session{},
		&otpModel.OTP{},
		&otpModel.OTPEvent{},
		&bookingModel.Booking{},
		&bookingModel.BookingStatusEvent{},
		&reportModel.SoilReport{},
		&contactModel.Message{},
		&logModel.Log{},
	}
}

// Migrate runs AutoMigrate for all models and then creates extra indexes.
func Migrate(db *gorm.DB) error {
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(db); err != nil {
		return err
	}
	logger.Success("All indexes created successfully")
	return nil
}

// createIndexes adds composite indexes that struct tags cannot express.
func createIndexes(db *gorm.DB) error {
	indexes := []struct {
		name string
		sql  string
	}{
		{"idx_bookings_tracking_mobile", "CREATE INDEX IF NOT EXISTS idx_bookings_tracking_mobile ON bookings(tracking_id, mobile)"},
		{"idx_otps_phone_purpose", "CREATE INDEX IF NOT EXISTS idx_otps_phone_purpose ON otps(phone, purpose, is_used)"},
		{"idx_booking_status_events_created_at", "CREATE INDEX IF NOT EXISTS idx_booking_status_events_created_at ON booking_status_events(created_at)"},
	}

	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}
	}
	return nil
}
