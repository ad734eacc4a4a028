package database

import (
	"fmt"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Connect opens the MySQL connection and configures the connection pool.
// The returned handle is safe for concurrent use and is shared by all
// request handlers; it is never re-created per request.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		// Needed so a duplicate registration_number insert surfaces as
		// gorm.ErrDuplicatedKey instead of a raw MySQL 1062 error.
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	// Keeps pooled connections ahead of MySQL's wait_timeout.
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// MigrateTables creates or updates the three registration tables. Intended
// for development setups; production schemas are managed out-of-band.
func MigrateTables(db *gorm.DB, models ...interface{}) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
