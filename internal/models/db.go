package models

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite" // pure-Go SQLite driver (modernc.org/sqlite based)
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// DBPoolConfig configures the underlying sql.DB pool.
type DBPoolConfig struct {
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeSeconds int
	ConnMaxIdleTimeSeconds int
}

// InitDB opens the database connection.
func InitDB(driver, dsn string, pool DBPoolConfig) error {
	var err error
	normalized := strings.ToLower(strings.TrimSpace(driver))
	var dialector gorm.Dialector
	switch normalized {
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	default:
		return fmt.Errorf("unsupported database driver: %s", driver)
	}
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return err
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	applyDBPool(sqlDB, pool)
	return nil
}

func applyDBPool(sqlDB *sql.DB, pool DBPoolConfig) {
	if sqlDB == nil {
		return
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
	}
	if pool.ConnMaxIdleTimeSeconds > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeSeconds) * time.Second)
	}
}

// AutoMigrate creates or updates all tables plus the raw-SQL objects gorm
// cannot express (partial unique index, active_specials materialized view).
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := DB.AutoMigrate(
		&Admin{},
		&User{},
		&GuestSession{},
		&MagicLinkToken{},
		&Restaurant{},
		&Special{},
		&SpecialClaim{},
		&SpecialEvent{},
		&Listing{},
	); err != nil {
		return err
	}
	return migrateRawSQL(DB)
}

// migrateRawSQL installs the per-visit claim uniqueness guard and, on
// postgres, the active_specials materialized view. claim_day is only set on
// per-visit claims, so the partial index never blocks multi-claim specials.
func migrateRawSQL(db *gorm.DB) error {
	if err := db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_special_claims_per_visit
		 ON special_claims (special_id, claimant_key, claim_day)
		 WHERE status != 'cancelled' AND claim_day != ''`,
	).Error; err != nil {
		return err
	}
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := db.Exec(
		`CREATE MATERIALIZED VIEW IF NOT EXISTS active_specials AS
		 SELECT s.*
		 FROM specials s
		 WHERE s.is_active
		   AND s.deleted_at IS NULL
		   AND now() BETWEEN s.valid_from AND s.valid_until`,
	).Error; err != nil {
		return err
	}
	// Unique index required for REFRESH ... CONCURRENTLY.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS uidx_active_specials_id ON active_specials (id)`,
	).Error
}
