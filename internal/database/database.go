package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lifelog/internal/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// IsPostgres reports whether url points at a PostgreSQL server rather than
// a SQLite file.
func IsPostgres(url string) bool {
	return strings.HasPrefix(url, "postgresql://") || strings.HasPrefix(url, "postgres://")
}

// Dialect returns a human readable name of the backing database.
func Dialect(url string) string {
	if IsPostgres(url) {
		return "PostgreSQL"
	}
	return "SQLite"
}

// sqliteDSN appends the connection options every pooled connection needs.
// case_sensitive_like keeps substring search case-sensitive like PostgreSQL.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=1&_cslike=1&_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
}

// Init opens the configured database with basic pool tuning.
func Init(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormLogger := logger.Default
	if !cfg.LogMode {
		gormLogger = gormLogger.LogMode(logger.Silent)
	}
	gormCfg := &gorm.Config{Logger: gormLogger}

	var (
		db  *gorm.DB
		err error
	)
	if IsPostgres(cfg.URL) {
		db, err = gorm.Open(postgres.Open(cfg.URL), gormCfg)
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.URL), 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		db, err = gorm.Open(sqlite.Open(sqliteDSN(cfg.URL)), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	// recycle like the original pool_recycle=300
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// Ping checks connectivity with a trivial query.
func Ping(db *gorm.DB) error {
	var one int
	if err := db.Raw("SELECT 1").Scan(&one).Error; err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
