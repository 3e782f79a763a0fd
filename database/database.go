package database

import (
	"fmt"
	"time"

	"github.com/junaidrashid-git/storefront-api/config"
	"github.com/junaidrashid-git/storefront-api/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to the configured database and checks it answers.
func Open(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn), TranslateError: true}
	if cfg.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

// OpenMemory returns a private in-memory SQLite database, migrated and
// ready for use. Each name gets its own database.
func OpenMemory(name string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent), TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate auto-migrates every table the storefront owns.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartItem{},
		&models.WishlistItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Message{},
		&models.HeroContent{},
		&models.Theme{},
	); err != nil {
		return fmt.Errorf("auto-migrate failed: %w", err)
	}
	// At most one theme may be active.
	if err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_themes_single_active ON themes (is_active) WHERE is_active`).Error; err != nil {
		return fmt.Errorf("create single active theme index: %w", err)
	}
	zap.L().Debug("tables migrated")
	return nil
}
