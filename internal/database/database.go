package database

import (
	"context"
	"fmt"

	"github.com/yukikurage/fest-registration-api/internal/config"
	"github.com/yukikurage/fest-registration-api/internal/logging"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var DB *gorm.DB

func Connect(ctx context.Context, cfg *config.Config, log logging.Logger) error {
	gormCfg := &gorm.Config{
		Logger:         NewGormLogger(log, gormLogLevel(cfg)),
		TranslateError: true,
	}

	var err error
	switch cfg.DBDriver {
	case DriverMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		DB, err = gorm.Open(mysql.Open(dsn), gormCfg)
	case DriverPostgres:
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
			cfg.DBSSLMode,
		)
		DB, err = gorm.Open(postgres.Open(dsn), gormCfg)
	case DriverSQLite:
		DB, err = OpenSQLite(cfg.SQLitePath, gormCfg)
	default:
		return fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	log.Info(ctx, "database connection established", "driver", cfg.DBDriver)
	return nil
}

// OpenSQLite opens a SQLite database limited to a single connection so that
// concurrent writers serialize instead of failing with SQLITE_BUSY.
func OpenSQLite(path string, gormCfg *gorm.Config) (*gorm.DB, error) {
	if gormCfg == nil {
		gormCfg = &gorm.Config{TranslateError: true}
	}
	db, err := gorm.Open(sqlite.Open(path), gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// AllModels lists the tables managed by AutoMigrate.
func AllModels() []any {
	return []any{
		&models.User{},
		&models.Event{},
		&models.Registration{},
		&models.TeamMember{},
	}
}

func Migrate(ctx context.Context, log logging.Logger) error {
	log.Info(ctx, "running database migrations")
	if err := DB.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if DB.Dialector.Name() == DriverPostgres {
		if err := MigratePostgres(ctx, DB, log); err != nil {
			return err
		}
	}
	log.Info(ctx, "database migrations completed")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}

func gormLogLevel(cfg *config.Config) logger.LogLevel {
	if cfg.IsProduction() {
		return logger.Warn
	}
	return logger.Info
}
