package db

import (
	"context"
	"fmt"

	"github.com/orgnotes/orgnotes/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ConnectDatabase opens dsn with the named driver. Unique and foreign key violations
// are translated to gorm.ErrDuplicatedKey and gorm.ErrForeignKeyViolated.
func ConnectDatabase(driver, dsn string, log *zap.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Discard,
	})

	if err != nil {
		return nil, err
	}

	if driver == "sqlite" {
		// In-memory databases live and die with a single connection.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)

		if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
	}

	log.Info("Connected to database", zap.String("driver", driver))

	return db, nil
}

func MigrateDatabase(db *gorm.DB) error {
	tables := []interface{}{
		&models.Organization{},
		&models.User{},
		&models.Note{},
	}

	return db.AutoMigrate(tables...)
}

// Ping reports whether the database answers.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
