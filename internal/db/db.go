package db

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"catalog/internal/models"
)

// Open открывает соединение с БД по DSN из конфига
func Open(dsn string, debug bool) (*gorm.DB, error) {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true, // 23505 -> gorm.ErrDuplicatedKey
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := SetupJoinTables(db); err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)
	return db, nil
}

// SetupJoinTables регистрирует модели связок, чтобы gorm писал в них timestamps
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Product{}, "Categories", &models.CategoryProduct{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.Category{}, "Products", &models.CategoryProduct{}); err != nil {
		return err
	}
	return db.SetupJoinTable(&models.Post{}, "Types", &models.PostType{})
}

// Migrate — идемпотентное создание схемы
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := SetupJoinTables(db); err != nil {
		return err
	}
	return db.WithContext(ctx).AutoMigrate(models.All()...)
}

// Ping нужен для /health
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
