package db

import (
	"context"

	"gorm.io/gorm"

	"catalog/internal/models"
)

const (
	AdminEmail    = "admin@gmail.com"
	AdminPassword = "12345678"
)

// Seed кладёт типы постов и админа; повторный запуск ничего не дублирует
func Seed(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range models.DefaultTypes {
			t := models.Type{Name: name}
			if err := tx.Where(models.Type{Name: name}).FirstOrCreate(&t).Error; err != nil {
				return err
			}
		}

		var cnt int64
		if err := tx.Model(&models.User{}).Where("email = ?", AdminEmail).Count(&cnt).Error; err != nil {
			return err
		}
		if cnt > 0 {
			return nil
		}
		hash, err := models.HashPassword(AdminPassword)
		if err != nil {
			return err
		}
		return tx.Create(&models.User{Name: "admin", Email: AdminEmail, PasswordHash: hash}).Error
	})
}
