package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User — таблица users
type User struct {
	Base
	Name         string `gorm:"size:255;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
}

// AccessToken — выданные bearer-токены; храним только sha256
type AccessToken struct {
	Base
	UserID     uint       `gorm:"index;not null"`
	User       User       `gorm:"constraint:OnDelete:CASCADE"`
	TokenHash  string     `gorm:"size:64;uniqueIndex;not null"`
	LastUsedAt *time.Time
	ExpiresAt  *time.Time
}

// HashPassword превращает обычный пароль в безопасный хэш
func HashPassword(pw string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPassword проверяет пароль на совпадение с хэшем
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
