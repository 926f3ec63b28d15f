package models

import "time"

// Base — общие поля для всех таблиц
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All — модели для AutoMigrate, порядок важен из-за внешних ключей
func All() []any {
	return []any{
		&User{},
		&AccessToken{},
		&Category{},
		&Product{},
		&CategoryProduct{},
		&Type{},
		&Post{},
		&PostType{},
		&Image{},
	}
}
