package models

// Category — таблица categories
type Category struct {
	Base
	Name        string    `gorm:"size:255;not null" json:"name"`
	Slug        string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description *string   `gorm:"type:text" json:"description"`
	Status      bool      `gorm:"not null" json:"status"` // без default: gorm подставил бы его вместо false
	Products    []Product `gorm:"many2many:category_product" json:"products,omitempty"`
}
