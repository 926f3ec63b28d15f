package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// цена уходит в JSON числом: 9.99, а не "9.99"
	decimal.MarshalJSONWithoutQuotes = true
}

// Product — таблица products
type Product struct {
	Base
	Name        string          `gorm:"size:255;not null" json:"name"`
	Description *string         `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null;check:chk_products_price,price >= 0" json:"price"`
	Stock       int             `gorm:"not null;check:chk_products_stock,stock >= 0" json:"stock"`
	Categories  []Category      `gorm:"many2many:category_product" json:"categories"`
	Images      []Image         `gorm:"-" json:"images"`
}

// CategoryProduct — связка category_product (составной PK + timestamps)
type CategoryProduct struct {
	ProductID  uint `gorm:"primaryKey;autoIncrement:false"`
	CategoryID uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (CategoryProduct) TableName() string { return "category_product" }

func (p *Product) OwnerRef() (OwnerKind, uint) { return OwnerProduct, p.ID }

func (p *Product) SetImages(images []Image) { p.Images = images }
