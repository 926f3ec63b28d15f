package models

import "time"

// Post — таблица posts
type Post struct {
	Base
	Title       string     `gorm:"size:255;not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Author      string     `gorm:"size:255;not null" json:"author"`
	PublishedAt *time.Time `json:"published_at"`
	Types       []Type     `gorm:"many2many:post_type" json:"types"`
	Images      []Image    `gorm:"-" json:"images"`
}

// Type — таблица types (жанры постов)
type Type struct {
	Base
	Name string `gorm:"size:255;not null;uniqueIndex" json:"name"`
}

// PostType — связка post_type
type PostType struct {
	PostID    uint `gorm:"primaryKey;autoIncrement:false"`
	TypeID    uint `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (PostType) TableName() string { return "post_type" }

// DefaultTypes — то, что кладёт seed
var DefaultTypes = []string{"Truyện ngắn", "Truyện dài", "Thơ", "Tản văn"}

func (p *Post) OwnerRef() (OwnerKind, uint) { return OwnerPost, p.ID }

func (p *Post) SetImages(images []Image) { p.Images = images }
