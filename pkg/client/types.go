package client

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

type Image struct {
	ID        uint      `json:"id"`
	OwnerKind string    `json:"owner_kind"`
	OwnerID   uint      `json:"owner_id"`
	Path      string    `json:"path"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}

type Category struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	Status      bool      `json:"status"`
	Products    []Product `json:"products,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Categories  []Category      `json:"categories"`
	Images      []Image         `json:"images"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Type struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type Post struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	Author      string     `json:"author"`
	PublishedAt *time.Time `json:"published_at"`
	Types       []Type     `json:"types"`
	Images      []Image    `json:"images"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Page — конверт постраничной выдачи
type Page[T any] struct {
	Data        []T     `json:"data"`
	CurrentPage int     `json:"current_page"`
	LastPage    int     `json:"last_page"`
	PerPage     int     `json:"per_page"`
	Total       int64   `json:"total"`
	From        *int    `json:"from"`
	To          *int    `json:"to"`
	NextPageURL *string `json:"next_page_url"`
	PrevPageURL *string `json:"prev_page_url"`
}

func (p *Page[T]) HasMore() bool { return p.NextPageURL != nil }

// File — картинка или таблица для отправки multipart
type File struct {
	Name   string
	Reader io.Reader
}

// ProductPayload: nil-поля не отправляются. Categories уходит всегда:
// при обновлении nil и пустой срез снимают все категории
type ProductPayload struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	Categories  []uint           `json:"categories"`
	Images      []File           `json:"-"`
}

type CategoryPayload struct {
	Name        *string `json:"name,omitempty"`
	Slug        *string `json:"slug,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *bool   `json:"status,omitempty"`
}

type PostPayload struct {
	Title       *string `json:"title,omitempty"`
	Content     *string `json:"content,omitempty"`
	Author      *string `json:"author,omitempty"`
	PublishedAt *string `json:"published_at,omitempty"`
	Types       []uint  `json:"types"`
	Images      []File  `json:"-"`
}

// Ptr — указатель на значение, для полей payload
func Ptr[T any](v T) *T { return &v }
