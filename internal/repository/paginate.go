package repository

import (
	"gorm.io/gorm"
)

// PerPage — фиксированный размер страницы
const PerPage = 10

// Page — одна страница выборки
type Page[T any] struct {
	Items       []T
	CurrentPage int
	PerPage     int
	LastPage    int
	Total       int64
}

// From/To — номера первой и последней записи на странице (0, если пусто)
func (p *Page[T]) From() int {
	if len(p.Items) == 0 {
		return 0
	}
	return (p.CurrentPage-1)*p.PerPage + 1
}

func (p *Page[T]) To() int {
	if len(p.Items) == 0 {
		return 0
	}
	return p.From() + len(p.Items) - 1
}

// LastPage никогда не меньше 1
func LastPage(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// Paginate = Count + Offset/Limit; page < 1 считается первой страницей.
// Связи из preload подгружаются только для выбранной страницы.
func Paginate[T any](db *gorm.DB, page, perPage int, preload ...string) (*Page[T], error) {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = PerPage
	}
	var model T
	var total int64
	if err := db.Model(&model).Count(&total).Error; err != nil {
		return nil, err
	}

	q := db
	for _, rel := range preload {
		q = q.Preload(rel, orderByID)
	}
	items := make([]T, 0, perPage)
	err := q.Order("id").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return &Page[T]{
		Items:       items,
		CurrentPage: page,
		PerPage:     perPage,
		LastPage:    LastPage(total, perPage),
		Total:       total,
	}, nil
}
