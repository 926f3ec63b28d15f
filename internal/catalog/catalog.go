// Package catalog — операции над продуктами, категориями, постами и типами:
// проверки, которым нужна база, транзакции, картинки и синхронизация связей.
package catalog

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"catalog/internal/media"
	"catalog/internal/models"
	"catalog/internal/repository"
	"catalog/internal/validation"
)

// ErrNotFound — сущности с таким id нет (404)
var ErrNotFound = repository.ErrNotFound

// Catalog собирает все сервисы вместе
type Catalog struct {
	Products   *Products
	Categories *Categories
	Posts      *Posts
	Types      *Types
}

func New(db *gorm.DB, store *media.Store, log zerolog.Logger) *Catalog {
	f := &files{store: store, log: log}
	products := &Products{db: db, files: f}
	return &Catalog{
		Products:   products,
		Categories: &Categories{db: db, products: products},
		Posts:      &Posts{db: db, files: f},
		Types:      &Types{db: db},
	}
}

// files связывает запись файлов на диск с транзакцией в БД
type files struct {
	store *media.Store
	log   zerolog.Logger
}

// withUploads: файлы пишутся до транзакции и стираются, если fn вернула ошибку
func (f *files) withUploads(uploads []media.Upload, fn func(paths []string) error) error {
	paths, idx, err := f.store.SaveAll(uploads)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedImage) {
			field := fmt.Sprintf("images.%d", idx)
			return validation.Field(field, validation.Message(field, "image", ""))
		}
		return fmt.Errorf("store images: %w", err)
	}
	if err := fn(paths); err != nil {
		if rmErr := f.store.DeleteAll(paths); rmErr != nil {
			f.log.Warn().Err(rmErr).Strs("paths", paths).Msg("failed to remove orphaned uploads")
		}
		return err
	}
	return nil
}

// remove вызывается после коммита удаления; ошибки только логируем
func (f *files) remove(images []models.Image) {
	for _, img := range images {
		if err := f.store.Delete(img.Path); err != nil {
			f.log.Warn().Err(err).Str("path", img.Path).Msg("failed to remove image file")
		}
	}
}

func (f *files) decorate(images []models.Image) {
	for i := range images {
		images[i].URL = f.store.URL(images[i].Path)
	}
}

// checkIDs: все ли id из ids есть в таблице model
func checkIDs(db *gorm.DB, v *validation.Error, field string, model any, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	missing, err := repository.MissingIDs(db, model, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		v.Add(field, validation.Message(field, "exists", ""))
	}
	return nil
}

func required(v *validation.Error, field string, val *string, max int) {
	if val == nil || *val == "" {
		v.Add(field, validation.Message(field, "required", ""))
		return
	}
	maxLen(v, field, val, max)
}

func maxLen(v *validation.Error, field string, val *string, max int) {
	if val != nil && max > 0 && len([]rune(*val)) > max {
		v.Add(field, validation.Message(field, "max", fmt.Sprint(max)))
	}
}

// nullable: пустая строка уходит в БД как NULL
func nullable(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func nullableValue(s *string) any {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

// toPtrs нужен для LoadImages, который работает с указателями
func toPtrs[T any](items []T) []*T {
	out := make([]*T, len(items))
	for i := range items {
		out[i] = &items[i]
	}
	return out
}
