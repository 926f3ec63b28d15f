package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"catalog/internal/models"
	"catalog/internal/repository"
	"catalog/internal/validation"
)

type CategoryInput struct {
	Name        *string
	Slug        *string
	Description *string
	Status      *bool
}

type Categories struct {
	db       *gorm.DB
	products *Products
}

func (s *Categories) List(ctx context.Context, page int) (*repository.Page[models.Category], error) {
	return repository.Paginate[models.Category](s.db.WithContext(ctx), page, repository.PerPage)
}

// Get отдаёт категорию вместе с продуктами, их картинками и категориями
func (s *Categories) Get(ctx context.Context, id uint) (*models.Category, error) {
	db := s.db.WithContext(ctx)
	c, err := repository.FindByID[models.Category](db, id, "Products", "Products.Categories")
	if err != nil {
		return nil, err
	}
	if c.Products == nil {
		c.Products = []models.Product{}
	}
	if err := repository.LoadImages(db, toPtrs(c.Products)); err != nil {
		return nil, err
	}
	for i := range c.Products {
		s.products.finish(&c.Products[i])
	}
	return c, nil
}

func (s *Categories) Create(ctx context.Context, in CategoryInput) (*models.Category, error) {
	db := s.db.WithContext(ctx)
	if err := s.validate(db, in, 0); err != nil {
		return nil, err
	}
	c := models.Category{
		Name:        *in.Name,
		Slug:        *in.Slug,
		Description: nullable(in.Description),
		Status:      true,
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	if err := db.Create(&c).Error; err != nil {
		return nil, slugConflict(err)
	}
	return &c, nil
}

func (s *Categories) Update(ctx context.Context, id uint, in CategoryInput) (*models.Category, error) {
	db := s.db.WithContext(ctx)
	c, err := repository.FindByID[models.Category](db, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(db, in, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Slug != nil {
		updates["slug"] = *in.Slug
	}
	if in.Description != nil {
		updates["description"] = nullableValue(in.Description)
	}
	if in.Status != nil {
		updates["status"] = *in.Status
	}
	if len(updates) > 0 {
		if err := db.Model(c).Updates(updates).Error; err != nil {
			return nil, slugConflict(err)
		}
	}
	return repository.FindByID[models.Category](db, id)
}

// Delete снимает связи с продуктами, сами продукты остаются
func (s *Categories) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.FindByID[models.Category](tx, id); err != nil {
			return err
		}
		if err := repository.CategoryProduct.DetachTarget(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, id).Error
	})
}

// validate: exceptID — своя строка при обновлении, её slug конфликтом не считается
func (s *Categories) validate(db *gorm.DB, in CategoryInput, exceptID uint) error {
	v := &validation.Error{}
	creating := exceptID == 0
	if creating || in.Name != nil {
		required(v, "name", in.Name, 255)
	}
	if creating || in.Slug != nil {
		required(v, "slug", in.Slug, 255)
	}
	if in.Slug != nil && *in.Slug != "" {
		taken, err := repository.Exists(db, &models.Category{}, "slug", *in.Slug, exceptID)
		if err != nil {
			return err
		}
		if taken {
			v.Add("slug", validation.Message("slug", "unique", ""))
		}
	}
	return v.OrNil()
}

// slugConflict — гонка двух запросов мимо проверки ловится уникальным индексом
func slugConflict(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return validation.Field("slug", validation.Message("slug", "unique", ""))
	}
	return err
}
