package catalog

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"catalog/internal/media"
	"catalog/internal/models"
	"catalog/internal/repository"
	"catalog/internal/validation"
)

// ProductInput — поля из запроса; nil значит "не передано".
// Исключение — Categories: при обновлении nil и пустой срез одинаково снимают все связи.
type ProductInput struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Stock       *int
	Categories  []uint
	Images      []media.Upload
}

type Products struct {
	db    *gorm.DB
	files *files
}

func (s *Products) List(ctx context.Context, page int) (*repository.Page[models.Product], error) {
	db := s.db.WithContext(ctx)
	p, err := repository.Paginate[models.Product](db, page, repository.PerPage, "Categories")
	if err != nil {
		return nil, err
	}
	if err := repository.LoadImages(db, toPtrs(p.Items)); err != nil {
		return nil, err
	}
	for i := range p.Items {
		s.finish(&p.Items[i])
	}
	return p, nil
}

func (s *Products) Get(ctx context.Context, id uint) (*models.Product, error) {
	db := s.db.WithContext(ctx)
	p, err := repository.FindByID[models.Product](db, id, "Categories")
	if err != nil {
		return nil, err
	}
	if err := repository.LoadImages(db, []*models.Product{p}); err != nil {
		return nil, err
	}
	s.finish(p)
	return p, nil
}

func (s *Products) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	db := s.db.WithContext(ctx)
	if err := s.validate(db, in, true); err != nil {
		return nil, err
	}

	p := newProduct(in)
	err := s.files.withUploads(in.Images, func(paths []string) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			if in.Categories != nil {
				if _, err := repository.CategoryProduct.Sync(tx, p.ID, in.Categories); err != nil {
					return err
				}
			}
			_, err := repository.CreateImages(tx, models.OwnerProduct, p.ID, paths)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, p.ID)
}

// Update меняет только переданные поля, категории заменяются всегда;
// новые картинки добавляются к старым
func (s *Products) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	db := s.db.WithContext(ctx)
	p, err := repository.FindByID[models.Product](db, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(db, in, false); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = nullableValue(in.Description)
	}
	if in.Price != nil {
		updates["price"] = *in.Price
	}
	if in.Stock != nil {
		updates["stock"] = *in.Stock
	}

	err = s.files.withUploads(in.Images, func(paths []string) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(p).Updates(updates).Error; err != nil {
					return err
				}
			}
			if _, err := repository.CategoryProduct.Sync(tx, p.ID, in.Categories); err != nil {
				return err
			}
			_, err := repository.CreateImages(tx, models.OwnerProduct, p.ID, paths)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, p.ID)
}

// Delete: картинки (строки), связи, сам продукт; файлы стираются после коммита
func (s *Products) Delete(ctx context.Context, id uint) error {
	var removed []models.Image
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.FindByID[models.Product](tx, id); err != nil {
			return err
		}
		var err error
		if removed, err = repository.DeleteImages(tx, models.OwnerProduct, id); err != nil {
			return err
		}
		if err := repository.CategoryProduct.DetachOwner(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
	if err != nil {
		return err
	}
	s.files.remove(removed)
	return nil
}

// Import создаёт все продукты одной транзакцией: либо все, либо ни одного
func (s *Products) Import(ctx context.Context, inputs []ProductInput) (int, error) {
	db := s.db.WithContext(ctx)
	for _, in := range inputs {
		if err := s.validate(db, in, true); err != nil {
			return 0, err
		}
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, in := range inputs {
			p := newProduct(in)
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(inputs), nil
}

func (s *Products) validate(db *gorm.DB, in ProductInput, creating bool) error {
	v := &validation.Error{}
	if creating {
		required(v, "name", in.Name, 255)
	} else if in.Name != nil {
		required(v, "name", in.Name, 255)
	}
	if in.Price != nil && in.Price.IsNegative() {
		v.Add("price", validation.Message("price", "min", "0"))
	}
	if in.Stock != nil && *in.Stock < 0 {
		v.Add("stock", validation.Message("stock", "min", "0"))
	}
	if err := checkIDs(db, v, "categories", &models.Category{}, in.Categories); err != nil {
		return err
	}
	return v.OrNil()
}

func (s *Products) finish(p *models.Product) {
	if p.Categories == nil {
		p.Categories = []models.Category{}
	}
	if p.Images == nil {
		p.Images = []models.Image{}
	}
	s.files.decorate(p.Images)
}

func newProduct(in ProductInput) models.Product {
	p := models.Product{Name: *in.Name, Description: nullable(in.Description)}
	if in.Price != nil {
		p.Price = in.Price.Round(2)
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	return p
}
