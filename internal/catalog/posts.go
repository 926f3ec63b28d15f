package catalog

import (
	"context"
	"time"

	"gorm.io/gorm"

	"catalog/internal/media"
	"catalog/internal/models"
	"catalog/internal/repository"
	"catalog/internal/validation"
)

// PostInput — Types == nil не трогает связи с типами.
// ClearPublishedAt обнуляет published_at (поле передано пустым).
type PostInput struct {
	Title            *string
	Content          *string
	Author           *string
	PublishedAt      *time.Time
	ClearPublishedAt bool
	Types            []uint
	Images           []media.Upload
}

type Posts struct {
	db    *gorm.DB
	files *files
}

func (s *Posts) List(ctx context.Context, page int) (*repository.Page[models.Post], error) {
	db := s.db.WithContext(ctx)
	p, err := repository.Paginate[models.Post](db, page, repository.PerPage, "Types")
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

func (s *Posts) Get(ctx context.Context, id uint) (*models.Post, error) {
	db := s.db.WithContext(ctx)
	p, err := repository.FindByID[models.Post](db, id, "Types")
	if err != nil {
		return nil, err
	}
	if err := repository.LoadImages(db, []*models.Post{p}); err != nil {
		return nil, err
	}
	s.finish(p)
	return p, nil
}

func (s *Posts) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	db := s.db.WithContext(ctx)
	if err := s.validate(db, in, true); err != nil {
		return nil, err
	}

	p := newPost(in)
	err := s.files.withUploads(in.Images, func(paths []string) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			if in.Types != nil {
				if _, err := repository.PostType.Sync(tx, p.ID, in.Types); err != nil {
					return err
				}
			}
			_, err := repository.CreateImages(tx, models.OwnerPost, p.ID, paths)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, p.ID)
}

func (s *Posts) Update(ctx context.Context, id uint, in PostInput) (*models.Post, error) {
	db := s.db.WithContext(ctx)
	p, err := repository.FindByID[models.Post](db, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(db, in, false); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.Content != nil {
		updates["content"] = *in.Content
	}
	if in.Author != nil {
		updates["author"] = *in.Author
	}
	switch {
	case in.PublishedAt != nil:
		updates["published_at"] = *in.PublishedAt
	case in.ClearPublishedAt:
		updates["published_at"] = nil
	}

	err = s.files.withUploads(in.Images, func(paths []string) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if len(updates) > 0 {
				if err := tx.Model(p).Updates(updates).Error; err != nil {
					return err
				}
			}
			if in.Types != nil {
				if _, err := repository.PostType.Sync(tx, p.ID, in.Types); err != nil {
					return err
				}
			}
			_, err := repository.CreateImages(tx, models.OwnerPost, p.ID, paths)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, p.ID)
}

func (s *Posts) Delete(ctx context.Context, id uint) error {
	var removed []models.Image
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := repository.FindByID[models.Post](tx, id); err != nil {
			return err
		}
		var err error
		if removed, err = repository.DeleteImages(tx, models.OwnerPost, id); err != nil {
			return err
		}
		if err := repository.PostType.DetachOwner(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, id).Error
	})
	if err != nil {
		return err
	}
	s.files.remove(removed)
	return nil
}

// Import — все посты или ни одного
func (s *Posts) Import(ctx context.Context, inputs []PostInput) (int, error) {
	db := s.db.WithContext(ctx)
	for _, in := range inputs {
		if err := s.validate(db, in, true); err != nil {
			return 0, err
		}
	}
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, in := range inputs {
			p := newPost(in)
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

func (s *Posts) validate(db *gorm.DB, in PostInput, creating bool) error {
	v := &validation.Error{}
	if creating || in.Title != nil {
		required(v, "title", in.Title, 255)
	}
	if creating || in.Content != nil {
		required(v, "content", in.Content, 0)
	}
	if creating || in.Author != nil {
		required(v, "author", in.Author, 255)
	}
	if err := checkIDs(db, v, "types", &models.Type{}, in.Types); err != nil {
		return err
	}
	return v.OrNil()
}

func (s *Posts) finish(p *models.Post) {
	if p.Types == nil {
		p.Types = []models.Type{}
	}
	if p.Images == nil {
		p.Images = []models.Image{}
	}
	s.files.decorate(p.Images)
}

func newPost(in PostInput) models.Post {
	return models.Post{
		Title:       *in.Title,
		Content:     *in.Content,
		Author:      *in.Author,
		PublishedAt: in.PublishedAt,
	}
}

// Types — справочник типов постов
type Types struct {
	db *gorm.DB
}

func (s *Types) List(ctx context.Context) ([]models.Type, error) {
	items := []models.Type{}
	err := s.db.WithContext(ctx).Order("id").Find(&items).Error
	return items, err
}
