package repository_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"catalog/internal/db/dbtest"
	"catalog/internal/models"
	"catalog/internal/repository"
)

type RepositoryTestSuite struct {
	suite.Suite
	db *gorm.DB
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

// SetupTest — чистая база перед каждым тестом
func (s *RepositoryTestSuite) SetupTest() {
	s.db = dbtest.New(s.T())
}

func (s *RepositoryTestSuite) product(name string) *models.Product {
	p := &models.Product{Name: name, Price: decimal.NewFromInt(1), Stock: 1}
	require.NoError(s.T(), s.db.Create(p).Error)
	return p
}

func (s *RepositoryTestSuite) category(slug string) *models.Category {
	c := &models.Category{Name: slug, Slug: slug, Status: true}
	require.NoError(s.T(), s.db.Create(c).Error)
	return c
}

func (s *RepositoryTestSuite) TestPaginate() {
	for i := 0; i < 25; i++ {
		s.product(fmt.Sprintf("p%02d", i))
	}

	page, err := repository.Paginate[models.Product](s.db, 1, repository.PerPage, "Categories")
	require.NoError(s.T(), err)
	require.Len(s.T(), page.Items, 10)
	require.Equal(s.T(), 3, page.LastPage)
	require.EqualValues(s.T(), 25, page.Total)
	require.Equal(s.T(), "p00", page.Items[0].Name)

	last, err := repository.Paginate[models.Product](s.db, 3, repository.PerPage)
	require.NoError(s.T(), err)
	require.Len(s.T(), last.Items, 5)
	require.Equal(s.T(), 25, last.To())

	beyond, err := repository.Paginate[models.Product](s.db, 9, repository.PerPage)
	require.NoError(s.T(), err)
	require.Empty(s.T(), beyond.Items)
}

func (s *RepositoryTestSuite) TestSyncIsIdempotent() {
	p := s.product("widget")
	a, b, c := s.category("a"), s.category("b"), s.category("c")
	pivot := repository.CategoryProduct

	res, err := pivot.Sync(s.db, p.ID, []uint{a.ID, b.ID})
	require.NoError(s.T(), err)
	require.Equal(s.T(), []uint{a.ID, b.ID}, res.Attached)

	res, err = pivot.Sync(s.db, p.ID, []uint{b.ID, a.ID, a.ID})
	require.NoError(s.T(), err)
	require.False(s.T(), res.Changed())

	var rows int64
	require.NoError(s.T(), s.db.Table("category_product").Where("product_id = ?", p.ID).Count(&rows).Error)
	require.EqualValues(s.T(), 2, rows)

	res, err = pivot.Sync(s.db, p.ID, []uint{c.ID, b.ID})
	require.NoError(s.T(), err)
	require.Equal(s.T(), []uint{c.ID}, res.Attached)
	require.Equal(s.T(), []uint{a.ID}, res.Detached)

	ids, err := pivot.Targets(s.db, p.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), []uint{b.ID, c.ID}, ids)

	require.NoError(s.T(), pivot.DetachTarget(s.db, b.ID))
	ids, err = pivot.Targets(s.db, p.ID)
	require.NoError(s.T(), err)
	require.Equal(s.T(), []uint{c.ID}, ids)

	require.NoError(s.T(), pivot.DetachOwner(s.db, p.ID))
	ids, err = pivot.Targets(s.db, p.ID)
	require.NoError(s.T(), err)
	require.Empty(s.T(), ids)
}

func (s *RepositoryTestSuite) TestImages() {
	p1, p2 := s.product("one"), s.product("two")

	_, err := repository.CreateImages(s.db, models.OwnerProduct, p1.ID, []string{"uploads/a.png", "uploads/b.png"})
	require.NoError(s.T(), err)
	// пост с тем же id не должен подмешаться к продукту
	_, err = repository.CreateImages(s.db, models.OwnerPost, p1.ID, []string{"uploads/c.png"})
	require.NoError(s.T(), err)

	owners := []*models.Product{p1, p2}
	require.NoError(s.T(), repository.LoadImages(s.db, owners))
	require.Len(s.T(), p1.Images, 2)
	require.NotNil(s.T(), p2.Images)
	require.Empty(s.T(), p2.Images)

	deleted, err := repository.DeleteImages(s.db, models.OwnerProduct, p1.ID)
	require.NoError(s.T(), err)
	require.Len(s.T(), deleted, 2)

	var left int64
	require.NoError(s.T(), s.db.Model(&models.Image{}).Count(&left).Error)
	require.EqualValues(s.T(), 1, left)
}

func (s *RepositoryTestSuite) TestFindAndExists() {
	c := s.category("books")

	got, err := repository.FindByID[models.Category](s.db, c.ID, "Products")
	require.NoError(s.T(), err)
	require.Equal(s.T(), "books", got.Slug)

	_, err = repository.FindByID[models.Category](s.db, 999)
	require.ErrorIs(s.T(), err, repository.ErrNotFound)

	taken, err := repository.Exists(s.db, &models.Category{}, "slug", "books", 0)
	require.NoError(s.T(), err)
	require.True(s.T(), taken)

	taken, err = repository.Exists(s.db, &models.Category{}, "slug", "books", c.ID)
	require.NoError(s.T(), err)
	require.False(s.T(), taken)

	missing, err := repository.MissingIDs(s.db, &models.Category{}, []uint{c.ID, 77, 77, 78})
	require.NoError(s.T(), err)
	require.Equal(s.T(), []uint{77, 78}, missing)
}
