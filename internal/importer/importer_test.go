package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"catalog/internal/catalog"
	"catalog/internal/db/dbtest"
	"catalog/internal/importer"
	"catalog/internal/media"
	"catalog/internal/models"
	"catalog/internal/validation"
)

func newImporter(t *testing.T) (*importer.Importer, func(model any) int64) {
	gdb := dbtest.New(t)
	c := catalog.New(gdb, media.NewStore(t.TempDir(), ""), zerolog.Nop())
	count := func(model any) int64 {
		var n int64
		require.NoError(t, gdb.Model(model).Count(&n).Error)
		return n
	}
	return importer.New(c), count
}

func TestImportProducts(t *testing.T) {
	im, count := newImporter(t)

	data := "name,description,price,stock\nWidget,Small,9.99,5\nGadget,Big,12,0\n"
	n, err := im.Products(context.Background(), "products.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.EqualValues(t, 2, count(&models.Product{}))
}

func TestImportProductsAllOrNothing(t *testing.T) {
	im, count := newImporter(t)

	data := "name,description,price,stock\n" +
		"Widget,Small,9.99,5\n" +
		",Nameless,abc,1.5\n" +
		"Cheap,Neg,-1,2\n"
	_, err := im.Products(context.Background(), "products.csv", strings.NewReader(data))

	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []string{"The name field is required."}, verr.Fields["3.name"])
	require.Equal(t, []string{"The price field must be a number."}, verr.Fields["3.price"])
	require.Equal(t, []string{"The stock field must be an integer."}, verr.Fields["3.stock"])
	require.Equal(t, []string{"The price field must be at least 0."}, verr.Fields["4.price"])
	require.Zero(t, count(&models.Product{}))
}

func TestImportPosts(t *testing.T) {
	im, count := newImporter(t)

	data := "title,content,author,published_at\nHello,Body,Me,2024-01-01\nBye,Body,You,\n"
	n, err := im.Posts(context.Background(), "posts.csv", strings.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.EqualValues(t, 2, count(&models.Post{}))

	_, err = im.Posts(context.Background(), "posts.csv", strings.NewReader("title,content,author\n"))
	require.ErrorIs(t, err, importer.ErrNoRows)
}
