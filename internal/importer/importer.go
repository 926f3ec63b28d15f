// Package importer превращает CSV/XLSX в продукты и посты.
// Сначала проверяются все строки; если хоть одна с ошибкой — ничего не пишется.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"catalog/internal/catalog"
	"catalog/internal/validation"
)

// ErrNoRows — в файле только заголовок
var ErrNoRows = errors.New("the file contains no rows to import")

type productRow struct {
	Name        string `col:"name" validate:"required,max=255"`
	Description string `col:"description" validate:"required"`
	Price       string `col:"price" validate:"required,numeric"`
	Stock       string `col:"stock" validate:"required,integer"`
}

type postRow struct {
	Title       string `col:"title" validate:"required,max=255"`
	Content     string `col:"content" validate:"required"`
	Author      string `col:"author" validate:"required,max=255"`
	PublishedAt string `col:"published_at" validate:"omitempty,date"`
}

type Importer struct {
	products *catalog.Products
	posts    *catalog.Posts
	validate *validator.Validate
}

func New(c *catalog.Catalog) *Importer {
	return &Importer{
		products: c.Products,
		posts:    c.Posts,
		validate: validation.New("col"),
	}
}

// Products импортирует продукты, возвращает сколько создано
func (im *Importer) Products(ctx context.Context, name string, r io.Reader) (int, error) {
	rows, err := readRows(name, r)
	if err != nil {
		return 0, err
	}
	verr := &validation.Error{}
	inputs := make([]catalog.ProductInput, 0, len(rows))
	for _, row := range rows {
		pr := productRow{
			Name:        row.Get("name"),
			Description: row.Get("description"),
			Price:       row.Get("price"),
			Stock:       row.Get("stock"),
		}
		prefix := fmt.Sprintf("%d.", row.Line)
		if !im.check(verr, pr, prefix) {
			continue
		}
		price, _ := decimal.NewFromString(pr.Price)
		stock, _ := strconv.Atoi(pr.Stock)
		if price.IsNegative() {
			verr.Add(prefix+"price", validation.Message("price", "min", "0"))
		}
		if stock < 0 {
			verr.Add(prefix+"stock", validation.Message("stock", "min", "0"))
		}
		inputs = append(inputs, catalog.ProductInput{
			Name:        &pr.Name,
			Description: &pr.Description,
			Price:       &price,
			Stock:       &stock,
		})
	}
	if err := verr.OrNil(); err != nil {
		return 0, err
	}
	return im.products.Import(ctx, inputs)
}

// Posts импортирует посты
func (im *Importer) Posts(ctx context.Context, name string, r io.Reader) (int, error) {
	rows, err := readRows(name, r)
	if err != nil {
		return 0, err
	}
	verr := &validation.Error{}
	inputs := make([]catalog.PostInput, 0, len(rows))
	for _, row := range rows {
		pr := postRow{
			Title:       row.Get("title"),
			Content:     row.Get("content"),
			Author:      row.Get("author"),
			PublishedAt: row.Get("published_at"),
		}
		if !im.check(verr, pr, fmt.Sprintf("%d.", row.Line)) {
			continue
		}
		in := catalog.PostInput{Title: &pr.Title, Content: &pr.Content, Author: &pr.Author}
		if t, ok := validation.ParseDate(pr.PublishedAt); ok {
			in.PublishedAt = &t
		}
		inputs = append(inputs, in)
	}
	if err := verr.OrNil(); err != nil {
		return 0, err
	}
	return im.posts.Import(ctx, inputs)
}

// check складывает ошибки строки в verr; false — строка невалидна
func (im *Importer) check(verr *validation.Error, row any, prefix string) bool {
	err := im.validate.Struct(row)
	if err == nil {
		return true
	}
	var rowErr *validation.Error
	if errors.As(validation.FromError(err, prefix), &rowErr) {
		for field, msgs := range rowErr.Fields {
			for _, m := range msgs {
				verr.Add(field, m)
			}
		}
	}
	return false
}

func readRows(name string, r io.Reader) ([]Row, error) {
	rows, err := Read(name, r)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	return rows, nil
}
