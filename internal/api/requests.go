package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"catalog/internal/catalog"
	"catalog/internal/media"
	"catalog/internal/validation"
)

// JSON-тела. Указатель nil = поле не передано.
type productRequest struct {
	Name        *string          `json:"name" binding:"omitempty,max=255"`
	Description *string          `json:"description"`
	Price       json.RawMessage  `json:"price"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	Categories  []uint           `json:"categories"`
}

type categoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Slug        *string `json:"slug" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Status      *bool   `json:"status"`
}

type postRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=255"`
	Content     *string `json:"content"`
	Author      *string `json:"author" binding:"omitempty,max=255"`
	PublishedAt *string `json:"published_at" binding:"omitempty,date"`
	Types       []uint  `json:"types"`
}

type registerRequest struct {
	Name     string `json:"name" form:"name" binding:"required,max=255"`
	Email    string `json:"email" form:"email" binding:"required,email,max=255"`
	Password string `json:"password" form:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

func isForm(c *gin.Context) bool {
	switch c.ContentType() {
	case gin.MIMEMultipartPOSTForm, gin.MIMEPOSTForm:
		return true
	}
	return false
}

// form читает multipart/urlencoded поля; ошибки типов копятся в errs
type form struct {
	c    *gin.Context
	errs *validation.Error
}

func newForm(c *gin.Context) *form {
	return &form{c: c, errs: &validation.Error{}}
}

func (f *form) str(key string) *string {
	if v, ok := f.c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

func (f *form) decimal(key string) *decimal.Decimal {
	s := f.str(key)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(*s))
	if err != nil {
		f.errs.Add(key, validation.Message(key, "numeric", ""))
		return nil
	}
	return &d
}

func (f *form) integer(key string) *int {
	s := f.str(key)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		f.errs.Add(key, validation.Message(key, "integer", ""))
		return nil
	}
	return &n
}

func (f *form) boolean(key string) *bool {
	s := f.str(key)
	if s == nil {
		return nil
	}
	var b bool
	switch strings.ToLower(strings.TrimSpace(*s)) {
	case "1", "true", "on", "yes":
		b = true
	case "0", "false", "off", "no", "":
		b = false
	default:
		f.errs.Add(key, validation.Message(key, "boolean", ""))
		return nil
	}
	return &b
}

// blank: ключ передан, но пустой
func (f *form) blank(key string) bool {
	s := f.str(key)
	return s != nil && strings.TrimSpace(*s) == ""
}

func (f *form) date(key string) *time.Time {
	s := f.str(key)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	t, ok := validation.ParseDate(*s)
	if !ok {
		f.errs.Add(key, validation.Message(key, "date", ""))
		return nil
	}
	return &t
}

// ids: "categories[]" или "categories"; одно пустое значение даёт пустой список,
// без ключа — nil
func (f *form) ids(key string) []uint {
	values, ok := f.c.GetPostFormArray(key + "[]")
	if !ok {
		if values, ok = f.c.GetPostFormArray(key); !ok {
			return nil
		}
	}
	out := make([]uint, 0, len(values))
	for i, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			field := key + "." + strconv.Itoa(i)
			f.errs.Add(field, validation.Message(field, "integer", ""))
			continue
		}
		out = append(out, uint(id))
	}
	return out
}

func (f *form) files(key string) []media.Upload {
	mf, err := f.c.MultipartForm()
	if err != nil || mf == nil {
		return nil
	}
	headers := mf.File[key+"[]"]
	if len(headers) == 0 {
		headers = mf.File[key]
	}
	return media.FromFileHeaders(headers)
}

func (h *Handler) productInput(c *gin.Context) (catalog.ProductInput, bool) {
	if isForm(c) {
		f := newForm(c)
		in := catalog.ProductInput{
			Name:        f.str("name"),
			Description: f.str("description"),
			Price:       f.decimal("price"),
			Stock:       f.integer("stock"),
			Categories:  f.ids("categories"),
			Images:      f.files("images"),
		}
		if err := f.errs.OrNil(); err != nil {
			h.fail(c, err)
			return in, false
		}
		return in, true
	}

	var req productRequest
	if err := bind(c, &req); err != nil {
		h.bindFailed(c, err)
		return catalog.ProductInput{}, false
	}
	price, err := jsonDecimal("price", req.Price)
	if err != nil {
		h.fail(c, err)
		return catalog.ProductInput{}, false
	}
	return catalog.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
		Categories:  req.Categories,
	}, true
}

// jsonDecimal принимает число или числовую строку; null и "" — не передано
func jsonDecimal(key string, raw json.RawMessage) (*decimal.Decimal, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, validation.Field(key, validation.Message(key, "numeric", ""))
		}
		if s = strings.TrimSpace(s); s == "" {
			return nil, nil
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, validation.Field(key, validation.Message(key, "numeric", ""))
	}
	return &d, nil
}

func (h *Handler) categoryInput(c *gin.Context) (catalog.CategoryInput, bool) {
	if isForm(c) {
		f := newForm(c)
		in := catalog.CategoryInput{
			Name:        f.str("name"),
			Slug:        f.str("slug"),
			Description: f.str("description"),
			Status:      f.boolean("status"),
		}
		if err := f.errs.OrNil(); err != nil {
			h.fail(c, err)
			return in, false
		}
		return in, true
	}

	var req categoryRequest
	if err := bind(c, &req); err != nil {
		h.bindFailed(c, err)
		return catalog.CategoryInput{}, false
	}
	return catalog.CategoryInput{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Status:      req.Status,
	}, true
}

func (h *Handler) postInput(c *gin.Context) (catalog.PostInput, bool) {
	if isForm(c) {
		f := newForm(c)
		in := catalog.PostInput{
			Title:            f.str("title"),
			Content:          f.str("content"),
			Author:           f.str("author"),
			PublishedAt:      f.date("published_at"),
			ClearPublishedAt: f.blank("published_at"),
			Types:            f.ids("types"),
			Images:           f.files("images"),
		}
		if err := f.errs.OrNil(); err != nil {
			h.fail(c, err)
			return in, false
		}
		return in, true
	}

	var req postRequest
	if err := bind(c, &req); err != nil {
		h.bindFailed(c, err)
		return catalog.PostInput{}, false
	}
	in := catalog.PostInput{
		Title:   req.Title,
		Content: req.Content,
		Author:  req.Author,
		Types:   req.Types,
	}
	switch {
	case req.PublishedAt == nil:
	case strings.TrimSpace(*req.PublishedAt) == "":
		in.ClearPublishedAt = true
	default:
		t, _ := validation.ParseDate(*req.PublishedAt)
		in.PublishedAt = &t
	}
	return in, true
}
