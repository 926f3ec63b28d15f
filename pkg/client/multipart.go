package client

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
)

// form собирает multipart-тело; первая ошибка запоминается
type form struct {
	buf bytes.Buffer
	w   *multipart.Writer
	err error
}

func newForm() *form {
	f := &form{}
	f.w = multipart.NewWriter(&f.buf)
	return f
}

func (f *form) field(name, value string) {
	if f.err == nil {
		f.err = f.w.WriteField(name, value)
	}
}

func (f *form) optional(name string, value *string) {
	if value != nil {
		f.field(name, *value)
	}
}

// ids: пустой (но не nil) список уходит как одно пустое значение — очистка
func (f *form) ids(name string, ids []uint) {
	if ids == nil {
		return
	}
	if len(ids) == 0 {
		f.field(name, "")
		return
	}
	for _, id := range ids {
		f.field(name+"[]", strconv.FormatUint(uint64(id), 10))
	}
}

func (f *form) file(name string, file File) {
	if f.err != nil {
		return
	}
	fw, err := f.w.CreateFormFile(name, file.Name)
	if err != nil {
		f.err = err
		return
	}
	if _, err := io.Copy(fw, file.Reader); err != nil {
		f.err = fmt.Errorf("copy %s: %w", file.Name, err)
	}
}

func (f *form) files(name string, files []File) {
	for _, file := range files {
		f.file(name+"[]", file)
	}
}

func (f *form) finish() (io.Reader, string, error) {
	if f.err == nil {
		f.err = f.w.Close()
	}
	if f.err != nil {
		return nil, "", f.err
	}
	return &f.buf, f.w.FormDataContentType(), nil
}

func (p ProductPayload) form(method string) *form {
	f := newForm()
	if method != "" {
		f.field("_method", method)
	}
	f.optional("name", p.Name)
	f.optional("description", p.Description)
	if p.Price != nil {
		f.field("price", p.Price.String())
	}
	if p.Stock != nil {
		f.field("stock", strconv.Itoa(*p.Stock))
	}
	f.ids("categories", p.Categories)
	f.files("images", p.Images)
	return f
}

func (p PostPayload) form(method string) *form {
	f := newForm()
	if method != "" {
		f.field("_method", method)
	}
	f.optional("title", p.Title)
	f.optional("content", p.Content)
	f.optional("author", p.Author)
	f.optional("published_at", p.PublishedAt)
	f.ids("types", p.Types)
	f.files("images", p.Images)
	return f
}
