package client

import (
	"context"
	"fmt"
	"net/http"
)

// resource — общие REST-вызовы для одной сущности
type resource[T any] struct {
	g    *Gateway
	path string
}

func (r resource[T]) list(ctx context.Context, page int) (*Page[T], error) {
	if page < 1 {
		page = 1
	}
	var out Page[T]
	if err := r.g.sendJSON(ctx, http.MethodGet, fmt.Sprintf("%s?page=%d", r.path, page), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T]) get(ctx context.Context, id uint) (*T, error) {
	var out T
	if err := r.g.sendJSON(ctx, http.MethodGet, fmt.Sprintf("%s/%d", r.path, id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r resource[T]) delete(ctx context.Context, id uint) error {
	return r.g.sendJSON(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", r.path, id), nil, nil)
}

// save: JSON без файлов, иначе multipart (обновление — POST + _method=PUT)
func (r resource[T]) save(ctx context.Context, id uint, payload any, hasFiles bool, toForm func(method string) *form) (*T, error) {
	method, path := http.MethodPost, r.path
	if id != 0 {
		method, path = http.MethodPut, fmt.Sprintf("%s/%d", r.path, id)
	}
	var out T
	if !hasFiles {
		if err := r.g.sendJSON(ctx, method, path, payload, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}

	override := ""
	if id != 0 {
		override = http.MethodPut
	}
	body, contentType, err := toForm(override).finish()
	if err != nil {
		return nil, err
	}
	if err := r.g.send(ctx, http.MethodPost, path, body, contentType, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type importResult struct {
	Message  string `json:"message"`
	Imported int    `json:"imported"`
}

func (r resource[T]) importFile(ctx context.Context, file File) (int, error) {
	f := newForm()
	f.file("file", file)
	body, contentType, err := f.finish()
	if err != nil {
		return 0, err
	}
	var out importResult
	if err := r.g.send(ctx, http.MethodPost, r.path+"/import", body, contentType, &out); err != nil {
		return 0, err
	}
	return out.Imported, nil
}

type Products struct{ g *Gateway }

func (s *Products) res() resource[Product] { return resource[Product]{g: s.g, path: "/products"} }

func (s *Products) List(ctx context.Context, page int) (*Page[Product], error) {
	return s.res().list(ctx, page)
}

func (s *Products) Get(ctx context.Context, id uint) (*Product, error) {
	return s.res().get(ctx, id)
}

func (s *Products) Create(ctx context.Context, p ProductPayload) (*Product, error) {
	return s.res().save(ctx, 0, p, len(p.Images) > 0, p.form)
}

func (s *Products) Update(ctx context.Context, id uint, p ProductPayload) (*Product, error) {
	return s.res().save(ctx, id, p, len(p.Images) > 0, p.form)
}

func (s *Products) Delete(ctx context.Context, id uint) error {
	return s.res().delete(ctx, id)
}

// Import отправляет CSV/XLSX, возвращает число созданных продуктов
func (s *Products) Import(ctx context.Context, file File) (int, error) {
	return s.res().importFile(ctx, file)
}

type Categories struct{ g *Gateway }

func (s *Categories) res() resource[Category] {
	return resource[Category]{g: s.g, path: "/categories"}
}

func (s *Categories) List(ctx context.Context, page int) (*Page[Category], error) {
	return s.res().list(ctx, page)
}

func (s *Categories) Get(ctx context.Context, id uint) (*Category, error) {
	return s.res().get(ctx, id)
}

func (s *Categories) Create(ctx context.Context, p CategoryPayload) (*Category, error) {
	return s.res().save(ctx, 0, p, false, nil)
}

func (s *Categories) Update(ctx context.Context, id uint, p CategoryPayload) (*Category, error) {
	return s.res().save(ctx, id, p, false, nil)
}

func (s *Categories) Delete(ctx context.Context, id uint) error {
	return s.res().delete(ctx, id)
}

type Posts struct{ g *Gateway }

func (s *Posts) res() resource[Post] { return resource[Post]{g: s.g, path: "/posts"} }

func (s *Posts) List(ctx context.Context, page int) (*Page[Post], error) {
	return s.res().list(ctx, page)
}

func (s *Posts) Get(ctx context.Context, id uint) (*Post, error) {
	return s.res().get(ctx, id)
}

func (s *Posts) Create(ctx context.Context, p PostPayload) (*Post, error) {
	return s.res().save(ctx, 0, p, len(p.Images) > 0, p.form)
}

func (s *Posts) Update(ctx context.Context, id uint, p PostPayload) (*Post, error) {
	return s.res().save(ctx, id, p, len(p.Images) > 0, p.form)
}

func (s *Posts) Delete(ctx context.Context, id uint) error {
	return s.res().delete(ctx, id)
}

func (s *Posts) Import(ctx context.Context, file File) (int, error) {
	return s.res().importFile(ctx, file)
}

type Types struct{ g *Gateway }

// All — весь справочник типов постов
func (s *Types) All(ctx context.Context) ([]Type, error) {
	var out []Type
	if err := s.g.sendJSON(ctx, http.MethodGet, "/types", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type Auth struct{ g *Gateway }

type authResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Login сохраняет полученный токен в TokenStore
func (s *Auth) Login(ctx context.Context, email, password string) (*User, error) {
	return s.authenticate(ctx, "/login", map[string]string{"email": email, "password": password})
}

func (s *Auth) Register(ctx context.Context, name, email, password string) (*User, error) {
	return s.authenticate(ctx, "/register", map[string]string{"name": name, "email": email, "password": password})
}

func (s *Auth) authenticate(ctx context.Context, path string, body map[string]string) (*User, error) {
	var out authResponse
	if err := s.g.sendJSON(ctx, http.MethodPost, path, body, &out); err != nil {
		return nil, err
	}
	if err := s.g.tokens.SetToken(out.Token); err != nil {
		return nil, fmt.Errorf("store token: %w", err)
	}
	return &out.User, nil
}

// Logout: токен удаляется локально даже при ошибке сервера
func (s *Auth) Logout(ctx context.Context) error {
	err := s.g.sendJSON(ctx, http.MethodPost, "/logout", nil, nil)
	if clearErr := s.g.tokens.Clear(); clearErr != nil && err == nil {
		err = clearErr
	}
	return err
}

func (s *Auth) Me(ctx context.Context) (*User, error) {
	var out User
	if err := s.g.sendJSON(ctx, http.MethodGet, "/user", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
