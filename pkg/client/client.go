// Package client — Go-клиент REST API каталога.
//
// Gateway держит базовый URL, цепочки перехватчиков запросов и ответов
// и подписчиков на уведомления. Поверх него работают сервисы
// Products, Categories, Posts, Types и Auth.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultBaseURL — адрес API при локальном запуске
const DefaultBaseURL = "http://localhost:8080/api"

// ErrUnauthenticated — сервер ответил 401, токен уже удалён
var ErrUnauthenticated = errors.New("unauthenticated")

// APIError — ответ сервера со статусом >= 400 (Status 0 — сеть)
type APIError struct {
	Status  int                 `json:"-"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return "request failed: " + e.Message
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthenticated
	}
	return nil
}

// Messages — все сообщения валидации, по порядку полей
func (e *APIError) Messages() []string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	var out []string
	for _, f := range fields {
		out = append(out, e.Errors[f]...)
	}
	return out
}

// RequestInterceptor может поменять запрос перед отправкой
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor вызывается на каждый неуспешный ответ
type ResponseInterceptor func(g *Gateway, apiErr *APIError)

type Gateway struct {
	baseURL     string
	http        *http.Client
	tokens      TokenStore
	onRequest   []RequestInterceptor
	onError     []ResponseInterceptor
	mu          sync.Mutex
	subscribers map[int]func(Notification)
	nextSub     int

	Products   *Products
	Categories *Categories
	Posts      *Posts
	Types      *Types
	Auth       *Auth
}

type Option func(*Gateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) { g.http = c }
}

func WithTokenStore(s TokenStore) Option {
	return func(g *Gateway) { g.tokens = s }
}

// WithRequestInterceptor добавляет перехватчик после стандартного (bearer)
func WithRequestInterceptor(ic RequestInterceptor) Option {
	return func(g *Gateway) { g.onRequest = append(g.onRequest, ic) }
}

// WithResponseInterceptor добавляет перехватчик после стандартных
func WithResponseInterceptor(ic ResponseInterceptor) Option {
	return func(g *Gateway) { g.onError = append(g.onError, ic) }
}

// WithoutDefaultInterceptors — только то, что передано опциями
func WithoutDefaultInterceptors() Option {
	return func(g *Gateway) { g.onRequest, g.onError = nil, nil }
}

func New(baseURL string, opts ...Option) *Gateway {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	g := &Gateway{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: 30 * time.Second},
		tokens:      NewMemoryTokenStore(),
		subscribers: map[int]func(Notification){},
	}
	g.onRequest = []RequestInterceptor{g.bearer}
	g.onError = []ResponseInterceptor{SessionExpired, ValidationNotifier, ErrorNotifier}
	for _, opt := range opts {
		opt(g)
	}

	g.Products = &Products{g: g}
	g.Categories = &Categories{g: g}
	g.Posts = &Posts{g: g}
	g.Types = &Types{g: g}
	g.Auth = &Auth{g: g}
	return g
}

func (g *Gateway) BaseURL() string    { return g.baseURL }
func (g *Gateway) Tokens() TokenStore { return g.tokens }

// Subscribe регистрирует получателя уведомлений; вернёт функцию отписки
func (g *Gateway) Subscribe(fn func(Notification)) (unsubscribe func()) {
	g.mu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subscribers[id] = fn
	g.mu.Unlock()

	return func() {
		g.mu.Lock()
		delete(g.subscribers, id)
		g.mu.Unlock()
	}
}

// Publish рассылает уведомление всем подписчикам
func (g *Gateway) Publish(n Notification) {
	g.mu.Lock()
	subs := make([]func(Notification), 0, len(g.subscribers))
	for _, fn := range g.subscribers {
		subs = append(subs, fn)
	}
	g.mu.Unlock()

	for _, fn := range subs {
		fn(n)
	}
}

func (g *Gateway) bearer(req *http.Request) error {
	token, err := g.tokens.Token()
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// send выполняет запрос и декодирует JSON-ответ в out (если out != nil)
func (g *Gateway) send(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, ic := range g.onRequest {
		if err := ic(req); err != nil {
			return err
		}
	}

	resp, err := g.http.Do(req)
	if err != nil {
		apiErr := &APIError{Message: err.Error()}
		g.intercept(apiErr)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		_ = json.Unmarshal(raw, apiErr)
		g.intercept(apiErr)
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (g *Gateway) intercept(apiErr *APIError) {
	for _, ic := range g.onError {
		ic(g, apiErr)
	}
}

// sendJSON кодирует in в тело запроса
func (g *Gateway) sendJSON(ctx context.Context, method, path string, in, out any) error {
	if in == nil {
		return g.send(ctx, method, path, nil, "", out)
	}
	b, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return g.send(ctx, method, path, bytes.NewReader(b), "application/json", out)
}
