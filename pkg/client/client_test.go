package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/pkg/client"
)

// recorder собирает уведомления подписчика
type recorder struct {
	mu    sync.Mutex
	items []client.Notification
}

func (r *recorder) add(n client.Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

func (r *recorder) all() []client.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]client.Notification(nil), r.items...)
}

func newGateway(t *testing.T, h http.HandlerFunc, opts ...client.Option) (*client.Gateway, *recorder) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	g := client.New(srv.URL+"/api", opts...)
	rec := &recorder{}
	unsubscribe := g.Subscribe(rec.add)
	t.Cleanup(unsubscribe)
	return g, rec
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestLoginStoresTokenAndSendsBearer(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		switch r.URL.Path {
		case "/api/login":
			writeJSON(w, http.StatusOK, map[string]any{"user": map[string]any{"id": 1, "email": "a@b.c"}, "token": "tok"})
		case "/api/user":
			writeJSON(w, http.StatusOK, map[string]any{"id": 1, "email": "a@b.c"})
		}
	})

	u, err := g.Auth.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", u.Email)

	token, _ := g.Tokens().Token()
	assert.Equal(t, "tok", token)

	_, err = g.Auth.Me(context.Background())
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"", "Bearer tok"}, seen)
}

func TestUnauthorizedClearsTokenAndNotifiesOnce(t *testing.T) {
	store := client.NewMemoryTokenStore()
	require.NoError(t, store.SetToken("stale"))

	g, rec := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "Unauthenticated."})
	}, client.WithTokenStore(store))

	_, err := g.Products.List(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, client.ErrUnauthenticated))

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	token, _ := store.Token()
	assert.Empty(t, token)

	got := rec.all()
	require.Len(t, got, 1)
	assert.Equal(t, client.EventSessionExpired, got[0].Kind)
	assert.Equal(t, "Session expired. Please login again.", got[0].Message)
}

func TestValidationPublishesEveryMessage(t *testing.T) {
	g, rec := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"message": "The name field is required. (and 1 more error)",
			"errors": map[string][]string{
				"name": {"The name field is required."},
				"slug": {"The slug has already been taken."},
			},
		})
	})

	_, err := g.Categories.Create(context.Background(), client.CategoryPayload{Slug: client.Ptr("x")})
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Len(t, apiErr.Errors, 2)

	got := rec.all()
	require.Len(t, got, 2)
	assert.Equal(t, client.EventValidation, got[0].Kind)
	assert.Equal(t, "The name field is required.", got[0].Message)
	assert.Equal(t, "The slug has already been taken.", got[1].Message)
}

func TestOtherErrorsUseServerMessageOrGeneric(t *testing.T) {
	g, rec := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			writeJSON(w, http.StatusNotFound, map[string]any{"message": "Record not found."})
			return
		}
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := g.Posts.Get(context.Background(), 7)
	require.Error(t, err)
	require.Error(t, g.Posts.Delete(context.Background(), 7))

	got := rec.all()
	require.Len(t, got, 2)
	assert.Equal(t, "Record not found.", got[0].Message)
	assert.Equal(t, "Something went wrong", got[1].Message)
	assert.Equal(t, client.EventError, got[1].Kind)
}

func TestUnsubscribe(t *testing.T) {
	g, rec := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	other := &recorder{}
	stop := g.Subscribe(other.add)
	stop()

	_, _ = g.Types.All(context.Background())
	assert.Len(t, rec.all(), 1)
	assert.Empty(t, other.all())
}

func TestProductCreateSendsJSON(t *testing.T) {
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Widget", body["name"])
		assert.Equal(t, "9.99", body["price"])
		assert.Nil(t, body["categories"])
		writeJSON(w, http.StatusCreated, map[string]any{"id": 3, "name": "Widget", "price": 9.99, "stock": 5})
	})

	price := decimal.RequireFromString("9.99")
	p, err := g.Products.Create(context.Background(), client.ProductPayload{
		Name:  client.Ptr("Widget"),
		Price: &price,
		Stock: client.Ptr(5),
	})
	require.NoError(t, err)
	assert.Equal(t, uint(3), p.ID)
	assert.True(t, p.Price.Equal(price))
}

func TestProductUpdateWithImagesUsesMethodOverride(t *testing.T) {
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/products/4", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "PUT", r.FormValue("_method"))
		assert.Equal(t, "Lamp", r.FormValue("name"))
		assert.Equal(t, []string{"1", "2"}, r.MultipartForm.Value["categories[]"])

		files := r.MultipartForm.File["images[]"]
		require.Len(t, files, 1)
		f, err := files[0].Open()
		require.NoError(t, err)
		b, _ := io.ReadAll(f)
		assert.Equal(t, "png-bytes", string(b))
		writeJSON(w, http.StatusOK, map[string]any{"id": 4, "name": "Lamp"})
	})

	p, err := g.Products.Update(context.Background(), 4, client.ProductPayload{
		Name:       client.Ptr("Lamp"),
		Categories: []uint{1, 2},
		Images:     []client.File{{Name: "a.png", Reader: strings.NewReader("png-bytes")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Lamp", p.Name)
}

func TestListAndImport(t *testing.T) {
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/posts":
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			writeJSON(w, http.StatusOK, map[string]any{
				"data":          []map[string]any{{"id": 11, "title": "T"}},
				"current_page":  2,
				"last_page":     2,
				"per_page":      10,
				"total":         11,
				"next_page_url": nil,
			})
		case "/api/posts/import":
			fh, _, err := r.FormFile("file")
			require.NoError(t, err)
			fh.Close()
			writeJSON(w, http.StatusCreated, map[string]any{"message": "Posts imported successfully.", "imported": 4})
		}
	})

	page, err := g.Posts.List(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 2, page.LastPage)
	assert.False(t, page.HasMore())

	n, err := g.Posts.Import(context.Background(), client.File{Name: "posts.csv", Reader: strings.NewReader("title\nT\n")})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestLogoutClearsTokenEvenOnFailure(t *testing.T) {
	store := client.NewMemoryTokenStore()
	require.NoError(t, store.SetToken("tok"))
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, client.WithTokenStore(store))

	require.Error(t, g.Auth.Logout(context.Background()))
	token, _ := store.Token()
	assert.Empty(t, token)
}

func TestCustomInterceptors(t *testing.T) {
	var errs []int
	g, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cli", r.Header.Get("X-Client"))
		w.WriteHeader(http.StatusTeapot)
	},
		client.WithRequestInterceptor(func(req *http.Request) error {
			req.Header.Set("X-Client", "cli")
			return nil
		}),
		client.WithResponseInterceptor(func(_ *client.Gateway, apiErr *client.APIError) {
			errs = append(errs, apiErr.Status)
		}),
	)

	_, err := g.Categories.Get(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, []int{http.StatusTeapot}, errs)
}

func TestFileTokenStore(t *testing.T) {
	s := client.NewFileTokenStore(filepath.Join(t.TempDir(), "nested", "token.json"))

	token, err := s.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	require.NoError(t, s.SetToken("abc"))
	token, err = s.Token()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	token, _ = s.Token()
	assert.Empty(t, token)
}
