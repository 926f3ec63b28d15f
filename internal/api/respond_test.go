package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog/internal/auth"
	"catalog/internal/catalog"
	"catalog/internal/config"
	"catalog/internal/validation"
)

func testHandler() *Handler {
	return &Handler{cfg: &config.Config{AppURL: "http://api.test"}, log: zerolog.Nop()}
}

func serve(t *testing.T, path string, fn gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET(path, fn)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	var body map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestPaginatedEmptyPage(t *testing.T) {
	h := testHandler()
	_, body := serve(t, "/api/posts", func(c *gin.Context) {
		h.paginated(c, pageMeta{currentPage: 1, lastPage: 1, perPage: 10}, []string{})
	})

	assert.Equal(t, float64(1), body["last_page"])
	assert.Nil(t, body["from"])
	assert.Nil(t, body["to"])
	assert.Nil(t, body["next_page_url"])
	assert.Equal(t, "http://api.test/api/posts?page=1", body["first_page_url"])
	assert.Equal(t, "http://api.test/api/posts", body["path"])

	links := body["links"].([]any)
	require.Len(t, links, 3)
	assert.Equal(t, "&laquo; Previous", links[0].(map[string]any)["label"])
	assert.Equal(t, true, links[1].(map[string]any)["active"])
	assert.Equal(t, "Next &raquo;", links[2].(map[string]any)["label"])
}

func TestFailMapsErrors(t *testing.T) {
	h := testHandler()
	cases := []struct {
		err    error
		status int
	}{
		{validation.Field("name", "The name field is required."), http.StatusUnprocessableEntity},
		{catalog.ErrNotFound, http.StatusNotFound},
		{auth.ErrUnauthenticated, http.StatusUnauthorized},
		{auth.ErrInvalidCredentials, http.StatusUnprocessableEntity},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w, body := serve(t, "/x", func(c *gin.Context) { h.fail(c, tc.err) })
		assert.Equal(t, tc.status, w.Code, tc.err.Error())
		assert.NotEmpty(t, body["message"])
	}

	_, body := serve(t, "/x", func(c *gin.Context) { h.fail(c, assert.AnError) })
	assert.Equal(t, "Server Error", body["message"])
}

func TestSplitOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, splitOrigins(" http://a.test, ,http://b.test "))
	assert.Empty(t, splitOrigins(""))
}
