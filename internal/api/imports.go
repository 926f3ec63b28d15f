package api

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"catalog/internal/validation"
)

func (h *Handler) importProducts(c *gin.Context) {
	h.runImport(c, "Products", h.importer.Products)
}

func (h *Handler) importPosts(c *gin.Context) {
	h.runImport(c, "Posts", h.importer.Posts)
}

func (h *Handler) runImport(c *gin.Context, what string, run func(ctx context.Context, name string, r io.Reader) (int, error)) {
	fh, err := c.FormFile("file")
	if err != nil {
		h.fail(c, validation.Field("file", validation.Message("file", "required", "")))
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.fail(c, err)
		return
	}
	defer f.Close()

	n, err := run(c.Request.Context(), fh.Filename, f)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.log.Info().
		Str("request_id", c.GetString(ctxRequestID)).
		Str("file", fh.Filename).
		Int("imported", n).
		Msgf("%s imported", what)
	c.JSON(http.StatusCreated, gin.H{"message": what + " imported successfully.", "imported": n})
}
