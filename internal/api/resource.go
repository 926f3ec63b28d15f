package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"catalog/internal/repository"
)

// resource — пять REST-действий для одной сущности.
// T — модель, In — вход сервиса.
type resource[T any, In any] struct {
	h      *Handler
	input  func(c *gin.Context) (In, bool)
	list   func(ctx context.Context, page int) (*repository.Page[T], error)
	get    func(ctx context.Context, id uint) (*T, error)
	create func(ctx context.Context, in In) (*T, error)
	update func(ctx context.Context, id uint, in In) (*T, error)
	delete func(ctx context.Context, id uint) error
}

func (r *resource[T, In]) mount(g *gin.RouterGroup) {
	g.GET("", r.index)
	g.POST("", r.store)
	g.GET("/:id", r.show)
	g.PUT("/:id", r.modify)
	g.PATCH("/:id", r.modify)
	g.DELETE("/:id", r.destroy)
	// формы не умеют PUT: POST /:id + _method
	g.POST("/:id", r.override)
}

func (r *resource[T, In]) index(c *gin.Context) {
	p, err := r.list(c.Request.Context(), pageParam(c))
	if err != nil {
		r.h.fail(c, err)
		return
	}
	r.h.paginated(c, metaOf(p), p.Items)
}

func (r *resource[T, In]) show(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	item, err := r.get(c.Request.Context(), id)
	if err != nil {
		r.h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (r *resource[T, In]) store(c *gin.Context) {
	in, ok := r.input(c)
	if !ok {
		return
	}
	item, err := r.create(c.Request.Context(), in)
	if err != nil {
		r.h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (r *resource[T, In]) modify(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	in, ok := r.input(c)
	if !ok {
		return
	}
	item, err := r.update(c.Request.Context(), id, in)
	if err != nil {
		r.h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (r *resource[T, In]) destroy(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := r.delete(c.Request.Context(), id); err != nil {
		r.h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *resource[T, In]) override(c *gin.Context) {
	method := c.GetHeader("X-HTTP-Method-Override")
	if method == "" {
		method = c.PostForm("_method")
	}
	switch strings.ToUpper(method) {
	case http.MethodPut, http.MethodPatch:
		r.modify(c)
	case http.MethodDelete:
		r.destroy(c)
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "The POST method is not supported for this route."})
	}
}
