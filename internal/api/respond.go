package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"catalog/internal/auth"
	"catalog/internal/catalog"
	"catalog/internal/importer"
	"catalog/internal/repository"
	"catalog/internal/validation"
)

// fail — единая точка превращения ошибки в HTTP-ответ
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"message": verr.Error(), "errors": verr.Fields})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Record not found."})
	case errors.Is(err, auth.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated."})
	case errors.Is(err, auth.ErrInvalidCredentials):
		h.fail(c, validation.Field("email", "These credentials do not match our records."))
	case errors.Is(err, importer.ErrUnsupportedFile):
		h.fail(c, validation.Field("file", "The file field must be a file of type: csv, txt, xlsx."))
	case errors.Is(err, importer.ErrEmptyFile), errors.Is(err, importer.ErrNoRows), errors.Is(err, importer.ErrUnreadableFile):
		h.fail(c, validation.Field("file", "The file field must contain a heading row and at least one data row."))
	default:
		h.log.Error().Err(err).
			Str("request_id", c.GetString(ctxRequestID)).
			Str("url", c.Request.URL.String()).
			Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
	}
}

// bindFailed: ошибки валидатора -> 422, битое тело -> 400
func (h *Handler) bindFailed(c *gin.Context, err error) {
	converted := validation.FromError(err, "")
	var verr *validation.Error
	if errors.As(converted, &verr) {
		h.fail(c, verr)
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "Malformed request body."})
}

// bind читает JSON; пустое тело не ошибка (частичный update)
func bind(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// bindRequired: пустое тело всё равно проходит через валидатор
func bindRequired(c *gin.Context, obj any) error {
	var err error
	if isForm(c) {
		err = c.ShouldBindWith(obj, binding.Form)
	} else {
		err = c.ShouldBindJSON(obj)
	}
	if errors.Is(err, io.EOF) {
		return binding.Validator.ValidateStruct(obj)
	}
	return err
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": "Record not found."})
		return 0, false
	}
	return uint(id), true
}

func pageParam(c *gin.Context) int {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

type pageLink struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

// paginated — конверт {data, current_page, last_page, per_page, total, ...ссылки}
func (h *Handler) paginated(c *gin.Context, p pageMeta, data any) {
	path := h.cfg.AppURL + c.Request.URL.Path
	url := func(n int) *string {
		if n < 1 || n > p.lastPage {
			return nil
		}
		s := path + "?page=" + strconv.Itoa(n)
		return &s
	}

	links := make([]pageLink, 0, p.lastPage+2)
	links = append(links, pageLink{URL: url(p.currentPage - 1), Label: "&laquo; Previous"})
	for i := 1; i <= p.lastPage; i++ {
		links = append(links, pageLink{URL: url(i), Label: strconv.Itoa(i), Active: i == p.currentPage})
	}
	links = append(links, pageLink{URL: url(p.currentPage + 1), Label: "Next &raquo;"})

	var from, to any
	if p.from > 0 {
		from, to = p.from, p.to
	}
	c.JSON(http.StatusOK, gin.H{
		"current_page":   p.currentPage,
		"data":           data,
		"first_page_url": *url(1),
		"from":           from,
		"last_page":      p.lastPage,
		"last_page_url":  *url(p.lastPage),
		"links":          links,
		"next_page_url":  url(p.currentPage + 1),
		"path":           path,
		"per_page":       p.perPage,
		"prev_page_url":  url(p.currentPage - 1),
		"to":             to,
		"total":          p.total,
	})
}

type pageMeta struct {
	currentPage, lastPage, perPage, from, to int
	total                                    int64
}

func metaOf[T any](p *repository.Page[T]) pageMeta {
	return pageMeta{
		currentPage: p.CurrentPage,
		lastPage:    p.LastPage,
		perPage:     p.PerPage,
		from:        p.From(),
		to:          p.To(),
		total:       p.Total,
	}
}
