// Package api — JSON REST поверх gin: каталог, импорт и вход.
package api

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"catalog/internal/auth"
	"catalog/internal/catalog"
	"catalog/internal/config"
	mydb "catalog/internal/db"
	"catalog/internal/importer"
	"catalog/internal/models"
	"catalog/internal/validation"
)

const sessionName = "catalog_session"

// Deps — всё, что нужно роутеру
type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Catalog  *catalog.Catalog
	Importer *importer.Importer
	Auth     *auth.Service
	Log      zerolog.Logger
}

type Handler struct {
	cfg      *config.Config
	db       *gorm.DB
	catalog  *catalog.Catalog
	importer *importer.Importer
	auth     *auth.Service
	log      zerolog.Logger
}

var configureOnce sync.Once

func NewRouter(d Deps) *gin.Engine {
	configureOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			validation.Configure(v, "json")
		}
	})

	h := &Handler{
		cfg:      d.Config,
		db:       d.DB,
		catalog:  d.Catalog,
		importer: d.Importer,
		auth:     d.Auth,
		log:      d.Log,
	}

	r := gin.New()
	r.Use(requestID(), requestLogger(d.Log), recovery(d.Log))
	if origins := splitOrigins(d.Config.CorsOrigin); len(origins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     origins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-HTTP-Method-Override"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// sessions
	store := cookie.NewStore([]byte(d.Config.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   d.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))

	// раздача картинок
	r.Static("/storage", d.Config.StorageRoot)

	r.GET("/health", h.health)

	api := r.Group("/api")
	api.POST("/register", h.register)
	api.POST("/login", h.login)

	authed := api.Group("", h.mustAuth())
	authed.POST("/logout", h.logout)
	authed.GET("/user", h.user)
	authed.GET("/types", h.types)

	products := authed.Group("/products")
	products.POST("/import", h.importProducts)
	(&resource[models.Product, catalog.ProductInput]{
		h:      h,
		input:  h.productInput,
		list:   d.Catalog.Products.List,
		get:    d.Catalog.Products.Get,
		create: d.Catalog.Products.Create,
		update: d.Catalog.Products.Update,
		delete: d.Catalog.Products.Delete,
	}).mount(products)

	(&resource[models.Category, catalog.CategoryInput]{
		h:      h,
		input:  h.categoryInput,
		list:   d.Catalog.Categories.List,
		get:    d.Catalog.Categories.Get,
		create: d.Catalog.Categories.Create,
		update: d.Catalog.Categories.Update,
		delete: d.Catalog.Categories.Delete,
	}).mount(authed.Group("/categories"))

	posts := authed.Group("/posts")
	posts.POST("/import", h.importPosts)
	(&resource[models.Post, catalog.PostInput]{
		h:      h,
		input:  h.postInput,
		list:   d.Catalog.Posts.List,
		get:    d.Catalog.Posts.Get,
		create: d.Catalog.Posts.Create,
		update: d.Catalog.Posts.Update,
		delete: d.Catalog.Posts.Delete,
	}).mount(posts)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found"})
	})
	return r
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// health
func (h *Handler) health(c *gin.Context) {
	if err := mydb.Ping(c.Request.Context(), h.db); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"ok": false, "db": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) types(c *gin.Context) {
	items, err := h.catalog.Types.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
