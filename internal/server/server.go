package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"autoparts/content/internal/config"
	"autoparts/content/internal/domain"
	"autoparts/content/internal/jsonvalue"
	"autoparts/content/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"
)

// ContentService is the part of the service layer exposed over HTTP.
type ContentService interface {
	GetProduct(ctx context.Context, id int, lang domain.Language) (domain.Product, error)
	ListProducts(ctx context.Context, lang domain.Language) ([]domain.Product, error)
	GetArticle(ctx context.Context, id int, lang domain.Language) (domain.Article, error)
	ListArticles(ctx context.Context, lang domain.Language, publishedOnly bool) ([]domain.Article, error)
	GetPageContentSection(ctx context.Context, section string, fallback domain.PageContentSection, lang domain.Language) (domain.PageContentSection, error)
	GetPageContentEditorMetadata(ctx context.Context, section string, fallback domain.PageContentSection) (jsonvalue.Value, error)
	GetTaxonomy(ctx context.Context) (domain.Taxonomy, error)

	GetProductTranslation(ctx context.Context, id int) (service.ProductTranslation, error)
	SaveProductOverride(ctx context.Context, id int, lang domain.Language, input service.ProductTranslation, actor string) error
	SaveArticleOverride(ctx context.Context, id int, lang domain.Language, input service.ArticleTranslation, actor string) error
	SavePageContentOverride(ctx context.Context, section string, lang domain.Language, input service.PageContentTranslation, actor string) error
	SaveTaxonomy(ctx context.Context, taxonomy domain.Taxonomy, actor string) (domain.Taxonomy, error)
}

type Server struct {
	echo     *echo.Echo
	service  ContentService
	validate *validator.Validate
	address  string
}

func NewServer(cfg config.ServerConfig, service ContentService) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:     e,
		service:  service,
		validate: validator.New(),
		address:  fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	}

	e.HTTPErrorHandler = s.errorHandler
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger())

	api := e.Group("/api")
	api.GET("/products", s.listProducts)
	api.GET("/products/:id", s.getProduct)
	api.GET("/articles", s.listArticles)
	api.GET("/articles/:id", s.getArticle)
	api.GET("/pages/:section", s.getPageSection)
	api.POST("/pages/:section/resolve", s.resolvePageSection)
	api.GET("/taxonomy", s.getTaxonomy)

	admin := api.Group("/admin", adminAuth(cfg.AdminToken))
	admin.GET("/articles", s.listAllArticles)
	admin.GET("/products/:id/translation", s.getProductTranslation)
	admin.PUT("/products/:id/translation", s.saveProductTranslation)
	admin.PUT("/articles/:id/translation", s.saveArticleTranslation)
	admin.PUT("/pages/:section/translation", s.savePageTranslation)
	admin.POST("/pages/:section/editor", s.getPageEditorMetadata)
	admin.PUT("/taxonomy", s.saveTaxonomy)

	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	log.Infof("🌐 HTTP server listening on %s", s.address)
	if err := s.echo.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("🛑 Shutting down HTTP server...")
	return s.echo.Shutdown(ctx)
}

type errorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		code = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		} else {
			message = http.StatusText(code)
		}
	case errors.Is(err, service.ErrNotFound):
		code = http.StatusNotFound
		message = "not found"
	case errors.Is(err, service.ErrBaseLanguage):
		code = http.StatusBadRequest
		message = err.Error()
	}

	if code >= http.StatusInternalServerError {
		log.Errorf("❌ %s %s failed: %v", c.Request().Method, c.Request().URL.Path, err)
	}

	_ = c.JSON(code, errorResponse{
		Message:   message,
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
	})
}
