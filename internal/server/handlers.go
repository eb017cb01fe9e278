package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"autoparts/content/internal/domain"
	"autoparts/content/internal/jsonvalue"
	"autoparts/content/internal/service"

	"github.com/labstack/echo/v4"
)

// pageSectionRequest carries the storefront's template for a section.
type pageSectionRequest struct {
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	ImageURL string          `json:"imageUrl"`
	Metadata json.RawMessage `json:"metadata"`
}

func (r pageSectionRequest) toSection(section string) (domain.PageContentSection, error) {
	fallback := domain.PageContentSection{
		Section:  section,
		Title:    r.Title,
		Content:  r.Content,
		ImageURL: r.ImageURL,
	}
	if len(r.Metadata) > 0 {
		metadata, err := jsonvalue.Parse(r.Metadata)
		if err != nil {
			return domain.PageContentSection{}, err
		}
		fallback.Metadata = metadata
	}
	return fallback, nil
}

func requestLanguage(c echo.Context) domain.Language {
	return domain.ParseLanguage(c.QueryParam("lang"))
}

// adminLanguage defaults to the alternate language, the only one overrides
// are stored for.
func adminLanguage(c echo.Context) domain.Language {
	if c.QueryParam("lang") == "" {
		return domain.AlternateLanguage
	}
	return requestLanguage(c)
}

func idParam(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func sectionParam(c echo.Context) (string, error) {
	section := strings.TrimSpace(c.Param("section"))
	if section == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "section is required")
	}
	return section, nil
}

func (s *Server) bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func (s *Server) listProducts(c echo.Context) error {
	products, err := s.service.ListProducts(c.Request().Context(), requestLanguage(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, products)
}

func (s *Server) getProduct(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	product, err := s.service.GetProduct(c.Request().Context(), id, requestLanguage(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, product)
}

func (s *Server) listArticles(c echo.Context) error {
	articles, err := s.service.ListArticles(c.Request().Context(), requestLanguage(c), true)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articles)
}

// listAllArticles includes drafts for the admin panel.
func (s *Server) listAllArticles(c echo.Context) error {
	articles, err := s.service.ListArticles(c.Request().Context(), requestLanguage(c), false)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, articles)
}

func (s *Server) getArticle(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	article, err := s.service.GetArticle(c.Request().Context(), id, requestLanguage(c))
	if err != nil {
		return err
	}
	if !article.Published {
		return echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return c.JSON(http.StatusOK, article)
}

func (s *Server) getPageSection(c echo.Context) error {
	section, err := sectionParam(c)
	if err != nil {
		return err
	}
	resolved, err := s.service.GetPageContentSection(c.Request().Context(), section, domain.PageContentSection{}, requestLanguage(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resolved)
}

// resolvePageSection resolves a section on top of a template posted by the
// storefront.
func (s *Server) resolvePageSection(c echo.Context) error {
	section, err := sectionParam(c)
	if err != nil {
		return err
	}

	var req pageSectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	fallback, err := req.toSection(section)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid metadata")
	}

	resolved, err := s.service.GetPageContentSection(c.Request().Context(), section, fallback, requestLanguage(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, resolved)
}

func (s *Server) getTaxonomy(c echo.Context) error {
	taxonomy, err := s.service.GetTaxonomy(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, taxonomy)
}

func (s *Server) getProductTranslation(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	translation, err := s.service.GetProductTranslation(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, translation)
}

func (s *Server) saveProductTranslation(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req service.ProductTranslation
	if err := s.bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := s.service.SaveProductOverride(c.Request().Context(), id, adminLanguage(c), req, actorFrom(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) saveArticleTranslation(c echo.Context) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}

	var req service.ArticleTranslation
	if err := s.bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := s.service.SaveArticleOverride(c.Request().Context(), id, adminLanguage(c), req, actorFrom(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) savePageTranslation(c echo.Context) error {
	section, err := sectionParam(c)
	if err != nil {
		return err
	}

	var req service.PageContentTranslation
	if err := s.bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := s.service.SavePageContentOverride(c.Request().Context(), section, adminLanguage(c), req, actorFrom(c)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) getPageEditorMetadata(c echo.Context) error {
	section, err := sectionParam(c)
	if err != nil {
		return err
	}

	var req pageSectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	fallback, err := req.toSection(section)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid metadata")
	}

	metadata, err := s.service.GetPageContentEditorMetadata(c.Request().Context(), section, fallback)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"metadata": metadata})
}

func (s *Server) saveTaxonomy(c echo.Context) error {
	var req domain.Taxonomy
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := s.validate.Var(req, "required,min=1"); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	saved, err := s.service.SaveTaxonomy(c.Request().Context(), req, actorFrom(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, saved)
}
