package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"autoparts/content/internal/cache"
	"autoparts/content/internal/client"
	"autoparts/content/internal/domain"
	"autoparts/content/internal/jsonvalue"
	"autoparts/content/internal/localization"
	"autoparts/content/internal/pagecontent"
	"autoparts/content/internal/queue"
	"autoparts/content/internal/repository"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned when the requested entity does not exist.
var ErrNotFound = repository.ErrNotFound

// ErrBaseLanguage is returned when an override is saved for the base
// language, whose content lives in the entity rows themselves.
var ErrBaseLanguage = errors.New("overrides are only stored for the alternate language")

const excerptLength = 180

type Service struct {
	repository  repository.ContentRepository
	audit       repository.AuditRepository
	cache       cache.OverrideCache
	queue       queue.Queue
	storefront  client.StorefrontClient
	groupName   string
	minIdleTime time.Duration
}

func NewService(
	repository repository.ContentRepository,
	audit repository.AuditRepository,
	cache cache.OverrideCache,
	queue queue.Queue,
	storefront client.StorefrontClient,
	groupName string,
	minIdleTime int,
) *Service {
	if minIdleTime <= 0 {
		minIdleTime = 30
	}
	return &Service{
		repository:  repository,
		audit:       audit,
		cache:       cache,
		queue:       queue,
		storefront:  storefront,
		groupName:   groupName,
		minIdleTime: time.Duration(minIdleTime) * time.Second,
	}
}

// GetProduct loads a product and resolves it for lang.
func (s *Service) GetProduct(ctx context.Context, id int, lang domain.Language) (domain.Product, error) {
	var (
		row      *domain.ProductRow
		taxonomy domain.Taxonomy
		raw      string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		row, err = s.repository.GetProduct(gctx, id)
		return err
	})
	if !lang.IsBase() {
		g.Go(func() error {
			var err error
			taxonomy, err = s.loadTaxonomy(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			raw, err = s.loadTranslation(gctx, domain.ProductTranslationKey(id), lang)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Product{}, err
	}

	return localization.LocalizeDisplayProduct(localization.ToDisplayProduct(*row), lang, raw, taxonomy), nil
}

// ListProducts returns every product resolved for lang, in catalog order.
func (s *Service) ListProducts(ctx context.Context, lang domain.Language) ([]domain.Product, error) {
	var (
		rows         []domain.ProductRow
		taxonomy     domain.Taxonomy
		translations map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.repository.ListProducts(gctx)
		return err
	})
	if !lang.IsBase() {
		g.Go(func() error {
			var err error
			taxonomy, err = s.loadTaxonomy(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			translations, err = s.repository.ListTranslations(gctx, domain.TranslationKey(domain.EntityKindProduct, ""), lang)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		product := localization.ToDisplayProduct(row)
		raw := translations[domain.ProductTranslationKey(row.ID)]
		products = append(products, localization.LocalizeDisplayProduct(product, lang, raw, taxonomy))
	}
	return products, nil
}

// GetTaxonomy returns the curated taxonomy extended with every label the
// catalog actually uses.
func (s *Service) GetTaxonomy(ctx context.Context) (domain.Taxonomy, error) {
	var (
		taxonomy domain.Taxonomy
		rows     []domain.ProductRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		taxonomy, err = s.loadTaxonomy(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = s.repository.ListProducts(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, localization.ToDisplayProduct(row))
	}
	return localization.MergeTaxonomyWithProducts(taxonomy, products), nil
}

// loadTaxonomy returns the taxonomy setting, or the built-in default when the
// setting is absent or unusable.
func (s *Service) loadTaxonomy(ctx context.Context) (domain.Taxonomy, error) {
	value, present, err := s.loadSetting(ctx, domain.TaxonomySettingKey)
	if err != nil {
		return nil, err
	}
	if !present {
		return localization.DefaultTaxonomy(), nil
	}

	var raw any
	if err := json.Unmarshal(value, &raw); err != nil {
		log.Warnf("⚠️ Stored taxonomy is not valid JSON, using defaults: %v", err)
		return localization.DefaultTaxonomy(), nil
	}
	return localization.ParseTaxonomy(raw), nil
}

func (s *Service) loadSetting(ctx context.Context, key string) ([]byte, bool, error) {
	value, present, found, err := s.cache.GetSetting(ctx, key)
	if err != nil {
		log.Warnf("⚠️ Cache read failed for setting %s: %v", key, err)
	} else if found {
		return value, present, nil
	}

	value, present, err = s.repository.GetSetting(ctx, key)
	if err != nil {
		return nil, false, err
	}

	if err := s.cache.SetSetting(ctx, key, value, present); err != nil {
		log.Warnf("⚠️ Cache write failed for setting %s: %v", key, err)
	}
	return value, present, nil
}

// loadTranslation returns the raw stored override for key, or "" when none
// exists.
func (s *Service) loadTranslation(ctx context.Context, key string, lang domain.Language) (string, error) {
	raw, _, found, err := s.cache.GetTranslation(ctx, key, lang)
	if err != nil {
		log.Warnf("⚠️ Cache read failed for translation %s: %v", key, err)
	} else if found {
		return raw, nil
	}

	raw, present, err := s.repository.GetTranslation(ctx, key, lang)
	if err != nil {
		return "", err
	}

	if err := s.cache.SetTranslation(ctx, key, lang, raw, present); err != nil {
		log.Warnf("⚠️ Cache write failed for translation %s: %v", key, err)
	}
	return raw, nil
}

// GetArticle loads an article and resolves it for lang.
func (s *Service) GetArticle(ctx context.Context, id int, lang domain.Language) (domain.Article, error) {
	article, err := s.repository.GetArticle(ctx, id)
	if err != nil {
		return domain.Article{}, err
	}

	raw := ""
	if !lang.IsBase() {
		raw, err = s.loadTranslation(ctx, domain.ArticleTranslationKey(id), lang)
		if err != nil {
			return domain.Article{}, err
		}
	}

	return withExcerpt(localization.LocalizeArticle(*article, lang, raw)), nil
}

// ListArticles returns articles newest first, resolved for lang.
func (s *Service) ListArticles(ctx context.Context, lang domain.Language, publishedOnly bool) ([]domain.Article, error) {
	var (
		articles     []domain.Article
		translations map[string]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		articles, err = s.repository.ListArticles(gctx, publishedOnly)
		return err
	})
	if !lang.IsBase() {
		g.Go(func() error {
			var err error
			translations, err = s.repository.ListTranslations(gctx, domain.TranslationKey(domain.EntityKindArticle, ""), lang)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	localized := make([]domain.Article, 0, len(articles))
	for _, article := range articles {
		raw := translations[domain.ArticleTranslationKey(article.ID)]
		localized = append(localized, withExcerpt(localization.LocalizeArticle(article, lang, raw)))
	}
	return localized, nil
}

// withExcerpt derives a missing excerpt from the resolved content, so it is
// always in the same language as the body.
func withExcerpt(article domain.Article) domain.Article {
	if article.Excerpt == "" {
		article.Excerpt = client.ExcerptFromHTML(article.Content, excerptLength)
	}
	return article
}

// GetPageContentSection resolves a page section on top of the template the
// storefront ships for it.
func (s *Service) GetPageContentSection(ctx context.Context, section string, fallback domain.PageContentSection, lang domain.Language) (domain.PageContentSection, error) {
	fallback.Section = section

	var (
		row *domain.PageContentRow
		raw string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		row, err = s.repository.GetPageContent(gctx, section)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		return err
	})
	if !lang.IsBase() {
		g.Go(func() error {
			var err error
			raw, err = s.loadTranslation(gctx, domain.PageContentTranslationKey(section), lang)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return domain.PageContentSection{}, fmt.Errorf("failed to load page section %s: %w", section, err)
	}

	return pagecontent.ResolveSection(fallback, row, lang, raw), nil
}

// GetPageContentEditorMetadata returns the metadata the admin editor starts
// from for the alternate language.
func (s *Service) GetPageContentEditorMetadata(ctx context.Context, section string, fallback domain.PageContentSection) (jsonvalue.Value, error) {
	raw, err := s.loadTranslation(ctx, domain.PageContentTranslationKey(section), domain.AlternateLanguage)
	if err != nil {
		return nil, err
	}
	return pagecontent.EditorMetadata(fallback, raw), nil
}
