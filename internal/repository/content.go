package repository

import (
	"context"
	"errors"
	"fmt"

	"autoparts/content/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("not found")

type ContentRepository interface {
	GetProduct(ctx context.Context, id int) (*domain.ProductRow, error)
	ListProducts(ctx context.Context) ([]domain.ProductRow, error)
	GetArticle(ctx context.Context, id int) (*domain.Article, error)
	ListArticles(ctx context.Context, publishedOnly bool) ([]domain.Article, error)
	GetPageContent(ctx context.Context, section string) (*domain.PageContentRow, error)

	// GetTranslation returns the raw stored override for a translation key.
	// The boolean is false when no override has been saved.
	GetTranslation(ctx context.Context, key string, lang domain.Language) (string, bool, error)
	ListTranslations(ctx context.Context, prefix string, lang domain.Language) (map[string]string, error)
	SaveTranslation(ctx context.Context, key string, lang domain.Language, raw string) error

	GetSetting(ctx context.Context, key string) ([]byte, bool, error)
	SaveSetting(ctx context.Context, key string, value []byte) error
}

type contentRepository struct {
	db *pgxpool.Pool
}

func NewContentRepository(db *pgxpool.Pool) ContentRepository {
	return &contentRepository{
		db: db,
	}
}

const productColumns = `id, title, subtitle, description, category, subcategory, image_url,
	features, applications, certifications, oem_codes, specifications, sort_order`

func scanProduct(row pgx.Row) (*domain.ProductRow, error) {
	var p domain.ProductRow
	err := row.Scan(
		&p.ID, &p.Title, &p.Subtitle, &p.Description, &p.Category, &p.Subcategory, &p.ImageURL,
		&p.Features, &p.Applications, &p.Certifications, &p.OEMCodes, &p.Specifications, &p.SortOrder,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *contentRepository) GetProduct(ctx context.Context, id int) (*domain.ProductRow, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return product, nil
}

func (r *contentRepository) ListProducts(ctx context.Context) ([]domain.ProductRow, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY sort_order, id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.ProductRow, 0)
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

const articleColumns = `id, slug, title, COALESCE(excerpt, ''), COALESCE(content, ''), COALESCE(category, ''),
	COALESCE(author, ''), COALESCE(image_url, ''), published, COALESCE(published_at, created_at)`

func scanArticle(row pgx.Row) (*domain.Article, error) {
	var a domain.Article
	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Excerpt, &a.Content, &a.Category,
		&a.Author, &a.ImageURL, &a.Published, &a.PublishedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *contentRepository) GetArticle(ctx context.Context, id int) (*domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`
	article, err := scanArticle(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get article %d: %w", id, err)
	}
	return article, nil
}

func (r *contentRepository) ListArticles(ctx context.Context, publishedOnly bool) ([]domain.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles
	WHERE ($1::boolean = false OR published = true)
	ORDER BY COALESCE(published_at, created_at) DESC, id DESC`
	rows, err := r.db.Query(ctx, query, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]domain.Article, 0)
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, *article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}
	return articles, nil
}

func (r *contentRepository) GetPageContent(ctx context.Context, section string) (*domain.PageContentRow, error) {
	query := `SELECT section, title, content, image_url, metadata::text FROM page_content WHERE section = $1`

	var row domain.PageContentRow
	var metadata *string
	err := r.db.QueryRow(ctx, query, section).Scan(&row.Section, &row.Title, &row.Content, &row.ImageURL, &metadata)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get page content %s: %w", section, err)
	}
	if metadata != nil {
		row.Metadata = []byte(*metadata)
	}
	return &row, nil
}

func (r *contentRepository) GetTranslation(ctx context.Context, key string, lang domain.Language) (string, bool, error) {
	query := `SELECT data FROM translations WHERE translation_key = $1 AND language = $2`

	var data string
	err := r.db.QueryRow(ctx, query, key, lang.String()).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get translation %s/%s: %w", key, lang, err)
	}
	return data, true, nil
}

func (r *contentRepository) ListTranslations(ctx context.Context, prefix string, lang domain.Language) (map[string]string, error) {
	query := `SELECT translation_key, data FROM translations WHERE language = $1 AND translation_key LIKE $2`
	rows, err := r.db.Query(ctx, query, lang.String(), prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to list translations %s*/%s: %w", prefix, lang, err)
	}
	defer rows.Close()

	translations := make(map[string]string)
	for rows.Next() {
		var key, data string
		if err := rows.Scan(&key, &data); err != nil {
			return nil, fmt.Errorf("failed to scan translation: %w", err)
		}
		translations[key] = data
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate translations: %w", err)
	}
	return translations, nil
}

func (r *contentRepository) SaveTranslation(ctx context.Context, key string, lang domain.Language, raw string) error {
	query := `
	INSERT INTO translations (translation_key, language, data, updated_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (translation_key, language)
	DO UPDATE SET data = $3, updated_at = now()`
	_, err := r.db.Exec(ctx, query, key, lang.String(), raw)
	if err != nil {
		return fmt.Errorf("failed to save translation %s/%s: %w", key, lang, err)
	}
	return nil
}

func (r *contentRepository) GetSetting(ctx context.Context, key string) ([]byte, bool, error) {
	query := `SELECT value::text FROM settings WHERE key = $1`

	var value *string
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	if value == nil {
		return nil, false, nil
	}
	return []byte(*value), true, nil
}

func (r *contentRepository) SaveSetting(ctx context.Context, key string, value []byte) error {
	query := `
	INSERT INTO settings (key, value, updated_at)
	VALUES ($1, $2::jsonb, now())
	ON CONFLICT (key)
	DO UPDATE SET value = $2::jsonb, updated_at = now()`
	_, err := r.db.Exec(ctx, query, key, string(value))
	if err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}
