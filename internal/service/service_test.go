package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"autoparts/content/internal/cache"
	"autoparts/content/internal/domain"
	"autoparts/content/internal/domain/event"
	"autoparts/content/internal/jsonvalue"
	"autoparts/content/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContentRepository struct {
	mu               sync.Mutex
	products         map[int]domain.ProductRow
	articles         map[int]domain.Article
	pages            map[string]domain.PageContentRow
	translations     map[string]string
	settings         map[string][]byte
	translationReads int
}

func newFakeContentRepository() *fakeContentRepository {
	return &fakeContentRepository{
		products:     make(map[int]domain.ProductRow),
		articles:     make(map[int]domain.Article),
		pages:        make(map[string]domain.PageContentRow),
		translations: make(map[string]string),
		settings:     make(map[string][]byte),
	}
}

func translationID(key string, lang domain.Language) string {
	return key + "/" + lang.String()
}

func (r *fakeContentRepository) GetProduct(_ context.Context, id int) (*domain.ProductRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (r *fakeContentRepository) ListProducts(context.Context) ([]domain.ProductRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]domain.ProductRow, 0, len(r.products))
	for _, row := range r.products {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (r *fakeContentRepository) GetArticle(_ context.Context, id int) (*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	article, ok := r.articles[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &article, nil
}

func (r *fakeContentRepository) ListArticles(_ context.Context, publishedOnly bool) ([]domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var articles []domain.Article
	for _, article := range r.articles {
		if publishedOnly && !article.Published {
			continue
		}
		articles = append(articles, article)
	}
	sort.Slice(articles, func(i, j int) bool { return articles[i].PublishedAt.After(articles[j].PublishedAt) })
	return articles, nil
}

func (r *fakeContentRepository) GetPageContent(_ context.Context, section string) (*domain.PageContentRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.pages[section]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &row, nil
}

func (r *fakeContentRepository) GetTranslation(_ context.Context, key string, lang domain.Language) (string, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.translationReads++
	raw, ok := r.translations[translationID(key, lang)]
	return raw, ok, nil
}

func (r *fakeContentRepository) ListTranslations(_ context.Context, prefix string, lang domain.Language) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make(map[string]string)
	suffix := "/" + lang.String()
	for id, raw := range r.translations {
		if strings.HasPrefix(id, prefix) && strings.HasSuffix(id, suffix) {
			result[strings.TrimSuffix(id, suffix)] = raw
		}
	}
	return result, nil
}

func (r *fakeContentRepository) SaveTranslation(_ context.Context, key string, lang domain.Language, raw string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.translations[translationID(key, lang)] = raw
	return nil
}

func (r *fakeContentRepository) GetSetting(_ context.Context, key string) ([]byte, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.settings[key]
	return value, ok, nil
}

func (r *fakeContentRepository) SaveSetting(_ context.Context, key string, value []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.settings[key] = value
	return nil
}

type fakeAuditRepository struct {
	mu     sync.Mutex
	events []*event.AuditEvent
	err    error
}

func (r *fakeAuditRepository) SaveAuditEvent(_ context.Context, e *event.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, e)
	return nil
}

type cacheEntry struct {
	value   string
	present bool
}

type fakeOverrideCache struct {
	mu          sync.Mutex
	entries     map[string]cacheEntry
	invalidated []string
}

func newFakeOverrideCache() *fakeOverrideCache {
	return &fakeOverrideCache{entries: make(map[string]cacheEntry)}
}

func (c *fakeOverrideCache) get(key string) (string, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	return entry.value, entry.present, ok
}

func (c *fakeOverrideCache) set(key, value string, present bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, present: present}
}

func (c *fakeOverrideCache) del(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.invalidated = append(c.invalidated, key)
}

func (c *fakeOverrideCache) GetTranslation(_ context.Context, key string, lang domain.Language) (string, bool, bool, error) {
	value, present, found := c.get(translationID(key, lang))
	return value, present, found, nil
}

func (c *fakeOverrideCache) SetTranslation(_ context.Context, key string, lang domain.Language, raw string, present bool) error {
	c.set(translationID(key, lang), raw, present)
	return nil
}

func (c *fakeOverrideCache) InvalidateTranslation(_ context.Context, key string, lang domain.Language) error {
	c.del(translationID(key, lang))
	return nil
}

func (c *fakeOverrideCache) GetSetting(_ context.Context, key string) ([]byte, bool, bool, error) {
	value, present, found := c.get(key)
	return []byte(value), present, found, nil
}

func (c *fakeOverrideCache) SetSetting(_ context.Context, key string, value []byte, present bool) error {
	c.set(key, string(value), present)
	return nil
}

func (c *fakeOverrideCache) InvalidateSetting(_ context.Context, key string) error {
	c.del(key)
	return nil
}

type fakeQueue struct {
	mu        sync.Mutex
	published []event.Event
	acked     []string
}

func (q *fakeQueue) Publish(_ context.Context, e event.Event) (string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.published = append(q.published, e)
	return "1-0", nil
}

func (q *fakeQueue) Read(ctx context.Context, _, _, _ string) (*redis.XMessage, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (q *fakeQueue) Ack(_ context.Context, _, _, msgID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.acked = append(q.acked, msgID)
	return nil
}

func (q *fakeQueue) CreateGroup(context.Context, string, string) error { return nil }

func (q *fakeQueue) AutoClaim(context.Context, string, string, string, time.Duration) ([]redis.XMessage, error) {
	return nil, nil
}

func (q *fakeQueue) EnsureStreamsExist(context.Context) error { return nil }

func (q *fakeQueue) StreamName(eventType string) string { return "content:stream:" + eventType }

type fakeStorefront struct {
	mu   sync.Mutex
	tags [][]string
	err  error
}

func (f *fakeStorefront) Revalidate(_ context.Context, tags ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tags = append(f.tags, tags)
	return f.err
}

func (f *fakeStorefront) Close() error { return nil }

type fixture struct {
	service    *Service
	repo       *fakeContentRepository
	audit      *fakeAuditRepository
	cache      *fakeOverrideCache
	queue      *fakeQueue
	storefront *fakeStorefront
}

func newFixture() *fixture {
	f := &fixture{
		repo:       newFakeContentRepository(),
		audit:      &fakeAuditRepository{},
		cache:      newFakeOverrideCache(),
		queue:      &fakeQueue{},
		storefront: &fakeStorefront{},
	}
	f.service = NewService(f.repo, f.audit, f.cache, f.queue, f.storefront, "content-service", 30)

	subcategory := "Fren Valfleri"
	f.repo.products[1] = domain.ProductRow{
		ID:             1,
		Title:          "Fren Valfi",
		Category:       "VALFLER",
		Subcategory:    &subcategory,
		Features:       []string{"Paslanmaz gövde"},
		Specifications: map[string]string{"Basınç": "10 bar", "Ağırlık": "1 kg"},
	}
	f.repo.products[2] = domain.ProductRow{
		ID:       2,
		Title:    "Hava Fren Kompresörleri",
		Category: "KOMPRESÖRLER",
	}
	return f
}

func TestGetProductBaseLanguage(t *testing.T) {
	f := newFixture()

	product, err := f.service.GetProduct(context.Background(), 1, domain.LanguageTurkish)
	require.NoError(t, err)

	assert.Equal(t, "Fren Valfi", product.Title)
	assert.Equal(t, "VALFLER", product.Category)
	assert.Equal(t, 0, f.repo.translationReads, "base language never reads overrides")
}

func TestGetProductAlternateLanguage(t *testing.T) {
	f := newFixture()
	f.repo.translations[translationID("product:1", domain.LanguageEnglish)] = `{"title": "Brake Valve", "features": []}`

	product, err := f.service.GetProduct(context.Background(), 1, domain.LanguageEnglish)
	require.NoError(t, err)

	assert.Equal(t, "Brake Valve", product.Title)
	assert.Equal(t, "VALVES", product.Category)
	assert.Equal(t, "Brake Valves", product.Subcategory)
	assert.Equal(t, []string{}, product.Features, "a stored empty list replaces the base list")

	static, err := f.service.GetProduct(context.Background(), 2, domain.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, "Air Brake Compressors", static.Title)
	assert.Equal(t, "COMPRESSORS", static.Category)
}

func TestGetProductNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.service.GetProduct(context.Background(), 99, domain.LanguageEnglish)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTranslationsAreReadThroughCache(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.service.GetProduct(ctx, 1, domain.LanguageEnglish)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, f.repo.translationReads, "a missing override is cached too")

	title := "Brake Valve"
	require.NoError(t, f.service.SaveProductOverride(ctx, 1, domain.LanguageEnglish, ProductTranslation{Title: &title}, "admin"))

	product, err := f.service.GetProduct(ctx, 1, domain.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, "Brake Valve", product.Title)
	assert.Equal(t, 2, f.repo.translationReads)
}

func TestSaveProductOverride(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	title := "Brake Valve"

	err := f.service.SaveProductOverride(ctx, 1, domain.LanguageTurkish, ProductTranslation{Title: &title}, "admin")
	assert.ErrorIs(t, err, ErrBaseLanguage)

	err = f.service.SaveProductOverride(ctx, 99, domain.LanguageEnglish, ProductTranslation{Title: &title}, "admin")
	assert.ErrorIs(t, err, ErrNotFound)

	input := ProductTranslation{
		Title:          &title,
		Applications:   []string{},
		Specifications: []domain.Specification{{Label: "Pressure", Value: "10 bar"}},
	}
	require.NoError(t, f.service.SaveProductOverride(ctx, 1, domain.LanguageEnglish, input, "admin"))

	stored := f.repo.translations[translationID("product:1", domain.LanguageEnglish)]
	assert.JSONEq(t, `{"title": "Brake Valve", "applications": [], "specifications": {"Pressure": "10 bar"}}`, stored)

	assert.Contains(t, f.cache.invalidated, translationID("product:1", domain.LanguageEnglish))
	require.Len(t, f.queue.published, 1)
	auditEvent, ok := f.queue.published[0].(*event.AuditEvent)
	require.True(t, ok)
	assert.Equal(t, event.AuditActionSaveTranslation, auditEvent.Action)
	assert.Equal(t, "product:1", auditEvent.EntityKey)
	assert.Equal(t, "en", auditEvent.Language)
	assert.Equal(t, "admin", auditEvent.Actor)
	assert.Equal(t, [][]string{{"product:1", "products"}}, f.storefront.tags)
}

func TestSaveProductOverrideIgnoresRevalidationFailure(t *testing.T) {
	f := newFixture()
	f.storefront.err = errors.New("storefront down")
	title := "Brake Valve"

	assert.NoError(t, f.service.SaveProductOverride(context.Background(), 1, domain.LanguageEnglish, ProductTranslation{Title: &title}, "admin"))
}

func TestGetProductTranslationKeepsBaseSpecificationOrder(t *testing.T) {
	f := newFixture()
	f.repo.translations[translationID("product:1", domain.LanguageEnglish)] =
		`{"specifications": {"Basınç": "10 bar", "Ağırlık": "1 kg", "Renk": "Black"}}`

	translation, err := f.service.GetProductTranslation(context.Background(), 1)
	require.NoError(t, err)

	assert.Nil(t, translation.Title)
	assert.Equal(t, []domain.Specification{
		{Label: "Ağırlık", Value: "1 kg"},
		{Label: "Basınç", Value: "10 bar"},
		{Label: "Renk", Value: "Black"},
	}, translation.Specifications)

	empty, err := f.service.GetProductTranslation(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, ProductTranslation{}, empty)
}

func TestListProducts(t *testing.T) {
	f := newFixture()
	f.repo.translations[translationID("product:2", domain.LanguageEnglish)] = `{"title": "Custom EN Title"}`

	products, err := f.service.ListProducts(context.Background(), domain.LanguageEnglish)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Fren Valfi", products[0].Title)
	assert.Equal(t, "VALVES", products[0].Category)
	assert.Equal(t, "Custom EN Title", products[1].Title)

	base, err := f.service.ListProducts(context.Background(), domain.LanguageTurkish)
	require.NoError(t, err)
	assert.Equal(t, "Hava Fren Kompresörleri", base[1].Title)
}

func TestTaxonomy(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.repo.products[3] = domain.ProductRow{ID: 3, Title: "Conta", Category: "CONTALAR"}

	taxonomy, err := f.service.GetTaxonomy(ctx)
	require.NoError(t, err)
	var ids []string
	for _, category := range taxonomy {
		ids = append(ids, category.ID)
	}
	assert.Contains(t, ids, "kompresorler")
	assert.Contains(t, ids, "contalar", "labels used by products are added")

	saved, err := f.service.SaveTaxonomy(ctx, domain.Taxonomy{
		{NameTR: "  VALFLER ", NameEN: "VALVES"},
		{NameTR: "", NameEN: ""},
	}, "admin")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "valfler", saved[0].ID)
	assert.Equal(t, "VALFLER", saved[0].NameTR)

	var stored []map[string]any
	require.NoError(t, json.Unmarshal(f.repo.settings[domain.TaxonomySettingKey], &stored))
	assert.Len(t, stored, 1)
	assert.Contains(t, f.cache.invalidated, domain.TaxonomySettingKey)
	assert.Equal(t, [][]string{{"taxonomy", "products"}}, f.storefront.tags)

	taxonomy, err = f.service.GetTaxonomy(ctx)
	require.NoError(t, err)
	ids = ids[:0]
	for _, category := range taxonomy {
		ids = append(ids, category.ID)
	}
	assert.NotContains(t, ids, "hava-kurutucular", "the saved taxonomy replaces the default")
	assert.Contains(t, ids, "valfler")
}

func TestLoadTaxonomyFallsBackOnCorruptSetting(t *testing.T) {
	f := newFixture()
	f.repo.settings[domain.TaxonomySettingKey] = []byte(`{not json`)

	taxonomy, err := f.service.loadTaxonomy(context.Background())
	require.NoError(t, err)
	assert.Len(t, taxonomy, 4)
}

func TestArticles(t *testing.T) {
	f := newFixture()
	f.repo.articles[1] = domain.Article{
		ID:          1,
		Title:       "Eski Haber",
		Content:     "<p>Eski içerik.</p>",
		Published:   true,
		PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.repo.articles[2] = domain.Article{
		ID:          2,
		Title:       "Yeni Üretim Tesisimiz Açıldı",
		Content:     "<p>Tesisimiz açıldı.</p>",
		Published:   true,
		PublishedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.repo.articles[3] = domain.Article{ID: 3, Title: "Taslak"}
	f.repo.translations[translationID("article:1", domain.LanguageEnglish)] = `{"title": "Old News"}`

	articles, err := f.service.ListArticles(context.Background(), domain.LanguageEnglish, true)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	assert.Equal(t, "Our New Production Facility Is Open", articles[0].Title)
	assert.Equal(t, "Old News", articles[1].Title)
	assert.Equal(t, "Eski içerik.", articles[1].Excerpt, "excerpt is derived from content when empty")

	article, err := f.service.GetArticle(context.Background(), 1, domain.LanguageTurkish)
	require.NoError(t, err)
	assert.Equal(t, "Eski Haber", article.Title)

	_, err = f.service.GetArticle(context.Background(), 42, domain.LanguageEnglish)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestArticleExcerptFollowsLocalizedContent(t *testing.T) {
	f := newFixture()
	f.repo.articles[5] = domain.Article{
		ID:        5,
		Title:     "Bayi Toplantısı",
		Content:   "<p>Bayilerimizle İzmir'de buluştuk.</p>",
		Published: true,
	}
	f.repo.translations[translationID("article:5", domain.LanguageEnglish)] = `{"title": "Dealer Meeting", "content": "<p>We met our dealers in Izmir.</p>"}`

	article, err := f.service.GetArticle(context.Background(), 5, domain.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, "Dealer Meeting", article.Title)
	assert.Equal(t, "We met our dealers in Izmir.", article.Excerpt)

	articles, err := f.service.ListArticles(context.Background(), domain.LanguageEnglish, true)
	require.NoError(t, err)
	require.Len(t, articles, 1)
	assert.Equal(t, "We met our dealers in Izmir.", articles[0].Excerpt)

	article, err = f.service.GetArticle(context.Background(), 5, domain.LanguageTurkish)
	require.NoError(t, err)
	assert.Equal(t, "Bayilerimizle İzmir'de buluştuk.", article.Excerpt)
}

func TestPageContentSection(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	title := "Sıkça Sorulanlar"
	f.repo.pages["faq"] = domain.PageContentRow{
		Section:  "faq",
		Title:    &title,
		Metadata: []byte(`{"items": ["a", "b"], "layout": {"columns": 2}}`),
	}
	fallback := domain.PageContentSection{
		Title:    "SSS",
		Content:  "İçerik",
		Metadata: jsonvalue.Object{"layout": jsonvalue.Object{"columns": jsonvalue.Number(1), "dense": jsonvalue.Bool(true)}},
	}

	base, err := f.service.GetPageContentSection(ctx, "faq", fallback, domain.LanguageTurkish)
	require.NoError(t, err)
	assert.Equal(t, "faq", base.Section)
	assert.Equal(t, "Sıkça Sorulanlar", base.Title)
	assert.Equal(t, "İçerik", base.Content)

	enTitle := "FAQ"
	require.NoError(t, f.service.SavePageContentOverride(ctx, "faq", domain.LanguageEnglish, PageContentTranslation{
		Title:    &enTitle,
		Metadata: jsonvalue.Object{"items": jsonvalue.Array{jsonvalue.String("c")}},
	}, "admin"))

	en, err := f.service.GetPageContentSection(ctx, "faq", fallback, domain.LanguageEnglish)
	require.NoError(t, err)
	assert.Equal(t, "FAQ", en.Title)
	assert.True(t, jsonvalue.Equal(jsonvalue.Object{
		"items":  jsonvalue.Array{jsonvalue.String("c")},
		"layout": jsonvalue.Object{"columns": jsonvalue.Number(2), "dense": jsonvalue.Bool(true)},
	}, en.Metadata), "metadata: %#v", en.Metadata)

	missing, err := f.service.GetPageContentSection(ctx, "unknown", fallback, domain.LanguageTurkish)
	require.NoError(t, err)
	assert.Equal(t, "SSS", missing.Title)

	editor, err := f.service.GetPageContentEditorMetadata(ctx, "faq", fallback)
	require.NoError(t, err)
	assert.True(t, jsonvalue.Equal(jsonvalue.Object{
		"items":  jsonvalue.Array{jsonvalue.String("c")},
		"layout": jsonvalue.Object{"columns": jsonvalue.Number(1), "dense": jsonvalue.Bool(true)},
	}, editor))
}

func TestPageContentTranslationUnmarshal(t *testing.T) {
	var translation PageContentTranslation
	require.NoError(t, json.Unmarshal([]byte(`{"title": "FAQ", "metadata": {"items": [1]}}`), &translation))
	assert.Equal(t, "FAQ", *translation.Title)
	assert.True(t, jsonvalue.Equal(jsonvalue.Object{"items": jsonvalue.Array{jsonvalue.Number(1)}}, translation.Metadata))

	var nullMetadata PageContentTranslation
	require.NoError(t, json.Unmarshal([]byte(`{"metadata": null}`), &nullMetadata))
	assert.Nil(t, nullMetadata.Metadata)
	assert.Nil(t, nullMetadata.Title)
}

func TestProcessMessage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	stream := f.queue.StreamName(event.AuditEventType)

	auditEvent := event.NewAuditEvent(event.AuditActionSaveTaxonomy, "admin", domain.TaxonomySettingKey, "", "[]")
	data, err := auditEvent.EventValue()
	require.NoError(t, err)

	msg := &redis.XMessage{ID: "1-0", Values: map[string]interface{}{
		"event_type": event.AuditEventType,
		"event_data": string(data),
	}}
	require.NoError(t, f.service.processMessage(ctx, stream, msg))
	require.Len(t, f.audit.events, 1)
	assert.Equal(t, auditEvent.ID, f.audit.events[0].ID)
	assert.Equal(t, []string{"1-0"}, f.queue.acked)

	unknown := &redis.XMessage{ID: "2-0", Values: map[string]interface{}{"event_type": "Other"}}
	require.NoError(t, f.service.processMessage(ctx, stream, unknown))
	assert.Equal(t, []string{"1-0", "2-0"}, f.queue.acked)

	f.audit.err = errors.New("db down")
	failing := &redis.XMessage{ID: "3-0", Values: msg.Values}
	assert.Error(t, f.service.processMessage(ctx, stream, failing))
	assert.Equal(t, []string{"1-0", "2-0"}, f.queue.acked, "failed messages stay pending")
}

func TestRunAuditWorkersStopsOnCancel(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- f.service.RunAuditWorkers(ctx, 2) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("audit workers did not stop")
	}
}

var _ cache.OverrideCache = (*fakeOverrideCache)(nil)
