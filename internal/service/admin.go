package service

import (
	"context"
	"encoding/json"
	"fmt"

	"autoparts/content/internal/domain"
	"autoparts/content/internal/domain/event"
	"autoparts/content/internal/jsonvalue"
	"autoparts/content/internal/localization"

	log "github.com/sirupsen/logrus"
)

// ProductTranslation is the editor form of a product override. Specifications
// are label/value rows here and a label-keyed map once stored.
type ProductTranslation struct {
	Title          *string                `json:"title" validate:"omitempty,max=300"`
	Subtitle       *string                `json:"subtitle" validate:"omitempty,max=300"`
	Description    *string                `json:"description" validate:"omitempty,max=5000"`
	Category       *string                `json:"category" validate:"omitempty,max=200"`
	Subcategory    *string                `json:"subcategory" validate:"omitempty,max=200"`
	Features       []string               `json:"features" validate:"omitempty,dive,max=500"`
	Applications   []string               `json:"applications" validate:"omitempty,dive,max=500"`
	Certifications []string               `json:"certifications" validate:"omitempty,dive,max=200"`
	OEMCodes       []domain.OEMCode       `json:"oemCodes" validate:"omitempty,dive"`
	Specifications []domain.Specification `json:"specifications" validate:"omitempty,unique=Label,dive"`
}

type ArticleTranslation struct {
	Title    *string `json:"title" validate:"omitempty,max=300"`
	Excerpt  *string `json:"excerpt" validate:"omitempty,max=1000"`
	Content  *string `json:"content"`
	Category *string `json:"category" validate:"omitempty,max=200"`
	Author   *string `json:"author" validate:"omitempty,max=200"`
}

type PageContentTranslation struct {
	Title    *string         `json:"title" validate:"omitempty,max=300"`
	Content  *string         `json:"content"`
	ImageURL *string         `json:"imageUrl" validate:"omitempty,max=2000"`
	Metadata jsonvalue.Value `json:"metadata"`
}

func (t *PageContentTranslation) UnmarshalJSON(data []byte) error {
	var aux struct {
		Title    *string         `json:"title"`
		Content  *string         `json:"content"`
		ImageURL *string         `json:"imageUrl"`
		Metadata json.RawMessage `json:"metadata"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	t.Title, t.Content, t.ImageURL = aux.Title, aux.Content, aux.ImageURL
	t.Metadata = nil
	if len(aux.Metadata) > 0 {
		metadata, err := jsonvalue.Parse(aux.Metadata)
		if err != nil {
			return err
		}
		if _, isNull := metadata.(jsonvalue.Null); !isNull {
			t.Metadata = metadata
		}
	}
	return nil
}

// GetProductTranslation returns the stored override of a product in editor
// form. Specification rows follow the base product's order.
func (s *Service) GetProductTranslation(ctx context.Context, id int) (ProductTranslation, error) {
	row, err := s.repository.GetProduct(ctx, id)
	if err != nil {
		return ProductTranslation{}, err
	}

	raw, err := s.loadTranslation(ctx, domain.ProductTranslationKey(id), domain.AlternateLanguage)
	if err != nil {
		return ProductTranslation{}, err
	}

	stored := localization.ParseProductOverride(raw)
	if stored == nil {
		return ProductTranslation{}, nil
	}

	translation := ProductTranslation{
		Title:          stored.Title,
		Subtitle:       stored.Subtitle,
		Description:    stored.Description,
		Category:       stored.Category,
		Subcategory:    stored.Subcategory,
		Features:       stored.Features,
		Applications:   stored.Applications,
		Certifications: stored.Certifications,
		OEMCodes:       stored.OEMCodes,
	}
	if stored.Specifications != nil {
		base := localization.ToDisplayProduct(*row)
		translation.Specifications = localization.SpecificationsFromMap(base.Specifications, stored.Specifications)
	}
	return translation, nil
}

// SaveProductOverride stores the alternate-language override of a product.
func (s *Service) SaveProductOverride(ctx context.Context, id int, lang domain.Language, input ProductTranslation, actor string) error {
	if lang.IsBase() {
		return ErrBaseLanguage
	}
	if _, err := s.repository.GetProduct(ctx, id); err != nil {
		return err
	}

	override := localization.ProductOverride{
		Title:          input.Title,
		Subtitle:       input.Subtitle,
		Description:    input.Description,
		Category:       input.Category,
		Subcategory:    input.Subcategory,
		Features:       input.Features,
		Applications:   input.Applications,
		Certifications: input.Certifications,
		OEMCodes:       input.OEMCodes,
	}
	if input.Specifications != nil {
		override.Specifications = localization.SpecificationsToMap(input.Specifications)
	}

	raw, err := override.Encode()
	if err != nil {
		return err
	}
	return s.saveTranslation(ctx, domain.ProductTranslationKey(id), lang, raw, actor, "products")
}

// SaveArticleOverride stores the alternate-language override of an article.
func (s *Service) SaveArticleOverride(ctx context.Context, id int, lang domain.Language, input ArticleTranslation, actor string) error {
	if lang.IsBase() {
		return ErrBaseLanguage
	}
	if _, err := s.repository.GetArticle(ctx, id); err != nil {
		return err
	}

	override := localization.ArticleOverride{
		Title:    input.Title,
		Excerpt:  input.Excerpt,
		Content:  input.Content,
		Category: input.Category,
		Author:   input.Author,
	}
	raw, err := override.Encode()
	if err != nil {
		return err
	}
	return s.saveTranslation(ctx, domain.ArticleTranslationKey(id), lang, raw, actor, "articles")
}

// SavePageContentOverride stores the alternate-language override of a page
// section. Sections do not need a saved row to be translated.
func (s *Service) SavePageContentOverride(ctx context.Context, section string, lang domain.Language, input PageContentTranslation, actor string) error {
	if lang.IsBase() {
		return ErrBaseLanguage
	}

	override := localization.PageContentOverride{
		Title:    input.Title,
		Content:  input.Content,
		ImageURL: input.ImageURL,
		Metadata: input.Metadata,
	}
	raw, err := override.Encode()
	if err != nil {
		return err
	}
	return s.saveTranslation(ctx, domain.PageContentTranslationKey(section), lang, raw, actor, "pages")
}

func (s *Service) saveTranslation(ctx context.Context, key string, lang domain.Language, raw, actor, listTag string) error {
	if err := s.repository.SaveTranslation(ctx, key, lang, raw); err != nil {
		return err
	}

	if err := s.cache.InvalidateTranslation(ctx, key, lang); err != nil {
		log.Warnf("⚠️ Failed to invalidate cached translation %s: %v", key, err)
	}

	log.Infof("💾 Saved %s translation %s", lang, key)
	s.afterSave(ctx, event.NewAuditEvent(event.AuditActionSaveTranslation, actor, key, lang.String(), raw), key, listTag)
	return nil
}

// SaveTaxonomy sanitizes and stores the curated taxonomy.
func (s *Service) SaveTaxonomy(ctx context.Context, taxonomy domain.Taxonomy, actor string) (domain.Taxonomy, error) {
	sanitized := localization.ParseTaxonomy(taxonomy)

	value, err := json.Marshal(sanitized)
	if err != nil {
		return nil, fmt.Errorf("failed to encode taxonomy: %w", err)
	}

	if err := s.repository.SaveSetting(ctx, domain.TaxonomySettingKey, value); err != nil {
		return nil, err
	}

	if err := s.cache.InvalidateSetting(ctx, domain.TaxonomySettingKey); err != nil {
		log.Warnf("⚠️ Failed to invalidate cached taxonomy: %v", err)
	}

	log.Infof("💾 Saved taxonomy with %d categories", len(sanitized))
	s.afterSave(ctx, event.NewAuditEvent(event.AuditActionSaveTaxonomy, actor, domain.TaxonomySettingKey, "", string(value)), "taxonomy", "products")
	return sanitized, nil
}

// afterSave publishes the audit event and asks the storefront to rebuild the
// affected pages. The save itself has already succeeded, so failures here
// are only logged.
func (s *Service) afterSave(ctx context.Context, auditEvent *event.AuditEvent, tags ...string) {
	if _, err := s.queue.Publish(ctx, auditEvent); err != nil {
		log.Errorf("❌ Failed to publish audit event for %s: %v", auditEvent.EntityKey, err)
	}

	if err := s.storefront.Revalidate(ctx, tags...); err != nil {
		log.Warnf("⚠️ Storefront revalidation failed for %v: %v", tags, err)
	}
}
