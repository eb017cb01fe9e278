// Package pagecontent resolves editable page sections. Each section starts
// from a template compiled into the storefront, is overlaid with the row an
// admin saved and, for English pages, with the static and stored English
// overrides.
package pagecontent

import (
	"autoparts/content/internal/domain"
	"autoparts/content/internal/jsonvalue"
	"autoparts/content/internal/localization"
)

// ResolveSection merges a section for display. row may be nil when the
// section was never saved. Metadata is combined with jsonvalue.DeepMerge in
// the order fallback, row, static override, stored override.
func ResolveSection(fallback domain.PageContentSection, row *domain.PageContentRow, lang domain.Language, rawOverride string) domain.PageContentSection {
	result := applyRow(fallback, row)
	if lang != domain.AlternateLanguage {
		return result
	}

	if static, ok := localization.StaticPageContentOverride(result.Section); ok {
		result = applyOverride(result, &static)
	}
	if stored := localization.ParsePageContentOverride(rawOverride); stored != nil {
		result = applyOverride(result, stored)
	}
	return result
}

// EditorMetadata builds the metadata shown in the admin editor for a
// language: the template defaults with the saved values on top.
func EditorMetadata(fallback domain.PageContentSection, rawOverride string) jsonvalue.Value {
	stored := localization.ParsePageContentOverride(rawOverride)
	if stored == nil {
		return fallback.Metadata
	}
	return jsonvalue.DeepMerge(fallback.Metadata, stored.Metadata)
}

func applyRow(fallback domain.PageContentSection, row *domain.PageContentRow) domain.PageContentSection {
	result := fallback
	if row == nil {
		return result
	}
	if row.Title != nil {
		result.Title = *row.Title
	}
	if row.Content != nil {
		result.Content = *row.Content
	}
	if row.ImageURL != nil {
		result.ImageURL = *row.ImageURL
	}
	if len(row.Metadata) > 0 {
		// A corrupt metadata column falls back to the template.
		if metadata, err := jsonvalue.Parse(row.Metadata); err == nil {
			result.Metadata = jsonvalue.DeepMerge(result.Metadata, metadata)
		}
	}
	return result
}

func applyOverride(section domain.PageContentSection, override *localization.PageContentOverride) domain.PageContentSection {
	if override.Title != nil {
		section.Title = *override.Title
	}
	if override.Content != nil {
		section.Content = *override.Content
	}
	if override.ImageURL != nil {
		section.ImageURL = *override.ImageURL
	}
	section.Metadata = jsonvalue.DeepMerge(section.Metadata, override.Metadata)
	return section
}
