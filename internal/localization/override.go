package localization

import (
	"encoding/json"
	"fmt"

	"autoparts/content/internal/domain"
	"autoparts/content/internal/jsonvalue"
)

// ProductOverride holds the English fields an admin stored for one product.
// Nil pointers, slices and maps mean "not set"; a non-nil empty slice is a
// deliberate empty list.
type ProductOverride struct {
	Title          *string
	Subtitle       *string
	Description    *string
	Category       *string
	Subcategory    *string
	Features       []string
	Applications   []string
	Certifications []string
	OEMCodes       []domain.OEMCode
	Specifications map[string]string
}

type ArticleOverride struct {
	Title    *string
	Excerpt  *string
	Content  *string
	Category *string
	Author   *string
}

type PageContentOverride struct {
	Title    *string
	Content  *string
	ImageURL *string
	Metadata jsonvalue.Value
}

// ParseProductOverride decodes a stored product override. It returns nil for
// empty input, invalid JSON or JSON that is not an object. Fields with the
// wrong type are dropped individually.
func ParseProductOverride(raw string) *ProductOverride {
	record, ok := decodeObject(raw)
	if !ok {
		return nil
	}
	return &ProductOverride{
		Title:          optionalString(record, "title"),
		Subtitle:       optionalString(record, "subtitle"),
		Description:    optionalString(record, "description"),
		Category:       optionalString(record, "category"),
		Subcategory:    optionalString(record, "subcategory"),
		Features:       stringSlice(record["features"]),
		Applications:   stringSlice(record["applications"]),
		Certifications: stringSlice(record["certifications"]),
		OEMCodes:       oemCodes(record["oemCodes"]),
		Specifications: stringMap(record["specifications"]),
	}
}

func ParseArticleOverride(raw string) *ArticleOverride {
	record, ok := decodeObject(raw)
	if !ok {
		return nil
	}
	return &ArticleOverride{
		Title:    optionalString(record, "title"),
		Excerpt:  optionalString(record, "excerpt"),
		Content:  optionalString(record, "content"),
		Category: optionalString(record, "category"),
		Author:   optionalString(record, "author"),
	}
}

func ParsePageContentOverride(raw string) *PageContentOverride {
	record, ok := decodeObject(raw)
	if !ok {
		return nil
	}
	override := &PageContentOverride{
		Title:    optionalString(record, "title"),
		Content:  optionalString(record, "content"),
		ImageURL: optionalString(record, "imageUrl"),
	}
	if metadata, exists := record["metadata"]; exists {
		override.Metadata = jsonvalue.FromAny(metadata)
	}
	return override
}

// Encode serializes the override in the stored format. Unset fields are
// omitted; empty lists are kept.
func (o *ProductOverride) Encode() (string, error) {
	record := map[string]any{}
	putString(record, "title", o.Title)
	putString(record, "subtitle", o.Subtitle)
	putString(record, "description", o.Description)
	putString(record, "category", o.Category)
	putString(record, "subcategory", o.Subcategory)
	if o.Features != nil {
		record["features"] = o.Features
	}
	if o.Applications != nil {
		record["applications"] = o.Applications
	}
	if o.Certifications != nil {
		record["certifications"] = o.Certifications
	}
	if o.OEMCodes != nil {
		record["oemCodes"] = encodeOEMCodes(o.OEMCodes)
	}
	if o.Specifications != nil {
		record["specifications"] = o.Specifications
	}
	return encodeRecord(record)
}

// encodeOEMCodes writes missing code lists as empty arrays; the parser drops
// entries whose codes are not a list.
func encodeOEMCodes(codes []domain.OEMCode) []domain.OEMCode {
	out := make([]domain.OEMCode, len(codes))
	for i, code := range codes {
		if code.Codes == nil {
			code.Codes = []string{}
		}
		out[i] = code
	}
	return out
}

func (o *ArticleOverride) Encode() (string, error) {
	record := map[string]any{}
	putString(record, "title", o.Title)
	putString(record, "excerpt", o.Excerpt)
	putString(record, "content", o.Content)
	putString(record, "category", o.Category)
	putString(record, "author", o.Author)
	return encodeRecord(record)
}

func (o *PageContentOverride) Encode() (string, error) {
	record := map[string]any{}
	putString(record, "title", o.Title)
	putString(record, "content", o.Content)
	putString(record, "imageUrl", o.ImageURL)
	if o.Metadata != nil {
		record["metadata"] = o.Metadata.Any()
	}
	return encodeRecord(record)
}

func putString(record map[string]any, key string, value *string) {
	if value != nil {
		record[key] = *value
	}
}

func encodeRecord(record map[string]any) (string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return "", fmt.Errorf("failed to encode override: %w", err)
	}
	return string(data), nil
}
