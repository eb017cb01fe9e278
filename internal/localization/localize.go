package localization

import (
	"sort"

	"autoparts/content/internal/domain"
)

// ToDisplayProduct projects a database row into the display form. Nullable
// columns become empty strings and empty containers.
func ToDisplayProduct(row domain.ProductRow) domain.Product {
	oemCodes := make([]domain.OEMCode, 0, len(row.OEMCodes))
	for _, code := range row.OEMCodes {
		oemCodes = append(oemCodes, domain.OEMCode{
			Manufacturer: code.Manufacturer,
			Codes:        nonNil(code.Codes),
		})
	}

	return domain.Product{
		ID:             row.ID,
		Title:          row.Title,
		Subtitle:       deref(row.Subtitle),
		Description:    deref(row.Description),
		Category:       row.Category,
		Subcategory:    deref(row.Subcategory),
		ImageURL:       deref(row.ImageURL),
		Features:       nonNil(row.Features),
		Applications:   nonNil(row.Applications),
		Certifications: nonNil(row.Certifications),
		OEMCodes:       oemCodes,
		Specifications: SpecificationsFromMap(nil, row.Specifications),
	}
}

// LocalizeDisplayProduct resolves a product for the requested language.
//
// The base language returns the product untouched. For English the layers
// are applied in increasing precedence: built-in label translations, taxonomy
// labels, the static override for the product and finally the stored
// override decoded from rawOverride. Any layer may be missing.
func LocalizeDisplayProduct(product domain.Product, lang domain.Language, rawOverride string, taxonomy domain.Taxonomy) domain.Product {
	if lang != domain.AlternateLanguage {
		return product
	}

	result := cloneProduct(product)

	static, hasStatic := StaticProductOverride(product.Title, product.Subtitle)
	if hasStatic {
		applyProductOverride(&result, &static)
	}

	// Labels the static override did not set come from the taxonomy when the
	// admin has curated one, else from the built-in label table.
	categorySet := hasStatic && static.Category != nil
	subcategorySet := hasStatic && static.Subcategory != nil
	if !categorySet || !subcategorySet {
		category, subcategory := resolveTaxonomyLabels(taxonomy, product.Category, product.Subcategory)
		if !categorySet {
			result.Category = category
		}
		if !subcategorySet {
			result.Subcategory = subcategory
		}
	}

	if stored := ParseProductOverride(rawOverride); stored != nil {
		applyProductOverride(&result, stored)
	}

	return result
}

// resolveTaxonomyLabels returns English labels for a category/subcategory
// pair, preferring taxonomy nodes over the built-in label table.
func resolveTaxonomyLabels(taxonomy domain.Taxonomy, category, subcategory string) (string, string) {
	categoryLabel := TranslateLabel(category)
	subcategoryLabel := subcategory
	if subcategory != "" {
		subcategoryLabel = TranslateLabel(subcategory)
	}

	if taxonomy == nil {
		return categoryLabel, subcategoryLabel
	}

	node := FindCategoryByLabel(taxonomy, category)
	if node == nil {
		return categoryLabel, subcategoryLabel
	}
	categoryLabel = node.NameEN
	if sub := FindSubcategoryByLabel(node, subcategory); sub != nil {
		subcategoryLabel = sub.NameEN
	}
	return categoryLabel, subcategoryLabel
}

func applyProductOverride(product *domain.Product, override *ProductOverride) {
	setString(&product.Title, override.Title)
	setString(&product.Subtitle, override.Subtitle)
	setString(&product.Description, override.Description)
	setString(&product.Category, override.Category)
	setString(&product.Subcategory, override.Subcategory)
	if override.Features != nil {
		product.Features = append([]string{}, override.Features...)
	}
	if override.Applications != nil {
		product.Applications = append([]string{}, override.Applications...)
	}
	if override.Certifications != nil {
		product.Certifications = append([]string{}, override.Certifications...)
	}
	if override.OEMCodes != nil {
		product.OEMCodes = cloneOEMCodes(override.OEMCodes)
	}
	if override.Specifications != nil {
		product.Specifications = SpecificationsFromMap(product.Specifications, override.Specifications)
	}
}

// LocalizeArticle resolves an article for the requested language: built-in
// category label, static override, then stored override.
func LocalizeArticle(article domain.Article, lang domain.Language, rawOverride string) domain.Article {
	if lang != domain.AlternateLanguage {
		return article
	}

	result := article
	static, hasStatic := StaticArticleOverride(article.Title)
	if !hasStatic || static.Category == nil {
		result.Category = TranslateLabel(article.Category)
	}
	if hasStatic {
		applyArticleOverride(&result, &static)
	}
	if stored := ParseArticleOverride(rawOverride); stored != nil {
		applyArticleOverride(&result, stored)
	}
	return result
}

func applyArticleOverride(article *domain.Article, override *ArticleOverride) {
	setString(&article.Title, override.Title)
	setString(&article.Excerpt, override.Excerpt)
	setString(&article.Content, override.Content)
	setString(&article.Category, override.Category)
	setString(&article.Author, override.Author)
}

// SpecificationsToMap converts display rows into the label-keyed form used by
// stored overrides. Callers reject duplicate labels first; here later rows win.
func SpecificationsToMap(specs []domain.Specification) map[string]string {
	out := make(map[string]string, len(specs))
	for _, spec := range specs {
		out[spec.Label] = spec.Value
	}
	return out
}

// SpecificationsFromMap converts the label-keyed form back into display rows.
// Labels already present in base keep their position; the rest follow in
// sorted order. Labels missing from values are dropped.
func SpecificationsFromMap(base []domain.Specification, values map[string]string) []domain.Specification {
	out := make([]domain.Specification, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, spec := range base {
		value, ok := values[spec.Label]
		if !ok || seen[spec.Label] {
			continue
		}
		seen[spec.Label] = true
		out = append(out, domain.Specification{Label: spec.Label, Value: value})
	}

	remaining := make([]string, 0, len(values)-len(seen))
	for label := range values {
		if !seen[label] {
			remaining = append(remaining, label)
		}
	}
	sort.Strings(remaining)
	for _, label := range remaining {
		out = append(out, domain.Specification{Label: label, Value: values[label]})
	}
	return out
}

func setString(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func cloneProduct(p domain.Product) domain.Product {
	out := p
	out.Features = append([]string{}, p.Features...)
	out.Applications = append([]string{}, p.Applications...)
	out.Certifications = append([]string{}, p.Certifications...)
	out.OEMCodes = cloneOEMCodes(p.OEMCodes)
	out.Specifications = append([]domain.Specification{}, p.Specifications...)
	return out
}

func cloneOEMCodes(codes []domain.OEMCode) []domain.OEMCode {
	out := make([]domain.OEMCode, len(codes))
	for i, code := range codes {
		out[i] = domain.OEMCode{
			Manufacturer: code.Manufacturer,
			Codes:        append([]string{}, code.Codes...),
		}
	}
	return out
}
