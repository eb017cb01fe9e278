package localization

import (
	"fmt"
	"sort"
	"strings"

	"autoparts/content/internal/domain"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var defaultTaxonomy = domain.Taxonomy{
	{
		ID: "kompresorler", NameTR: "KOMPRESÖRLER", NameEN: "COMPRESSORS",
		Subcategories: []domain.Subcategory{
			{ID: "hava-fren-kompresorleri", NameTR: "Hava Fren Kompresörleri", NameEN: "Air Brake Compressors"},
			{ID: "kompresor-tamir-takimlari", NameTR: "Kompresör Tamir Takımları", NameEN: "Compressor Repair Kits"},
		},
	},
	{
		ID: "valfler", NameTR: "VALFLER", NameEN: "VALVES",
		Subcategories: []domain.Subcategory{
			{ID: "fren-valfleri", NameTR: "Fren Valfleri", NameEN: "Brake Valves"},
			{ID: "bosaltma-valfleri", NameTR: "Boşaltma Valfleri", NameEN: "Unloader Valves"},
			{ID: "role-valfleri", NameTR: "Röle Valfleri", NameEN: "Relay Valves"},
		},
	},
	{
		ID: "hava-kurutucular", NameTR: "HAVA KURUTUCULAR", NameEN: "AIR DRYERS",
		Subcategories: []domain.Subcategory{
			{ID: "kurutucu-kartuslari", NameTR: "Kurutucu Kartuşları", NameEN: "Dryer Cartridges"},
			{ID: "hava-isleme-uniteleri", NameTR: "Hava İşleme Üniteleri", NameEN: "Air Processing Units"},
		},
	},
	{
		ID: "yedek-parcalar", NameTR: "YEDEK PARÇALAR", NameEN: "SPARE PARTS",
		Subcategories: []domain.Subcategory{
			{ID: "contalar", NameTR: "Contalar", NameEN: "Gaskets"},
			{ID: "pistonlar", NameTR: "Pistonlar", NameEN: "Pistons"},
			{ID: "silindir-kafalari", NameTR: "Silindir Kafaları", NameEN: "Cylinder Heads"},
		},
	},
}

// DefaultTaxonomy returns a copy of the built-in taxonomy.
func DefaultTaxonomy() domain.Taxonomy {
	return cloneTaxonomy(defaultTaxonomy)
}

// ParseTaxonomy sanitizes a decoded taxonomy setting. Input that is not an
// array of category objects, or that yields no usable category, falls back
// to DefaultTaxonomy.
func ParseTaxonomy(raw any) domain.Taxonomy {
	var items []any
	switch t := raw.(type) {
	case []any:
		items = t
	case domain.Taxonomy:
		items = taxonomyAsAny(t)
	default:
		return DefaultTaxonomy()
	}

	categories := make(domain.Taxonomy, 0, len(items))
	usedIDs := make(map[string]bool)
	for i, item := range items {
		record, ok := asObject(item)
		if !ok {
			continue
		}
		nameTR, nameEN, ok := sanitizeNames(record)
		if !ok {
			continue
		}

		category := domain.Category{
			ID:     uniqueID(nodeID(record, nameTR, fmt.Sprintf("category-%d", i+1)), usedIDs),
			NameTR: nameTR,
			NameEN: nameEN,
		}

		subcategories, _ := record["subcategories"].([]any)
		usedSubIDs := make(map[string]bool)
		category.Subcategories = make([]domain.Subcategory, 0, len(subcategories))
		for j, subItem := range subcategories {
			subRecord, ok := asObject(subItem)
			if !ok {
				continue
			}
			subTR, subEN, ok := sanitizeNames(subRecord)
			if !ok {
				continue
			}
			category.Subcategories = append(category.Subcategories, domain.Subcategory{
				ID:     uniqueID(nodeID(subRecord, subTR, fmt.Sprintf("subcategory-%d", j+1)), usedSubIDs),
				NameTR: subTR,
				NameEN: subEN,
			})
		}

		categories = append(categories, category)
	}

	if len(categories) == 0 {
		return DefaultTaxonomy()
	}
	return categories
}

func sanitizeNames(record map[string]any) (string, string, bool) {
	nameTR := strings.TrimSpace(stringOrEmpty(record["nameTr"]))
	nameEN := strings.TrimSpace(stringOrEmpty(record["nameEn"]))
	if nameTR == "" && nameEN == "" {
		return "", "", false
	}
	if nameTR == "" {
		nameTR = nameEN
	}
	if nameEN == "" {
		nameEN = nameTR
	}
	return nameTR, nameEN, true
}

func nodeID(record map[string]any, label, fallback string) string {
	if id := strings.TrimSpace(stringOrEmpty(record["id"])); id != "" {
		return id
	}
	if slug := Slugify(label); slug != "" {
		return slug
	}
	return fallback
}

// uniqueID suffixes id with -2, -3, ... until it is unused in scope.
func uniqueID(id string, used map[string]bool) string {
	candidate := id
	for n := 2; used[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", id, n)
	}
	used[candidate] = true
	return candidate
}

// FindCategoryByLabel matches the trimmed label exactly against either name.
func FindCategoryByLabel(taxonomy domain.Taxonomy, label string) *domain.Category {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil
	}
	for i := range taxonomy {
		if taxonomy[i].NameTR == label || taxonomy[i].NameEN == label {
			return &taxonomy[i]
		}
	}
	return nil
}

// FindSubcategoryByLabel matches the trimmed label exactly against either
// name within one category.
func FindSubcategoryByLabel(category *domain.Category, label string) *domain.Subcategory {
	label = strings.TrimSpace(label)
	if category == nil || label == "" {
		return nil
	}
	for i := range category.Subcategories {
		sub := &category.Subcategories[i]
		if sub.NameTR == label || sub.NameEN == label {
			return sub
		}
	}
	return nil
}

// MergeTaxonomyWithProducts returns a taxonomy that contains a node for every
// category and subcategory label used by products. Unknown labels become new
// nodes named after the raw label in both languages. Categories are sorted by
// their base-language name. The input taxonomy is not modified.
func MergeTaxonomyWithProducts(taxonomy domain.Taxonomy, products []domain.Product) domain.Taxonomy {
	merged := cloneTaxonomy(taxonomy)

	usedIDs := make(map[string]bool, len(merged))
	for _, category := range merged {
		usedIDs[category.ID] = true
	}

	for _, product := range products {
		categoryLabel := strings.TrimSpace(product.Category)
		if categoryLabel == "" {
			continue
		}

		category := FindCategoryByLabel(merged, categoryLabel)
		if category == nil {
			merged = append(merged, domain.Category{
				ID:            uniqueID(slugOr(categoryLabel, "category"), usedIDs),
				NameTR:        categoryLabel,
				NameEN:        categoryLabel,
				Subcategories: []domain.Subcategory{},
			})
			category = &merged[len(merged)-1]
		}

		subcategoryLabel := strings.TrimSpace(product.Subcategory)
		if subcategoryLabel == "" || FindSubcategoryByLabel(category, subcategoryLabel) != nil {
			continue
		}

		usedSubIDs := make(map[string]bool, len(category.Subcategories))
		for _, sub := range category.Subcategories {
			usedSubIDs[sub.ID] = true
		}
		category.Subcategories = append(category.Subcategories, domain.Subcategory{
			ID:     uniqueID(slugOr(subcategoryLabel, "subcategory"), usedSubIDs),
			NameTR: subcategoryLabel,
			NameEN: subcategoryLabel,
		})
	}

	sortTaxonomy(merged)
	return merged
}

func slugOr(label, fallback string) string {
	if slug := Slugify(label); slug != "" {
		return slug
	}
	return fallback
}

func sortTaxonomy(taxonomy domain.Taxonomy) {
	collator := collate.New(language.Turkish, collate.IgnoreCase)
	sort.SliceStable(taxonomy, func(i, j int) bool {
		return collator.CompareString(taxonomy[i].NameTR, taxonomy[j].NameTR) < 0
	})
}

func cloneTaxonomy(taxonomy domain.Taxonomy) domain.Taxonomy {
	out := make(domain.Taxonomy, len(taxonomy))
	for i, category := range taxonomy {
		out[i] = category
		out[i].Subcategories = append([]domain.Subcategory{}, category.Subcategories...)
	}
	return out
}

func taxonomyAsAny(taxonomy domain.Taxonomy) []any {
	out := make([]any, 0, len(taxonomy))
	for _, category := range taxonomy {
		subs := make([]any, 0, len(category.Subcategories))
		for _, sub := range category.Subcategories {
			subs = append(subs, map[string]any{"id": sub.ID, "nameTr": sub.NameTR, "nameEn": sub.NameEN})
		}
		out = append(out, map[string]any{
			"id":            category.ID,
			"nameTr":        category.NameTR,
			"nameEn":        category.NameEN,
			"subcategories": subs,
		})
	}
	return out
}
