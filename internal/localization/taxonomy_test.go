package localization

import (
	"encoding/json"
	"testing"

	"autoparts/content/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, raw string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestParseTaxonomyFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name string
		raw  any
	}{
		{name: "nil", raw: nil},
		{name: "string", raw: "not a taxonomy"},
		{name: "object", raw: map[string]any{"nameTr": "X"}},
		{name: "empty array", raw: []any{}},
		{name: "array without valid categories", raw: []any{1, "x", map[string]any{"nameTr": "  "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, DefaultTaxonomy(), ParseTaxonomy(tt.raw))
		})
	}
}

func TestParseTaxonomySanitizesNodes(t *testing.T) {
	raw := decode(t, `[
		{"nameTr": "VALFLER", "subcategories": [
			{"nameEn": "Relay Valves"},
			{"id": "custom", "nameTr": "Fren Valfleri", "nameEn": "Brake Valves"},
			{"nameTr": 5},
			"junk"
		]},
		{"id": "ozel", "nameEn": "SPECIAL"},
		{"nameTr": "VALFLER", "nameEn": "VALVES (2)"},
		42
	]`)

	taxonomy := ParseTaxonomy(raw)
	require.Len(t, taxonomy, 3)

	assert.Equal(t, "valfler", taxonomy[0].ID)
	assert.Equal(t, "VALFLER", taxonomy[0].NameTR)
	assert.Equal(t, "VALFLER", taxonomy[0].NameEN)
	assert.Equal(t, []domain.Subcategory{
		{ID: "relay-valves", NameTR: "Relay Valves", NameEN: "Relay Valves"},
		{ID: "custom", NameTR: "Fren Valfleri", NameEN: "Brake Valves"},
	}, taxonomy[0].Subcategories)

	assert.Equal(t, "ozel", taxonomy[1].ID)
	assert.Equal(t, "SPECIAL", taxonomy[1].NameTR)
	assert.Empty(t, taxonomy[1].Subcategories)

	assert.Equal(t, "valfler-2", taxonomy[2].ID)
}

func TestFindByLabel(t *testing.T) {
	taxonomy := DefaultTaxonomy()

	byBase := FindCategoryByLabel(taxonomy, " VALFLER ")
	require.NotNil(t, byBase)
	assert.Equal(t, "valfler", byBase.ID)

	byAlt := FindCategoryByLabel(taxonomy, "VALVES")
	require.NotNil(t, byAlt)
	assert.Equal(t, "valfler", byAlt.ID)

	assert.Nil(t, FindCategoryByLabel(taxonomy, "valfler"), "matching is exact")
	assert.Nil(t, FindCategoryByLabel(taxonomy, ""))

	sub := FindSubcategoryByLabel(byBase, "Unloader Valves")
	require.NotNil(t, sub)
	assert.Equal(t, "Boşaltma Valfleri", sub.NameTR)

	assert.Nil(t, FindSubcategoryByLabel(byBase, "Contalar"))
	assert.Nil(t, FindSubcategoryByLabel(nil, "Contalar"))
}

func TestMergeTaxonomyWithProducts(t *testing.T) {
	taxonomy := DefaultTaxonomy()
	products := []domain.Product{
		{Category: "VALFLER", Subcategory: "Fren Valfleri"},
		{Category: "VALFLER", Subcategory: "Hız Sınırlayıcılar"},
		{Category: "AKSESUARLAR", Subcategory: "Hortumlar"},
		{Category: "AKSESUARLAR", Subcategory: ""},
		{Category: "  ", Subcategory: "Yetim"},
		{Category: "COMPRESSORS", Subcategory: "Air Brake Compressors"},
	}

	merged := MergeTaxonomyWithProducts(taxonomy, products)

	for _, product := range products {
		if product.Category == "  " {
			continue
		}
		category := FindCategoryByLabel(merged, product.Category)
		require.NotNil(t, category, product.Category)
		if product.Subcategory != "" {
			assert.NotNil(t, FindSubcategoryByLabel(category, product.Subcategory), product.Subcategory)
		}
	}

	accessories := FindCategoryByLabel(merged, "AKSESUARLAR")
	require.NotNil(t, accessories)
	assert.Equal(t, "aksesuarlar", accessories.ID)
	assert.Equal(t, "AKSESUARLAR", accessories.NameEN)
	assert.Equal(t, []domain.Subcategory{{ID: "hortumlar", NameTR: "Hortumlar", NameEN: "Hortumlar"}}, accessories.Subcategories)

	valves := FindCategoryByLabel(merged, "VALFLER")
	require.NotNil(t, valves)
	limiter := FindSubcategoryByLabel(valves, "Hız Sınırlayıcılar")
	require.NotNil(t, limiter)
	assert.Equal(t, "hiz-sinirlayicilar", limiter.ID)

	assert.Len(t, merged, len(taxonomy)+1)
	assert.Len(t, DefaultTaxonomy()[1].Subcategories, len(taxonomy[1].Subcategories), "input must not change")

	names := make([]string, len(merged))
	for i, category := range merged {
		names[i] = category.NameTR
	}
	assert.Equal(t, []string{"AKSESUARLAR", "HAVA KURUTUCULAR", "KOMPRESÖRLER", "VALFLER", "YEDEK PARÇALAR"}, names)
}

func TestMergeTaxonomyWithProductsIsDeterministic(t *testing.T) {
	products := []domain.Product{
		{Category: "Özel Ürünler", Subcategory: "A / B"},
		{Category: "Ozel Urunler", Subcategory: "A-B"},
	}

	first := MergeTaxonomyWithProducts(DefaultTaxonomy(), products)
	second := MergeTaxonomyWithProducts(DefaultTaxonomy(), products)
	assert.Equal(t, first, second)

	accented := FindCategoryByLabel(first, "Özel Ürünler")
	plain := FindCategoryByLabel(first, "Ozel Urunler")
	require.NotNil(t, accented)
	require.NotNil(t, plain)
	assert.Equal(t, "ozel-urunler", accented.ID)
	assert.Equal(t, "ozel-urunler-2", plain.ID)
}
