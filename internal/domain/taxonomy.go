package domain

// Subcategory is a leaf of the product taxonomy.
type Subcategory struct {
	ID     string `json:"id"`
	NameTR string `json:"nameTr"` // Base language label, as stored on products
	NameEN string `json:"nameEn"` // Display label for English pages
}

// Category groups subcategories. IDs are slugs of the label and unique within
// the taxonomy (subcategory IDs are unique within their category).
type Category struct {
	ID            string        `json:"id"`
	NameTR        string        `json:"nameTr"`
	NameEN        string        `json:"nameEn"`
	Subcategories []Subcategory `json:"subcategories"`
}

type Taxonomy []Category

// TaxonomySettingKey is the settings row holding the admin-curated taxonomy.
const TaxonomySettingKey = "product_taxonomy"
