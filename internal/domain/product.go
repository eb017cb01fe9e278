package domain

type OEMCode struct {
	Manufacturer string   `json:"manufacturer" validate:"required"`
	Codes        []string `json:"codes"`
}

// Specification is one label/value row as shown on the product page.
type Specification struct {
	Label string `json:"label" validate:"required"`
	Value string `json:"value"`
}

// ProductRow mirrors the products table; array and map columns are nullable.
type ProductRow struct {
	ID             int               `json:"id"`
	Title          string            `json:"title"`
	Subtitle       *string           `json:"subtitle"`
	Description    *string           `json:"description"`
	Category       string            `json:"category"`
	Subcategory    *string           `json:"subcategory"`
	ImageURL       *string           `json:"image_url"`
	Features       []string          `json:"features"`
	Applications   []string          `json:"applications"`
	Certifications []string          `json:"certifications"`
	OEMCodes       []OEMCode         `json:"oem_codes"`
	Specifications map[string]string `json:"specifications"`
	SortOrder      int               `json:"sort_order"`
}

// Product is the display form handed to the storefront.
type Product struct {
	ID             int             `json:"id"`
	Title          string          `json:"title"`
	Subtitle       string          `json:"subtitle"`
	Description    string          `json:"description"`
	Category       string          `json:"category"`
	Subcategory    string          `json:"subcategory"`
	ImageURL       string          `json:"imageUrl"`
	Features       []string        `json:"features"`
	Applications   []string        `json:"applications"`
	Certifications []string        `json:"certifications"`
	OEMCodes       []OEMCode       `json:"oemCodes"`
	Specifications []Specification `json:"specifications"`
}
