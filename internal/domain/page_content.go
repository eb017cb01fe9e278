package domain

import "autoparts/content/internal/jsonvalue"

// PageContentSection is a named block of editable page content, e.g. "home.hero".
type PageContentSection struct {
	Section  string          `json:"section"`
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	ImageURL string          `json:"imageUrl"`
	Metadata jsonvalue.Value `json:"metadata"`
}

// PageContentRow mirrors the pageContent table.
type PageContentRow struct {
	Section  string  `json:"section"`
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
	Metadata []byte  `json:"metadata"` // raw JSON column
}
