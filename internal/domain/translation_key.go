package domain

import "fmt"

type EntityKind string

func (k EntityKind) String() string {
	return string(k)
}

const (
	EntityKindProduct     EntityKind = "product"
	EntityKindArticle     EntityKind = "article"
	EntityKindPageContent EntityKind = "pagecontent"
)

// TranslationKey identifies the stored override row belonging to one entity.
// The format is persisted and must stay stable.
func TranslationKey(kind EntityKind, id string) string {
	return fmt.Sprintf("%s:%s", kind, id)
}

func ProductTranslationKey(id int) string {
	return TranslationKey(EntityKindProduct, fmt.Sprint(id))
}

func ArticleTranslationKey(id int) string {
	return TranslationKey(EntityKindArticle, fmt.Sprint(id))
}

func PageContentTranslationKey(section string) string {
	return TranslationKey(EntityKindPageContent, section)
}
