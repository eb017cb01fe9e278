package domain

import "strings"

type Language string

func (l Language) String() string {
	return string(l)
}

const (
	LanguageTurkish Language = "tr" // Store language
	LanguageEnglish Language = "en" // Override language
)

// BaseLanguage is the language database records are written in.
const BaseLanguage = LanguageTurkish

// AlternateLanguage is the only language resolved through override layers.
const AlternateLanguage = LanguageEnglish

var Languages = []Language{
	LanguageTurkish,
	LanguageEnglish,
}

// ParseLanguage maps a request value to a supported language. Anything that
// is not recognisably English resolves to the base language.
func ParseLanguage(value string) Language {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "en", "en-us", "en-gb", "english":
		return LanguageEnglish
	default:
		return BaseLanguage
	}
}

func (l Language) IsBase() bool {
	return l == BaseLanguage
}

func (l Language) GetLanguageName() string {
	switch l {
	case LanguageTurkish:
		return "Türkçe"
	case LanguageEnglish:
		return "English"
	default:
		return "Unknown"
	}
}
