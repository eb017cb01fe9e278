package client

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
)

const excerptBlocks = "p, h1, h2, h3, h4, li"

// ExcerptFromHTML returns the visible text of article HTML, whitespace
// collapsed and cut at a word boundary to at most maxRunes runes.
func ExcerptFromHTML(html string, maxRunes int) string {
	if strings.TrimSpace(html) == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Warnf("Failed to parse article HTML for excerpt: %v", err)
		return ""
	}

	// Script and style bodies are not visible text
	doc.Find("script, style").Remove()

	var parts []string
	doc.Find(excerptBlocks).Each(func(i int, s *goquery.Selection) {
		// Nested blocks are already part of the outer block's text
		if s.ParentsFiltered(excerptBlocks).Length() > 0 {
			return
		}
		if text := strings.TrimSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		parts = append(parts, doc.Text())
	}

	text := strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
	return truncateWords(text, maxRunes)
}

func truncateWords(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}

	runes := []rune(text)
	cut := string(runes[:maxRunes])
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
