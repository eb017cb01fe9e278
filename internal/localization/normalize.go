package localization

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldDiacritics lowercases s and strips combining marks, so "Kompresörleri"
// and "KOMPRESORLERI" fold to the same text. Turkish dotless ı has no
// decomposition and is mapped explicitly.
func foldDiacritics(s string) string {
	// Transformers carry state; build a fresh chain per call.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			switch r {
			case 'ı':
				return 'i'
			case 'ß':
				return 's'
			}
			return unicode.ToLower(r)
		}),
		norm.NFC,
	)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// NormalizeLookupKey builds the key used by the static override tables:
// lowercase, diacritics folded, punctuation turned into spaces and
// whitespace collapsed.
func NormalizeLookupKey(parts ...string) string {
	folded := foldDiacritics(strings.Join(parts, " "))

	var b strings.Builder
	pendingSpace := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// Slugify derives a taxonomy node ID from a label. The result depends only
// on the label.
func Slugify(label string) string {
	folded := foldDiacritics(strings.TrimSpace(label))

	var b strings.Builder
	pendingHyphen := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}
