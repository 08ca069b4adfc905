package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeSKU canonicalises a SKU for indexing: NFKC, trimmed, upper case.
// Full-width and compatibility characters pasted from spreadsheets fold to
// the same key as their ASCII forms.
func NormalizeSKU(sku string) string {
	s := norm.NFKC.String(strings.TrimSpace(sku))
	// Casers are stateful; one per call.
	return cases.Upper(language.Und).String(s)
}

func normalizeTag(tag string) string {
	return cases.Lower(language.Und).String(norm.NFKC.String(strings.TrimSpace(tag)))
}
