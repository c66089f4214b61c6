package services

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeCategory folds a free-text category into the key used for limit
// lookups: "Alimentação  Fora" -> "alimentacao_fora". The key is also the
// limit's document ID, so only letters, digits and '-' survive; every other
// run of characters becomes a single '_' and the ends are trimmed. That keeps
// '/', '.', ".." and "__x__" out of IDs. A category with no letters or digits
// yields "".
func NormalizeCategory(category string) string {
	// transform.Chain is stateful, so build one per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, category)
	if err != nil {
		folded = category
	}
	parts := strings.FieldsFunc(strings.ToLower(folded), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
	return strings.Join(parts, "_")
}
