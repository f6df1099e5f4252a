package ir

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldKey reduces s to a comparison key: accents removed, upper case,
// internal whitespace collapsed to single spaces.
//
//	FoldKey("  Descripción  de  partida ") // "DESCRIPCION DE PARTIDA"
func FoldKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Join(strings.Fields(strings.ToUpper(folded)), " ")
}

// EqualFold reports whether a and b have the same FoldKey.
func EqualFold(a, b string) bool {
	return FoldKey(a) == FoldKey(b)
}

// Words splits the folded form of s on every non letter/digit rune.
func Words(s string) []string {
	return strings.FieldsFunc(FoldKey(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ContainsWord reports whether any word of s equals the folded token.
func ContainsWord(s, token string) bool {
	want := FoldKey(token)
	if want == "" {
		return false
	}
	for _, w := range Words(s) {
		if w == want {
			return true
		}
	}
	return false
}

// ContainsFold reports whether the folded form of s contains the folded
// form of sub.
func ContainsFold(s, sub string) bool {
	sub = FoldKey(sub)
	return sub != "" && strings.Contains(FoldKey(s), sub)
}
