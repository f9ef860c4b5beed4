package assets

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// stripDiacritics removes combining marks after canonical decomposition, so
// "Florença" becomes "Florenca" and "Panteão" becomes "Panteao".
// A transform.Transformer is stateful, so a fresh chain is built per call.
func stripDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// placeKey is the canonical upper-case spelling used to look up places in
// the rules tables: no diacritics, single spaces, trimmed.
func placeKey(s string) string {
	return strings.ToUpper(collapseSpaces(stripDiacritics(s)))
}

// nameKey is the canonical lower-case spelling used to look up entity names
// in the override table.
func nameKey(s string) string {
	return strings.ToLower(collapseSpaces(stripDiacritics(s)))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func removeSpaces(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func underscoreSpaces(s string) string {
	return strings.Join(strings.Fields(s), "_")
}

// removeNonAlnum keeps ASCII letters and digits only. Accented letters are
// dropped, not folded; that is a distinct variant from stripDiacritics.
func removeNonAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// titleCaseWords upper-cases the first letter of every whitespace-separated
// word and leaves the rest untouched.
func titleCaseWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// tokens splits a lower-cased name on anything that is not a-z or 0-9.
func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}

// dedupe removes repeated and empty strings, keeping first-seen order.
func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
