// Package normalize provides the string canonicalization used to compare
// user input against provider catalog names.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize lower-cases s, trims it, and collapses internal whitespace runs
// to a single space.
//
//	"  Oil,   Soybean " -> "oil, soybean"
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// StripNonLetters normalizes s and then drops every rune that is not a
// lowercase ASCII letter, a digit, or a space.
//
//	"Oil, Soybean (Local)" -> "oil soybean local"
func StripNonLetters(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == ' ':
			return r
		default:
			return -1
		}
	}, Normalize(s))
}

// Fold normalizes s and removes diacritics ("Açúcar" -> "acucar").
// Alias lookups use it as a second-chance key.
func Fold(s string) string {
	folded, _, err := transform.String(stripMarks(), Normalize(s))
	if err != nil {
		return Normalize(s)
	}
	return folded
}

// stripMarks builds a fresh transformer; transform.Chain values are stateful
// and must not be shared across goroutines.
func stripMarks() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// SplitList splits a delimited list on commas, pipes or semicolons.
// Items are trimmed, empty items dropped, and duplicates (by Normalize form)
// removed. First-seen order is preserved.
//
//	"brasil, Argentina|BRASIL;" -> ["brasil", "Argentina"]
func SplitList(s string) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '|' || r == ';'
	})

	seen := make(map[string]struct{}, len(parts))
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		key := Normalize(trimmed)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
