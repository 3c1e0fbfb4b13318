package syringe

import (
	"strings"
	"unicode"
)

// Hyphenate converts camelCase to kebab-case: "fontSize" → "font-size".
// A capital at the start of the string or after a non-word character is
// lowered without a dash.
func Hyphenate(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	prevWord := false
	for _, r := range s {
		if unicode.IsUpper(r) {
			if prevWord {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
		prevWord = isWordRune(r)
	}
	return b.String()
}

// Camelize converts kebab-case to camelCase: "font-size" → "fontSize".
// A dash not followed by a word character is kept.
func Camelize(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '-' && i+1 < len(runes) && isWordRune(runes[i+1]) {
			b.WriteRune(unicode.ToUpper(runes[i+1]))
			i++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// cssPropertyKey returns the internal name of a CSS property. Custom
// properties ("--brand-color") are case sensitive and kept as written.
func cssPropertyKey(prop string) string {
	if strings.HasPrefix(prop, "--") {
		return prop
	}
	return Camelize(prop)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
