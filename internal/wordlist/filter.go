package wordlist

import (
	"strings"
	"unicode"
)

// FilterFunc reports whether a word is typeable practice material.
type FilterFunc func(string) bool

// FilterForLang picks the word filter for a list language. English lists keep
// lowercase ASCII words; other lists keep words made only of lowercase letters.
func FilterForLang(lang string) FilterFunc {
	if strings.EqualFold(lang, DefaultLang) {
		return lowerASCII
	}
	return lowerLetters
}

// Filter keeps the words accepted by keep.
func Filter(words []string, keep FilterFunc) []string {
	out := words[:0:0]
	for _, word := range words {
		if keep(word) {
			out = append(out, word)
		}
	}
	return out
}

func lowerASCII(word string) bool {
	if word == "" {
		return false
	}
	for i := 0; i < len(word); i++ {
		if word[i] < 'a' || word[i] > 'z' {
			return false
		}
	}
	return true
}

func lowerLetters(word string) bool {
	if word == "" {
		return false
	}
	for _, r := range word {
		if !unicode.IsLetter(r) || unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
