package normalize

import (
	"regexp"
	"unicode"
	"unicode/utf8"

	"github.com/coolbeans/legifr/pkg/roman"
)

var (
	upperWordRe     = regexp.MustCompile(`À|(?:[DL]')?[A-ZÀÂÇÈÉÊËÎÔÛÜ]{2,}`)
	upperWordSkipRe = regexp.MustCompile(`\A(?:AOC |FRA\. |` + roman.Pattern + `(?:[ ,;:.)-]|\z))`)
)

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// HasUpperWord reports whether s still contains an uppercase word that
// normalization should have lowered. Roman numerals and a few known
// abbreviations don't count.
func HasUpperWord(s string) bool {
	for _, loc := range upperWordRe.FindAllStringIndex(s, -1) {
		if loc[0] > 0 {
			if r, _ := utf8.DecodeLastRuneInString(s[:loc[0]]); isWordRune(r) {
				continue
			}
		}
		if loc[1] < len(s) {
			if r, _ := utf8.DecodeRuneInString(s[loc[1]:]); isWordRune(r) {
				continue
			}
		}
		if upperWordSkipRe.MatchString(s[loc[0]:]) {
			continue
		}
		return true
	}
	return false
}
