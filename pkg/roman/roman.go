// Package roman converts between integers and Roman numerals and exposes
// a regex fragment for embedding Roman numerals in larger grammars.
package roman

import "fmt"

// Pattern matches a run of Roman numeral letters. Go's regexp engine has
// no lookahead, so this is intentionally permissive: grammars embed it
// where any all-Roman-letters token denotes a numeral, and semantic
// validity is checked with FromRoman where the value matters.
const Pattern = `[MDCLXVI]+`

// numerals is the standard subtractive-notation table, scanned
// largest-to-smallest by both conversion directions.
var numerals = []struct {
	symbol string
	value  int
}{
	{"M", 1000}, {"CM", 900}, {"D", 500}, {"CD", 400}, {"C", 100},
	{"XC", 90}, {"L", 50}, {"XL", 40}, {"X", 10}, {"IX", 9}, {"V", 5},
	{"IV", 4}, {"I", 1},
}

// ToRoman converts a non-negative integer to its Roman form.
// ToRoman(0) returns the empty string.
func ToRoman(n int) string {
	r := ""
	for _, e := range numerals {
		for n >= e.value {
			r += e.symbol
			n -= e.value
		}
	}
	return r
}

// FromRoman converts a Roman numeral to an integer. It greedily consumes
// matching symbol runs in table order and returns an error if any input
// remains unconsumed.
func FromRoman(s string) (int, error) {
	r, i := 0, 0
	for _, e := range numerals {
		l := len(e.symbol)
		for i+l <= len(s) && s[i:i+l] == e.symbol {
			r += e.value
			i += l
		}
	}
	if i != len(s) {
		return 0, fmt.Errorf("%q is not a valid roman number", s)
	}
	return r, nil
}

// IsRoman reports whether s is a well-formed Roman numeral.
func IsRoman(s string) bool {
	if s == "" {
		return false
	}
	_, err := FromRoman(s)
	return err == nil
}
