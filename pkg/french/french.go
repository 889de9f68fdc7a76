// Package french provides constants and helpers specific to French text:
// accent stripping, case mimicry, word statistics, and the ordinal
// normalizer shared by the title and section grammars.
package french

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// SpacesRe matches any run of whitespace, including non-breaking
	// spaces found in LEGI data.
	SpacesRe = regexp.MustCompile(`[\s\p{Zs}]+`)

	// ASCIISpacesRe matches runs of plain ASCII whitespace only.
	ASCIISpacesRe = regexp.MustCompile(`[ \t\n\r\f\v]+`)

	// NonwordRe matches a single non-word character (unicode-aware).
	NonwordRe = regexp.MustCompile(`[^\p{L}\p{N}_]`)

	wordRe        = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)
	nonAlnumRe    = regexp.MustCompile(`[^a-z0-9]`)
	accentStriper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
)

// StripAccents removes combining marks: "État" -> "Etat".
func StripAccents(s string) string {
	out, _, err := transform.String(accentStriper, s)
	if err != nil {
		return s
	}
	return out
}

// StripDown lowercases and strips accents, the canonical form used for
// accent/case-insensitive comparisons throughout the grammars.
func StripDown(s string) string {
	return strings.ToLower(StripAccents(s))
}

// FilterNonAlnum reduces a string to its lowercase alphanumeric skeleton.
// Used to build the titrefull_s join key.
func FilterNonAlnum(s string) string {
	return nonAlnumRe.ReplaceAllString(StripDown(s), "")
}

// StripPrefix removes prefix from s if present.
func StripPrefix(s, prefix string) string {
	return strings.TrimPrefix(s, prefix)
}

// IsUpper reports whether s contains at least one cased letter and
// every cased letter is uppercase.
func IsUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			cased = true
		}
	}
	return cased
}

// UpperWordsPercentage returns the share of words (2+ chars) that are
// fully uppercase. Returns 0 for a string with no words.
func UpperWordsPercentage(s string) float64 {
	words := wordRe.FindAllString(s, -1)
	if len(words) == 0 {
		return 0
	}
	upper := 0
	for _, w := range words {
		if IsUpper(w) {
			upper++
		}
	}
	return float64(upper) / float64(len(words))
}

// MimicCase transfers the casing of model onto repl: all-uppercase model
// uppercases repl, leading-capital model capitalizes it, anything else
// leaves repl untouched.
func MimicCase(model, repl string) string {
	if IsUpper(model) {
		return strings.ToUpper(repl)
	}
	for _, r := range model {
		if unicode.IsLetter(r) {
			if unicode.IsUpper(r) {
				return Capitalize(repl)
			}
			break
		}
	}
	return repl
}

// Capitalize uppercases the first letter of s, leaving the rest alone.
func Capitalize(s string) string {
	for i, r := range s {
		if unicode.IsLetter(r) {
			return s[:i] + string(unicode.ToUpper(r)) + s[i+len(string(r)):]
		}
	}
	return s
}

// Title lowercases s and capitalizes the first letter of every word,
// where a word starts after any non-letter ("décret-loi" -> "Décret-Loi").
func Title(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}

// ReplaceQuotes rewrites straight-quoted segments as French guillemets:
// `"Moulis"` -> `« Moulis »`. A quoted segment is replaced only when it
// starts the string or follows a space, and is followed by a non-word
// character or the end of the string.
func ReplaceQuotes(s string) string {
	matches := quotedRe.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		end := m[1]
		if end < len(s) {
			r, _ := utf8.DecodeRuneInString(s[end:])
			if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '_' {
				continue
			}
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(s[m[2]:m[3]])
		b.WriteString("« ")
		b.WriteString(strings.TrimSpace(s[m[4]:m[5]]))
		b.WriteString(" »")
		last = end
	}
	b.WriteString(s[last:])
	return b.String()
}

var quotedRe = regexp.MustCompile(`(^| )"([^"]+)"`)

// accentFallbacks maps each accented letter to a character class that
// also accepts its unaccented form. LEGI data frequently drops accents.
var accentFallbacks = strings.NewReplacer(
	"à", "[aà]", "â", "[aâ]", "ç", "[cç]", "è", "[eè]", "é", "[eé]",
	"ê", "[eê]", "ë", "[eë]", "î", "[iî]", "ï", "[iï]", "ô", "[oô]",
	"û", "[uû]", "ù", "[uù]", "ü", "[uü]",
	"À", "[AÀ]", "Â", "[AÂ]", "Ç", "[CÇ]", "È", "[EÈ]", "É", "[EÉ]",
	"Ê", "[EÊ]", "Î", "[IÎ]", "Ô", "[OÔ]", "Û", "[UÛ]",
)

// AddAccentlessFallbacks rewrites a pattern so each accented letter also
// matches its accentless variant. The pattern must not already contain
// accented letters inside character classes.
func AddAccentlessFallbacks(pattern string) string {
	return accentFallbacks.Replace(pattern)
}
