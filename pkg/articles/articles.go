// Package articles implements the grammar for article numbers and
// titles: the composable pattern fragments, the multi-article
// detectors, and the num-to-title conversion.
package articles

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coolbeans/legifr/pkg/roman"
)

// NumExtra matches the latin suffixes appended to article numbers.
// "quinquedecies" and "sexties" are not correct latin but exist in the
// data.
const NumExtra = `(?:un|duo|ter|quater|quin|sex|sept|octo|novo)?(?:dec|vic|tric|quadrag|quinquag|sexag|septuag|octog|nonag)i[eè]s|` +
	`semel|bis|ter|quar?ter|(?:quinqu(?:edec)?|sext?|sept|oct|non)i[eè]s|quinto`

// Num matches a single article number: an optional series prefix
// (L., R., D., A., LO, starred variants), a base number or letter
// group, and any run of sub-number continuations.
var Num = `(?:` +
	`(?:LO\.? ?|[RD]\*{1,2}|[LDRA]\.? ?)?(?:[0-9]+|1er)\b|` +
	`[0-9]+[a-z]?\b|` +
	`\b[A-Z][0-9]*\b'?|` +
	`\b` + roman.Pattern + `\b\(?[a-e]?\)?|` +
	`\b[A-Z]{1,4}\b` +
	`)(?:` +
	`[-./*](?: ?[0-9]+[A-Z]?\b| ?[A-Z]{1,4}[0-9]*\b| ?[a-z]\b)|` +
	` - [0-9]+\b|` +
	` [A-Z0-9]{1,3}\b|` +
	` [a-z][A-Z]?\b|` +
	` ?\((?:` + roman.Pattern + `|[A-Za-z0-9]{1,2})\)|` +
	` 1er\b|` +
	`[- ](?:` + NumExtra + `)\b(?:-[0-9]+\b)?` +
	`)*`

// Type matches the leading words of non-numeric article titles.
var Type = `[Aa]dditif |[Aa]nnexes?(?: [:-]|,)? (?:(?:à l')?article |art\. |unique )?|` +
	`[Aa]ppendices? |[Bb]arèmes? |[Dd]otations? |[Dd][ée]cision |[Ll]istes? |` +
	`[Rr]ègle |[Tt]able(?:aux?)? |[Éé]tats? |[Ii]nstruction `

var Subtype = `doc|table(?:au)?|option|état|liste|appendice|` +
	`(?:à|de) l'art(?:\.|icle)|` +
	`(?:au ` + roman.Pattern + ` )?art(?:\.|icle)?|` +
	`(?:[Ss]ous-)?[Pp]art(?:ie)?`

// Titre matches a full article title: an optional type, the number(s),
// subtype references, and a few known suffixes.
var Titre = `(?:(?:` + Type + `)(?:technique )?)?` +
	`(?:[nN]° ?)?` +
	`\(?(?:unique|liminaire|(?:suite |-)?` + Num + `|suite)\)?` +
	`(?: (?:aux articles|art) ` + Num + `(?:(?:,|,? et| à) ` + Num + `)+)?` +
	`(?: (?:[Ss]ous-)?[Pp]arties ` + Num + `(?:(?:,|,? et| à) ` + Num + `)+)?` +
	`(?:,? ?\(?(?:` + Subtype + `) ` + Num + `\)?)*` +
	`(?: de l'annexe(?: ` + Num + `)?| du statut annexe)?` +
	`(?: \([^)]+\))*` +
	`(?:,? (?:introduction|suite|nouveau|ancien|[Aa]nnexe|[Pp]réambule)$)?`

var numMulti1 = `(?:Annexes?,? (?:` + Num + ` )?)?(?:- )?(?:art(?:\.|icle) )?(?:` + Num + `)` +
	`(?:(?:,? à |,? et |, ?)(?:(?:art(?:\.|icle) )?(?:[Aa]nnexe )?` + Num + `|[Aa]nnexe$))+` +
	`(?:,$|, art?$)?`

var numMulti2 = `Annexes? \(` + Num + `(?:(?:,? à |,? et |, ?)` + Num + `)+\)`

var numMultiSub = `[0-9]+(?:(?: \(|, )[0-9]+-[0-9]+(?:(?:,| et) [0-9]+-[0-9]+)+\)?)$`

// NumMulti matches titles designating several articles at once.
var NumMulti = `(?:` + numMulti1 + `|` + numMulti2 + `|` + numMultiSub + `)`

var (
	numStartRe = regexp.MustCompile(`\A(?:` + Num + `)`)

	// NumExtraRe finds latin suffixes anywhere, case-insensitively.
	NumExtraRe = regexp.MustCompile(`(?i)\b(?:` + NumExtra + `)\b`)
)

// MatchMultiSub detects a title of the form "13, 13-1, 13-2" or
// "15 (15-1 et 15-2)": a base number followed by at least two aliases
// derived from it. Returns the base and the alias list.
func MatchMultiSub(num string) (base, aliases string, ok bool) {
	i := 0
	for i < len(num) && num[i] >= '0' && num[i] <= '9' {
		i++
	}
	if i == 0 {
		return "", "", false
	}
	base, rest := num[:i], num[i:]
	switch {
	case strings.HasPrefix(rest, " ("), strings.HasPrefix(rest, ", "):
		rest = rest[2:]
	default:
		return "", "", false
	}
	alias := func(s string) (string, bool) {
		if !strings.HasPrefix(s, base+"-") {
			return s, false
		}
		s = s[len(base)+1:]
		j := 0
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j == 0 {
			return s, false
		}
		return s[j:], true
	}
	s, ok := alias(rest)
	if !ok {
		return "", "", false
	}
	n := 1
	for {
		var sep int
		if strings.HasPrefix(s, ", ") {
			sep = 2
		} else if strings.HasPrefix(s, " et ") {
			sep = 4
		} else {
			break
		}
		s2, ok := alias(s[sep:])
		if !ok {
			break
		}
		s, n = s2, n+1
	}
	if n < 2 {
		return "", "", false
	}
	aliases = rest[:len(rest)-len(s)]
	if s == ")" {
		s = ""
	}
	if s != "" {
		return "", "", false
	}
	return base, aliases, true
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z'
}

// StartsWithNum reports whether s begins with a complete article
// number, i.e. one not immediately followed by more word characters.
func StartsWithNum(s string) bool {
	m := numStartRe.FindString(s)
	return m != "" && (len(m) == len(s) || !isWordByte(s[len(m)]))
}

// NumToTitle turns a raw article number into a title suitable for
// display: "1er" -> "Article 1er", "unique" -> "Article unique", but
// "Annexe" stays as-is.
func NumToTitle(num string) string {
	if num == "" {
		return num
	}
	r, _ := utf8.DecodeRuneInString(num)
	if StartsWithNum(num) || unicode.IsLower(r) {
		return "Article " + num
	}
	return num
}

// LegifranceURL returns the legifrance.gouv.fr address of an article.
func LegifranceURL(id, cid string) string {
	return "https://www.legifrance.gouv.fr/affichCodeArticle.do?idArticle=" + id + "&cidTexte=" + cid
}
