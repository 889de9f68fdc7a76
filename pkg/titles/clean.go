package titles

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coolbeans/legifr/pkg/french"
)

var (
	numeroSpaceRe   = regexp.MustCompile(`n°(\S)`)
	premierDuMoisRe *regexp.Regexp
)

func init() {
	premierDuMoisRe = regexp.MustCompile(`\b1 (` + moisAlt + `) ` + `([0-9]{4,}|an [IVX]+)`)
}

// CleanTitle applies the surface-level repairs every title gets before
// parsing: whitespace collapsing, trailing dots, a space after "n°",
// "1 janvier" -> "1er janvier", initial capitalization, and the common
// "constitutionel" misspelling.
func CleanTitle(title string) string {
	if title == "" {
		return title
	}
	title = french.SpacesRe.ReplaceAllString(strings.TrimSpace(title), " ")
	title = strings.TrimRight(strings.TrimRight(title, "."), " ")
	title = numeroSpaceRe.ReplaceAllString(title, "n° $1")
	title = premierDuMoisRe.ReplaceAllString(title, "1er $1 $2")
	r, size := utf8.DecodeRuneInString(title)
	if unicode.IsLower(r) {
		title = string(unicode.ToUpper(r)) + title[size:]
	} else {
		first, rest := title, ""
		if i := strings.IndexByte(title, ' '); i >= 0 {
			first, rest = title[:i], title[i:]
		}
		if french.IsUpper(first) {
			title = french.Title(first) + rest
		}
	}
	return strings.ReplaceAll(title, "constitutionel", "constitutionnel")
}
