package french

import (
	"fmt"
	"regexp"
	"strings"
)

// Ordinals is the fixed list of long-form French ordinals the grammars
// recognize, in canonical spelling.
var Ordinals = strings.Split(
	"première|premier|deuxième|seconde|second|troisième|quatrième|cinquième|"+
		"sixième|septième|huitième|neuvième|dixième|"+
		"onzième|douzième|treizième|quatorzième|quinzième|seizième", "|")

var ordinalsSDMap = func() map[string]string {
	m := make(map[string]string, len(Ordinals))
	for _, o := range Ordinals {
		m[StripDown(o)] = o
	}
	return m
}()

// Pattern fragments for ordinals, composed into the section grammar.
var (
	LongOrdinalsPattern = strings.Join(Ordinals, "|")

	shortOrdinalsStrict = `([1I])(è?re|er)|(2|II)(n?de?)|([2-9][0-9]*|[MDCLXVI]{2,})(è?me|em?)`

	// ShortOrdinalsPattern is case-sensitive by construction so that the
	// numeral keeps its original casing while both "1er" and "1ER" match.
	ShortOrdinalsPattern = "(?-i:" + shortOrdinalsStrict + "|" + strings.ToUpper(shortOrdinalsStrict) + ")"

	OrdinalsPattern = LongOrdinalsPattern + "|" + ShortOrdinalsPattern

	shortOrdinalRe = regexp.MustCompile(`\A(?:` + AddAccentlessFallbacks(ShortOrdinalsPattern) + `)\z`)
)

// CleanOrdinal returns the normalized form of a French ordinal:
// "premiere" -> "première", "1ER" -> "1er", "IIÈME" -> "IIème".
// The token must already have been matched by the ordinal pattern;
// anything else is a programming error and panics.
func CleanOrdinal(o string) string {
	if o == "" {
		return o
	}
	if m := shortOrdinalRe.FindStringSubmatch(o); m != nil {
		var parts []string
		for _, g := range m[1:] {
			if g != "" {
				parts = append(parts, g)
			}
		}
		num, suffix := parts[0], parts[1]
		return num + strings.ToLower(suffix)
	}
	c, ok := ordinalsSDMap[StripDown(o)]
	if !ok {
		panic(fmt.Sprintf("french: unrecognized ordinal %q", o))
	}
	return c
}
