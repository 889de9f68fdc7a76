// Package sections implements the grammar for section headings:
// matching the "Titre II", "Chapitre 1er : …" part of a section title,
// normalizing the number, and reducing a title to its heading.
package sections

import (
	"regexp"
	"strings"

	"github.com/coolbeans/legifr/pkg/articles"
	"github.com/coolbeans/legifr/pkg/french"
	"github.com/coolbeans/legifr/pkg/roman"
)

// SpecialNums are the non-numeric section numbers, in canonical
// spelling.
var SpecialNums = []string{"unique", "préliminaire", "liminaire"}

var specialNumsMap = func() map[string]string {
	m := make(map[string]string, len(SpecialNums))
	for _, w := range SpecialNums {
		m[french.StripDown(w)] = w
	}
	return m
}()

var (
	specialNumsP = strings.Join(SpecialNums, "|")

	sectionNumStrict = `\b(?:(?:` + specialNumsP + `)\b|` +
		`(?:(?:` + french.OrdinalsPattern + `)\b|[0-9]+(?: ?°|\b)|0*` + roman.Pattern + `\b|0*[A-Za-z]\b)` +
		`(?:` +
		`[-./* ] ?(?:[0-9]+\b|[A-Za-z]\b|` + roman.Pattern + `\b|(?:` + articles.NumExtra + `)\b)|` +
		`\.? - [0-9]+\b` +
		`)*)`

	sectionNum = `(?i:` + french.AddAccentlessFallbacks(sectionNumStrict) + `)`

	sectionOrdStrict = `(?:` + french.Title(french.LongOrdinalsPattern) + `|` + french.ShortOrdinalsPattern + `)`

	sectionOrd = `(?i:` + french.AddAccentlessFallbacks(sectionOrdStrict) + `)`

	sectionTypeStrict = `(?:Sous[- ])*(?:` +
		`Annexes?|Appendice|Avenant|Chapitre|Division|État|Livre|Paragraphe|§|` +
		`Partie|Préambule|Section|Tableaux?|Titre` +
		`)`

	// TypePattern matches a section type word, case- and
	// accent-insensitively.
	TypePattern = `(?i:` + french.AddAccentlessFallbacks(sectionTypeStrict) + `)`

	sectionNumGroup = sectionNum + `(?: (?:et|à) ` + sectionNum + `)?`

	// Three shapes: a leading ordinal with an optional type word
	// ("Première partie"), a type word followed by a number
	// ("Titre 1er"), or a bare number ("3." or "n° 4").
	sectionRe = regexp.MustCompile(`\A(?:` +
		`(?P<ord>` + sectionOrd + ` )(?P<type>` + TypePattern + `)?` +
		`|(?P<type2>` + TypePattern + `)\s(?i:n° ?)?(?P<num>` + sectionNumGroup + `)` +
		`|(?i:n° ?)?(?P<num2>` + sectionNumGroup + `)` +
		`)` +
		`(?:` +
		`(?P<article> (?:mentionnée )?à l'article ` + articles.Num + `)|` +
		`(?P<relatif> relatif au livre ` + sectionNum + `)` +
		`)?`)

	sujetRe = regexp.MustCompile(`(?s)\A(?:` +
		`(?:[.)]\s*(?:[-:]\s+)?|\s*[-:]\s*|\s+[-:]|\s+\()(?P<sujet>.+)` +
		`|\s+(?P<sujet2>[A-ZÇÉ].*|[\p{L}\p{N}_]+ant .*)` +
		`)`)
)

func group(re *regexp.Regexp, s string, m []int, name string) string {
	i := re.SubexpIndex(name)
	if i < 0 || m[2*i] < 0 {
		return ""
	}
	return s[m[2*i]:m[2*i+1]]
}

// Match is one section heading matched at a given position.
type Match struct {
	Text       string
	Start, End int
	Ord        string
	Type       string
	Num        string
}

// MatchSection matches a section heading in s at pos. Returns nil when
// s[pos:] does not start with one.
func MatchSection(s string, pos int) *Match {
	rest := s[pos:]
	m := sectionRe.FindStringSubmatchIndex(rest)
	if m == nil {
		return nil
	}
	typ := group(sectionRe, rest, m, "type")
	if typ == "" {
		typ = group(sectionRe, rest, m, "type2")
	}
	num := group(sectionRe, rest, m, "num")
	if num == "" {
		num = group(sectionRe, rest, m, "num2")
	}
	return &Match{
		Text:  rest[:m[1]],
		Start: pos,
		End:   pos + m[1],
		Ord:   group(sectionRe, rest, m, "ord"),
		Type:  typ,
		Num:   num,
	}
}

// SujetMatch is the subject half of a section title, with the
// separator that precedes it.
type SujetMatch struct {
	Separator string
	Sujet     string
}

// MatchSujet matches the separator and subject at the start of s,
// which is the remainder of a title after its heading.
func MatchSujet(s string) *SujetMatch {
	m := sujetRe.FindStringSubmatchIndex(s)
	if m == nil {
		return nil
	}
	i := sujetRe.SubexpIndex("sujet")
	if m[2*i] < 0 {
		i = sujetRe.SubexpIndex("sujet2")
	}
	return &SujetMatch{
		Separator: s[:m[2*i]],
		Sujet:     s[m[2*i]:m[2*i+1]],
	}
}

var spaceInsideNumRe = regexp.MustCompile(roman.Pattern + `(\.? -? ?| ?- )[0-9]+`)

var ordinalRe = regexp.MustCompile(`\b(?:` + french.AddAccentlessFallbacks(french.OrdinalsPattern) + `)\b`)

// NormalizeSectionNum cleans a section number: stray spaces and dots
// inside compound numbers become a dash, ordinals get their canonical
// spelling, special numbers get their accents back.
func NormalizeSectionNum(num string) string {
	if num == "" {
		return num
	}
	if locs := spaceInsideNumRe.FindAllStringSubmatchIndex(num, -1); locs != nil {
		var b strings.Builder
		last := 0
		for _, m := range locs {
			if m[2] == m[3] {
				continue
			}
			b.WriteString(num[last:m[0]])
			b.WriteString(strings.ReplaceAll(num[m[0]:m[1]], num[m[2]:m[3]], "-"))
			last = m[1]
		}
		b.WriteString(num[last:])
		num = b.String()
	}
	num = ordinalRe.ReplaceAllStringFunc(num, french.CleanOrdinal)
	if w, ok := specialNumsMap[french.StripDown(num)]; ok {
		num = w
	}
	return num
}

// ReduceSectionTitle reduces a normalized section title to its heading:
// "Titre 1er: Dispositions générales" gives "Titre 1er". The second
// return value is false when the title has no heading at all
// ("Dispositions finales").
func ReduceSectionTitle(titre string) (string, bool) {
	m := MatchSection(titre, 0)
	if m == nil {
		return "", false
	}
	if m.End == len(titre) || MatchSujet(titre[m.End:]) != nil {
		return strings.TrimRight(m.Text, ".°"), true
	}
	return "", false
}

// LegifranceURL returns the legifrance.gouv.fr address of a section.
func LegifranceURL(id, cid string) string {
	return "https://www.legifrance.gouv.fr/affichCode.do?idSectionTA=" + id + "&cidTexte=" + cid
}
