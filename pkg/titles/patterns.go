package titles

import (
	"regexp"
	"strings"

	"github.com/coolbeans/legifr/pkg/frcal"
)

// Pattern vocabulary for the title grammar. Fragments are composed into
// two sequential matchers: phase 1 (annexe + nature, anchored at the
// start) and phase 2 (authority / date / number / filler, matched
// repeatedly at the current position).
const (
	jourP   = `(?P<jour>1er|[0-9]{1,2})`
	anneeP  = `(?P<annee>[0-9]{4,}|an [IVX]+)`
	ordureP = `quinquennale?`
	annexeP = `(?P<annexe>Annexe (?:au |à la |à l'|du ))`

	autoriteP = `(?P<autorite>ministériel(?:le)?|du Roi|du Conseil d'[EÉ]tat)`

	natureP       = `(?P<nature>Arr[êe]t[ée]|Code|Constitution|Convention|Décision|Déclaration|Décret(?:-loi)?|Loi(?: constitutionnelle| organique)?|Ordonnance)`
	natureStrictP = `(?P<nature>Arrêté|Code|Constitution|Convention|Décision|Déclaration|Décret(?:-loi)?|Loi(?: constitutionnelle| organique)?|Ordonnance)`

	numeroP = `(?:n° ?)?(?P<numero>[0-9]+(?:[-–][0-9]+)*(?:, ?[0-9]+(?:-[0-9]+)*)*(?: et autres)?)\.?`
)

var (
	moisAlt = strings.Join(append(append([]string{}, frcal.MoisGreg...), frcal.MoisRepu...), "|")
	moisP   = `(?P<mois>` + moisAlt + `)`

	// The source grammar ends the date with an optional redundant
	// same-year backreference; RE2 has none, so ParseTitle consumes the
	// repeated year manually after each date match.
	dateP = `(?:du )?(?P<date>(?:` + jourP + ` )?` + moisP + `(?: ` + anneeP + `)?)`

	titre1Re       = regexp.MustCompile(`(?i)\A(?:` + annexeP + `)?(?:` + natureP + `)?`)
	titre1StrictRe = regexp.MustCompile(`(?i)\A(?:` + annexeP + `)?` + natureStrictP)
	titre2Re       = regexp.MustCompile(`(?i)\A ?(?:` + autoriteP + `|\(?` + dateP + `\)?|` + numeroP + `|` + ordureP + `)`)
	titre2StrictRe = regexp.MustCompile(`(?i)\A(?: ` + autoriteP + `| \(?` + dateP + `\)?| ` + numeroP + `| ` + ordureP + `)`)

	nature2Re = regexp.MustCompile(`(?i)\A(?P<nature2> (?:constitutionnelle|organique))`)
)

// group returns the named capture from a FindStringSubmatchIndex result,
// or "" when the group did not participate.
func group(re *regexp.Regexp, s string, m []int, name string) string {
	i := re.SubexpIndex(name)
	if i < 0 || m[2*i] < 0 {
		return ""
	}
	return s[m[2*i]:m[2*i+1]]
}
