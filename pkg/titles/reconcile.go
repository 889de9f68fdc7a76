package titles

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coolbeans/legifr/pkg/frcal"
	"github.com/coolbeans/legifr/pkg/french"
)

// Record is the title-bearing metadata of one text version.
type Record struct {
	Titre      string
	Titrefull  string
	TitrefullS string
	Nature     string
	Num        string
	DateTexte  string
	Autorite   string
}

// Result is the outcome of reconciling a Record. Record holds the
// values to persist; they equal the input values wherever nothing
// changed. Anomaly is set when the two titles (or a title and the
// stored metadata) contradict each other, in which case the titles are
// cleaned but not regenerated. Counts carries the bookkeeping keys the
// caller aggregates, Warnings the human-readable diagnostics.
type Result struct {
	Record   Record
	Anomaly  bool
	Counts   []string
	Warnings []string
}

func (r *Result) count(k string) { r.Counts = append(r.Counts, k) }

func (r *Result) warnf(format string, a ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, a...))
}

func countUpper(s string) (n int) {
	for _, r := range s {
		if unicode.IsUpper(r) {
			n++
		}
	}
	return n
}

func firstSegment(s, sep string) string {
	head, _, _ := strings.Cut(s, sep)
	return head
}

// Reconcile normalizes the short and full titles of a text version and
// cross-checks them against each other and against the stored nature,
// number, date and authority. When everything agrees, the short title
// is regenerated from the reconciled components and the full title is
// rebuilt as that plus its free-text suffix. Codes keep their titles
// as-is apart from the surface cleanup.
func Reconcile(in Record) Result {
	var res Result
	titre, titrefull, nature := in.Titre, in.Titrefull, in.Nature
	num, dateTexte, autorite := in.Num, in.DateTexte, in.Autorite
	// num may be adjusted locally (annex case) without being persisted;
	// numStored tracks the value that actually goes back to the row.
	numStored := num

	// The full title sometimes glues its suffix straight onto the short
	// title without a space.
	if len(titrefull) > len(titre) && strings.HasPrefix(titrefull, titre) && titrefull[len(titre)] != ' ' {
		titrefull = titre + " " + titrefull[len(titre):]
	}
	titre, titrefull = CleanTitle(titre), CleanTitle(titrefull)

	if !strings.HasPrefix(titrefull, titre) {
		tf, t := []rune(titrefull), []rune(titre)
		n := len(t)
		switch {
		case n > len(tf):
			titrefull = titre
		case french.NonwordRe.ReplaceAllString(titrefull, "") == french.NonwordRe.ReplaceAllString(titre, ""):
			titre = titrefull
		case french.StripDown(titre) == french.StripDown(string(tf[:n])):
			// Same text, different casing: prefer the variant that is
			// not stuck in uppercase.
			hasUpper1 := french.UpperWordsPercentage(titre) > 0
			hasUpper2 := french.UpperWordsPercentage(string(tf[:n])) > 0
			if hasUpper1 != hasUpper2 {
				if hasUpper1 {
					titre = string(tf[:n])
				} else {
					titrefull = titre + string(tf[n:])
				}
			} else if !hasUpper1 {
				nUpper1 := countUpper(titre)
				nUpper2 := countUpper(titrefull)
				if nUpper1 > nUpper2 {
					titrefull = titre + string(tf[n:])
				} else if nUpper2 > nUpper1 {
					titre = string(tf[:n])
				}
			}
		}
	}
	if french.UpperWordsPercentage(titre) > 0.2 {
		res.count("failed to normalize titre (still uppercase)")
		res.warnf("échec: titre %q contient beaucoup de mots en majuscule", titre)
	}

	if nature != "CODE" {
		r1 := ParseTitle(titre, false)
		r2 := ParseTitle(titrefull, false)
		for _, a := range append(append([]Anomaly(nil), r1.Anomalies...), r2.Anomalies...) {
			res.warnf("incohérence: %s: %q ≠ %q dans: %q", a.Field, a.Old, a.New, a.Title)
			res.Anomaly = true
		}
		if r1.Fields.Empty() && titre != "Annexe" {
			res.warnf("échec: aucun champ extrait du titre %q", titre)
		} else if !r1.Fields.Empty() && r1.End < len(titre) {
			res.warnf("échec: analyse partielle du titre %q (arrêt à %d)", titre, r1.End)
		}
		if r2.Fields.Empty() {
			res.warnf("échec: aucun champ extrait du titrefull %q", titrefull)
		}
		if !r1.Fields.Empty() || !r2.Fields.Empty() {
			d1, d2 := &r1.Fields, &r2.Fields
			getKey := func(key string, ignoreNotFound bool) string {
				g1, g2 := d1.get(key), d2.get(key)
				if g1 == "" && g2 == "" {
					if !ignoreNotFound {
						res.warnf("échec: %s trouvé ni dans %q (titre) ni dans %q (titrefull)", key, titre, titrefull)
						res.Anomaly = true
					}
					return ""
				}
				if g1 == "" {
					return g2
				}
				if g2 == "" {
					return g1
				}
				if french.StripDown(g1) == french.StripDown(g2) {
					return g1
				}
				if key == "nature" && firstSegment(g1, " ") == firstSegment(g2, " ") {
					if len(g1) > len(g2) {
						return g1
					}
					return g2
				}
				if key == "calendar" {
					return string(frcal.Republican)
				}
				res.warnf("incohérence: %s: %q (titre) ≠ %q (titrefull)", key, g1, g2)
				res.Anomaly = true
				return ""
			}

			annexe := getKey("annexe", true)
			natureComplete := getKey("nature", false)
			natureD := french.StripDown(natureComplete)
			if code, ok := NatureMapRSD[natureD]; ok {
				natureD = code
			}
			natureD = firstSegment(strings.ToUpper(natureD), " ")
			if natureD != "" && natureD != nature {
				if nature == "" {
					nature = natureD
				} else if firstSegment(natureD, "_") == firstSegment(nature, "_") {
					if len(natureD) > len(nature) {
						nature = natureD
					}
				} else {
					res.warnf("incohérence: nature: %q (détectée) ≠ %q (donnée)", natureD, nature)
					res.Anomaly = true
				}
			}

			if numD := getKey("numero", true); numD != "" && numD != num && numD != dateTexte {
				if num == "" || num[0] < '0' || num[0] > '9' {
					if annexe != "" {
						// Don't give a decree's number to its annex, but
						// don't remove it from the title either.
						num = numD
					} else if strings.Contains(numD, "-") || nature == "DECISION" {
						num, numStored = numD, numD
						res.count("updated num")
					}
				} else if strings.HasSuffix(num, ".") && strings.TrimSuffix(num, ".") == numD {
					num, numStored = numD, numD
					res.count("updated num")
				} else {
					res.warnf("incohérence: numéro: %q (détecté) ≠ %q (donné)", numD, num)
					res.Anomaly = true
				}
			}

			dateTexteD := getKey("date", false)
			calendar := getKey("calendar", false)
			if dateTexteD != "" {
				if dateTexte == "" || dateTexte == "2999-01-01" {
					dateTexte = dateTexteD
					res.count("updated date_texte")
				} else if dateTexteD != dateTexte {
					res.warnf("incohérence: date: %q (détectée) ≠ %q (donnée)", dateTexteD, dateTexte)
					res.Anomaly = true
				}
			}

			if autoriteD := getKey("autorite", true); autoriteD != "" {
				autoriteD = french.StripDown(autoriteD)
				if !strings.HasPrefix(autoriteD, "ministeriel") {
					autoriteD = strings.ToUpper(french.StripPrefix(autoriteD, "du "))
					if autorite == "" {
						autorite = autoriteD
						res.count("updated autorite")
					} else if autorite != autoriteD {
						res.warnf("incohérence: autorité: %q (détectée) ≠ %q (donnée)", autoriteD, autorite)
						res.Anomaly = true
					}
				}
			}

			if !res.Anomaly {
				titre = GenerateTitle(annexe, natureComplete, num, dateTexte, frcal.Calendar(calendar), autorite)
				suffix := titrefull[r2.End:]
				if suffix != "" {
					if r, _ := utf8.DecodeRuneInString(suffix); unicode.IsLetter(r) || unicode.IsNumber(r) {
						suffix = " " + suffix
					}
				}
				titrefull = titre + suffix
				if num != "" && strings.Count(titrefull, num) != 1 {
					res.warnf("échec: num apparaît %d fois dans le titrefull %q", strings.Count(titrefull, num), titrefull)
				}
			}
		}
	}

	if titrefull != titre && french.UpperWordsPercentage(titrefull) > 0.5 {
		res.count("detected a bad titrefull (uppercase)")
	}
	if replaced := french.ReplaceQuotes(titrefull); replaced != titrefull {
		titrefull = replaced
		res.count("normalized quotes in titrefull")
	}

	res.Record = Record{
		Titre:      titre,
		Titrefull:  titrefull,
		TitrefullS: french.FilterNonAlnum(titrefull),
		Nature:     nature,
		Num:        numStored,
		DateTexte:  dateTexte,
		Autorite:   autorite,
	}
	return res
}
