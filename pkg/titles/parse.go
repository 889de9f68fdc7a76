package titles

import (
	"strings"

	"github.com/coolbeans/legifr/pkg/frcal"
	"github.com/coolbeans/legifr/pkg/french"
)

// Fields holds the semantic components extracted from a title. Empty
// strings mean "not present".
type Fields struct {
	Annexe   string
	Nature   string
	Autorite string
	Date     string
	Numero   string
	Calendar frcal.Calendar
}

// Empty reports whether no component was extracted at all.
func (f *Fields) Empty() bool {
	return f.Annexe == "" && f.Nature == "" && f.Autorite == "" &&
		f.Date == "" && f.Numero == "" && f.Calendar == ""
}

func (f *Fields) get(k string) string {
	switch k {
	case "annexe":
		return f.Annexe
	case "nature":
		return f.Nature
	case "autorite":
		return f.Autorite
	case "date":
		return f.Date
	case "numero":
		return f.Numero
	case "calendar":
		return string(f.Calendar)
	}
	return ""
}

func (f *Fields) set(k, v string) {
	switch k {
	case "annexe":
		f.Annexe = v
	case "nature":
		f.Nature = v
	case "autorite":
		f.Autorite = v
	case "date":
		f.Date = v
	case "numero":
		f.Numero = v
	case "calendar":
		f.Calendar = frcal.Calendar(v)
	}
}

// Anomaly records two contradictory captures of the same field within a
// single title. The field is dropped from the parse result.
type Anomaly struct {
	Title string
	Field string
	Old   string
	New   string
}

// ParseResult is the outcome of ParseTitle: the extracted fields, the
// byte offset where matching stopped, and any intra-title conflicts.
type ParseResult struct {
	Fields    Fields
	End       int
	Anomalies []Anomaly
}

// ParseTitle decomposes a title into its semantic fields. Matching is
// two-phase: an anchored prefix (annex marker, nature) followed by a
// loop accepting authority, date, number and known filler tokens in any
// order. End is where the loop stopped; the remainder of the title is
// the free-text suffix.
//
// Merge policy when a field is captured twice: identical values (after
// accent/case stripping) are collapsed; a short number equal to either
// side of a longer hyphenated one yields to the longer; calendar keeps
// the first capture; anything else is reported as an Anomaly and the
// field is cleared for the rest of the parse.
//
// In strict mode the nature must be present, correctly accented, and
// every later token must be preceded by a space.
func ParseTitle(title string, strict bool) ParseResult {
	re1 := titre1Re
	if strict {
		re1 = titre1StrictRe
	}
	m := re1.FindStringSubmatchIndex(title)
	if m == nil {
		return ParseResult{}
	}

	var res ParseResult
	d := &res.Fields
	d.Annexe = group(re1, title, m, "annexe")
	d.Nature = group(re1, title, m, "nature")
	pos := m[1]

	duplicates := make(map[string]bool)
	re2 := titre2Re
	if strict {
		re2 = titre2StrictRe
	}
	for {
		rest := title[pos:]
		m2 := re2.FindStringSubmatchIndex(rest)
		if m2 == nil {
			// "Loi" followed directly by its qualifier, e.g. when the
			// nature pattern stopped before "organique".
			if french.StripDown(d.Nature) == "loi" {
				if m3 := nature2Re.FindStringSubmatchIndex(rest); m3 != nil {
					d.Nature += group(nature2Re, rest, m3, "nature2")
					pos += m3[1]
				}
			}
			res.End = pos
			return res
		}
		pos += m2[1]

		groups := make(map[string]string, 4)
		if v := group(re2, rest, m2, "autorite"); v != "" {
			groups["autorite"] = v
		}
		if date := group(re2, rest, m2, "date"); date != "" {
			annee := group(re2, rest, m2, "annee")
			iso, cal := frcal.ConvertDateToISO(
				group(re2, rest, m2, "jour"),
				group(re2, rest, m2, "mois"),
				annee,
			)
			groups["date"] = iso
			groups["calendar"] = string(cal)
			// Some titles repeat the year right after the date
			// ("du 4 nivôse an VIII 1799"); swallow the repetition.
			if annee != "" && strings.HasPrefix(title[pos:], " "+annee) {
				pos += 1 + len(annee)
			}
		}
		if v := group(re2, rest, m2, "numero"); v != "" {
			groups["numero"] = strings.ReplaceAll(v, "–", "-")
		}

		for _, k := range [...]string{"autorite", "date", "numero", "calendar"} {
			v := groups[k]
			if v == "" || duplicates[k] {
				continue
			}
			cur := d.get(k)
			if cur == "" {
				d.set(k, v)
				continue
			}
			if cur == v || french.StripDown(cur) == french.StripDown(v) {
				continue
			}
			if k == "numero" {
				a, b := cur, v
				if len(a) > len(b) {
					a, b = b, a
				}
				if x, y, ok := strings.Cut(b, "-"); ok && (a == x || a == y) {
					d.set(k, b)
					continue
				}
			}
			if k == "calendar" {
				continue
			}
			res.Anomalies = append(res.Anomalies, Anomaly{Title: title, Field: k, Old: cur, New: v})
			duplicates[k] = true
			d.set(k, "")
		}
	}
}
