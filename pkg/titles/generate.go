package titles

import (
	"fmt"
	"strings"
	"time"

	"github.com/coolbeans/legifr/pkg/frcal"
	"github.com/coolbeans/legifr/pkg/french"
	"github.com/coolbeans/legifr/pkg/roman"
)

// GenerateTitle rebuilds a canonical title from its components. The
// nature may be an internal code ("LOI_ORGANIQUE") or a display form
// already ("Loi organique"); both resolve to the same output. Returns
// "" when the nature is missing. A Republican date is rendered in the
// Republican calendar with the Gregorian equivalent in parentheses.
// The placeholder date 2999-01-01 is treated as no date.
func GenerateTitle(annexe, nature, num, dateTexte string, calendar frcal.Calendar, autorite string) string {
	if nature == "" {
		return ""
	}
	display, ok := NatureMap[nature]
	if !ok {
		if code, ok := NatureMapRSD[french.StripDown(nature)]; ok {
			display = NatureMap[code]
		} else {
			display = french.Title(nature)
		}
	}
	var titre string
	if annexe != "" {
		titre = french.Capitalize(strings.ToLower(annexe)) + strings.ToLower(display)
	} else {
		titre = display
	}
	if autorite != "" {
		if suffix, ok := AutoriteMap[autorite]; ok {
			titre += " " + suffix
		}
	}
	if num != "" {
		titre += " n° " + num
	}
	if dateTexte != "" && dateTexte != "2999-01-01" {
		if t, err := time.Parse("2006-01-02", dateTexte); err == nil {
			gregorian := fmt.Sprintf("%d %s %d", t.Day(), frcal.MoisGreg[int(t.Month())-1], t.Year())
			if calendar == frcal.Republican {
				ry, rm, rd := frcal.GregorianToRepublican(t.Year(), t.Month(), t.Day())
				titre += " du " + rd
				if rm != "" {
					titre += " " + rm
				}
				titre += " an " + roman.ToRoman(ry)
				titre += " (" + gregorian + ")"
			} else {
				titre += " du " + gregorian
			}
			titre = strings.ReplaceAll(titre, " 1 ", " 1er ")
		}
	}
	return titre
}
