// Package titles implements the grammar for French legal text titles:
// decomposing a free-text title into semantic fields (nature, authority,
// number, date, calendar, annex flag), reconciling two independently
// extracted title variants, and regenerating a canonical title string.
package titles

import "github.com/coolbeans/legifr/pkg/french"

// AutoriteMap maps issuing-authority codes to their display suffix.
var AutoriteMap = map[string]string{
	"CONSEIL D'ETAT": "du Conseil d'État",
	"ROI":            "du Roi",
}

// NatureMap maps internal text-kind codes to their display form.
// Natures whose display form equals the title-cased code (Code, Loi,
// Constitution, Convention, Ordonnance) are not listed.
var NatureMap = map[string]string{
	"ARRETE":        "Arrêté",
	"DECISION":      "Décision",
	"DECLARATION":   "Déclaration",
	"DECRET":        "Décret",
	"DECRET_LOI":    "Décret-loi",
	"LOI_CONSTIT":   "Loi constitutionnelle",
	"LOI_ORGANIQUE": "Loi organique",
}

// NatureMapRSD maps the accent-stripped lowercase display form back to
// the internal code: "loi organique" -> "LOI_ORGANIQUE".
var NatureMapRSD = func() map[string]string {
	m := make(map[string]string, len(NatureMap))
	for code, display := range NatureMap {
		m[french.StripDown(display)] = code
	}
	return m
}()
