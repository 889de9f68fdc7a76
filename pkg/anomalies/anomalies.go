// Package anomalies runs read-only data-quality checks over an
// imported base: contradictory states and end dates, orphan elements,
// duplicate numbers under a section, and irregular text titles. It
// reports problems without fixing anything.
package anomalies

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/coolbeans/legifr/pkg/frcal"
	"github.com/coolbeans/legifr/pkg/french"
	"github.com/coolbeans/legifr/pkg/titles"
)

// Reporter receives one anomaly: the archive path of the offending
// element and a description.
type Reporter func(path, msg string)

// Detect runs all checks and returns the number of anomalies found.
func Detect(ctx context.Context, db *sql.DB, report Reporter) (int, error) {
	count := 0
	counting := func(path, msg string) {
		count++
		report(path, msg)
	}
	if err := dateFinEtat(ctx, db, counting); err != nil {
		return count, err
	}
	if err := orphans(ctx, db, counting); err != nil {
		return count, err
	}
	if err := sections(ctx, db, counting); err != nil {
		return count, err
	}
	if err := textesVersions(ctx, db, counting); err != nil {
		return count, err
	}
	return count, nil
}

func elementPath(dossier, cid, sousDossier, id string) string {
	return dossier + "/" + cid + "/" + sousDossier + "/" + id + ".xml"
}

// dateFinEtat flags rows whose end date contradicts their state: still
// marked in force but expired, or marked repealed with an end date well
// in the future.
func dateFinEtat(ctx context.Context, db *sql.DB, report Reporter) error {
	var lastUpdate string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM db_meta WHERE key = 'last_update'`).Scan(&lastUpdate)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	day, _, _ := strings.Cut(lastUpdate, "-")
	if len(day) != 8 {
		return fmt.Errorf("malformed last_update %q", lastUpdate)
	}
	currentDay := day[:4] + "-" + day[4:6] + "-" + day[6:]
	t, err := time.Parse("2006-01-02", currentDay)
	if err != nil {
		return fmt.Errorf("malformed last_update %q: %w", lastUpdate, err)
	}
	nearFuture := t.AddDate(0, 0, 5).Format("2006-01-02")

	for _, tb := range []struct{ table, sousDossier string }{
		{"articles", "article"},
		{"textes_versions", "texte/version"},
	} {
		rows, err := db.QueryContext(ctx, fmt.Sprintf(`
			SELECT dossier, cid, id, date_fin, etat
			  FROM %s
			 WHERE date_fin <> '2999-01-01'
			   AND ( etat LIKE 'VIGUEUR%%' AND date_fin < ? OR
			         etat NOT LIKE 'VIGUEUR%%' AND etat <> 'ABROGE_DIFF' AND date_fin > ?
			       )`, tb.table), currentDay, nearFuture)
		if err != nil {
			return err
		}
		for rows.Next() {
			var dossier, cid, id, dateFin, etat string
			if err := rows.Scan(&dossier, &cid, &id, &dateFin, &etat); err != nil {
				rows.Close()
				return err
			}
			when := "future"
			if strings.HasPrefix(etat, "VIGUEUR") {
				when = "past"
			}
			report(elementPath(dossier, cid, tb.sousDossier, id),
				fmt.Sprintf("end date %q is in the %s but the state is %q", dateFin, when, etat))
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
}

// orphans flags articles and sections that no table of contents
// references.
func orphans(ctx context.Context, db *sql.DB, report Reporter) error {
	if _, err := db.ExecContext(ctx,
		`CREATE INDEX IF NOT EXISTS sommaires_element_idx ON sommaires (element)`); err != nil {
		return err
	}
	defer db.ExecContext(ctx, `DROP INDEX IF EXISTS sommaires_element_idx`)

	for _, tb := range []struct{ table, sousDossier, msg string }{
		{"articles", "article", "orphan article, it appears in no text"},
		{"sections", "section_ta", "orphan section, it appears in no text"},
	} {
		rows, err := db.QueryContext(ctx, fmt.Sprintf(`
			SELECT dossier, cid, id
			  FROM %[1]s t
			 WHERE (SELECT count(*) FROM sommaires so WHERE so.element = t.id) = 0`, tb.table))
		if err != nil {
			return err
		}
		for rows.Next() {
			var dossier, cid, id string
			if err := rows.Scan(&dossier, &cid, &id); err != nil {
				rows.Close()
				return err
			}
			report(elementPath(dossier, cid, tb.sousDossier, id), tb.msg)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
}

// sections flags duplicate nums under one section and state mismatches
// between a table of contents and the articles it lists.
func sections(ctx context.Context, db *sql.DB, report Reporter) error {
	rows, err := db.QueryContext(ctx, `
		SELECT s.dossier, s.cid, s.id, COALESCE(so.num, ''), COALESCE(so.debut, ''),
		       COALESCE(so.etat, ''), count(*)
		  FROM sommaires so
		  JOIN sections s ON s.id = so.parent
		 WHERE COALESCE(so.etat, '') NOT LIKE 'MODIF%'
		   AND lower(COALESCE(so.num, '')) NOT LIKE 'annexe%'
	  GROUP BY s.id, so.num, so.debut, so.etat
	    HAVING count(*) > 1`)
	if err != nil {
		return err
	}
	for rows.Next() {
		var dossier, cid, id, num, debut, etat string
		var n int
		if err := rows.Scan(&dossier, &cid, &id, &num, &debut, &etat, &n); err != nil {
			rows.Close()
			return err
		}
		report(elementPath(dossier, cid, "section_ta", id),
			fmt.Sprintf("%d articles with num %q, start date %q and state %q", n, num, debut, etat))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = db.QueryContext(ctx, `
		SELECT DISTINCT s.dossier, s.cid, s.id, a.dossier, a.cid, a.id,
		       COALESCE(so.etat, ''), COALESCE(a.etat, '')
		  FROM sommaires so
		  JOIN articles a ON a.id = so.element AND COALESCE(a.etat, '') <> COALESCE(so.etat, '')
		  JOIN sections s ON s.id = so.parent`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var dossier, cid, id, aDossier, aCID, aID, soEtat, aEtat string
		if err := rows.Scan(&dossier, &cid, &id, &aDossier, &aCID, &aID, &soEtat, &aEtat); err != nil {
			return err
		}
		report(elementPath(dossier, cid, "section_ta", id),
			fmt.Sprintf("state %q does not match state %q in %s",
				soEtat, aEtat, elementPath(aDossier, aCID, "article", aID)))
	}
	return rows.Err()
}

// textesVersions re-parses the raw titles in strict mode and reports
// the inconsistencies normalization would have to repair.
func textesVersions(ctx context.Context, db *sql.DB, report Reporter) error {
	rows, err := db.QueryContext(ctx, `
		SELECT v.dossier, v.cid, b.id, COALESCE(b.titre, ''), COALESCE(b.titrefull, ''),
		       COALESCE(b.nature, ''), COALESCE(b.num, ''), COALESCE(b.date_texte, '')
		  FROM textes_versions_brutes_view b
		  JOIN textes_versions v ON v.id = b.id`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var dossier, cid, id, titre, titrefull, nature, num, dateTexte string
		if err := rows.Scan(&dossier, &cid, &id, &titre, &titrefull, &nature, &num, &dateTexte); err != nil {
			return err
		}
		path := elementPath(dossier, cid, "texte/version", id)
		checkTexteVersion(path, titre, titrefull, nature, num, dateTexte, report)
	}
	return rows.Err()
}

func checkTexteVersion(path, titre, titrefull, nature, num, dateTexte string, report Reporter) {
	if num != "" && strings.HasSuffix(num, ".") {
		report(path, fmt.Sprintf("num %q ends with a dot", num))
		num = num[:len(num)-1]
	}
	if len(titrefull) > len(titre) && titrefull[len(titre)] != ' ' &&
		strings.HasPrefix(titrefull, titre) {
		report(path, "missing space in titrefull after the titre prefix")
		titrefull = titre + " " + titrefull[len(titre):]
	}
	clean := func(col, s string) string {
		if s == "" {
			return s
		}
		s = french.SpacesRe.ReplaceAllString(strings.TrimSpace(s), " ")
		if strings.Contains(s, "constitutionel") {
			report(path, "spelling mistake in "+col+`: "constitutionel"`)
			s = strings.ReplaceAll(s, "constitutionel", "constitutionnel")
		}
		return s
	}
	titre = clean("titre", titre)
	titrefull = clean("titrefull", titrefull)
	if strings.HasSuffix(titre, " du") {
		report(path, `titre ends with "du"`)
		titre = titre[:len(titre)-3]
	}
	if len(titre) > len(titrefull) {
		report(path, "titre is longer than titrefull")
		titrefull = titre
	}
	if nature == "CODE" {
		return
	}

	r1 := titles.ParseTitle(titre, true)
	for _, a := range r1.Anomalies {
		report(path, fmt.Sprintf("%s: %q ≠ %q in titre", a.Field, a.Old, a.New))
	}
	if r1.Fields.Empty() && titre != "Annexe" || !r1.Fields.Empty() && r1.End < len(titre) {
		report(path, fmt.Sprintf("titre is irregular: %q", titre))
	}
	r2 := titles.ParseTitle(titrefull, true)
	for _, a := range r2.Anomalies {
		report(path, fmt.Sprintf("%s: %q ≠ %q in titrefull", a.Field, a.Old, a.New))
	}
	if r2.Fields.Empty() {
		report(path, fmt.Sprintf("titrefull is irregular: %q", titrefull))
	} else if r2.End < len(titrefull) && titrefull[r2.End] != ' ' {
		report(path, fmt.Sprintf("missing space in titrefull after character %d", r2.End))
	}
	if r1.Fields.Empty() && r2.Fields.Empty() {
		return
	}

	merge := func(key string, g1, g2 string, required bool) string {
		if g1 == "" && g2 == "" {
			if required {
				report(path, fmt.Sprintf("%s found neither in titre %q nor in titrefull %q", key, titre, titrefull))
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
		if key == "nature" && firstWord(g1) == firstWord(g2) {
			if len(g1) > len(g2) {
				return g1
			}
			return g2
		}
		if key == "calendar" {
			return string(frcal.Republican)
		}
		report(path, fmt.Sprintf("%s: %q (in titre) ≠ %q (in titrefull)", key, g1, g2))
		return ""
	}
	annexe := merge("annexe", r1.Fields.Annexe, r2.Fields.Annexe, false)
	natureD := strings.ToUpper(merge("nature", r1.Fields.Nature, r2.Fields.Nature, true))
	if mapped, ok := titles.NatureMapRSD[french.StripDown(natureD)]; ok {
		natureD = strings.ToUpper(mapped)
	}
	if nature != "" && natureD != "" && natureD != nature {
		report(path, fmt.Sprintf("nature: %q (detected) ≠ %q (given)", natureD, nature))
	}
	numD := merge("numero", r1.Fields.Numero, r2.Fields.Numero, false)
	if annexe != "" || !strings.Contains(numD, "-") {
		numD = ""
	}
	if numD != "" && numD != num {
		report(path, fmt.Sprintf("numero: %q (detected) ≠ %q (given)", numD, num))
		if num == "" {
			num = numD
		}
	}
	if num != "" && num == dateTexte {
		report(path, fmt.Sprintf("num equals date_texte: %q", num))
	}
	dateD := merge("date", r1.Fields.Date, r2.Fields.Date, true)
	if dateD != "" && dateD != dateTexte {
		report(path, fmt.Sprintf("date: %q (detected) ≠ %q (given)", dateD, dateTexte))
	}
	merge("calendar", string(r1.Fields.Calendar), string(r2.Fields.Calendar), true)
}

func firstWord(s string) string {
	w, _, _ := strings.Cut(s, " ")
	return w
}
