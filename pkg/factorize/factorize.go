// Package factorize connects the versions of a text to a single
// canonical row in the textes table, by successive join keys:
// (nature, num), then NOR, then the simplified full title, then CID.
package factorize

import (
	"context"
	"database/sql"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strings"
)

// NeedsNormalization reports whether some text versions still lack
// their simplified title, meaning the normalization passes have not run
// on this database yet.
func NeedsNormalization(ctx context.Context, db *sql.DB) (bool, error) {
	var id string
	err := db.QueryRowContext(ctx,
		`SELECT id FROM textes_versions WHERE titrefull_s IS NULL LIMIT 1`).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Run factorizes the text versions. With fromScratch, existing
// connections are discarded first.
func Run(ctx context.Context, db *sql.DB, logger *slog.Logger, fromScratch bool) error {
	if logger == nil {
		logger = slog.Default()
	}
	if fromScratch {
		if _, err := db.ExecContext(ctx, `DELETE FROM textes`); err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx,
			`UPDATE textes_versions SET texte_id = NULL WHERE texte_id IS NOT NULL`); err != nil {
			return err
		}
	}

	if err := connectByNatureNum(ctx, db, logger); err != nil {
		return err
	}

	n, err := exec(ctx, db, `
		INSERT INTO textes (nature, num)
		     SELECT nature, num
		       FROM textes_versions
		      WHERE texte_id IS NULL
		        AND nature IS NOT NULL
		        AND nature <> 'DECISION'
		        AND num IS NOT NULL
		   GROUP BY nature, num`)
	if err != nil {
		return err
	}
	logger.Info("inserted rows in textes", "key", "(nature, num)", "rows", n)

	if err := connectByNatureNum(ctx, db, logger); err != nil {
		return err
	}
	if err := connectByNor(ctx, db, logger); err != nil {
		return err
	}
	if err := connectByTitrefullS(ctx, db, logger); err != nil {
		return err
	}

	n, err = exec(ctx, db, `
		INSERT INTO textes (nature, nor)
		    SELECT nature, nor
		      FROM textes_versions
		     WHERE texte_id IS NULL
		       AND nor IS NOT NULL
		  GROUP BY nor
		    HAVING min(nature) = max(nature)
		       AND min(titrefull_s) = max(titrefull_s)`)
	if err != nil {
		return err
	}
	logger.Info("inserted rows in textes", "key", "nor", "rows", n)

	n, err = exec(ctx, db, connectSQL("nor"))
	if err != nil {
		return err
	}
	logger.Info("connected textes_versions", "key", "nor", "rows", n)

	if err := factorizeBy(ctx, db, logger, "titrefull_s"); err != nil {
		return err
	}
	if err := connectByTitrefullS(ctx, db, logger); err != nil {
		return err
	}

	n, err = exec(ctx, db, `
		INSERT INTO textes (nature, titrefull_s)
		    SELECT nature, titrefull_s
		      FROM textes_versions
		     WHERE texte_id IS NULL
		  GROUP BY titrefull_s`)
	if err != nil {
		return err
	}
	logger.Info("inserted rows in textes", "key", "titrefull_s", "rows", n)

	n, err = exec(ctx, db, connectSQL("titrefull_s"))
	if err != nil {
		return err
	}
	logger.Info("connected textes_versions", "key", "titrefull_s", "rows", n)

	if err := factorizeBy(ctx, db, logger, "cid"); err != nil {
		return err
	}

	if err := checkVersionLinks(ctx, db, logger); err != nil {
		return err
	}

	n, err = exec(ctx, db, `
		DELETE FROM textes
		 WHERE NOT EXISTS (
		           SELECT 1
		             FROM textes_versions
		            WHERE texte_id = textes.id
		       )`)
	if err != nil {
		return err
	}
	logger.Info("deleted unused rows from textes", "rows", n)

	var left int
	if err := db.QueryRowContext(ctx,
		`SELECT count(*) FROM textes_versions WHERE texte_id IS NULL`).Scan(&left); err != nil {
		return err
	}
	if left != 0 {
		logger.Warn("some rows haven't been connected", "rows", left)
	} else {
		// SQLite can't drop the working columns, nullify them instead
		if _, err := db.ExecContext(ctx, `UPDATE textes SET nor = NULL, titrefull_s = NULL`); err != nil {
			return err
		}
	}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT count(*) FROM textes`).Scan(&total); err != nil {
		return err
	}
	logger.Info("factorization done", "textes", total)
	return nil
}

func exec(ctx context.Context, db *sql.DB, query string, args ...any) (int64, error) {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// connectSQL joins unconnected versions to textes on the given column.
func connectSQL(key string) string {
	return fmt.Sprintf(`
		UPDATE textes_versions
		   SET texte_id = (
		           SELECT id
		             FROM textes t
		            WHERE t.%[1]s = textes_versions.%[1]s
		       )
		 WHERE texte_id IS NULL
		   AND EXISTS (
		           SELECT id
		             FROM textes t
		            WHERE t.%[1]s = textes_versions.%[1]s
		       )`, key)
}

func connectByNatureNum(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	n, err := exec(ctx, db, `
		UPDATE textes_versions
		   SET texte_id = (
		           SELECT id
		             FROM textes t
		            WHERE t.nature = textes_versions.nature
		              AND t.num = textes_versions.num
		       )
		 WHERE texte_id IS NULL
		   AND EXISTS (
		           SELECT id
		             FROM textes t
		            WHERE t.nature = textes_versions.nature
		              AND t.num = textes_versions.num
		       )`)
	if err != nil {
		return err
	}
	logger.Info("connected textes_versions", "key", "(nature, num)", "rows", n)
	return nil
}

func connectByNor(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	_, err := db.ExecContext(ctx, `
		CREATE TEMP TABLE texte_by_nor AS
		    SELECT nor, min(texte_id) AS texte_id
		      FROM textes_versions
		     WHERE nor IS NOT NULL
		       AND texte_id IS NOT NULL
		  GROUP BY nor
		    HAVING min(nature) = max(nature)
		       AND min(num) = max(num)
		       AND min(texte_id) = max(texte_id)`)
	if err != nil {
		return err
	}
	defer db.ExecContext(ctx, `DROP TABLE texte_by_nor`)
	if _, err := db.ExecContext(ctx,
		`CREATE UNIQUE INDEX texte_by_nor_index ON texte_by_nor (nor)`); err != nil {
		return err
	}
	n, err := exec(ctx, db, `
		UPDATE textes_versions
		   SET texte_id = (
		           SELECT texte_id
		             FROM texte_by_nor t
		            WHERE t.nor = textes_versions.nor
		       )
		 WHERE texte_id IS NULL
		   AND EXISTS (
		           SELECT texte_id
		             FROM texte_by_nor t
		            WHERE t.nor = textes_versions.nor
		       )`)
	if err != nil {
		return err
	}
	logger.Info("connected textes_versions", "key", "nor", "rows", n)
	return nil
}

func connectByTitrefullS(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	_, err := db.ExecContext(ctx, `
		CREATE TEMP TABLE texte_by_titrefull_s AS
		    SELECT DISTINCT titrefull_s, texte_id
		      FROM textes_versions
		     WHERE texte_id IS NOT NULL`)
	if err != nil {
		return err
	}
	defer db.ExecContext(ctx, `DROP TABLE texte_by_titrefull_s`)
	if _, err := db.ExecContext(ctx,
		`CREATE UNIQUE INDEX texte_by_titrefull_s_index ON texte_by_titrefull_s (titrefull_s)`); err != nil {
		return err
	}
	n, err := exec(ctx, db, `
		UPDATE textes_versions
		   SET texte_id = (
		           SELECT texte_id
		             FROM texte_by_titrefull_s t
		            WHERE t.titrefull_s = textes_versions.titrefull_s
		       )
		 WHERE texte_id IS NULL
		   AND EXISTS (
		           SELECT texte_id
		             FROM texte_by_titrefull_s t
		            WHERE t.titrefull_s = textes_versions.titrefull_s
		       )`)
	if err != nil {
		return err
	}
	logger.Info("connected textes_versions", "key", "titrefull_s", "rows", n)
	return nil
}

// factorizeBy merges groups of textes that share the same key but got
// distinct ids, rewiring their versions to a fresh canonical row.
func factorizeBy(ctx context.Context, db *sql.DB, logger *slog.Logger, key string) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf(`
		SELECT min(nature), %[1]s, group_concat(texte_id)
		  FROM textes_versions
		 WHERE texte_id IS NOT NULL
	  GROUP BY %[1]s
	    HAVING min(texte_id) <> max(texte_id)
	       AND min(nature) = max(nature)`, key))
	if err != nil {
		return err
	}
	type dup struct {
		nature string
		value  string
		ids    string
	}
	var dups []dup
	for rows.Next() {
		var d dup
		if err := rows.Scan(&d.nature, &d.value, &d.ids); err != nil {
			rows.Close()
			return err
		}
		dups = append(dups, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	total, factorized := 0, 0
	for _, d := range dups {
		var uid int64
		err := db.QueryRowContext(ctx,
			`SELECT COALESCE(max(id), 0) + 1 FROM textes`).Scan(&uid)
		if err != nil {
			return err
		}
		if key == "cid" {
			_, err = db.ExecContext(ctx,
				`INSERT INTO textes (id, nature) VALUES (?, ?)`, uid, d.nature)
		} else {
			_, err = db.ExecContext(ctx, fmt.Sprintf(
				`INSERT INTO textes (id, nature, %s) VALUES (?, ?, ?)`, key),
				uid, d.nature, d.value)
		}
		if err != nil {
			return err
		}
		ids := strings.Split(d.ids, ",")
		marks := strings.Repeat(",?", len(ids))[1:]
		args := make([]any, 0, len(ids)+1)
		args = append(args, uid)
		for _, id := range ids {
			args = append(args, id)
		}
		if _, err := db.ExecContext(ctx,
			`UPDATE textes_versions SET texte_id = ? WHERE texte_id IN (`+marks+`)`, args...); err != nil {
			return err
		}
		total += len(ids)
		factorized++
	}
	logger.Info("factorized duplicates", "key", key, "duplicates", total, "uniques", factorized)
	return nil
}

// checkVersionLinks cross-checks the LIEN_TXT elements of the stored
// version metadata: two versions linked there should belong to the same
// texte.
func checkVersionLinks(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	rows, err := db.QueryContext(ctx, `
		SELECT s.id, s.versions, v.texte_id
		  FROM textes_structs s
		  JOIN textes_versions v ON v.id = s.id
		 WHERE v.texte_id IS NOT NULL`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var versionID, versions string
		var texteID int64
		if err := rows.Scan(&versionID, &versions, &texteID); err != nil {
			return err
		}
		for _, linked := range lienTxtIDs(versions) {
			var dup int64
			err := db.QueryRowContext(ctx,
				`SELECT texte_id FROM textes_versions WHERE id = ? AND texte_id <> ?`,
				linked, texteID).Scan(&dup)
			if err == sql.ErrNoRows {
				continue
			}
			if err != nil {
				return err
			}
			logger.Warn("version metadata says two textes should be one",
				"version", versionID, "texte", texteID, "other", dup)
		}
	}
	return rows.Err()
}

// lienTxtIDs extracts the id attributes of all LIEN_TXT elements from
// an XML fragment.
func lienTxtIDs(fragment string) []string {
	dec := xml.NewDecoder(strings.NewReader("<VERSIONS>" + fragment + "</VERSIONS>"))
	var ids []string
	for {
		tok, err := dec.Token()
		if err != nil {
			return ids
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "LIEN_TXT" {
			continue
		}
		for _, a := range start.Attr {
			if a.Name.Local == "id" && a.Value != "" {
				ids = append(ids, a.Value)
			}
		}
	}
}
