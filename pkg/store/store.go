// Package store is the SQLite persistence layer. It implements the row
// sources and update sinks the normalization passes work through, plus
// the raw handle the batch queries of factorize and anomalies need.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"sort"
	"strings"

	"modernc.org/sqlite"

	"github.com/coolbeans/legifr/pkg/normalize"
	"github.com/coolbeans/legifr/pkg/sections"
)

func init() {
	sqlite.MustRegisterDeterministicScalarFunction("reduce_section_title", 1,
		func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			s, ok := args[0].(string)
			if !ok {
				return nil, nil
			}
			titre, ok := sections.ReduceSectionTitle(s)
			if !ok {
				return nil, nil
			}
			return titre, nil
		})
}

// DB wraps an open SQLite database holding a LEGI dump.
type DB struct {
	sql *sql.DB
}

// Open opens the database at path, creating the schema when the file is
// new.
func Open(path string) (*DB, error) {
	h, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	d := &DB{sql: h}
	if err := d.ensureSchema(); err != nil {
		h.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return d, nil
}

func (d *DB) ensureSchema() error {
	var n int
	err := d.sql.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'db_meta'`).Scan(&n)
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := d.sql.Exec(schema); err != nil {
			return err
		}
		_, err := d.sql.Exec(`INSERT INTO db_meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
		return err
	}
	var v int
	err = d.sql.QueryRow(`SELECT value FROM db_meta WHERE key = 'schema_version'`).Scan(&v)
	if err == sql.ErrNoRows {
		_, err = d.sql.Exec(`INSERT INTO db_meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
		return err
	}
	if err != nil {
		return err
	}
	if v > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than this build supports (%d)", v, schemaVersion)
	}
	return nil
}

// Close closes the underlying database.
func (d *DB) Close() error { return d.sql.Close() }

// Unwrap exposes the raw handle for batch queries.
func (d *DB) Unwrap() *sql.DB { return d.sql }

// TextesVersions returns every text version, with the original values
// of already-normalized columns substituted back in.
func (d *DB) TextesVersions(ctx context.Context) ([]normalize.TexteRow, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT id,
		       COALESCE(titre, ''), COALESCE(titrefull, ''), COALESCE(titrefull_s, ''),
		       COALESCE(nature, ''), COALESCE(num, ''),
		       COALESCE(date_texte, ''), COALESCE(autorite, '')
		  FROM textes_versions_brutes_view`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []normalize.TexteRow
	for rows.Next() {
		var r normalize.TexteRow
		err := rows.Scan(&r.ID, &r.Titre, &r.Titrefull, &r.TitrefullS,
			&r.Nature, &r.Num, &r.DateTexte, &r.Autorite)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateTexteVersion writes the given columns of one text version.
func (d *DB) UpdateTexteVersion(ctx context.Context, id string, updates map[string]string) error {
	if len(updates) == 0 {
		return nil
	}
	cols := make([]string, 0, len(updates))
	for c := range updates {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = c + " = NULLIF(?, '')"
		args = append(args, updates[c])
	}
	args = append(args, id)
	_, err := d.sql.ExecContext(ctx,
		"UPDATE textes_versions SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	return err
}

var bruteCols = []string{"nature", "titre", "titrefull", "autorite", "num", "date_texte"}

// SaveBrute archives the original values of the columns identified by
// bits, keyed to the dump the row came from.
func (d *DB) SaveBrute(ctx context.Context, id string, orig map[string]string, bits int) error {
	var dossier, cid string
	var mtime int64
	err := d.sql.QueryRowContext(ctx,
		`SELECT dossier, cid, mtime FROM textes_versions WHERE id = ?`, id).
		Scan(&dossier, &cid, &mtime)
	if err != nil {
		return err
	}
	args := []any{id, bits}
	for _, c := range bruteCols {
		if v, ok := orig[c]; ok {
			args = append(args, v)
		} else {
			args = append(args, nil)
		}
	}
	args = append(args, dossier, cid, mtime)
	_, err = d.sql.ExecContext(ctx, `
		INSERT OR REPLACE INTO textes_versions_brutes
		    (id, bits, nature, titre, titrefull, autorite, num, date_texte, dossier, cid, mtime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...)
	return err
}

// Sections returns every section row.
func (d *DB) Sections(ctx context.Context) ([]normalize.SectionRow, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, cid, COALESCE(titre_ta, '') FROM sections`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []normalize.SectionRow
	for rows.Next() {
		var r normalize.SectionRow
		if err := rows.Scan(&r.ID, &r.CID, &r.TitreTA); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateSectionTitle writes the titre_ta of one section.
func (d *DB) UpdateSectionTitle(ctx context.Context, id, titre string) error {
	_, err := d.sql.ExecContext(ctx,
		`UPDATE sections SET titre_ta = ? WHERE id = ?`, titre, id)
	return err
}

// Articles returns every article with a non-empty num.
func (d *DB) Articles(ctx context.Context) ([]normalize.ArticleRow, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, cid, num FROM articles WHERE length(num) > 0`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []normalize.ArticleRow
	for rows.Next() {
		var r normalize.ArticleRow
		if err := rows.Scan(&r.ID, &r.CID, &r.Num); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// UpdateArticleNum writes the num of one article.
func (d *DB) UpdateArticleNum(ctx context.Context, id, num string) error {
	_, err := d.sql.ExecContext(ctx,
		`UPDATE articles SET num = ? WHERE id = ?`, num, id)
	return err
}

// ArticleBody returns the HTML content of one article.
func (d *DB) ArticleBody(ctx context.Context, id string) (string, error) {
	var html string
	err := d.sql.QueryRowContext(ctx,
		`SELECT COALESCE(bloc_textuel, '') FROM articles WHERE id = ?`, id).Scan(&html)
	return html, err
}

// UpdateArticleBody writes the HTML content of one article.
func (d *DB) UpdateArticleBody(ctx context.Context, id, html string) error {
	_, err := d.sql.ExecContext(ctx,
		`UPDATE articles SET bloc_textuel = ? WHERE id = ?`, html, id)
	return err
}

// SyncArticleNums copies the normalized article nums into the tables of
// contents.
func (d *DB) SyncArticleNums(ctx context.Context) (int64, error) {
	res, err := d.sql.ExecContext(ctx, `
		UPDATE sommaires AS so
		   SET num = (
		           SELECT a.num
		             FROM articles a
		            WHERE a.id = so.element
		       )
		 WHERE substr(so.element, 5, 4) = 'ARTI'
		   AND COALESCE(so.num, '') <> (
		           SELECT COALESCE(a.num, '')
		             FROM articles a
		            WHERE a.id = so.element
		       )`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SyncSectionNums copies the reduced section headings into the tables
// of contents.
func (d *DB) SyncSectionNums(ctx context.Context) (int64, error) {
	res, err := d.sql.ExecContext(ctx, `
		UPDATE sommaires AS so
		   SET num = (
		           SELECT reduce_section_title(s.titre_ta)
		             FROM sections s
		            WHERE s.id = so.element
		       )
		 WHERE substr(so.element, 5, 4) = 'SCTA'
		   AND COALESCE(so.num, '') <> (
		           SELECT COALESCE(reduce_section_title(s.titre_ta), '')
		             FROM sections s
		            WHERE s.id = so.element
		       )`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
