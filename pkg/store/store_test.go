package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/coolbeans/legifr/pkg/normalize"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "legi.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestOpenCreatesSchema(t *testing.T) {
	d := openTestDB(t)
	var v int
	err := d.Unwrap().QueryRow(`SELECT value FROM db_meta WHERE key = 'schema_version'`).Scan(&v)
	if err != nil {
		t.Fatal(err)
	}
	if v != schemaVersion {
		t.Errorf("schema_version = %d, want %d", v, schemaVersion)
	}
}

func TestNormalizeEndToEnd(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	sqlDB := d.Unwrap()

	mustExec := func(q string, args ...any) {
		t.Helper()
		if _, err := sqlDB.Exec(q, args...); err != nil {
			t.Fatal(err)
		}
	}
	mustExec(`INSERT INTO textes_versions (id, nature, titre, titrefull, titrefull_s, num, date_texte, dossier, cid, mtime)
	          VALUES ('JORFTEXT000000000001', 'LOI',
	                  'LOI n° 2006-1666 du 21 décembre 2006 de finances pour 2007',
	                  'LOI n° 2006-1666 du 21 décembre 2006 de finances pour 2007',
	                  '', '2006-1666', '2006-12-21', 'JORF', 'JORFTEXT000000000001', 1)`)
	mustExec(`INSERT INTO sections (id, titre_ta, dossier, cid, mtime)
	          VALUES ('LEGISCTA000000000001', 'Titre 1er Dispositions générales', 'code', 'LEGITEXT000000000009', 1)`)
	mustExec(`INSERT INTO articles (id, num, dossier, cid, mtime)
	          VALUES ('LEGIARTI000000000001', 'Article L121-1', 'code', 'LEGITEXT000000000009', 1)`)
	mustExec(`INSERT INTO sommaires (cid, element, num) VALUES ('LEGITEXT000000000009', 'LEGIARTI000000000001', 'old')`)
	mustExec(`INSERT INTO sommaires (cid, element, num) VALUES ('LEGITEXT000000000009', 'LEGISCTA000000000001', NULL)`)

	if _, err := normalize.NormalizeTextTitles(ctx, d, normalize.Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := normalize.NormalizeSectionTitles(ctx, d, normalize.Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := normalize.NormalizeArticleNumbers(ctx, d, d, normalize.Options{}); err != nil {
		t.Fatal(err)
	}
	if _, err := normalize.NormalizeSommaireNums(ctx, d, normalize.Options{}); err != nil {
		t.Fatal(err)
	}

	var titre string
	if err := sqlDB.QueryRow(`SELECT titre FROM textes_versions WHERE id = 'JORFTEXT000000000001'`).Scan(&titre); err != nil {
		t.Fatal(err)
	}
	if want := "Loi n° 2006-1666 du 21 décembre 2006 de finances pour 2007"; titre != want {
		t.Errorf("titre = %q, want %q", titre, want)
	}
	var bits int
	if err := sqlDB.QueryRow(`SELECT bits FROM textes_versions_brutes WHERE id = 'JORFTEXT000000000001'`).Scan(&bits); err != nil {
		t.Fatal(err)
	}
	if bits != 2|4 {
		t.Errorf("bits = %d, want %d", bits, 2|4)
	}

	var titreTA string
	if err := sqlDB.QueryRow(`SELECT titre_ta FROM sections WHERE id = 'LEGISCTA000000000001'`).Scan(&titreTA); err != nil {
		t.Fatal(err)
	}
	if want := "Titre 1er : Dispositions générales"; titreTA != want {
		t.Errorf("titre_ta = %q, want %q", titreTA, want)
	}

	var num string
	if err := sqlDB.QueryRow(`SELECT num FROM articles WHERE id = 'LEGIARTI000000000001'`).Scan(&num); err != nil {
		t.Fatal(err)
	}
	if num != "L121-1" {
		t.Errorf("article num = %q, want %q", num, "L121-1")
	}

	var artNum, sctNum string
	if err := sqlDB.QueryRow(`SELECT num FROM sommaires WHERE element = 'LEGIARTI000000000001'`).Scan(&artNum); err != nil {
		t.Fatal(err)
	}
	if artNum != "L121-1" {
		t.Errorf("sommaire article num = %q, want %q", artNum, "L121-1")
	}
	if err := sqlDB.QueryRow(`SELECT num FROM sommaires WHERE element = 'LEGISCTA000000000001'`).Scan(&sctNum); err != nil {
		t.Fatal(err)
	}
	if sctNum != "Titre 1er" {
		t.Errorf("sommaire section num = %q, want %q", sctNum, "Titre 1er")
	}
}

func TestBrutesViewRoundTrip(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	mustExec := func(q string, args ...any) {
		t.Helper()
		if _, err := d.Unwrap().Exec(q, args...); err != nil {
			t.Fatal(err)
		}
	}
	mustExec(`INSERT INTO textes_versions (id, titre, num, dossier, cid, mtime)
	          VALUES ('T1', 'nouveau', 'n-1', 'JORF', 'T1', 7)`)
	if err := d.SaveBrute(ctx, "T1", map[string]string{"titre": "ancien"}, 2); err != nil {
		t.Fatal(err)
	}
	rows, err := d.TextesVersions(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows", len(rows))
	}
	if rows[0].Titre != "ancien" {
		t.Errorf("view titre = %q, want %q", rows[0].Titre, "ancien")
	}
	if rows[0].Num != "n-1" {
		t.Errorf("view num = %q, want %q", rows[0].Num, "n-1")
	}
}
