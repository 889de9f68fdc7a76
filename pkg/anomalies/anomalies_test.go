package anomalies

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coolbeans/legifr/pkg/store"
)

func TestDetect(t *testing.T) {
	d, err := store.Open(filepath.Join(t.TempDir(), "legi.sqlite"))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()
	db := d.Unwrap()

	mustExec := func(q string, args ...any) {
		t.Helper()
		if _, err := db.Exec(q, args...); err != nil {
			t.Fatal(err)
		}
	}
	mustExec(`INSERT INTO db_meta (key, value) VALUES ('last_update', '20200102-120000')`)
	// An article still in force past its end date, referenced by no text.
	mustExec(`INSERT INTO articles (id, num, etat, date_fin, dossier, cid, mtime)
	          VALUES ('LEGIARTI000000000001', '1', 'VIGUEUR', '2019-06-01', 'code', 'LEGITEXT000000000009', 1)`)
	// A clean text version.
	mustExec(`INSERT INTO textes_versions (id, titre, titrefull, nature, num, date_texte, dossier, cid, mtime)
	          VALUES ('JORFTEXT000000000002',
	                  'Loi n° 78-17 du 6 janvier 1978',
	                  'Loi n° 78-17 du 6 janvier 1978 relative à l''informatique, aux fichiers et aux libertés',
	                  'LOI', '78-17', '1978-01-06', 'JORF', 'JORFTEXT000000000002', 1)`)

	var msgs []string
	n, err := Detect(context.Background(), db, func(path, msg string) {
		msgs = append(msgs, path+": "+msg)
	})
	if err != nil {
		t.Fatal(err)
	}
	if n != len(msgs) {
		t.Errorf("count %d does not match %d reports", n, len(msgs))
	}
	joined := strings.Join(msgs, "\n")
	if !strings.Contains(joined, "end date") {
		t.Errorf("missing date/state contradiction in:\n%s", joined)
	}
	if !strings.Contains(joined, "orphan article") {
		t.Errorf("missing orphan article in:\n%s", joined)
	}
	if strings.Contains(joined, "JORFTEXT000000000002") {
		t.Errorf("clean text version reported:\n%s", joined)
	}
}
