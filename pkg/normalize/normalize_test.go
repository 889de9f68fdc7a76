package normalize

import (
	"context"
	"strings"
	"testing"
)

func TestHasUpperWord(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"Annexe II", false},
		{"XIV", false},
		{"AOC Moulis", false},
		{"DISPOSITIONS", true},
		{"L'ÉTAT annexe", true},
		{"Tableau ANNEXE", true},
		{"Titre 1er", false},
		{"", false},
	}
	for _, c := range cases {
		if got := HasUpperWord(c.in); got != c.want {
			t.Errorf("HasUpperWord(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestChangelog(t *testing.T) {
	c := NewChangelog()
	c.Add("a", "b")
	c.Add("a", "b")
	c.Add("A", "B")
	var buf strings.Builder
	if err := c.WriteTo(&buf, "numéros d'articles"); err != nil {
		t.Fatal(err)
	}
	want := "# numéros d'articles\n'A' => 'B'\n'a' => 'b' (2×)\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
	if c.Len() != 0 {
		t.Errorf("changelog not reset, len = %d", c.Len())
	}
}

type fakeSections struct {
	rows    []SectionRow
	updated map[string]string
}

func (f *fakeSections) Sections(context.Context) ([]SectionRow, error) { return f.rows, nil }

func (f *fakeSections) UpdateSectionTitle(_ context.Context, id, titre string) error {
	if f.updated == nil {
		f.updated = make(map[string]string)
	}
	f.updated[id] = titre
	return nil
}

func TestNormalizeSectionTitles(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string // empty means no update expected
	}{
		{"uppercase type word", "TITRE PREMIER : DISPOSITIONS GENERALES", "Titre PREMIER : DISPOSITIONS GENERALES"},
		{"double space", "Chapitre II :  Dispositions diverses", "Chapitre II : Dispositions diverses"},
		{"trailing dot only trimmed", "Section 1 : De la garde à vue.", ""},
		{"trivial trim", "Titre II.", ""},
		{"already clean", "Chapitre III : Des peines", ""},
		{"missing separator", "Titre 1er Dispositions générales", "Titre 1er : Dispositions générales"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			store := &fakeSections{rows: []SectionRow{{ID: "S1", CID: "C1", TitreTA: c.in}}}
			if _, err := NormalizeSectionTitles(context.Background(), store, Options{}); err != nil {
				t.Fatal(err)
			}
			got, ok := store.updated["S1"]
			if c.want == "" {
				if ok {
					t.Errorf("unexpected update to %q", got)
				}
				return
			}
			if got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

type fakeArticles struct {
	rows    []ArticleRow
	updated map[string]string
}

func (f *fakeArticles) Articles(context.Context) ([]ArticleRow, error) { return f.rows, nil }

func (f *fakeArticles) UpdateArticleNum(_ context.Context, id, num string) error {
	if f.updated == nil {
		f.updated = make(map[string]string)
	}
	f.updated[id] = num
	return nil
}

func TestNormalizeArticleNumbers(t *testing.T) {
	cases := []struct {
		name string
		id   string
		cid  string
		in   string
		want string
		none bool
	}{
		{name: "extraneous dash", in: "ANNEXE -IV", want: "Annexe IV"},
		{name: "first word article", in: "Article L121-1", want: "L121-1"},
		{name: "garbage in standard num", in: "L. 121-1", want: "L121-1"},
		{name: "multi sub", in: "13, 13-1, 13-2", want: "13 (13-1, 13-2)"},
		{name: "annexe suffix", in: "R123-4, annexe II", want: "Annexe II à l'article R123-4"},
		{name: "emptied", in: " . ", want: ""},
		{name: "hardcoded replacement", id: "LEGIARTI000006893436", in: "ANNEXE 2", want: "Annexe II"},
		{name: "clean num", in: "L121-1", none: true},
		{name: "detected title kept", in: "TPI de Paris", none: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			id := c.id
			if id == "" {
				id = "A1"
			}
			store := &fakeArticles{rows: []ArticleRow{{ID: id, CID: c.cid, Num: c.in}}}
			if _, err := NormalizeArticleNumbers(context.Background(), store, nil, Options{}); err != nil {
				t.Fatal(err)
			}
			got, ok := store.updated[id]
			if c.none {
				if ok {
					t.Errorf("unexpected update to %q", got)
				}
				return
			}
			if !ok {
				t.Fatal("no update")
			}
			if got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

type fakeTextes struct {
	rows    []TexteRow
	updates map[string]map[string]string
	brutes  map[string]int
}

func (f *fakeTextes) TextesVersions(context.Context) ([]TexteRow, error) { return f.rows, nil }

func (f *fakeTextes) UpdateTexteVersion(_ context.Context, id string, updates map[string]string) error {
	if f.updates == nil {
		f.updates = make(map[string]map[string]string)
	}
	f.updates[id] = updates
	return nil
}

func (f *fakeTextes) SaveBrute(_ context.Context, id string, orig map[string]string, bits int) error {
	if f.brutes == nil {
		f.brutes = make(map[string]int)
	}
	f.brutes[id] = bits
	return nil
}

func TestNormalizeTextTitles(t *testing.T) {
	row := TexteRow{ID: "T1"}
	row.Titre = "LOI n° 2006-1666 du 21 décembre 2006 de finances pour 2007"
	row.Titrefull = row.Titre
	row.Nature = "LOI"
	row.Num = "2006-1666"
	row.DateTexte = "2006-12-21"
	store := &fakeTextes{rows: []TexteRow{row}}
	counts, err := NormalizeTextTitles(context.Background(), store, Options{})
	if err != nil {
		t.Fatal(err)
	}
	up := store.updates["T1"]
	if up == nil {
		t.Fatal("no update")
	}
	want := "Loi n° 2006-1666 du 21 décembre 2006 de finances pour 2007"
	if up["titre"] != want {
		t.Errorf("titre = %q, want %q", up["titre"], want)
	}
	if up["titrefull"] != want {
		t.Errorf("titrefull = %q, want %q", up["titrefull"], want)
	}
	if _, ok := up["nature"]; ok {
		t.Error("nature should not change")
	}
	if bits := store.brutes["T1"]; bits != 2|4 {
		t.Errorf("bits = %d, want %d", bits, 2|4)
	}
	if counts["updated titre"] != 1 || counts["updated titrefull"] != 1 {
		t.Errorf("counts = %v", counts)
	}
}

type fakeSommaires struct{ articles, sections int64 }

func (f *fakeSommaires) SyncArticleNums(context.Context) (int64, error) { return f.articles, nil }
func (f *fakeSommaires) SyncSectionNums(context.Context) (int64, error) { return f.sections, nil }

func TestNormalizeSommaireNums(t *testing.T) {
	counts, err := NormalizeSommaireNums(context.Background(), &fakeSommaires{articles: 3, sections: 2}, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if counts["updated num for article"] != 3 || counts["updated num for section"] != 2 {
		t.Errorf("counts = %v", counts)
	}
	counts, err = NormalizeSommaireNums(context.Background(), &fakeSommaires{articles: 3}, Options{DryRun: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 0 {
		t.Errorf("dry run wrote: %v", counts)
	}
}
