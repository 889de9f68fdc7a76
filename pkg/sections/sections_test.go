package sections

import "testing"

func TestMatchSection(t *testing.T) {
	cases := []struct {
		title                string
		wantText             string
		ord, typ, num        string
	}{
		{"Titre 1er : Dispositions générales", "Titre 1er", "", "Titre", "1er"},
		{"Première partie", "Première partie", "Première ", "partie", ""},
		{"Chapitre III : Des dispositions", "Chapitre III", "", "Chapitre", "III"},
		{"Section 2", "Section 2", "", "Section", "2"},
		{"Sous-section 8", "Sous-section 8", "", "Sous-section", "8"},
		{"TITRE PREMIER", "TITRE PREMIER", "", "TITRE", "PREMIER"},
		{"Titre préliminaire : Principes", "Titre préliminaire", "", "Titre", "préliminaire"},
		{"3. Des peines", "3", "", "", "3"},
	}
	for _, c := range cases {
		t.Run(c.title, func(t *testing.T) {
			m := MatchSection(c.title, 0)
			if m == nil {
				t.Fatal("no match")
			}
			if m.Text != c.wantText {
				t.Errorf("text = %q, want %q", m.Text, c.wantText)
			}
			if m.Ord != c.ord || m.Type != c.typ || m.Num != c.num {
				t.Errorf("groups = (%q, %q, %q), want (%q, %q, %q)",
					m.Ord, m.Type, m.Num, c.ord, c.typ, c.num)
			}
		})
	}
	if m := MatchSection("Dispositions finales", 0); m != nil {
		t.Errorf("matched %q inside plain prose", m.Text)
	}
}

func TestMatchSujet(t *testing.T) {
	cases := []struct {
		in        string
		separator string
		sujet     string
	}{
		{" : Dispositions générales", " : ", "Dispositions générales"},
		{". - Du louage", ". - ", "Du louage"},
		{" - Objet", " - ", "Objet"},
		{" Des peines", " ", "Des peines"},
		{" portant diverses mesures", " ", "portant diverses mesures"},
	}
	for _, c := range cases {
		m := MatchSujet(c.in)
		if m == nil {
			t.Errorf("MatchSujet(%q) = nil", c.in)
			continue
		}
		if m.Separator != c.separator || m.Sujet != c.sujet {
			t.Errorf("MatchSujet(%q) = (%q, %q), want (%q, %q)",
				c.in, m.Separator, m.Sujet, c.separator, c.sujet)
		}
	}
	if m := MatchSujet("ispositions finales"); m != nil {
		t.Errorf("unexpected match: %+v", m)
	}
}

func TestNormalizeSectionNum(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1ER", "1er"},
		{"premiere", "première"},
		{"LIMINAIRE", "liminaire"},
		{"Preliminaire", "préliminaire"},
		{"III. - 2", "III-2"},
		{"II - 3", "II-3"},
		{"4", "4"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeSectionNum(c.in); got != c.want {
			t.Errorf("NormalizeSectionNum(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestReduceSectionTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"Titre 1er: Dispositions générales", "Titre 1er", true},
		{"Première partie", "Première partie", true},
		{"Chapitre III. - Du contrat", "Chapitre III", true},
		{"Dispositions finales", "", false},
	}
	for _, c := range cases {
		got, ok := ReduceSectionTitle(c.in)
		if got != c.want || ok != c.ok {
			t.Errorf("ReduceSectionTitle(%q) = (%q, %v), want (%q, %v)",
				c.in, got, ok, c.want, c.ok)
		}
	}
}
