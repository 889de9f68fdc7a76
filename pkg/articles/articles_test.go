package articles

import (
	"regexp"
	"testing"
)

func TestNumToTitle(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1er", "Article 1er"},
		{"B", "Article B"},
		{"unique", "Article unique"},
		{"liminaire", "Article liminaire"},
		{"L121-1", "Article L121-1"},
		{"R*421-3", "Article R*421-3"},
		{"16 bis", "Article 16 bis"},
		{"Annexe", "Annexe"},
		{"Tableau annexe", "Tableau annexe"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NumToTitle(c.in); got != c.want {
			t.Errorf("NumToTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNumPattern(t *testing.T) {
	re := regexp.MustCompile(`\A(?:` + Num + `)\z`)
	matching := []string{
		"1", "1er", "L121-1", "L. 121-1", "LO176", "R*421-3", "D**12",
		"A1", "12 bis", "16 sexies", "XIV", "III(a)", "4-1", "12a",
		"54 quinquies A", "B'",
	}
	for _, s := range matching {
		if !re.MatchString(s) {
			t.Errorf("Num should match %q", s)
		}
	}
	notMatching := []string{"", "der", "à"}
	for _, s := range notMatching {
		if re.MatchString(s) {
			t.Errorf("Num should not match %q", s)
		}
	}
}

func TestTitrePattern(t *testing.T) {
	re := regexp.MustCompile(`\A(?:` + Titre + `)\z`)
	matching := []string{
		"Annexe à l'article R513-7",
		"unique",
		"Tableau 1",
		"Annexe I",
		"3, introduction",
		"Annexe (1)",
	}
	for _, s := range matching {
		if !re.MatchString(s) {
			t.Errorf("Titre should match %q", s)
		}
	}
}

func TestNumMulti(t *testing.T) {
	re := regexp.MustCompile(`\A` + NumMulti)
	matching := []string{
		"3 et 4",
		"3, 4, 5",
		"1 à 4",
		"Annexe, art. 1, 2 et 3",
		"13, 13-1, 13-2, 13-3, 13-4",
		"15 (15-1 et 15-2)",
	}
	for _, s := range matching {
		if !re.MatchString(s) {
			t.Errorf("NumMulti should match %q", s)
		}
	}
	if re.MatchString("L121-1") {
		t.Error("NumMulti should not match a single number")
	}
}

func TestMatchMultiSub(t *testing.T) {
	cases := []struct {
		in            string
		base, aliases string
		ok            bool
	}{
		{"13, 13-1, 13-2, 13-3, 13-4", "13", "13-1, 13-2, 13-3, 13-4", true},
		{"15 (15-1 et 15-2)", "15", "15-1 et 15-2", true},
		{"15 (16-1 et 16-2)", "", "", false},
		{"15, 15-1", "", "", false},
		{"L121-1", "", "", false},
	}
	for _, c := range cases {
		base, aliases, ok := MatchMultiSub(c.in)
		if base != c.base || aliases != c.aliases || ok != c.ok {
			t.Errorf("MatchMultiSub(%q) = (%q, %q, %v), want (%q, %q, %v)",
				c.in, base, aliases, ok, c.base, c.aliases, c.ok)
		}
	}
}
