package htmltext

import "testing"

func TestSplitFirstParagraph(t *testing.T) {
	cases := []struct {
		in              string
		paragraph, rest string
	}{
		{`<br/><p align="center">Foobar</p>`, "Foobar", ""},
		{"First line<br/>Second line<br/><br/><p>Lorem <b>ipsum</b></p>",
			"First line\nSecond line", "<p>Lorem <b>ipsum</b></p>"},
		{"<p>Annexe I à l'article R123-4</p><p>Texte.</p>",
			"Annexe I à l'article R123-4", "<p>Texte.</p>"},
		{"no paragraph here", "", ""},
	}
	for _, c := range cases {
		p, rest := SplitFirstParagraph(c.in)
		if p != c.paragraph || rest != c.rest {
			t.Errorf("SplitFirstParagraph(%q) = (%q, %q), want (%q, %q)",
				c.in, p, rest, c.paragraph, c.rest)
		}
	}
}

func TestDropBadSpace(t *testing.T) {
	cases := []struct{ in, want string }{
		{"l' État", "l'État"},
		{"d' une annexe", "d'une annexe"},
		{"mot , virgule", "mot, virgule"},
		{"fin .", "fin."},
		{"rien à corriger", "rien à corriger"},
	}
	for _, c := range cases {
		if got := DropBadSpace(c.in); got != c.want {
			t.Errorf("DropBadSpace(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEscapeUnescape(t *testing.T) {
	if got := Escape(`R&D <test>`); got != "R&amp;D &lt;test&gt;" {
		t.Errorf("Escape = %q", got)
	}
	if got := Unescape("R&amp;D &lt;test&gt;"); got != "R&D <test>" {
		t.Errorf("Unescape = %q", got)
	}
	if got := Escape(Unescape("A &amp; B")); got != "A &amp; B" {
		t.Errorf("round trip = %q", got)
	}
}
