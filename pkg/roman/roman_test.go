package roman

import "testing"

func TestToRoman(t *testing.T) {
	cases := []struct {
		n    int
		want string
	}{
		{0, ""},
		{1, "I"},
		{4, "IV"},
		{9, "IX"},
		{14, "XIV"},
		{40, "XL"},
		{90, "XC"},
		{1515, "MDXV"},
		{1792, "MDCCXCII"},
		{3999, "MMMCMXCIX"},
	}
	for _, c := range cases {
		if got := ToRoman(c.n); got != c.want {
			t.Errorf("ToRoman(%d) = %q, want %q", c.n, got, c.want)
		}
	}
}

func TestFromRoman(t *testing.T) {
	cases := []struct {
		s    string
		want int
	}{
		{"I", 1},
		{"IV", 4},
		{"XIV", 14},
		{"MDCCXCII", 1792},
		{"MMMCMXCIX", 3999},
	}
	for _, c := range cases {
		got, err := FromRoman(c.s)
		if err != nil {
			t.Fatalf("FromRoman(%q): %v", c.s, err)
		}
		if got != c.want {
			t.Errorf("FromRoman(%q) = %d, want %d", c.s, got, c.want)
		}
	}
}

func TestFromRomanInvalid(t *testing.T) {
	for _, s := range []string{"IIII2", "ABC", "VX", "IC"} {
		if _, err := FromRoman(s); err == nil {
			t.Errorf("FromRoman(%q): expected error", s)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for n := 1; n <= 3999; n++ {
		got, err := FromRoman(ToRoman(n))
		if err != nil {
			t.Fatalf("FromRoman(ToRoman(%d)): %v", n, err)
		}
		if got != n {
			t.Fatalf("round trip failed for %d: got %d", n, got)
		}
	}
}

func TestIsRoman(t *testing.T) {
	if !IsRoman("XIV") {
		t.Error("IsRoman(XIV) = false")
	}
	if IsRoman("") || IsRoman("VX") {
		t.Error("IsRoman accepted invalid input")
	}
}
