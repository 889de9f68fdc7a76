package frcal

import (
	"strconv"
	"testing"
	"time"
)

// The Republican day sequence, iterated from year 1, must map one-to-one
// onto consecutive Gregorian days, with the sixth intercalary day
// appearing only in sextile years.
func TestContinuity(t *testing.T) {
	greg := RepublicanEpoch
	for year := 1; year < 300; year++ {
		for _, month := range MoisRepu {
			for day := 1; day <= 30; day++ {
				ds := strconv.Itoa(day)
				if got := RepublicanToGregorian(strconv.Itoa(year), month, ds); !got.Equal(greg) {
					t.Fatalf("RepublicanToGregorian(%d, %s, %d) = %v, want %v", year, month, day, got, greg)
				}
				ry, rm, rd := GregorianToRepublican(greg.Year(), greg.Month(), greg.Day())
				if ry != year || rm != month || rd != ds {
					t.Fatalf("GregorianToRepublican(%v) = (%d, %q, %q), want (%d, %q, %q)",
						greg, ry, rm, rd, year, month, ds)
				}
				greg = greg.AddDate(0, 0, 1)
			}
		}
		n := 5
		if year%4 == 3 {
			n = 6
		}
		for _, day := range Sansculottides[:n] {
			if got := RepublicanToGregorian(strconv.Itoa(year), "", day); !got.Equal(greg) {
				t.Fatalf("RepublicanToGregorian(%d, -, %s) = %v, want %v", year, day, got, greg)
			}
			ry, rm, rd := GregorianToRepublican(greg.Year(), greg.Month(), greg.Day())
			if ry != year || rm != "" || rd != day {
				t.Fatalf("GregorianToRepublican(%v) = (%d, %q, %q), want (%d, \"\", %q)",
					greg, ry, rm, rd, year, day)
			}
			greg = greg.AddDate(0, 0, 1)
		}
	}
}

func TestRomanYear(t *testing.T) {
	got := RepublicanToGregorian("III", "vendémiaire", "18")
	want := time.Date(1794, time.October, 9, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("RepublicanToGregorian(III, vendémiaire, 18) = %v, want %v", got, want)
	}
}

func TestConvertDateToISO(t *testing.T) {
	cases := []struct {
		jour, mois, annee string
		wantISO           string
		wantCal           Calendar
	}{
		{"1", "vendémiaire", "an I", "1792-09-22", Republican},
		{"18", "février", "1975", "1975-02-18", Gregorian},
		{"1er", "janvier", "2000", "2000-01-01", Gregorian},
		{"8", "août", "2016", "2016-08-08", Gregorian},
		{"", "février", "1975", "", Gregorian},
		{"18", "", "1975", "", Gregorian},
		{"18", "février", "", "", Gregorian},
	}
	for _, c := range cases {
		iso, cal := ConvertDateToISO(c.jour, c.mois, c.annee)
		if iso != c.wantISO || cal != c.wantCal {
			t.Errorf("ConvertDateToISO(%q, %q, %q) = (%q, %q), want (%q, %q)",
				c.jour, c.mois, c.annee, iso, cal, c.wantISO, c.wantCal)
		}
	}
}

func TestIntercalaryLookupIsAccentInsensitive(t *testing.T) {
	got := RepublicanToGregorian("3", "", "jour des recompenses")
	want := RepublicanToGregorian("3", "", "Jour des récompenses")
	if !got.Equal(want) {
		t.Errorf("accent-insensitive lookup failed: %v != %v", got, want)
	}
}
