// Package frcal converts dates between the Gregorian calendar and the
// French Republican calendar, including sextile (leap) years and the
// five or six intercalary "Sans-culottides" days.
package frcal

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/coolbeans/legifr/pkg/french"
	"github.com/coolbeans/legifr/pkg/roman"
)

// Calendar tags which calendar system a parsed date belongs to.
type Calendar string

const (
	Gregorian  Calendar = "gregorian"
	Republican Calendar = "republican"
)

// MoisGreg holds the twelve Gregorian month names in French.
var MoisGreg = strings.Split("janvier février mars avril mai juin juillet août septembre octobre novembre décembre", " ")

// MoisRepu holds the twelve Republican month names.
var MoisRepu = strings.Split("vendémiaire brumaire frimaire nivôse pluviôse ventôse germinal floréal prairial messidor thermidor fructidor", " ")

// Sansculottides are the intercalary days at the end of the Republican
// year; the sixth exists only in sextile years.
var Sansculottides = []string{
	"Jour de la vertu", "Jour du génie", "Jour du travail",
	"Jour de l'opinion", "Jour des récompenses", "Jour de la révolution",
}

// RepublicanEpoch is 1 vendémiaire an I.
var RepublicanEpoch = time.Date(1792, time.September, 22, 0, 0, 0, 0, time.UTC)

var (
	moisGregMap      = nameIndex(MoisGreg)
	moisRepuMap      = nameIndex(MoisRepu)
	sansculottideMap = nameIndex(Sansculottides)
)

func nameIndex(names []string) map[string]int {
	m := make(map[string]int, len(names))
	for i, n := range names {
		m[french.StripDown(n)] = i + 1
	}
	return m
}

// GregorianToRepublican converts a Gregorian date at or after the epoch.
// The returned month is empty for an intercalary day, in which case day
// holds the day's name; otherwise day holds the decimal day of month.
func GregorianToRepublican(year int, month time.Month, day int) (int, string, string) {
	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	days := int((date.Unix() - RepublicanEpoch.Unix()) / 86400)
	sextiles := (days + 366) / 1461
	sextile := (days+366)%1461 == 0
	days -= sextiles
	ryear := days/365 + 1
	days -= (ryear - 1) * 365
	rmonth := days/30 + 1
	rday := days%30 + 1
	if rmonth == 13 {
		i := rday - 1
		if sextile {
			i++
		}
		return ryear, "", Sansculottides[i]
	}
	return ryear, MoisRepu[rmonth-1], strconv.Itoa(rday)
}

// RepublicanToGregorian converts a Republican date back to Gregorian.
// The year may be decimal or a Roman numeral. An empty month denotes an
// intercalary day selected by name (case/accent-insensitive).
// Month and day names must come from the fixed tables; an unknown name
// is a programming error and panics.
func RepublicanToGregorian(year, month, day string) time.Time {
	y, err := strconv.Atoi(year)
	if err != nil {
		y, err = roman.FromRoman(year)
		if err != nil {
			panic(fmt.Sprintf("frcal: invalid republican year %q", year))
		}
	}
	m := 13
	if month != "" {
		var ok bool
		m, ok = moisRepuMap[french.StripDown(month)]
		if !ok {
			panic(fmt.Sprintf("frcal: unknown republican month %q", month))
		}
	}
	d, err := strconv.Atoi(day)
	if err != nil || m == 13 {
		var ok bool
		d, ok = sansculottideMap[french.StripDown(day)]
		if !ok {
			panic(fmt.Sprintf("frcal: unknown intercalary day %q", day))
		}
	}
	offset := (y-1)*365 + (m-1)*30 + d - 1 + y/4
	return RepublicanEpoch.AddDate(0, 0, offset)
}

// ConvertDateToISO is the French-locale front door used by the title
// grammar: day/month/year strings as captured from a title. A Republican
// month name selects Republican conversion (the year may carry an
// "an " Roman prefix); otherwise the date is built directly from the
// Gregorian month table. Returns ("", Gregorian) when any part is absent.
func ConvertDateToISO(jour, mois, annee string) (string, Calendar) {
	if jour == "" || mois == "" || annee == "" {
		return "", Gregorian
	}
	jour = strings.ReplaceAll(strings.ToLower(jour), "1er", "1")
	if _, ok := moisRepuMap[french.StripDown(mois)]; ok {
		annee = french.StripPrefix(annee, "an ")
		d := RepublicanToGregorian(annee, mois, jour)
		return d.Format("2006-01-02"), Republican
	}
	m, ok := moisGregMap[french.StripDown(mois)]
	if !ok {
		panic(fmt.Sprintf("frcal: unknown month %q", mois))
	}
	day, err := strconv.Atoi(jour)
	if err != nil {
		panic(fmt.Sprintf("frcal: invalid day %q", jour))
	}
	year, err := strconv.Atoi(annee)
	if err != nil {
		panic(fmt.Sprintf("frcal: invalid year %q", annee))
	}
	return time.Date(year, time.Month(m), day, 0, 0, 0, 0, time.UTC).Format("2006-01-02"), Gregorian
}
