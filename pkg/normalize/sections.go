package normalize

import (
	"context"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coolbeans/legifr/pkg/articles"
	"github.com/coolbeans/legifr/pkg/french"
	"github.com/coolbeans/legifr/pkg/htmltext"
	"github.com/coolbeans/legifr/pkg/roman"
	"github.com/coolbeans/legifr/pkg/sections"
)

var (
	dashRe        = regexp.MustCompile(`[\x{2012}-\x{2015}]`)
	multiSpacesRe = regexp.MustCompile(`(?: {2,}|\t+[ \t]*)`)
	newlinesRe    = regexp.MustCompile(`(?: *\r?\n)+`)

	// e.g. "Sous-section 8 : -1 Ministère …"
	badSeparatorRe = regexp.MustCompile(`^(` + sections.TypePattern +
		` (?:[0-9]+|` + roman.Pattern + `)) : (-[0-9]+)( [A-ZÇÉ])`)

	missingAccentRe = regexp.MustCompile(`(?i)(Annexe|relatif)( a )(l'[\p{L}\p{N}_]{3,} |la [\p{L}\p{N}_]{3,} )`)
)

func addMissingAccents(s string, counts Counts) string {
	var b strings.Builder
	last := 0
	for _, m := range missingAccentRe.FindAllStringSubmatchIndex(s, -1) {
		b.WriteString(s[last:m[2]])
		b.WriteString(s[m[2]:m[3]])
		b.WriteString(french.MimicCase(s[m[4]:m[5]], " à "))
		b.WriteString(s[m[6]:m[7]])
		last = m[1]
		counts.Add("added missing accent", 1)
	}
	if last == 0 {
		return s
	}
	b.WriteString(s[last:])
	return b.String()
}

func cleanNumMatch(m *sections.Match) string {
	var parts []string
	if o := strings.TrimRight(m.Ord, " \t"); o != "" {
		parts = append(parts, french.CleanOrdinal(o))
	}
	if m.Type != "" {
		parts = append(parts, strings.ReplaceAll(strings.ToLower(m.Type), "preambule", "préambule"))
	}
	if n := sections.NormalizeSectionNum(m.Num); n != "" {
		parts = append(parts, n)
	}
	num := strings.Join(parts, " ")
	if num != "" && (m.Ord != "" || m.Type != "") {
		num = french.Capitalize(num)
	}
	return num
}

func firstRune(s string) rune {
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

func lastRune(s string) rune {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r
}

func secondRune(s string) rune {
	_, n := utf8.DecodeRuneInString(s)
	if n >= len(s) {
		return utf8.RuneError
	}
	return firstRune(s[n:])
}

// NormalizeSectionTitles cleans the titre_ta of every section: trims
// garbage, repairs separators and spacing, and gives the heading part
// its canonical form.
func NormalizeSectionTitles(ctx context.Context, store SectionStore, opts Options) (Counts, error) {
	logger := opts.logger()
	counts := Counts{}
	rows, err := store.Sections(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		titreTA := row.TitreTA
		origTitre := titreTA
		url := sections.LegifranceURL(row.ID, row.CID)

		addChange := func(old, new string) error {
			if strings.TrimRight(strings.TrimSpace(old), ".") == new {
				// Simple trimming isn't worth logging
				return nil
			}
			if opts.Log != nil {
				opts.Log.Add(old, new)
			}
			if opts.DryRun {
				return nil
			}
			return store.UpdateSectionTitle(ctx, row.ID, new)
		}

		if strings.Contains(titreTA, "&") {
			titreTA = htmltext.Escape(htmltext.Unescape(titreTA))
			counts.Add("unescaped HTML entities", 1)
		}

		lenBefore := len(titreTA)
		titreTA = strings.Trim(titreTA, " \t\n\r\f\v:")
		if n := len(titreTA); n >= 2 && titreTA[n-1] == '.' && titreTA[n-2] != '.' {
			titreTA = strings.TrimRight(titreTA[:n-1], " \t")
		}
		if len(titreTA) != lenBefore {
			counts.Add("trimmed", 1)
			if titreTA == "" {
				counts.Add("empty", 1)
				if titreTA != origTitre {
					if err := addChange(origTitre, titreTA); err != nil {
						return counts, err
					}
				}
				continue
			}
		}

		titreTA = multiSpacesRe.ReplaceAllStringFunc(titreTA, func(m string) string {
			if len(m) > 3 || strings.Contains(m, "\t") {
				counts.Add("replaced multiple spaces with newline", 1)
				return "\n"
			}
			counts.Add("collapsed multiple spaces", 1)
			return " "
		})
		titreTA = replaceNewlines(titreTA, counts)

		before := titreTA
		titreTA = dashRe.ReplaceAllString(titreTA, "-")
		titreTA = french.ReplaceQuotes(titreTA)
		if titreTA != before {
			counts.Add("replaced non-standard character(s)", 1)
		}

		if titreTA == "Annexe" || titreTA == "Annexes" {
			if titreTA != origTitre {
				if err := addChange(origTitre, titreTA); err != nil {
					return counts, err
				}
			}
			continue
		}

		switch {
		case strings.Contains(titreTA, "\n"):
			counts.Add("detected a bad section title (newline)", 1)
		case strings.Contains(titreTA, "« Art."):
			counts.Add("detected a bad section title (article)", 1)
		case titreTA[0] == '"' || strings.HasPrefix(titreTA, "«"):
			counts.Add("detected a bad section title (quote)", 1)
		}

		if strings.HasPrefix(titreTA, "A N N E X E") {
			if strings.HasPrefix(titreTA, "A N N E X E S") {
				titreTA = "ANNEXES" + titreTA[13:]
			} else {
				titreTA = "ANNEXE" + titreTA[11:]
			}
			counts.Add("unspaced `A N N E X E`", 1)
		}

		if m := badSeparatorRe.FindStringSubmatchIndex(titreTA); m != nil {
			titreTA = titreTA[m[2]:m[3]] + titreTA[m[4]:m[5]] + titreTA[m[6]:]
			counts.Add("removed bad separator", 1)
		}

		titreTA = addMissingAccents(titreTA, counts)

		if articles.NumExtraRe.MatchString(titreTA) {
			titreTA = articles.NumExtraRe.ReplaceAllStringFunc(titreTA, strings.ToLower)
			counts.Add("lowercased extra", 1)
		}

		var matches []*sections.Match
		numEnd := 0
		for {
			m := sections.MatchSection(titreTA, numEnd)
			if m == nil {
				break
			}
			matches = append(matches, m)
			numEnd = m.End
			for numEnd < len(titreTA) && strings.IndexByte(" ,;/|", titreTA[numEnd]) >= 0 {
				numEnd++
			}
		}

		var num, separator, sujet string
		if len(matches) > 0 {
			numEnd = matches[len(matches)-1].End
			if len(matches) > 1 {
				counts.Add("multiple matches", 1)
			}
			if numEnd == len(titreTA) {
				counts.Add("full match", 1)
			} else if sm := sections.MatchSujet(titreTA[numEnd:]); sm != nil {
				separator = french.ASCIISpacesRe.ReplaceAllString(sm.Separator, " ")
				sujet = sm.Sujet
				if isWordRune(lastRune(titreTA[:numEnd])) && unicode.IsUpper(firstRune(sujet)) {
					switch {
					case separator == " : " || separator == " - " || separator == ". " || separator == ") ":
					case separator == " ":
						if !unicode.IsUpper(secondRune(sujet)) {
							separator = " : "
							counts.Add("added separator", 1)
						}
					case !strings.HasSuffix(separator, " "):
						separator += " "
						counts.Add("added space to separator", 1)
					default:
						separator = " : "
						counts.Add("replaced separator", 1)
					}
				}
				counts.Add("good match", 1)
			} else if len(matches) == 1 && !strings.Contains(strings.TrimSpace(matches[0].Text), " ") {
				// The initial match was probably a false positive, ignore it
				sujet = titreTA
				matches = nil
				counts.Add("false match", 1)
			} else {
				logger.Warn("partial match", "matched", titreTA[:numEnd], "titre", titreTA, "url", url)
				counts.Add("partial match", 1)
				sujet = titreTA[numEnd:]
			}
			if len(matches) > 0 {
				parts := make([]string, len(matches))
				for i, m := range matches {
					parts[i] = cleanNumMatch(m)
				}
				num = strings.Join(parts, " ")
			}
		} else {
			sujet = titreTA
			counts.Add("no match", 1)
		}

		if num != "" && HasUpperWord(num) {
			logger.Warn("still uppercase", "num", num, "url", url)
			counts.Add("still uppercase (num)", 1)
		}
		if sujet != "" && french.UpperWordsPercentage(sujet) > 0.2 {
			counts.Add("detected a bad section title (uppercase)", 1)
		}

		titreTA = num + separator + sujet
		if titreTA != origTitre {
			if err := addChange(origTitre, titreTA); err != nil {
				return counts, err
			}
		}
	}
	return counts, nil
}

func replaceNewlines(s string, counts Counts) string {
	locs := newlinesRe.FindAllStringIndex(s, -1)
	if locs == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, loc := range locs {
		b.WriteString(s[last:loc[0]])
		last = loc[1]
		if loc[1] >= len(s) {
			continue
		}
		next := firstRune(s[loc[1]:])
		if (unicode.IsLetter(next) && unicode.IsLower(next)) || next == ':' {
			counts.Add("replaced newline with space", 1)
			b.WriteString(" ")
			continue
		}
		if s[loc[0]:loc[1]] != "\n" {
			counts.Add("collapsed multiple newlines", 1)
		}
		b.WriteString("\n")
	}
	b.WriteString(s[last:])
	return b.String()
}
