package normalize

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/coolbeans/legifr/pkg/articles"
	"github.com/coolbeans/legifr/pkg/french"
	"github.com/coolbeans/legifr/pkg/htmltext"
	"github.com/coolbeans/legifr/pkg/roman"
)

var (
	articleNumMultiRe = regexp.MustCompile(`\A(?:` + articles.NumMulti + `)`)
	articleTitreRe    = regexp.MustCompile(`\A(?:` + articles.Titre + `)`)

	spaceAroundDashRe = regexp.MustCompile(`(?:[0-9]+|` + roman.Pattern + `)(?:- | -)(?:[0-9]+|` + roman.Pattern + `\b)`)

	extraneousDashRe = regexp.MustCompile(` -(` + articles.Num + `)`)

	missingSpaceRe = regexp.MustCompile(`\b(` + roman.Pattern + `)(\((?:[A-Z]{2}|suite)\))`)

	caseNormalizationRe = regexp.MustCompile(`(?i)(` +
		`annex[eé]s?|art(?:icle)?|tableaux?|états?|introduction|préambule|addendum|` +
		`appendice|informative|législatifs?|extraits|directive|technique` +
		`)`)

	annexeNumDoubleRe = regexp.MustCompile(`Annexe à l'article (` + articles.Num + `(?: \([^)]+\))?) Annexe (` + articles.Num + `)`)

	specialCaseRe = regexp.MustCompile(`(AOC|FRA\.)( (?:« )?[A-ZÀÂÇÈÉÊËÎÔÛÜ-]{2,}(?: [A-ZÀÂÇÈÉÊËÎÔÛÜ-]{2,})*)`)

	annexeSuffixRe = regexp.MustCompile(`^(?P<art_num>` + articles.Num + `),? [Aa]nnexe(?: (?P<annexe_num>` + roman.Pattern + `|[0-9]+))?$`)

	articlePositionRe = regexp.MustCompile(`^(?:ANNEXE(?: ` + articles.Num + `)?,? )?` +
		`(?:\(?(?:` +
		`(?:CHAPITRE|PAR(?:\.|AGRAPHE)|TITRE|PARTIE)(?: ` + articles.Num + `)?|` +
		`(?:PREMIERE|DEUXIEME|TROISIEME) PARTIE` +
		`)\)?(?:,? |$))+` +
		`(?:(?P<article>ART(?:\.|ICLE) )?(?P<num>[0-9]+)\.?|(?P<intro>INTRODUCTION))?`)

	standardNumWithGarbageRe = regexp.MustCompile(`\b(LO|[RD]\*{1,2}|[LDRA])(?:\. ?|\.? )([0-9]{3,})\b`)

	rangeRe = regexp.MustCompile(`^\([0-9]+ à [0-9]+\)`)
)

// matchArticleTitre matches a complete article title at the start of s,
// refusing matches that stop in the middle of a word.
func matchArticleTitre(s string) (end int, ok bool) {
	m := articleTitreRe.FindStringIndex(s)
	if m == nil {
		return 0, false
	}
	if m[1] < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[m[1]:]); isWordRune(r) {
			return 0, false
		}
	}
	return m[1], true
}

func replaceAllSubmatch(re *regexp.Regexp, s string, repl func(groups []string) string) string {
	locs := re.FindAllStringSubmatchIndex(s, -1)
	if locs == nil {
		return s
	}
	var b strings.Builder
	last := 0
	for _, m := range locs {
		groups := make([]string, len(m)/2)
		for i := range groups {
			if m[2*i] >= 0 {
				groups[i] = s[m[2*i]:m[2*i+1]]
			}
		}
		b.WriteString(s[last:m[0]])
		b.WriteString(repl(groups))
		last = m[1]
	}
	b.WriteString(s[last:])
	return b.String()
}

func correctWords(num string) string {
	return replaceAllSubmatch(wordCorrectionRe, num, func(g []string) string {
		correct := fixups.WordCorrections[strings.ToLower(g[1])]
		return french.MimicCase(g[1], correct) + g[2]
	})
}

// normalizeWordCase applies the title/lower rules to the known words of
// caseNormalizationRe, with unicode-aware word boundaries.
func normalizeWordCase(num string) string {
	locs := caseNormalizationRe.FindAllStringSubmatchIndex(num, -1)
	if locs == nil {
		return num
	}
	var b strings.Builder
	last := 0
	for _, m := range locs {
		start, end := m[2], m[3]
		word := num[start:end]
		bounded := true
		if start > 0 {
			if r, _ := utf8.DecodeLastRuneInString(num[:start]); isWordRune(r) {
				bounded = false
			}
		}
		if end < len(num) {
			if r, _ := utf8.DecodeRuneInString(num[end:]); isWordRune(r) {
				bounded = false
			}
		}
		repl := word
		if bounded {
			if start == 0 {
				repl = french.Title(word)
			} else if french.IsUpper(word) {
				repl = strings.ToLower(word)
			}
		}
		b.WriteString(num[last:start])
		b.WriteString(repl)
		last = end
	}
	b.WriteString(num[last:])
	return b.String()
}

func dropGarbage(num string) string {
	return standardNumWithGarbageRe.ReplaceAllString(num, "$1$2")
}

// NormalizeArticleNumbers cleans the num of every article: strips
// garbage characters, fixes casing and accents, restructures annex and
// multi-article numbers. When bodies is non-nil, truncated titles are
// recovered from the first paragraph of the article's content.
func NormalizeArticleNumbers(ctx context.Context, store ArticleStore, bodies ArticleBodies, opts Options) (Counts, error) {
	logger := opts.logger()
	counts := Counts{}
	rows, err := store.Articles(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		origNum := row.Num
		num := origNum

		addChange := func(old, new string) error {
			if opts.Log != nil {
				opts.Log.Add(old, new)
			}
			if opts.DryRun {
				return nil
			}
			return store.UpdateArticleNum(ctx, row.ID, new)
		}

		num = french.ASCIISpacesRe.ReplaceAllString(num, " ")
		if strings.Contains(num, "*suite*") {
			num = strings.ReplaceAll(num, "*suite*", "(suite)")
		}
		if num != "" && num[0] == '*' && num[len(num)-1] == '*' {
			num = strings.Trim(num, "*")
		}
		if strings.Contains(num, "à Lot-et-G.") {
			num = strings.ReplaceAll(num, "à Lot-et-G.", "à Lot-et-Garonne")
		}
		num = strings.Trim(num, " .:")
		if num == "" {
			counts.Add("empty", 1)
			if err := addChange(origNum, num); err != nil {
				return counts, err
			}
			continue
		}

		num = strings.ReplaceAll(num, " à L'article ", " à l'article ")
		num = strings.ReplaceAll(num, "–", "-")
		num = strings.ReplaceAll(num, ",,", ",")
		num = spaceAroundDashRe.ReplaceAllStringFunc(num, func(m string) string {
			return strings.ReplaceAll(m, " ", "")
		})
		num = extraneousDashRe.ReplaceAllString(num, " $1")
		if strings.HasPrefix(num, "AOC ") && strings.Contains(num, "..") {
			num = strings.ReplaceAll(num, "..", "")
		}
		num = htmltext.DropBadSpace(num)
		num = french.ReplaceQuotes(num)
		num = dropGarbage(num)
		if len(num) >= 3 && num[1:3] == ".-" {
			num = strings.ReplaceAll(num, ".-", "-")
		}
		if num != origNum {
			counts.Add("removed or replaced bad character(s)", 1)
		}

		if repl, ok := fixups.TitleReplacements[row.ID]; ok {
			num = repl
			if num != origNum {
				counts.Add("replaced num (hardcoded)", 1)
				if err := addChange(origNum, num); err != nil {
					return counts, err
				}
			}
			continue
		}
		switch {
		case num == "(suite Ib)":
			num = "Ib (suite)"
			counts.Add("corrected (suite)", 1)
		case row.CID == "LEGITEXT000006074493" && strings.HasSuffix(num, " STATUT ANNEXE"):
			num = strings.ReplaceAll(num, " STATUT ANNEXE", " du statut annexe")
			counts.Add("corrected (statut annexe)", 1)
		case row.CID == "JORFTEXT000020692049" && rangeRe.MatchString(num):
			num = "Tableau annexe - départements " + num[1:len(num)-1]
			counts.Add("replaced split article num (hardcoded)", 1)
		case row.CID == "JORFTEXT000027513723" && num == "Annexe IIII":
			num = "Annexe III"
			counts.Add("fixed annexe num (hardcoded)", 1)
		case row.CID == "JORFTEXT000000325199" && strings.HasSuffix(num, ", annexe"):
			num = num[:len(num)-8]
			counts.Add("removed suffix 'annexe' (hardcoded)", 1)
		case row.CID == "JORFTEXT000000735207" && num == "annexe ii":
			num = "Annexe II"
			counts.Add("uppercased roman number (hardcoded)", 1)
		}

		var firstWord string
		if i := strings.IndexByte(num, ' '); i >= 0 {
			firstWord = num[:i]
		} else {
			firstWord = num[:len(num)-1]
		}
		if strings.ToLower(firstWord) == "article" {
			if len(num) >= 8 {
				num = num[8:]
			} else {
				num = ""
			}
			counts.Add("dropped first word 'article'", 1)
		}

		if strings.Contains(num, "ANNEXE") {
			if num == "ANNEXE TABLEAU" {
				num = "Tableau annexe"
				counts.Add("lowercased, and reversed word order", 1)
			} else {
				num = strings.ReplaceAll(num, "ANNEXE A L'ARTICLE", "Annexe à l'article")
				num = strings.ReplaceAll(num, " ET ANNEXE", " et annexe")
				num = strings.ReplaceAll(num, "ANNEXE N°", "Annexe n°")
				num = strings.ReplaceAll(num, "ANNEXE(s)", "Annexes")
				num = strings.ReplaceAll(num, "ANNEXES( 1)", "Annexes (1)")
				if num != origNum {
					counts.Add("recased 'ANNEXE'", 1)
				}
			}
		}

		if m := articlePositionRe.FindStringSubmatchIndex(num); m != nil {
			if m[1] != len(num) {
				logger.Warn("partial position match", "matched", num[:m[1]], "num", num)
			}
			article := groupByName(articlePositionRe, num, m, "article")
			switch {
			case article != "":
				num = groupByName(articlePositionRe, num, m, "num")
			case groupByName(articlePositionRe, num, m, "intro") != "":
				num = "Introduction"
			default:
				num = ""
			}
			counts.Add("dropped position", 1)
		}

		if missingSpaceRe.MatchString(num) {
			num = missingSpaceRe.ReplaceAllString(num, "$1 $2")
			counts.Add("added missing space", 1)
		}

		if wordCorrectionRe.MatchString(num) {
			num = correctWords(num)
			counts.Add("added missing accent(s)", 1)
		}

		if articles.NumExtraRe.MatchString(num) {
			num = articles.NumExtraRe.ReplaceAllStringFunc(num, strings.ToLower)
			if num != origNum {
				counts.Add("lowercased (extra)", 1)
			}
		}

		if caseNormalizationRe.MatchString(num) {
			num2 := normalizeWordCase(num)
			if _, ok := matchArticleTitre(num2); ok || !HasUpperWord(num2) {
				num = num2
				if num != origNum {
					counts.Add("normalized case", 1)
				}
			}
		}

		if specialCaseRe.MatchString(num) {
			num = replaceAllSubmatch(specialCaseRe, num, func(g []string) string {
				return g[1] + french.Title(g[2])
			})
			if num != origNum {
				counts.Add("titlecased", 1)
				if err := addChange(origNum, num); err != nil {
					return counts, err
				}
			}
			continue
		}
		isTitle := num == "CA Aix-en-Provence" || strings.HasPrefix(num, "Annexe AOC ")
		if !isTitle && len(num) >= 4 {
			switch num[:4] {
			case "AOC ", "FRA.", "CA d", "TPI ":
				isTitle = true
			}
		}
		if isTitle {
			counts.Add("skipped detected title", 1)
			if num != origNum {
				if err := addChange(origNum, num); err != nil {
					return counts, err
				}
			}
			continue
		}

		if row.CID == "LEGITEXT000006074201" && strings.HasPrefix(strings.ToLower(num), "annexe 22, ") {
			num = num[len("annexe 22, "):] + " de l'annexe 22"
			counts.Add("moved prefix 'annexe' to suffix (hardcoded)", 1)
		}

		if m := annexeSuffixRe.FindStringSubmatchIndex(num); m != nil && strings.IndexByte("LDRA", num[0]) >= 0 {
			artNum := groupByName(annexeSuffixRe, num, m, "art_num")
			annexeNum := groupByName(annexeSuffixRe, num, m, "annexe_num")
			if annexeNum != "" {
				num = "Annexe " + annexeNum + " à l'article " + artNum
			} else {
				num = "Annexe à l'article " + artNum
			}
			counts.Add("moved suffix 'annexe' to prefix", 1)
		}

		if m := articleNumMultiRe.FindString(num); m != "" {
			if base, aliases, ok := articles.MatchMultiSub(num); ok {
				num = base + " (" + aliases + ")"
				counts.Add("split base number and aliases", 1)
				if num != origNum {
					if err := addChange(origNum, num); err != nil {
						return counts, err
					}
				}
				continue
			}
			if len(m) != len(num) {
				logger.Warn("partial multi-article match", "matched", m, "num", num,
					"url", articles.LegifranceURL(row.ID, row.CID))
			}
			counts.Add("detected a multi-article", 1)
			if num != origNum {
				if err := addChange(origNum, num); err != nil {
					return counts, err
				}
			}
			continue
		}

		if annexeNumDoubleRe.MatchString(num) {
			num = annexeNumDoubleRe.ReplaceAllString(num, "Annexe ${2} à l'article ${1}")
			counts.Add("collapsed double number", 1)
			if err := addChange(origNum, num); err != nil {
				return counts, err
			}
			continue
		}

		if end, ok := matchArticleTitre(num); ok {
			isFullMatch := end == len(num)
			recovered := false
			if !isFullMatch {
				part2 := num[end:]
				isFullMatch = strings.HasPrefix(part2, " : ") ||
					strings.HasPrefix(part2, " relative ") ||
					strings.HasPrefix(part2, " relatif ")
				if isFullMatch {
					if french.UpperWordsPercentage(part2) > 0.2 {
						counts.Add("detected a bad title (uppercase)", 1)
					}
				} else if strings.HasPrefix(part2, " aux articles ") && bodies != nil {
					// The title was truncated on import, the first
					// paragraph of the article's content has the rest.
					html, err := bodies.ArticleBody(ctx, row.ID)
					if err != nil {
						return counts, err
					}
					paragraph, rest := htmltext.SplitFirstParagraph(html)
					paragraph = strings.ReplaceAll(paragraph, "\n", " ")
					end3, ok3 := matchArticleTitre(paragraph)
					if ok3 && strings.HasPrefix(paragraph, origNum) && end3 == len(paragraph) {
						num = dropGarbage(paragraph)
						if err := addChange(origNum, num); err != nil {
							return counts, err
						}
						if rest != "" && !opts.DryRun {
							if err := bodies.UpdateArticleBody(ctx, row.ID, rest); err != nil {
								return counts, err
							}
						}
						counts.Add("completed truncated title, and removed it from bloc_textuel", 1)
						recovered = true
					} else {
						logger.Warn("failed to recover truncated title", "paragraph", paragraph,
							"url", articles.LegifranceURL(row.ID, row.CID))
					}
				}
			}
			if recovered {
				continue
			}
			if isFullMatch {
				counts.Add("article_titre regexp matched", 1)
			} else {
				counts.Add("article_titre regexp did not match", 1)
				logger.Warn("partial num match", "matched", num[:end], "num", num,
					"url", articles.LegifranceURL(row.ID, row.CID))
			}
		}

		if num != origNum {
			if err := addChange(origNum, num); err != nil {
				return counts, err
			}
		}
	}
	return counts, nil
}

func groupByName(re *regexp.Regexp, s string, m []int, name string) string {
	i := re.SubexpIndex(name)
	if i < 0 || m[2*i] < 0 {
		return ""
	}
	return s[m[2*i]:m[2*i+1]]
}
