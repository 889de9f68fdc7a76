// Package htmltext extracts and repairs plain text carried inside the
// HTML fragments stored with articles and sections.
package htmltext

import (
	"regexp"
	"strings"
)

// BadSpaceRe matches a spurious space after an elided article ("l' ÉTAT")
// or before a comma or dot.
var BadSpaceRe = regexp.MustCompile(`(?i)[dl]['’] [\p{L}\p{N}_]| [,.]`)

// DropBadSpace removes the spurious spaces matched by BadSpaceRe.
func DropBadSpace(s string) string {
	return BadSpaceRe.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ReplaceAll(m, " ", "")
	})
}

var firstParagraphRe = regexp.MustCompile(`^(?:<p(?: [^>]+)?>(.+?)</p>|(.+?)<br/><br/>)(.*)`)

// SplitFirstParagraph extracts the content of the first paragraph from
// an HTML snippet, either a leading <p> element or everything up to a
// double <br/>. Returns the paragraph as text (with <br/> turned into
// newlines) and the remaining HTML.
func SplitFirstParagraph(html string) (paragraph, rest string) {
	m := firstParagraphRe.FindStringSubmatch(strings.TrimPrefix(html, "<br/>"))
	if m == nil {
		return "", ""
	}
	paragraph = m[1]
	if paragraph == "" {
		paragraph = m[2]
	}
	paragraph = strings.TrimSpace(strings.ReplaceAll(paragraph, "<br/>", "\n"))
	return paragraph, m[3]
}

// Escape escapes &, < and > in a string of data.
func Escape(s string) string {
	if strings.ContainsAny(s, "&<>") {
		s = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
	}
	return s
}

// Unescape unescapes &amp;, &lt; and &gt; in a string of data.
func Unescape(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	return strings.NewReplacer("&gt;", ">", "&lt;", "<", "&amp;", "&").Replace(s)
}
