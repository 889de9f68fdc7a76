package normalize

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Changelog accumulates value changes and writes them out grouped,
// deduplicated and sorted, one section per pass.
type Changelog struct {
	changes map[[2]string]int
}

// NewChangelog returns an empty changelog.
func NewChangelog() *Changelog {
	return &Changelog{changes: make(map[[2]string]int)}
}

// Add records one old-to-new change.
func (c *Changelog) Add(old, new string) {
	if c == nil {
		return
	}
	c.changes[[2]string{old, new}]++
}

// Len returns the number of distinct changes recorded.
func (c *Changelog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.changes)
}

// WriteTo writes the recorded changes under a header line, then resets
// the changelog so the next pass starts a fresh section.
func (c *Changelog) WriteTo(w io.Writer, header string) error {
	if c == nil || len(c.changes) == 0 {
		return nil
	}
	keys := make([][2]string, 0, len(c.changes))
	for k := range c.changes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i][0] != keys[j][0] {
			return keys[i][0] < keys[j][0]
		}
		return keys[i][1] < keys[j][1]
	})
	if _, err := fmt.Fprintf(w, "# %s\n", header); err != nil {
		return err
	}
	for _, k := range keys {
		n := c.changes[k]
		var err error
		if n > 1 {
			_, err = fmt.Fprintf(w, "%s => %s (%d×)\n", quote(k[0]), quote(k[1]), n)
		} else {
			_, err = fmt.Fprintf(w, "%s => %s\n", quote(k[0]), quote(k[1]))
		}
		if err != nil {
			return err
		}
	}
	c.changes = make(map[[2]string]int)
	return nil
}

// quote renders a string single-quoted with escaped control characters,
// falling back to double quotes when the value contains a single quote.
func quote(s string) string {
	q := strconv.Quote(s)
	if strings.Contains(s, "'") {
		return q
	}
	inner := strings.ReplaceAll(q[1:len(q)-1], `\"`, `"`)
	return "'" + inner + "'"
}
