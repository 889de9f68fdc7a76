// Package normalize hosts the four normalization passes: text titles,
// section titles, article numbers, and the nums copied into the tables
// of contents. Each pass reads rows through a store interface, repairs
// them, and writes back the changed columns.
package normalize

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/coolbeans/legifr/pkg/titles"
)

// TexteRow is one row of the text-versions table, as seen through the
// raw-values view.
type TexteRow struct {
	ID string
	titles.Record
}

// TexteStore is the storage access the text-titles pass needs.
type TexteStore interface {
	TextesVersions(ctx context.Context) ([]TexteRow, error)
	// UpdateTexteVersion writes the changed columns of a row.
	UpdateTexteVersion(ctx context.Context, id string, updates map[string]string) error
	// SaveBrute records the original values of the overwritten columns,
	// with a bitmask identifying them.
	SaveBrute(ctx context.Context, id string, orig map[string]string, bits int) error
}

// SectionRow is one row of the sections table.
type SectionRow struct {
	ID      string
	CID     string
	TitreTA string
}

// SectionStore is the storage access the section-titles pass needs.
type SectionStore interface {
	Sections(ctx context.Context) ([]SectionRow, error)
	UpdateSectionTitle(ctx context.Context, id, titre string) error
}

// ArticleRow is one row of the articles table with a non-empty num.
type ArticleRow struct {
	ID  string
	CID string
	Num string
}

// ArticleStore is the storage access the article-numbers pass needs.
type ArticleStore interface {
	Articles(ctx context.Context) ([]ArticleRow, error)
	UpdateArticleNum(ctx context.Context, id, num string) error
}

// ArticleBodies gives the article-numbers pass access to article
// content, enabling the recovery of truncated titles from the first
// paragraph. May be left nil to disable that repair.
type ArticleBodies interface {
	ArticleBody(ctx context.Context, id string) (string, error)
	UpdateArticleBody(ctx context.Context, id, html string) error
}

// SommaireStore is the storage access the sommaires pass needs; both
// operations return the number of rows they changed.
type SommaireStore interface {
	SyncArticleNums(ctx context.Context) (int64, error)
	SyncSectionNums(ctx context.Context) (int64, error)
}

// Options are shared by all passes.
type Options struct {
	// DryRun computes and logs everything but writes nothing back.
	DryRun bool
	Logger *slog.Logger
	// Log, when set, receives every value change for the audit log.
	Log *Changelog
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

// Counts tallies what a pass did, keyed by a human-readable label.
type Counts map[string]int

// Add increments the count for k by n.
func (c Counts) Add(k string, n int) { c[k] += n }

// String renders the counts as indented JSON with sorted keys.
func (c Counts) String() string {
	out, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return "{}"
	}
	return string(out)
}
