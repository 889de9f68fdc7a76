package normalize

import "context"

// NormalizeSommaireNums resyncs the num column of the tables of
// contents: entries pointing at articles get the article's normalized
// num, entries pointing at sections get the reduced section heading.
func NormalizeSommaireNums(ctx context.Context, store SommaireStore, opts Options) (Counts, error) {
	counts := Counts{}
	if opts.DryRun {
		return counts, nil
	}
	n, err := store.SyncArticleNums(ctx)
	if err != nil {
		return counts, err
	}
	counts.Add("updated num for article", int(n))
	n, err = store.SyncSectionNums(ctx)
	if err != nil {
		return counts, err
	}
	counts.Add("updated num for section", int(n))
	return counts, nil
}
