package normalize

import (
	"context"

	"github.com/coolbeans/legifr/pkg/french"
	"github.com/coolbeans/legifr/pkg/titles"
)

// brutesBits identifies which columns of a text version were
// overwritten, for the raw-values audit table.
var brutesBits = map[string]int{
	"nature":     1,
	"titre":      2,
	"titrefull":  4,
	"autorite":   8,
	"num":        16,
	"date_texte": 32,
}

// NormalizeTextTitles reconciles the titre, titrefull, nature, num,
// date_texte and autorite of every text version, writing back the
// changed columns and archiving the original values.
func NormalizeTextTitles(ctx context.Context, store TexteStore, opts Options) (Counts, error) {
	logger := opts.logger()
	counts := Counts{}
	rows, err := store.TextesVersions(ctx)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		res := titles.Reconcile(row.Record)
		for _, w := range res.Warnings {
			logger.Warn(w, "id", row.ID)
		}
		for _, k := range res.Counts {
			counts.Add(k, 1)
		}

		updates := make(map[string]string)
		orig := make(map[string]string)
		bits := 0
		set := func(col, oldV, newV string, count bool) {
			if newV == oldV {
				return
			}
			updates[col] = newV
			orig[col] = oldV
			bits |= brutesBits[col]
			if count {
				counts.Add("updated "+col, 1)
			}
		}
		rec := res.Record
		// num, date_texte and autorite updates are already counted by
		// the reconciliation itself.
		set("num", row.Num, rec.Num, false)
		set("date_texte", row.DateTexte, rec.DateTexte, false)
		set("autorite", row.Autorite, rec.Autorite, false)
		set("titre", row.Titre, rec.Titre, true)
		set("titrefull", row.Titrefull, rec.Titrefull, true)
		set("nature", row.Nature, rec.Nature, true)

		if opts.Log != nil {
			if rec.Titre != row.Titre && french.FilterNonAlnum(rec.Titre) != french.FilterNonAlnum(row.Titre) {
				opts.Log.Add(row.Titre, rec.Titre)
			}
			if rec.Titrefull != row.Titrefull && french.FilterNonAlnum(rec.Titrefull) != french.FilterNonAlnum(row.Titrefull) {
				opts.Log.Add(row.Titrefull, rec.Titrefull)
			}
		}

		if rec.TitrefullS != row.TitrefullS {
			updates["titrefull_s"] = rec.TitrefullS
		}
		if len(updates) == 0 || opts.DryRun {
			continue
		}
		if err := store.UpdateTexteVersion(ctx, row.ID, updates); err != nil {
			return counts, err
		}
		if bits > 0 {
			if err := store.SaveBrute(ctx, row.ID, orig, bits); err != nil {
				return counts, err
			}
		}
	}
	return counts, nil
}
