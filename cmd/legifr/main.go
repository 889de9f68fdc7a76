package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/coolbeans/legifr/pkg/anomalies"
	"github.com/coolbeans/legifr/pkg/config"
	"github.com/coolbeans/legifr/pkg/factorize"
	"github.com/coolbeans/legifr/pkg/frcal"
	"github.com/coolbeans/legifr/pkg/normalize"
	"github.com/coolbeans/legifr/pkg/store"
	"github.com/coolbeans/legifr/pkg/watch"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var configPath string

func main() {
	rootCmd := &cobra.Command{
		Use:   "legifr",
		Short: "LEGI metadata normalizer",
		Long: `Legifr cleans up the metadata of the LEGI database, the French
consolidated law corpus published by DILA.

It normalizes text titles, section titles and article numbers, keeps
the original values recoverable, deduplicates text versions into
canonical texts, and reports anomalies left in the data.`,
		Version: version,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "legifr.yaml", "configuration file")

	rootCmd.AddCommand(normalizeCmd())
	rootCmd.AddCommand(factorizeCmd())
	rootCmd.AddCommand(anomaliesCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(calendarCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

// dbPath resolves the database path from the argument list or, failing
// that, the configuration file.
func dbPath(cfg *config.Config, args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Database
}

func normalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize [database] [what]",
		Short: "Clean up the metadata of a LEGI database",
		Long: `Normalize the titles and numbers stored in a LEGI database.

The second argument selects a single pass:
  textes_titres    titles of text versions
  sections_titres  titles of sections
  articles_num     numbers of articles
  sommaires_num    numbers in the tables of contents
  all              everything (the default)

Example:
  legifr normalize legi.sqlite
  legifr normalize legi.sqlite articles_num --dry-run`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			logPath, _ := cmd.Flags().GetString("log-path")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			what := "all"
			if len(args) > 1 {
				what = args[1]
			}
			if logPath == "" {
				logPath = cfg.LogPath
			}

			db, err := store.Open(dbPath(cfg, args))
			if err != nil {
				return err
			}
			defer db.Close()

			return runNormalize(cmd.Context(), db, what, dryRun || cfg.DryRun, logPath)
		},
	}
	cmd.Flags().Bool("dry-run", false, "report changes without writing them")
	cmd.Flags().String("log-path", "", "file to append the changelog to")
	return cmd
}

var normalizePasses = []struct {
	name   string
	header string
	run    func(context.Context, *store.DB, normalize.Options) (normalize.Counts, error)
}{
	{"textes_titres", "titres de textes", func(ctx context.Context, db *store.DB, opts normalize.Options) (normalize.Counts, error) {
		return normalize.NormalizeTextTitles(ctx, db, opts)
	}},
	{"sections_titres", "titres de sections", func(ctx context.Context, db *store.DB, opts normalize.Options) (normalize.Counts, error) {
		return normalize.NormalizeSectionTitles(ctx, db, opts)
	}},
	{"articles_num", "numéros d'articles", func(ctx context.Context, db *store.DB, opts normalize.Options) (normalize.Counts, error) {
		return normalize.NormalizeArticleNumbers(ctx, db, db, opts)
	}},
	{"sommaires_num", "", func(ctx context.Context, db *store.DB, opts normalize.Options) (normalize.Counts, error) {
		return normalize.NormalizeSommaireNums(ctx, db, opts)
	}},
}

func runNormalize(ctx context.Context, db *store.DB, what string, dryRun bool, logPath string) error {
	// The changelog is written in dry-run mode too: only the database
	// writes are held back.
	var logFile *os.File
	if logPath != "" {
		var err error
		logFile, err = os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open changelog: %w", err)
		}
		defer logFile.Close()
	}

	opts := normalize.Options{
		DryRun: dryRun,
		Logger: newLogger(),
		Log:    normalize.NewChangelog(),
	}

	ran := false
	for _, pass := range normalizePasses {
		if what != "all" && what != pass.name {
			continue
		}
		ran = true
		counts, err := pass.run(ctx, db, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", pass.name, err)
		}
		if logFile != nil && pass.header != "" && opts.Log.Len() > 0 {
			if err := opts.Log.WriteTo(logFile, pass.header); err != nil {
				return fmt.Errorf("failed to write changelog: %w", err)
			}
		}
		if len(counts) > 0 {
			fmt.Printf("%s: %s\n", pass.name, counts)
		} else {
			fmt.Printf("%s: nothing to do\n", pass.name)
		}
	}
	if !ran {
		return fmt.Errorf("unknown pass %q", what)
	}
	return nil
}

func factorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "factorize [database]",
		Short: "Group text versions into canonical texts",
		Long: `Connect the versions of each text and materialize one row per
canonical text in the textes table.

Factorization matches versions on their simplified full title, so the
normalization passes are run first when the database has not been
normalized yet.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromScratch, _ := cmd.Flags().GetBool("from-scratch")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			db, err := store.Open(dbPath(cfg, args))
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			needs, err := factorize.NeedsNormalization(ctx, db.Unwrap())
			if err != nil {
				return err
			}
			if needs {
				fmt.Println("the database has not been normalized yet, normalizing first")
				if err := runNormalize(ctx, db, "all", false, cfg.LogPath); err != nil {
					return err
				}
			}
			return factorize.Run(ctx, db.Unwrap(), newLogger(), fromScratch)
		},
	}
	cmd.Flags().Bool("from-scratch", false, "drop existing groupings and start over")
	return cmd
}

func anomaliesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "anomalies [database]",
		Short: "Report anomalies left in the metadata",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			db, err := store.Open(dbPath(cfg, args))
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := anomalies.Detect(cmd.Context(), db.Unwrap(), func(path, msg string) {
				fmt.Printf("%s: %s\n", path, msg)
			})
			if err != nil {
				return err
			}
			fmt.Printf("%d anomalies\n", n)
			return nil
		},
	}
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [directory]",
		Short: "Watch a directory for new dump archives",
		Long: `Watch the dump directory and report each archive once it has been
fully written. Interrupt with Ctrl-C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			dir := cfg.DumpDir
			if len(args) > 0 {
				dir = args[0]
			}
			debounce, err := cfg.Debounce()
			if err != nil {
				return err
			}

			w, err := watch.New(watch.Config{Dir: dir, Debounce: debounce, Logger: newLogger()})
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}
			defer w.Close()

			fmt.Printf("watching %s\n", dir)
			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case ev := <-w.Events():
					fmt.Printf("%s %s at %s\n", ev.Op, ev.Path, ev.Time.Format("15:04:05"))
				}
			}
		},
	}
}

func calendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar <date>",
		Short: "Convert a French-locale date to ISO",
		Long: `Convert a date written the way LEGI titles write them, Gregorian or
Republican, to ISO 8601.

Example:
  legifr calendar "6 janvier 1978"
  legifr calendar "18 brumaire an VIII"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			parts := strings.Fields(args[0])
			if len(parts) == 4 && strings.EqualFold(parts[2], "an") {
				parts = []string{parts[0], parts[1], parts[2] + " " + parts[3]}
			}
			if len(parts) != 3 {
				return fmt.Errorf("expected a date like \"21 décembre 2006\", got %q", args[0])
			}
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%v", r)
				}
			}()
			iso, cal := frcal.ConvertDateToISO(parts[0], parts[1], parts[2])
			fmt.Printf("%s (%s)\n", iso, cal)
			return nil
		},
	}
}
