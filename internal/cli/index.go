package cli

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"tfidf/config"
	"tfidf/internal/adapter/fs"
	"tfidf/internal/adapter/store"
	"tfidf/internal/usecase"
)

var (
	indexFormat string
	indexColumn string
	indexForce  bool
)

var indexCmd = &cobra.Command{
	Use:   "index <source>",
	Short: "Build the TF-IDF index of a corpus",
	Long: `Build the TF-IDF index of a corpus and store it in .tfidf/index.db within
the root directory. The index is rebuilt only when the corpus or the index
configuration changed, unless --force is given.

Examples:
  tfidf index songs.csv --column lyrics     # One document per CSV row
  tfidf index ./articles --format dir       # One document per file
  tfidf index corpus.txt --format lines     # One document per line`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVar(&indexFormat, "format", "", "corpus format: csv, dir or lines (default from config)")
	indexCmd.Flags().StringVar(&indexColumn, "column", "", "CSV column holding the text (default from config)")
	indexCmd.Flags().BoolVar(&indexForce, "force", false, "rebuild even if the index is up to date")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	out := cmd.OutOrStdout()
	source := args[0]

	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("source does not exist: %w", err)
	}

	format := cfg.Corpus.Format
	if indexFormat != "" {
		format = indexFormat
	}
	column := cfg.Corpus.TextColumn
	if indexColumn != "" {
		column = indexColumn
	}

	loader, err := fs.NewLoader(format, column, cfg.Corpus.Includes, cfg.Corpus.Excludes)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Loading dataset from %s...\n", source)
	docs, err := loader.Load(source)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}
	fmt.Fprintf(out, "Loaded %d documents\n", len(docs))

	if err := config.EnsureDir(GetRootDir()); err != nil {
		return fmt.Errorf("failed to create .tfidf directory: %w", err)
	}

	dbPath := config.IndexDBPath(GetRootDir())
	st, err := store.NewBoltStore(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open index store: %w", err)
	}
	defer st.Close()

	indexUC := usecase.NewIndexUseCase(st, cfg.Tokenizer(), cfg.VocabOptions(), log.WithField("component", "indexer"))

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	var startTime time.Time

	progressCallback := func(processed, total int) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			startTime = time.Now()
			bar = progressbar.NewOptions(total,
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Tokenizing[reset]"),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "[green]=[reset]",
					SaucerHead:    "[green]>[reset]",
					SaucerPadding: " ",
					BarStart:      "[",
					BarEnd:        "]",
				}),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprintln(cmd.ErrOrStderr())
				}),
			)
		}

		bar.Set(processed)

		if processed > 0 && processed < total {
			elapsed := time.Since(startTime)
			rate := float64(processed) / elapsed.Seconds()
			if rate > 0 {
				eta := time.Duration(float64(total-processed)/rate) * time.Second
				bar.Describe(fmt.Sprintf("[cyan]Tokenizing[reset] ETA: %s", formatDuration(eta)))
			}
		}
	}

	fingerprint, err := store.ComputeFingerprint(cfg, docs)
	if err != nil {
		return err
	}
	result, err := indexUC.Index(docs, fingerprint, indexForce, progressCallback)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if result.Skipped {
		fmt.Fprintf(out, "\nIndex is up to date (%s). Use --force to rebuild.\n", dbPath)
		return nil
	}

	fmt.Fprintf(out, "\nIndexing complete:\n")
	fmt.Fprintf(out, "  Documents:        %d\n", result.Stats.Documents)
	fmt.Fprintf(out, "  Empty documents:  %d\n", result.EmptyDocuments)
	fmt.Fprintf(out, "  Vocabulary size:  %d\n", result.Stats.VocabularySize)
	fmt.Fprintf(out, "  Feature matrix:   %d x %d (%d non-zero)\n",
		result.Stats.Documents, result.Stats.VocabularySize, result.Stats.NonZero)
	fmt.Fprintf(out, "  Took:             %s\n", formatDuration(result.Duration))
	fmt.Fprintf(out, "\nIndex stored at: %s\n", dbPath)
	return nil
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "<1s"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh%dm", h, m)
}
