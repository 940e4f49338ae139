package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tfidf/internal/adapter/cache"
	"tfidf/internal/usecase"
)

var (
	queryTexts     []string
	queryStdin     bool
	queryTopK      int
	queryThreshold float64
	queryJSON      bool
	queryNoMMR     bool
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Search the index",
	Long: `Rank the indexed documents against one or more queries by TF-IDF cosine
similarity. Queries come from repeated -q flags and, with --stdin, one per
line from standard input.

Examples:
  tfidf query -q "love and happiness"
  tfidf query -q "machine learning" -q "neural networks" --top-k 10 --json
  cat queries.txt | tfidf query --stdin`,
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
	queryCmd.Flags().StringArrayVarP(&queryTexts, "query", "q", nil, "search query (repeatable)")
	queryCmd.Flags().BoolVar(&queryStdin, "stdin", false, "read additional queries from stdin, one per line")
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 0, "number of results (default from config)")
	queryCmd.Flags().Float64Var(&queryThreshold, "threshold", 0, "minimum similarity (default from config)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output as JSON")
	queryCmd.Flags().BoolVar(&queryNoMMR, "no-mmr", false, "disable MMR reranking")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	out := cmd.OutOrStdout()

	topK := cfg.Search.TopK
	if cmd.Flags().Changed("top-k") {
		topK = queryTopK
	}
	if topK < 1 {
		return fmt.Errorf("--top-k must be at least 1")
	}
	threshold := cfg.Search.Threshold
	if cmd.Flags().Changed("threshold") {
		threshold = queryThreshold
	}

	queries := append([]string(nil), queryTexts...)
	if queryStdin {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				queries = append(queries, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read queries: %w", err)
		}
	}
	if len(queries) == 0 {
		return fmt.Errorf("no query given. Use -q or --stdin")
	}
	for _, q := range queries {
		if strings.TrimSpace(q) == "" {
			return fmt.Errorf("query cannot be empty")
		}
	}

	sess, err := openSession(threshold)
	if err != nil {
		return err
	}
	defer sess.Close()

	queryCache := cache.NewQueryCache(cfg.Search.CacheSize, cfg.Search.CacheTTL)
	cached := cache.NewCachedRetriever(sess.retriever, queryCache)
	retrieveUC := usecase.NewRetrieveUseCase(cached, sess.retriever, sess.reranker(queryNoMMR))

	views := make([]QueryView, 0, len(queries))
	for _, q := range queries {
		results, err := retrieveUC.Retrieve(q, topK)
		if err != nil {
			return fmt.Errorf("search failed: %w", err)
		}

		if queryJSON {
			views = append(views, QueryView{Query: q, Results: toViews(results)})
			continue
		}

		fmt.Fprintf(out, "Searching for: '%s'\n", q)
		if noRelevant(results) {
			fmt.Fprintln(out, "\nNo relevant results found. Query words may not exist in the corpus.")
			fmt.Fprintln(out, "Try different search terms or check for typos.")
			fmt.Fprintln(out)
			continue
		}
		printResults(out, q, results)
	}

	hits, misses := queryCache.Stats()
	log.WithField("hits", hits).WithField("misses", misses).Debug("Query cache")

	if queryJSON {
		return writeJSON(out, views)
	}
	return nil
}
