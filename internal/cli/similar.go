package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tfidf/internal/usecase"
)

var (
	similarDoc   int
	similarTopK  int
	similarJSON  bool
	similarNoMMR bool
)

var similarCmd = &cobra.Command{
	Use:   "similar",
	Short: "Find the documents most similar to an indexed document",
	Long: `Rank the other indexed documents against the stored vector of one document.
The document itself is never part of the results.

Examples:
  tfidf similar --doc 3
  tfidf similar --doc 0 --top-k 10 --json`,
	RunE: runSimilar,
}

func init() {
	rootCmd.AddCommand(similarCmd)
	similarCmd.Flags().IntVar(&similarDoc, "doc", -1, "position of the document (required)")
	similarCmd.Flags().IntVarP(&similarTopK, "top-k", "k", 0, "number of results (default from config)")
	similarCmd.Flags().BoolVar(&similarJSON, "json", false, "output as JSON")
	similarCmd.Flags().BoolVar(&similarNoMMR, "no-mmr", false, "disable MMR reranking")
	similarCmd.MarkFlagRequired("doc")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	out := cmd.OutOrStdout()

	topK := cfg.Search.TopK
	if cmd.Flags().Changed("top-k") {
		topK = similarTopK
	}
	if topK < 1 {
		return fmt.Errorf("--top-k must be at least 1")
	}

	sess, err := openSession(0)
	if err != nil {
		return err
	}
	defer sess.Close()

	doc, err := sess.retriever.Document(similarDoc)
	if err != nil {
		return err
	}

	retrieveUC := usecase.NewRetrieveUseCase(sess.retriever, sess.retriever, sess.reranker(similarNoMMR))
	results, err := retrieveUC.Similar(similarDoc, topK)
	if err != nil {
		return fmt.Errorf("similarity search failed: %w", err)
	}

	if similarJSON {
		return writeJSON(out, toViews(results))
	}

	fmt.Fprintf(out, "Document %d: %s\n", doc.Position, preview(doc.Text))
	if noRelevant(results) {
		fmt.Fprintln(out, "\nNo similar documents found. The document shares no terms with the rest of the corpus.")
		return nil
	}
	printResults(out, fmt.Sprintf("document %d", doc.Position), results)
	return nil
}
