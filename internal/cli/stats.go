package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tfidf/config"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics of the stored index",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output as JSON")
}

func runStats(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	sess, err := openSession(0)
	if err != nil {
		return err
	}
	defer sess.Close()

	stats := sess.snap.Index.Stats()
	build := sess.snap.Build

	if statsJSON {
		return writeJSON(out, struct {
			Stats interface{} `json:"stats"`
			Build interface{} `json:"build"`
		}{stats, build})
	}

	a := build.Analyzer
	fmt.Fprintf(out, "Index:            %s\n", config.IndexDBPath(GetRootDir()))
	fmt.Fprintf(out, "Built at:         %s\n", build.BuiltAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(out, "Fingerprint:      %s\n", build.Fingerprint)
	fmt.Fprintf(out, "Documents:        %d\n", stats.Documents)
	fmt.Fprintf(out, "Vocabulary size:  %d\n", stats.VocabularySize)
	fmt.Fprintf(out, "Non-zero weights: %d\n", stats.NonZero)
	fmt.Fprintf(out, "Terms per doc:    %.2f\n", stats.AvgTermsPerDoc)
	fmt.Fprintf(out, "N-gram range:     %d-%d\n", a.NGramMin, a.NGramMax)
	fmt.Fprintf(out, "Stemming:         %v\n", a.Stemming)
	fmt.Fprintf(out, "Stop words:       %d\n", len(a.StopWords))

	terms := sess.snap.Index.Vocabulary().Terms()
	if len(terms) > 10 {
		terms = terms[:10]
	}
	fmt.Fprintf(out, "First terms:      %s\n", strings.Join(terms, ", "))
	return nil
}
