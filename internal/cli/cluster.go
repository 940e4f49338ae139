package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tfidf/internal/adapter/cluster"
	"tfidf/internal/usecase"
)

var (
	clusterK        int
	clusterSeed     int64
	clusterMaxIter  int
	clusterTopTerms int
	clusterJSON     bool
)

var clusterCmd = &cobra.Command{
	Use:   "cluster",
	Short: "Group the indexed documents by topic with k-means",
	Long: `Partition the indexed documents into k clusters with k-means over their
TF-IDF vectors. Runs with the same seed give the same clusters.

Examples:
  tfidf cluster -k 5
  tfidf cluster -k 8 --seed 7 --top-terms 10 --json`,
	RunE: runCluster,
}

func init() {
	rootCmd.AddCommand(clusterCmd)
	clusterCmd.Flags().IntVarP(&clusterK, "clusters", "k", 0, "number of clusters (default from config)")
	clusterCmd.Flags().Int64Var(&clusterSeed, "seed", 0, "random seed for initial centroids (default from config)")
	clusterCmd.Flags().IntVar(&clusterMaxIter, "max-iter", 0, "maximum iterations (default from config)")
	clusterCmd.Flags().IntVar(&clusterTopTerms, "top-terms", 0, "terms shown per cluster (default from config)")
	clusterCmd.Flags().BoolVar(&clusterJSON, "json", false, "output as JSON")
}

func runCluster(cmd *cobra.Command, args []string) error {
	c := GetConfig().Cluster
	out := cmd.OutOrStdout()
	flags := cmd.Flags()

	opts := cluster.Options{K: c.K, MaxIterations: c.MaxIterations, Seed: c.Seed}
	if flags.Changed("clusters") {
		opts.K = clusterK
	}
	if flags.Changed("seed") {
		opts.Seed = clusterSeed
	}
	if flags.Changed("max-iter") {
		opts.MaxIterations = clusterMaxIter
	}
	topTerms := c.TopTerms
	if flags.Changed("top-terms") {
		topTerms = clusterTopTerms
	}

	sess, err := openSession(0)
	if err != nil {
		return err
	}
	defer sess.Close()

	clusterUC := usecase.NewClusterUseCase(sess.snap.Index, log.WithField("component", "cluster"))
	result, err := clusterUC.Cluster(opts, topTerms)
	if err != nil {
		return err
	}

	if clusterJSON {
		return writeJSON(out, result.Clusters)
	}

	status := "converged"
	if !result.Converged {
		status = "stopped at max iterations"
	}
	fmt.Fprintf(out, "%d clusters after %d iterations (%s)\n\n", len(result.Clusters), result.Iterations, status)
	for _, cl := range result.Clusters {
		fmt.Fprintf(out, "Cluster %d (%d documents): %s\n", cl.ID, len(cl.Members), strings.Join(cl.TopTerms, ", "))
		for _, pos := range cl.Members {
			doc, err := sess.retriever.Document(pos)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "  [%d] %s\n", pos, truncate(preview(doc.Text), 70))
		}
		fmt.Fprintln(out)
	}
	return nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
