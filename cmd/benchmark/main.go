package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"tfidf/config"
	"tfidf/internal/adapter/analyzer"
	"tfidf/internal/adapter/retriever"
	"tfidf/internal/adapter/store"
	"tfidf/internal/port"
)

// Judgment lists the documents relevant to one query. Grades optionally
// weight the relevant positions for nDCG; unlisted relevant positions
// count as grade 1.
type Judgment struct {
	Query    string      `yaml:"query"`
	Relevant []int       `yaml:"relevant"`
	Grades   map[int]int `yaml:"grades"`
}

type judgmentFile struct {
	Queries []Judgment `yaml:"queries"`
}

type queryScore struct {
	Query     string
	Retrieved []int
	Precision float64
	Recall    float64
	RR        float64
	NDCG      float64
}

func main() {
	indexPath := flag.String("index", ".", "Path to the directory holding .tfidf")
	judgmentsPath := flag.String("judgments", "", "YAML file with queries and relevant document positions")
	topK := flag.Int("k", 10, "Number of results per query")
	flag.Parse()

	if *judgmentsPath == "" {
		fmt.Println("Usage: go run cmd/benchmark/main.go -index ./data -judgments judgments.yaml [-k 10]")
		fmt.Println("\nJudgments file:")
		fmt.Println("  queries:")
		fmt.Println("    - query: \"love and happiness\"")
		fmt.Println("      relevant: [0, 4]")
		fmt.Println("      grades: {0: 3}")
		os.Exit(1)
	}
	if *topK < 1 {
		fmt.Fprintln(os.Stderr, "Error: -k must be at least 1")
		os.Exit(1)
	}

	judgments, err := loadJudgments(*judgmentsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading judgments: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadFromDir(*indexPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	st, err := store.NewBoltStore(config.IndexDBPath(*indexPath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening index: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	snap, err := st.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading index: %v\n", err)
		os.Exit(1)
	}

	r, err := retriever.NewTFIDFRetriever(snap.Index, snap.Docs, analyzer.FromSettings(snap.Build.Analyzer), cfg.Search.Threshold)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating retriever: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("TF-IDF RETRIEVAL BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Documents indexed: %d\n", snap.Index.Len())
	fmt.Printf("Vocabulary size:   %d\n", snap.Index.Vocabulary().Len())
	fmt.Printf("Queries:           %d (k=%d)\n", len(judgments), *topK)
	fmt.Println()

	scores, err := evaluate(r, judgments, *topK)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search error: %v\n", err)
		os.Exit(1)
	}

	var mean queryScore
	for _, s := range scores {
		fmt.Printf("%-40s P@%d=%.3f R@%d=%.3f RR=%.3f nDCG=%.3f\n",
			truncate(s.Query, 40), *topK, s.Precision, *topK, s.Recall, s.RR, s.NDCG)
		mean.Precision += s.Precision
		mean.Recall += s.Recall
		mean.RR += s.RR
		mean.NDCG += s.NDCG
	}

	n := float64(len(scores))
	if n == 0 {
		return
	}
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("QUALITY METRICS:\n")
	fmt.Printf("  Mean precision@%d: %.3f\n", *topK, mean.Precision/n)
	fmt.Printf("  Mean recall@%d:    %.3f\n", *topK, mean.Recall/n)
	fmt.Printf("  MRR:               %.3f\n", mean.RR/n)
	fmt.Printf("  Mean nDCG@%d:      %.3f\n", *topK, mean.NDCG/n)
}

func loadJudgments(path string) ([]Judgment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f judgmentFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	for i, j := range f.Queries {
		if strings.TrimSpace(j.Query) == "" {
			return nil, fmt.Errorf("query %d is empty", i+1)
		}
	}
	return f.Queries, nil
}

func evaluate(r port.Retriever, judgments []Judgment, k int) ([]queryScore, error) {
	scores := make([]queryScore, 0, len(judgments))
	for _, j := range judgments {
		results, err := r.Search(j.Query, k)
		if err != nil {
			return nil, fmt.Errorf("query %q: %w", j.Query, err)
		}

		retrieved := make([]int, len(results))
		for i, res := range results {
			retrieved[i] = res.Document.Position
		}

		scores = append(scores, queryScore{
			Query:     j.Query,
			Retrieved: retrieved,
			Precision: retriever.PrecisionAtK(retrieved, j.Relevant),
			Recall:    retriever.RecallAtK(retrieved, j.Relevant),
			RR:        retriever.ReciprocalRank(retrieved, j.Relevant),
			NDCG:      retriever.NDCG(gains(retrieved, j), idealGains(j, k)),
		})
	}
	return scores, nil
}

func grade(j Judgment, pos int) float64 {
	if g, ok := j.Grades[pos]; ok {
		return float64(g)
	}
	for _, r := range j.Relevant {
		if r == pos {
			return 1
		}
	}
	return 0
}

func gains(retrieved []int, j Judgment) []float64 {
	out := make([]float64, len(retrieved))
	for i, pos := range retrieved {
		out[i] = grade(j, pos)
	}
	return out
}

func idealGains(j Judgment, k int) []float64 {
	seen := make(map[int]bool)
	var out []float64
	for _, pos := range j.Relevant {
		if !seen[pos] {
			seen[pos] = true
			out = append(out, grade(j, pos))
		}
	}
	for pos := range j.Grades {
		if !seen[pos] {
			seen[pos] = true
			out = append(out, grade(j, pos))
		}
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(out)))
	if len(out) > k {
		out = out[:k]
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
