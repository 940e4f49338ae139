package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"tfidf/internal/domain"
)

const previewRunes = 200

// ResultView is the JSON form of one ranked document.
type ResultView struct {
	Rank     int               `json:"rank"`
	Position int               `json:"position"`
	Score    float64           `json:"score"`
	Source   string            `json:"source,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
	Text     string            `json:"text"`
}

// QueryView groups the results of one query for JSON output.
type QueryView struct {
	Query   string       `json:"query"`
	Results []ResultView `json:"results"`
}

func toViews(results []domain.ScoredDocument) []ResultView {
	views := make([]ResultView, len(results))
	for i, r := range results {
		views[i] = ResultView{
			Rank:     i + 1,
			Position: r.Document.Position,
			Score:    r.Score,
			Source:   r.Document.Source,
			Fields:   r.Document.Fields,
			Text:     r.Document.Text,
		}
	}
	return views
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// noRelevant reports whether results carry no signal at all.
func noRelevant(results []domain.ScoredDocument) bool {
	return len(results) == 0 || results[0].Score == 0
}

func printResults(w io.Writer, title string, results []domain.ScoredDocument) {
	rule := strings.Repeat("=", 80)
	fmt.Fprintf(w, "\n%s\n", rule)
	fmt.Fprintf(w, "Top %d Results for: %s\n", len(results), title)
	fmt.Fprintf(w, "%s\n\n", rule)

	for i, r := range results {
		fmt.Fprintf(w, "Rank %d | Similarity: %.4f | Document %d\n", i+1, r.Score, r.Document.Position)
		if r.Document.Source != "" {
			fmt.Fprintf(w, "  source: %s\n", r.Document.Source)
		}

		names := make([]string, 0, len(r.Document.Fields))
		for name := range r.Document.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(w, "  %s: %s\n", name, r.Document.Fields[name])
		}

		fmt.Fprintf(w, "  Text Preview: %s\n", preview(r.Document.Text))
		fmt.Fprintf(w, "%s\n\n", strings.Repeat("-", 80))
	}
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > previewRunes {
		return string(runes[:previewRunes]) + "..."
	}
	return text
}
