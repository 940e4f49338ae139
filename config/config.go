package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"tfidf/internal/adapter/analyzer"
	"tfidf/internal/adapter/vocab"
	"tfidf/internal/domain"
)

// Config holds all configuration for the tfidf tool.
type Config struct {
	Analyzer   AnalyzerConfig   `yaml:"analyzer"`
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Corpus     CorpusConfig     `yaml:"corpus"`
	Search     SearchConfig     `yaml:"search"`
	Cluster    ClusterConfig    `yaml:"cluster"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// AnalyzerConfig holds tokenization configuration.
type AnalyzerConfig struct {
	NGramMin       int      `yaml:"ngram_min"`
	NGramMax       int      `yaml:"ngram_max"`
	StopWords      string   `yaml:"stop_words"` // "english" or "none"
	ExtraStopWords []string `yaml:"extra_stop_words"`
	Stemming       bool     `yaml:"stemming"`
	MinTokenLength int      `yaml:"min_token_length"`
}

// VocabularyConfig holds vocabulary pruning configuration.
type VocabularyConfig struct {
	MaxFeatures int     `yaml:"max_features"`
	MinDF       DocFreq `yaml:"min_df"`
	MaxDF       DocFreq `yaml:"max_df"`
}

// CorpusConfig describes how documents are read.
type CorpusConfig struct {
	Format     string   `yaml:"format"` // "csv", "dir" or "lines"
	TextColumn string   `yaml:"text_column"`
	Includes   []string `yaml:"includes"`
	Excludes   []string `yaml:"excludes"`
}

// SearchConfig holds query configuration.
type SearchConfig struct {
	TopK        int           `yaml:"top_k"`
	Threshold   float64       `yaml:"threshold"`
	MMRLambda   float64       `yaml:"mmr_lambda"` // 0 disables reranking
	DedupCosine float64       `yaml:"dedup_cosine"`
	CacheSize   int           `yaml:"cache_size"`
	CacheTTL    time.Duration `yaml:"cache_ttl"`
}

// ClusterConfig holds k-means configuration.
type ClusterConfig struct {
	K             int   `yaml:"k"`
	MaxIterations int   `yaml:"max_iterations"`
	Seed          int64 `yaml:"seed"`
	TopTerms      int   `yaml:"top_terms"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// DocFreq is a document-frequency bound. YAML integers are absolute
// document counts, YAML floats are fractions of the corpus.
type DocFreq struct {
	Value    float64
	Fraction bool
	Set      bool
}

func (d *DocFreq) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: document frequency must be a number", node.Line)
	}
	switch node.ShortTag() {
	case "!!int":
		n, err := strconv.Atoi(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*d = DocFreq{Value: float64(n), Set: true}
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*d = DocFreq{Value: f, Fraction: true, Set: true}
	case "!!null":
		*d = DocFreq{}
	default:
		return fmt.Errorf("line %d: document frequency must be a number, got %q", node.Line, node.Value)
	}
	return nil
}

func (d DocFreq) MarshalYAML() (interface{}, error) {
	if !d.Set {
		return nil, nil
	}
	if d.Fraction {
		// keep a decimal point so 1.0 reads back as a fraction
		v := strconv.FormatFloat(d.Value, 'f', -1, 64)
		if !strings.Contains(v, ".") {
			v += ".0"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: v}, nil
	}
	return int(d.Value), nil
}

// Bound converts d into a vocabulary bound.
func (d DocFreq) Bound() vocab.DFBound {
	switch {
	case !d.Set:
		return vocab.DFBound{}
	case d.Fraction:
		return vocab.Fraction(d.Value)
	default:
		return vocab.Absolute(int(d.Value))
	}
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Analyzer: AnalyzerConfig{
			NGramMin:       1,
			NGramMax:       2,
			StopWords:      "english",
			Stemming:       false,
			MinTokenLength: 2,
		},
		Vocabulary: VocabularyConfig{
			MaxFeatures: 10000,
			MinDF:       DocFreq{Value: 1, Set: true},
		},
		Corpus: CorpusConfig{
			Format:     "csv",
			TextColumn: "text",
			Includes:   []string{"**/*.txt", "**/*.md"},
			Excludes:   []string{"**/.git/**", "**/.tfidf/**", "**/node_modules/**"},
		},
		Search: SearchConfig{
			TopK:        5,
			Threshold:   0,
			MMRLambda:   0,
			DedupCosine: 0.95,
			CacheSize:   100,
			CacheTTL:    5 * time.Minute,
		},
		Cluster: ClusterConfig{
			K:             5,
			MaxIterations: 100,
			Seed:          42,
			TopTerms:      5,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Analyzer.NGramMin < 1 || c.Analyzer.NGramMax < c.Analyzer.NGramMin {
		return fmt.Errorf("%w: ngram range [%d, %d]", domain.ErrInvalidParameter, c.Analyzer.NGramMin, c.Analyzer.NGramMax)
	}
	for name, df := range map[string]DocFreq{"min_df": c.Vocabulary.MinDF, "max_df": c.Vocabulary.MaxDF} {
		if df.Set && (df.Value < 0 || math.IsNaN(df.Value) || math.IsInf(df.Value, 0)) {
			return fmt.Errorf("%w: %s must be a non-negative number, got %v", domain.ErrInvalidParameter, name, df.Value)
		}
	}
	switch c.Corpus.Format {
	case "csv", "dir", "lines":
	default:
		return fmt.Errorf("%w: unknown corpus format %q", domain.ErrInvalidParameter, c.Corpus.Format)
	}
	if c.Search.TopK < 1 {
		return fmt.Errorf("%w: top_k must be at least 1, got %d", domain.ErrInvalidParameter, c.Search.TopK)
	}
	if c.Search.MMRLambda < 0 || c.Search.MMRLambda > 1 {
		return fmt.Errorf("%w: mmr_lambda must be within [0, 1], got %v", domain.ErrInvalidParameter, c.Search.MMRLambda)
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidParameter, err)
	}
	return nil
}

// Tokenizer builds the tokenizer described by the analyzer section.
func (c *Config) Tokenizer() *analyzer.Tokenizer {
	return analyzer.NewTokenizer(analyzer.Options{
		NGramMin:       c.Analyzer.NGramMin,
		NGramMax:       c.Analyzer.NGramMax,
		MinTokenLength: c.Analyzer.MinTokenLength,
		StopWords:      analyzer.StopwordSet(c.Analyzer.StopWords, c.Analyzer.ExtraStopWords),
		Stemming:       c.Analyzer.Stemming,
	})
}

// VocabOptions converts the vocabulary section into fit options.
func (c *Config) VocabOptions() vocab.Options {
	return vocab.Options{
		MaxFeatures: c.Vocabulary.MaxFeatures,
		MinDF:       c.Vocabulary.MinDF.Bound(),
		MaxDF:       c.Vocabulary.MaxDF.Bound(),
	}
}

// Load loads configuration from a YAML file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for tfidf.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "tfidf.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	path = filepath.Join(dir, ".tfidf", "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}

	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// IndexDBPath returns the path to the index database.
func IndexDBPath(dir string) string {
	return filepath.Join(dir, ".tfidf", "index.db")
}

// EnsureDir ensures the .tfidf directory exists.
func EnsureDir(dir string) error {
	return os.MkdirAll(filepath.Join(dir, ".tfidf"), 0755)
}
