package analyzer

import (
	"reflect"
	"testing"
)

func TestTokenizer_Tokenize_WithStemming(t *testing.T) {
	tok := NewTokenizer(Options{Stemming: true, StopWords: EnglishStopwords()})

	tokens := tok.Tokenize("running dogs are playing")
	if len(tokens) != 3 {
		t.Errorf("expected 3 tokens, got %d: %v", len(tokens), tokens)
	}

	hasRun := false
	for _, token := range tokens {
		if token == "run" {
			hasRun = true
		}
	}
	if !hasRun {
		t.Errorf("expected 'running' to be stemmed to 'run', got %v", tokens)
	}
}

func TestTokenizer_Tokenize_WithoutStemming(t *testing.T) {
	tok := NewTokenizer(Options{StopWords: EnglishStopwords()})

	tokens := tok.Tokenize("running dogs are playing")
	expected := []string{"running", "dogs", "playing"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("expected %v, got %v", expected, tokens)
	}
}

func TestTokenizer_DefaultsKeepStopwords(t *testing.T) {
	tok := NewTokenizer(Options{})

	tokens := tok.Tokenize("The cat sat")
	expected := []string{"the", "cat", "sat"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("expected %v, got %v", expected, tokens)
	}
}

func TestTokenizer_StopwordRemoval(t *testing.T) {
	tok := NewTokenizer(Options{StopWords: EnglishStopwords()})

	tokens := tok.Tokenize("the quick brown fox")
	for _, token := range tokens {
		if token == "the" {
			t.Errorf("stopword 'the' should be removed, got %v", tokens)
		}
	}
}

func TestTokenizer_ShortWordRemoval(t *testing.T) {
	tok := NewTokenizer(Options{})

	tokens := tok.Tokenize("a I go to")
	for _, token := range tokens {
		if len(token) < 2 {
			t.Errorf("short word should be removed: %s", token)
		}
	}

	tok = NewTokenizer(Options{MinTokenLength: 3})
	tokens = tok.Tokenize("go far away")
	if !reflect.DeepEqual(tokens, []string{"far", "away"}) {
		t.Errorf("expected words of 3+ runes, got %v", tokens)
	}
}

func TestTokenizer_NGrams(t *testing.T) {
	tok := NewTokenizer(Options{NGramMin: 1, NGramMax: 2, StopWords: EnglishStopwords()})

	tokens := tok.Tokenize("Love and happiness, love forever")
	expected := []string{
		"love", "happiness", "love", "forever",
		"love happiness", "happiness love", "love forever",
	}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("expected %v, got %v", expected, tokens)
	}
}

func TestTokenizer_BigramsOnly(t *testing.T) {
	tok := NewTokenizer(Options{NGramMin: 2, NGramMax: 2})

	tokens := tok.Tokenize("one")
	if len(tokens) != 0 {
		t.Errorf("expected no bigrams from a single word, got %v", tokens)
	}

	tokens = tok.Tokenize("one two three")
	if !reflect.DeepEqual(tokens, []string{"one two", "two three"}) {
		t.Errorf("unexpected bigrams: %v", tokens)
	}
}

func TestTokenizer_Deterministic(t *testing.T) {
	tok := NewTokenizer(Options{NGramMax: 3, Stemming: true})
	text := "Cats and dogs play; the dog ran after the cats!"

	first := tok.Tokenize(text)
	for i := 0; i < 5; i++ {
		if got := tok.Tokenize(text); !reflect.DeepEqual(got, first) {
			t.Fatalf("tokenize is not deterministic: %v vs %v", got, first)
		}
	}
}

func TestTokenizer_CountTokens(t *testing.T) {
	tok := NewTokenizer(Options{NGramMax: 2})

	count := tok.CountTokens("hello world this is a test")
	// 5 unigrams ("a" is too short) and 4 bigrams
	if count != 9 {
		t.Errorf("expected 9 terms, got %d", count)
	}
}

func TestTokenizer_EmptyInput(t *testing.T) {
	tok := NewTokenizer(Options{Stemming: true, NGramMax: 2})

	for _, input := range []string{"", "   \t\n ", "!!! ..."} {
		tokens := tok.Tokenize(input)
		if tokens == nil || len(tokens) != 0 {
			t.Errorf("expected empty non-nil slice for %q, got %#v", input, tokens)
		}
	}

	if count := tok.CountTokens(""); count != 0 {
		t.Errorf("expected 0 count for empty input, got %d", count)
	}
}

func TestStopwordSet(t *testing.T) {
	set := StopwordSet("none", []string{"Lyrics"})
	if _, ok := set["lyrics"]; !ok {
		t.Error("expected extra stop word to be lowercased and included")
	}
	if _, ok := set["the"]; ok {
		t.Error("expected 'none' to exclude the built-in list")
	}

	set = StopwordSet("english", nil)
	if _, ok := set["the"]; !ok {
		t.Error("expected english list to include 'the'")
	}
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"hello world", 2},
		{"hello_world", 1},
		{"hello-world", 2},
		{"func(x, y)", 3},
		{"CamelCase", 1},
		{"snake_case_name", 1},
		{"123numbers456", 1},
		{"café crème", 2},
	}

	for _, tt := range tests {
		words := splitWords(tt.input)
		if len(words) != tt.expected {
			t.Errorf("splitWords(%q) = %d words, want %d: %v", tt.input, len(words), tt.expected, words)
		}
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	original := NewTokenizer(Options{NGramMax: 2, Stemming: true, StopWords: StopwordSet("english", []string{"Foo"})})
	settings := original.Settings()

	if settings.NGramMin != 1 || settings.NGramMax != 2 || settings.MinTokenLength != 2 || !settings.Stemming {
		t.Errorf("unexpected settings %+v", settings)
	}
	for i := 1; i < len(settings.StopWords); i++ {
		if settings.StopWords[i-1] >= settings.StopWords[i] {
			t.Fatalf("stop words not sorted at %d", i)
		}
	}

	restored := FromSettings(settings)
	text := "The foo runners were running quickly through the park"
	got, want := restored.Tokenize(text), original.Tokenize(text)
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}
