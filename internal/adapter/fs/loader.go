package fs

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"tfidf/internal/domain"
	"tfidf/internal/port"
)

// Loader reads a corpus in one of the supported formats: "csv", "dir" or
// "lines".
type Loader struct {
	format string
	column string
	walker *Walker
}

var _ port.CorpusLoader = (*Loader)(nil)

func NewLoader(format, column string, includes, excludes []string) (*Loader, error) {
	switch format {
	case "csv", "dir", "lines":
	default:
		return nil, fmt.Errorf("%w: unknown corpus format %q", domain.ErrInvalidParameter, format)
	}
	return &Loader{
		format: format,
		column: column,
		walker: NewWalker(includes, excludes),
	}, nil
}

func (l *Loader) Load(path string) ([]domain.Document, error) {
	switch l.format {
	case "csv":
		return LoadCSV(path, l.column)
	case "dir":
		return LoadDir(l.walker, path)
	default:
		return LoadLines(path)
	}
}

// LoadDir reads one document per file the walker yields under root.
func LoadDir(walker port.FileWalker, root string) ([]domain.Document, error) {
	files, err := walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(files))
	for _, file := range files {
		text, err := ReadFile(file.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", file.Path, err)
		}
		source := file.Path
		if rel, err := filepath.Rel(absRoot, file.Path); err == nil {
			source = filepath.ToSlash(rel)
		}
		docs = append(docs, domain.Document{
			Position: len(docs),
			Source:   source,
			Text:     text,
		})
	}
	return docs, nil
}

// LoadLines reads one document per non-blank line of path.
func LoadLines(path string) ([]domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var docs []domain.Document
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		docs = append(docs, domain.Document{
			Position: len(docs),
			Source:   path + ":" + strconv.Itoa(line),
			Text:     text,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return docs, nil
}
