package fs

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"tfidf/internal/domain"
)

// LoadCSV reads one document per record of a CSV file with a header row.
// The text comes from column; every other column is kept in Fields. Empty
// cells give empty documents, which the caller may want to report.
func LoadCSV(path, column string) ([]domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: file is empty: %s", domain.ErrEmptyCorpus, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	textCol := -1
	for i, name := range header {
		if name == column {
			textCol = i
			break
		}
	}
	if textCol < 0 {
		return nil, fmt.Errorf("%w: column %q not found in csv (available columns: %s)",
			domain.ErrInvalidParameter, column, strings.Join(header, ", "))
	}

	var docs []domain.Document
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv record: %w", err)
		}

		// quoted cells may span lines
		line, _ := r.FieldPos(0)
		doc := domain.Document{
			Position: len(docs),
			Source:   path + ":" + strconv.Itoa(line),
		}
		for i, name := range header {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			if i == textCol {
				doc.Text = value
				continue
			}
			if doc.Fields == nil {
				doc.Fields = make(map[string]string, len(header)-1)
			}
			doc.Fields[name] = value
		}
		docs = append(docs, doc)
	}

	return docs, nil
}
