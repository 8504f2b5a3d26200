package faq

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/futig/support-bot/internal/entity"
)

// LoadCorpus reads question/answer pairs from a CSV file. The file must have
// a header row with "question" and "answer" columns; extra columns are
// ignored. An empty corpus (header only) is valid.
func LoadCorpus(path string) ([]entity.FAQEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrCorpusLoad, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", entity.ErrCorpusLoad, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", entity.ErrCorpusLoad, path)
	}

	questionIdx, answerIdx := -1, -1
	for i, column := range records[0] {
		switch strings.ToLower(strings.TrimSpace(column)) {
		case "question":
			questionIdx = i
		case "answer":
			answerIdx = i
		}
	}
	if questionIdx < 0 || answerIdx < 0 {
		return nil, fmt.Errorf("%w: %s is missing question/answer columns", entity.ErrCorpusLoad, path)
	}

	entries := make([]entity.FAQEntry, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) <= questionIdx || len(record) <= answerIdx {
			return nil, fmt.Errorf("%w: row %d has %d fields", entity.ErrCorpusLoad, i+2, len(record))
		}

		question := strings.TrimSpace(record[questionIdx])
		answer := strings.TrimSpace(record[answerIdx])
		if question == "" || answer == "" {
			return nil, fmt.Errorf("%w: row %d has an empty question or answer", entity.ErrCorpusLoad, i+2)
		}

		entries = append(entries, entity.FAQEntry{
			Question: question,
			Answer:   answer,
			Combined: question + " " + answer,
		})
	}

	return entries, nil
}
