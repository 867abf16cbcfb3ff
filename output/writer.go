// Package output persists a run outcome: the success table, the failure
// manifest and the run summary.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mr-zlaam/googleMapScraper/engine"
	"github.com/mr-zlaam/googleMapScraper/models"
)

// failedHeader is the fixed header of the failure manifest.
var failedHeader = []string{models.ColumnURL, "error"}

// WriteSucceeded writes the success set to path. The header is
// outcome.Columns; fields a row never observed render as empty cells.
// A path ending in ".json" produces an indented JSON array of objects keyed
// by the same columns instead of CSV.
func WriteSucceeded(path string, outcome *engine.Outcome) error {
	rows := successRows(outcome)
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return writeJSON(path, outcome.Columns, rows)
	}
	return writeCSV(path, outcome.Columns, rows)
}

// WriteFailed writes one (url, error code) row per failed target.
func WriteFailed(path string, outcome *engine.Outcome) error {
	rows := make([][]string, 0, len(outcome.Failed))
	for _, p := range outcome.Failed {
		rows = append(rows, []string{p.URL, p.ErrorCode()})
	}
	return writeCSV(path, failedHeader, rows)
}

func successRows(outcome *engine.Outcome) [][]string {
	rows := make([][]string, 0, len(outcome.Succeeded))
	for _, p := range outcome.Succeeded {
		row := make([]string, len(outcome.Columns))
		for i, col := range outcome.Columns {
			if col == models.ColumnURL {
				row[i] = p.URL
				continue
			}
			row[i] = p.Get(models.Field(col))
		}
		rows = append(rows, row)
	}
	return rows
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return outputError(path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return outputError(path, err)
	}
	if err := f.Close(); err != nil {
		return outputError(path, err)
	}
	return nil
}

func writeJSON(path string, columns []string, rows [][]string) error {
	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		rec := make(map[string]string, len(columns))
		for i, col := range columns {
			rec[col] = row[i]
		}
		records = append(records, rec)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return outputError(path, err)
	}

	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return outputError(path, err)
	}
	if err := f.Close(); err != nil {
		return outputError(path, err)
	}
	return nil
}

// create truncates path, creating missing parent directories.
func create(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, outputError(path, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, outputError(path, err)
	}
	return f, nil
}

func outputError(path string, err error) error {
	return models.NewScrapeError(models.ErrCodeOutput, fmt.Sprintf("write %s", path), err)
}
